package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/copyqueue/internal/stats"
)

// Recorder receives job lifecycle measurements.
type Recorder interface {
	JobStarted(job string)
	JobFinished(job string, status stats.ExitStatus, elapsed time.Duration, bytesCopied int64)
	JobFaulted(job string)
	SetActiveJobs(n int)
}

// Nop is a Recorder that discards everything.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) JobStarted(string)                                          {}
func (Nop) JobFinished(string, stats.ExitStatus, time.Duration, int64) {}
func (Nop) JobFaulted(string)                                          {}
func (Nop) SetActiveJobs(int)                                          {}

// StatusLabel maps an exit status to the value of the status label.
func StatusLabel(s stats.ExitStatus) string {
	switch {
	case s.WasCancelled():
		return "cancelled"
	case s.HasErrors():
		return "failed"
	default:
		return "success"
	}
}

// Prometheus is a Recorder backed by a private Prometheus registry, which
// also carries the Go runtime and process collectors.
type Prometheus struct {
	registry *prometheus.Registry
	handler  http.Handler

	jobsStarted  prometheus.Counter
	jobsFinished *prometheus.CounterVec
	jobFaults    prometheus.Counter
	activeJobs   prometheus.Gauge
	jobDuration  prometheus.Histogram
	bytesCopied  prometheus.Counter
	activeHTTP   prometheus.Gauge
	httpRequests *prometheus.CounterVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates and registers every collector.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		registry: reg,
		jobsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "copyqueue_jobs_started_total",
			Help: "Total number of copy jobs started.",
		}),
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "copyqueue_jobs_finished_total",
			Help: "Total number of copy jobs finished, by status.",
		}, []string{"status"}),
		jobFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "copyqueue_job_faults_total",
			Help: "Total number of unhandled job faults.",
		}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "copyqueue_active_jobs",
			Help: "Number of jobs currently running or paused.",
		}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "copyqueue_job_duration_seconds",
			Help:    "Wall-clock duration of copy jobs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
		bytesCopied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "copyqueue_bytes_copied_total",
			Help: "Total number of bytes reported copied by finished jobs.",
		}),
		activeHTTP: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "copyqueue_active_requests",
			Help: "Number of in-flight HTTP requests on the metrics server.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "copyqueue_requests_total",
			Help: "Total number of HTTP requests on the metrics server.",
		}, []string{"path", "code"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.jobsStarted, p.jobsFinished, p.jobFaults, p.activeJobs,
		p.jobDuration, p.bytesCopied, p.activeHTTP, p.httpRequests,
	)
	p.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return p
}

// Registry returns the private registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler returns the exposition handler.
func (p *Prometheus) Handler() http.Handler { return p.handler }

// WritePrometheus serves the exposition format.
func (p *Prometheus) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}

func (p *Prometheus) JobStarted(string) { p.jobsStarted.Inc() }

func (p *Prometheus) JobFinished(_ string, status stats.ExitStatus, elapsed time.Duration, bytesCopied int64) {
	p.jobsFinished.WithLabelValues(StatusLabel(status)).Inc()
	p.jobDuration.Observe(elapsed.Seconds())
	if bytesCopied > 0 {
		p.bytesCopied.Add(float64(bytesCopied))
	}
}

func (p *Prometheus) JobFaulted(string) { p.jobFaults.Inc() }

func (p *Prometheus) SetActiveJobs(n int) { p.activeJobs.Set(float64(n)) }

// IncrementActiveRequests marks an HTTP request as in flight.
func (p *Prometheus) IncrementActiveRequests() { p.activeHTTP.Inc() }

// DecrementActiveRequests marks an HTTP request as done.
func (p *Prometheus) DecrementActiveRequests() { p.activeHTTP.Dec() }

// ObserveRequest counts a served HTTP request.
func (p *Prometheus) ObserveRequest(path string, code int) {
	p.httpRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}
