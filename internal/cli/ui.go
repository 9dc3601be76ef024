//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/copyqueue/internal/format"
	"github.com/agbru/copyqueue/internal/orchestration"
	"github.com/agbru/copyqueue/internal/progress"
	"github.com/agbru/copyqueue/internal/ui"
)

const (
	// ProgressRefreshRate defines the animation frequency of the spinner.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth defines the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner is an interface that abstracts the behavior of a terminal spinner.
// This allows for the decoupling of the `DisplayProgress` function from a
// specific spinner implementation, facilitating easier testing and maintenance.
// It defines the essential controls for a spinner: starting, stopping, and
// updating its status message.
type Spinner interface {
	// Start begins the spinner animation.
	Start()
	// Stop halts the spinner animation.
	Stop()
	// UpdateSuffix sets the text that is displayed after the spinner.
	//
	// Parameters:
	//   - suffix: The text string to display.
	UpdateSuffix(suffix string)
}

// realSpinner is a wrapper for the `spinner.Spinner` that implements the
// `Spinner` interface. Suffix updates arrive from the progress publisher's
// goroutine, so they take the spinner's own lock.
type realSpinner struct {
	s *spinner.Spinner
}

// Start begins the spinner animation.
func (rs *realSpinner) Start() {
	rs.s.Start()
}

// Stop halts the spinner animation.
func (rs *realSpinner) Stop() {
	rs.s.Stop()
}

// UpdateSuffix sets the text that is displayed after the spinner.
func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with a progress bar, counters and an ETA
// until run is done, then prints the final totals on one line.
//
// Parameters:
//   - wg: Signalled when the display is complete.
//   - run: The run to follow.
//   - expectedFiles: The number of files the run should process, used for the
//     bar and the ETA. Zero disables both.
//   - out: The destination of the spinner.
func DisplayProgress(wg *sync.WaitGroup, run *orchestration.Run, expectedFiles int64, out io.Writer) {
	defer wg.Done()

	s := newSpinner(spinner.WithWriter(out))
	s.UpdateSuffix(" Starting...")
	s.Start()

	unsubscribe := run.Progress().Subscribe(func(t progress.Totals) {
		s.UpdateSuffix(progressSuffix(t, expectedFiles, run.Elapsed()))
	})

	<-run.Done()
	<-run.Progress().Done()
	unsubscribe()
	s.Stop()

	final := run.Progress().Totals()
	fmt.Fprintf(out, "%s✓%s %s\n", ui.ColorGreen(), ui.ColorReset(), countersLine(final))
}

// progressSuffix renders the text shown next to the spinner.
func progressSuffix(t progress.Totals, expectedFiles int64, elapsed time.Duration) string {
	counters := countersLine(t)
	if expectedFiles <= 0 {
		return " " + counters
	}
	done := t.Files.Total
	fraction := float64(done) / float64(expectedFiles)
	eta := format.EstimateETA(done, expectedFiles, elapsed)
	return fmt.Sprintf(" %s %3.0f%% %s ETA %s",
		format.ProgressBar(fraction, ProgressBarWidth), min(fraction, 1)*100, counters, format.FormatETA(eta))
}

// countersLine summarizes the progress totals.
func countersLine(t progress.Totals) string {
	line := fmt.Sprintf("%s files, %s copied", format.FormatNumber(t.Files.Total), format.FormatBytes(t.Bytes.Copied))
	if t.Files.Failed > 0 {
		line += fmt.Sprintf(", %s%s failed%s", ui.ColorRed(), format.FormatNumber(t.Files.Failed), ui.ColorReset())
	}
	return line
}
