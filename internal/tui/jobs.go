package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/copyqueue/internal/format"
	"github.com/agbru/copyqueue/internal/results"
	"github.com/agbru/copyqueue/internal/stats"
)

type jobState int

const (
	jobQueued jobState = iota
	jobRunning
	jobDone
	jobFaulted
	jobCancelled
)

func (s jobState) String() string {
	switch s {
	case jobRunning:
		return "running"
	case jobDone:
		return "done"
	case jobFaulted:
		return "faulted"
	case jobCancelled:
		return "cancelled"
	default:
		return "queued"
	}
}

type jobRow struct {
	name   string
	state  jobState
	status stats.ExitStatus
	files  stats.Values
	fault  string
}

// JobsModel is the list of queued jobs with their live state.
type JobsModel struct {
	rows   []jobRow
	index  map[string]int
	cursor int
	width  int
	height int
}

// NewJobsModel lists names in queue order, all queued.
func NewJobsModel(names []string) JobsModel {
	m := JobsModel{
		rows:  make([]jobRow, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		m.rows[i] = jobRow{name: n}
		m.index[n] = i
	}
	return m
}

func (m *JobsModel) row(name string) *jobRow {
	i, ok := m.index[name]
	if !ok {
		return nil
	}
	return &m.rows[i]
}

// SetStarted marks name as running.
func (m *JobsModel) SetStarted(name string) {
	if r := m.row(name); r != nil && r.state == jobQueued {
		r.state = jobRunning
	}
}

// SetCompleted records the final status of name. A faulted job keeps its
// faulted state.
func (m *JobsModel) SetCompleted(name string, status stats.ExitStatus, files stats.Values) {
	r := m.row(name)
	if r == nil {
		return
	}
	r.status = status
	r.files = files
	switch {
	case r.state == jobFaulted:
	case status.WasCancelled():
		r.state = jobCancelled
	default:
		r.state = jobDone
	}
}

// SetFaulted marks name as faulted.
func (m *JobsModel) SetFaulted(name string, err error) {
	if r := m.row(name); r != nil {
		r.state = jobFaulted
		r.status = stats.SeriousError
		if err != nil {
			r.fault = err.Error()
		}
	}
}

// Reconcile applies the final snapshots of a run, settling jobs that never
// reported a completion.
func (m *JobsModel) Reconcile(snaps []*results.Snapshot) {
	for _, s := range snaps {
		m.SetCompleted(s.JobName(), s.Status(), s.Files().Values)
	}
}

// Counts returns the number of jobs per coarse state.
func (m JobsModel) Counts() (queued, running, finished int) {
	for _, r := range m.rows {
		switch r.state {
		case jobQueued:
			queued++
		case jobRunning:
			running++
		default:
			finished++
		}
	}
	return queued, running, finished
}

// MoveUp moves the cursor up one row.
func (m *JobsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// MoveDown moves the cursor down one row.
func (m *JobsModel) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
}

// Selected returns the fault message of the row under the cursor, if any.
func (m JobsModel) Selected() (name, fault string) {
	if len(m.rows) == 0 {
		return "", ""
	}
	r := m.rows[m.cursor]
	return r.name, r.fault
}

// SetSize updates the panel dimensions.
func (m *JobsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// View renders the visible rows, scrolled to keep the cursor in view.
func (m JobsModel) View() string {
	visible := len(m.rows)
	if m.height > 0 {
		visible = min(visible, m.height)
	}
	first := 0
	if m.cursor >= visible {
		first = m.cursor - visible + 1
	}

	nameWidth := 4
	for _, r := range m.rows {
		nameWidth = max(nameWidth, len(r.name))
	}

	lines := make([]string, 0, visible)
	for i := first; i < first+visible && i < len(m.rows); i++ {
		r := m.rows[i]
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		files := ""
		if r.state != jobQueued {
			files = fmt.Sprintf("%s files", format.FormatNumber(r.files.Total))
			if r.files.Failed > 0 {
				files += failedStyle.Render(fmt.Sprintf(" (%s failed)", format.FormatNumber(r.files.Failed)))
			}
		}
		lines = append(lines, fmt.Sprintf("%s%s  %s  %s",
			marker, jobNameStyle.Render(padRight(r.name, nameWidth)), stateLabel(r), files))
	}
	return strings.Join(lines, "\n")
}

// stateLabel renders the state column of a row.
func stateLabel(r jobRow) string {
	text := padRight(r.state.String(), 9)
	switch r.state {
	case jobRunning:
		return runningStyle.Render(text)
	case jobFaulted:
		return failedStyle.Render(text)
	case jobCancelled:
		return warningStyle.Render(text)
	case jobDone:
		switch {
		case r.status.HasErrors():
			return failedStyle.Render(text)
		case r.status.HasWarnings():
			return warningStyle.Render(text)
		}
		return doneStyle.Render(text)
	default:
		return queuedStyle.Render(text)
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
