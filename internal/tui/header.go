package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/copyqueue/internal/format"
)

// runPhase is the dashboard's view of the orchestrator state.
type runPhase int

const (
	phaseRunning runPhase = iota
	phasePaused
	phaseStopping
	phaseDone
	phaseFailed
)

func (p runPhase) label() string {
	switch p {
	case phasePaused:
		return statusPausedStyle.Render("PAUSED")
	case phaseStopping:
		return statusPausedStyle.Render("STOPPING")
	case phaseDone:
		return statusDoneStyle.Render("DONE")
	case phaseFailed:
		return statusErrorStyle.Render("FAILED")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// HeaderModel renders the top bar: title, version, run phase and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	phase     runPhase
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
	}
}

// SetPhase updates the displayed phase. Terminal phases freeze the timer.
func (h *HeaderModel) SetPhase(p runPhase) {
	h.phase = p
	if (p == phaseDone || p == phaseFailed) && h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since the header was created, frozen once done.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "copyqueue"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := versionStyle.Render(" | ")
	elapsed := elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	row := titleStyle.Render(titleText) + pipe + h.phase.label() + pipe + elapsed
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += strings.Repeat(" ", gap)
	}
	return headerStyle.Width(max(h.width, 0)).Render(row)
}
