package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display.
// It shows microseconds for durations less than a millisecond, milliseconds for
// durations less than a second, and the default string representation otherwise.
// This approach provides a more human-readable output for short durations.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: A formatted string representing the duration.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatETA formats a remaining-time estimate. Unknown estimates (zero or
// negative) render as "--:--"; otherwise the result is mm:ss, or h:mm:ss
// from one hour on.
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "--:--"
	}
	eta = eta.Round(time.Second)
	h := int(eta / time.Hour)
	m := int(eta%time.Hour) / int(time.Minute)
	s := int(eta%time.Minute) / int(time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// EstimateETA extrapolates the remaining time from the work done so far. It
// returns zero while no work is done or when the total is unknown.
func EstimateETA(done, total int64, elapsed time.Duration) time.Duration {
	if done <= 0 || total <= 0 || elapsed <= 0 {
		return 0
	}
	if done >= total {
		return 0
	}
	perItem := float64(elapsed) / float64(done)
	return time.Duration(perItem * float64(total-done))
}
