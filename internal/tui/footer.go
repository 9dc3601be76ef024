package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key help and a one-line status message.
type FooterModel struct {
	help    help.Model
	keys    KeyMap
	message string
	isError bool
	width   int
}

// NewFooterModel creates a footer for keys.
func NewFooterModel(keys KeyMap) FooterModel {
	h := help.New()
	h.Styles.ShortKey = metricValueStyle
	h.Styles.ShortDesc = metricLabelStyle
	h.Styles.FullKey = metricValueStyle
	h.Styles.FullDesc = metricLabelStyle
	return FooterModel{help: h, keys: keys}
}

// ToggleHelp switches between the short and the full help.
func (f *FooterModel) ToggleHelp() {
	f.help.ShowAll = !f.help.ShowAll
}

// SetMessage shows msg next to the help.
func (f *FooterModel) SetMessage(msg string, isError bool) {
	f.message = msg
	f.isError = isError
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	view := f.help.View(f.keys)
	if f.message == "" {
		return view
	}
	style := statusDoneStyle
	if f.isError {
		style = statusErrorStyle
	}
	return lipgloss.JoinVertical(lipgloss.Left, style.Render(f.message), view)
}
