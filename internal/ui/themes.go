package ui

import (
	"os"
	"slices"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a set of ANSI escape codes used by the line-oriented CLI output.
type Theme struct {
	Name string
	// Primary highlights job names and totals.
	Primary string
	// Secondary is used for labels and secondary figures.
	Secondary string
	// Success marks copied items and successful runs.
	Success string
	// Warning marks mismatches, extras and cancelled runs.
	Warning string
	// Error marks failed items, faults and timeouts.
	Error     string
	Info      string
	Bold      string
	Underline string
	Reset     string
}

// TUITheme is the lipgloss palette of the dashboard.
type TUITheme struct {
	Text    lipgloss.TerminalColor
	Border  lipgloss.TerminalColor
	Accent  lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Warning lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Info    lipgloss.TerminalColor
}

// Theme names accepted by SetTheme and the --theme flag.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeNone  = "none"
)

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      ThemeDark,
		Primary:   "\033[38;5;45m",  // cyan
		Secondary: "\033[38;5;247m", // grey
		Success:   "\033[38;5;78m",  // green
		Warning:   "\033[38;5;221m", // amber
		Error:     "\033[38;5;203m", // red
		Info:      "\033[38;5;147m", // lavender
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme uses darker tones readable on light backgrounds.
	LightTheme = Theme{
		Name:      ThemeLight,
		Primary:   "\033[38;5;25m",
		Secondary: "\033[38;5;242m",
		Success:   "\033[38;5;22m",
		Warning:   "\033[38;5;94m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;55m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme emits no escape codes at all.
	NoColorTheme = Theme{Name: ThemeNone}

	DarkTUITheme = TUITheme{
		Text:    lipgloss.Color("#D8DEE9"),
		Border:  lipgloss.Color("#4C566A"),
		Accent:  lipgloss.Color("#3FC5F0"),
		Success: lipgloss.Color("#73D08A"),
		Warning: lipgloss.Color("#F2C86B"),
		Error:   lipgloss.Color("#F0716B"),
		Dim:     lipgloss.Color("#6B7280"),
		Info:    lipgloss.Color("#B4A8F5"),
	}

	LightTUITheme = TUITheme{
		Text:    lipgloss.Color("#1F2933"),
		Border:  lipgloss.Color("#9AA5B1"),
		Accent:  lipgloss.Color("#0B69A3"),
		Success: lipgloss.Color("#1E7B34"),
		Warning: lipgloss.Color("#8A5A00"),
		Error:   lipgloss.Color("#B42318"),
		Dim:     lipgloss.Color("#7B8794"),
		Info:    lipgloss.Color("#5B3CC4"),
	}

	// NoColorTUITheme renders with the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:    lipgloss.NoColor{},
		Border:  lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Dim:     lipgloss.NoColor{},
		Info:    lipgloss.NoColor{},
	}
)

type themePair struct {
	cli Theme
	tui TUITheme
}

var registry = map[string]themePair{
	ThemeDark:  {DarkTheme, DarkTUITheme},
	ThemeLight: {LightTheme, LightTUITheme},
	ThemeNone:  {NoColorTheme, NoColorTUITheme},
}

var (
	themeMutex sync.RWMutex
	current    = registry[ThemeDark]
)

// ThemeNames returns the registered theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsTheme reports whether name is a registered theme.
func IsTheme(name string) bool {
	_, ok := registry[name]
	return ok
}

// GetCurrentTheme returns the active CLI theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return current.cli
}

// GetCurrentTUITheme returns the dashboard palette paired with the active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return current.tui
}

// SetCurrentTheme installs t, pairing it with the dashboard palette of the
// same name. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	pair, ok := registry[t.Name]
	if !ok {
		pair = registry[ThemeDark]
	}
	pair.cli = t
	current = pair
}

// SetTheme activates the named theme. Unknown names select the dark theme.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	pair, ok := registry[name]
	if !ok {
		pair = registry[ThemeDark]
	}
	current = pair
}

// InitTheme selects the theme for this process. noColor and a NO_COLOR
// environment variable (https://no-color.org/) both force ThemeNone.
func InitTheme(noColor bool, name string) {
	if noColor {
		SetTheme(ThemeNone)
		return
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		SetTheme(ThemeNone)
		return
	}
	SetTheme(name)
}
