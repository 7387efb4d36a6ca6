package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	// Primary colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	// UI colors
	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Progress lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
}

// buildTheme creates a theme with the given [light, dark] colors
func buildTheme(name string, primary, secondary, accent, success, warning, errorColor, border, muted, progress, selected [2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary: lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Accent:    lipgloss.AdaptiveColor{Light: accent[0], Dark: accent[1]},
		Success:   lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:   lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:     lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Border:    lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:     lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Progress:  lipgloss.AdaptiveColor{Light: progress[0], Dark: progress[1]},
		Selected:  lipgloss.AdaptiveColor{Light: selected[0], Dark: selected[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#B91C1C", "#F87171"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#B45309", "#FBBF24"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#059669", "#10B981"},
		[2]string{"#FEF3C7", "#7F1D1D"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#006600", "#00FF00"},
		[2]string{"#FFFF00", "#444444"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"}, [2]string{"#4A5568", "#CBD5E0"},
		[2]string{"#2F855A", "#68D391"}, [2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"},
		[2]string{"#E2E8F0", "#2D3748"}, [2]string{"#A0AEC0", "#718096"}, [2]string{"#2F855A", "#68D391"},
		[2]string{"#EDF2F7", "#2D3748"})
)

var (
	currentTheme  = DefaultTheme
	colorDisabled bool
)

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default", "":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// SetColorMode applies a color mode (auto, always, never). noColor forces never.
func SetColorMode(mode string, noColor bool) {
	switch {
	case noColor || mode == "never":
		colorDisabled = true
	case mode == "always":
		colorDisabled = false
	default:
		colorDisabled = os.Getenv("NO_COLOR") != ""
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return colorDisabled
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Alert   lipgloss.Style

	// Inputs
	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	Option       lipgloss.Style

	// Buttons
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Panels
	Result  lipgloss.Style
	Failure lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
}

// GetStyles builds styles from the current theme. With colors disabled only
// layout and emphasis are kept.
func GetStyles() *Styles {
	theme := GetTheme()
	color := func(s lipgloss.Style, c lipgloss.AdaptiveColor) lipgloss.Style {
		if colorDisabled {
			return s
		}
		return s.Foreground(c)
	}
	border := func(s lipgloss.Style, c lipgloss.AdaptiveColor) lipgloss.Style {
		if colorDisabled {
			return s
		}
		return s.BorderForeground(c)
	}
	background := func(s lipgloss.Style, c lipgloss.AdaptiveColor) lipgloss.Style {
		if colorDisabled {
			return s.Reverse(true)
		}
		return s.Background(c)
	}

	return &Styles{
		Theme: theme,

		Title:   color(lipgloss.NewStyle().Bold(true).Padding(0, 1), theme.Primary),
		Label:   color(lipgloss.NewStyle().Width(18), theme.Secondary),
		Muted:   color(lipgloss.NewStyle(), theme.Muted),
		Success: color(lipgloss.NewStyle().Bold(true), theme.Success),
		Error:   color(lipgloss.NewStyle().Bold(true), theme.Error),
		Alert:   color(lipgloss.NewStyle().Bold(true), theme.Warning),

		Field:        lipgloss.NewStyle().Padding(0, 1),
		FieldFocused: background(color(lipgloss.NewStyle().Padding(0, 1).Bold(true), theme.Primary), theme.Selected),
		Option:       color(lipgloss.NewStyle(), theme.Accent),

		Button:         border(color(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).Bold(true), theme.Primary), theme.Primary),
		ButtonDisabled: border(color(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2), theme.Muted), theme.Border),

		Result:  border(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2), theme.Accent),
		Failure: border(color(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2), theme.Error), theme.Error),

		ProgressFilled: color(lipgloss.NewStyle().Bold(true), theme.Progress),
		ProgressEmpty:  color(lipgloss.NewStyle(), theme.Muted),
	}
}
