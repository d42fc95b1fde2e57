package tui

import "github.com/charmbracelet/lipgloss"

// Color palette, swapped wholesale when the theme changes.
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() {
	applyTheme("dark")
}

// applyTheme swaps the palette and rebuilds every style from it. Valid
// names are "dark" and "light"; anything else falls back to dark.
func applyTheme(name string) {
	if name == "light" {
		colorPrimary = lipgloss.Color("#5B52E0")
		colorMuted = lipgloss.Color("#8A8A8A")
		colorSuccess = lipgloss.Color("#1E8449")
		colorWarning = lipgloss.Color("#B9770E")
		colorError = lipgloss.Color("#C0392B")
		colorFg = lipgloss.Color("#2D2D3A")
		colorSubtle = lipgloss.Color("#C8C8D8")
		colorHighlight = lipgloss.Color("#2563EB")
	} else {
		colorPrimary = lipgloss.Color("#6C63FF")
		colorMuted = lipgloss.Color("#666666")
		colorSuccess = lipgloss.Color("#2ECC71")
		colorWarning = lipgloss.Color("#F39C12")
		colorError = lipgloss.Color("#E74C3C")
		colorFg = lipgloss.Color("#C0CAF5")
		colorSubtle = lipgloss.Color("#414868")
		colorHighlight = lipgloss.Color("#7AA2F7")
	}

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
		Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	normalItemStyle = lipgloss.NewStyle().
		Foreground(colorFg)
}

// priorityStyle colors a priority tag: P0 red, P1 amber, the rest muted.
func priorityStyle(p string) lipgloss.Style {
	switch p {
	case "P0":
		return errorStyle
	case "P1":
		return warningStyle
	default:
		return mutedStyle
	}
}

// statusStyle colors a status label to match the report severities.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "Done":
		return successStyle
	case "InProgress":
		return warningStyle
	case "Blocked":
		return errorStyle
	default:
		return mutedStyle
	}
}

// allocationStyle colors a capacity cell total by its band.
func allocationStyle(total int) lipgloss.Style {
	switch {
	case total > 100:
		return errorStyle
	case total == 100:
		return successStyle
	case total > 0:
		return warningStyle
	default:
		return mutedStyle
	}
}
