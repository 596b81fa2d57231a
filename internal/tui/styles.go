package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/n0roo/audit-kit/internal/response"
)

var (
	// Colors
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	warningColor   = lipgloss.Color("#F59E0B") // Yellow
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray

	// Base styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	// Status styles
	statusDoneStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	statusPendingStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(errorColor)

	statusMutedStyle = lipgloss.NewStyle().
				Foreground(mutedColor)

	// List item styles
	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#374151")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true).
				PaddingLeft(1).
				PaddingRight(1)

	normalItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	// Detail panel
	detailPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(1, 2)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Width(12)

	// Help style
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	// Progress bar
	progressFullStyle = lipgloss.NewStyle().
				Foreground(secondaryColor)

	progressEmptyStyle = lipgloss.NewStyle().
				Foreground(mutedColor)
)

// RenderProgressBar renders a progress bar
func RenderProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	empty := width - filled

	return progressFullStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", empty))
}

// ResultIcon returns an icon for a compliance result
func ResultIcon(status response.ResultStatus) string {
	switch status {
	case response.ResultCompliant:
		return statusDoneStyle.Render("✓")
	case response.ResultPartiallyCompliant:
		return statusPendingStyle.Render("◐")
	case response.ResultNonCompliant:
		return statusErrorStyle.Render("✗")
	case response.ResultNotApplicable:
		return statusMutedStyle.Render("–")
	default:
		return statusMutedStyle.Render("○")
	}
}

// WorkflowIcon returns an icon for a workflow status
func WorkflowIcon(status response.WorkflowStatus) string {
	switch status {
	case response.WorkflowDone:
		return statusDoneStyle.Render("●")
	case response.WorkflowInProgress:
		return statusPendingStyle.Render("◐")
	default:
		return statusMutedStyle.Render("○")
	}
}
