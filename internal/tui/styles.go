package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#7D56F4")
	warning = lipgloss.Color("#FF5F87")
	muted   = lipgloss.Color("#626262")
)

type styles struct {
	title       lipgloss.Style
	label       lipgloss.Style
	field       lipgloss.Style
	focused     lipgloss.Style
	invalid     lipgloss.Style
	slot        lipgloss.Style
	slotFocused lipgloss.Style
	result      lipgloss.Style
	status      lipgloss.Style
}

func defaultStyles() styles {
	field := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)
	slot := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(muted).
		Width(3).
		Align(lipgloss.Center)

	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(accent),
		label:       lipgloss.NewStyle().Width(9),
		field:       field,
		focused:     field.BorderForeground(accent),
		invalid:     field.BorderForeground(warning).Background(lipgloss.Color("#5F0000")),
		slot:        slot,
		slotFocused: slot.BorderForeground(accent),
		result:      lipgloss.NewStyle().PaddingRight(2),
		status:      lipgloss.NewStyle().Foreground(muted),
	}
}
