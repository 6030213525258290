// Package sidebar provides the sidebar component.
package sidebar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Props defines the properties for the sidebar component.
type Props struct {
	View   string
	Width  int
	Height int
	Tabs   []string
	Tab    int
	Active bool
}

// Render renders the sidebar component with the view tabs as its title.
func Render(p Props) string {
	sidebarStyle := lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color("63"))

	if p.Active {
		sidebarStyle = sidebarStyle.BorderForeground(lipgloss.Color("205"))
	}

	titleStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		PaddingBottom(1)

	return sidebarStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(Tabs(p.Tabs, p.Tab)),
		p.View,
	))
}

// Tabs renders the tab names with the active one highlighted.
func Tabs(names []string, active int) string {
	on := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	off := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	parts := make([]string, len(names))
	for i, name := range names {
		if i == active {
			parts[i] = on.Render(name)
			continue
		}
		parts[i] = off.Render(name)
	}
	return strings.Join(parts, " | ")
}
