// Package mainview provides the main content area component.
package mainview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Props defines the properties for the main view component.
type Props struct {
	Width  int
	Height int
	Header string
	Notice string
	Body   string
}

// Render renders the main view component. A notice is drawn in red between
// the header and the body.
func Render(p Props) string {
	mainStyle := lipgloss.NewStyle().
		Width(p.Width).
		Height(p.Height).
		PaddingLeft(1)

	parts := make([]string, 0, 3)
	if p.Header != "" {
		parts = append(parts, p.Header)
	}
	if p.Notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(p.Notice))
	}
	if p.Body != "" {
		parts = append(parts, p.Body)
	}
	return mainStyle.Render(strings.Join(parts, "\n"))
}
