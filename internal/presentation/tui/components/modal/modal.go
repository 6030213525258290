// Package modal provides centered dialog boxes.
package modal

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/tesso57/sutra/internal/presentation/tui/metrics"
)

// Kind identifies the dialog being shown.
type Kind int

const (
	None Kind = iota
	AgentForm
	DeleteAgent
	Quit
	Help
)

// Props defines the properties for the modal component.
type Props struct {
	Visible bool
	Kind    Kind
	Title   string
	Body    string
	Width   int
	Height  int
}

// Render draws the dialog centered on a screen of Width x Height.
func Render(p Props) string {
	if !p.Visible {
		return ""
	}
	border := lipgloss.Color("63")
	switch p.Kind {
	case DeleteAgent, Quit:
		border = lipgloss.Color("196")
	case AgentForm:
		border = lipgloss.Color("205")
	}

	content := p.Body
	if p.Title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(p.Title),
			"",
			p.Body,
		)
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		MaxWidth(metrics.ModalMaxWidth + 6).
		Render(content)

	if p.Width <= 0 || p.Height <= 0 {
		return box
	}
	return lipgloss.Place(p.Width, p.Height, lipgloss.Center, lipgloss.Center, box)
}
