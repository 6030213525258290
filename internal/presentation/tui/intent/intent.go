// Package intent parses user input into UI intents.
package intent

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tesso57/sutra/internal/presentation/tui/state"
)

// Type represents a user intent.
type Type int

const (
	None Type = iota
	Quit
	ToggleHelp
	NewFeedAgent
	NewLearningAgent
	EditAgent
	DeleteAgent
	Open
	Back
	Refresh
	RefreshAll
	Save
	SwitchView
	ShowSaved
)

// Intent represents a parsed user intent.
type Intent struct {
	Type Type
}

// FromKeyMsg maps a key message to an intent.
func FromKeyMsg(msg tea.KeyMsg, keys state.KeyMap) Intent {
	switch {
	case key.Matches(msg, keys.Quit):
		return Intent{Type: Quit}
	case key.Matches(msg, keys.Help):
		return Intent{Type: ToggleHelp}
	case key.Matches(msg, keys.NewFeedAgent):
		return Intent{Type: NewFeedAgent}
	case key.Matches(msg, keys.NewLearningAgent):
		return Intent{Type: NewLearningAgent}
	case key.Matches(msg, keys.EditAgent):
		return Intent{Type: EditAgent}
	case key.Matches(msg, keys.DeleteAgent):
		return Intent{Type: DeleteAgent}
	case key.Matches(msg, keys.Right) || key.Matches(msg, keys.Open):
		return Intent{Type: Open}
	case key.Matches(msg, keys.Left) || key.Matches(msg, keys.Back):
		return Intent{Type: Back}
	case key.Matches(msg, keys.RefreshAll):
		return Intent{Type: RefreshAll}
	case key.Matches(msg, keys.Refresh):
		return Intent{Type: Refresh}
	case key.Matches(msg, keys.Save):
		return Intent{Type: Save}
	case key.Matches(msg, keys.SwitchView):
		return Intent{Type: SwitchView}
	case key.Matches(msg, keys.ShowSaved):
		return Intent{Type: ShowSaved}
	default:
		return Intent{Type: None}
	}
}
