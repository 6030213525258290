package state

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/tesso57/sutra/internal/application/usecase"
)

// ModelState holds the presentation state for the TUI.
type ModelState struct {
	Session       Session
	Previous      Session
	DetailParent  Session
	Tab           usecase.View
	TopicList     list.Model
	ItemList      list.Model
	SavedList     list.Model
	Viewport      viewport.Model
	Help          help.Model
	Spinner       spinner.Model
	Form          AgentForm
	Keys          KeyMap
	Loading       bool
	LoadingText   string
	Width         int
	Height        int
	Err           error
	StatusMessage string
	Account       string
	PendingJJExit bool
}
