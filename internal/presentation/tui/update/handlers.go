package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/presentation/tui/presenter"
	"github.com/tesso57/sutra/internal/presentation/tui/state"
	"github.com/tesso57/sutra/internal/presentation/tui/textutil"
)

// HandleWindowSize updates layout sizing based on terminal size.
func HandleWindowSize(s *state.ModelState, msg tea.WindowSizeMsg) {
	s.Width = msg.Width
	s.Height = msg.Height

	UpdateListSizes(s)
	refreshDetailIfOpen(s)
}

// SyncLists re-derives the sidebar, the item list and the saved list from
// the workspace.
func SyncLists(s *state.ModelState, ws *usecase.Workspace) {
	if s == nil || ws == nil {
		return
	}
	var activeID int64
	if topic, ok := ws.ActiveTopic(s.Tab); ok {
		activeID = topic.ID
	}
	presenter.ApplyTopicList(&s.TopicList, ws.TopicsFor(s.Tab), activeID)
	presenter.ApplyContentList(&s.ItemList, ws.Visible(s.Tab))
	presenter.ApplySavedList(&s.SavedList, ws.Saved.Entries())
	UpdateListSizes(s)
}

// HandleWorkspaceLoadedMsg applies the initial load. A failed load leaves
// empty lists and a footer status.
func HandleWorkspaceLoadedMsg(s *state.ModelState, msg WorkspaceLoadedMsg, deps Deps) {
	s.Loading = false
	s.Err = nil
	if msg.Err != nil {
		s.StatusMessage = fmt.Sprintf("Could not load everything: %v", msg.Err)
	}
	SyncLists(s, deps.Workspace)
}

// HandleRefreshedMsg reports a refresh outcome and re-derives the lists.
func HandleRefreshedMsg(s *state.ModelState, msg RefreshedMsg, deps Deps) {
	s.Loading = false
	switch {
	case msg.Err == nil:
		s.Err = nil
		s.StatusMessage = refreshStatus(msg)
	case errors.Is(msg.Err, usecase.ErrRefreshInFlight):
		s.StatusMessage = "Refresh already in progress"
	case errors.Is(msg.Err, usecase.ErrTopicCompleted):
		s.StatusMessage = "Learning plan is completed"
	default:
		s.StatusMessage = fmt.Sprintf("Refresh failed: %v", msg.Err)
	}
	SyncLists(s, deps.Workspace)
	refreshDetailIfOpen(s)
}

func refreshStatus(msg RefreshedMsg) string {
	status := msg.Result.Message
	if status == "" {
		status = "Refreshed"
	}
	if msg.Result.TotalItemsFetched > 0 {
		status = fmt.Sprintf("%s (%s)", status, textutil.Count(msg.Result.TotalItemsFetched, "item"))
	}
	return status
}

// HandleSaveToggledMsg resolves a save or unsave. A failed save has already
// been rolled back by the ledger.
func HandleSaveToggledMsg(s *state.ModelState, msg SaveToggledMsg, deps Deps) {
	switch {
	case msg.Err != nil && msg.Saved:
		s.StatusMessage = fmt.Sprintf("Could not remove from saved: %v", msg.Err)
	case msg.Err != nil:
		s.StatusMessage = fmt.Sprintf("Save failed: %v", msg.Err)
	case msg.Saved:
		s.StatusMessage = "Saved"
	default:
		s.StatusMessage = "Removed from saved"
	}
	SyncLists(s, deps.Workspace)
	refreshDetailIfOpen(s)
}

// HandleSavedLoadedMsg applies a reloaded saved list.
func HandleSavedLoadedMsg(s *state.ModelState, msg SavedLoadedMsg, deps Deps) {
	s.Loading = false
	if msg.Err != nil {
		s.StatusMessage = fmt.Sprintf("Could not load saved items: %v", msg.Err)
	} else if s.Session == state.SavedView {
		s.StatusMessage = textutil.Count(len(deps.Workspace.Saved.Entries()), "saved item")
	}
	SyncLists(s, deps.Workspace)
}

// HandleAgentSubmittedMsg closes the agent form on success and selects the
// created or edited agent. Errors stay in the form.
func HandleAgentSubmittedMsg(s *state.ModelState, msg AgentSubmittedMsg, deps Deps) {
	s.Loading = false
	if msg.Err != nil {
		if s.Session == state.AgentFormView {
			s.Form.Err = msg.Err.Error()
			return
		}
		s.StatusMessage = msg.Err.Error()
		return
	}

	ws := deps.Workspace
	topics := ws.Topics.Topics()
	for _, view := range usecase.Views {
		ws.Selection.Reconcile(view, topics)
	}
	if msg.TopicID != 0 {
		if view, err := ws.Select(msg.TopicID); err == nil {
			s.Tab = view
		}
	}
	s.Form = state.AgentForm{}
	s.Session = state.TopicView
	s.StatusMessage = msg.Status
	s.ItemList.ResetSelected()
	SyncLists(s, ws)
}

// HandleAgentDeletedMsg reports a delete. The workspace has already dropped
// the agent, its content and its saved items.
func HandleAgentDeletedMsg(s *state.ModelState, msg AgentDeletedMsg, deps Deps) {
	s.Loading = false
	if msg.Err != nil {
		s.StatusMessage = fmt.Sprintf("Delete failed: %v", msg.Err)
		return
	}
	s.StatusMessage = fmt.Sprintf("Deleted agent %s", msg.Name)
	s.ItemList.ResetSelected()
	SyncLists(s, deps.Workspace)
}
