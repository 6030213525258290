// Package update holds UI update logic for the TUI.
package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// Deps groups external dependencies for updates.
type Deps struct {
	Workspace   *usecase.Workspace
	Session     curation.Session
	OpenBrowser func(string) error
}

// WorkspaceLoadedMsg is emitted after topics, snapshot and saved items load.
type WorkspaceLoadedMsg struct {
	Err error
}

// RefreshedMsg is emitted after a refresh and the reload that follows it.
// TopicID is zero for a refresh of every agent.
type RefreshedMsg struct {
	TopicID int64
	Result  curation.RefreshResult
	Err     error
}

// SaveToggledMsg is emitted after a save or unsave completes.
type SaveToggledMsg struct {
	ContentID int64
	Saved     bool
	Err       error
}

// SavedLoadedMsg is emitted after the saved list reloads.
type SavedLoadedMsg struct {
	Err error
}

// AgentSubmittedMsg is emitted after the agent form is submitted.
type AgentSubmittedMsg struct {
	TopicID int64
	Status  string
	Err     error
}

// AgentDeletedMsg is emitted after an agent is deleted.
type AgentDeletedMsg struct {
	TopicID int64
	Name    string
	Err     error
}

// LoadWorkspaceCmd loads topics, today's snapshot and the saved list.
func LoadWorkspaceCmd(ws *usecase.Workspace, s curation.Session) tea.Cmd {
	return func() tea.Msg {
		return WorkspaceLoadedMsg{Err: ws.Load(context.Background(), s)}
	}
}

// RefreshTopicCmd refreshes one agent, then reloads the topic list so
// learning progress is current.
func RefreshTopicCmd(ws *usecase.Workspace, s curation.Session, topic curation.Topic) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result, err := ws.Feed.RefreshOne(ctx, s, topic)
		if err == nil {
			_, _ = ws.LoadTopics(ctx, s)
		}
		return RefreshedMsg{TopicID: topic.ID, Result: result, Err: err}
	}
}

// RefreshAllCmd refreshes every agent of the user.
func RefreshAllCmd(ws *usecase.Workspace, s curation.Session) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result, err := ws.Feed.RefreshAll(ctx, s)
		if err == nil {
			_, _ = ws.LoadTopics(ctx, s)
		}
		return RefreshedMsg{Result: result, Err: err}
	}
}

// CompleteSaveCmd sends a save whose pending mark is already set.
func CompleteSaveCmd(ws *usecase.Workspace, s curation.Session, contentID int64) tea.Cmd {
	return func() tea.Msg {
		_, err := ws.Saved.Complete(context.Background(), s, contentID)
		return SaveToggledMsg{ContentID: contentID, Saved: err == nil, Err: err}
	}
}

// UnsaveContentCmd removes the bookmark of a content item.
func UnsaveContentCmd(ws *usecase.Workspace, contentID int64) tea.Cmd {
	return func() tea.Msg {
		err := ws.Saved.UnsaveContent(context.Background(), contentID)
		return SaveToggledMsg{ContentID: contentID, Saved: err != nil, Err: err}
	}
}

// UnsaveEntryCmd removes a bookmark by saved-entry id.
func UnsaveEntryCmd(ws *usecase.Workspace, savedID, contentID int64) tea.Cmd {
	return func() tea.Msg {
		err := ws.Saved.Unsave(context.Background(), savedID)
		return SaveToggledMsg{ContentID: contentID, Saved: err != nil, Err: err}
	}
}

// LoadSavedCmd reloads the saved list.
func LoadSavedCmd(ws *usecase.Workspace, s curation.Session) tea.Cmd {
	return func() tea.Msg {
		_, err := ws.Saved.List(context.Background(), s)
		return SavedLoadedMsg{Err: err}
	}
}

// CreateAgentCmd submits a new agent through onboarding.
func CreateAgentCmd(ws *usecase.Workspace, s curation.Session, form curation.AgentForm) tea.Cmd {
	return func() tea.Msg {
		result, err := ws.Topics.CreateFromForm(context.Background(), s, form)
		if err != nil {
			return AgentSubmittedMsg{Err: err}
		}
		msg := AgentSubmittedMsg{Status: result.Message}
		if len(result.TopicsAdded) > 0 {
			msg.TopicID = result.TopicsAdded[0].ID
		}
		if msg.Status == "" {
			msg.Status = fmt.Sprintf("Created agent %s", form.Normalized().TopicName)
		}
		return msg
	}
}

// UpdateAgentCmd applies an edit to an existing agent.
func UpdateAgentCmd(ws *usecase.Workspace, topicID int64, patch curation.TopicPatch) tea.Cmd {
	return func() tea.Msg {
		topic, err := ws.Topics.Update(context.Background(), topicID, patch)
		if err != nil {
			return AgentSubmittedMsg{TopicID: topicID, Err: err}
		}
		return AgentSubmittedMsg{TopicID: topicID, Status: fmt.Sprintf("Updated agent %s", topic.TopicName)}
	}
}

// DeleteAgentCmd deletes an agent and everything local that belongs to it.
func DeleteAgentCmd(ws *usecase.Workspace, topic curation.Topic) tea.Cmd {
	return func() tea.Msg {
		err := ws.DeleteTopic(context.Background(), topic.ID)
		return AgentDeletedMsg{TopicID: topic.ID, Name: topic.TopicName, Err: err}
	}
}
