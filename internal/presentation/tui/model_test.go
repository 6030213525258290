package tui

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui/presenter"
	"github.com/tesso57/sutra/internal/presentation/tui/state"
	"github.com/tesso57/sutra/internal/presentation/tui/update"
)

func TestNewModel(t *testing.T) {
	m := NewModel(testSettings(), usecase.NewWorkspace(newStubRemote(), zerolog.Nop()), testSession)

	if m.state.Session != state.TopicView {
		t.Errorf("Expected initial session TopicView, got %v", m.state.Session)
	}
	if m.state.Tab != usecase.FeedView {
		t.Errorf("Expected initial tab FeedView, got %v", m.state.Tab)
	}
	if cmd := m.Init(); cmd == nil {
		t.Error("Expected Init to start the workspace load")
	}
	if !m.state.Loading {
		t.Error("Expected loading while the workspace loads")
	}
}

func TestInitWithoutSession(t *testing.T) {
	m := NewModel(testSettings(), usecase.NewWorkspace(newStubRemote(), zerolog.Nop()), curation.Session{})

	if cmd := m.Init(); cmd != nil {
		t.Error("Expected no load without a session")
	}
	if !strings.Contains(m.state.StatusMessage, "sutra login") {
		t.Errorf("Unexpected status: %q", m.state.StatusMessage)
	}

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if !strings.Contains(m.View(), "Sign in to see your agents.") {
		t.Error("Expected sign-in hint in the main area")
	}
}

func TestLoadedModelShowsFeedTopics(t *testing.T) {
	m, _ := newLoadedModel(newStubRemote())

	if len(m.state.TopicList.Items()) != 2 {
		t.Fatalf("Expected 2 feed agents, got %d", len(m.state.TopicList.Items()))
	}
	if len(m.state.ItemList.Items()) != 1 {
		t.Fatalf("Expected 1 item for the first agent, got %d", len(m.state.ItemList.Items()))
	}

	out := m.View()
	for _, want := range []string{"Feed", "Learning", "Cricket", "Match report", "Signed in as ada"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestMovingHighlightSelectsTopic(t *testing.T) {
	m, ws := newLoadedModel(newStubRemote())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})

	topic, ok := ws.ActiveTopic(usecase.FeedView)
	if !ok || topic.ID != 3 {
		t.Fatalf("Expected Space active, got %+v", topic)
	}
	if len(m.state.ItemList.Items()) != 2 {
		t.Fatalf("Expected Space items, got %d", len(m.state.ItemList.Items()))
	}
	first := m.state.ItemList.Items()[0].(*presenter.ContentItem)
	if !first.IsGenerated() {
		t.Error("Expected generated items for an AI feed")
	}
}

func TestLearningTabShowsProgress(t *testing.T) {
	m, _ := newLoadedModel(newStubRemote())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.state.Tab != usecase.LearningView {
		t.Fatalf("Expected learning tab, got %v", m.state.Tab)
	}
	out := m.View()
	if !strings.Contains(out, "Python (day 2/4)") {
		t.Error("Expected learning progress in the sidebar")
	}
	if !strings.Contains(out, "day 2 of 4") {
		t.Error("Expected progress line in the header")
	}
	if !strings.Contains(out, "No items yet.") {
		t.Error("Expected empty-state text for a plan without items")
	}
}

func TestAgentFormModal(t *testing.T) {
	m, _ := newLoadedModel(newStubRemote())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if m.state.Session != state.AgentFormView {
		t.Fatalf("Expected agent form, got %v", m.state.Session)
	}
	out := m.View()
	if !strings.Contains(out, "New feed agent") || !strings.Contains(out, "Topic:") {
		t.Error("Expected the agent form dialog")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Go")})
	if got := m.state.Form.Value(state.FieldName); got != "Go" {
		t.Fatalf("Expected typed topic name, got %q", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state.Session != state.TopicView {
		t.Fatalf("Expected esc to close the form, got %v", m.state.Session)
	}
}

func TestCreateAgentThroughModel(t *testing.T) {
	m, ws := newLoadedModel(newStubRemote())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	m.state.Form.SetValue(state.FieldName, "Chess")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil || !m.state.Loading {
		t.Fatal("Expected submit to start loading")
	}
	if !strings.Contains(m.View(), "Creating agent...") {
		t.Error("Expected loading text inside the form")
	}

	values, err := m.state.Form.Values()
	if err != nil {
		t.Fatalf("Values() error: %v", err)
	}
	m.Update(update.CreateAgentCmd(ws, testSession, values)())

	if m.state.Session != state.TopicView {
		t.Fatalf("Expected form closed, got %v", m.state.Session)
	}
	topic, ok := ws.ActiveTopic(usecase.FeedView)
	if !ok || topic.TopicName != "Chess" {
		t.Fatalf("Expected new agent selected, got %+v", topic)
	}
	if len(m.state.TopicList.Items()) != 3 {
		t.Fatalf("Expected 3 feed agents, got %d", len(m.state.TopicList.Items()))
	}
}

func TestSaveFailureRollsBackMark(t *testing.T) {
	remote := newStubRemote()
	remote.On("SaveContent", int64(7), int64(10)).Return(curation.SavedEntry{}, curation.ErrServer)
	m, ws := newLoadedModel(remote)
	m.state.Session = state.ItemView

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if cmd == nil {
		t.Fatal("Expected save command")
	}
	if ws.Saved.State(10) != usecase.SavePending {
		t.Fatal("Expected pending mark")
	}

	m.Update(cmd())
	if ws.Saved.State(10) != usecase.NotSaved {
		t.Fatal("Expected mark rolled back")
	}
	if !strings.HasPrefix(m.state.StatusMessage, "Save failed") {
		t.Errorf("Unexpected status: %q", m.state.StatusMessage)
	}
	remote.AssertExpectations(t)
}

func TestDetailViewOpensBrowser(t *testing.T) {
	oldOpen := OSOpenCmd
	defer func() { OSOpenCmd = oldOpen }()

	var opened string
	OSOpenCmd = func(url string) *exec.Cmd {
		opened = url
		return exec.Command("echo", "mock open")
	}

	m, _ := newLoadedModel(newStubRemote())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	if m.state.Session != state.DetailView {
		t.Fatalf("Expected DetailView, got %v", m.state.Session)
	}
	if !strings.Contains(m.View(), "https://example.com/10") {
		t.Error("Expected link in detail view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if opened != "https://example.com/10" {
		t.Errorf("Expected browser opened with item link, got %q", opened)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newLoadedModel(newStubRemote())

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.state.Help.ShowAll {
		t.Fatal("Expected full help")
	}
	if !strings.Contains(m.View(), "pgdn") {
		t.Error("Expected full help in the modal")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state.Help.ShowAll {
		t.Fatal("Expected esc to close help")
	}
}

func TestRefreshLoadsAndReports(t *testing.T) {
	m, ws := newLoadedModel(newStubRemote())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil || !m.state.Loading {
		t.Fatal("Expected refresh to start loading")
	}
	if !strings.Contains(m.View(), "Refreshing Cricket...") {
		t.Error("Expected loading text in the main area")
	}

	topic, _ := ws.ActiveTopic(usecase.FeedView)
	result, err := ws.Feed.RefreshOne(context.Background(), testSession, topic)
	m.Update(update.RefreshedMsg{TopicID: topic.ID, Result: result, Err: err})
	if m.state.Loading || m.state.StatusMessage != "refreshed" {
		t.Fatalf("Unexpected state after refresh: loading=%v status=%q", m.state.Loading, m.state.StatusMessage)
	}
}
