package tui

import (
	"context"
	"fmt"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/tesso57/sutra/internal/application/settings"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui/update"
)

// stubRemote serves topics and items from memory. A registered expectation
// on the embedded mock overrides DeleteTopic and SaveContent.
type stubRemote struct {
	mock.Mock

	mu     sync.Mutex
	topics []curation.Topic
	items  map[int64][]curation.ContentItem
	saved  []curation.SavedEntry
}

func (s *stubRemote) SubmitOnboarding(_ context.Context, _ int64, interests string) (curation.OnboardingResult, error) {
	form, err := curation.ParseInterest(interests)
	if err != nil {
		return curation.OnboardingResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	topic := curation.Topic{ID: int64(100 + len(s.topics)), TopicName: form.TopicName, TopicType: form.Type, FeedSource: form.FeedSource, LearningPeriodDays: form.LearningPeriodDays}
	s.topics = append(s.topics, topic)
	return curation.OnboardingResult{TopicsAdded: []curation.Topic{topic}}, nil
}

func (s *stubRemote) ListTopics(_ context.Context, _ int64) ([]curation.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.topics), nil
}

func (s *stubRemote) UpdateTopic(_ context.Context, topicID int64, patch curation.TopicPatch) (*curation.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.topics {
		if s.topics[i].ID == topicID {
			patch.Apply(&s.topics[i])
			topic := s.topics[i]
			return &topic, nil
		}
	}
	return nil, fmt.Errorf("topic %d: %w", topicID, curation.ErrNotFound)
}

func (s *stubRemote) DeleteTopic(_ context.Context, topicID int64) error {
	if len(s.ExpectedCalls) > 0 {
		return s.Called(topicID).Error(0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = slices.DeleteFunc(s.topics, func(t curation.Topic) bool { return t.ID == topicID })
	delete(s.items, topicID)
	return nil
}

func (s *stubRemote) GetFeed(_ context.Context, userID int64, _ string) (curation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := curation.Snapshot{UserID: userID}
	for _, t := range s.topics {
		if items, ok := s.items[t.ID]; ok {
			snap.Topics = append(snap.Topics, curation.TopicFeed{TopicID: t.ID, Items: slices.Clone(items)})
		}
	}
	return snap, nil
}

func (s *stubRemote) RefreshAll(_ context.Context, _ int64) (curation.RefreshResult, error) {
	return curation.RefreshResult{Message: "refreshed"}, nil
}

func (s *stubRemote) RefreshTopic(_ context.Context, _, _ int64) (curation.RefreshResult, error) {
	return curation.RefreshResult{Message: "refreshed"}, nil
}

func (s *stubRemote) SaveContent(_ context.Context, userID, contentID int64) (curation.SavedEntry, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID, contentID)
		entry, _ := args.Get(0).(curation.SavedEntry)
		return entry, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := curation.SavedEntry{ID: int64(len(s.saved) + 1), UserID: userID, ContentID: contentID}
	s.saved = append(s.saved, entry)
	return entry, nil
}

func (s *stubRemote) ListSaved(_ context.Context, _ int64) ([]curation.SavedEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.saved), nil
}

func (s *stubRemote) Unsave(_ context.Context, savedID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = slices.DeleteFunc(s.saved, func(e curation.SavedEntry) bool { return e.ID == savedID })
	return nil
}

var testSession = curation.Session{UserID: 7, Username: "ada"}

func newStubRemote() *stubRemote {
	return &stubRemote{
		topics: []curation.Topic{
			{ID: 1, TopicName: "Cricket", TopicType: curation.TopicTypeFeed, FeedSource: curation.FeedSourceInternet},
			{ID: 2, TopicName: "Python", TopicType: curation.TopicTypeLearning, LearningPeriodDays: 4, CurrentDay: 2},
			{ID: 3, TopicName: "Space", TopicType: curation.TopicTypeFeed, FeedSource: curation.FeedSourceAI},
		},
		items: map[int64][]curation.ContentItem{
			1: {{ID: 10, TopicID: 1, Title: "Match report", URL: "https://example.com/10", Source: "Example"}},
			3: {{ID: 30, TopicID: 3, Title: "Launch"}, {ID: 31, TopicID: 3, Title: "Orbit"}},
		},
	}
}

func testSettings() settings.Settings {
	return settings.Settings{
		KeyMap: settings.KeyMapConfig{
			Up: "k", Down: "j", Left: "h", Right: "l",
			UpPage: "ctrl+u", DownPage: "ctrl+d", Top: "g", Bottom: "G",
			Open: "enter", Back: "esc", Quit: "q",
			NewFeedAgent: "a", NewLearningAgent: "A", EditAgent: "e", DeleteAgent: "x",
			Refresh: "r", RefreshAll: "R", Save: "s", SwitchView: "tab", SavedView: "v",
		},
		Theme: settings.ThemeConfig{TopicName: "244", Saved: "212", Completed: "42"},
	}
}

// newLoadedModel returns a sized model whose workspace has finished its
// initial load.
func newLoadedModel(remote *stubRemote) (*Model, *usecase.Workspace) {
	ws := usecase.NewWorkspace(remote, zerolog.Nop())
	m := NewModel(testSettings(), ws, testSession)
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if err := ws.Load(context.Background(), testSession); err != nil {
		panic(err)
	}
	m.Update(update.WorkspaceLoadedMsg{})
	return m, ws
}
