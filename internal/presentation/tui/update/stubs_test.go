package update

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/tesso57/sutra/internal/application/settings"
	"github.com/tesso57/sutra/internal/application/usecase"
	"github.com/tesso57/sutra/internal/domain/curation"
	"github.com/tesso57/sutra/internal/presentation/tui/state"
)

// fakeRemote is an in-memory curation service. Methods with a registered
// expectation on the embedded mock answer from it instead.
type fakeRemote struct {
	mock.Mock

	mu        sync.Mutex
	topics    []curation.Topic
	items     map[int64][]curation.ContentItem
	saved     []curation.SavedEntry
	refreshed []int64
	deleted   []int64
}

func (f *fakeRemote) expects(method string) bool {
	for _, call := range f.ExpectedCalls {
		if call.Method == method {
			return true
		}
	}
	return false
}

func (f *fakeRemote) SubmitOnboarding(_ context.Context, userID int64, interests string) (curation.OnboardingResult, error) {
	if f.expects("SubmitOnboarding") {
		args := f.Called(userID, interests)
		result, _ := args.Get(0).(curation.OnboardingResult)
		return result, args.Error(1)
	}
	form, err := curation.ParseInterest(interests)
	if err != nil {
		return curation.OnboardingResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	topic := curation.Topic{
		ID:                 int64(100 + len(f.topics)),
		TopicName:          form.TopicName,
		Description:        form.Details,
		TopicType:          form.Type,
		FeedSource:         form.FeedSource,
		LearningPeriodDays: form.LearningPeriodDays,
	}
	f.topics = append(f.topics, topic)
	return curation.OnboardingResult{TopicsAdded: []curation.Topic{topic}}, nil
}

func (f *fakeRemote) ListTopics(_ context.Context, _ int64) ([]curation.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.topics), nil
}

func (f *fakeRemote) UpdateTopic(_ context.Context, topicID int64, patch curation.TopicPatch) (*curation.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.topics {
		if f.topics[i].ID == topicID {
			patch.Apply(&f.topics[i])
			topic := f.topics[i]
			return &topic, nil
		}
	}
	return nil, fmt.Errorf("topic %d: %w", topicID, curation.ErrNotFound)
}

func (f *fakeRemote) DeleteTopic(_ context.Context, topicID int64) error {
	if f.expects("DeleteTopic") {
		return f.Called(topicID).Error(0)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, topicID)
	f.topics = slices.DeleteFunc(f.topics, func(t curation.Topic) bool { return t.ID == topicID })
	delete(f.items, topicID)
	return nil
}

func (f *fakeRemote) GetFeed(_ context.Context, userID int64, _ string) (curation.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := curation.Snapshot{UserID: userID}
	for _, t := range f.topics {
		if items, ok := f.items[t.ID]; ok {
			snap.Topics = append(snap.Topics, curation.TopicFeed{TopicID: t.ID, TopicName: t.TopicName, Items: slices.Clone(items)})
		}
	}
	return snap, nil
}

func (f *fakeRemote) RefreshAll(_ context.Context, _ int64) (curation.RefreshResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, 0)
	return curation.RefreshResult{Message: "Feed refreshed", TotalItemsFetched: 2}, nil
}

func (f *fakeRemote) RefreshTopic(_ context.Context, userID, topicID int64) (curation.RefreshResult, error) {
	if f.expects("RefreshTopic") {
		args := f.Called(userID, topicID)
		result, _ := args.Get(0).(curation.RefreshResult)
		return result, args.Error(1)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, topicID)
	return curation.RefreshResult{Message: "Topic refreshed"}, nil
}

func (f *fakeRemote) SaveContent(_ context.Context, userID, contentID int64) (curation.SavedEntry, error) {
	if f.expects("SaveContent") {
		args := f.Called(userID, contentID)
		entry, _ := args.Get(0).(curation.SavedEntry)
		return entry, args.Error(1)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entry := curation.SavedEntry{ID: int64(500 + len(f.saved)), UserID: userID, ContentID: contentID}
	for _, items := range f.items {
		for _, item := range items {
			if item.ID == contentID {
				entry.Content = item
			}
		}
	}
	f.saved = append(f.saved, entry)
	return entry, nil
}

func (f *fakeRemote) ListSaved(_ context.Context, _ int64) ([]curation.SavedEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.saved), nil
}

func (f *fakeRemote) Unsave(_ context.Context, savedID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.saved)
	f.saved = slices.DeleteFunc(f.saved, func(e curation.SavedEntry) bool { return e.ID == savedID })
	if len(f.saved) == before {
		return fmt.Errorf("saved %d: %w", savedID, curation.ErrNotFound)
	}
	return nil
}

var testSession = curation.Session{UserID: 7, Username: "ada"}

func seededRemote() *fakeRemote {
	return &fakeRemote{
		topics: []curation.Topic{
			{ID: 1, TopicName: "Cricket", TopicType: curation.TopicTypeFeed, FeedSource: curation.FeedSourceInternet},
			{ID: 2, TopicName: "Python", TopicType: curation.TopicTypeLearning, LearningPeriodDays: 3, CurrentDay: 1},
			{ID: 3, TopicName: "Space", TopicType: curation.TopicTypeFeed, FeedSource: curation.FeedSourceAI},
			{ID: 4, TopicName: "Rust", TopicType: curation.TopicTypeLearning, LearningPeriodDays: 2, CurrentDay: 3, IsCompleted: true},
		},
		items: map[int64][]curation.ContentItem{
			1: {{ID: 10, TopicID: 1, Title: "Match report", URL: "https://example.com/10"}, {ID: 11, TopicID: 1, Title: "Squad"}},
			2: {{ID: 20, TopicID: 2, Title: "Day 1"}},
			3: {{ID: 30, TopicID: 3, Title: "Launch"}},
		},
	}
}

// newTestDeps loads a workspace over remote and returns a state synced to it.
func newTestDeps(remote *fakeRemote) (*state.ModelState, Deps) {
	ws := usecase.NewWorkspace(remote, zerolog.Nop())
	if err := ws.Load(context.Background(), testSession); err != nil {
		panic(err)
	}
	deps := Deps{Workspace: ws, Session: testSession}

	s := &state.ModelState{
		Session:   state.TopicView,
		Tab:       usecase.FeedView,
		Help:      help.New(),
		Keys:      state.NewKeyMap(testKeyMapConfig()),
		TopicList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		ItemList:  list.New(nil, list.NewDefaultDelegate(), 0, 0),
		SavedList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		Viewport:  viewport.New(0, 0),
		Width:     120,
		Height:    40,
	}
	SyncLists(s, ws)
	return s, deps
}

func testKeyMapConfig() settings.KeyMapConfig {
	return settings.KeyMapConfig{
		Up: "k", Down: "j", Left: "h", Right: "l",
		UpPage: "ctrl+u", DownPage: "ctrl+d", Top: "g", Bottom: "G",
		Open: "enter", Back: "esc", Quit: "q",
		NewFeedAgent: "a", NewLearningAgent: "A", EditAgent: "e", DeleteAgent: "x",
		Refresh: "r", RefreshAll: "R", Save: "s", SwitchView: "tab", SavedView: "v",
	}
}
