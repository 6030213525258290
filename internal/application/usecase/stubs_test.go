package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// stubRemote is an in-memory curation service. Expectations registered on the
// embedded mock take precedence for the methods that check them.
type stubRemote struct {
	mock.Mock

	mu          sync.Mutex
	topics      []curation.Topic
	snapshot    curation.Snapshot
	saved       []curation.SavedEntry
	nextSavedID int64
	interests   []string
	saveCalls   int
	refreshed   []int64
}

func (s *stubRemote) SubmitOnboarding(ctx context.Context, userID int64, interests string) (curation.OnboardingResult, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID, interests)
		result, _ := args.Get(0).(curation.OnboardingResult)
		return result, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interests = append(s.interests, interests)
	form, err := curation.ParseInterest(interests)
	if err != nil {
		return curation.OnboardingResult{}, err
	}
	topic := curation.Topic{
		ID:                 int64(len(s.topics) + 1),
		TopicName:          form.TopicName,
		Description:        form.Details,
		TopicType:          form.Type,
		FeedSource:         form.FeedSource,
		LearningPeriodDays: form.LearningPeriodDays,
	}
	s.topics = append(s.topics, topic)
	return curation.OnboardingResult{TopicsAdded: []curation.Topic{topic}, TopicsLinked: []string{topic.TopicName}}, nil
}

func (s *stubRemote) ListTopics(ctx context.Context, userID int64) ([]curation.Topic, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID)
		topics, _ := args.Get(0).([]curation.Topic)
		return topics, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.topics), nil
}

func (s *stubRemote) UpdateTopic(ctx context.Context, topicID int64, patch curation.TopicPatch) (*curation.Topic, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(topicID, patch)
		topic, _ := args.Get(0).(*curation.Topic)
		return topic, args.Error(1)
	}
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

func (s *stubRemote) DeleteTopic(ctx context.Context, topicID int64) error {
	if len(s.ExpectedCalls) > 0 {
		return s.Called(topicID).Error(0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = slices.DeleteFunc(s.topics, func(t curation.Topic) bool { return t.ID == topicID })
	s.snapshot.Topics = slices.DeleteFunc(slices.Clone(s.snapshot.Topics), func(tf curation.TopicFeed) bool { return tf.TopicID == topicID })
	return nil
}

func (s *stubRemote) GetFeed(ctx context.Context, userID int64, date string) (curation.Snapshot, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID, date)
		snap, _ := args.Get(0).(curation.Snapshot)
		return snap, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := curation.Snapshot{UserID: userID}
	for _, tf := range s.snapshot.Topics {
		out.Topics = append(out.Topics, curation.TopicFeed{TopicID: tf.TopicID, TopicName: tf.TopicName, Items: slices.Clone(tf.Items)})
	}
	return out, nil
}

func (s *stubRemote) RefreshAll(ctx context.Context, userID int64) (curation.RefreshResult, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID)
		result, _ := args.Get(0).(curation.RefreshResult)
		return result, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = append(s.refreshed, 0)
	return curation.RefreshResult{Message: "refreshed"}, nil
}

func (s *stubRemote) RefreshTopic(ctx context.Context, userID, topicID int64) (curation.RefreshResult, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID, topicID)
		result, _ := args.Get(0).(curation.RefreshResult)
		return result, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshed = append(s.refreshed, topicID)
	for i := range s.snapshot.Topics {
		if s.snapshot.Topics[i].TopicID == topicID {
			next := int64(1000 + len(s.refreshed))
			items := append([]curation.ContentItem{{ID: next, TopicID: topicID, Title: "fresh"}}, s.snapshot.Topics[i].Items...)
			s.snapshot.Topics[i].Items = items
		}
	}
	return curation.RefreshResult{Message: "refreshed"}, nil
}

func (s *stubRemote) SaveContent(ctx context.Context, userID, contentID int64) (curation.SavedEntry, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID, contentID)
		entry, _ := args.Get(0).(curation.SavedEntry)
		return entry, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	for _, e := range s.saved {
		if e.ContentID == contentID {
			return curation.SavedEntry{}, fmt.Errorf("content already saved: %w", curation.ErrValidation)
		}
	}
	s.nextSavedID++
	entry := curation.SavedEntry{ID: s.nextSavedID, UserID: userID, ContentID: contentID}
	s.saved = append(s.saved, entry)
	return entry, nil
}

func (s *stubRemote) ListSaved(ctx context.Context, userID int64) ([]curation.SavedEntry, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID)
		entries, _ := args.Get(0).([]curation.SavedEntry)
		return entries, args.Error(1)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.saved), nil
}

func (s *stubRemote) Unsave(ctx context.Context, savedID int64) error {
	if len(s.ExpectedCalls) > 0 {
		return s.Called(savedID).Error(0)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.saved)
	s.saved = slices.DeleteFunc(s.saved, func(e curation.SavedEntry) bool { return e.ID == savedID })
	if len(s.saved) == before {
		return fmt.Errorf("saved %d: %w", savedID, curation.ErrNotFound)
	}
	return nil
}

func (s *stubRemote) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

type stubUsers struct {
	mock.Mock
	users map[int64]curation.User
}

func (s *stubUsers) CreateUser(ctx context.Context, reg curation.Registration) (curation.User, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(reg)
		user, _ := args.Get(0).(curation.User)
		return user, args.Error(1)
	}
	if s.users == nil {
		s.users = make(map[int64]curation.User)
	}
	user := curation.User{ID: int64(len(s.users) + 1), Name: reg.Name, Email: reg.Email, Username: reg.Username}
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUsers) GetUser(ctx context.Context, userID int64) (curation.User, error) {
	if len(s.ExpectedCalls) > 0 {
		args := s.Called(userID)
		user, _ := args.Get(0).(curation.User)
		return user, args.Error(1)
	}
	user, ok := s.users[userID]
	if !ok {
		return curation.User{}, fmt.Errorf("user not found: %w", curation.ErrNotFound)
	}
	return user, nil
}

type memorySessions struct {
	session curation.Session
	saves   int
}

func (m *memorySessions) Load() (curation.Session, error) { return m.session, nil }

func (m *memorySessions) Save(session curation.Session) error {
	m.session = session
	m.saves++
	return nil
}

func (m *memorySessions) Clear() error {
	m.session = curation.Session{}
	return nil
}

func seededRemote() *stubRemote {
	return &stubRemote{
		topics: []curation.Topic{
			{ID: 1, TopicName: "Cricket news", TopicType: curation.TopicTypeFeed, FeedSource: curation.FeedSourceInternet},
			{ID: 2, TopicName: "Python", TopicType: curation.TopicTypeLearning, FeedSource: curation.FeedSourceAI, LearningPeriodDays: 3, CurrentDay: 1},
			{ID: 3, TopicName: "Space", TopicType: curation.TopicTypeFeed, FeedSource: curation.FeedSourceAI},
		},
		snapshot: curation.Snapshot{Topics: []curation.TopicFeed{
			{TopicID: 1, Items: []curation.ContentItem{{ID: 10, TopicID: 1, Title: "Match report", URL: "https://example.com/10"}, {ID: 11, TopicID: 1, Title: "Squad"}}},
			{TopicID: 2, Items: []curation.ContentItem{{ID: 20, TopicID: 2, Title: "Day 1"}}},
			{TopicID: 3, Items: []curation.ContentItem{{ID: 30, TopicID: 3, Title: "Launch"}}},
		}},
	}
}

var testSession = curation.Session{UserID: 7, Username: "ada"}
