package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// TopicRegistry keeps the local copy of the user's topics.
// The feed and learning views are derived from it on every call.
type TopicRegistry struct {
	store  TopicStore
	logger zerolog.Logger

	mu     *sync.Mutex
	seq    Sequencer
	topics []curation.Topic
}

// NewTopicRegistry constructs a TopicRegistry with its own lock.
func NewTopicRegistry(store TopicStore, logger zerolog.Logger) *TopicRegistry {
	return newTopicRegistry(store, logger, &sync.Mutex{})
}

func newTopicRegistry(store TopicStore, logger zerolog.Logger, mu *sync.Mutex) *TopicRegistry {
	return &TopicRegistry{
		store:  store,
		logger: logger,
		mu:     mu,
		topics: []curation.Topic{},
	}
}

// List fetches the user's topics and replaces the local set. A response that
// was overtaken by a later List is discarded and the current set is returned.
// On failure the local set becomes empty.
func (r *TopicRegistry) List(ctx context.Context, s curation.Session) ([]curation.Topic, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	r.mu.Lock()
	ticket := r.seq.Next()
	r.mu.Unlock()

	topics, err := r.store.ListTopics(ctx, s.UserID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.seq.Apply(ticket) {
		r.logger.Debug().Uint64("ticket", ticket).Msg("discarding stale topic list")
		return slices.Clone(r.topics), nil
	}
	if err != nil {
		r.topics = []curation.Topic{}
		r.logger.Warn().Err(err).Int64("user_id", s.UserID).Msg("list topics failed")
		return []curation.Topic{}, fmt.Errorf("list topics: %w", err)
	}
	r.topics = slices.Clone(topics)
	if r.topics == nil {
		r.topics = []curation.Topic{}
	}
	return slices.Clone(r.topics), nil
}

// CreateFromForm validates and composes the form, submits it, and reloads the list.
func (r *TopicRegistry) CreateFromForm(ctx context.Context, s curation.Session, form curation.AgentForm) (curation.OnboardingResult, error) {
	text, err := form.Compose()
	if err != nil {
		return curation.OnboardingResult{}, err
	}
	return r.CreateFromFreeText(ctx, s, text)
}

// CreateFromFreeText submits raw interest text, then reloads the list.
func (r *TopicRegistry) CreateFromFreeText(ctx context.Context, s curation.Session, text string) (curation.OnboardingResult, error) {
	if err := requireSession(s); err != nil {
		return curation.OnboardingResult{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return curation.OnboardingResult{}, &curation.FormError{Field: "interests", Message: "interests are required"}
	}
	result, err := r.store.SubmitOnboarding(ctx, s.UserID, text)
	if err != nil {
		return curation.OnboardingResult{}, fmt.Errorf("create topic: %w", err)
	}
	if _, err := r.List(ctx, s); err != nil {
		r.logger.Warn().Err(err).Msg("reload after create failed")
	}
	return result, nil
}

// Update applies a partial update to a topic. The local copy takes the
// server's topic when one is returned and the patch otherwise. Lists still in
// flight are discarded so they cannot restore the old topic.
func (r *TopicRegistry) Update(ctx context.Context, topicID int64, patch curation.TopicPatch) (curation.Topic, error) {
	if patch.Empty() {
		return curation.Topic{}, &curation.FormError{Field: "topic", Message: "nothing to update"}
	}
	server, err := r.store.UpdateTopic(ctx, topicID, patch)
	if err != nil {
		return curation.Topic{}, fmt.Errorf("update topic: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.IndexFunc(r.topics, func(t curation.Topic) bool { return t.ID == topicID })
	var updated curation.Topic
	switch {
	case server != nil:
		updated = *server
	case idx >= 0:
		updated = r.topics[idx]
		patch.Apply(&updated)
	default:
		updated = curation.Topic{ID: topicID}
		patch.Apply(&updated)
	}
	if idx >= 0 {
		r.topics[idx] = updated
	}
	r.seq.Invalidate()
	return updated, nil
}

// Topics returns the local set in server order.
func (r *TopicRegistry) Topics() []curation.Topic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.topics)
}

// FeedTopics returns the feed view.
func (r *TopicRegistry) FeedTopics() []curation.Topic {
	return r.byKind(curation.TopicTypeFeed)
}

// LearningTopics returns the learning view.
func (r *TopicRegistry) LearningTopics() []curation.Topic {
	return r.byKind(curation.TopicTypeLearning)
}

// Find returns the local topic with the given id.
func (r *TopicRegistry) Find(topicID int64) (curation.Topic, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return curation.FindTopic(r.topics, topicID)
}

func (r *TopicRegistry) byKind(kind curation.TopicType) []curation.Topic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return curation.FilterTopics(r.topics, kind)
}

// dropLocked removes a deleted topic and discards lists issued before the
// delete. The caller holds r.mu.
func (r *TopicRegistry) dropLocked(topicID int64) {
	r.seq.Invalidate()
	r.topics = slices.DeleteFunc(r.topics, func(t curation.Topic) bool { return t.ID == topicID })
}
