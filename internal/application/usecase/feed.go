package usecase

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// DateLayout is the format of snapshot dates sent to the server.
const DateLayout = "2006-01-02"

// FeedCache holds the last loaded content snapshot. Every load replaces the
// snapshot as a whole.
type FeedCache struct {
	store  FeedStore
	logger zerolog.Logger
	guard  RefreshGuard

	mu       *sync.Mutex
	seq      Sequencer
	snapshot *curation.Snapshot
	date     string
}

// NewFeedCache constructs a FeedCache with its own lock.
func NewFeedCache(store FeedStore, logger zerolog.Logger) *FeedCache {
	return newFeedCache(store, logger, &sync.Mutex{})
}

func newFeedCache(store FeedStore, logger zerolog.Logger, mu *sync.Mutex) *FeedCache {
	return &FeedCache{
		store:    store,
		logger:   logger,
		mu:       mu,
		snapshot: &curation.Snapshot{Topics: []curation.TopicFeed{}},
	}
}

// RefreshAll asks the server to refresh every topic, then reloads the snapshot.
func (f *FeedCache) RefreshAll(ctx context.Context, s curation.Session) (curation.RefreshResult, error) {
	if err := requireSession(s); err != nil {
		return curation.RefreshResult{}, err
	}
	release, ok := f.guard.Acquire(s.UserID, 0)
	if !ok {
		return curation.RefreshResult{}, ErrRefreshInFlight
	}
	defer release()

	result, err := f.store.RefreshAll(ctx, s.UserID)
	if err != nil {
		return curation.RefreshResult{}, fmt.Errorf("refresh feed: %w", err)
	}
	if _, err := f.Reload(ctx, s); err != nil {
		return result, err
	}
	return result, nil
}

// RefreshOne asks the server to refresh one topic, then reloads the snapshot.
// Completed learning plans are rejected without a request.
func (f *FeedCache) RefreshOne(ctx context.Context, s curation.Session, topic curation.Topic) (curation.RefreshResult, error) {
	if err := requireSession(s); err != nil {
		return curation.RefreshResult{}, err
	}
	if !topic.CanRefresh() {
		return curation.RefreshResult{}, ErrTopicCompleted
	}
	release, ok := f.guard.Acquire(s.UserID, topic.ID)
	if !ok {
		return curation.RefreshResult{}, ErrRefreshInFlight
	}
	defer release()

	result, err := f.store.RefreshTopic(ctx, s.UserID, topic.ID)
	if err != nil {
		return curation.RefreshResult{}, fmt.Errorf("refresh topic %d: %w", topic.ID, err)
	}
	if _, err := f.Reload(ctx, s); err != nil {
		return result, err
	}
	return result, nil
}

// Refreshing reports whether a refresh of topicID (0 for all) is outstanding.
func (f *FeedCache) Refreshing(s curation.Session, topicID int64) bool {
	return f.guard.InFlight(s.UserID, topicID)
}

// Reload fetches the snapshot for the last requested date.
func (f *FeedCache) Reload(ctx context.Context, s curation.Session) (*curation.Snapshot, error) {
	f.mu.Lock()
	date := f.date
	f.mu.Unlock()
	return f.LoadForDate(ctx, s, date)
}

// LoadForDate fetches the snapshot for date (YYYY-MM-DD, empty for today) and
// replaces the cache. On failure the cache becomes empty.
func (f *FeedCache) LoadForDate(ctx context.Context, s curation.Session, date string) (*curation.Snapshot, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	if date != "" {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return nil, &curation.FormError{Field: "date", Message: "date must be YYYY-MM-DD"}
		}
	}
	f.mu.Lock()
	ticket := f.seq.Next()
	f.date = date
	f.mu.Unlock()

	snap, err := f.store.GetFeed(ctx, s.UserID, date)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.seq.Apply(ticket) {
		f.logger.Debug().Uint64("ticket", ticket).Msg("discarding stale snapshot")
		return f.snapshot, nil
	}
	if err != nil {
		f.snapshot = &curation.Snapshot{Topics: []curation.TopicFeed{}}
		f.logger.Warn().Err(err).Int64("user_id", s.UserID).Str("date", date).Msg("load feed failed")
		return f.snapshot, fmt.Errorf("load feed: %w", err)
	}
	if snap.Topics == nil {
		snap.Topics = []curation.TopicFeed{}
	}
	f.snapshot = &snap
	return f.snapshot, nil
}

// ContentFor returns the cached items of a topic, empty when unknown.
func (f *FeedCache) ContentFor(topicID int64) []curation.ContentItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.snapshot.ItemsFor(topicID))
}

// Item finds a cached content item by id.
func (f *FeedCache) Item(contentID int64) (curation.ContentItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tf := range f.snapshot.Topics {
		for _, item := range tf.Items {
			if item.ID == contentID {
				return item, true
			}
		}
	}
	return curation.ContentItem{}, false
}

// Snapshot returns the current snapshot. Snapshots are never mutated in place.
func (f *FeedCache) Snapshot() *curation.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot
}

// Drop removes a topic's content from the cache. Loads issued before the
// drop are discarded.
func (f *FeedCache) Drop(topicID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropLocked(topicID)
}

func (f *FeedCache) dropLocked(topicID int64) {
	f.seq.Invalidate()
	f.snapshot = f.snapshot.Without(topicID)
}
