package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// VisibleItem is a content item as shown in a topic view.
type VisibleItem struct {
	curation.ContentItem
	Saved SaveState
}

// Workspace wires the topic registry, feed cache, selection and ledger of one
// user behind a single lock.
type Workspace struct {
	Topics    *TopicRegistry
	Feed      *FeedCache
	Selection *Selection
	Saved     *SavedLedger

	store  TopicStore
	logger zerolog.Logger
	mu     *sync.Mutex
}

// NewWorkspace constructs a Workspace over the remote store.
func NewWorkspace(store RemoteStore, logger zerolog.Logger) *Workspace {
	mu := &sync.Mutex{}
	return &Workspace{
		Topics:    newTopicRegistry(store, logger, mu),
		Feed:      newFeedCache(store, logger, mu),
		Selection: newSelection(mu),
		Saved:     newSavedLedger(store, logger, mu),
		store:     store,
		logger:    logger,
		mu:        mu,
	}
}

// LoadTopics reloads the topic list and reconciles both selections with it.
func (w *Workspace) LoadTopics(ctx context.Context, s curation.Session) ([]curation.Topic, error) {
	topics, err := w.Topics.List(ctx, s)
	w.mu.Lock()
	current := w.Topics.topics
	for _, view := range Views {
		w.Selection.reconcileLocked(view, current)
	}
	w.mu.Unlock()
	return topics, err
}

// Load reloads topics, the snapshot and the ledger. Every part is attempted;
// the first error is returned.
func (w *Workspace) Load(ctx context.Context, s curation.Session) error {
	if err := requireSession(s); err != nil {
		return err
	}
	var first error
	if _, err := w.LoadTopics(ctx, s); err != nil {
		first = err
	}
	if _, err := w.Feed.Reload(ctx, s); err != nil && first == nil {
		first = err
	}
	if _, err := w.Saved.List(ctx, s); err != nil && first == nil {
		first = err
	}
	return first
}

// DeleteTopic deletes a topic on the server, then removes it from every local
// component at once: the registry, the snapshot, the selections and the ledger.
func (w *Workspace) DeleteTopic(ctx context.Context, topicID int64) error {
	if err := w.store.DeleteTopic(ctx, topicID); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	items := w.Feed.snapshot.ItemsFor(topicID)
	contentIDs := make([]int64, 0, len(items))
	for _, item := range items {
		contentIDs = append(contentIDs, item.ID)
	}
	w.Topics.dropLocked(topicID)
	w.Feed.dropLocked(topicID)
	w.Selection.forgetLocked(topicID)
	w.Saved.dropTopicLocked(topicID, contentIDs)
	w.logger.Info().Int64("topic_id", topicID).Msg("topic deleted")
	return nil
}

// Select makes topicID the active topic of its view.
func (w *Workspace) Select(topicID int64) (View, error) {
	topic, ok := w.Topics.Find(topicID)
	if !ok {
		return FeedView, fmt.Errorf("%w: %d", ErrUnknownTopic, topicID)
	}
	view := ViewFor(topic)
	w.Selection.Select(view, topicID)
	return view, nil
}

// ActiveTopic returns the selected topic of the view.
func (w *Workspace) ActiveTopic(view View) (curation.Topic, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.Selection.active[view]
	if !ok {
		return curation.Topic{}, false
	}
	return curation.FindTopic(w.Topics.topics, id)
}

// TopicsFor returns the topics shown by the view.
func (w *Workspace) TopicsFor(view View) []curation.Topic {
	if view == LearningView {
		return w.Topics.LearningTopics()
	}
	return w.Topics.FeedTopics()
}

// Visible returns the items of the view's active topic with their save state.
// It is empty when nothing is selected.
func (w *Workspace) Visible(view View) []VisibleItem {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.Selection.active[view]
	if !ok {
		return []VisibleItem{}
	}
	items := w.Feed.snapshot.ItemsFor(id)
	out := make([]VisibleItem, 0, len(items))
	for _, item := range items {
		out = append(out, VisibleItem{ContentItem: item, Saved: w.Saved.stateLocked(item.ID)})
	}
	return out
}

// RefreshActive refreshes the active topic of the view.
func (w *Workspace) RefreshActive(ctx context.Context, s curation.Session, view View) (curation.RefreshResult, error) {
	topic, ok := w.ActiveTopic(view)
	if !ok {
		return curation.RefreshResult{}, ErrNoSelection
	}
	return w.Feed.RefreshOne(ctx, s, topic)
}

// BeginSave marks a content item pending. The item is looked up in the
// snapshot so the saved view can show it before the ledger reloads.
func (w *Workspace) BeginSave(contentID int64) bool {
	item, ok := w.Feed.Item(contentID)
	if !ok {
		item = curation.ContentItem{ID: contentID}
	}
	return w.Saved.Begin(item)
}

// Save bookmarks a content item of the snapshot.
func (w *Workspace) Save(ctx context.Context, s curation.Session, contentID int64) (curation.SavedEntry, error) {
	if err := requireSession(s); err != nil {
		return curation.SavedEntry{}, err
	}
	if !w.BeginSave(contentID) {
		entry, _ := w.Saved.Entry(contentID)
		return entry, nil
	}
	return w.Saved.Complete(ctx, s, contentID)
}

// ToggleSave saves an unsaved item and unsaves a committed one. Pending items
// are left alone.
func (w *Workspace) ToggleSave(ctx context.Context, s curation.Session, contentID int64) (SaveState, error) {
	switch w.Saved.State(contentID) {
	case SaveCommitted:
		if err := w.Saved.UnsaveContent(ctx, contentID); err != nil {
			return SaveCommitted, err
		}
		return NotSaved, nil
	case SavePending:
		return SavePending, nil
	default:
		if _, err := w.Save(ctx, s, contentID); err != nil {
			return NotSaved, err
		}
		return SaveCommitted, nil
	}
}
