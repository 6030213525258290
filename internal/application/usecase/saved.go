package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tesso57/sutra/internal/domain/curation"
)

// SaveState is the local state of a content item in the ledger.
type SaveState int

const (
	NotSaved SaveState = iota
	// SavePending is an optimistic mark awaiting the server.
	SavePending
	SaveCommitted
)

// SavedLedger tracks the user's bookmarks. A save is marked pending before
// the request and either committed or rolled back when it completes.
type SavedLedger struct {
	store  SavedStore
	logger zerolog.Logger

	mu      *sync.Mutex
	seq     Sequencer
	entries []curation.SavedEntry
	pending map[int64]curation.ContentItem
}

// NewSavedLedger constructs a SavedLedger with its own lock.
func NewSavedLedger(store SavedStore, logger zerolog.Logger) *SavedLedger {
	return newSavedLedger(store, logger, &sync.Mutex{})
}

func newSavedLedger(store SavedStore, logger zerolog.Logger, mu *sync.Mutex) *SavedLedger {
	return &SavedLedger{
		store:   store,
		logger:  logger,
		mu:      mu,
		entries: []curation.SavedEntry{},
		pending: make(map[int64]curation.ContentItem),
	}
}

// Save bookmarks a content item. Saving an item that is already pending or
// committed is a no-op.
func (l *SavedLedger) Save(ctx context.Context, s curation.Session, contentID int64) (curation.SavedEntry, error) {
	if err := requireSession(s); err != nil {
		return curation.SavedEntry{}, err
	}
	if !l.Begin(curation.ContentItem{ID: contentID}) {
		entry, _ := l.Entry(contentID)
		return entry, nil
	}
	return l.Complete(ctx, s, contentID)
}

// Begin marks item as pending. It returns false when the item is already
// pending or committed, in which case no request should be issued.
func (l *SavedLedger) Begin(item curation.ContentItem) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stateLocked(item.ID) != NotSaved {
		return false
	}
	l.pending[item.ID] = item
	return true
}

// Complete issues the save for a pending item and resolves its mark.
// A duplicate rejection commits when the server already holds the bookmark.
func (l *SavedLedger) Complete(ctx context.Context, s curation.Session, contentID int64) (curation.SavedEntry, error) {
	if err := requireSession(s); err != nil {
		l.mu.Lock()
		delete(l.pending, contentID)
		l.mu.Unlock()
		return curation.SavedEntry{}, err
	}
	entry, err := l.store.SaveContent(ctx, s.UserID, contentID)
	if err == nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.commitLocked(entry), nil
	}

	if errors.Is(err, curation.ErrValidation) {
		if entries, listErr := l.store.ListSaved(ctx, s.UserID); listErr == nil {
			if idx := slices.IndexFunc(entries, func(e curation.SavedEntry) bool { return e.ContentID == contentID }); idx >= 0 {
				l.mu.Lock()
				defer l.mu.Unlock()
				return l.commitLocked(entries[idx]), nil
			}
		}
	}

	l.mu.Lock()
	delete(l.pending, contentID)
	l.mu.Unlock()
	l.logger.Debug().Err(err).Int64("content_id", contentID).Msg("save rolled back")
	return curation.SavedEntry{}, fmt.Errorf("save content: %w", err)
}

// commitLocked stores a confirmed save. A mark dropped while the request was
// in flight belongs to a deleted topic and is not stored.
func (l *SavedLedger) commitLocked(entry curation.SavedEntry) curation.SavedEntry {
	item, wasPending := l.pending[entry.ContentID]
	if !wasPending {
		return entry
	}
	delete(l.pending, entry.ContentID)
	if entry.Content.ID == 0 {
		entry.Content = item
	}
	l.seq.Invalidate()
	if entry.SavedAt.IsZero() {
		entry.SavedAt = curation.NewTimestamp(time.Now().UTC())
	}
	if idx := slices.IndexFunc(l.entries, func(e curation.SavedEntry) bool { return e.ContentID == entry.ContentID }); idx >= 0 {
		l.entries[idx] = entry
		return entry
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Unsave removes a bookmark by saved-entry id.
func (l *SavedLedger) Unsave(ctx context.Context, savedID int64) error {
	if err := l.store.Unsave(ctx, savedID); err != nil {
		return fmt.Errorf("unsave: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = slices.DeleteFunc(l.entries, func(e curation.SavedEntry) bool { return e.ID == savedID })
	l.seq.Invalidate()
	return nil
}

// UnsaveContent removes the bookmark of a content item, resolving its
// saved-entry id through the ledger.
func (l *SavedLedger) UnsaveContent(ctx context.Context, contentID int64) error {
	entry, ok := l.Entry(contentID)
	if !ok {
		return ErrNotSaved
	}
	return l.Unsave(ctx, entry.ID)
}

// List fetches the bookmarks and replaces the committed entries. Pending
// marks survive. A response issued before a local save, unsave or topic
// delete is discarded. On failure the committed entries become empty.
func (l *SavedLedger) List(ctx context.Context, s curation.Session) ([]curation.SavedEntry, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	l.mu.Lock()
	ticket := l.seq.Next()
	l.mu.Unlock()

	entries, err := l.store.ListSaved(ctx, s.UserID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.seq.Apply(ticket) {
		return slices.Clone(l.entries), nil
	}
	if err != nil {
		l.entries = []curation.SavedEntry{}
		l.logger.Warn().Err(err).Int64("user_id", s.UserID).Msg("list saved failed")
		return []curation.SavedEntry{}, fmt.Errorf("list saved: %w", err)
	}
	l.entries = slices.Clone(entries)
	if l.entries == nil {
		l.entries = []curation.SavedEntry{}
	}
	return slices.Clone(l.entries), nil
}

// Entries returns the committed bookmarks.
func (l *SavedLedger) Entries() []curation.SavedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Entry returns the committed bookmark of a content item.
func (l *SavedLedger) Entry(contentID int64) (curation.SavedEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := slices.IndexFunc(l.entries, func(e curation.SavedEntry) bool { return e.ContentID == contentID })
	if idx < 0 {
		return curation.SavedEntry{}, false
	}
	return l.entries[idx], true
}

// State returns the local state of a content item.
func (l *SavedLedger) State(contentID int64) SaveState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked(contentID)
}

// IsSaved reports whether the item is pending or committed.
func (l *SavedLedger) IsSaved(contentID int64) bool {
	return l.State(contentID) != NotSaved
}

func (l *SavedLedger) stateLocked(contentID int64) SaveState {
	if _, ok := l.pending[contentID]; ok {
		return SavePending
	}
	if slices.ContainsFunc(l.entries, func(e curation.SavedEntry) bool { return e.ContentID == contentID }) {
		return SaveCommitted
	}
	return NotSaved
}

// dropTopicLocked forgets the bookmarks and pending marks of a deleted topic.
func (l *SavedLedger) dropTopicLocked(topicID int64, contentIDs []int64) {
	l.seq.Invalidate()
	l.entries = slices.DeleteFunc(l.entries, func(e curation.SavedEntry) bool {
		return e.Content.TopicID == topicID || slices.Contains(contentIDs, e.ContentID)
	})
	for id, item := range l.pending {
		if item.TopicID == topicID || slices.Contains(contentIDs, id) {
			delete(l.pending, id)
		}
	}
}
