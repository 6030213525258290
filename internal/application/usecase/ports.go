// Package usecase contains application-level services.
package usecase

import (
	"context"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// UserStore abstracts account endpoints of the curation service.
type UserStore interface {
	CreateUser(ctx context.Context, reg curation.Registration) (curation.User, error)
	GetUser(ctx context.Context, userID int64) (curation.User, error)
}

// TopicStore abstracts topic endpoints.
type TopicStore interface {
	SubmitOnboarding(ctx context.Context, userID int64, interests string) (curation.OnboardingResult, error)
	ListTopics(ctx context.Context, userID int64) ([]curation.Topic, error)
	// UpdateTopic returns nil when the server only acknowledges the change.
	UpdateTopic(ctx context.Context, topicID int64, patch curation.TopicPatch) (*curation.Topic, error)
	DeleteTopic(ctx context.Context, topicID int64) error
}

// FeedStore abstracts feed endpoints.
type FeedStore interface {
	GetFeed(ctx context.Context, userID int64, date string) (curation.Snapshot, error)
	RefreshAll(ctx context.Context, userID int64) (curation.RefreshResult, error)
	RefreshTopic(ctx context.Context, userID, topicID int64) (curation.RefreshResult, error)
}

// SavedStore abstracts bookmark endpoints.
type SavedStore interface {
	SaveContent(ctx context.Context, userID, contentID int64) (curation.SavedEntry, error)
	ListSaved(ctx context.Context, userID int64) ([]curation.SavedEntry, error)
	Unsave(ctx context.Context, savedID int64) error
}

// SettingsStore abstracts per-user delivery preferences.
type SettingsStore interface {
	GetSettings(ctx context.Context, userID int64) (curation.UserSettings, error)
	UpdateSettings(ctx context.Context, userID int64, settings curation.UserSettings) (curation.UserSettings, error)
}

// RemoteStore is the full curation service surface used by a Workspace.
type RemoteStore interface {
	TopicStore
	FeedStore
	SavedStore
}

// SessionRepository persists the signed-in session between runs.
type SessionRepository interface {
	Load() (curation.Session, error)
	Save(session curation.Session) error
	Clear() error
}
