package api

import "github.com/tesso57/sutra/internal/domain/curation"

// ack is the acknowledgement body of delete endpoints.
type ack struct {
	Message string `json:"message"`
}

// OnboardingRequest submits free-text interests for a user.
type OnboardingRequest struct {
	UserID    int64  `json:"user_id"`
	Interests string `json:"interests"`
}

// SaveRequest bookmarks a content item for a user.
type SaveRequest struct {
	UserID    int64 `json:"user_id"`
	ContentID int64 `json:"content_id"`
}

type topicList struct {
	UserID int64            `json:"user_id"`
	Topics []curation.Topic `json:"topics"`
}

type savedList struct {
	UserID     int64                 `json:"user_id"`
	TotalSaved int                   `json:"total_saved"`
	Items      []curation.SavedEntry `json:"items"`
}

// saveResponse accepts both {"saved_id": N} and a full saved entry.
type saveResponse struct {
	Message string `json:"message"`
	SavedID int64  `json:"saved_id"`
	curation.SavedEntry
}

// topicUpdateResponse accepts both a full topic and {"topic_id": N}.
type topicUpdateResponse struct {
	Message string `json:"message"`
	TopicID int64  `json:"topic_id"`
	curation.Topic
}
