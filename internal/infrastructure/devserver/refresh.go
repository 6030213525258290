package devserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// TopicRefresh reports the outcome of refreshing one topic.
type TopicRefresh struct {
	Success      bool   `json:"success"`
	ItemsFetched int    `json:"items_fetched"`
	Error        string `json:"error,omitempty"`
}

// RefreshSummary is the response of a refresh of every topic of a user.
type RefreshSummary struct {
	Message           string                  `json:"message"`
	TotalItemsFetched int                     `json:"total_items_fetched"`
	Results           map[string]TopicRefresh `json:"results"`
}

// RefreshUser generates new content for every topic the user owns. Completed
// learning plans are skipped. One failing topic does not stop the others.
func (s *Server) RefreshUser(ctx context.Context, userID int64) (RefreshSummary, error) {
	if _, err := s.store.User(ctx, userID); err != nil {
		return RefreshSummary{}, err
	}
	topics, err := s.store.topicsWhere(ctx, `owner_user_id = ?`, userID)
	if err != nil {
		return RefreshSummary{}, err
	}
	summary := RefreshSummary{Results: map[string]TopicRefresh{}}
	if len(topics) == 0 {
		summary.Message = "No topics to refresh"
		return summary, nil
	}

	succeeded := 0
	for _, rec := range topics {
		if rec.Completed() {
			summary.Results[rec.TopicName] = TopicRefresh{Success: true}
			succeeded++
			continue
		}
		items, err := s.refresh(ctx, rec.ID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("topic_id", rec.ID).Msg("topic refresh failed")
			summary.Results[rec.TopicName] = TopicRefresh{Error: err.Error()}
			continue
		}
		succeeded++
		summary.TotalItemsFetched += len(items)
		summary.Results[rec.TopicName] = TopicRefresh{Success: true, ItemsFetched: len(items)}
	}
	summary.Message = fmt.Sprintf("Feed refresh complete: %d/%d topics updated", succeeded, len(topics))
	return summary, nil
}

// RefreshTopic generates new content for one topic of the user and returns
// the topic name.
func (s *Server) RefreshTopic(ctx context.Context, userID, topicID int64) (string, error) {
	if _, err := s.store.User(ctx, userID); err != nil {
		return "", err
	}
	rec, err := s.store.topic(ctx, topicID)
	if err != nil {
		return "", err
	}
	if rec.OwnerUserID != userID {
		return "", forbidden("User does not have access to this topic")
	}
	if rec.Completed() {
		return "", badRequest("Learning plan already completed")
	}
	if _, err := s.refresh(ctx, rec.ID); err != nil {
		return "", err
	}
	return rec.TopicName, nil
}

// refresh generates and stores content for a topic. A learning topic gets the
// lesson for its current day and moves to the next one.
func (s *Server) refresh(ctx context.Context, topicID int64) ([]curation.ContentItem, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	rec, err := s.store.topic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if rec.Completed() {
		return nil, badRequest("Learning plan already completed")
	}
	req := Request{Topic: rec.Topic, Language: rec.Language, Count: s.cfg.ItemsPerRefresh}
	topic := rec.Topic
	if rec.IsLearning() {
		day := rec.Day()
		req.Day = day
		req.Count = 1
		topic.CurrentDay = day + 1
		topic.IsCompleted = day >= rec.LearningPeriodDays
	} else if rec.FeedSource == curation.FeedSourceAI {
		req.Count = 1
	}

	drafts, err := s.gen.Generate(ctx, req)
	if err != nil {
		return nil, &httpError{status: http.StatusBadGateway, detail: "Content generation failed: " + err.Error()}
	}
	items, err := s.store.StoreContent(ctx, topic, drafts)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("topic_id", rec.ID).Int("items", len(items)).Int("day", req.Day).Msg("topic refreshed")
	return items, nil
}
