package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// SubmitOnboarding submits free-text interests. The server derives topics from the text.
func (c *Client) SubmitOnboarding(ctx context.Context, userID int64, interests string) (curation.OnboardingResult, error) {
	var result curation.OnboardingResult
	req := OnboardingRequest{UserID: userID, Interests: interests}
	if err := c.do(ctx, "submit onboarding", http.MethodPost, "/onboarding/", req, &result); err != nil {
		return curation.OnboardingResult{}, err
	}
	return result, nil
}

// ListTopics returns every topic of a user, feed and learning alike.
func (c *Client) ListTopics(ctx context.Context, userID int64) ([]curation.Topic, error) {
	var list topicList
	if err := c.do(ctx, "list topics", http.MethodGet, fmt.Sprintf("/onboarding/%d/topics", userID), nil, &list); err != nil {
		return nil, err
	}
	if list.Topics == nil {
		return []curation.Topic{}, nil
	}
	return list.Topics, nil
}

// UpdateTopic applies a partial update. It returns the server's topic, or nil
// when the server only acknowledged the change.
func (c *Client) UpdateTopic(ctx context.Context, topicID int64, patch curation.TopicPatch) (*curation.Topic, error) {
	var resp topicUpdateResponse
	if err := c.do(ctx, "update topic", http.MethodPut, fmt.Sprintf("/topics/%d", topicID), patch, &resp); err != nil {
		return nil, err
	}
	if resp.ID == 0 {
		return nil, nil
	}
	topic := resp.Topic
	return &topic, nil
}

// DeleteTopic deletes a topic and, server side, its content.
func (c *Client) DeleteTopic(ctx context.Context, topicID int64) error {
	var resp ack
	return c.do(ctx, "delete topic", http.MethodDelete, fmt.Sprintf("/topics/%d", topicID), nil, &resp)
}
