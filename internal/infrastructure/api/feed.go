package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// GetFeed returns the content snapshot of a user. date is YYYY-MM-DD; empty
// means the server's current day.
func (c *Client) GetFeed(ctx context.Context, userID int64, date string) (curation.Snapshot, error) {
	path := fmt.Sprintf("/feed/%d", userID)
	if date != "" {
		path += "?" + url.Values{"date": {date}}.Encode()
	}
	var snap curation.Snapshot
	if err := c.do(ctx, "get feed", http.MethodGet, path, nil, &snap); err != nil {
		return curation.Snapshot{}, err
	}
	if snap.Topics == nil {
		snap.Topics = []curation.TopicFeed{}
	}
	return snap, nil
}

// RefreshAll asks the server to fetch new content for every topic of a user.
func (c *Client) RefreshAll(ctx context.Context, userID int64) (curation.RefreshResult, error) {
	var result curation.RefreshResult
	if err := c.do(ctx, "refresh feed", http.MethodPost, fmt.Sprintf("/feed/refresh/%d", userID), nil, &result); err != nil {
		return curation.RefreshResult{}, err
	}
	return result, nil
}

// RefreshTopic asks the server to fetch new content for one topic.
func (c *Client) RefreshTopic(ctx context.Context, userID, topicID int64) (curation.RefreshResult, error) {
	var result curation.RefreshResult
	if err := c.do(ctx, "refresh topic", http.MethodPost, fmt.Sprintf("/feed/refresh/%d/topic/%d", userID, topicID), nil, &result); err != nil {
		return curation.RefreshResult{}, err
	}
	return result, nil
}
