package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// SaveContent bookmarks a content item. Saving an item twice is rejected by
// the server with a validation error.
func (c *Client) SaveContent(ctx context.Context, userID, contentID int64) (curation.SavedEntry, error) {
	var resp saveResponse
	req := SaveRequest{UserID: userID, ContentID: contentID}
	if err := c.do(ctx, "save content", http.MethodPost, "/saved/", req, &resp); err != nil {
		return curation.SavedEntry{}, err
	}
	entry := resp.SavedEntry
	if entry.ID == 0 {
		entry.ID = resp.SavedID
	}
	if entry.ID == 0 {
		return curation.SavedEntry{}, newNetworkError("save content", fmt.Errorf("response carries no saved id"))
	}
	if entry.UserID == 0 {
		entry.UserID = userID
	}
	if entry.ContentID == 0 {
		entry.ContentID = contentID
	}
	return entry, nil
}

// ListSaved returns the bookmarks of a user.
func (c *Client) ListSaved(ctx context.Context, userID int64) ([]curation.SavedEntry, error) {
	var list savedList
	if err := c.do(ctx, "list saved", http.MethodGet, fmt.Sprintf("/saved/%d", userID), nil, &list); err != nil {
		return nil, err
	}
	entries := make([]curation.SavedEntry, 0, len(list.Items))
	for _, entry := range list.Items {
		if entry.UserID == 0 {
			entry.UserID = userID
		}
		if entry.ContentID == 0 {
			entry.ContentID = entry.Content.ID
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Unsave removes a bookmark by its saved-entry id, not the content id.
func (c *Client) Unsave(ctx context.Context, savedID int64) error {
	var resp ack
	return c.do(ctx, "unsave content", http.MethodDelete, fmt.Sprintf("/saved/%d", savedID), nil, &resp)
}
