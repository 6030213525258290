package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tesso57/sutra/internal/domain/curation"
)

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, reg curation.Registration) (curation.User, error) {
	var user curation.User
	if err := c.do(ctx, "create user", http.MethodPost, "/users/", reg, &user); err != nil {
		return curation.User{}, err
	}
	return user, nil
}

// GetUser fetches a user by id.
func (c *Client) GetUser(ctx context.Context, userID int64) (curation.User, error) {
	var user curation.User
	if err := c.do(ctx, "get user", http.MethodGet, fmt.Sprintf("/users/%d", userID), nil, &user); err != nil {
		return curation.User{}, err
	}
	return user, nil
}

// GetSettings fetches the delivery preferences of a user.
func (c *Client) GetSettings(ctx context.Context, userID int64) (curation.UserSettings, error) {
	var settings curation.UserSettings
	if err := c.do(ctx, "get settings", http.MethodGet, fmt.Sprintf("/settings/%d", userID), nil, &settings); err != nil {
		return curation.UserSettings{}, err
	}
	return settings, nil
}

// UpdateSettings replaces the delivery preferences of a user.
func (c *Client) UpdateSettings(ctx context.Context, userID int64, settings curation.UserSettings) (curation.UserSettings, error) {
	settings.UserID = 0
	var updated curation.UserSettings
	if err := c.do(ctx, "update settings", http.MethodPut, fmt.Sprintf("/settings/%d", userID), settings, &updated); err != nil {
		return curation.UserSettings{}, err
	}
	return updated, nil
}
