package api

import (
	"context"
	"net/http"
)

// ProfileUpdate carries the editable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// UpdateProfile edits the authenticated user's profile and returns the
// updated user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*UserInfo, error) {
	var user UserInfo
	if err := c.Call(ctx, http.MethodPatch, "/users/me", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
