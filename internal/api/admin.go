package api

import (
	"context"
	"fmt"
	"net/http"
)

// AdminStats is the platform dashboard summary.
type AdminStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveToday   int64 `json:"active_today"`
	AnalysesToday int64 `json:"analyses_today"`
	AnalysesTotal int64 `json:"analyses_total"`

	TierCounts map[string]int64 `json:"tier_counts"`
}

// AdminUser is one row in the admin user listing.
type AdminUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Tier      string `json:"tier"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// AdminUserList is a page of users.
type AdminUserList struct {
	Users      []AdminUser `json:"users"`
	TotalCount int         `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// AdminStats retrieves the dashboard summary. Requires an admin role;
// non-admin callers get a plain 403 back.
func (c *Client) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.Call(ctx, http.MethodGet, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminListUsers retrieves a page of users.
func (c *Client) AdminListUsers(ctx context.Context, page, pageSize int) (*AdminUserList, error) {
	path := fmt.Sprintf("/admin/users?page=%d&page_size=%d", page, pageSize)

	var list AdminUserList
	if err := c.Call(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AdminSetUserRole changes a user's role.
func (c *Client) AdminSetUserRole(ctx context.Context, userID, role string) error {
	return c.Call(ctx, http.MethodPatch, "/admin/users/"+userID, map[string]string{
		"role": role,
	}, nil)
}
