package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CalendarStatus reports whether the backend holds a valid calendar link
// for the user.
type CalendarStatus struct {
	Connected bool   `json:"connected"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	ExpiresAt string `json:"expires_at"`
}

// CalendarTokens is what the backend returns after it exchanged the OAuth
// authorization code server-side. The client never sees a client secret;
// the exchange happens entirely on the backend.
type CalendarTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
	UserEmail    string `json:"user_email"`
	UserName     string `json:"user_name"`
}

// CalendarEvent is one event on the connected calendar.
type CalendarEvent struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Start   string `json:"start"`
	End     string `json:"end"`

	// OutfitID links the event to a planned outfit, when one exists.
	OutfitID string `json:"outfit_id,omitempty"`
}

// CalendarStatus checks the calendar link.
func (c *Client) CalendarStatus(ctx context.Context) (*CalendarStatus, error) {
	var status CalendarStatus
	if err := c.Call(ctx, http.MethodGet, "/calendar/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CalendarAuthURL asks the backend for the provider authorization URL the
// user should open in a browser.
func (c *Client) CalendarAuthURL(ctx context.Context) (string, error) {
	var resp struct {
		AuthorizationURL string `json:"authorization_url"`
	}
	if err := c.Call(ctx, http.MethodGet, "/calendar/oauth/start", nil, &resp); err != nil {
		return "", err
	}
	return resp.AuthorizationURL, nil
}

// CalendarExchange forwards the authorization code to the backend, which
// performs the token exchange and returns the resulting identity and
// tokens for local bookkeeping.
func (c *Client) CalendarExchange(ctx context.Context, code string) (*CalendarTokens, error) {
	var tokens CalendarTokens
	if err := c.Call(ctx, http.MethodPost, "/calendar/oauth/exchange", map[string]string{
		"code": code,
	}, &tokens); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// CalendarDisconnect tells the backend to drop the calendar link.
func (c *Client) CalendarDisconnect(ctx context.Context) error {
	return c.Call(ctx, http.MethodPost, "/calendar/disconnect", nil, nil)
}

// CalendarEvents lists events in a date range.
func (c *Client) CalendarEvents(ctx context.Context, from, to time.Time) ([]CalendarEvent, error) {
	path := fmt.Sprintf("/calendar/events?from=%s&to=%s",
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)))

	var events []CalendarEvent
	if err := c.Call(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateCalendarEvent creates an event, typically linked to an outfit plan.
func (c *Client) CreateCalendarEvent(ctx context.Context, event CalendarEvent) (*CalendarEvent, error) {
	var created CalendarEvent
	if err := c.Call(ctx, http.MethodPost, "/calendar/events", event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
