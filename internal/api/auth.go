package api

import (
	"context"
	"net/http"

	"github.com/stylelens/stylelens/internal/errors"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo represents the authenticated user as the backend reports it
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Tier     string `json:"tier"`
}

// LoginResponse is the pinned login contract: access_token plus user_info.
// Anything else the backend might send is a contract violation, not a shape
// to tolerate.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	UserInfo    UserInfo `json:"user_info"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse confirms a registration. No token is issued until the
// email is verified.
type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Login authenticates against the backend.
//
// The response contract is validated loudly: a 2xx body without an
// access_token or user id fails with a typed decode error instead of
// defaulting fields.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Call(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Username: username,
		Password: password,
	}, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, errors.NewAuthContractError("missing access_token")
	}
	if resp.UserInfo.ID == "" {
		return nil, errors.NewAuthContractError("missing user_info.id")
	}

	return &resp, nil
}

// Register creates a new account. The account stays unauthenticated until
// the email address is verified.
func (c *Client) Register(ctx context.Context, username, email, password string) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.Call(ctx, http.MethodPost, "/auth/register", RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail submits the verification code sent after registration.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	return c.Call(ctx, http.MethodPost, "/auth/verify-email", map[string]string{
		"email": email,
		"code":  code,
	}, nil)
}

// CurrentUser retrieves the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*UserInfo, error) {
	var user UserInfo
	if err := c.Call(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RefreshTier asks the backend for the user's current subscription tier.
func (c *Client) RefreshTier(ctx context.Context) (string, error) {
	var resp struct {
		Tier string `json:"tier"`
	}
	if err := c.Call(ctx, http.MethodGet, "/auth/tier", nil, &resp); err != nil {
		return "", err
	}
	return resp.Tier, nil
}
