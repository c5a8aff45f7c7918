package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/errors"
	"github.com/stylelens/stylelens/internal/log"
)

// Authenticator is the slice of the API client the store needs. Narrowed
// for tests.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	Register(ctx context.Context, username, email, password string) (*api.RegisterResponse, error)
}

// ErrorDetails captures the last authentication failure in a structured
// form so the caller can render field errors without re-parsing anything.
type ErrorDetails struct {
	Message          string              `json:"message"`
	Status           int                 `json:"status"`
	ValidationErrors map[string][]string `json:"validation_errors,omitempty"`
}

// Store holds the current session and persists it across runs.
//
// Persistence boundary: the file is read once in Open and rewritten on
// every mutation. The store is an explicit dependency handed to whoever
// needs it, not package-level state. It satisfies api.TokenSource and
// api.SessionInvalidator so the HTTP client reads its token from here and
// the response policy tears it down here.
type Store struct {
	mu      sync.RWMutex
	path    string
	current Session
	lastErr *ErrorDetails
	logger  *log.Logger
}

// Open loads the persisted session. A missing file means signed out; a
// corrupt file is discarded with a warning rather than blocking every
// command.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.DefaultLogger()
	}

	s := &Store{
		path:    path,
		current: signedOut(),
		logger:  logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(errors.ErrCodeSessionPersist,
			fmt.Sprintf("failed to read session file: %s", path), err)
	}

	var loaded Session
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.WithError(err).Warn("discarding corrupt session file", "path", path)
		return s, nil
	}
	loaded.Tier = ParseTier(string(loaded.Tier))
	s.current = loaded

	return s, nil
}

// Current returns a copy of the active session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// LastError returns details of the most recent login/register failure.
func (s *Store) LastError() *ErrorDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Login authenticates and replaces the session on success.
//
// It never propagates the backend failure to the caller: a failure is
// captured into LastError and reported as false. Side effects like
// navigation hints belong to the response policy, not here.
func (s *Store) Login(ctx context.Context, auth Authenticator, username, password string) bool {
	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		s.captureError(err)
		return false
	}

	s.mu.Lock()
	s.current = Session{
		UserID:   resp.UserInfo.ID,
		Username: resp.UserInfo.Username,
		Email:    resp.UserInfo.Email,
		Role:     resp.UserInfo.Role,
		Token:    resp.AccessToken,
		Tier:     ParseTier(resp.UserInfo.Tier),
	}
	s.lastErr = nil
	s.mu.Unlock()

	if err := s.save(); err != nil {
		s.logger.WithError(err).Warn("failed to persist session")
	}
	return true
}

// Register creates an account. Success leaves the session unauthenticated:
// a token is only issued once the email is verified.
func (s *Store) Register(ctx context.Context, auth Authenticator, username, email, password string) bool {
	if _, err := auth.Register(ctx, username, email, password); err != nil {
		s.captureError(err)
		return false
	}

	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
	return true
}

// Logout clears the session and resets to the signed-out default.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.current = signedOut()
	s.lastErr = nil
	s.mu.Unlock()
	return s.save()
}

// Invalidate implements api.SessionInvalidator. Same teardown as Logout;
// invoked by the response policy when the backend says the token is dead.
func (s *Store) Invalidate() error {
	return s.Logout()
}

// UpdateTier is a pure local mutation, used after a tier refresh fetch.
func (s *Store) UpdateTier(tier Tier) error {
	s.mu.Lock()
	s.current.Tier = tier
	s.mu.Unlock()
	return s.save()
}

// SetUser replaces the identity fields after a profile edit, keeping the
// token.
func (s *Store) SetUser(user api.UserInfo) error {
	s.mu.Lock()
	s.current.UserID = user.ID
	s.current.Username = user.Username
	s.current.Email = user.Email
	s.current.Role = user.Role
	if user.Tier != "" {
		s.current.Tier = ParseTier(user.Tier)
	}
	s.mu.Unlock()
	return s.save()
}

func (s *Store) captureError(err error) {
	details := &ErrorDetails{Message: err.Error()}

	if apiErr, ok := err.(*api.APIError); ok {
		details.Message = apiErr.Message
		details.Status = apiErr.Status
		details.ValidationErrors = apiErr.ValidationErrors
	}

	s.mu.Lock()
	s.lastErr = details
	s.mu.Unlock()
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.current, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionPersist, "failed to encode session", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeSessionPersist, "failed to create data directory", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeSessionPersist,
			fmt.Sprintf("failed to write session file: %s", s.path), err)
	}
	return nil
}
