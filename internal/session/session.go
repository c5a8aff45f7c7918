package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the locally persisted representation of the signed-in user.
// At most one session is active per data directory.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
	Tier     Tier   `json:"tier"`
}

// signedOut is the state after logout or invalidation.
func signedOut() Session {
	return Session{Tier: TierFree}
}

// IsAuthenticated reports whether a token is held.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsAdmin reports whether the backend granted the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == "admin"
}

// TokenExpiry reads the expiry claim out of the stored bearer token without
// verifying the signature. The backend owns verification; the client only
// wants to warn before a call is doomed to 401.
func (s Session) TokenExpiry() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenExpired reports whether the stored token's expiry claim has passed.
// A token without a readable expiry counts as not expired.
func (s Session) TokenExpired() bool {
	expiry, ok := s.TokenExpiry()
	if !ok {
		return false
	}
	return time.Now().After(expiry)
}
