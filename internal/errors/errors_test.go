package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeAuthRequired, "not authenticated")

	if err.Code != ErrCodeAuthRequired {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeAuthRequired)
	}
	if err.Message != "not authenticated" {
		t.Errorf("Message = %v, want %v", err.Message, "not authenticated")
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeAPITransport, "request failed", cause)

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestError_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *StyleLensError
		contains []string
	}{
		{
			name:     "code and message",
			err:      New(ErrCodeSessionNotFound, "no session"),
			contains: []string{"[SESSION-001]", "no session"},
		},
		{
			name:     "with cause",
			err:      Wrap(ErrCodeFileReadFailed, "read failed", fmt.Errorf("permission denied")),
			contains: []string{"[IO-002]", "read failed", "permission denied"},
		},
		{
			name: "with suggestions",
			err: New(ErrCodeAuthRequired, "not authenticated").
				WithSuggestion("Run 'stylelens auth login' to sign in"),
			contains: []string{"Suggestions:", "stylelens auth login"},
		},
		{
			name: "with docs",
			err: New(ErrCodeAPIRateLimit, "limit reached").
				WithDocs("https://github.com/stylelens/stylelens#rate-limits"),
			contains: []string{"Documentation:", "#rate-limits"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, missing %q", msg, want)
				}
			}
		})
	}
}

func TestErrorAs(t *testing.T) {
	var target *StyleLensError
	err := fmt.Errorf("outer: %w", New(ErrCodeConfigInvalid, "bad config"))

	if !errors.As(err, &target) {
		t.Fatal("errors.As failed to unwrap StyleLensError")
	}
	if target.Code != ErrCodeConfigInvalid {
		t.Errorf("Code = %v, want %v", target.Code, ErrCodeConfigInvalid)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *StyleLensError
		wantCode ErrorCode
	}{
		{"auth required", NewAuthRequiredError(), ErrCodeAuthRequired},
		{"token expired", NewAuthTokenExpiredError(), ErrCodeAuthTokenExpired},
		{"auth contract", NewAuthContractError("missing access_token"), ErrCodeAuthContract},
		{"rate limit", NewRateLimitError("limit reached", "Spotlight"), ErrCodeAPIRateLimit},
		{"maintenance", NewMaintenanceError(), ErrCodeAPIMaintenance},
		{"gateway", NewGatewayError(502), ErrCodeAPIGateway},
		{"file not found", NewFileNotFoundError("/tmp/missing.jpg"), ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.wantCode)
			}
			if len(tt.err.Suggestions) == 0 {
				t.Error("expected at least one suggestion")
			}
		})
	}
}

func TestNewRateLimitError_DefaultMessage(t *testing.T) {
	err := NewRateLimitError("", "")
	if err.Message != "rate limit exceeded" {
		t.Errorf("Message = %q, want default", err.Message)
	}
}
