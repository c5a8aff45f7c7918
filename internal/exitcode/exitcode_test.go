package exitcode

import (
	"fmt"
	"testing"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"plain error", fmt.Errorf("boom"), GeneralError},
		{"auth required", errors.NewAuthRequiredError(), AuthError},
		{"token expired", errors.NewAuthTokenExpiredError(), AuthError},
		{"rate limit", errors.NewRateLimitError("limit reached", "free"), RateLimited},
		{"maintenance", errors.NewMaintenanceError(), Unavailable},
		{"gateway", errors.NewGatewayError(502), Unavailable},
		{"bad config", errors.New(errors.ErrCodeConfigInvalid, "bad"), UsageError},
		{"contract violation", errors.NewAuthContractError("missing token"), GeneralError},
		{"wrapped coded error", fmt.Errorf("context: %w", errors.NewAuthRequiredError()), AuthError},
		{"backend 401", &api.APIError{Status: 401, Message: "nope"}, AuthError},
		{"backend 429", &api.APIError{Status: 429, Message: "slow down"}, RateLimited},
		{"backend 503", &api.APIError{Status: 503, Message: "maintenance"}, Unavailable},
		{"backend validation", &api.APIError{
			Status:           422,
			Message:          "Validation failed",
			ValidationErrors: map[string][]string{"email": {"invalid"}},
		}, UsageError},
		{"backend 500", &api.APIError{Status: 500, Message: "oops"}, GeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.want {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	if Describe(Success) != "Success" {
		t.Error("unexpected description for Success")
	}
	if Describe(999) != "Unknown error" {
		t.Error("unknown codes should say so")
	}
}
