package exitcode

import (
	stderrors "errors"
	"os"

	"github.com/stylelens/stylelens/internal/api"
	"github.com/stylelens/stylelens/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates an authentication or authorization failure
	AuthError = 3

	// RateLimited indicates the backend rejected the call over quota
	RateLimited = 4

	// Unavailable indicates the backend is down or under maintenance
	Unavailable = 5

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit
// code. Coded errors map directly; backend errors map by HTTP status.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var coded *errors.StyleLensError
	if stderrors.As(err, &coded) {
		switch coded.Code {
		case errors.ErrCodeAuthRequired,
			errors.ErrCodeAuthInvalid,
			errors.ErrCodeAuthTokenExpired,
			errors.ErrCodeAuthVerifyRequired:
			return AuthError
		case errors.ErrCodeAPIRateLimit:
			return RateLimited
		case errors.ErrCodeAPIMaintenance,
			errors.ErrCodeAPIGateway:
			return Unavailable
		case errors.ErrCodeConfigInvalid,
			errors.ErrCodeConfigEnv:
			return UsageError
		default:
			return GeneralError
		}
	}

	var apiErr *api.APIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 401 || apiErr.Status == 403:
			return AuthError
		case apiErr.Status == 429:
			return RateLimited
		case apiErr.Status == 502 || apiErr.Status == 503 || apiErr.Status == 504:
			return Unavailable
		case len(apiErr.ValidationErrors) > 0:
			return UsageError
		}
		return GeneralError
	}

	return GeneralError
}

// Describe returns a human-readable description of an exit code
func Describe(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case RateLimited:
		return "Rate limit exceeded"
	case Unavailable:
		return "Service unavailable"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
