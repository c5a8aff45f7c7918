package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeAuthRequired       ErrorCode = "AUTH-001"
	ErrCodeAuthInvalid        ErrorCode = "AUTH-002"
	ErrCodeAuthTokenExpired   ErrorCode = "AUTH-003"
	ErrCodeAuthContract       ErrorCode = "AUTH-004"
	ErrCodeAuthVerifyRequired ErrorCode = "AUTH-005"

	// API errors (API-001 to API-099)
	ErrCodeAPITransport   ErrorCode = "API-001"
	ErrCodeAPIValidation  ErrorCode = "API-002"
	ErrCodeAPIRateLimit   ErrorCode = "API-003"
	ErrCodeAPIMaintenance ErrorCode = "API-004"
	ErrCodeAPIGateway     ErrorCode = "API-005"
	ErrCodeAPIEnvelope    ErrorCode = "API-006"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionNotFound ErrorCode = "SESSION-001"
	ErrCodeSessionInvalid  ErrorCode = "SESSION-002"
	ErrCodeSessionPersist  ErrorCode = "SESSION-003"

	// Live analysis errors (LIVE-001 to LIVE-099)
	ErrCodeLiveSourceUnavailable ErrorCode = "LIVE-001"
	ErrCodeLiveCaptureFailed     ErrorCode = "LIVE-002"
	ErrCodeLiveAlreadyRunning    ErrorCode = "LIVE-003"

	// Keystore errors (STORE-001 to STORE-099)
	ErrCodeStoreKeyNotFound ErrorCode = "STORE-001"
	ErrCodeStoreDecrypt     ErrorCode = "STORE-002"
	ErrCodeStoreCorrupt     ErrorCode = "STORE-003"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigEnv     ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
)

// StyleLensError represents an enhanced error with code, suggestions, and documentation
type StyleLensError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *StyleLensError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *StyleLensError) Unwrap() error {
	return e.Cause
}

// New creates a new StyleLensError
func New(code ErrorCode, message string) *StyleLensError {
	return &StyleLensError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new StyleLensError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *StyleLensError {
	return &StyleLensError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *StyleLensError) WithSuggestion(suggestion string) *StyleLensError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *StyleLensError) WithSuggestions(suggestions ...string) *StyleLensError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *StyleLensError) WithDocs(url string) *StyleLensError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthRequiredError creates a not-authenticated error
func NewAuthRequiredError() *StyleLensError {
	return New(ErrCodeAuthRequired, "not authenticated").
		WithSuggestion("Run 'stylelens auth login' to sign in").
		WithSuggestion("Run 'stylelens auth status' to inspect the stored session").
		WithDocs("https://github.com/stylelens/stylelens#authentication")
}

// NewAuthTokenExpiredError creates a token expiry error
func NewAuthTokenExpiredError() *StyleLensError {
	return New(ErrCodeAuthTokenExpired, "stored session token has expired").
		WithSuggestion("Run 'stylelens auth login' to re-authenticate").
		WithDocs("https://github.com/stylelens/stylelens#authentication")
}

// NewAuthContractError creates a login response contract error.
//
// The backend login contract is pinned: a response that does not carry
// access_token plus user_info fails loudly instead of defaulting fields.
func NewAuthContractError(details string) *StyleLensError {
	return New(ErrCodeAuthContract, fmt.Sprintf("unexpected login response shape: %s", details)).
		WithSuggestion("Check that the configured API URL points at a compatible backend").
		WithSuggestion("Run 'stylelens config show' to inspect the active configuration").
		WithDocs("https://github.com/stylelens/stylelens#backend-contract")
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(message string, tierName string) *StyleLensError {
	msg := "rate limit exceeded"
	if message != "" {
		msg = message
	}

	e := New(ErrCodeAPIRateLimit, msg).
		WithSuggestion("Wait for the limit window to reset before retrying").
		WithSuggestion("Run 'stylelens pricing' to compare plans with higher limits").
		WithDocs("https://github.com/stylelens/stylelens#rate-limits")
	if tierName != "" {
		e = e.WithSuggestion(fmt.Sprintf("Current plan: %s", tierName))
	}
	return e
}

// NewMaintenanceError creates a backend maintenance error
func NewMaintenanceError() *StyleLensError {
	return New(ErrCodeAPIMaintenance, "the service is under maintenance").
		WithSuggestion("Try again in a few minutes").
		WithDocs("https://status.stylelens.app")
}

// NewGatewayError creates a bad-gateway/timeout error
func NewGatewayError(status int) *StyleLensError {
	return New(ErrCodeAPIGateway, fmt.Sprintf("the service is temporarily unavailable (status %d)", status)).
		WithSuggestion("The backend did not respond; try again shortly")
}

// NewLiveSourceError creates a frame source unavailable error
func NewLiveSourceError(device string, cause error) *StyleLensError {
	return Wrap(ErrCodeLiveSourceUnavailable, fmt.Sprintf("cannot open capture device: %s", device), cause).
		WithSuggestion("Check that the camera device exists and is not in use").
		WithSuggestion("Pass --device to select a different capture device").
		WithDocs("https://github.com/stylelens/stylelens#live-analysis")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *StyleLensError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}
