package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/stylelens/stylelens/internal/log"
)

// DefaultTimeout bounds every backend call when the configuration does not
// choose one. There is no per-call override.
const DefaultTimeout = 180 * time.Second

// TokenSource supplies the bearer token attached to outbound requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Client is the StyleLens backend API client.
//
// It provides the single outbound channel to the backend: consistent auth
// attachment on the way out, and a fixed response policy on the way back.
// The policy is split into a pure classifier (classify.go) and a side
// effect handler (effects.go) so the classification is testable on its own.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens  TokenSource
	effects EffectHandler
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets where the client reads its bearer token from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithEffectHandler sets the handler invoked with every response
// classification. Defaults to NopEffects.
func WithEffectHandler(h EffectHandler) Option {
	return func(c *Client) { c.effects = h }
}

// WithLogger sets the client logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout bounds every call made by the client. Non-positive values
// keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// NewClient creates a new backend API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		effects: NopEffects{},
		logger:  log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// prepare attaches the cross-cutting request headers: bearer token when one
// is stored, and a request ID for backend-side correlation.
func (c *Client) prepare(req *http.Request) {
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
}
