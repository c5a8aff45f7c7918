package api

import (
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind is the error-class of a backend response.
type Kind int

const (
	// KindOK is any 2xx response.
	KindOK Kind = iota

	// KindRedirect is a 3xx response. Logged only; the HTTP client's
	// default follow behavior handles the redirect itself.
	KindRedirect

	// KindAuthRequired is a 401, or a 403 whose body carries
	// {"detail":"Not authenticated"}. The stored session is no longer
	// valid and the user has to sign in again.
	KindAuthRequired

	// KindCalendarAuthLost is a 403 on a calendar endpoint: the backend
	// lost or rejected the calendar link and the local calendar keys are
	// stale.
	KindCalendarAuthLost

	// KindRateLimited is a 429 with upgrade messaging in the body.
	KindRateLimited

	// KindMaintenance is a 503 carrying a maintenance flag.
	KindMaintenance

	// KindGatewayDown is a 502 or 504: the backend is temporarily
	// unreachable, nothing to clean up locally.
	KindGatewayDown

	// KindFailed is every other non-2xx response. No global side effect;
	// the caller decides how to surface it.
	KindFailed
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindRedirect:
		return "redirect"
	case KindAuthRequired:
		return "auth_required"
	case KindCalendarAuthLost:
		return "calendar_auth_lost"
	case KindRateLimited:
		return "rate_limited"
	case KindMaintenance:
		return "maintenance"
	case KindGatewayDown:
		return "gateway_down"
	default:
		return "failed"
	}
}

// RateLimitInfo carries the upgrade messaging the backend attaches to a 429.
type RateLimitInfo struct {
	Message      string
	CurrentUsage int64
	Limit        int64
	TierName     string
	ResetPeriod  string
	Endpoint     string
}

// Classification is the outcome of classifying one response.
type Classification struct {
	Kind      Kind
	Status    int
	URL       string
	Message   string
	RateLimit *RateLimitInfo
}

// Classify maps an HTTP status, the request URL, and the response body to
// an error class. It is a pure function: it performs no I/O and triggers
// no side effect, so the effect handler in effects.go can act on its output.
func Classify(status int, reqURL string, body []byte) Classification {
	c := Classification{Status: status, URL: reqURL}

	switch {
	case status >= 200 && status < 300:
		c.Kind = KindOK

	case status >= 300 && status < 400:
		c.Kind = KindRedirect

	case status == http.StatusUnauthorized:
		c.Kind = classifyAuth(reqURL)

	case status == http.StatusForbidden:
		c.Kind = classifyForbidden(reqURL, body)

	case status == http.StatusTooManyRequests:
		c.Kind = KindRateLimited
		c.RateLimit = parseRateLimit(body)
		c.Message = c.RateLimit.Message

	case status == http.StatusServiceUnavailable:
		if isMaintenance(body) {
			c.Kind = KindMaintenance
		} else {
			c.Kind = KindFailed
		}

	case status == http.StatusBadGateway, status == http.StatusGatewayTimeout:
		c.Kind = KindGatewayDown

	default:
		c.Kind = KindFailed
	}

	return c
}

// classifyAuth suppresses the sign-in effect for pricing endpoints: the
// pricing surface is browsable signed out, an auth failure there is just a
// failure.
func classifyAuth(reqURL string) Kind {
	if strings.Contains(reqURL, "pricing") {
		return KindFailed
	}
	return KindAuthRequired
}

func classifyForbidden(reqURL string, body []byte) Kind {
	// A 403 on any calendar endpoint means the calendar link is gone,
	// regardless of what the body says.
	if strings.Contains(reqURL, "calendar") {
		return KindCalendarAuthLost
	}

	if gjson.GetBytes(body, "detail").String() == "Not authenticated" {
		return classifyAuth(reqURL)
	}

	return KindFailed
}

// parseRateLimit extracts the backend's 429 payload. Fields the backend
// omits stay zero; the notice renders what is there.
func parseRateLimit(body []byte) *RateLimitInfo {
	detail := gjson.GetBytes(body, "detail")

	info := &RateLimitInfo{
		Message:      detail.Get("message").String(),
		CurrentUsage: detail.Get("current_usage").Int(),
		Limit:        detail.Get("limit").Int(),
		TierName:     detail.Get("tier_name").String(),
		ResetPeriod:  detail.Get("reset_period").String(),
		Endpoint:     detail.Get("endpoint").String(),
	}

	// Some endpoints return detail as a bare string.
	if info.Message == "" && detail.Type == gjson.String {
		info.Message = detail.String()
	}
	if info.Message == "" {
		info.Message = "Rate limit exceeded. Upgrade your plan for higher limits."
	}

	return info
}

func isMaintenance(body []byte) bool {
	if gjson.GetBytes(body, "detail.maintenance").Bool() {
		return true
	}
	if gjson.GetBytes(body, "maintenance").Bool() {
		return true
	}
	return strings.Contains(strings.ToLower(gjson.GetBytes(body, "detail").String()), "maintenance")
}
