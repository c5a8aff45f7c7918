package api

import (
	"fmt"
	"sync"

	"github.com/stylelens/stylelens/internal/log"
	"github.com/stylelens/stylelens/internal/notify"
)

// EffectHandler acts on a response classification. Handlers run after every
// response, fire-and-forget: whatever they do never changes what the caller
// of Call receives.
type EffectHandler interface {
	Handle(c Classification)
}

// NopEffects ignores all classifications.
type NopEffects struct{}

// Handle implements EffectHandler.
func (NopEffects) Handle(Classification) {}

// SessionInvalidator drops the locally stored session. Implemented by the
// session store.
type SessionInvalidator interface {
	Invalidate() error
}

// CalendarClearer removes the locally stored calendar keys. Implemented by
// the keystore.
type CalendarClearer interface {
	ClearCalendar() error
}

// Effects is the default cross-cutting response policy. It centralizes the
// global side effects (session teardown, calendar key cleanup, rate-limit
// and availability notices) so individual commands don't re-implement
// them.
type Effects struct {
	sessions SessionInvalidator
	calendar CalendarClearer
	notifier notify.Notifier
	logger   *log.Logger

	// suppressAuth disables the auth-required effect. Set while the login
	// command itself is running: a failed login is already an auth
	// failure, tearing the session down again and telling the user to
	// log in would be noise.
	suppressAuth bool

	mu              sync.Mutex
	maintenanceSeen bool
}

// EffectsConfig wires the collaborators of the default policy.
type EffectsConfig struct {
	Sessions SessionInvalidator
	Calendar CalendarClearer
	Notifier notify.Notifier
	Logger   *log.Logger
}

// NewEffects creates the default effect handler.
func NewEffects(cfg EffectsConfig) *Effects {
	e := &Effects{
		sessions: cfg.Sessions,
		calendar: cfg.Calendar,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
	}
	if e.notifier == nil {
		e.notifier = notify.NopNotifier{}
	}
	if e.logger == nil {
		e.logger = log.DefaultLogger()
	}
	return e
}

// SuppressAuthEffects returns a handler that shares this policy but skips
// the auth-required teardown. Used by the login flow.
func (e *Effects) SuppressAuthEffects() *Effects {
	clone := *e
	clone.suppressAuth = true
	return &clone
}

// Handle implements EffectHandler.
func (e *Effects) Handle(c Classification) {
	// A healthy response ends a maintenance episode; the next one gets
	// its own notice.
	if c.Kind != KindMaintenance {
		e.mu.Lock()
		e.maintenanceSeen = false
		e.mu.Unlock()
	}

	switch c.Kind {
	case KindRedirect:
		e.logger.Info("backend redirected", "status", c.Status, "url", c.URL)

	case KindAuthRequired:
		e.handleAuthRequired(c)

	case KindCalendarAuthLost:
		e.handleCalendarAuthLost(c)

	case KindRateLimited:
		e.handleRateLimited(c)

	case KindMaintenance:
		e.handleMaintenance(c)

	case KindGatewayDown:
		e.notifier.Notify(notify.Notice{
			Severity: notify.SeverityWarn,
			Title:    "Service Temporarily Unavailable",
			Message:  "The StyleLens service did not respond. Please try again shortly.",
		})
	}
}

func (e *Effects) handleAuthRequired(c Classification) {
	if e.suppressAuth {
		return
	}

	if e.sessions != nil {
		if err := e.sessions.Invalidate(); err != nil {
			e.logger.WithError(err).Warn("failed to clear stored session")
		}
	}

	e.notifier.Notify(notify.Notice{
		Severity: notify.SeverityWarn,
		Title:    "Session Expired",
		Message:  "Your session is no longer valid.",
		Action:   "stylelens auth login",
	})
}

func (e *Effects) handleCalendarAuthLost(c Classification) {
	if e.calendar != nil {
		if err := e.calendar.ClearCalendar(); err != nil {
			e.logger.WithError(err).Warn("failed to clear calendar keys")
		}
	}

	e.notifier.Notify(notify.Notice{
		Severity: notify.SeverityWarn,
		Title:    "Calendar Disconnected",
		Message:  "Your Google Calendar connection is no longer valid.",
		Action:   "stylelens calendar connect",
	})
}

func (e *Effects) handleRateLimited(c Classification) {
	info := c.RateLimit
	if info == nil {
		info = &RateLimitInfo{Message: "Rate limit exceeded."}
	}

	msg := info.Message
	if info.Limit > 0 {
		msg = fmt.Sprintf("%s (%d/%d used", info.Message, info.CurrentUsage, info.Limit)
		if info.ResetPeriod != "" {
			msg += ", resets " + info.ResetPeriod
		}
		msg += ")"
	}

	e.notifier.Notify(notify.Notice{
		Severity: notify.SeverityWarn,
		Title:    "Rate Limit Exceeded",
		Message:  msg,
		Action:   "stylelens pricing",
	})
}

func (e *Effects) handleMaintenance(c Classification) {
	e.mu.Lock()
	seen := e.maintenanceSeen
	e.maintenanceSeen = true
	e.mu.Unlock()

	// One notice per maintenance episode, however many calls fail during
	// it.
	if seen {
		return
	}

	e.notifier.Notify(notify.Notice{
		Severity: notify.SeverityError,
		Title:    "Service Under Maintenance",
		Message:  "StyleLens is undergoing maintenance. Please try again later.",
	})
}
