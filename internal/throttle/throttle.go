// Package throttle provides per-identifier fixed-window request limiting.
//
// Each Limiter owns one mutex-guarded store, so independently configured
// profiles (contact form, generic API, login-style flows) never share state.
// A fixed window trades a small burst-at-boundary inaccuracy for O(1) memory
// and O(1) check cost per identifier.
//
// Usage:
//
//	lim, _ := throttle.New(throttle.ContactFormConfig())
//	res := lim.Check(ctx, clientIP)
//	if !res.Allowed {
//	    // Return 429 Too Many Requests, Retry-After: res.RetryAfter
//	}
package throttle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"formgate/internal/platform/metrics"
	"formgate/internal/platform/privacy"
	"formgate/pkg/requesttime"
)

// Result reports the outcome of a single throttle check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// Config describes one named throttle profile.
type Config struct {
	// Profile names the limiter in logs and metrics.
	Profile string
	// MaxRequests is the number of requests accepted per window.
	MaxRequests int
	// Window is the fixed window length.
	Window time.Duration
}

// ContactFormConfig is the strict profile guarding the contact form.
func ContactFormConfig() Config {
	return Config{Profile: "contact_form", MaxRequests: 3, Window: time.Minute}
}

// APIConfig is the looser profile for generic API use.
func APIConfig() Config {
	return Config{Profile: "api", MaxRequests: 10, Window: time.Minute}
}

// LoginConfig is the profile for authentication-style flows.
func LoginConfig() Config {
	return Config{Profile: "login", MaxRequests: 5, Window: 15 * time.Minute}
}

// entry is the per-identifier window state. An expired entry is replaced,
// never merged, on the next check.
type entry struct {
	count         int
	windowResetAt time.Time
	lastSeenAt    time.Time
}

// sweepEvery bounds how often the amortized garbage collection runs.
// The sweep itself is O(store size); spreading it across checks keeps the
// common path O(1) without a background task contending for the lock.
const sweepEvery = 64

// Limiter enforces a fixed-window request limit per identifier.
// Thread-safe for concurrent use by HTTP handlers.
type Limiter struct {
	mu               sync.Mutex
	entries          map[string]*entry
	cfg              Config
	logger           *slog.Logger
	metrics          *metrics.Metrics
	checksSinceSweep int
}

// Option configures a Limiter instance.
type Option func(*Limiter)

// WithLogger sets the structured logger for denial logging.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

// WithMetrics sets the metrics recorder for observability.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// New creates a limiter for the given profile.
// Returns an error if the config is not a usable limit.
func New(cfg Config, opts ...Option) (*Limiter, error) {
	if cfg.MaxRequests <= 0 {
		return nil, errors.New("max requests must be positive")
	}
	if cfg.Window <= 0 {
		return nil, errors.New("window must be positive")
	}

	l := &Limiter{
		entries: make(map[string]*entry),
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Check records one request for identifier and reports whether it is allowed.
// It never fails: a first-ever identifier gets a fresh window, an exhausted
// one gets a denial with the seconds remaining until reset. Blocked calls do
// not increment the count, so repeated denials cannot corrupt the window.
func (l *Limiter) Check(ctx context.Context, identifier string) Result {
	now := requesttime.Now(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.checksSinceSweep++
	if l.checksSinceSweep >= sweepEvery {
		l.sweep(now)
	}

	e, ok := l.entries[identifier]
	if !ok || !now.Before(e.windowResetAt) {
		l.entries[identifier] = &entry{
			count:         1,
			windowResetAt: now.Add(l.cfg.Window),
			lastSeenAt:    now,
		}
		return l.result(true, l.cfg.MaxRequests-1, now.Add(l.cfg.Window), now)
	}

	e.lastSeenAt = now
	if e.count < l.cfg.MaxRequests {
		e.count++
		return l.result(true, l.cfg.MaxRequests-e.count, e.windowResetAt, now)
	}

	if l.metrics != nil {
		l.metrics.ThrottleDenied.WithLabelValues(l.cfg.Profile).Inc()
	}
	if l.logger != nil {
		l.logger.Warn("rate limit exceeded",
			"profile", l.cfg.Profile,
			"identifier", privacy.AnonymizeIP(identifier),
			"limit", l.cfg.MaxRequests,
			"window_seconds", int(l.cfg.Window.Seconds()),
		)
	}
	return l.result(false, 0, e.windowResetAt, now)
}

// Size reports the number of tracked identifiers. Intended for tests and metrics.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// sweep drops entries idle for more than twice the window length.
// Caller must hold l.mu.
func (l *Limiter) sweep(now time.Time) {
	l.checksSinceSweep = 0
	cutoff := now.Add(-2 * l.cfg.Window)
	for id, e := range l.entries {
		if e.lastSeenAt.Before(cutoff) {
			delete(l.entries, id)
		}
	}
	if l.metrics != nil {
		l.metrics.ThrottleStoreSize.WithLabelValues(l.cfg.Profile).Set(float64(len(l.entries)))
	}
}

func (l *Limiter) result(allowed bool, remaining int, resetAt, now time.Time) Result {
	return Result{
		Allowed:    allowed,
		Limit:      l.cfg.MaxRequests,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfterSeconds(allowed, resetAt, now),
	}
}

// retryAfterSeconds calculates seconds until retry is allowed.
func retryAfterSeconds(allowed bool, resetAt, now time.Time) int {
	if allowed {
		return 0
	}
	seconds := int(resetAt.Sub(now).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}
