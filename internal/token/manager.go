// Package token manages anti-forgery tokens for form submissions: server-issued,
// session-bound, one-time secrets with expiry. The session key routes to the
// right stored secret; the secret is the thing actually compared.
package token

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"formgate/internal/platform/metrics"
	"formgate/pkg/requesttime"
	"formgate/pkg/secrets"
)

// record is a stored token. At most one live record exists per session key;
// issuing again for the same key overwrites any prior unconsumed record.
type record struct {
	secret    string
	issuedAt  time.Time
	expiresAt time.Time
}

// Manager issues and single-use-validates anti-forgery tokens.
// Thread-safe for concurrent use by HTTP handlers.
type Manager struct {
	mu       sync.Mutex
	tokens   map[string]*record
	ttl      time.Duration
	capacity int
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Manager instance.
type Option func(*Manager)

// WithLogger sets the structured logger for issuance and validation logging.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics sets the metrics recorder for observability.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mx
	}
}

// NewManager creates a token manager. ttl is the token lifetime; capacity
// bounds the store so abandoned issuances cannot grow it without limit.
func NewManager(ttl time.Duration, capacity int, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if capacity <= 0 {
		capacity = 10000
	}
	m := &Manager{
		tokens:   make(map[string]*record),
		ttl:      ttl,
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewSessionKey produces a fresh unguessable identifier correlating an
// issuance with a later validation call, independent of the secret itself.
func (m *Manager) NewSessionKey() string {
	return uuid.NewString()
}

// Issue generates a new secret for sessionKey, overwriting any prior stored
// token for that key, and returns it. When the store has grown beyond its
// capacity bound, expired entries are cleaned up before insertion.
func (m *Manager) Issue(ctx context.Context, sessionKey string) (string, error) {
	secret, err := secrets.Generate()
	if err != nil {
		return "", err
	}
	now := requesttime.Now(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.tokens) >= m.capacity {
		m.evict(now)
	}

	m.tokens[sessionKey] = &record{
		secret:    secret,
		issuedAt:  now,
		expiresAt: now.Add(m.ttl),
	}

	if m.metrics != nil {
		m.metrics.TokensIssued.Inc()
	}
	return secret, nil
}

// Validate consumes the token stored for sessionKey and reports whether the
// supplied secret matches it. The entry is deleted on the first validation
// attempt regardless of outcome, so a second call always fails. Expired
// entries fail and are removed. The comparison is constant-time so the match
// length cannot be recovered through timing.
func (m *Manager) Validate(ctx context.Context, secret, sessionKey string) bool {
	now := requesttime.Now(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tokens[sessionKey]
	if !ok {
		m.observe("missing")
		return false
	}
	if now.After(rec.expiresAt) {
		delete(m.tokens, sessionKey)
		m.observe("expired")
		return false
	}

	// One-time use: consume before reporting the comparison outcome.
	delete(m.tokens, sessionKey)

	if subtle.ConstantTimeCompare([]byte(rec.secret), []byte(secret)) != 1 {
		m.observe("mismatch")
		return false
	}
	m.observe("ok")
	return true
}

// Size reports the number of stored tokens. Intended for tests and metrics.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// evict removes expired records, then oldest-by-scan records until the store
// fits its capacity again. Caller must hold m.mu.
func (m *Manager) evict(now time.Time) {
	for key, rec := range m.tokens {
		if now.After(rec.expiresAt) {
			delete(m.tokens, key)
		}
	}
	for len(m.tokens) >= m.capacity {
		oldestKey := ""
		var oldest time.Time
		for key, rec := range m.tokens {
			if oldestKey == "" || rec.issuedAt.Before(oldest) {
				oldestKey = key
				oldest = rec.issuedAt
			}
		}
		delete(m.tokens, oldestKey)
	}
}

func (m *Manager) observe(result string) {
	if m.metrics != nil {
		m.metrics.TokenValidations.WithLabelValues(result).Inc()
	}
	if m.logger != nil && result != "ok" {
		m.logger.Warn("token validation failed", "reason", result)
	}
}
