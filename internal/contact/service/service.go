// Package service sequences the defense layer for contact submissions:
// throttle check, anti-forgery token validation, schema validation,
// sanitization, then persistence. Stages run in that fixed order and a
// failure at any stage stops the ones after it.
package service

import (
	"context"
	"errors"
	"log/slog"

	"formgate/internal/contact/clientmeta"
	"formgate/internal/contact/models"
	"formgate/internal/platform/config"
	"formgate/internal/platform/metrics"
	"formgate/internal/platform/privacy"
	"formgate/internal/sanitize"
	"formgate/internal/throttle"
	dErrors "formgate/pkg/domain-errors"
	"formgate/pkg/requesttime"
)

// Throttle bounds the rate of submissions per client identifier.
type Throttle interface {
	Check(ctx context.Context, identifier string) throttle.Result
}

// TokenManager issues and single-use-validates anti-forgery tokens.
type TokenManager interface {
	NewSessionKey() string
	Issue(ctx context.Context, sessionKey string) (string, error)
	Validate(ctx context.Context, secret, sessionKey string) bool
}

// MessageStore persists accepted submissions.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
}

// Outcome carries everything the transport layer needs to answer a
// submission attempt: the throttle state for response headers on every
// outcome, field errors when schema validation failed, and a receipt when
// the message was accepted.
type Outcome struct {
	Receipt     *models.Receipt
	Throttle    throttle.Result
	FieldErrors []sanitize.FieldError
}

// Service is the submission handler core. Thread-safe: all mutable state
// lives in the injected collaborators, each of which serializes its own store.
type Service struct {
	throttle Throttle
	tokens   TokenManager
	store    MessageStore
	policy   config.TokenPolicy
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer
}

// Option configures a Service instance.
type Option func(*Service)

// WithLogger sets the structured logger for audit and debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder for observability.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a submission service. All three collaborators are required;
// policy selects strict or lenient anti-forgery enforcement.
func New(
	thr Throttle,
	tokens TokenManager,
	store MessageStore,
	policy config.TokenPolicy,
	opts ...Option,
) (*Service, error) {
	if thr == nil {
		return nil, errors.New("throttle is required")
	}
	if tokens == nil {
		return nil, errors.New("token manager is required")
	}
	if store == nil {
		return nil, errors.New("message store is required")
	}
	if policy != config.TokenPolicyStrict && policy != config.TokenPolicyLenient {
		return nil, errors.New("token policy must be strict or lenient")
	}

	svc := &Service{
		throttle: thr,
		tokens:   tokens,
		store:    store,
		policy:   policy,
		tracer:   newTracer(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// IssueToken creates a fresh session key with a bound one-time secret.
func (s *Service) IssueToken(ctx context.Context) (*models.TokenGrant, error) {
	sessionKey := s.tokens.NewSessionKey()
	secret, err := s.tokens.Issue(ctx, sessionKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not issue token")
	}
	return &models.TokenGrant{SessionKey: sessionKey, Secret: secret}, nil
}

// Submit runs one submission through the defense sequence. The returned
// Outcome is non-nil on every path so the transport can always emit throttle
// headers; err carries the domain code for the failed stage, if any.
func (s *Service) Submit(ctx context.Context, req models.SubmitRequest, clientIP, userAgent string) (out *Outcome, err error) {
	ctx, end := s.tracer.start(ctx, "contact.Submit")
	defer func() { end(err) }()

	out = &Outcome{}

	out.Throttle = s.throttle.Check(ctx, clientIP)
	if !out.Throttle.Allowed {
		s.count("throttled")
		return out, dErrors.New(dErrors.CodeThrottleExceeded, "too many requests")
	}

	if err := s.checkToken(ctx, req); err != nil {
		s.count("forbidden")
		return out, err
	}

	if fieldErrs := sanitize.ValidateFields(req.Name, req.Email, req.Message); len(fieldErrs) > 0 {
		out.FieldErrors = fieldErrs
		s.observeFieldErrors(fieldErrs)
		s.count("invalid")
		return out, dErrors.New(dErrors.CodeValidation, "one or more fields are invalid")
	}

	s.flagInjectionAttempts(req, clientIP)

	name, email, body, err := s.sanitizeFields(req)
	if err != nil {
		s.count("invalid")
		return out, err
	}

	msg, err := models.NewMessage(
		name,
		email,
		body,
		privacy.AnonymizeIP(clientIP),
		clientmeta.Summarize(userAgent),
		requesttime.Now(ctx),
	)
	if err != nil {
		s.count("error")
		return out, dErrors.Wrap(err, dErrors.CodeInternal, "could not build message")
	}

	if err := s.store.Create(ctx, msg); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to persist message",
				"error", err,
				"message_id", msg.ID,
				"client_network", msg.ClientNetwork,
			)
		}
		s.count("save_failed")
		return out, dErrors.Wrap(err, dErrors.CodePersistenceFailure, "failed to save message")
	}

	if s.logger != nil {
		s.logger.Info("contact message accepted",
			"message_id", msg.ID,
			"email", privacy.MaskEmail(email),
			"client_network", msg.ClientNetwork,
			"client_device", msg.ClientDevice,
		)
	}
	s.count("accepted")

	out.Receipt = &models.Receipt{ID: msg.ID, Status: "received"}
	return out, nil
}

// checkToken applies the configured anti-forgery policy. Under the strict
// policy a valid token is mandatory. Under the lenient policy a supplied
// token is still consumed (one-time use holds in both modes) but its absence
// or failure never blocks the submission.
func (s *Service) checkToken(ctx context.Context, req models.SubmitRequest) error {
	supplied := req.Secret != "" && req.SessionKey != ""

	var valid bool
	if supplied {
		valid = s.tokens.Validate(ctx, req.Secret, req.SessionKey)
	}

	if s.policy == config.TokenPolicyLenient {
		return nil
	}
	if !supplied || !valid {
		// The client never learns whether the token was missing, expired or
		// mismatched; that distinction stays in logs and metrics.
		return dErrors.New(dErrors.CodeTokenInvalid, "invalid or missing anti-forgery token")
	}
	return nil
}

// flagInjectionAttempts records SQL-pattern signals on the raw fields.
// Detection only: parameterized persistence remains the real defense.
func (s *Service) flagInjectionAttempts(req models.SubmitRequest, clientIP string) {
	for field, value := range map[string]string{
		"name":    req.Name,
		"message": req.Message,
	} {
		if !sanitize.LooksLikeSQLInjection(value) {
			continue
		}
		if s.metrics != nil {
			s.metrics.InjectionSignals.WithLabelValues(field).Inc()
		}
		if s.logger != nil {
			s.logger.Warn("sql injection pattern detected",
				"field", field,
				"client_network", privacy.AnonymizeIP(clientIP),
			)
		}
	}
}

// sanitizeFields cleans the validated values. Validated-but-unsanitized
// values never reach the store.
func (s *Service) sanitizeFields(req models.SubmitRequest) (name, email, body string, err error) {
	for _, field := range []struct {
		name string
		raw  string
		dst  *string
	}{
		{"name", req.Name, &name},
		{"email", req.Email, &email},
		{"message", req.Message, &body},
	} {
		res := sanitize.Sanitize(field.raw)
		if res.Rejected {
			return "", "", "", dErrors.New(dErrors.CodeValidation, field.name+" could not be sanitized")
		}
		*field.dst = res.Cleaned
	}
	return name, email, body, nil
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) observeFieldErrors(fieldErrs []sanitize.FieldError) {
	if s.metrics == nil {
		return
	}
	for _, fe := range fieldErrs {
		s.metrics.FieldsRejected.WithLabelValues(fe.Field).Inc()
	}
}
