// Package handler exposes the contact submission endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"formgate/internal/contact/models"
	"formgate/internal/contact/service"
	"formgate/internal/platform/metrics"
	"formgate/internal/platform/middleware"
	"formgate/internal/sanitize"
	"formgate/internal/throttle"
	respond "formgate/internal/transport/http/json"
	"formgate/internal/transport/http/shared"
	dErrors "formgate/pkg/domain-errors"
)

// Service defines the submission operations the handler depends on.
type Service interface {
	IssueToken(ctx context.Context) (*models.TokenGrant, error)
	Submit(ctx context.Context, req models.SubmitRequest, clientIP, userAgent string) (*service.Outcome, error)
}

// Handler handles the contact form endpoints.
type Handler struct {
	logger  *slog.Logger
	contact Service
	metrics *metrics.Metrics
}

// New creates a new contact Handler.
func New(contact Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		contact: contact,
		metrics: metrics,
	}
}

// Register registers the contact routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/contact-token", h.handleIssueToken)
	r.Post("/contact", h.handleSubmit)
}

func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	grant, err := h.contact.IssueToken(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue contact token",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, grant)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	defer func() {
		if h.metrics != nil {
			h.metrics.SubmitLatency.Observe(time.Since(start).Seconds())
		}
	}()

	requestID := middleware.GetRequestID(ctx)

	// Declared-length guard runs before any body read. The body-limit
	// middleware still backstops clients that lie about Content-Length.
	if err := sanitize.CheckContentLength(r.ContentLength); err != nil {
		h.logger.WarnContext(ctx, "oversized submission rejected",
			"request_id", requestID,
			"content_length", r.ContentLength,
		)
		shared.WriteError(w, err)
		return
	}

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode submission",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	clientIP := middleware.GetClientIP(ctx)
	out, err := h.contact.Submit(ctx, req, clientIP, r.UserAgent())
	if out != nil {
		writeThrottleHeaders(w, out.Throttle)
	}
	if err != nil {
		h.writeSubmitError(w, r, out, err)
		return
	}

	respond.WriteJSON(w, http.StatusOK, out.Receipt)
}

func (h *Handler) writeSubmitError(w http.ResponseWriter, r *http.Request, out *service.Outcome, err error) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	switch {
	case dErrors.HasCode(err, dErrors.CodeThrottleExceeded):
		w.Header().Set("Retry-After", shared.RetryAfterValue(out.Throttle.RetryAfter))
		shared.WriteError(w, err)
	case dErrors.HasCode(err, dErrors.CodeValidation) && out != nil:
		shared.WriteErrorFields(w, err, out.FieldErrors)
	case dErrors.HasCode(err, dErrors.CodePersistenceFailure):
		h.logger.ErrorContext(ctx, "submission could not be persisted",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
	default:
		shared.WriteError(w, err)
	}
}

// writeThrottleHeaders reports the client's window state on every submission
// outcome, accepted or not.
func writeThrottleHeaders(w http.ResponseWriter, res throttle.Result) {
	if res.Limit == 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
}
