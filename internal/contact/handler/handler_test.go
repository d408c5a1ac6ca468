package handler

// End-to-end tests over the real limiter, token manager and store, so the
// full submission sequence is exercised exactly as cmd/server wires it.

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"formgate/internal/contact/models"
	"formgate/internal/contact/service"
	"formgate/internal/contact/store"
	"formgate/internal/platform/config"
	"formgate/internal/platform/middleware"
	"formgate/internal/sanitize"
	"formgate/internal/throttle"
	"formgate/internal/token"
	"formgate/pkg/requesttime"
)

type HandlerSuite struct {
	suite.Suite
	router  chi.Router
	tokens  *token.Manager
	store   *store.InMemoryMessageStore
	baseNow time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.setup(config.TokenPolicyStrict)
}

func (s *HandlerSuite) setup(policy config.TokenPolicy) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	limiter, err := throttle.New(throttle.ContactFormConfig(), throttle.WithLogger(logger))
	s.Require().NoError(err)

	s.tokens = token.NewManager(time.Hour, 100, token.WithLogger(logger))
	s.store = store.NewInMemoryMessageStore()
	s.baseNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc, err := service.New(limiter, s.tokens, s.store, policy, service.WithLogger(logger))
	s.Require().NoError(err)

	s.router = chi.NewRouter()
	s.router.Use(middleware.ClientIP)
	New(svc, logger, nil).Register(s.router)
}

// do serves a request with a pinned clock and client address.
func (s *HandlerSuite) do(req *http.Request, at time.Time, remoteAddr string) *httptest.ResponseRecorder {
	req.RemoteAddr = remoteAddr
	req = req.WithContext(requesttime.WithTime(req.Context(), at))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) issueGrant() models.TokenGrant {
	req := httptest.NewRequest(http.MethodGet, "/contact-token", nil)
	rec := s.do(req, s.baseNow, "203.0.113.7:40000")
	s.Require().Equal(http.StatusOK, rec.Code)

	var grant models.TokenGrant
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &grant))
	s.Require().NotEmpty(grant.SessionKey)
	s.Require().NotEmpty(grant.Secret)
	return grant
}

func (s *HandlerSuite) submitBody(grant models.TokenGrant) []byte {
	body, err := json.Marshal(models.SubmitRequest{
		Name:       "Jo Smith",
		Email:      "jo@example.com",
		Message:    "Hello there, this is a test.",
		Secret:     grant.Secret,
		SessionKey: grant.SessionKey,
	})
	s.Require().NoError(err)
	return body
}

func (s *HandlerSuite) postContact(body []byte, at time.Time, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	return s.do(req, at, remoteAddr)
}

func (s *HandlerSuite) TestIssuedSecretLooksRandom() {
	first := s.issueGrant()
	second := s.issueGrant()
	s.Len(first.Secret, 43)
	s.NotEqual(first.Secret, second.Secret)
	s.NotEqual(first.SessionKey, second.SessionKey)
}

func (s *HandlerSuite) TestHappyPathPersistsExactlyOnce() {
	grant := s.issueGrant()
	rec := s.postContact(s.submitBody(grant), s.baseNow, "203.0.113.7:40000")

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("3", rec.Header().Get("X-RateLimit-Limit"))
	s.Equal("2", rec.Header().Get("X-RateLimit-Remaining"))
	s.NotEmpty(rec.Header().Get("X-RateLimit-Reset"))

	var receipt models.Receipt
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &receipt))
	s.NotEmpty(receipt.ID)
	s.Equal("received", receipt.Status)

	s.Equal(1, s.store.Count(context.Background()))

	saved, err := s.store.FindByID(context.Background(), receipt.ID)
	s.Require().NoError(err)
	s.Equal("203.0.113.0", saved.ClientNetwork)
	s.Equal(s.baseNow, saved.ReceivedAt)
}

func (s *HandlerSuite) TestBurstBeyondLimitIsThrottled() {
	for i := 0; i < 3; i++ {
		grant := s.issueGrant()
		rec := s.postContact(s.submitBody(grant), s.baseNow.Add(time.Duration(i)*time.Second), "203.0.113.7:40000")
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	}

	grant := s.issueGrant()
	rec := s.postContact(s.submitBody(grant), s.baseNow.Add(10*time.Second), "203.0.113.7:40000")

	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("0", rec.Header().Get("X-RateLimit-Remaining"))
	s.Equal("50", rec.Header().Get("Retry-After"))
	s.Contains(rec.Body.String(), "throttle_exceeded")

	// The denied attempt never reached the token or persistence stages.
	s.Equal(3, s.store.Count(context.Background()))
	s.True(s.tokens.Validate(requesttime.WithTime(context.Background(), s.baseNow), grant.Secret, grant.SessionKey))
}

func (s *HandlerSuite) TestOtherClientsAreNotThrottledTogether() {
	for i := 0; i < 3; i++ {
		grant := s.issueGrant()
		rec := s.postContact(s.submitBody(grant), s.baseNow, "203.0.113.7:40000")
		s.Require().Equal(http.StatusOK, rec.Code)
	}

	grant := s.issueGrant()
	rec := s.postContact(s.submitBody(grant), s.baseNow, "198.51.100.9:40000")
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestTokenCannotBeReplayed() {
	grant := s.issueGrant()
	body := s.submitBody(grant)

	first := s.postContact(body, s.baseNow, "203.0.113.7:40000")
	s.Require().Equal(http.StatusOK, first.Code)

	second := s.postContact(body, s.baseNow, "203.0.113.7:40000")
	s.Equal(http.StatusForbidden, second.Code)
	s.Contains(second.Body.String(), "token_invalid")
	s.Equal(1, s.store.Count(context.Background()))
}

func (s *HandlerSuite) TestMissingTokenIsForbiddenUnderStrictPolicy() {
	rec := s.postContact(s.submitBody(models.TokenGrant{}), s.baseNow, "203.0.113.7:40000")
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("3", rec.Header().Get("X-RateLimit-Limit"), "throttle headers accompany every outcome")
	s.Equal(0, s.store.Count(context.Background()))
}

func (s *HandlerSuite) TestMissingTokenPassesUnderLenientPolicy() {
	s.setup(config.TokenPolicyLenient)

	rec := s.postContact(s.submitBody(models.TokenGrant{}), s.baseNow, "203.0.113.7:40000")
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(1, s.store.Count(context.Background()))
}

func (s *HandlerSuite) TestValidationFailureListsEveryField() {
	grant := s.issueGrant()
	body, err := json.Marshal(models.SubmitRequest{
		Name:       "J",
		Email:      "nope",
		Message:    "short",
		Secret:     grant.Secret,
		SessionKey: grant.SessionKey,
	})
	s.Require().NoError(err)

	rec := s.postContact(body, s.baseNow, "203.0.113.7:40000")
	s.Equal(http.StatusBadRequest, rec.Code)

	var res struct {
		Error  string                `json:"error"`
		Fields []sanitize.FieldError `json:"fields"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	s.Equal("validation_failed", res.Error)
	s.Len(res.Fields, 3)
	s.Equal(0, s.store.Count(context.Background()))
}

func (s *HandlerSuite) TestMalformedBodyIsBadRequest() {
	rec := s.postContact([]byte("{not json"), s.baseNow, "203.0.113.7:40000")
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "invalid_input")
}

func (s *HandlerSuite) TestOversizedDeclaredBodyIsRejectedBeforeParsing() {
	body := []byte(strings.Repeat("a", sanitize.MaxRequestBytes+1))
	req := httptest.NewRequest(http.MethodPost, "/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := s.do(req, s.baseNow, "203.0.113.7:40000")

	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Contains(rec.Body.String(), "payload_too_large")
	s.Empty(rec.Header().Get("X-RateLimit-Limit"), "no throttle state was consumed")
}
