package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "formgate/pkg/domain-errors"
)

// Message is a contact submission after it has cleared the defense layer.
// Field values are always the sanitized forms; the raw submission is never
// persisted. The submitter's network address is stored anonymized.
type Message struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Body          string    `json:"body"`
	ClientNetwork string    `json:"client_network"` // anonymized, e.g. "203.0.113.0"
	ClientDevice  string    `json:"client_device"`  // e.g. "Chrome on macOS"
	ReceivedAt    time.Time `json:"received_at"`
}

// NewMessage creates a Message with domain invariant validation.
// Callers pass sanitized values; empty ones indicate a sequencing bug upstream.
func NewMessage(name, email, body, clientNetwork, clientDevice string, receivedAt time.Time) (*Message, error) {
	if name == "" || email == "" || body == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "message fields cannot be empty")
	}
	if receivedAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "received_at cannot be zero")
	}

	return &Message{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         email,
		Body:          body,
		ClientNetwork: clientNetwork,
		ClientDevice:  clientDevice,
		ReceivedAt:    receivedAt,
	}, nil
}
