package secrets

import (
	"crypto/rand"
	"encoding/base64"

	dErrors "formgate/pkg/domain-errors"
)

// secretBytes is the entropy of a generated secret. 32 bytes gives 256 bits,
// which is the floor for anti-forgery secrets.
const secretBytes = 32

// Generate creates a cryptographically secure random secret.
// Returns a base64-encoded string suitable for use as anti-forgery secrets,
// one-time codes, etc.
func Generate() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not generate secret")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
