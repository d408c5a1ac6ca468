package sanitize

import (
	dErrors "formgate/pkg/domain-errors"
)

// MaxRequestBytes is the pre-parse ceiling on a declared request body size (10 KB).
const MaxRequestBytes = 10 * 1024

// CheckContentLength compares a declared content length against the request
// ceiling, before any parsing is attempted. A negative declared length means
// the client did not declare one; that is left to the body-limit middleware.
func CheckContentLength(declared int64) error {
	if declared > MaxRequestBytes {
		return dErrors.New(dErrors.CodePayloadTooLarge, "request body exceeds 10KB limit")
	}
	return nil
}
