// Package json holds the shared response encoder for HTTP handlers.
package json

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes response as JSON with the given status. Encoding failures
// fall back to a plain 500; the status already sent cannot be rewound.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
