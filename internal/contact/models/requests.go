package models

// SubmitRequest is the POST /contact payload. Secret and SessionKey are
// optional under a lenient token policy and mandatory under a strict one.
type SubmitRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	Secret     string `json:"secret,omitempty"`
	SessionKey string `json:"session_key,omitempty"`
}
