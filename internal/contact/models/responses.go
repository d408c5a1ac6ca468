package models

// TokenGrant is the GET /contact-token response body.
type TokenGrant struct {
	SessionKey string `json:"session_key"`
	Secret     string `json:"secret"`
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
