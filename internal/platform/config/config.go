package config

import (
	"os"
	"time"
)

// TokenPolicy controls whether anti-forgery token validation is enforced.
// It is an explicit configuration switch, never inferred from the request
// or from deployment environment names.
type TokenPolicy string

const (
	// TokenPolicyStrict makes a valid token mandatory on every submission.
	TokenPolicyStrict TokenPolicy = "strict"
	// TokenPolicyLenient lets submissions through without a valid token.
	// Intended for local development and demo deployments only.
	TokenPolicyLenient TokenPolicy = "lenient"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	TokenPolicy   TokenPolicy
	TokenTTL      time.Duration
	TokenCapacity int
	MaxBodyBytes  int64
}

// Defaults. TokenTTL matches the one-hour anti-forgery token lifetime;
// MaxBodyBytes is the pre-parse payload ceiling for the contact endpoint.
const (
	DefaultTokenTTL      = time.Hour
	DefaultTokenCapacity = 10000
	DefaultMaxBodyBytes  = 10 * 1024
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("FORMGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	policy := TokenPolicyStrict
	if os.Getenv("FORMGATE_TOKEN_POLICY") == string(TokenPolicyLenient) {
		policy = TokenPolicyLenient
	}

	tokenTTL := DefaultTokenTTL
	if v := os.Getenv("FORMGATE_TOKEN_TTL"); v != "" {
		if duration, err := time.ParseDuration(v); err == nil {
			tokenTTL = duration
		}
	}

	return Server{
		Addr:          addr,
		TokenPolicy:   policy,
		TokenTTL:      tokenTTL,
		TokenCapacity: DefaultTokenCapacity,
		MaxBodyBytes:  DefaultMaxBodyBytes,
	}
}
