package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndCharset(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)

	// 32 bytes, base64url without padding
	assert.Len(t, secret, 43)
	for _, r := range secret {
		assert.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_", string(r))
	}
}

func TestGenerateIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		secret, err := Generate()
		require.NoError(t, err)
		assert.False(t, seen[secret])
		seen[secret] = true
	}
}
