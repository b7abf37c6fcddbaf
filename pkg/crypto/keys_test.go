package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckAPIKey(t *testing.T) {
	hash, err := HashAPIKey("admin-key-1")
	require.NoError(t, err)
	assert.NotEqual(t, "admin-key-1", hash)

	assert.True(t, CheckAPIKey("admin-key-1", hash))
	assert.False(t, CheckAPIKey("admin-key-2", hash))
	assert.False(t, CheckAPIKey("admin-key-1", "not-a-bcrypt-hash"))
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	require.NoError(t, err)
	assert.Len(t, token, 32) // hex doubles the byte length

	other, err := GenerateRandomToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestGenerateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken()
	require.NoError(t, err)
	assert.Len(t, token, AccessTokenBytes*2)
}
