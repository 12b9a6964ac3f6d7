package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	m := NewSessionManager("test-secret", 5)

	tokenString, sessionID, err := m.GenerateToken()
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Len(t, sessionID, 32)

	claims, err := m.VerifyToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	m := NewSessionManager("test-secret", 5)
	tokenString, _, err := m.GenerateToken()
	require.NoError(t, err)

	other := NewSessionManager("another-secret", 5)
	_, err = other.VerifyToken(tokenString)
	assert.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	m := NewSessionManager("test-secret", 5)
	_, err := m.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestVerifyExpiredToken(t *testing.T) {
	m := NewSessionManager("test-secret", -1)
	tokenString, _, err := m.GenerateToken()
	require.NoError(t, err)

	_, err = m.VerifyToken(tokenString)
	assert.Error(t, err)
}
