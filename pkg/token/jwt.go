// Package token issues and verifies chat session tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionManager signs and verifies short-lived WebSocket session tokens.
type SessionManager struct {
	secretKey []byte
	tokenDur  time.Duration
}

// SessionClaims carries the chat session id inside the token.
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// NewSessionManager creates a SessionManager with the given signing secret
// and token lifetime in minutes.
func NewSessionManager(secret string, expireMinutes int) *SessionManager {
	return &SessionManager{
		secretKey: []byte(secret),
		tokenDur:  time.Duration(expireMinutes) * time.Minute,
	}
}

// GenerateToken mints a token for a fresh session id and returns both.
func (m *SessionManager) GenerateToken() (tokenString, sessionID string, err error) {
	sessionID = GenerateRandomString(16)
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString(m.secretKey)
	return tokenString, sessionID, err
}

// VerifyToken validates a token string and returns its claims.
func (m *SessionManager) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GenerateRandomString generates a random hex string of a given byte length.
func GenerateRandomString(length int) string {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		// fall back to a time-derived string on entropy failure
		return fmt.Sprintf("fallback%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
