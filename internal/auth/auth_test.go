package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewKeysRejectsEmptySecret(t *testing.T) {
	_, err := NewKeys("", time.Hour)
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	keys, err := NewKeys("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := keys.GenerateToken("user-123", RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := keys.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.Subject)
	require.Equal(t, RoleUser, claims.Role)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	signer, err := NewKeys("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewKeys("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := signer.GenerateToken("user-123", RoleUser)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	keys := &Keys{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := keys.GenerateToken("user-123", RoleUser)
	require.NoError(t, err)

	_, err = keys.VerifyToken(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	keys, err := NewKeys("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = keys.VerifyToken("not-a-token")
	require.Error(t, err)
}
