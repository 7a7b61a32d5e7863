package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", "taskhive-test", time.Hour)

	token, err := m.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", "taskhive-test", -time.Minute)

	token, err := m.Issue("user-123")
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "taskhive-test", time.Hour)
	verifier := NewTokenManager("secret-b", "taskhive-test", time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestTokenGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", "taskhive-test", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(token)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized), "token %q", token)
	}
}
