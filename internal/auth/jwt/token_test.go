package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndValidate(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret"), Issuer: "exam-engine"})

	token, err := m.Issue("author-1", "Ada")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "author-1", claims.Subject)
	assert.Equal(t, "Ada", claims.DisplayName)
}

func TestManager_RejectsWrongSecretAndIssuer(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret"), Issuer: "exam-engine"})
	other := NewManager(TokenConfig{Secret: []byte("other"), Issuer: "exam-engine"})
	foreign := NewManager(TokenConfig{Secret: []byte("secret"), Issuer: "someone-else"})

	token, err := other.Issue("author-1", "")
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err = foreign.Issue("author-1", "")
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager(TokenConfig{Secret: []byte("secret"), TTL: -time.Minute})

	token, err := m.Issue("author-1", "")
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
