package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestJWTRoundTrip(t *testing.T) {
	token, err := IssueJWT(testSecret, "user-1", TokenTypeAccess, time.Minute, time.Now())
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testSecret, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTRejectsWrongType(t *testing.T) {
	refresh, err := IssueJWT(testSecret, "user-1", TokenTypeRefresh, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ValidateJWT(refresh, testSecret, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	access, err := IssueJWT(testSecret, "user-1", TokenTypeAccess, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = ValidateJWT(access, testSecret, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	token, err := IssueJWT("another-secret", "user-1", TokenTypeAccess, time.Minute, time.Now())
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	token, err := IssueJWT(testSecret, "user-1", TokenTypeAccess, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token", testSecret, TokenTypeAccess)
	assert.Error(t, err)
}
