package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	now := time.Now()

	token, exp, err := tm.GenerateToken("sess-1", "user-1", "owner@salon.test", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "owner@salon.test", claims.Email)
}

func TestTokenManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	foreign, _, err := other.GenerateToken("sess-1", "user-1", "a@b.test", time.Now())
	require.NoError(t, err)
	_, err = tm.ParseToken(foreign)
	assert.Error(t, err)

	expired, _, err := tm.GenerateToken("sess-2", "user-1", "a@b.test", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = tm.ParseToken(expired)
	assert.Error(t, err)

	_, err = tm.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, 12*time.Hour, NewTokenManager("s", 0).TTL())
}
