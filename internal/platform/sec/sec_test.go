// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, issuer string) *TokenService {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return NewTokenServiceFromKeys(key, &key.PublicKey, issuer)
}

func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, "storyvoter.test")

	token, err := service.GenerateAccessToken("user-1", "Raven", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Raven", claims.Pseudonym)
}

func TestTokenService_RejectsExpiredAndForeign(t *testing.T) {
	service := newTestTokenService(t, "storyvoter.test")

	expired, err := service.GenerateAccessToken("user-1", "Raven", -time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(expired)
	assert.Error(t, err)

	other := newTestTokenService(t, "storyvoter.test")
	foreign, err := other.GenerateAccessToken("user-1", "Raven", time.Minute)
	require.NoError(t, err)
	_, err = service.VerifyToken(foreign)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("battery staple", hash))
}

func TestSecureToken(t *testing.T) {
	first, err := GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, HashToken(first), HashToken(first))
	assert.Len(t, HashToken(first), 64)
}
