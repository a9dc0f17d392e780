// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":         "postgres://localhost/storyvoter",
		"REDIS_URL":            "redis://localhost:6379/0",
		"JWT_PRIVATE_KEY_PATH": "/keys/private.pem",
		"JWT_PUBLIC_KEY_PATH":  "/keys/public.pem",
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: requiredEnv()})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(1), cfg.Voting.OrdinaryWeight)
	assert.Equal(t, int64(3), cfg.Voting.BoostedWeight)
	assert.Equal(t, int64(1), cfg.Voting.BoostedCost)
	assert.True(t, cfg.Voting.SequentialPolls)
	assert.Equal(t, 24*time.Hour, cfg.Feed.SwipeWindow)
	assert.Equal(t, "150", cfg.Billing.CoinPrice.String())
	assert.Equal(t, "RUB", cfg.Billing.Currency)
}

func TestParse_MissingRequired(t *testing.T) {
	_, err := Parse(env.Options{Environment: map[string]string{}})
	assert.Error(t, err)
}

func TestParse_RejectsNonPositiveWeights(t *testing.T) {
	vars := requiredEnv()
	vars["PAID_VOTE_WEIGHT"] = "0"

	_, err := Parse(env.Options{Environment: vars})
	assert.ErrorContains(t, err, "weights")
}

func TestOriginAllowed(t *testing.T) {
	cfg := &Config{Environment: "production", AllowedOriginSuffix: "storyvoter.app", ExtraOrigins: "https://preview.example.com"}

	assert.True(t, cfg.OriginAllowed("https://www.storyvoter.app"))
	assert.True(t, cfg.OriginAllowed("https://preview.example.com"))
	assert.False(t, cfg.OriginAllowed("https://evil.example.com"))

	cfg.Environment = "development"
	assert.True(t, cfg.OriginAllowed("https://evil.example.com"))
}
