// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. In development a local .env file is loaded first with 'joho/godotenv';
variables already present in the process environment always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Once loaded, configuration is read-only and passed to components through
their constructors.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// # Configuration Schema

// Config holds all runtime configuration for the StoryVoter API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Signing keys for access tokens
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"storyvoter.app"`
	ExtraOrigins        string `env:"EXTRA_ORIGINS"`

	Voting  Voting
	Feed    Feed
	Billing Billing
}

// Voting holds the vote weighting and poll rules.
type Voting struct {
	OrdinaryWeight int64 `env:"ORDINARY_VOTE_WEIGHT" envDefault:"1"`
	BoostedWeight  int64 `env:"PAID_VOTE_WEIGHT"     envDefault:"3"`
	BoostedCost    int64 `env:"PAID_VOTE_COST"       envDefault:"1"`

	// SequentialPolls refuses a new chapter while the previous chapter's poll is open.
	SequentialPolls bool `env:"SEQUENTIAL_POLLS" envDefault:"true"`
}

// Feed holds read-side tunables.
type Feed struct {
	SwipeWindow time.Duration `env:"SWIPE_WINDOW"   envDefault:"24h"`
	CacheTTL    time.Duration `env:"FEED_CACHE_TTL" envDefault:"15s"`
}

// Billing holds coin pricing and the YooKassa credentials.
type Billing struct {
	CoinPrice          decimal.Decimal `env:"COIN_PRICE"             envDefault:"150.00"`
	Currency           string          `env:"COIN_CURRENCY"          envDefault:"RUB"`
	MaxCoinsPerPayment int64           `env:"MAX_COINS_PER_PURCHASE" envDefault:"100"`

	YooKassaShopID    string `env:"YOOKASSA_SHOP_ID"`
	YooKassaSecretKey string `env:"YOOKASSA_SECRET_KEY"`
	YooKassaAPIURL    string `env:"YOOKASSA_API_URL" envDefault:"https://api.yookassa.ru/v3"`
	ReturnURL         string `env:"PAYMENT_RETURN_URL" envDefault:"http://localhost:3000/profile"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env: %w", err)
	}

	return Parse(env.Options{})
}

// Parse maps the environment described by opts into a validated [Config].
// Tests pass opts.Environment to avoid touching the process environment.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Voting.OrdinaryWeight <= 0 || c.Voting.BoostedWeight <= 0:
		return errors.New("config: vote weights must be positive")
	case c.Voting.BoostedCost <= 0:
		return errors.New("config: PAID_VOTE_COST must be positive")
	case !c.Billing.CoinPrice.IsPositive():
		return errors.New("config: COIN_PRICE must be positive")
	case c.Billing.MaxCoinsPerPayment <= 0:
		return errors.New("config: MAX_COINS_PER_PURCHASE must be positive")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginAllowed reports whether a browser origin may call the API.
func (c *Config) OriginAllowed(origin string) bool {
	if c.IsDevelopment() {
		return true
	}
	if c.AllowedOriginSuffix != "" && strings.HasSuffix(origin, c.AllowedOriginSuffix) {
		return true
	}
	for _, extra := range strings.Split(c.ExtraOrigins, ",") {
		if extra = strings.TrimSpace(extra); extra != "" && extra == origin {
			return true
		}
	}
	return false
}
