// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements registration, login and refresh-token sessions.

Accounts hold credentials only; the public identity lives in the profile
created alongside. Access tokens are RS256 JWTs carrying the user id and
pseudonym. Refresh tokens are opaque, stored hashed in Redis and rotated on
every use.
*/
package auth

import (
	"time"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/users/profile"
)

// # Domain Entities

// Account is the credential record behind a profile.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken      string           `json:"access_token"`
	TokenType        string           `json:"token_type"`
	ExpiresIn        int64            `json:"expires_in"`
	RefreshToken     string           `json:"refresh_token"`
	RefreshExpiresAt time.Time        `json:"refresh_expires_at"`
	Profile          *profile.Profile `json:"profile"`
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Pseudonym string `json:"pseudonym"`
}

// LoginInput is the payload for password login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// # Limits

const (
	MinPasswordLength = 8

	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72
)

// # JSON Field Identifiers

const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refresh_token"
)

// # Errors

var (
	// ErrEmailTaken is returned when the email already has an account.
	ErrEmailTaken = apperr.Conflict("Email is already registered")

	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = apperr.Unauthorized("Invalid email or password")

	// ErrInvalidRefreshToken covers unknown, expired and already rotated tokens.
	ErrInvalidRefreshToken = apperr.Unauthorized("Refresh token is invalid or expired")
)
