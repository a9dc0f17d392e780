// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/constants"
	"github.com/taibuivan/storyvoter/internal/platform/sec"
	"github.com/taibuivan/storyvoter/internal/platform/validate"
	"github.com/taibuivan/storyvoter/internal/users/profile"
	"github.com/taibuivan/storyvoter/pkg/uuid"
)

// # Contracts

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT for the given principal.
	GenerateAccessToken(userID, pseudonym string, timeToLive time.Duration) (string, error)
}

// ProfileReader loads the profile embedded in a [Session].
type ProfileReader interface {
	FindByID(context context.Context, id string) (*profile.Profile, error)
}

// Service implements the authentication use cases.
type Service struct {
	accounts AccountRepository
	sessions SessionStore
	profiles ProfileReader
	tokens   TokenProvider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new [Service].
func NewService(
	accounts AccountRepository,
	sessions SessionStore,
	profiles ProfileReader,
	tokens TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		sessions: sessions,
		profiles: profiles,
		tokens:   tokens,
		logger:   logger,
		now:      time.Now,
	}
}

// # Registration Flow

/*
Register creates an account and its profile.

Description: The email is lower-cased and trimmed. The pseudonym is stored in
display form and checked for uniqueness on its folded key. Duplicates are
detected by the database constraints, not by a pre-read.

Returns:
  - *profile.Profile: The new profile
  - error: VALIDATION_ERROR, [ErrEmailTaken] or [profile.ErrPseudonymTaken]
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*profile.Profile, error) {
	email := normalizeEmail(input.Email)
	pseudonym, key := profile.NormalizePseudonym(input.Pseudonym)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordLength,
			fmt.Sprintf("must be at most %d bytes", MaxPasswordLength))
	profile.ValidatePseudonym(validator, pseudonym)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := service.now().UTC()
	account := &Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	owner := &profile.Profile{
		ID:        account.ID,
		Pseudonym: pseudonym,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.accounts.Create(context, account, owner, key); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_registered", slog.String("user_id", account.ID))
	return owner, nil
}

// # Session Flow

/*
Login verifies credentials and opens a session.

Returns:
  - *Session: Access token, refresh token and profile
  - error: [ErrInvalidCredentials] for any mismatch
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	email := normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	account, err := service.accounts.FindByEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, account.PasswordHash) {
		service.logger.WarnContext(context, "login_failed", slog.String("user_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	return service.issue(context, account.ID)
}

/*
Refresh exchanges a refresh token for a new session. The old token is
consumed whether or not issuing the new one succeeds.

Returns:
  - error: [ErrInvalidRefreshToken] if the token is unknown or already used
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}

	userID, err := service.sessions.Take(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return service.issue(context, userID)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return service.sessions.Delete(context, sec.HashToken(refreshToken))
}

// issue mints an access token and stores a fresh refresh session.
func (service *Service) issue(context context.Context, userID string) (*Session, error) {
	owner, err := service.profiles.FindByID(context, userID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	accessToken, err := service.tokens.GenerateAccessToken(owner.ID, owner.Pseudonym, constants.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, err := sec.GenerateSecureToken(constants.RefreshTokenBytes)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.sessions.Save(context, sec.HashToken(refreshToken), owner.ID, constants.RefreshTokenTTL); err != nil {
		return nil, apperr.Internal(err)
	}

	return &Session{
		AccessToken:      accessToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(constants.AccessTokenTTL / time.Second),
		RefreshToken:     refreshToken,
		RefreshExpiresAt: service.now().Add(constants.RefreshTokenTTL),
		Profile:          owner,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
