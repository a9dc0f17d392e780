// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/storyvoter/internal/users/profile"
)

// # Account Data Access

// AccountRepository defines the data access contract for credentials.
type AccountRepository interface {

	/*
		Create persists the account and its profile atomically.

		Parameters:
		  - account: Credentials with a hashed password
		  - owner: The profile to create with the same id
		  - key: Folded pseudonym used for uniqueness

		Returns:
		  - error: [ErrEmailTaken] or [profile.ErrPseudonymTaken] on duplicates
	*/
	Create(context context.Context, account *Account, owner *profile.Profile, key string) error

	/*
		FindByEmail returns the account for a normalized email.

		Returns:
		  - error: NOT_FOUND if no account matches
	*/
	FindByEmail(context context.Context, email string) (*Account, error)
}

// # Session Data Access

// SessionStore keeps refresh sessions keyed by the token hash.
type SessionStore interface {

	// Save stores userID under tokenHash for ttl.
	Save(context context.Context, tokenHash, userID string, ttl time.Duration) error

	/*
		Take atomically reads and deletes a session, so a refresh token can be
		exchanged at most once.

		Returns:
		  - string: The owning user id
		  - error: NOT_FOUND if absent or expired
	*/
	Take(context context.Context, tokenHash string) (string, error)

	// Delete removes a session. Missing sessions are not an error.
	Delete(context context.Context, tokenHash string) error
}
