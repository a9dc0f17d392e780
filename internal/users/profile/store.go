// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import "context"

// # Profile Data Access

// Repository defines the persistence contract for profiles.
type Repository interface {

	/*
		FindByID retrieves a profile.

		Returns:
		  - *Profile: Loaded profile
		  - error: NOT_FOUND if missing
	*/
	FindByID(context context.Context, id string) (*Profile, error)

	/*
		Update applies input. When input.Pseudonym is set, key is its folded form.

		Returns:
		  - *Profile: The updated profile
		  - error: CONFLICT if the pseudonym is taken
	*/
	Update(context context.Context, id string, input UpdateInput, key string) (*Profile, error)

	/*
		AcceptTerms records acceptance of the publishing terms. Idempotent.
	*/
	AcceptTerms(context context.Context, id string) error
}
