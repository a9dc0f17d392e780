// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ledger

import (
	"context"

	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// # Ledger Data Access

// Repository defines the data access contract for balances.
type Repository interface {

	/*
		Balance returns the profile's current coins.

		Returns:
		  - int64: Coins
		  - error: NOT_FOUND if the profile does not exist
	*/
	Balance(context context.Context, userID string) (int64, error)

	/*
		History returns the profile's entries, newest first.

		Returns:
		  - []*Entry: Page of entries
		  - int: Total entry count
		  - error: Database errors
	*/
	History(context context.Context, userID string, page pagination.Params) ([]*Entry, int, error)

	/*
		Credit adds coins keyed by reference.

		Returns:
		  - bool: false when reference was already applied (nothing changed)
		  - error: Database errors
	*/
	Credit(context context.Context, userID string, coins int64, kind Kind, reference string) (bool, error)
}
