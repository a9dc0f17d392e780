// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import "context"

// # Feed Data Access

// Repository reads ranked story pages.
type Repository interface {

	/*
		ListStories returns one page of cards (without viewer flags).

		Returns:
		  - []StoryCard: Cards in sort order
		  - int: Total stories matching the query
		  - error: Database errors
	*/
	ListStories(context context.Context, query Query) ([]StoryCard, int, error)
}
