// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package favorite keeps each reader's set of bookmarked stories.
package favorite

import (
	"context"

	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// # Favorite Data Access

// Repository defines the data access contract for favorites.
type Repository interface {

	/*
		Add bookmarks a story. Adding twice is a no-op.

		Returns:
		  - bool: true when a row was inserted
		  - error: NOT_FOUND for an unknown story
	*/
	Add(context context.Context, userID, storyID string) (bool, error)

	/*
		Remove drops a bookmark. Removing a missing one is a no-op.

		Returns:
		  - bool: true when a row was deleted
	*/
	Remove(context context.Context, userID, storyID string) (bool, error)

	/*
		List returns the user's favorite stories, most recently added first.
	*/
	List(context context.Context, userID string, page pagination.Params) ([]*story.Story, int, error)

	/*
		Favorited returns the subset of storyIDs the user has bookmarked.
	*/
	Favorited(context context.Context, userID string, storyIDs []string) (map[string]bool, error)
}
