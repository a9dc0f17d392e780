// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"time"
)

// # Chapter Data Access

// Repository defines the read contract for chapters and their options.
// Chapters are written only by the publication workflow.
type Repository interface {

	/*
		FindByID returns the chapter with its options ordered by position.

		Returns:
		  - *Chapter: Hydrated chapter
		  - error: apperr NOT_FOUND if missing
	*/
	FindByID(context context.Context, id string) (*Chapter, error)

	/*
		ListByStory returns every chapter of a story, ordered by number, with options.
	*/
	ListByStory(context context.Context, storyID string) ([]*Chapter, error)

	/*
		ListSince returns chapters created at or after since, newest first, with options.

		Parameters:
		  - since: time.Time (lower bound on created_at)
		  - limit: int
	*/
	ListSince(context context.Context, since time.Time, limit int) ([]*Chapter, error)
}
