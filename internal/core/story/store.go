// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import "context"

// # Story Data Access

// Repository defines the data access contract for stories.
type Repository interface {

	/*
		FindByID returns the story with its author's pseudonym.

		Returns:
		  - *Story: Hydrated story
		  - error: NOT_FOUND if missing
	*/
	FindByID(context context.Context, id string) (*Story, error)

	/*
		Update applies input to the story owned by authorID.

		Returns:
		  - *Story: The updated story
		  - error: NOT_FOUND if no story with that id belongs to authorID
	*/
	Update(context context.Context, id, authorID string, input UpdateInput) (*Story, error)

	/*
		SetCompleted flips the completion flag of a story owned by authorID.
	*/
	SetCompleted(context context.Context, id, authorID string, completed bool) error

	/*
		Delete removes a story owned by authorID. Chapters, options, votes and
		favorites go with it through ON DELETE CASCADE.
	*/
	Delete(context context.Context, id, authorID string) error

	/*
		ListByAuthor returns the dashboard rows of an author, newest first.
	*/
	ListByAuthor(context context.Context, authorID string) ([]*DashboardEntry, error)
}
