// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// StoriesTable represents the 'stories' table.
type StoriesTable struct {
	Table       string
	ID          string
	AuthorID    string
	Title       string
	Description string
	AgeRating   string
	IsCompleted string
	Engagement  string
	CreatedAt   string
	UpdatedAt   string
}

// Stories is the schema definition for stories.
var Stories = StoriesTable{
	Table:       "stories",
	ID:          "id",
	AuthorID:    "author_id",
	Title:       "title",
	Description: "description",
	AgeRating:   "age_rating",
	IsCompleted: "is_completed",
	Engagement:  "engagement",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}
