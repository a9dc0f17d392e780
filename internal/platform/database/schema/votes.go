// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// VotesTable represents the 'votes' table, the auditable log behind option counters.
type VotesTable struct {
	Table     string
	ID        string
	UserID    string
	ChapterID string
	OptionID  string
	Weight    string
	IsBoosted string
	CreatedAt string
}

// Votes is the schema definition for votes.
var Votes = VotesTable{
	Table:     "votes",
	ID:        "id",
	UserID:    "user_id",
	ChapterID: "chapter_id",
	OptionID:  "option_id",
	Weight:    "weight",
	IsBoosted: "is_boosted",
	CreatedAt: "created_at",
}

// FavoritesTable represents the 'favorites' table.
type FavoritesTable struct {
	Table     string
	UserID    string
	StoryID   string
	CreatedAt string
}

// Favorites is the schema definition for favorites.
var Favorites = FavoritesTable{
	Table:     "favorites",
	UserID:    "user_id",
	StoryID:   "story_id",
	CreatedAt: "created_at",
}
