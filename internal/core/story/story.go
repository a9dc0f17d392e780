// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package story defines serialized stories and the author-side operations on them.

Stories are created together with their first chapter by the publication
package. This package covers everything after that: reading, editing,
marking complete, deleting (the store cascades to chapters, options and votes)
and the author dashboard.
*/
package story

import "time"

// # Domain Enums

// AgeRating classifies the audience suitability of a story.
type AgeRating string

const (
	AgeRating6  AgeRating = "6+"
	AgeRating12 AgeRating = "12+"
	AgeRating16 AgeRating = "16+"
	AgeRating18 AgeRating = "18+"
)

// AgeRatings lists every accepted rating, youngest first.
var AgeRatings = []string{string(AgeRating6), string(AgeRating12), string(AgeRating16), string(AgeRating18)}

// IsValid reports whether r is a recognised [AgeRating].
func (r AgeRating) IsValid() bool {
	switch r {
	case AgeRating6, AgeRating12, AgeRating16, AgeRating18:
		return true
	}
	return false
}

// # Domain Entities

// Story is a serialized work owned by its author.
//
// Engagement only ever grows: the vote engine adds each accepted vote's
// weight to it in the same transaction that records the vote.
type Story struct {
	ID              string    `json:"id"`
	AuthorID        string    `json:"author_id"`
	AuthorPseudonym string    `json:"author_pseudonym,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	AgeRating       AgeRating `json:"age_rating"`
	IsCompleted     bool      `json:"is_completed"`
	Engagement      int64     `json:"engagement"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UpdateInput carries the editable fields; nil leaves a field unchanged.
type UpdateInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AgeRating   *AgeRating `json:"age_rating"`
}

// DashboardEntry is one row of the author dashboard.
type DashboardEntry struct {
	Story
	ChapterCount      int        `json:"chapter_count"`
	LastChapterNumber int        `json:"last_chapter_number"`
	LastExpiresAt     *time.Time `json:"last_expires_at,omitempty"`
	VotingActive      bool       `json:"voting_active"`
}

// # JSON Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAgeRating   = "age_rating"
)

// Field limits shared with the publication workflow.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)
