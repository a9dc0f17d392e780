// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package publication creates stories and chapters.

A chapter and its options are written in one transaction; a reader can never
observe a chapter without its poll. Chapter numbers are strictly sequential
per story: the story row is locked while the next number is checked, so two
concurrent publishes cannot both take N+1.
*/
package publication

import (
	"math"
	"net/http"
	"time"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

// # Inputs

// ChapterInput is the author's draft of the next chapter.
type ChapterInput struct {
	Number        int      `json:"number"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	DurationHours int      `json:"duration_hours"`
}

// StoryInput creates a story together with its first chapter.
type StoryInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	AgeRating   story.AgeRating `json:"age_rating"`
	AcceptTerms bool            `json:"accept_terms"`
	Chapter     ChapterInput    `json:"chapter"`
}

// Published is the result of creating a story.
type Published struct {
	Story   *story.Story     `json:"story"`
	Chapter *chapter.Chapter `json:"chapter"`
}

// Sequence is the locked state of a story that the next chapter is checked against.
type Sequence struct {
	AuthorID      string
	LastNumber    int
	LastHasPoll   bool
	LastExpiresAt *time.Time
}

// # Field Limits

const (
	MaxQuestionLength = 500
	MaxOptionLength   = 200
	MinOptions        = 2
	MaxOptions        = 10

	// MaxDurationHours is the longest poll whose expiry still fits in a time.Duration.
	MaxDurationHours = math.MaxInt64 / int64(time.Hour)
)

// # JSON Field Identifiers

const (
	FieldNumber        = "number"
	FieldTitle         = "title"
	FieldContent       = "content"
	FieldQuestion      = "question"
	FieldOptions       = "options"
	FieldDurationHours = "duration_hours"
)

// # Domain Errors

var (
	// ErrInvalidChapterNumber is returned when the number is not the story's last number + 1.
	ErrInvalidChapterNumber = apperr.New("INVALID_CHAPTER_NUMBER", "Chapter number must follow the last published chapter", http.StatusUnprocessableEntity)

	// ErrPollStillOpen is returned while the previous chapter's poll is still accepting votes.
	ErrPollStillOpen = apperr.New("POLL_STILL_OPEN", "The previous chapter's poll is still open", http.StatusConflict)

	// ErrTermsNotAccepted is returned when an author publishes before accepting the terms.
	ErrTermsNotAccepted = apperr.New("TERMS_NOT_ACCEPTED", "Accept the publishing terms first", http.StatusForbidden)
)
