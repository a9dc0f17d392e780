// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package vote is the vote engine: it records one vote per user per chapter and
keeps the option counters in step with the vote log.

Both representations are kept on purpose. votes is the auditable log (who,
which option, what weight). options.vote_count is the aggregate read on every
page view. A cast writes the vote row, bumps the counter, charges a boosted
vote and grows the story's engagement in one transaction, so the sum of the
counters always equals the weighted count of vote rows.

The (user_id, chapter_id) unique constraint is the only double-vote authority.
The service's HasVoted pre-check only produces a nicer early error.
*/
package vote

import (
	"net/http"
	"time"

	"github.com/taibuivan/storyvoter/internal/billing/ledger"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

// # Domain Entities

// Vote is one user's immutable choice on a chapter.
type Vote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ChapterID string    `json:"chapter_id"`
	OptionID  string    `json:"option_id"`
	Weight    int64     `json:"weight"`
	IsBoosted bool      `json:"is_boosted"`
	CreatedAt time.Time `json:"created_at"`
}

// CastInput is a vote request. The weight is never taken from the client.
type CastInput struct {
	UserID    string
	ChapterID string
	OptionID  string
	Boosted   bool
}

// Receipt is returned after a successful cast.
type Receipt struct {
	Vote    *Vote  `json:"vote"`
	Results *Tally `json:"results"`
}

// Metric labels for accepted votes.
const (
	KindOrdinary = "ordinary"
	KindBoosted  = "boosted"
)

// # Domain Errors

var (
	// ErrPollClosed is returned for a chapter whose poll has expired or never existed.
	ErrPollClosed = apperr.New("POLL_CLOSED", "This poll is closed", http.StatusConflict)

	// ErrAlreadyVoted is returned when the user already has a vote on the chapter.
	// Clients should treat it as "my vote is recorded" when retrying.
	ErrAlreadyVoted = apperr.New("ALREADY_VOTED", "You have already voted on this chapter", http.StatusConflict)

	// ErrInvalidOption is returned when the option is not part of the chapter's poll.
	ErrInvalidOption = apperr.New("INVALID_OPTION", "This option does not belong to the chapter", http.StatusUnprocessableEntity)

	// ErrInsufficientFunds is returned when a boosted vote cannot be paid for.
	ErrInsufficientFunds = ledger.ErrInsufficientFunds
)
