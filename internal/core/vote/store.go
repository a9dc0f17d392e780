// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package vote

import (
	"context"
	"time"
)

// # Vote Data Access

// Repository defines the data access contract for votes.
type Repository interface {

	/*
		Cast records vote as one atomic unit: vote row, counter increment,
		optional coin debit and story engagement.

		Parameters:
		  - vote: *Vote (ID, weight and flags already set)
		  - cost: int64 (coins to debit; 0 for ordinary votes)
		  - castAt: time.Time (instant the poll must still be open at)

		Returns:
		  - error: ErrPollClosed, ErrAlreadyVoted, ErrInvalidOption,
		    ErrInsufficientFunds or a store error. Nothing is written on error.
	*/
	Cast(context context.Context, vote *Vote, cost int64, castAt time.Time) error

	/*
		HasVoted reports whether userID has a vote on chapterID.
	*/
	HasVoted(context context.Context, userID, chapterID string) (bool, error)

	/*
		VotedChapters returns the subset of chapterIDs userID has voted on.
	*/
	VotedChapters(context context.Context, userID string, chapterIDs []string) (map[string]bool, error)
}
