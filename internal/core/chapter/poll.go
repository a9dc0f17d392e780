// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "time"

// # Poll State Machine

// PollState is the derived state of a chapter's poll at a given instant.
type PollState string

const (
	// PollOpen accepts votes.
	PollOpen PollState = "open"

	// PollClosed no longer accepts votes; results are public.
	PollClosed PollState = "closed"

	// PollNone marks a chapter without a question.
	PollNone PollState = "none"
)

// HasPoll reports whether the chapter carries a question.
func (c *Chapter) HasPoll() bool {
	return c.Question != nil && *c.Question != ""
}

// State returns the poll state at now.
func (c *Chapter) State(now time.Time) PollState {
	switch {
	case !c.HasPoll():
		return PollNone
	case now.Before(c.ExpiresAt):
		return PollOpen
	default:
		return PollClosed
	}
}

// IsOpen reports whether the poll accepts votes at now.
func (c *Chapter) IsOpen(now time.Time) bool {
	return c.State(now) == PollOpen
}

// Remaining returns the time left before the poll closes, or zero once closed.
func (c *Chapter) Remaining(now time.Time) time.Duration {
	if !c.IsOpen(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// CanVote is the pure voting predicate over a data snapshot: the poll is open
// and the user has not voted on this chapter yet.
func CanVote(chapter *Chapter, hasVoted bool, now time.Time) bool {
	return chapter.IsOpen(now) && !hasVoted
}

// ExpiryFor computes the poll deadline of a chapter published at createdAt.
func ExpiryFor(createdAt time.Time, duration time.Duration) time.Time {
	return createdAt.Add(duration)
}
