// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package vote

import (
	"math"
	"time"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/pkg/pointer"
	"github.com/taibuivan/storyvoter/pkg/slice"
)

// # Tally Read Model

// Tally is the per-viewer view of a chapter's poll.
//
// Counts and percentages are nil until Revealed, so standings cannot sway a
// reader who has not voted while the poll is open. With zero votes cast they
// stay nil even when revealed.
type Tally struct {
	ChapterID  string         `json:"chapter_id"`
	Open       bool           `json:"open"`
	HasVoted   bool           `json:"has_voted"`
	CanVote    bool           `json:"can_vote"`
	Revealed   bool           `json:"revealed"`
	TotalVotes *int64         `json:"total_votes,omitempty"`
	Options    []OptionResult `json:"options"`
	ExpiresAt  time.Time      `json:"expires_at"`
}

// OptionResult is one option in a [Tally].
type OptionResult struct {
	ID         string `json:"id"`
	Position   int    `json:"position"`
	Text       string `json:"text"`
	VoteCount  *int64 `json:"vote_count,omitempty"`
	Percentage *int   `json:"percentage,omitempty"`
}

// TotalVotes sums the option counters.
func TotalVotes(options []*chapter.Option) int64 {
	return slice.Reduce(options, int64(0), func(total int64, option *chapter.Option) int64 {
		return total + option.VoteCount
	})
}

// Percentage rounds count/total to the nearest whole percent, half away from zero.
// It is 0 when nothing has been cast.
func Percentage(count, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// CanReveal reports whether a viewer may see the standings: after voting, or
// once the poll no longer accepts votes.
func CanReveal(c *chapter.Chapter, hasVoted bool, now time.Time) bool {
	return hasVoted || !c.IsOpen(now)
}

// NewTally builds the viewer's tally from a chapter snapshot taken at now.
func NewTally(c *chapter.Chapter, hasVoted bool, now time.Time) *Tally {
	tally := &Tally{
		ChapterID: c.ID,
		Open:      c.IsOpen(now),
		HasVoted:  hasVoted,
		CanVote:   chapter.CanVote(c, hasVoted, now),
		Revealed:  CanReveal(c, hasVoted, now),
		Options:   make([]OptionResult, 0, len(c.Options)),
		ExpiresAt: c.ExpiresAt,
	}

	total := TotalVotes(c.Options)
	if tally.Revealed {
		tally.TotalVotes = pointer.To(total)
	}

	for _, option := range c.Options {
		result := OptionResult{ID: option.ID, Position: option.Position, Text: option.Text}
		if tally.Revealed && total > 0 {
			result.VoteCount = pointer.To(option.VoteCount)
			result.Percentage = pointer.To(Percentage(option.VoteCount, total))
		}
		tally.Options = append(tally.Options, result)
	}

	return tally
}
