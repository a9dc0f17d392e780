// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package vote

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/pkg/uuid"
)

// # Service Layer

// Service implements the vote engine's use cases.
type Service struct {
	repository Repository
	chapters   chapter.Repository
	weights    config.Voting
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service]. weights decides how much each vote
// counts and what a boosted vote costs.
func NewService(repository Repository, chapters chapter.Repository, weights config.Voting, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		chapters:   chapters,
		weights:    weights,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

/*
CastVote records the caller's choice on a chapter's poll.

Preconditions are checked in this order, each with its own error:
 1. UNAUTHORIZED without a user.
 2. NOT_FOUND for an unknown chapter.
 3. POLL_CLOSED once the poll has expired.
 4. ALREADY_VOTED if the user has a vote on the chapter.
 5. INVALID_OPTION if the option is not one of the chapter's.

The repository repeats 3 to 5 inside the transaction; this pass only fails
fast on snapshots. A boosted vote can also fail with INSUFFICIENT_FUNDS, in
which case nothing is recorded.

Returns:
  - *Receipt: The vote and the caller's (now revealed) results
  - error: One of the errors above, or UPSTREAM_UNAVAILABLE
*/
func (service *Service) CastVote(context context.Context, input CastInput) (*Receipt, error) {
	receipt, err := service.cast(context, input)
	if err != nil {
		if appError := apperr.As(err); appError != nil {
			service.metrics.VoteRejected(appError.Code)
		}
		return nil, err
	}
	return receipt, nil
}

func (service *Service) cast(context context.Context, input CastInput) (*Receipt, error) {
	if input.UserID == "" {
		return nil, apperr.Unauthorized("Sign in to vote")
	}

	target, err := service.chapters.FindByID(context, input.ChapterID)
	if err != nil {
		return nil, err
	}

	now := service.now()
	if !target.IsOpen(now) {
		return nil, ErrPollClosed
	}

	voted, err := service.repository.HasVoted(context, input.UserID, input.ChapterID)
	if err != nil {
		return nil, err
	}
	if voted {
		return nil, ErrAlreadyVoted
	}

	if target.Option(input.OptionID) == nil {
		return nil, ErrInvalidOption
	}

	vote := &Vote{
		ID:        uuid.New(),
		UserID:    input.UserID,
		ChapterID: input.ChapterID,
		OptionID:  input.OptionID,
		Weight:    service.weights.OrdinaryWeight,
		IsBoosted: input.Boosted,
	}

	var cost int64
	kind := KindOrdinary
	if input.Boosted {
		vote.Weight = service.weights.BoostedWeight
		cost = service.weights.BoostedCost
		kind = KindBoosted
	}

	if err := service.repository.Cast(context, vote, cost, now); err != nil {
		return nil, err
	}

	service.metrics.VoteCast(kind)
	service.logger.InfoContext(context, "vote_cast",
		slog.String("chapter_id", vote.ChapterID),
		slog.String("option_id", vote.OptionID),
		slog.Int64("weight", vote.Weight),
		slog.Bool("boosted", vote.IsBoosted),
	)

	// Counters moved; re-read so the caller sees their own vote in the tally.
	fresh, err := service.chapters.FindByID(context, input.ChapterID)
	if err != nil {
		// The vote is committed. Fall back to the pre-cast snapshot, which
		// misses only concurrent voters.
		service.logger.WarnContext(context, "vote_results_reload_failed", slog.Any("error", err))
		fresh = target
		fresh.Option(vote.OptionID).VoteCount += vote.Weight
	}

	return &Receipt{Vote: vote, Results: NewTally(fresh, true, service.now())}, nil
}

/*
Results returns the poll tally as seen by viewerID ("" for anonymous readers).
Standings are hidden until the viewer has voted or the poll has closed.
*/
func (service *Service) Results(context context.Context, chapterID, viewerID string) (*Tally, error) {
	target, err := service.chapters.FindByID(context, chapterID)
	if err != nil {
		return nil, err
	}

	voted, err := service.hasVoted(context, viewerID, chapterID)
	if err != nil {
		return nil, err
	}

	return NewTally(target, voted, service.now()), nil
}

// CanVote reports whether userID could vote on chapterID right now.
func (service *Service) CanVote(context context.Context, chapterID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	target, err := service.chapters.FindByID(context, chapterID)
	if err != nil {
		return false, err
	}

	voted, err := service.hasVoted(context, userID, chapterID)
	if err != nil {
		return false, err
	}

	return chapter.CanVote(target, voted, service.now()), nil
}

// VotedChapters reports which of chapterIDs userID has voted on.
func (service *Service) VotedChapters(context context.Context, userID string, chapterIDs []string) (map[string]bool, error) {
	return service.repository.VotedChapters(context, userID, chapterIDs)
}

func (service *Service) hasVoted(context context.Context, userID, chapterID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return service.repository.HasVoted(context, userID, chapterID)
}
