// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/validate"
	"github.com/taibuivan/storyvoter/pkg/uuid"
)

// # Service Layer

// Service implements the publication workflow.
type Service struct {
	repository Repository
	sequential bool
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service]. With sequential set, a chapter is
// refused while the previous chapter's poll is still open.
func NewService(repository Repository, sequential bool, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		sequential: sequential,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

/*
PublishChapter appends the next chapter to a story.

Checks, in order:
 1. UNAUTHORIZED without a user, NOT_FOUND for an unknown story.
 2. FORBIDDEN unless the caller wrote the story.
 3. INVALID_CHAPTER_NUMBER unless Number is the last number + 1.
 4. POLL_STILL_OPEN while the previous poll runs (sequential mode).
 5. VALIDATION_ERROR for a malformed draft (fewer than two options, etc).

Returns:
  - *chapter.Chapter: The published chapter, poll open until now + duration
  - error: One of the above; nothing is written on error
*/
func (service *Service) PublishChapter(context context.Context, authorID, storyID string, input ChapterInput) (*chapter.Chapter, error) {
	if authorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	now := service.now()
	draft := newDraft(storyID, input, now)

	err := service.repository.PublishChapter(context, draft, func(sequence Sequence) error {
		if sequence.AuthorID != authorID {
			return apperr.Forbidden("Only the author can publish chapters")
		}
		if input.Number != sequence.LastNumber+1 {
			return ErrInvalidChapterNumber
		}
		if service.sequential && sequence.LastHasPoll && sequence.LastExpiresAt != nil && now.Before(*sequence.LastExpiresAt) {
			return ErrPollStillOpen
		}
		return validateChapter(input)
	})
	if err != nil {
		return nil, err
	}

	service.metrics.ChapterPublished()
	service.logger.InfoContext(context, "chapter_published",
		slog.String("story_id", storyID),
		slog.String("chapter_id", draft.ID),
		slog.Int("number", draft.Number),
		slog.Time("expires_at", draft.ExpiresAt),
	)
	return draft, nil
}

/*
PublishStory creates a story with its first chapter in one transaction.

The author must have accepted the publishing terms, or accept them now with
AcceptTerms. The chapter number in the input is ignored; it is always 1.
*/
func (service *Service) PublishStory(context context.Context, authorID string, input StoryInput) (*Published, error) {
	if authorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	input.Chapter.Number = 1
	if err := validateStory(input); err != nil {
		return nil, err
	}

	now := service.now()
	newStory := &story.Story{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		AgeRating:   input.AgeRating,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	first := newDraft(newStory.ID, input.Chapter, now)

	if err := service.repository.PublishStory(context, newStory, first, input.AcceptTerms); err != nil {
		return nil, err
	}

	service.metrics.ChapterPublished()
	service.logger.InfoContext(context, "story_published",
		slog.String("story_id", newStory.ID),
		slog.String("chapter_id", first.ID),
	)
	return &Published{Story: newStory, Chapter: first}, nil
}

// newDraft builds the chapter row from input. Blank options are dropped.
func newDraft(storyID string, input ChapterInput, now time.Time) *chapter.Chapter {
	question := strings.TrimSpace(input.Question)
	draft := &chapter.Chapter{
		ID:        uuid.New(),
		StoryID:   storyID,
		Number:    input.Number,
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Question:  &question,
		CreatedAt: now,
		ExpiresAt: chapter.ExpiryFor(now, time.Duration(input.DurationHours)*time.Hour),
		Options:   []*chapter.Option{},
	}

	for _, text := range nonBlank(input.Options) {
		draft.Options = append(draft.Options, &chapter.Option{
			ID:        uuid.New(),
			ChapterID: draft.ID,
			Position:  len(draft.Options) + 1,
			Text:      text,
		})
	}
	return draft
}

func validateChapter(input ChapterInput) error {
	options := nonBlank(input.Options)

	validator := &validate.Validator{}
	validator.
		Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, story.MaxTitleLength).
		Required(FieldContent, input.Content).
		Required(FieldQuestion, input.Question).
		MaxLen(FieldQuestion, input.Question, MaxQuestionLength).
		Custom(FieldOptions, len(options) < MinOptions, "At least two non-empty options are required").
		Custom(FieldOptions, len(options) > MaxOptions, "At most ten options are allowed").
		Custom(FieldDurationHours, input.DurationHours <= 0, "Poll duration must be positive").
		Custom(FieldDurationHours, int64(input.DurationHours) > MaxDurationHours, "Poll duration is too long")

	for _, option := range options {
		validator.MaxLen(FieldOptions, option, MaxOptionLength)
	}
	return validator.Err()
}

func validateStory(input StoryInput) error {
	validator := &validate.Validator{}
	validator.
		Required(story.FieldTitle, input.Title).
		MaxLen(story.FieldTitle, input.Title, story.MaxTitleLength).
		MaxLen(story.FieldDescription, input.Description, story.MaxDescriptionLength).
		OneOf(story.FieldAgeRating, string(input.AgeRating), story.AgeRatings...)
	if err := validator.Err(); err != nil {
		return err
	}
	return validateChapter(input.Chapter)
}

func nonBlank(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return kept
}
