// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/validate"
)

// Service orchestrates author-side story management.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// GetStory returns a story by id.
func (service *Service) GetStory(context context.Context, id string) (*Story, error) {
	return service.repository.FindByID(context, id)
}

/*
UpdateStory edits a story's metadata.

Returns:
  - *Story: The updated story
  - error: UNAUTHORIZED, FORBIDDEN (not the author), NOT_FOUND, VALIDATION_ERROR
*/
func (service *Service) UpdateStory(context context.Context, authorID, id string, input UpdateInput) (*Story, error) {
	if err := service.authorize(context, authorID, id); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		validator.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if input.AgeRating != nil {
		validator.OneOf(FieldAgeRating, string(*input.AgeRating), AgeRatings...)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	story, err := service.repository.Update(context, id, authorID, input)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "story_updated", slog.String("story_id", id))
	return story, nil
}

// SetCompleted marks a story finished (or reopens it). Completed stories sort last in the feed.
func (service *Service) SetCompleted(context context.Context, authorID, id string, completed bool) error {
	if err := service.authorize(context, authorID, id); err != nil {
		return err
	}

	if err := service.repository.SetCompleted(context, id, authorID, completed); err != nil {
		return err
	}

	service.logger.InfoContext(context, "story_completion_changed",
		slog.String("story_id", id),
		slog.Bool("completed", completed),
	)
	return nil
}

/*
DeleteStory removes a story and, through the store's cascade, every chapter,
option, vote and favorite that references it.
*/
func (service *Service) DeleteStory(context context.Context, authorID, id string) error {
	if err := service.authorize(context, authorID, id); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id, authorID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "story_deleted", slog.String("story_id", id))
	return nil
}

// Dashboard lists an author's stories with the state of their latest poll.
func (service *Service) Dashboard(context context.Context, authorID string) ([]*DashboardEntry, error) {
	if authorID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	entries, err := service.repository.ListByAuthor(context, authorID)
	if err != nil {
		return nil, err
	}

	now := service.now()
	for _, entry := range entries {
		entry.VotingActive = entry.LastExpiresAt != nil && now.Before(*entry.LastExpiresAt)
	}
	return entries, nil
}

// authorize resolves the story and checks that authorID owns it.
func (service *Service) authorize(context context.Context, authorID, id string) error {
	if authorID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	story, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if story.AuthorID != authorID {
		return apperr.Forbidden("Only the author can change this story")
	}
	return nil
}
