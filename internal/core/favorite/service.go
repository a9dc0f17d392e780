// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite

import (
	"context"

	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// Service manages bookmarks. Every mutation is idempotent.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// State is the bookmark state after a mutation.
type State struct {
	StoryID   string `json:"story_id"`
	Favorited bool   `json:"favorited"`
}

// Add bookmarks storyID for userID.
func (service *Service) Add(context context.Context, userID, storyID string) (State, error) {
	if userID == "" {
		return State{}, apperr.Unauthorized("Authentication required")
	}
	if _, err := service.repository.Add(context, userID, storyID); err != nil {
		return State{}, err
	}
	return State{StoryID: storyID, Favorited: true}, nil
}

// Remove drops the bookmark.
func (service *Service) Remove(context context.Context, userID, storyID string) (State, error) {
	if userID == "" {
		return State{}, apperr.Unauthorized("Authentication required")
	}
	if _, err := service.repository.Remove(context, userID, storyID); err != nil {
		return State{}, err
	}
	return State{StoryID: storyID, Favorited: false}, nil
}

// Toggle flips the bookmark: a delete that finds nothing becomes an insert.
func (service *Service) Toggle(context context.Context, userID, storyID string) (State, error) {
	if userID == "" {
		return State{}, apperr.Unauthorized("Authentication required")
	}

	removed, err := service.repository.Remove(context, userID, storyID)
	if err != nil {
		return State{}, err
	}
	if removed {
		return State{StoryID: storyID, Favorited: false}, nil
	}

	if _, err := service.repository.Add(context, userID, storyID); err != nil {
		return State{}, err
	}
	return State{StoryID: storyID, Favorited: true}, nil
}

// List returns a page of the user's favorite stories.
func (service *Service) List(context context.Context, userID string, page pagination.Params) ([]*story.Story, int, error) {
	if userID == "" {
		return nil, 0, apperr.Unauthorized("Authentication required")
	}
	return service.repository.List(context, userID, page)
}

// Favorited resolves bookmark flags for feed cards. Anonymous viewers have none.
func (service *Service) Favorited(context context.Context, userID string, storyIDs []string) (map[string]bool, error) {
	if userID == "" {
		return map[string]bool{}, nil
	}
	return service.repository.Favorited(context, userID, storyIDs)
}
