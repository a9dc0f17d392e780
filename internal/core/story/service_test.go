// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

type fakeRepository struct {
	stories   map[string]*Story
	dashboard []*DashboardEntry
}

func (repository *fakeRepository) FindByID(_ context.Context, id string) (*Story, error) {
	story, ok := repository.stories[id]
	if !ok {
		return nil, apperr.NotFound("Story")
	}
	clone := *story
	return &clone, nil
}

func (repository *fakeRepository) Update(_ context.Context, id, authorID string, input UpdateInput) (*Story, error) {
	story, ok := repository.stories[id]
	if !ok || story.AuthorID != authorID {
		return nil, apperr.NotFound("Story")
	}
	if input.Title != nil {
		story.Title = *input.Title
	}
	if input.AgeRating != nil {
		story.AgeRating = *input.AgeRating
	}
	clone := *story
	return &clone, nil
}

func (repository *fakeRepository) SetCompleted(_ context.Context, id, _ string, completed bool) error {
	repository.stories[id].IsCompleted = completed
	return nil
}

func (repository *fakeRepository) Delete(_ context.Context, id, _ string) error {
	delete(repository.stories, id)
	return nil
}

func (repository *fakeRepository) ListByAuthor(context.Context, string) ([]*DashboardEntry, error) {
	return repository.dashboard, nil
}

func newTestService() (*Service, *fakeRepository) {
	repository := &fakeRepository{stories: map[string]*Story{
		"s1": {ID: "s1", AuthorID: "author", Title: "Harbor", AgeRating: AgeRating12},
	}}
	return NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

func TestAgeRating_IsValid(t *testing.T) {
	for _, rating := range AgeRatings {
		assert.True(t, AgeRating(rating).IsValid(), rating)
	}
	assert.False(t, AgeRating("21+").IsValid())
}

func TestService_UpdateStory(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()
	title := "Harbor Lights"

	updated, err := service.UpdateStory(ctx, "author", "s1", UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Harbor Lights", updated.Title)

	_, err = service.UpdateStory(ctx, "intruder", "s1", UpdateInput{Title: &title})
	assert.ErrorIs(t, err, apperr.Forbidden(""))

	_, err = service.UpdateStory(ctx, "", "s1", UpdateInput{Title: &title})
	assert.ErrorIs(t, err, apperr.Unauthorized(""))

	badRating := AgeRating("21+")
	_, err = service.UpdateStory(ctx, "author", "s1", UpdateInput{AgeRating: &badRating})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

func TestService_DeleteStory_OnlyAuthor(t *testing.T) {
	service, repository := newTestService()
	ctx := context.Background()

	assert.ErrorIs(t, service.DeleteStory(ctx, "intruder", "s1"), apperr.Forbidden(""))
	assert.Contains(t, repository.stories, "s1")

	require.NoError(t, service.DeleteStory(ctx, "author", "s1"))
	assert.NotContains(t, repository.stories, "s1")

	assert.ErrorIs(t, service.DeleteStory(ctx, "author", "s1"), apperr.NotFound("Story"))
}

func TestService_Dashboard_VotingActive(t *testing.T) {
	service, repository := newTestService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	open := now.Add(time.Hour)
	closed := now.Add(-time.Hour)
	repository.dashboard = []*DashboardEntry{
		{Story: Story{ID: "a"}, ChapterCount: 2, LastExpiresAt: &open},
		{Story: Story{ID: "b"}, ChapterCount: 1, LastExpiresAt: &closed},
		{Story: Story{ID: "c"}},
	}

	entries, err := service.Dashboard(context.Background(), "author")
	require.NoError(t, err)

	assert.True(t, entries[0].VotingActive)
	assert.False(t, entries[1].VotingActive)
	assert.False(t, entries[2].VotingActive)
}
