// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

type fakeRepository struct {
	chapters map[string]*Chapter
}

func (repository *fakeRepository) FindByID(_ context.Context, id string) (*Chapter, error) {
	chapter, ok := repository.chapters[id]
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}
	clone := *chapter
	return &clone, nil
}

func (repository *fakeRepository) ListByStory(_ context.Context, storyID string) ([]*Chapter, error) {
	var chapters []*Chapter
	for _, chapter := range repository.chapters {
		if chapter.StoryID == storyID {
			clone := *chapter
			chapters = append(chapters, &clone)
		}
	}
	return chapters, nil
}

func (repository *fakeRepository) ListSince(context.Context, time.Time, int) ([]*Chapter, error) {
	return nil, nil
}

const chapterID = "0190a3c2-7b3e-7c1a-9f00-000000000001"

func newTestService(now time.Time) *Service {
	service := NewService(&fakeRepository{chapters: map[string]*Chapter{
		chapterID: {
			ID:        chapterID,
			StoryID:   "story-1",
			Number:    1,
			Title:     "The Lighthouse",
			Content:   "The lamp went **dark**.",
			Question:  question("Climb the stairs?"),
			ExpiresAt: now.Add(2 * time.Hour),
			Options:   []*Option{{ID: "opt-a", Text: "Yes", VoteCount: 7}, {ID: "opt-b", Text: "No"}},
		},
	}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	service.now = func() time.Time { return now }
	return service
}

func TestService_GetChapter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := newTestService(now)

	view, err := service.GetChapter(context.Background(), chapterID)
	require.NoError(t, err)

	assert.Equal(t, PollOpen, view.PollState)
	assert.Equal(t, int64(7200), view.RemainingSeconds)
	assert.Contains(t, view.ContentHTML, "<strong>dark</strong>")

	_, err = service.GetChapter(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.NotFound("Chapter"))
}

/*
TestHandler_GetChapter_HidesVoteCounts verifies that the chapter payload never
carries option standings.
*/
func TestHandler_GetChapter_HidesVoteCounts(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(newTestService(time.Now())).RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/chapters/"+chapterID, nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"poll_state":"open"`)
	assert.NotContains(t, recorder.Body.String(), "vote_count")
	assert.NotContains(t, recorder.Body.String(), "VoteCount")
}

func TestHandler_GetChapter_MalformedID(t *testing.T) {
	router := chi.NewRouter()
	NewHandler(newTestService(time.Now())).RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/chapters/not-a-uuid", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
