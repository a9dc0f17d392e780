// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/storyvoter/pkg/markdown"
)

// # Service Layer

// Service serves chapters to readers with rendered content and poll state.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
		now:        time.Now,
	}
}

// View is a chapter as presented to readers at a given instant.
type View struct {
	*Chapter
	PollState        PollState `json:"poll_state"`
	RemainingSeconds int64     `json:"remaining_seconds"`
}

// NewView snapshots chapter's poll state at now.
func NewView(chapter *Chapter, now time.Time) View {
	return View{
		Chapter:          chapter,
		PollState:        chapter.State(now),
		RemainingSeconds: int64(chapter.Remaining(now).Seconds()),
	}
}

/*
GetChapter returns one chapter with its markdown content rendered to HTML.

Returns:
  - View: Chapter with poll state at the current instant
  - error: NOT_FOUND if the chapter does not exist
*/
func (service *Service) GetChapter(context context.Context, id string) (View, error) {
	chapter, err := service.repository.FindByID(context, id)
	if err != nil {
		return View{}, err
	}

	service.render(context, chapter)
	return NewView(chapter, service.now()), nil
}

/*
ListByStory returns every chapter of a story in reading order. Content is
left as markdown; lists render titles only.
*/
func (service *Service) ListByStory(context context.Context, storyID string) ([]View, error) {
	chapters, err := service.repository.ListByStory(context, storyID)
	if err != nil {
		return nil, err
	}

	now := service.now()
	views := make([]View, 0, len(chapters))
	for _, chapter := range chapters {
		chapter.Content = ""
		views = append(views, NewView(chapter, now))
	}
	return views, nil
}

// render fills ContentHTML; a rendering failure degrades to the raw text.
func (service *Service) render(context context.Context, chapter *Chapter) {
	html, err := markdown.Render(chapter.Content)
	if err != nil {
		service.logger.WarnContext(context, "chapter_render_failed",
			slog.String("chapter_id", chapter.ID),
			slog.Any("error", err),
		)
		return
	}
	chapter.ContentHTML = html
}
