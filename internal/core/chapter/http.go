// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for reading chapters.
type Handler struct {
	service *Service
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the public chapter endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/chapters/{chapterID}", handler.GetChapter)
	api.Get("/stories/{storyID}/chapters", handler.ListChapters)
}

/*
GET /api/v1/chapters/{chapterID}.

Response:
  - 200: View: Chapter with rendered content, options and poll state
  - 404: NOT_FOUND
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, req *http.Request) {
	chapterID, err := request.ID(req, "chapterID", "Chapter")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	view, err := handler.service.GetChapter(req.Context(), chapterID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, view)
}

/*
GET /api/v1/stories/{storyID}/chapters.

Response:
  - 200: []View: Chapters in reading order, without content
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, req *http.Request) {
	storyID, err := request.ID(req, "storyID", "Story")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	views, err := handler.service.ListByStory(req.Context(), storyID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, views)
}
