// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/middleware"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
)

// Handler implements the HTTP layer for publishing.
type Handler struct {
	service *Service
}

// NewHandler constructs a new publication [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches publishing endpoints. All require authentication.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(author chi.Router) {
		author.Use(middleware.RequireAuth)
		author.Post("/stories", handler.PublishStory)
		author.Post("/stories/{storyID}/chapters", handler.PublishChapter)
	})
}

/*
POST /api/v1/stories.

Request:
  - body: StoryInput with the first chapter under "chapter"

Response:
  - 201: {story, chapter}
  - 403: TERMS_NOT_ACCEPTED
*/
func (handler *Handler) PublishStory(writer http.ResponseWriter, req *http.Request) {
	var input StoryInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	published, err := handler.service.PublishStory(req.Context(), request.ViewerID(req), input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, published)
}

/*
POST /api/v1/stories/{storyID}/chapters.

Request:
  - body: ChapterInput

Response:
  - 201: Chapter
  - 403: FORBIDDEN (not the author)
  - 409: POLL_STILL_OPEN
  - 422: INVALID_CHAPTER_NUMBER
*/
func (handler *Handler) PublishChapter(writer http.ResponseWriter, req *http.Request) {
	storyID, err := request.ID(req, "storyID", "Story")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input ChapterInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	published, err := handler.service.PublishChapter(req.Context(), request.ViewerID(req), storyID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, published)
}
