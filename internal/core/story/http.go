// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/middleware"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
)

// Handler implements the HTTP layer for story management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new story [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches story endpoints. Listing and creation live in the
// feed and publication handlers.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/stories/{storyID}", handler.GetStory)

	api.Group(func(author chi.Router) {
		author.Use(middleware.RequireAuth)
		author.Patch("/stories/{storyID}", handler.UpdateStory)
		author.Put("/stories/{storyID}/completed", handler.SetCompleted)
		author.Delete("/stories/{storyID}", handler.DeleteStory)
		author.Get("/dashboard/stories", handler.Dashboard)
	})
}

/*
GET /api/v1/stories/{storyID}.

Response:
  - 200: Story
  - 404: NOT_FOUND
*/
func (handler *Handler) GetStory(writer http.ResponseWriter, req *http.Request) {
	storyID, err := request.ID(req, "storyID", "Story")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	story, err := handler.service.GetStory(req.Context(), storyID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, story)
}

/*
PATCH /api/v1/stories/{storyID}.

Request:
  - body: UpdateInput (partial)

Response:
  - 200: Story
  - 403: FORBIDDEN (not the author)
*/
func (handler *Handler) UpdateStory(writer http.ResponseWriter, req *http.Request) {
	storyID, err := request.ID(req, "storyID", "Story")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input UpdateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	userID, _ := request.RequiredUserID(req)
	story, err := handler.service.UpdateStory(req.Context(), userID, storyID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, story)
}

type completedRequest struct {
	Completed bool `json:"completed"`
}

/*
PUT /api/v1/stories/{storyID}/completed.

Request:
  - body: {"completed": bool}

Response:
  - 204: No Content
*/
func (handler *Handler) SetCompleted(writer http.ResponseWriter, req *http.Request) {
	storyID, err := request.ID(req, "storyID", "Story")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input completedRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	userID, _ := request.RequiredUserID(req)
	if err := handler.service.SetCompleted(req.Context(), userID, storyID, input.Completed); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/stories/{storyID}.

Response:
  - 204: No Content
  - 403: FORBIDDEN (not the author)
*/
func (handler *Handler) DeleteStory(writer http.ResponseWriter, req *http.Request) {
	storyID, err := request.ID(req, "storyID", "Story")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	userID, _ := request.RequiredUserID(req)
	if err := handler.service.DeleteStory(req.Context(), userID, storyID); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}

// Dashboard handles GET /api/v1/dashboard/stories.
func (handler *Handler) Dashboard(writer http.ResponseWriter, req *http.Request) {
	userID, _ := request.RequiredUserID(req)

	entries, err := handler.service.Dashboard(req.Context(), userID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, entries)
}
