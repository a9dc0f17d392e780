// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/middleware"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// Handler implements the HTTP layer for favorites.
type Handler struct {
	service *Service
}

// NewHandler constructs a new favorite [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches favorite endpoints. All require authentication.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(reader chi.Router) {
		reader.Use(middleware.RequireAuth)
		reader.Get("/me/favorites", handler.List)
		reader.Put("/stories/{storyID}/favorite", handler.mutate(handler.service.Add))
		reader.Delete("/stories/{storyID}/favorite", handler.mutate(handler.service.Remove))
		reader.Post("/stories/{storyID}/favorite/toggle", handler.mutate(handler.service.Toggle))
	})
}

type mutation func(context context.Context, userID, storyID string) (State, error)

// mutate adapts a bookmark operation to a handler returning the new [State].
func (handler *Handler) mutate(operation mutation) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		storyID, err := request.ID(req, "storyID", "Story")
		if err != nil {
			respond.Error(writer, req, err)
			return
		}

		state, err := operation(req.Context(), request.ViewerID(req), storyID)
		if err != nil {
			respond.Error(writer, req, err)
			return
		}

		respond.OK(writer, state)
	}
}

// List handles GET /api/v1/me/favorites.
func (handler *Handler) List(writer http.ResponseWriter, req *http.Request) {
	page := pagination.FromRequest(req)

	stories, total, err := handler.service.List(req.Context(), request.ViewerID(req), page)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, stories, pagination.NewMeta(page.Page, page.Limit, total))
}
