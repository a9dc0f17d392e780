// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/middleware"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
)

// Handler implements the HTTP layer for the caller's profile.
type Handler struct {
	service *Service
}

// NewHandler constructs a new profile [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the /me endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)
		owner.Get("/me", handler.GetMe)
		owner.Patch("/me", handler.UpdateMe)
		owner.Post("/me/terms", handler.AcceptTerms)
	})
}

// GetMe handles GET /api/v1/me.
func (handler *Handler) GetMe(writer http.ResponseWriter, req *http.Request) {
	profile, err := handler.service.GetProfile(req.Context(), request.ViewerID(req))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, profile)
}

/*
PATCH /api/v1/me.

Request:
  - body: UpdateInput (partial)

Response:
  - 200: Profile
  - 409: CONFLICT (pseudonym taken)
*/
func (handler *Handler) UpdateMe(writer http.ResponseWriter, req *http.Request) {
	var input UpdateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	profile, err := handler.service.UpdateProfile(req.Context(), request.ViewerID(req), input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, profile)
}

// AcceptTerms handles POST /api/v1/me/terms.
func (handler *Handler) AcceptTerms(writer http.ResponseWriter, req *http.Request) {
	if err := handler.service.AcceptTerms(req.Context(), request.ViewerID(req)); err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.NoContent(writer)
}
