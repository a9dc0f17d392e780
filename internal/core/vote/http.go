// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package vote

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/middleware"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
)

// Handler implements the HTTP layer for voting.
type Handler struct {
	service *Service
}

// NewHandler constructs a new vote [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches vote endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/chapters/{chapterID}/results", handler.GetResults)

	api.With(middleware.RequireAuth).Post("/chapters/{chapterID}/votes", handler.CastVote)
}

type castRequest struct {
	OptionID string `json:"option_id" validate:"required,uuid"`
	Boosted  bool   `json:"boosted"`
}

/*
POST /api/v1/chapters/{chapterID}/votes.

Request:
  - body: {"option_id": uuid, "boosted": bool}

Response:
  - 201: Receipt, results always present and revealed
  - 402: INSUFFICIENT_FUNDS
  - 409: POLL_CLOSED, ALREADY_VOTED
  - 422: INVALID_OPTION
  - 503: UPSTREAM_UNAVAILABLE, nothing recorded
*/
func (handler *Handler) CastVote(writer http.ResponseWriter, req *http.Request) {
	chapterID, err := request.ID(req, "chapterID", "Chapter")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var body castRequest
	if err := request.DecodeJSON(req, &body); err != nil {
		respond.Error(writer, req, err)
		return
	}

	receipt, err := handler.service.CastVote(req.Context(), CastInput{
		UserID:    request.ViewerID(req),
		ChapterID: chapterID,
		OptionID:  body.OptionID,
		Boosted:   body.Boosted,
	})
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, receipt)
}

// GetResults handles GET /api/v1/chapters/{chapterID}/results.
func (handler *Handler) GetResults(writer http.ResponseWriter, req *http.Request) {
	chapterID, err := request.ID(req, "chapterID", "Chapter")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	tally, err := handler.service.Results(req.Context(), chapterID, request.ViewerID(req))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, tally)
}
