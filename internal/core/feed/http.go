// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
	"github.com/taibuivan/storyvoter/internal/platform/validate"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// defaultSwipeLimit bounds the swipe feed when no limit is given.
const defaultSwipeLimit = 50

// Handler implements the HTTP layer for the feed.
type Handler struct {
	service *Service
}

// NewHandler constructs a new feed [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the public feed endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Get("/stories", handler.ListStories)
	api.Get("/feed/swipe", handler.Swipe)
}

/*
GET /api/v1/stories.

Request:
  - sort: newest | updated | engagement | completed_last
  - age_rating: optional filter
  - page, limit: pagination

Response:
  - 200: Paginated StoryCards
*/
func (handler *Handler) ListStories(writer http.ResponseWriter, req *http.Request) {
	params := req.URL.Query()
	rating := story.AgeRating(params.Get("age_rating"))
	if rating != "" && !rating.IsValid() {
		respond.Error(writer, req, (&validate.Validator{}).OneOf("age_rating", string(rating), story.AgeRatings...).Err())
		return
	}

	query := Query{
		Sort:      ParseSort(params.Get("sort")),
		AgeRating: rating,
		Page:      pagination.FromRequest(req),
	}

	page, err := handler.service.Stories(req.Context(), request.ViewerID(req), query)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, page.Cards, page.Meta)
}

// Swipe handles GET /api/v1/feed/swipe.
func (handler *Handler) Swipe(writer http.ResponseWriter, req *http.Request) {
	limit, err := strconv.Atoi(req.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > pagination.MaxLimit {
		limit = defaultSwipeLimit
	}

	cards, err := handler.service.Swipe(req.Context(), request.ViewerID(req), limit)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, cards)
}
