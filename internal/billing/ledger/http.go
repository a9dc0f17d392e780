// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/middleware"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// Handler implements the HTTP layer for balances.
type Handler struct {
	service *Service
}

// NewHandler constructs a new ledger [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the balance endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)
		owner.Get("/me/balance", handler.GetBalance)
		owner.Get("/me/ledger", handler.ListHistory)
	})
}

// GetBalance handles GET /api/v1/me/balance.
func (handler *Handler) GetBalance(writer http.ResponseWriter, req *http.Request) {
	userID, _ := request.RequiredUserID(req)

	balance, err := handler.service.Balance(req.Context(), userID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, balance)
}

/*
GET /api/v1/me/ledger.

Request:
  - page, limit: query parameters

Response:
  - 200: Paginated entries, newest first
*/
func (handler *Handler) ListHistory(writer http.ResponseWriter, req *http.Request) {
	userID, _ := request.RequiredUserID(req)
	page := pagination.FromRequest(req)

	entries, total, err := handler.service.History(req.Context(), userID, page)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, entries, pagination.NewMeta(page.Page, page.Limit, total))
}
