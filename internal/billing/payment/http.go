// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/middleware"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
	"github.com/taibuivan/storyvoter/internal/platform/yookassa"
)

// Handler exposes checkout to buyers and the webhook to YooKassa.
type Handler struct {
	service *Service
}

// NewHandler constructs a new payment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the payment endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/webhooks/yookassa", handler.Webhook)

	api.Group(func(buyer chi.Router) {
		buyer.Use(middleware.RequireAuth)
		buyer.Post("/payments", handler.CreateCheckout)
		buyer.Get("/payments/{paymentID}", handler.GetPayment)
	})
}

type checkoutRequest struct {
	Coins int64 `json:"coins" validate:"required,gt=0"`
}

/*
POST /api/v1/payments

Response:
  - 201: Checkout
  - 422: UNPROCESSABLE with the provider's description
  - 503: UPSTREAM_UNAVAILABLE
*/
func (handler *Handler) CreateCheckout(writer http.ResponseWriter, req *http.Request) {
	var input checkoutRequest
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	checkout, err := handler.service.CreateCheckout(req.Context(), request.ViewerID(req), input.Coins)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, checkout)
}

// GetPayment handles GET /api/v1/payments/{paymentID}, settling it if the provider has finished.
func (handler *Handler) GetPayment(writer http.ResponseWriter, req *http.Request) {
	payment, err := handler.service.Refresh(req.Context(), request.ViewerID(req), chi.URLParam(req, "paymentID"))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.OK(writer, payment)
}

/*
POST /api/v1/webhooks/yookassa

Description: Answers 200 once the notification is processed or safely
ignored. Any other status makes YooKassa retry the delivery.
*/
func (handler *Handler) Webhook(writer http.ResponseWriter, req *http.Request) {
	var notification yookassa.Notification
	if err := request.DecodeJSON(req, &notification); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.HandleNotification(req.Context(), notification); err != nil {
		respond.Error(writer, req, err)
		return
	}

	writer.WriteHeader(http.StatusOK)
}
