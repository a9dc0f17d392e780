// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/constants"
	"github.com/taibuivan/storyvoter/internal/platform/request"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the authentication endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches the public /auth endpoints.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Route("/auth", func(router chi.Router) {
		router.Post("/register", handler.register)
		router.Post("/login", handler.login)
		router.Post("/refresh", handler.refresh)
		router.Post("/logout", handler.logout)
	})
}

// refreshRequest lets non-browser clients send the token in the body.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
POST /api/v1/auth/register

Response:
  - 201: Profile
  - 409: CONFLICT or PSEUDONYM_TAKEN
*/
func (handler *Handler) register(writer http.ResponseWriter, req *http.Request) {
	var input RegisterInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	created, err := handler.service.Register(req.Context(), input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Created(writer, created)
}

/*
POST /api/v1/auth/login

Description: Returns the session and sets the refresh token cookie.

Response:
  - 200: Session
  - 401: UNAUTHORIZED
*/
func (handler *Handler) login(writer http.ResponseWriter, req *http.Request) {
	var input LoginInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	session, err := handler.service.Login(req.Context(), input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshExpiresAt)
	respond.OK(writer, session)
}

/*
POST /api/v1/auth/refresh

Description: Rotates the session. The token is read from the cookie, falling
back to the JSON body.
*/
func (handler *Handler) refresh(writer http.ResponseWriter, req *http.Request) {
	session, err := handler.service.Refresh(req.Context(), refreshToken(req))
	if err != nil {
		clearRefreshCookie(writer)
		respond.Error(writer, req, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshExpiresAt)
	respond.OK(writer, session)
}

// logout handles POST /api/v1/auth/logout.
func (handler *Handler) logout(writer http.ResponseWriter, req *http.Request) {
	if err := handler.service.Logout(req.Context(), refreshToken(req)); err != nil {
		respond.Error(writer, req, err)
		return
	}

	clearRefreshCookie(writer)
	respond.NoContent(writer)
}

// # Cookie Helpers

func refreshToken(req *http.Request) string {
	if cookie, err := req.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var body refreshRequest
	if req.Body != nil && request.DecodeJSON(req, &body) == nil {
		return body.RefreshToken
	}
	return ""
}

func setRefreshCookie(writer http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    token,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  expires,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
