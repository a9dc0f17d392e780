// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction and the body decoding pattern so
every handler fails the same way on bad input.
*/
package request

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/ctxutil"
	"github.com/taibuivan/storyvoter/internal/platform/validate"
	"github.com/taibuivan/storyvoter/pkg/uuid"
)

// maxBodyBytes caps JSON bodies; chapter content is the largest legitimate payload.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body into target and checks its `validate` tags.

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, a VALIDATION_ERROR if tags fail
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return validate.Struct(target)
}

/*
ID retrieves a UUID path parameter. A malformed id yields NotFound for the
named resource, since no such row can exist.
*/
func ID(request *http.Request, name, resource string) (string, error) {
	id := chi.URLParam(request, name)
	if !uuid.Valid(id) {
		return "", apperr.NotFound(resource)
	}
	return id, nil
}

/*
ViewerID returns the authenticated user id, or "" for anonymous readers.
*/
func ViewerID(request *http.Request) string {
	return ctxutil.UserID(request.Context())
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {
	userID := ctxutil.UserID(request.Context())
	if userID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return userID, nil
}
