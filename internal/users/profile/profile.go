// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile manages the public identity of a user: pseudonym, avatar,
bio, acceptance of the publishing terms and the coin balance view.

Pseudonyms are unique regardless of case and Unicode width. The store keeps a
folded key next to the display form and enforces uniqueness on the key.
*/
package profile

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

// ErrPseudonymTaken is returned when another profile already uses the pseudonym.
var ErrPseudonymTaken = apperr.New("PSEUDONYM_TAKEN", "Pseudonym is already taken", http.StatusConflict)

// # Domain Entities

// Profile is the public face of an account.
type Profile struct {
	ID            string    `json:"id"`
	Pseudonym     string    `json:"pseudonym"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	Bio           string    `json:"bio"`
	AcceptedTerms bool      `json:"accepted_terms"`
	Coins         int64     `json:"coins"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpdateInput carries the editable fields; nil leaves a field unchanged.
type UpdateInput struct {
	Pseudonym *string `json:"pseudonym"`
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

// # Pseudonyms

// NormalizePseudonym returns the display form (trimmed, NFKC) and the
// uniqueness key (display form case-folded).
func NormalizePseudonym(raw string) (display, key string) {
	display = norm.NFKC.String(strings.TrimSpace(raw))
	key = cases.Fold().String(display)
	return display, key
}

// # Field Limits

const (
	MinPseudonymLength = 3
	MaxPseudonymLength = 32
	MaxBioLength       = 1000
)

// # JSON Field Identifiers

const (
	FieldPseudonym = "pseudonym"
	FieldAvatarURL = "avatar_url"
	FieldBio       = "bio"
)
