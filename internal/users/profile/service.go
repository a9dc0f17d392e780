// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/validate"
)

// # Service Layer

// Service orchestrates profile reads and edits.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// GetProfile returns the caller's own profile, coins included.
func (service *Service) GetProfile(context context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return service.repository.FindByID(context, userID)
}

/*
UpdateProfile applies a partial set of changes.

Returns:
  - *Profile: The updated profile
  - error: VALIDATION_ERROR, or CONFLICT if the pseudonym is taken
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateInput) (*Profile, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	var key string
	if input.Pseudonym != nil {
		display, folded := NormalizePseudonym(*input.Pseudonym)
		input.Pseudonym, key = &display, folded
	}
	if input.Bio != nil {
		bio := strings.TrimSpace(*input.Bio)
		input.Bio = &bio
	}

	if err := ValidateUpdate(input); err != nil {
		return nil, err
	}

	profile, err := service.repository.Update(context, userID, input, key)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "profile_updated", slog.String("user_id", userID))
	return profile, nil
}

// AcceptTerms records that the caller accepted the publishing terms.
func (service *Service) AcceptTerms(context context.Context, userID string) error {
	if userID == "" {
		return apperr.Unauthorized("Authentication required")
	}

	if err := service.repository.AcceptTerms(context, userID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "terms_accepted", slog.String("user_id", userID))
	return nil
}

// ValidatePseudonym checks a normalized pseudonym.
func ValidatePseudonym(validator *validate.Validator, pseudonym string) *validate.Validator {
	return validator.
		Required(FieldPseudonym, pseudonym).
		MinLen(FieldPseudonym, pseudonym, MinPseudonymLength).
		MaxLen(FieldPseudonym, pseudonym, MaxPseudonymLength)
}

// ValidateUpdate checks the non-nil fields of a normalized input.
func ValidateUpdate(input UpdateInput) error {
	validator := &validate.Validator{}
	if input.Pseudonym != nil {
		ValidatePseudonym(validator, *input.Pseudonym)
	}
	if input.AvatarURL != nil {
		validator.URL(FieldAvatarURL, *input.AvatarURL)
	}
	if input.Bio != nil {
		validator.MaxLen(FieldBio, *input.Bio, MaxBioLength)
	}
	return validator.Err()
}
