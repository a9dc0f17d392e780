// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "The Lighthouse", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("title", tt.value)

			if !tt.hasError {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Equal(t, "title", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_Chain checks that failures from several rules are collected together.
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}
	v.Email("email", "not-an-email").
		UUID("story_id", "123").
		URL("avatar_url", "ftp://example.com/a.png").
		OneOf("age_rating", "21+", "6+", "12+", "16+", "18+").
		Range("duration_hours", 0, 1, 168).
		MaxLen("pseudonym", "abcdef", 3)

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 6)
}

func TestValidator_URL_AllowsEmpty(t *testing.T) {
	v := &validate.Validator{}
	v.URL("avatar_url", "").URL("avatar_url", "https://cdn.storyvoter.app/a.png")
	assert.False(t, v.HasErrors())
}

type publishRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Options []string `json:"options" validate:"min=2,max=10"`
	Rating  string   `json:"age_rating" validate:"oneof=6+ 12+ 16+ 18+"`
}

/*
TestStruct reports tag failures under the JSON field names.
*/
func TestStruct(t *testing.T) {
	err := validate.Struct(publishRequest{Options: []string{"only one"}, Rating: "21+"})

	ae := apperr.As(err)
	require.NotNil(t, ae)

	fields := map[string]string{}
	for _, detail := range ae.Details {
		fields[detail.Field] = detail.Message
	}

	assert.Equal(t, "This field is required", fields["title"])
	assert.Equal(t, "At least 2 items", fields["options"])
	assert.Equal(t, "Must be one of: 6+, 12+, 16+, 18+", fields["age_rating"])

	assert.NoError(t, validate.Struct(publishRequest{Title: "Ok", Options: []string{"a", "b"}, Rating: "12+"}))
}
