// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToPgx5DSN(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@db:5432/storyvoter":   "pgx5://u:p@db:5432/storyvoter",
		"postgresql://u:p@db:5432/storyvoter": "pgx5://u:p@db:5432/storyvoter",
		"pgx5://u:p@db:5432/storyvoter":       "pgx5://u:p@db:5432/storyvoter",
		"host=db dbname=storyvoter":           "host=db dbname=storyvoter",
	}

	for input, want := range tests {
		assert.Equal(t, want, convertToPgx5DSN(input), input)
	}
}
