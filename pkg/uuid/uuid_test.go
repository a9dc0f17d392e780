// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_IsTimeOrdered(t *testing.T) {
	first := New()
	second := New()

	assert.True(t, Valid(first))
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first[:13], second[:13])
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("0190a3c2-7b3e-7c1a-9f00-1234567890ab"))
	assert.False(t, Valid("not-a-uuid"))
	assert.False(t, Valid("{0190a3c2-7b3e-7c1a-9f00-1234567890ab}"))
	assert.False(t, Valid(""))
}
