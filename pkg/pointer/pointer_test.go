// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToAndVal(t *testing.T) {
	count := int64(3)
	p := To(count)
	count = 4

	assert.Equal(t, int64(3), Val(p))
	assert.Equal(t, 0, Val[int](nil))
	assert.Equal(t, "", Val[string](nil))
}
