// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func question(text string) *string { return &text }

func TestChapter_State(t *testing.T) {
	expiresAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	chapter := &Chapter{Question: question("Open the door?"), ExpiresAt: expiresAt}

	tests := []struct {
		name string
		now  time.Time
		want PollState
	}{
		{"long before", expiresAt.Add(-24 * time.Hour), PollOpen},
		{"one second before", expiresAt.Add(-time.Second), PollOpen},
		{"at expiry", expiresAt, PollClosed},
		{"one second after", expiresAt.Add(time.Second), PollClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chapter.State(tt.now))
		})
	}
}

func TestChapter_NoQuestionMeansNoPoll(t *testing.T) {
	now := time.Now()
	chapter := &Chapter{ExpiresAt: now.Add(time.Hour)}

	assert.Equal(t, PollNone, chapter.State(now))
	assert.False(t, chapter.IsOpen(now))

	chapter.Question = question("")
	assert.False(t, chapter.HasPoll())
}

/*
TestCanVote covers the expiry boundary for a user who never voted and the
already-voted case inside the window.
*/
func TestCanVote(t *testing.T) {
	expiresAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	chapter := &Chapter{Question: question("Trust the stranger?"), ExpiresAt: expiresAt}

	assert.True(t, CanVote(chapter, false, expiresAt.Add(-time.Second)))
	assert.False(t, CanVote(chapter, false, expiresAt.Add(time.Second)))
	assert.False(t, CanVote(chapter, true, expiresAt.Add(-time.Second)))
}

func TestRemainingAndExpiry(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	chapter := &Chapter{Question: question("Left or right?"), ExpiresAt: ExpiryFor(created, 24*time.Hour)}

	assert.Equal(t, created.Add(24*time.Hour), chapter.ExpiresAt)
	assert.Equal(t, 6*time.Hour, chapter.Remaining(created.Add(18*time.Hour)))
	assert.Zero(t, chapter.Remaining(created.Add(25*time.Hour)))
}

func TestChapter_Option(t *testing.T) {
	chapter := &Chapter{Options: []*Option{{ID: "a", Text: "Left"}, {ID: "b", Text: "Right"}}}

	assert.Equal(t, "Right", chapter.Option("b").Text)
	assert.Nil(t, chapter.Option("c"))
}
