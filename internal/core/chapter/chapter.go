// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter defines chapters, their poll options and the poll state machine.

A chapter is immutable once published. Its poll has no stored state besides
the expiry timestamp: it is OPEN while now < ExpiresAt and CLOSED from that
instant on. Nothing ever "closes" a poll; callers compare against the clock
and must re-check at write time because a snapshot can go stale.
*/
package chapter

import "time"

// # Domain Entities

// Chapter is one installment of a story, ending in a reader poll.
type Chapter struct {
	ID          string    `json:"id"`
	StoryID     string    `json:"story_id"`
	Number      int       `json:"number"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html,omitempty"`
	Question    *string   `json:"question,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	Options     []*Option `json:"options"`
}

// Option is one selectable answer of a chapter's poll.
//
// VoteCount is never serialised with the chapter; standings are exposed only
// through the vote package's results view, which applies the reveal rule.
type Option struct {
	ID        string `json:"id"`
	ChapterID string `json:"-"`
	Position  int    `json:"position"`
	Text      string `json:"text"`
	VoteCount int64  `json:"-"`
}

// Option returns the option with the given id, or nil if it is not part of this chapter.
func (c *Chapter) Option(optionID string) *Option {
	for _, option := range c.Options {
		if option.ID == optionID {
			return option
		}
	}
	return nil
}
