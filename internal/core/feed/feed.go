// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package feed is the read-only discovery side: ranked story lists and the
swipe feed of recently published chapters.

The feed never writes. Counters may move between two reads; a card reflects
whatever the store returned at the time, and the shared part of an anonymous
page may be served from a short-lived cache. Per-viewer flags (favorite,
voted on latest chapter) are always computed fresh.
*/
package feed

import (
	"fmt"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/core/vote"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// # Sorting

// Sort selects the ranking of the story feed.
type Sort string

const (
	SortNewest        Sort = "newest"
	SortUpdated       Sort = "updated"
	SortEngagement    Sort = "engagement"
	SortCompletedLast Sort = "completed_last"
)

// Sorts lists the accepted sort keys.
var Sorts = []string{string(SortNewest), string(SortUpdated), string(SortEngagement), string(SortCompletedLast)}

// ParseSort maps a query value to a [Sort]; empty or unknown values fall back to newest.
func ParseSort(raw string) Sort {
	switch Sort(raw) {
	case SortUpdated, SortEngagement, SortCompletedLast:
		return Sort(raw)
	}
	return SortNewest
}

// # Queries and Cards

// Query selects one page of the story feed.
type Query struct {
	Sort      Sort
	AgeRating story.AgeRating
	Page      pagination.Params
}

// key is the canonical text of the query, hashed into the cache key.
func (q Query) key() string {
	return fmt.Sprintf("sort=%s&age=%s&page=%d&limit=%d", q.Sort, q.AgeRating, q.Page.Page, q.Page.Limit)
}

// StoryCard is a story as shown in the feed.
type StoryCard struct {
	story.Story
	ChapterCount    int     `json:"chapter_count"`
	LatestChapterID *string `json:"latest_chapter_id,omitempty"`
	Favorited       bool    `json:"favorited"`
	VotedLatest     bool    `json:"voted_latest"`
}

// Page is one page of cards.
type Page struct {
	Cards []StoryCard
	Meta  pagination.Meta
}

// SwipeCard is a recent chapter with its poll, as seen by the viewer.
type SwipeCard struct {
	Chapter chapter.View `json:"chapter"`
	Results *vote.Tally  `json:"results"`
}
