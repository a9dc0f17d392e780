// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"time"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/core/vote"
	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/pkg/pagination"
	"github.com/taibuivan/storyvoter/pkg/pointer"
	"github.com/taibuivan/storyvoter/pkg/slice"
)

// # Collaborators

// VoteLookup resolves which chapters a viewer has voted on.
type VoteLookup interface {
	VotedChapters(context context.Context, userID string, chapterIDs []string) (map[string]bool, error)
}

// FavoriteLookup resolves which stories a viewer has bookmarked.
type FavoriteLookup interface {
	Favorited(context context.Context, userID string, storyIDs []string) (map[string]bool, error)
}

// # Service Layer

// Service assembles feed pages.
type Service struct {
	repository Repository
	chapters   chapter.Repository
	votes      VoteLookup
	favorites  FavoriteLookup
	cache      PageCache
	settings   config.Feed
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service]. cache may be nil to disable page caching.
func NewService(
	repository Repository,
	chapters chapter.Repository,
	votes VoteLookup,
	favorites FavoriteLookup,
	cache PageCache,
	settings config.Feed,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository: repository,
		chapters:   chapters,
		votes:      votes,
		favorites:  favorites,
		cache:      cache,
		settings:   settings,
		logger:     logger,
		now:        time.Now,
	}
}

// cachedPage is the viewer-independent part of a page.
type cachedPage struct {
	Cards []StoryCard `json:"cards"`
	Total int         `json:"total"`
}

/*
Stories returns one ranked page annotated for viewerID ("" for anonymous).

Returns:
  - Page: Cards plus pagination meta
  - error: Store errors; cache failures are logged and bypassed
*/
func (service *Service) Stories(context context.Context, viewerID string, query Query) (Page, error) {
	cards, total, err := service.load(context, query)
	if err != nil {
		return Page{}, err
	}

	if err := service.annotate(context, viewerID, cards); err != nil {
		return Page{}, err
	}

	return Page{Cards: cards, Meta: pagination.NewMeta(query.Page.Page, query.Page.Limit, total)}, nil
}

/*
Stream yields every card of the feed lazily, fetching one page at a time
starting at query.Page. Iteration stops at the first error, which is yielded
with a zero card.
*/
func (service *Service) Stream(context context.Context, viewerID string, query Query) iter.Seq2[StoryCard, error] {
	return func(yield func(StoryCard, error) bool) {
		for {
			page, err := service.Stories(context, viewerID, query)
			if err != nil {
				yield(StoryCard{}, err)
				return
			}

			for _, card := range page.Cards {
				if !yield(card, nil) {
					return
				}
			}

			if len(page.Cards) == 0 || !page.Meta.HasMore() {
				return
			}
			query.Page = query.Page.Next()
		}
	}
}

/*
Swipe returns chapters published within the swipe window, newest first, each
with the viewer's poll tally.
*/
func (service *Service) Swipe(context context.Context, viewerID string, limit int) ([]SwipeCard, error) {
	now := service.now()

	chapters, err := service.chapters.ListSince(context, now.Add(-service.settings.SwipeWindow), limit)
	if err != nil {
		return nil, err
	}

	ids := slice.Map(chapters, func(item *chapter.Chapter) string { return item.ID })

	voted := map[string]bool{}
	if viewerID != "" {
		if voted, err = service.votes.VotedChapters(context, viewerID, ids); err != nil {
			return nil, err
		}
	}

	cards := make([]SwipeCard, 0, len(chapters))
	for _, item := range chapters {
		cards = append(cards, SwipeCard{
			Chapter: chapter.NewView(item, now),
			Results: vote.NewTally(item, voted[item.ID], now),
		})
	}
	return cards, nil
}

// load reads the shared part of a page, through the cache when configured.
func (service *Service) load(context context.Context, query Query) ([]StoryCard, int, error) {
	if service.cache == nil || service.settings.CacheTTL <= 0 {
		return service.repository.ListStories(context, query)
	}

	key := cacheKey(query)
	if raw, ok, err := service.cache.Get(context, key); err != nil {
		service.logger.WarnContext(context, "feed_cache_read_failed", slog.Any("error", err))
	} else if ok {
		var cached cachedPage
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached.Cards, cached.Total, nil
		}
	}

	cards, total, err := service.repository.ListStories(context, query)
	if err != nil {
		return nil, 0, err
	}

	if raw, err := json.Marshal(cachedPage{Cards: cards, Total: total}); err == nil {
		if err := service.cache.Set(context, key, raw, service.settings.CacheTTL); err != nil {
			service.logger.WarnContext(context, "feed_cache_write_failed", slog.Any("error", err))
		}
	}
	return cards, total, nil
}

// annotate fills the viewer flags in place. Anonymous viewers get none.
func (service *Service) annotate(context context.Context, viewerID string, cards []StoryCard) error {
	if viewerID == "" || len(cards) == 0 {
		return nil
	}

	storyIDs := slice.Map(cards, func(card StoryCard) string { return card.ID })
	latestIDs := slice.FilterMap(cards, func(card StoryCard) (string, bool) {
		return pointer.Val(card.LatestChapterID), card.LatestChapterID != nil
	})

	favorited, err := service.favorites.Favorited(context, viewerID, storyIDs)
	if err != nil {
		return err
	}

	voted, err := service.votes.VotedChapters(context, viewerID, latestIDs)
	if err != nil {
		return err
	}

	for i := range cards {
		cards[i].Favorited = favorited[cards[i].ID]
		cards[i].VotedLatest = cards[i].LatestChapterID != nil && voted[pointer.Val(cards[i].LatestChapterID)]
	}
	return nil
}
