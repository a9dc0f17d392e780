// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
)

// feedRepository implements the [Repository] interface using pgx.
type feedRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed feed store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &feedRepository{pool: pool}
}

// orderBy whitelists the ORDER BY clause per sort key.
var orderBy = map[Sort]string{
	SortNewest:        fmt.Sprintf("s.%s DESC, s.%s DESC", schema.Stories.CreatedAt, schema.Stories.ID),
	SortUpdated:       fmt.Sprintf("s.%s DESC, s.%s DESC", schema.Stories.UpdatedAt, schema.Stories.ID),
	SortEngagement:    fmt.Sprintf("s.%s DESC, s.%s DESC", schema.Stories.Engagement, schema.Stories.UpdatedAt),
	SortCompletedLast: fmt.Sprintf("s.%s ASC, s.%s DESC", schema.Stories.IsCompleted, schema.Stories.UpdatedAt),
}

/*
ListStories ranks stories that have at least one chapter. Chapter count and
the latest chapter id come from correlated subqueries on chapters' story index.
*/
func (repository *feedRepository) ListStories(context context.Context, query Query) ([]StoryCard, int, error) {
	order, ok := orderBy[query.Sort]
	if !ok {
		order = orderBy[SortNewest]
	}

	statement := fmt.Sprintf(`
		SELECT %[1]s,
			(SELECT COUNT(*) FROM %[2]s c WHERE c.%[3]s = s.%[4]s),
			(SELECT c.%[5]s FROM %[2]s c WHERE c.%[3]s = s.%[4]s ORDER BY c.%[6]s DESC LIMIT 1),
			COUNT(*) OVER()
		FROM %[7]s
		WHERE EXISTS (SELECT 1 FROM %[2]s c WHERE c.%[3]s = s.%[4]s)
			AND ($1 = '' OR s.%[8]s = $1)
		ORDER BY %[9]s
		LIMIT $2 OFFSET $3
	`,
		story.Columns,
		schema.Chapters.Table, schema.Chapters.StoryID, schema.Stories.ID,
		schema.Chapters.ID, schema.Chapters.Number,
		story.FromJoin,
		schema.Stories.AgeRating,
		order,
	)

	rows, err := repository.pool.Query(context, statement, string(query.AgeRating), query.Page.Limit, query.Page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list feed")
	}
	defer rows.Close()

	cards := []StoryCard{}
	total := 0
	for rows.Next() {
		var card StoryCard
		item, err := story.Scan(rows, &card.ChapterCount, &card.LatestChapterID, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan feed card")
		}
		card.Story = *item
		cards = append(cards, card)
	}

	return cards, total, dberr.Wrap(rows.Err(), "list feed")
}
