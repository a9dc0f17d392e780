// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package favorite

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// favoriteRepository implements the [Repository] interface using pgx.
type favoriteRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed favorite store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &favoriteRepository{pool: pool}
}

func (repository *favoriteRepository) Add(context context.Context, userID, storyID string) (bool, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		schema.Favorites.Table, schema.Favorites.UserID, schema.Favorites.StoryID)

	tag, err := repository.pool.Exec(context, query, userID, storyID)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return false, apperr.NotFound("Story")
		}
		return false, dberr.Wrap(err, "add favorite")
	}
	return tag.RowsAffected() == 1, nil
}

func (repository *favoriteRepository) Remove(context context.Context, userID, storyID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Favorites.Table, schema.Favorites.UserID, schema.Favorites.StoryID)

	tag, err := repository.pool.Exec(context, query, userID, storyID)
	if err != nil {
		return false, dberr.Wrap(err, "remove favorite")
	}
	return tag.RowsAffected() == 1, nil
}

func (repository *favoriteRepository) List(context context.Context, userID string, page pagination.Params) ([]*story.Story, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER()
		FROM %s
		JOIN %s f ON f.%s = s.%s
		WHERE f.%s = $1
		ORDER BY f.%s DESC
		LIMIT $2 OFFSET $3
	`,
		story.Columns,
		story.FromJoin,
		schema.Favorites.Table, schema.Favorites.StoryID, schema.Stories.ID,
		schema.Favorites.UserID,
		schema.Favorites.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list favorites")
	}
	defer rows.Close()

	stories := []*story.Story{}
	total := 0
	for rows.Next() {
		item, err := story.Scan(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan favorite")
		}
		stories = append(stories, item)
	}

	return stories, total, dberr.Wrap(rows.Err(), "list favorites")
}

func (repository *favoriteRepository) Favorited(context context.Context, userID string, storyIDs []string) (map[string]bool, error) {
	favorited := make(map[string]bool, len(storyIDs))
	if userID == "" || len(storyIDs) == 0 {
		return favorited, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = ANY($2::uuid[])`,
		schema.Favorites.StoryID, schema.Favorites.Table, schema.Favorites.UserID, schema.Favorites.StoryID)

	rows, err := repository.pool.Query(context, query, userID, storyIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "lookup favorites")
	}
	defer rows.Close()

	for rows.Next() {
		var storyID string
		if err := rows.Scan(&storyID); err != nil {
			return nil, dberr.Wrap(err, "scan favorite id")
		}
		favorited[storyID] = true
	}

	return favorited, dberr.Wrap(rows.Err(), "lookup favorites")
}
