// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/internal/platform/postgres"
)

// # PostgreSQL Repository

// chapterRepository implements the [Repository] interface using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed chapter store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &chapterRepository{pool: pool}
}

// chapterColumns is the SELECT list matching [scanChapter].
var chapterColumns = fmt.Sprintf("c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s",
	schema.Chapters.ID,
	schema.Chapters.StoryID,
	schema.Chapters.Number,
	schema.Chapters.Title,
	schema.Chapters.Content,
	schema.Chapters.QuestionText,
	schema.Chapters.ExpiresAt,
	schema.Chapters.CreatedAt,
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChapter(row rowScanner) (*Chapter, error) {
	var chapter Chapter
	err := row.Scan(
		&chapter.ID,
		&chapter.StoryID,
		&chapter.Number,
		&chapter.Title,
		&chapter.Content,
		&chapter.Question,
		&chapter.ExpiresAt,
		&chapter.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	chapter.Options = []*Option{}
	return &chapter, nil
}

/*
FindByID loads one chapter and its options in two round-trips.
*/
func (repository *chapterRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s = $1`,
		chapterColumns, schema.Chapters.Table, schema.Chapters.ID)

	chapter, err := scanChapter(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find chapter")
	}

	if err := AttachOptions(context, repository.pool, []*Chapter{chapter}); err != nil {
		return nil, err
	}

	return chapter, nil
}

/*
ListByStory returns the story's chapters in reading order.
*/
func (repository *chapterRepository) ListByStory(context context.Context, storyID string) ([]*Chapter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s = $1 ORDER BY c.%s ASC`,
		chapterColumns, schema.Chapters.Table, schema.Chapters.StoryID, schema.Chapters.Number)

	return repository.list(context, query, storyID)
}

/*
ListSince returns recently published chapters for the swipe feed.
*/
func (repository *chapterRepository) ListSince(context context.Context, since time.Time, limit int) ([]*Chapter, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s c WHERE c.%s >= $1 ORDER BY c.%s DESC LIMIT $2`,
		chapterColumns, schema.Chapters.Table, schema.Chapters.CreatedAt, schema.Chapters.CreatedAt)

	return repository.list(context, query, since, limit)
}

func (repository *chapterRepository) list(context context.Context, query string, args ...any) ([]*Chapter, error) {
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list chapters")
	}
	defer rows.Close()

	chapters := []*Chapter{}
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan chapter")
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list chapters")
	}

	if err := AttachOptions(context, repository.pool, chapters); err != nil {
		return nil, err
	}

	return chapters, nil
}

/*
AttachOptions loads the options of every given chapter in a single query and
attaches them in position order. Exported for repositories that join chapters
into their own read models.
*/
func AttachOptions(context context.Context, querier postgres.Querier, chapters []*Chapter) error {
	if len(chapters) == 0 {
		return nil
	}

	byID := make(map[string]*Chapter, len(chapters))
	ids := make([]string, 0, len(chapters))
	for _, chapter := range chapters {
		byID[chapter.ID] = chapter
		ids = append(ids, chapter.ID)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1::uuid[])
		ORDER BY %s, %s
	`,
		schema.Options.ID, schema.Options.ChapterID, schema.Options.Position, schema.Options.Text, schema.Options.VoteCount,
		schema.Options.Table,
		schema.Options.ChapterID,
		schema.Options.ChapterID, schema.Options.Position,
	)

	rows, err := querier.Query(context, query, ids)
	if err != nil {
		return dberr.Wrap(err, "list options")
	}
	defer rows.Close()

	for rows.Next() {
		var option Option
		if err := rows.Scan(&option.ID, &option.ChapterID, &option.Position, &option.Text, &option.VoteCount); err != nil {
			return dberr.Wrap(err, "scan option")
		}
		if chapter, ok := byID[option.ChapterID]; ok {
			chapter.Options = append(chapter.Options, &option)
		}
	}

	return dberr.Wrap(rows.Err(), "list options")
}
