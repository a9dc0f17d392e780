// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package story

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/internal/platform/postgres"
)

// storyRepository implements the [Repository] interface using pgx.
type storyRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed story store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &storyRepository{pool: pool}
}

// Columns is the SELECT list matching [Scan]; it expects stories aliased as
// "s" and profiles as "p".
var Columns = fmt.Sprintf("s.%s, s.%s, p.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s, s.%s",
	schema.Stories.ID,
	schema.Stories.AuthorID,
	schema.Profiles.Pseudonym,
	schema.Stories.Title,
	schema.Stories.Description,
	schema.Stories.AgeRating,
	schema.Stories.IsCompleted,
	schema.Stories.Engagement,
	schema.Stories.CreatedAt,
	schema.Stories.UpdatedAt,
)

// FromJoin is the FROM clause matching [Columns].
var FromJoin = fmt.Sprintf("%s s JOIN %s p ON p.%s = s.%s",
	schema.Stories.Table, schema.Profiles.Table, schema.Profiles.ID, schema.Stories.AuthorID)

// Scan hydrates a story from a row selected with [Columns], followed by extra destinations.
func Scan(row interface{ Scan(...any) error }, extra ...any) (*Story, error) {
	var story Story
	destinations := append([]any{
		&story.ID,
		&story.AuthorID,
		&story.AuthorPseudonym,
		&story.Title,
		&story.Description,
		&story.AgeRating,
		&story.IsCompleted,
		&story.Engagement,
		&story.CreatedAt,
		&story.UpdatedAt,
	}, extra...)

	if err := row.Scan(destinations...); err != nil {
		return nil, err
	}
	return &story, nil
}

/*
Insert writes a new story row. It runs on the caller's querier so the
publication workflow can create the story and its first chapter atomically.
*/
func Insert(context context.Context, querier postgres.Querier, story *Story) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
	`,
		schema.Stories.Table,
		schema.Stories.ID, schema.Stories.AuthorID, schema.Stories.Title, schema.Stories.Description,
		schema.Stories.AgeRating, schema.Stories.IsCompleted, schema.Stories.CreatedAt, schema.Stories.UpdatedAt,
	)

	_, err := querier.Exec(context, query,
		story.ID, story.AuthorID, story.Title, story.Description, story.AgeRating, story.CreatedAt)
	return dberr.Wrap(err, "insert story")
}

// FindByID retrieves a single story with its author pseudonym.
func (repository *storyRepository) FindByID(context context.Context, id string) (*Story, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE s.%s = $1`, Columns, FromJoin, schema.Stories.ID)

	story, err := Scan(repository.pool.QueryRow(context, query, id))
	if err != nil {
		err = dberr.Wrap(err, "find story")
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.NotFound("Story")
		}
		return nil, err
	}
	return story, nil
}

/*
Update builds a partial UPDATE from the non-nil fields of input.

The author guard lives in the WHERE clause so a concurrent ownership check
cannot be bypassed between read and write.
*/
func (repository *storyRepository) Update(context context.Context, id, authorID string, input UpdateInput) (*Story, error) {
	var setClauses []string
	var args []any
	argID := 1

	add := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if input.Title != nil {
		add(schema.Stories.Title, *input.Title)
	}
	if input.Description != nil {
		add(schema.Stories.Description, *input.Description)
	}
	if input.AgeRating != nil {
		add(schema.Stories.AgeRating, *input.AgeRating)
	}
	setClauses = append(setClauses, fmt.Sprintf("%s = NOW()", schema.Stories.UpdatedAt))

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d AND %s = $%d`,
		schema.Stories.Table, strings.Join(setClauses, ", "),
		schema.Stories.ID, argID, schema.Stories.AuthorID, argID+1,
	)
	args = append(args, id, authorID)

	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "update story")
	}
	if tag.RowsAffected() == 0 {
		return nil, apperr.NotFound("Story")
	}

	return repository.FindByID(context, id)
}

// SetCompleted flips the completion flag.
func (repository *storyRepository) SetCompleted(context context.Context, id, authorID string, completed bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2 AND %s = $3`,
		schema.Stories.Table, schema.Stories.IsCompleted, schema.Stories.UpdatedAt,
		schema.Stories.ID, schema.Stories.AuthorID)

	tag, err := repository.pool.Exec(context, query, completed, id, authorID)
	if err != nil {
		return dberr.Wrap(err, "complete story")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}
	return nil
}

// Delete removes the story; the schema cascades the rest.
func (repository *storyRepository) Delete(context context.Context, id, authorID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Stories.Table, schema.Stories.ID, schema.Stories.AuthorID)

	tag, err := repository.pool.Exec(context, query, id, authorID)
	if err != nil {
		return dberr.Wrap(err, "delete story")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Story")
	}
	return nil
}

/*
ListByAuthor aggregates chapter counts and the latest chapter's deadline per story.
*/
func (repository *storyRepository) ListByAuthor(context context.Context, authorID string) ([]*DashboardEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s,
			COUNT(c.%s) AS chapter_count,
			COALESCE(MAX(c.%s), 0) AS last_number,
			(ARRAY_AGG(c.%s ORDER BY c.%s DESC) FILTER (WHERE c.%s IS NOT NULL))[1] AS last_expires_at
		FROM %s
		LEFT JOIN %s c ON c.%s = s.%s
		WHERE s.%s = $1
		GROUP BY s.%s, p.%s
		ORDER BY s.%s DESC
	`,
		Columns,
		schema.Chapters.ID,
		schema.Chapters.Number,
		schema.Chapters.ExpiresAt, schema.Chapters.Number, schema.Chapters.ID,
		FromJoin,
		schema.Chapters.Table, schema.Chapters.StoryID, schema.Stories.ID,
		schema.Stories.AuthorID,
		schema.Stories.ID, schema.Profiles.Pseudonym,
		schema.Stories.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, authorID)
	if err != nil {
		return nil, dberr.Wrap(err, "list author stories")
	}
	defer rows.Close()

	entries := []*DashboardEntry{}
	for rows.Next() {
		var entry DashboardEntry
		story, err := Scan(rows, &entry.ChapterCount, &entry.LastChapterNumber, &entry.LastExpiresAt)
		if err != nil {
			return nil, dberr.Wrap(err, "scan author story")
		}
		entry.Story = *story
		entries = append(entries, &entry)
	}

	return entries, dberr.Wrap(rows.Err(), "list author stories")
}
