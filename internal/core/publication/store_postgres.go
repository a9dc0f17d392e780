// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package publication

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/core/chapter"
	"github.com/taibuivan/storyvoter/internal/core/story"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/internal/platform/postgres"
)

// # PostgreSQL Repository

// publicationRepository implements the [Repository] interface using pgx.
type publicationRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed publication store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &publicationRepository{pool: pool}
}

// PublishChapter runs check against the locked story, then writes the chapter.
func (repository *publicationRepository) PublishChapter(context context.Context, draft *chapter.Chapter, check func(Sequence) error) error {
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		sequence, err := lockSequence(context, tx, draft.StoryID)
		if err != nil {
			return err
		}

		if err := check(sequence); err != nil {
			return err
		}

		if err := insertChapter(context, tx, draft); err != nil {
			return err
		}

		touch := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
			schema.Stories.Table, schema.Stories.UpdatedAt, schema.Stories.ID)
		_, err = tx.Exec(context, touch, draft.CreatedAt, draft.StoryID)
		return dberr.Wrap(err, "touch story")
	})

	// The row lock makes this unreachable in practice; the constraint still decides.
	if dberr.IsUniqueViolation(err, schema.ConstraintChaptersNumber) {
		return ErrInvalidChapterNumber
	}
	return err
}

// PublishStory writes the story and chapter 1 atomically.
func (repository *publicationRepository) PublishStory(context context.Context, newStory *story.Story, first *chapter.Chapter, acceptTerms bool) error {
	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := ensureTerms(context, tx, newStory.AuthorID, acceptTerms); err != nil {
			return err
		}

		if err := story.Insert(context, tx, newStory); err != nil {
			return err
		}

		return insertChapter(context, tx, first)
	})
}

// lockSequence takes the story row lock and reads the last chapter.
func lockSequence(context context.Context, tx pgx.Tx, storyID string) (Sequence, error) {
	var sequence Sequence

	lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.Stories.AuthorID, schema.Stories.Table, schema.Stories.ID)

	if err := tx.QueryRow(context, lock, storyID).Scan(&sequence.AuthorID); err != nil {
		err = dberr.Wrap(err, "lock story")
		if apperr.HasCode(err, "NOT_FOUND") {
			return sequence, apperr.NotFound("Story")
		}
		return sequence, err
	}

	last := fmt.Sprintf(`
		SELECT %s, %s IS NOT NULL AND %s <> '', %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT 1
	`,
		schema.Chapters.Number, schema.Chapters.QuestionText, schema.Chapters.QuestionText, schema.Chapters.ExpiresAt,
		schema.Chapters.Table,
		schema.Chapters.StoryID,
		schema.Chapters.Number,
	)

	err := tx.QueryRow(context, last, storyID).Scan(&sequence.LastNumber, &sequence.LastHasPoll, &sequence.LastExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sequence, nil
	}
	return sequence, dberr.Wrap(err, "read last chapter")
}

// ensureTerms requires, or records, the author's acceptance of the publishing terms.
func ensureTerms(context context.Context, tx pgx.Tx, authorID string, acceptTerms bool) error {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.Profiles.AcceptedTerms, schema.Profiles.Table, schema.Profiles.ID)

	var accepted bool
	if err := tx.QueryRow(context, query, authorID).Scan(&accepted); err != nil {
		err = dberr.Wrap(err, "read terms")
		if apperr.HasCode(err, "NOT_FOUND") {
			return apperr.NotFound("Profile")
		}
		return err
	}

	if accepted {
		return nil
	}
	if !acceptTerms {
		return ErrTermsNotAccepted
	}

	update := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.Profiles.Table, schema.Profiles.AcceptedTerms, schema.Profiles.UpdatedAt, schema.Profiles.ID)
	_, err := tx.Exec(context, update, authorID)
	return dberr.Wrap(err, "accept terms")
}

// insertChapter writes the chapter row, then its options in one batch.
func insertChapter(context context.Context, tx pgx.Tx, draft *chapter.Chapter) error {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		schema.Chapters.Table,
		schema.Chapters.ID, schema.Chapters.StoryID, schema.Chapters.Number, schema.Chapters.Title,
		schema.Chapters.Content, schema.Chapters.QuestionText, schema.Chapters.ExpiresAt, schema.Chapters.CreatedAt,
	)

	_, err := tx.Exec(context, insert,
		draft.ID, draft.StoryID, draft.Number, draft.Title,
		draft.Content, draft.Question, draft.ExpiresAt, draft.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "insert chapter")
	}

	optionInsert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.Options.Table, schema.Options.ID, schema.Options.ChapterID, schema.Options.Position, schema.Options.Text)

	batch := &pgx.Batch{}
	for _, option := range draft.Options {
		batch.Queue(optionInsert, option.ID, draft.ID, option.Position, option.Text)
	}

	// Close reports the first failed statement.
	return dberr.Wrap(tx.SendBatch(context, batch).Close(), "insert options")
}
