// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package vote

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/billing/ledger"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/internal/platform/postgres"
)

// # PostgreSQL Repository

// voteRepository implements the [Repository] interface using pgx.
type voteRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed vote store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &voteRepository{pool: pool}
}

/*
Cast executes the vote as a single transaction.

Steps, each of which aborts the whole unit:
 1. Share-lock the chapter and re-check the deadline against castAt.
 2. Insert the vote; a conflict on (user_id, chapter_id) means already voted.
 3. Increment the option counter, guarded by chapter id.
 4. For boosted votes, debit the balance with a floor check.
 5. Grow the story's engagement by the vote weight.
*/
func (repository *voteRepository) Cast(context context.Context, vote *Vote, cost int64, castAt time.Time) error {
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {

		// 1. Poll window
		var storyID string
		var question *string
		var expiresAt time.Time
		lockChapter := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1 FOR SHARE`,
			schema.Chapters.StoryID, schema.Chapters.QuestionText, schema.Chapters.ExpiresAt,
			schema.Chapters.Table, schema.Chapters.ID)

		if err := tx.QueryRow(context, lockChapter, vote.ChapterID).Scan(&storyID, &question, &expiresAt); err != nil {
			err = dberr.Wrap(err, "lock chapter")
			if apperr.HasCode(err, "NOT_FOUND") {
				return apperr.NotFound("Chapter")
			}
			return err
		}
		if question == nil || *question == "" || !castAt.Before(expiresAt) {
			return ErrPollClosed
		}

		// 2. Vote row (double-vote guard)
		insertVote := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT ON CONSTRAINT %s DO NOTHING
		`,
			schema.Votes.Table,
			schema.Votes.ID, schema.Votes.UserID, schema.Votes.ChapterID, schema.Votes.OptionID,
			schema.Votes.Weight, schema.Votes.IsBoosted, schema.Votes.CreatedAt,
			schema.ConstraintVotesUserChapter,
		)

		tag, err := tx.Exec(context, insertVote,
			vote.ID, vote.UserID, vote.ChapterID, vote.OptionID, vote.Weight, vote.IsBoosted, castAt)
		if err != nil {
			if dberr.IsForeignKeyViolation(err) {
				return ErrInvalidOption
			}
			return dberr.Wrap(err, "insert vote")
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyVoted
		}

		// 3. Counter
		increment := fmt.Sprintf(`UPDATE %s SET %s = %s + $1 WHERE %s = $2 AND %s = $3`,
			schema.Options.Table, schema.Options.VoteCount, schema.Options.VoteCount,
			schema.Options.ID, schema.Options.ChapterID)

		tag, err = tx.Exec(context, increment, vote.Weight, vote.OptionID, vote.ChapterID)
		if err != nil {
			return dberr.Wrap(err, "increment option")
		}
		if tag.RowsAffected() == 0 {
			return ErrInvalidOption
		}

		// 4. Payment
		if cost > 0 {
			if err := ledger.Debit(context, tx, vote.UserID, cost, ledger.KindBoostedVote, vote.ID); err != nil {
				return err
			}
		}

		// 5. Engagement
		engage := fmt.Sprintf(`UPDATE %s SET %s = %s + $1 WHERE %s = $2`,
			schema.Stories.Table, schema.Stories.Engagement, schema.Stories.Engagement, schema.Stories.ID)

		_, err = tx.Exec(context, engage, vote.Weight, storyID)
		return dberr.Wrap(err, "grow engagement")
	})

	// A conflict that slipped past ON CONFLICT (e.g. a retried statement) is still a double vote.
	if dberr.IsUniqueViolation(err, schema.ConstraintVotesUserChapter) {
		return ErrAlreadyVoted
	}
	if err == nil {
		vote.CreatedAt = castAt
	}
	return err
}

// HasVoted checks for a vote row.
func (repository *voteRepository) HasVoted(context context.Context, userID, chapterID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2)`,
		schema.Votes.Table, schema.Votes.UserID, schema.Votes.ChapterID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, userID, chapterID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "check vote")
	}
	return exists, nil
}

// VotedChapters resolves many chapters in one round-trip for feed annotations.
func (repository *voteRepository) VotedChapters(context context.Context, userID string, chapterIDs []string) (map[string]bool, error) {
	voted := make(map[string]bool, len(chapterIDs))
	if userID == "" || len(chapterIDs) == 0 {
		return voted, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = ANY($2::uuid[])`,
		schema.Votes.ChapterID, schema.Votes.Table, schema.Votes.UserID, schema.Votes.ChapterID)

	rows, err := repository.pool.Query(context, query, userID, chapterIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "list voted chapters")
	}
	defer rows.Close()

	for rows.Next() {
		var chapterID string
		if err := rows.Scan(&chapterID); err != nil {
			return nil, dberr.Wrap(err, "scan voted chapter")
		}
		voted[chapterID] = true
	}

	return voted, dberr.Wrap(rows.Err(), "list voted chapters")
}
