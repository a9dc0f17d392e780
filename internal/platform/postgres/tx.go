// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/storyvoter/internal/platform/dberr"
)

// Beginner is satisfied by *pgxpool.Pool and by pgx.Tx (savepoints).
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside one transaction. The transaction commits only when fn
// returns nil; any error, or a panic, rolls every statement back.
//
// Errors returned by fn are passed through unchanged so repositories can
// surface domain sentinels from inside the unit. Begin and commit failures go
// through [dberr.Wrap], so an unreachable store reads as UPSTREAM_UNAVAILABLE.
func WithTx(ctx context.Context, db Beginner, fn func(tx pgx.Tx) error) error {
	transaction, err := db.Begin(ctx)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: begin: %w", err), "begin transaction")
	}

	// Rollback after Commit is a no-op.
	defer transaction.Rollback(ctx)

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres: commit: %w", err), "commit transaction")
	}

	return nil
}

// Querier is the statement surface shared by *pgxpool.Pool and pgx.Tx, so a
// query helper can run either standalone or inside a caller's transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
