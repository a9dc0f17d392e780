// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/internal/platform/postgres"
	"github.com/taibuivan/storyvoter/pkg/pagination"
	"github.com/taibuivan/storyvoter/pkg/uuid"
)

// # PostgreSQL Repository

// ledgerRepository implements the [Repository] interface using pgx.
type ledgerRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed ledger store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &ledgerRepository{pool: pool}
}

// Balance reads profiles.coins.
func (repository *ledgerRepository) Balance(context context.Context, userID string) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.Profiles.Coins, schema.Profiles.Table, schema.Profiles.ID)

	var coins int64
	if err := repository.pool.QueryRow(context, query, userID).Scan(&coins); err != nil {
		err = dberr.Wrap(err, "read balance")
		if apperr.HasCode(err, "NOT_FOUND") {
			return 0, apperr.NotFound("Profile")
		}
		return 0, err
	}
	return coins, nil
}

// History lists entries with a window COUNT so the page and total arrive together.
func (repository *ledgerRepository) History(context context.Context, userID string, page pagination.Params) ([]*Entry, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, COUNT(*) OVER()
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.LedgerEntries.ID, schema.LedgerEntries.UserID, schema.LedgerEntries.Delta,
		schema.LedgerEntries.Kind, schema.LedgerEntries.Reference, schema.LedgerEntries.CreatedAt,
		schema.LedgerEntries.Table,
		schema.LedgerEntries.UserID,
		schema.LedgerEntries.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list ledger")
	}
	defer rows.Close()

	entries := []*Entry{}
	total := 0
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Delta, &entry.Kind, &entry.Reference, &entry.CreatedAt, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan ledger entry")
		}
		entries = append(entries, &entry)
	}

	return entries, total, dberr.Wrap(rows.Err(), "list ledger")
}

// Credit runs [Credit] in its own transaction.
func (repository *ledgerRepository) Credit(context context.Context, userID string, coins int64, kind Kind, reference string) (bool, error) {
	var credited bool
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		var err error
		credited, err = Credit(context, tx, userID, coins, kind, reference)
		return err
	})
	return credited, err
}

/*
Credit applies a credit inside the caller's transaction.

The entry insert is the idempotency guard: a reference that already exists
inserts nothing and the balance is left alone.

Returns:
  - bool: true when the balance changed
  - error: Database errors
*/
func Credit(context context.Context, querier postgres.Querier, userID string, coins int64, kind Kind, reference string) (bool, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT %s DO NOTHING
	`,
		schema.LedgerEntries.Table,
		schema.LedgerEntries.ID, schema.LedgerEntries.UserID, schema.LedgerEntries.Delta,
		schema.LedgerEntries.Kind, schema.LedgerEntries.Reference,
		schema.ConstraintLedgerReference,
	)

	tag, err := querier.Exec(context, insert, uuid.New(), userID, coins, kind, reference)
	if err != nil {
		return false, dberr.Wrap(err, "insert credit")
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	update := fmt.Sprintf(`UPDATE %s SET %s = %s + $1, %s = NOW() WHERE %s = $2`,
		schema.Profiles.Table, schema.Profiles.Coins, schema.Profiles.Coins,
		schema.Profiles.UpdatedAt, schema.Profiles.ID)

	tag, err = querier.Exec(context, update, coins, userID)
	if err != nil {
		return false, dberr.Wrap(err, "credit balance")
	}
	if tag.RowsAffected() == 0 {
		return false, apperr.NotFound("Profile")
	}
	return true, nil
}

/*
Debit removes coins inside the caller's transaction. The decrement and the
floor check are one statement, so two concurrent debits can never both pass
a stale balance read.

Returns:
  - error: [ErrInsufficientFunds] if the balance is below coins
*/
func Debit(context context.Context, querier postgres.Querier, userID string, coins int64, kind Kind, reference string) error {
	update := fmt.Sprintf(`UPDATE %s SET %s = %s - $1, %s = NOW() WHERE %s = $2 AND %s >= $1`,
		schema.Profiles.Table, schema.Profiles.Coins, schema.Profiles.Coins,
		schema.Profiles.UpdatedAt, schema.Profiles.ID, schema.Profiles.Coins)

	tag, err := querier.Exec(context, update, coins, userID)
	if err != nil {
		return dberr.Wrap(err, "debit balance")
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientFunds
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.LedgerEntries.Table,
		schema.LedgerEntries.ID, schema.LedgerEntries.UserID, schema.LedgerEntries.Delta,
		schema.LedgerEntries.Kind, schema.LedgerEntries.Reference,
	)

	_, err = querier.Exec(context, insert, uuid.New(), userID, -coins, kind, reference)
	return dberr.Wrap(err, "insert debit")
}
