// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/billing/ledger"
	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/internal/platform/postgres"
)

// paymentRepository implements [Repository] using pgx.
type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed payment store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &paymentRepository{pool: pool}
}

// Create inserts the pending row.
func (repository *paymentRepository) Create(context context.Context, payment *Payment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.Payments.Table,
		schema.Payments.ID, schema.Payments.UserID, schema.Payments.Coins, schema.Payments.Amount,
		schema.Payments.Currency, schema.Payments.Status, schema.Payments.CreatedAt, schema.Payments.UpdatedAt,
	)

	_, err := repository.pool.Exec(context, query,
		payment.ID, payment.UserID, payment.Coins, payment.Amount.StringFixed(2),
		payment.Currency, payment.Status, payment.CreatedAt, payment.UpdatedAt,
	)
	return dberr.Wrap(err, "create payment")
}

// FindByID loads one payment.
func (repository *paymentRepository) FindByID(context context.Context, id string) (*Payment, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s::text, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Payments.ID, schema.Payments.UserID, schema.Payments.Coins, schema.Payments.Amount,
		schema.Payments.Currency, schema.Payments.Status, schema.Payments.CreatedAt, schema.Payments.UpdatedAt,
		schema.Payments.Table, schema.Payments.ID,
	)

	var payment Payment
	var amount string
	err := repository.pool.QueryRow(context, query, id).Scan(
		&payment.ID, &payment.UserID, &payment.Coins, &amount,
		&payment.Currency, &payment.Status, &payment.CreatedAt, &payment.UpdatedAt,
	)
	if err != nil {
		err = dberr.Wrap(err, "find payment")
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.NotFound("Payment")
		}
		return nil, err
	}

	if err := payment.Amount.Scan(amount); err != nil {
		return nil, apperr.Internal(err)
	}
	return &payment, nil
}

// Settle locks the row, updates its status and credits on success.
func (repository *paymentRepository) Settle(context context.Context, id string, status Status) (bool, error) {
	lock := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		schema.Payments.UserID, schema.Payments.Coins, schema.Payments.Status,
		schema.Payments.Table, schema.Payments.ID,
	)
	update := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		schema.Payments.Table, schema.Payments.Status, schema.Payments.UpdatedAt, schema.Payments.ID,
	)

	var credited bool
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		var userID string
		var coins int64
		var current Status
		if err := tx.QueryRow(context, lock, id).Scan(&userID, &coins, &current); err != nil {
			return err
		}

		if current.Final() || current == status {
			return nil
		}

		if _, err := tx.Exec(context, update, status, id); err != nil {
			return err
		}

		if status != StatusSucceeded {
			return nil
		}

		var err error
		credited, err = ledger.Credit(context, tx, userID, coins, ledger.KindPurchase, id)
		return err
	})
	if err != nil {
		err = dberr.Wrap(err, "settle payment")
		if apperr.HasCode(err, "NOT_FOUND") {
			return false, apperr.NotFound("Payment")
		}
		return false, err
	}
	return credited, nil
}
