// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/database/schema"
	"github.com/taibuivan/storyvoter/internal/platform/dberr"
	"github.com/taibuivan/storyvoter/internal/platform/postgres"
	"github.com/taibuivan/storyvoter/internal/users/profile"
)

// accountRepository implements [AccountRepository] using pgx.
type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository constructs a PostgreSQL backed account store.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

// Create inserts the account row then the profile row in one transaction.
func (repository *accountRepository) Create(context context.Context, account *Account, owner *profile.Profile, key string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		schema.Accounts.Table,
		schema.Accounts.ID, schema.Accounts.Email, schema.Accounts.PasswordHash, schema.Accounts.CreatedAt,
	)

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(context, query, account.ID, account.Email, account.PasswordHash, account.CreatedAt)
		if dberr.IsUniqueViolation(err, schema.ConstraintAccountsEmail) {
			return ErrEmailTaken
		}
		if err != nil {
			return err
		}
		return profile.Insert(context, tx, owner, key)
	})
	return dberr.Wrap(err, "create account")
}

// FindByEmail loads credentials by email.
func (repository *accountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.Accounts.ID, schema.Accounts.Email, schema.Accounts.PasswordHash, schema.Accounts.CreatedAt,
		schema.Accounts.Table, schema.Accounts.Email,
	)

	var account Account
	err := repository.pool.QueryRow(context, query, email).Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt,
	)
	if err != nil {
		err = dberr.Wrap(err, "find account")
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.NotFound("Account")
		}
		return nil, err
	}
	return &account, nil
}
