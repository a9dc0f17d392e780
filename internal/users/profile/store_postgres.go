// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package profile

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

// profileRepository implements [Repository] using pgx.
type profileRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed profile store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &profileRepository{pool: pool}
}

var profileColumns = strings.Join([]string{
	schema.Profiles.ID,
	schema.Profiles.Pseudonym,
	schema.Profiles.AvatarURL,
	schema.Profiles.Bio,
	schema.Profiles.AcceptedTerms,
	schema.Profiles.Coins,
	schema.Profiles.CreatedAt,
	schema.Profiles.UpdatedAt,
}, ", ")

func scanProfile(row interface{ Scan(...any) error }) (*Profile, error) {
	var profile Profile
	err := row.Scan(
		&profile.ID,
		&profile.Pseudonym,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.AcceptedTerms,
		&profile.Coins,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

/*
Insert writes a new profile on the caller's querier, so registration can
create the account and its profile in one transaction.

Returns:
  - error: [ErrPseudonymTaken] on a duplicate key
*/
func Insert(context context.Context, querier postgres.Querier, profile *Profile, key string) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.Profiles.Table,
		schema.Profiles.ID, schema.Profiles.Pseudonym, schema.Profiles.PseudonymKey,
		schema.Profiles.CreatedAt, schema.Profiles.UpdatedAt,
	)

	_, err := querier.Exec(context, query, profile.ID, profile.Pseudonym, key, profile.CreatedAt, profile.UpdatedAt)
	if dberr.IsUniqueViolation(err, schema.ConstraintProfilesPseudonym) {
		return ErrPseudonymTaken
	}
	return dberr.Wrap(err, "insert profile")
}

// FindByID loads one profile.
func (repository *profileRepository) FindByID(context context.Context, id string) (*Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, profileColumns, schema.Profiles.Table, schema.Profiles.ID)

	profile, err := scanProfile(repository.pool.QueryRow(context, query, id))
	if err != nil {
		err = dberr.Wrap(err, "find profile")
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.NotFound("Profile")
		}
		return nil, err
	}
	return profile, nil
}

// Update builds a partial UPDATE and returns the new row.
func (repository *profileRepository) Update(context context.Context, id string, input UpdateInput, key string) (*Profile, error) {
	var setClauses []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Pseudonym != nil {
		add(schema.Profiles.Pseudonym, *input.Pseudonym)
		add(schema.Profiles.PseudonymKey, key)
	}
	if input.AvatarURL != nil {
		add(schema.Profiles.AvatarURL, *input.AvatarURL)
	}
	if input.Bio != nil {
		add(schema.Profiles.Bio, *input.Bio)
	}
	setClauses = append(setClauses, fmt.Sprintf("%s = NOW()", schema.Profiles.UpdatedAt))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		schema.Profiles.Table, strings.Join(setClauses, ", "), schema.Profiles.ID, len(args), profileColumns)

	profile, err := scanProfile(repository.pool.QueryRow(context, query, args...))
	if err != nil {
		if dberr.IsUniqueViolation(err, schema.ConstraintProfilesPseudonym) {
			return nil, ErrPseudonymTaken
		}
		err = dberr.Wrap(err, "update profile")
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.NotFound("Profile")
		}
		return nil, err
	}
	return profile, nil
}

// AcceptTerms sets accepted_terms.
func (repository *profileRepository) AcceptTerms(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.Profiles.Table, schema.Profiles.AcceptedTerms, schema.Profiles.UpdatedAt, schema.Profiles.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "accept terms")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Profile")
	}
	return nil
}
