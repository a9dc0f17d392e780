// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

var errRefused = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

// fakeTx implements only what WithTx touches; anything else panics on the nil embed.
type fakeTx struct {
	pgx.Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Commit(context.Context) error {
	if tx.commitErr != nil {
		return tx.commitErr
	}
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
}

func (db *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	return db.tx, nil
}

func TestWithTx_BeginFailureIsUpstreamUnavailable(t *testing.T) {
	called := false
	err := WithTx(context.Background(), &fakeBeginner{beginErr: errRefused}, func(pgx.Tx) error {
		called = true
		return nil
	})

	assert.False(t, called)
	assert.True(t, apperr.HasCode(err, "UPSTREAM_UNAVAILABLE"))
	assert.ErrorIs(t, err, apperr.UpstreamUnavailable("Database", nil))
}

func TestWithTx_CommitFailureIsUpstreamUnavailable(t *testing.T) {
	tx := &fakeTx{commitErr: errRefused}

	err := WithTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { return nil })

	assert.True(t, apperr.HasCode(err, "UPSTREAM_UNAVAILABLE"))
	assert.True(t, tx.rolledBack)
}

func TestWithTx_PassesCallbackErrorThrough(t *testing.T) {
	tx := &fakeTx{}
	sentinel := apperr.New("ALREADY_VOTED", "Already voted", 409)

	err := WithTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { return sentinel })

	assert.Same(t, sentinel, err)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestWithTx_Commits(t *testing.T) {
	tx := &fakeTx{}

	err := WithTx(context.Background(), &fakeBeginner{tx: tx}, func(pgx.Tx) error { return nil })

	assert.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}
