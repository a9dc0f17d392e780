// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ledger owns the in-app coin balance.

A profile's coins column is the balance; ledger_entries is the append-only
log that explains it. Every mutation writes both in one transaction:
  - Credits are keyed by an external reference (the payment id) and applied
    at most once, so duplicate webhook deliveries are harmless.
  - Debits are a single conditional decrement that refuses to go below zero.
*/
package ledger

import (
	"net/http"
	"time"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

// # Domain Enums

// Kind classifies why a balance changed.
type Kind string

const (
	KindPurchase    Kind = "purchase"
	KindBoostedVote Kind = "boosted_vote"
	KindAdjustment  Kind = "adjustment"
)

// # Domain Entities

// Entry is one balance movement. Delta is positive for credits.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Delta     int64     `json:"delta"`
	Kind      Kind      `json:"kind"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the current coin balance of a profile.
type Balance struct {
	Coins int64 `json:"coins"`
}

// # Domain Errors

// ErrInsufficientFunds is returned when a debit would take the balance below zero.
var ErrInsufficientFunds = apperr.New("INSUFFICIENT_FUNDS", "Insufficient balance", http.StatusPaymentRequired)
