// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package payment sells coins through YooKassa.

A checkout stores a pending payment row keyed by the provider's payment id
and returns the provider's confirmation URL. Completion is learned from the
webhook or from the buyer returning to the site. Either way the payment is
re-read from the provider, checked against the stored row, and settled. The
settlement and the ledger credit share one transaction, and the credit is
keyed by the payment id, so each payment credits coins at most once.
*/
package payment

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

// # Domain Entities

// Status mirrors the provider's payment status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusCanceled  Status = "canceled"
)

// Final reports whether no further transition is allowed.
func (status Status) Final() bool {
	return status == StatusSucceeded || status == StatusCanceled
}

// Payment is a stored coin purchase.
type Payment struct {
	ID        string          `json:"id"`
	UserID    string          `json:"-"`
	Coins     int64           `json:"coins"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Checkout is returned to the buyer, who is redirected to ConfirmationURL.
type Checkout struct {
	PaymentID       string          `json:"payment_id"`
	ConfirmationURL string          `json:"confirmation_url"`
	Coins           int64           `json:"coins"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
}

// Metadata keys attached to provider payments.
const (
	MetadataUserID = "user_id"
	MetadataCoins  = "coins"
)

// FieldCoins is the JSON field for the requested coin count.
const FieldCoins = "coins"

// # Domain Errors

var (
	// ErrPaymentFailed is used when the provider rejects a payment without a description.
	ErrPaymentFailed = apperr.Unprocessable("Payment could not be created")

	// ErrPaymentMismatch is returned when the provider's payment does not match the stored one.
	ErrPaymentMismatch = apperr.New("PAYMENT_MISMATCH", "Payment does not match the order", http.StatusUnprocessableEntity)
)
