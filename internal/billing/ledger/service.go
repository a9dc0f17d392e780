// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ledger

import (
	"context"
	"log/slog"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// Service exposes balances to their owners and credits to the payment flow.
type Service struct {
	repository Repository
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{repository: repository, metrics: metrics, logger: logger}
}

// Balance returns the caller's coins.
func (service *Service) Balance(context context.Context, userID string) (Balance, error) {
	if userID == "" {
		return Balance{}, apperr.Unauthorized("Authentication required")
	}

	coins, err := service.repository.Balance(context, userID)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Coins: coins}, nil
}

// History returns a page of the caller's ledger.
func (service *Service) History(context context.Context, userID string, page pagination.Params) ([]*Entry, int, error) {
	if userID == "" {
		return nil, 0, apperr.Unauthorized("Authentication required")
	}
	return service.repository.History(context, userID, page)
}

/*
Credit adds coins exactly once per reference.

Returns:
  - bool: false for a duplicate reference
  - error: VALIDATION_ERROR for a non-positive amount
*/
func (service *Service) Credit(context context.Context, userID string, coins int64, kind Kind, reference string) (bool, error) {
	if coins <= 0 || reference == "" {
		return false, apperr.ValidationError("Credit needs a positive amount and a reference")
	}

	credited, err := service.repository.Credit(context, userID, coins, kind, reference)
	if err != nil {
		return false, err
	}

	if !credited {
		service.logger.InfoContext(context, "ledger_credit_duplicate", slog.String("reference", reference))
		return false, nil
	}

	service.metrics.CoinsCreditedBy(coins)
	service.logger.InfoContext(context, "ledger_credited",
		slog.String("user_id", userID),
		slog.Int64("coins", coins),
		slog.String("reference", reference),
	)
	return true, nil
}
