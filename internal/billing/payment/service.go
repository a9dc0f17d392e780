// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/yookassa"
	"github.com/taibuivan/storyvoter/pkg/uuid"
)

// Provider is the subset of the YooKassa client the service needs.
type Provider interface {
	CreatePayment(context context.Context, idempotenceKey string, request yookassa.CreatePaymentRequest) (*yookassa.Payment, error)
	GetPayment(context context.Context, paymentID string) (*yookassa.Payment, error)
}

// Service implements coin checkout and settlement.
type Service struct {
	repository Repository
	provider   Provider
	settings   config.Billing
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, provider Provider, settings config.Billing, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		provider:   provider,
		settings:   settings,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// # Checkout

/*
CreateCheckout prices coins and opens a provider payment.

Description: The price is coins x the configured coin price. The provider
call carries a fresh idempotence key, captures immediately and asks for a
redirect confirmation back to the configured return URL.

Returns:
  - *Checkout: Where to send the buyer
  - error: VALIDATION_ERROR, UNPROCESSABLE with the provider's description,
    or UPSTREAM_UNAVAILABLE
*/
func (service *Service) CreateCheckout(context context.Context, userID string, coins int64) (*Checkout, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}
	if coins < 1 || coins > service.settings.MaxCoinsPerPayment {
		return nil, apperr.ValidationError("Invalid coin amount", apperr.FieldError{
			Field:   FieldCoins,
			Message: fmt.Sprintf("must be between 1 and %d", service.settings.MaxCoinsPerPayment),
		})
	}

	amount := service.settings.CoinPrice.Mul(decimal.NewFromInt(coins))

	remote, err := service.provider.CreatePayment(context, uuid.New(), yookassa.CreatePaymentRequest{
		Amount:  yookassa.NewAmount(amount, service.settings.Currency),
		Capture: true,
		Confirmation: yookassa.Confirmation{
			Type:      "redirect",
			ReturnURL: service.settings.ReturnURL,
		},
		Description: fmt.Sprintf("StoryVoter: %d coins", coins),
		Metadata: map[string]string{
			MetadataUserID: userID,
			MetadataCoins:  strconv.FormatInt(coins, 10),
		},
	})
	if err != nil {
		service.metrics.PaymentEvent("create_failed")
		return nil, providerError(err)
	}
	if remote.Confirmation == nil || remote.Confirmation.ConfirmationURL == "" {
		service.metrics.PaymentEvent("create_failed")
		return nil, ErrPaymentFailed
	}

	now := service.now().UTC()
	payment := &Payment{
		ID:        remote.ID,
		UserID:    userID,
		Coins:     coins,
		Amount:    amount,
		Currency:  service.settings.Currency,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.repository.Create(context, payment); err != nil {
		return nil, err
	}

	service.metrics.PaymentEvent("created")
	service.logger.InfoContext(context, "payment_created",
		slog.String("payment_id", payment.ID),
		slog.String("user_id", userID),
		slog.Int64("coins", coins),
	)

	return &Checkout{
		PaymentID:       payment.ID,
		ConfirmationURL: remote.Confirmation.ConfirmationURL,
		Coins:           coins,
		Amount:          amount,
		Currency:        payment.Currency,
	}, nil
}

// # Settlement

/*
HandleNotification processes a webhook delivery.

Description: The body is only a hint. The payment is re-read from the
provider before anything is settled. Payments this service never created
are acknowledged and ignored. Duplicate deliveries are no-ops.
*/
func (service *Service) HandleNotification(context context.Context, notification yookassa.Notification) error {
	service.metrics.PaymentEvent("webhook")

	switch notification.Event {
	case yookassa.EventPaymentSucceeded, yookassa.EventPaymentCanceled:
	default:
		service.logger.InfoContext(context, "payment_event_ignored", slog.String("event", notification.Event))
		return nil
	}

	stored, err := service.repository.FindByID(context, notification.Object.ID)
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			service.logger.WarnContext(context, "payment_unknown", slog.String("payment_id", notification.Object.ID))
			return nil
		}
		return err
	}

	_, err = service.sync(context, stored)
	return err
}

/*
Refresh re-reads the caller's payment from the provider and settles it. Used
when the buyer returns from the confirmation page before the webhook lands.
*/
func (service *Service) Refresh(context context.Context, userID, paymentID string) (*Payment, error) {
	if userID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	stored, err := service.repository.FindByID(context, paymentID)
	if err != nil {
		return nil, err
	}
	if stored.UserID != userID {
		return nil, apperr.NotFound("Payment")
	}

	return service.sync(context, stored)
}

// sync settles stored according to the provider's current view.
func (service *Service) sync(context context.Context, stored *Payment) (*Payment, error) {
	if stored.Status.Final() {
		return stored, nil
	}

	remote, err := service.provider.GetPayment(context, stored.ID)
	if err != nil {
		return nil, providerError(err)
	}

	var status Status
	switch remote.Status {
	case yookassa.StatusSucceeded:
		if !remote.Paid {
			return stored, nil
		}
		if err := verify(stored, remote); err != nil {
			service.metrics.PaymentEvent("mismatch")
			service.logger.ErrorContext(context, "payment_mismatch",
				slog.String("payment_id", stored.ID),
				slog.String("error", err.Error()),
			)
			return nil, ErrPaymentMismatch.WithCause(err)
		}
		status = StatusSucceeded
	case yookassa.StatusCanceled:
		status = StatusCanceled
	default:
		return stored, nil
	}

	credited, err := service.repository.Settle(context, stored.ID, status)
	if err != nil {
		return nil, err
	}

	switch {
	case credited:
		service.metrics.CoinsCreditedBy(stored.Coins)
		service.metrics.PaymentEvent("credited")
		service.logger.InfoContext(context, "payment_credited",
			slog.String("payment_id", stored.ID),
			slog.String("user_id", stored.UserID),
			slog.Int64("coins", stored.Coins),
		)
	case status == StatusSucceeded:
		service.metrics.PaymentEvent("duplicate")
	default:
		service.metrics.PaymentEvent("canceled")
	}

	stored.Status = status
	stored.UpdatedAt = service.now().UTC()
	return stored, nil
}

// verify checks that the provider's payment is the order we created.
func verify(stored *Payment, remote *yookassa.Payment) error {
	if remote.Metadata[MetadataUserID] != stored.UserID {
		return errors.New("user id differs")
	}
	if remote.Metadata[MetadataCoins] != strconv.FormatInt(stored.Coins, 10) {
		return errors.New("coin count differs")
	}
	if remote.Amount.Currency != stored.Currency {
		return errors.New("currency differs")
	}

	amount, err := remote.Amount.Decimal()
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	if !amount.Equal(stored.Amount) {
		return errors.New("amount differs")
	}
	return nil
}

// providerError surfaces the provider's description when it has one.
func providerError(err error) error {
	var apiErr *yookassa.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Description != "" {
			return apperr.Unprocessable(apiErr.Description).WithCause(err)
		}
		return ErrPaymentFailed.WithCause(err)
	}
	return err
}
