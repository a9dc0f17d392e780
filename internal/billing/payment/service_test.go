// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package payment

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/internal/platform/ctxutil"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/sec"
	"github.com/taibuivan/storyvoter/internal/platform/yookassa"
)

// # Fakes

// memoryRepository settles like the SQL store: final rows are left alone and
// credits are keyed by payment id.
type memoryRepository struct {
	mu       sync.Mutex
	payments map[string]*Payment
	balances map[string]int64
	credited map[string]bool
}

func (repository *memoryRepository) Create(_ context.Context, payment *Payment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	clone := *payment
	repository.payments[payment.ID] = &clone
	return nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*Payment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	payment, ok := repository.payments[id]
	if !ok {
		return nil, apperr.NotFound("Payment")
	}
	clone := *payment
	return &clone, nil
}

func (repository *memoryRepository) Settle(_ context.Context, id string, status Status) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	payment, ok := repository.payments[id]
	if !ok {
		return false, apperr.NotFound("Payment")
	}
	if payment.Status.Final() || payment.Status == status {
		return false, nil
	}
	payment.Status = status

	if status != StatusSucceeded || repository.credited[id] {
		return false, nil
	}
	repository.credited[id] = true
	repository.balances[payment.UserID] += payment.Coins
	return true, nil
}

type fakeProvider struct {
	mu       sync.Mutex
	payments map[string]*yookassa.Payment
	keys     []string
	created  []yookassa.CreatePaymentRequest
	err      error
}

func (provider *fakeProvider) CreatePayment(_ context.Context, key string, request yookassa.CreatePaymentRequest) (*yookassa.Payment, error) {
	provider.mu.Lock()
	defer provider.mu.Unlock()

	if provider.err != nil {
		return nil, provider.err
	}
	provider.keys = append(provider.keys, key)
	provider.created = append(provider.created, request)

	payment := &yookassa.Payment{
		ID:           "pay-" + string(rune('a'+len(provider.created)-1)),
		Status:       yookassa.StatusPending,
		Amount:       request.Amount,
		Metadata:     request.Metadata,
		Confirmation: &yookassa.Confirmation{Type: "redirect", ConfirmationURL: "https://pay.example/confirm"},
	}
	provider.payments[payment.ID] = payment
	return payment, nil
}

func (provider *fakeProvider) GetPayment(_ context.Context, id string) (*yookassa.Payment, error) {
	provider.mu.Lock()
	defer provider.mu.Unlock()

	payment, ok := provider.payments[id]
	if !ok {
		return nil, &yookassa.APIError{StatusCode: http.StatusNotFound, Code: "not_found"}
	}
	clone := *payment
	return &clone, nil
}

// complete marks a provider payment as paid.
func (provider *fakeProvider) complete(id string) {
	provider.mu.Lock()
	defer provider.mu.Unlock()
	provider.payments[id].Status = yookassa.StatusSucceeded
	provider.payments[id].Paid = true
}

type fixture struct {
	service    *Service
	repository *memoryRepository
	provider   *fakeProvider
	metrics    *metrics.Metrics
}

func newFixture() *fixture {
	repository := &memoryRepository{
		payments: map[string]*Payment{},
		balances: map[string]int64{},
		credited: map[string]bool{},
	}
	provider := &fakeProvider{payments: map[string]*yookassa.Payment{}}
	m := metrics.New(prometheus.NewRegistry())
	settings := config.Billing{
		CoinPrice:          decimal.RequireFromString("150.00"),
		Currency:           "RUB",
		MaxCoinsPerPayment: 100,
		ReturnURL:          "https://storyvoter.example/profile",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		service:    NewService(repository, provider, settings, m, logger),
		repository: repository,
		provider:   provider,
		metrics:    m,
	}
}

func succeeded(id string) yookassa.Notification {
	return yookassa.Notification{Type: "notification", Event: yookassa.EventPaymentSucceeded, Object: yookassa.Payment{ID: id}}
}

// # Tests

func TestService_CreateCheckout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	checkout, err := f.service.CreateCheckout(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/confirm", checkout.ConfirmationURL)
	assert.True(t, checkout.Amount.Equal(decimal.NewFromInt(450)))

	request := f.provider.created[0]
	assert.Equal(t, "450.00", request.Amount.Value)
	assert.Equal(t, "RUB", request.Amount.Currency)
	assert.True(t, request.Capture)
	assert.Equal(t, "redirect", request.Confirmation.Type)
	assert.Equal(t, "https://storyvoter.example/profile", request.Confirmation.ReturnURL)
	assert.Equal(t, map[string]string{MetadataUserID: "u1", MetadataCoins: "3"}, request.Metadata)

	stored := f.repository.payments[checkout.PaymentID]
	require.NotNil(t, stored)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, int64(3), stored.Coins)

	_, err = f.service.CreateCheckout(ctx, "u1", 1)
	require.NoError(t, err)
	assert.NotEqual(t, f.provider.keys[0], f.provider.keys[1])
	assert.Zero(t, f.repository.balances["u1"])
}

func TestService_CreateCheckout_Rejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateCheckout(ctx, "", 3)
	assert.ErrorIs(t, err, apperr.Unauthorized(""))

	for _, coins := range []int64{0, -1, 101} {
		_, err = f.service.CreateCheckout(ctx, "u1", coins)
		assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"), coins)
	}

	f.provider.err = &yookassa.APIError{StatusCode: http.StatusBadRequest, Description: "Shop is blocked"}
	_, err = f.service.CreateCheckout(ctx, "u1", 3)
	require.True(t, apperr.HasCode(err, "UNPROCESSABLE"))
	assert.Equal(t, "Shop is blocked", err.Error())

	f.provider.err = apperr.UpstreamUnavailable("Payment provider", nil)
	_, err = f.service.CreateCheckout(ctx, "u1", 3)
	assert.True(t, apperr.HasCode(err, "UPSTREAM_UNAVAILABLE"))
	assert.Empty(t, f.repository.payments)
}

func TestService_HandleNotification_CreditsOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	checkout, err := f.service.CreateCheckout(ctx, "u1", 5)
	require.NoError(t, err)
	f.provider.complete(checkout.PaymentID)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.service.HandleNotification(ctx, succeeded(checkout.PaymentID)))
		}()
	}
	wg.Wait()

	require.NoError(t, f.service.HandleNotification(ctx, succeeded(checkout.PaymentID)))

	assert.Equal(t, int64(5), f.repository.balances["u1"])
	assert.Equal(t, StatusSucceeded, f.repository.payments[checkout.PaymentID].Status)
	assert.Equal(t, 5.0, testutil.ToFloat64(f.metrics.CoinsCredited))
}

func TestService_HandleNotification_TrustsProviderNotBody(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	checkout, err := f.service.CreateCheckout(ctx, "u1", 5)
	require.NoError(t, err)

	// Forged delivery: the provider still reports the payment as pending.
	require.NoError(t, f.service.HandleNotification(ctx, succeeded(checkout.PaymentID)))
	assert.Zero(t, f.repository.balances["u1"])
	assert.Equal(t, StatusPending, f.repository.payments[checkout.PaymentID].Status)

	// Unknown payment ids are acknowledged and ignored.
	assert.NoError(t, f.service.HandleNotification(ctx, succeeded("pay-unknown")))

	// Other events are ignored.
	assert.NoError(t, f.service.HandleNotification(ctx, yookassa.Notification{Event: "refund.succeeded"}))
}

func TestService_HandleNotification_Mismatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	checkout, err := f.service.CreateCheckout(ctx, "u1", 5)
	require.NoError(t, err)
	f.provider.complete(checkout.PaymentID)
	f.provider.payments[checkout.PaymentID].Amount = yookassa.Amount{Value: "1.00", Currency: "RUB"}

	err = f.service.HandleNotification(ctx, succeeded(checkout.PaymentID))
	assert.ErrorIs(t, err, ErrPaymentMismatch)
	assert.Zero(t, f.repository.balances["u1"])
}

func TestService_HandleNotification_Canceled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	checkout, err := f.service.CreateCheckout(ctx, "u1", 5)
	require.NoError(t, err)
	f.provider.payments[checkout.PaymentID].Status = yookassa.StatusCanceled

	require.NoError(t, f.service.HandleNotification(ctx, yookassa.Notification{
		Event:  yookassa.EventPaymentCanceled,
		Object: yookassa.Payment{ID: checkout.PaymentID},
	}))
	assert.Equal(t, StatusCanceled, f.repository.payments[checkout.PaymentID].Status)

	// A canceled payment never credits, even if a success is reported later.
	f.provider.complete(checkout.PaymentID)
	require.NoError(t, f.service.HandleNotification(ctx, succeeded(checkout.PaymentID)))
	assert.Zero(t, f.repository.balances["u1"])
}

func TestService_Refresh(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	checkout, err := f.service.CreateCheckout(ctx, "u1", 2)
	require.NoError(t, err)

	_, err = f.service.Refresh(ctx, "u2", checkout.PaymentID)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

	pending, err := f.service.Refresh(ctx, "u1", checkout.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, pending.Status)

	f.provider.complete(checkout.PaymentID)
	settled, err := f.service.Refresh(ctx, "u1", checkout.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, settled.Status)
	assert.Equal(t, int64(2), f.repository.balances["u1"])

	// The webhook arriving afterwards is a no-op.
	require.NoError(t, f.service.HandleNotification(ctx, succeeded(checkout.PaymentID)))
	assert.Equal(t, int64(2), f.repository.balances["u1"])
}

func TestHandler_CheckoutAndWebhook(t *testing.T) {
	f := newFixture()
	router := chi.NewRouter()
	NewHandler(f.service).RegisterRoutes(router)

	anonymous := httptest.NewRecorder()
	router.ServeHTTP(anonymous, httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"coins":3}`)))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"coins":3}`))
	req = req.WithContext(ctxutil.WithAuthUser(req.Context(), &sec.AuthClaims{UserID: "u1"}))
	created := httptest.NewRecorder()
	router.ServeHTTP(created, req)
	require.Equal(t, http.StatusCreated, created.Code)
	assert.Contains(t, created.Body.String(), `"confirmation_url":"https://pay.example/confirm"`)

	f.provider.complete("pay-a")
	webhook := httptest.NewRecorder()
	router.ServeHTTP(webhook, httptest.NewRequest(http.MethodPost, "/webhooks/yookassa",
		strings.NewReader(`{"type":"notification","event":"payment.succeeded","object":{"id":"pay-a","status":"succeeded"}}`)))
	assert.Equal(t, http.StatusOK, webhook.Code)
	assert.Equal(t, int64(3), f.repository.balances["u1"])
}
