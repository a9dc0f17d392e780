// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ledger

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
	"github.com/taibuivan/storyvoter/internal/platform/ctxutil"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/sec"
	"github.com/taibuivan/storyvoter/pkg/pagination"
)

// memoryRepository mirrors the reference-keyed idempotency of the SQL store.
type memoryRepository struct {
	mu         sync.Mutex
	balances   map[string]int64
	entries    []*Entry
	references map[string]bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{balances: map[string]int64{"u1": 0}, references: map[string]bool{}}
}

func (repository *memoryRepository) Balance(_ context.Context, userID string) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	coins, ok := repository.balances[userID]
	if !ok {
		return 0, apperr.NotFound("Profile")
	}
	return coins, nil
}

func (repository *memoryRepository) History(_ context.Context, userID string, _ pagination.Params) ([]*Entry, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var entries []*Entry
	for _, entry := range repository.entries {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, len(entries), nil
}

func (repository *memoryRepository) Credit(_ context.Context, userID string, coins int64, kind Kind, reference string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.references[reference] {
		return false, nil
	}
	repository.references[reference] = true
	repository.balances[userID] += coins
	repository.entries = append(repository.entries, &Entry{UserID: userID, Delta: coins, Kind: kind, Reference: reference})
	return true, nil
}

func newTestService() (*Service, *memoryRepository, *metrics.Metrics) {
	repository := newMemoryRepository()
	m := metrics.New(prometheus.NewRegistry())
	return NewService(repository, m, slog.New(slog.NewTextHandler(io.Discard, nil))), repository, m
}

func TestService_Credit_IsIdempotentPerReference(t *testing.T) {
	service, repository, m := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Credit(ctx, "u1", 5, KindPurchase, "pay-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), repository.balances["u1"])
	assert.Len(t, repository.entries, 1)
	assert.Equal(t, 5.0, testutil.ToFloat64(m.CoinsCredited))
}

func TestService_Credit_RejectsInvalidInput(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Credit(context.Background(), "u1", 0, KindPurchase, "pay-1")
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, err = service.Credit(context.Background(), "u1", 3, KindPurchase, "")
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

func TestService_Balance(t *testing.T) {
	service, repository, _ := newTestService()
	repository.balances["u1"] = 12

	balance, err := service.Balance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), balance.Coins)

	_, err = service.Balance(context.Background(), "")
	assert.ErrorIs(t, err, apperr.Unauthorized(""))
}

func TestHandler_GetBalance(t *testing.T) {
	service, repository, _ := newTestService()
	repository.balances["u1"] = 7

	router := chi.NewRouter()
	NewHandler(service).RegisterRoutes(router)

	anonymous := httptest.NewRecorder()
	router.ServeHTTP(anonymous, httptest.NewRequest(http.MethodGet, "/me/balance", nil))
	assert.Equal(t, http.StatusUnauthorized, anonymous.Code)

	req := httptest.NewRequest(http.MethodGet, "/me/balance", nil)
	req = req.WithContext(ctxutil.WithAuthUser(req.Context(), &sec.AuthClaims{UserID: "u1"}))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"coins":7}}`, recorder.Body.String())
}
