// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package yookassa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

func TestClient_CreatePayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/v3/payments", req.URL.Path)
		assert.Equal(t, "key-1", req.Header.Get("Idempotence-Key"))

		user, pass, ok := req.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "shop", user)
		assert.Equal(t, "secret", pass)

		var body CreatePaymentRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "450.00", body.Amount.Value)
		assert.True(t, body.Capture)
		assert.Equal(t, "redirect", body.Confirmation.Type)
		assert.Equal(t, "3", body.Metadata["coins"])

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"id":"pay-1","status":"pending","paid":false,
			"amount":{"value":"450.00","currency":"RUB"},
			"confirmation":{"type":"redirect","confirmation_url":"https://pay.example/confirm"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{ShopID: "shop", SecretKey: "secret", BaseURL: server.URL + "/v3/"}, server.Client())

	payment, err := client.CreatePayment(context.Background(), "key-1", CreatePaymentRequest{
		Amount:       NewAmount(decimal.RequireFromString("150").Mul(decimal.NewFromInt(3)), "RUB"),
		Capture:      true,
		Confirmation: Confirmation{Type: "redirect", ReturnURL: "https://app.example/back"},
		Metadata:     map[string]string{"coins": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pay-1", payment.ID)
	assert.Equal(t, "https://pay.example/confirm", payment.Confirmation.ConfirmationURL)

	value, err := payment.Amount.Decimal()
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.NewFromInt(450)))
}

func TestClient_Errors(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusBadRequest)
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(int(status.Load()))
		_, _ = writer.Write([]byte(`{"type":"error","code":"invalid_request","description":"Amount is too small"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, server.Client())

	_, err := client.GetPayment(context.Background(), "pay-1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Amount is too small", apiErr.Description)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	status.Store(http.StatusBadGateway)
	_, err = client.GetPayment(context.Background(), "pay-1")
	assert.True(t, apperr.HasCode(err, "UPSTREAM_UNAVAILABLE"))
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(Config{BaseURL: server.URL}, nil)
	_, err := client.GetPayment(context.Background(), "pay-1")
	assert.True(t, apperr.HasCode(err, "UPSTREAM_UNAVAILABLE"))
}
