// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package yookassa is a minimal client for the YooKassa payments API (v3).

Only the calls the coin purchase flow needs are covered: creating a payment
with a redirect confirmation and reading a payment back by id. Requests use
HTTP Basic auth with the shop id and secret key. Create calls carry an
Idempotence-Key so a retried request never charges twice.
*/
package yookassa

import (
	"bytes"
	stdctx "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taibuivan/storyvoter/internal/platform/apperr"
)

// defaultTimeout bounds a single API call.
const defaultTimeout = 15 * time.Second

// upstreamName is used in UPSTREAM_UNAVAILABLE messages.
const upstreamName = "Payment provider"

// # Wire Types

// Payment statuses.
const (
	StatusPending           = "pending"
	StatusWaitingForCapture = "waiting_for_capture"
	StatusSucceeded         = "succeeded"
	StatusCanceled          = "canceled"
)

// Notification events.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentCanceled  = "payment.canceled"
)

// Amount is a money value. YooKassa sends and expects the value as a string
// with two decimal places.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// NewAmount formats value with two decimal places.
func NewAmount(value decimal.Decimal, currency string) Amount {
	return Amount{Value: value.StringFixed(2), Currency: currency}
}

// Decimal parses the amount value.
func (amount Amount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(amount.Value)
}

// Confirmation describes how the buyer completes the payment.
type Confirmation struct {
	Type            string `json:"type"`
	ReturnURL       string `json:"return_url,omitempty"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
}

// CreatePaymentRequest is the body of POST /payments.
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	Capture      bool              `json:"capture"`
	Confirmation Confirmation      `json:"confirmation"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Payment is the provider's view of a payment.
type Payment struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Paid         bool              `json:"paid"`
	Amount       Amount            `json:"amount"`
	Confirmation *Confirmation     `json:"confirmation,omitempty"`
	Description  string            `json:"description,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Notification is the webhook body YooKassa posts on status changes.
type Notification struct {
	Type   string  `json:"type"`
	Event  string  `json:"event"`
	Object Payment `json:"object"`
}

// APIError is a 4xx answer from the provider. Description is safe to show
// to the buyer.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yookassa: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// # Client

// Config holds the shop credentials and API base URL.
type Config struct {
	ShopID    string
	SecretKey string
	BaseURL   string
}

// Client calls the YooKassa REST API.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a client. A nil httpClient gets a default with a timeout.
func NewClient(config Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	return &Client{httpClient: httpClient, config: config}
}

/*
CreatePayment registers a payment and returns it with its confirmation URL.

Returns:
  - *Payment: The created payment
  - error: [*APIError] for a rejected request, UPSTREAM_UNAVAILABLE otherwise
*/
func (client *Client) CreatePayment(context stdctx.Context, idempotenceKey string, request CreatePaymentRequest) (*Payment, error) {
	var payment Payment
	if err := client.do(context, http.MethodPost, "/payments", idempotenceKey, request, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayment reads a payment by id.
func (client *Client) GetPayment(context stdctx.Context, paymentID string) (*Payment, error) {
	var payment Payment
	if err := client.do(context, http.MethodGet, "/payments/"+url.PathEscape(paymentID), "", nil, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (client *Client) do(context stdctx.Context, method, path, idempotenceKey string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("yookassa: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(context, method, client.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("yookassa: build request: %w", err)
	}
	req.SetBasicAuth(client.config.ShopID, client.config.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotenceKey != "" {
		req.Header.Set("Idempotence-Key", idempotenceKey)
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return apperr.UpstreamUnavailable(upstreamName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperr.UpstreamUnavailable(upstreamName, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return apperr.UpstreamUnavailable(upstreamName, fmt.Errorf("yookassa: status %d", resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.UpstreamUnavailable(upstreamName, fmt.Errorf("yookassa: decode response: %w", err))
	}
	return nil
}
