// Copyright (c) 2026 StoryVoter. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/storyvoter/internal/platform/config"
	"github.com/taibuivan/storyvoter/internal/platform/ctxutil"
	"github.com/taibuivan/storyvoter/internal/platform/metrics"
	"github.com/taibuivan/storyvoter/internal/platform/respond"
	"github.com/taibuivan/storyvoter/internal/platform/sec"
)

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*sec.AuthClaims, error) {
	return nil, errors.New("invalid")
}

// whoami echoes the authenticated user id.
type whoami struct{}

func (whoami) RegisterRoutes(api chi.Router) {
	api.Get("/whoami", func(writer http.ResponseWriter, req *http.Request) {
		respond.OK(writer, ctxutil.UserID(req.Context()))
	})
}

func newTestServer(t *testing.T, deps HealthDependencies) http.Handler {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	liveness, readiness := NewHealthHandlers(deps, logger)

	server := NewServer(ctx, &config.Config{ServerPort: "0"}, logger, m, rejectAll{}, Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   m.Handler(),
		Domains:   []RouteRegistrar{whoami{}},
	})
	return server.Handler()
}

func TestServer_Routes(t *testing.T) {
	handler := newTestServer(t, HealthDependencies{})

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"liveness", "/health", "", http.StatusOK},
		{"readiness", "/ready", "", http.StatusOK},
		{"metrics", "/metrics", "", http.StatusOK},
		{"anonymous api", "/api/v1/whoami", "", http.StatusOK},
		{"bad token", "/api/v1/whoami", "Bearer forged", http.StatusUnauthorized},
		{"unknown", "/api/v1/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestReadiness_Degraded(t *testing.T) {
	handler := newTestServer(t, HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"status":"degraded"`)
	assert.Contains(t, recorder.Body.String(), `"connection refused"`)
}
