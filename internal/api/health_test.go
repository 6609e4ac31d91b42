// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shici/internal/api"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestReadiness reports every configured dependency and degrades on failure.
*/
func TestReadiness(t *testing.T) {
	ok := func() error { return nil }

	tests := []struct {
		name   string
		deps   api.HealthDependencies
		status int
		body   string
	}{
		{
			name:   "all_ready",
			deps:   api.HealthDependencies{CheckDatabase: ok, CheckCache: ok, CheckBroker: ok},
			status: http.StatusOK,
			body: `{"data": {"status": "ready", "checks": [
				{"name": "postgres", "ok": true},
				{"name": "redis", "ok": true},
				{"name": "nats", "ok": true}
			]}}`,
		},
		{
			name:   "optional_skipped",
			deps:   api.HealthDependencies{CheckDatabase: ok},
			status: http.StatusOK,
			body:   `{"data": {"status": "ready", "checks": [{"name": "postgres", "ok": true}]}}`,
		},
		{
			name: "database_down",
			deps: api.HealthDependencies{
				CheckDatabase: func() error { return errors.New("postgres: ping failed") },
				CheckBroker:   ok,
			},
			status: http.StatusServiceUnavailable,
			body: `{"data": {"status": "degraded", "checks": [
				{"name": "postgres", "ok": false, "error": "postgres: ping failed"},
				{"name": "nats", "ok": true}
			]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, readiness := api.NewHealthHandlers(tt.deps, discardLogger)

			recorder := httptest.NewRecorder()
			readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, recorder.Code)
			assert.JSONEq(t, tt.body, recorder.Body.String())
		})
	}
}

/*
TestLiveness always answers ok.
*/
func TestLiveness(t *testing.T) {
	liveness, _ := api.NewHealthHandlers(api.HealthDependencies{}, discardLogger)

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data": {"status": "ok"}}`, recorder.Body.String())
}
