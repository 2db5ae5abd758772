package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth_OK(t *testing.T) {
	r := chi.NewRouter()
	NewHealthHandler(time.Now().Add(-time.Minute), pingerFunc(func(context.Context) error { return nil })).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["uptime"])
}

func TestHealth_StoreDown(t *testing.T) {
	r := chi.NewRouter()
	NewHealthHandler(time.Now(), pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"store unavailable: dial tcp: refused"}`, rec.Body.String())
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	r := chi.NewRouter()
	NewHealthHandler(time.Now(), pingerFunc(func(context.Context) error { return nil })).Register(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
