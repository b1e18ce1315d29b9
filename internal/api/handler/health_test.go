package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Check(t *testing.T) {
	// Setup
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(
		HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
		HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return nil }},
	)

	// Act
	err := h.Check(c)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)
}

func TestHealthHandler_Degraded(t *testing.T) {
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(
		HealthCheck{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
		HealthCheck{Name: "redis", Check: func(ctx context.Context) error { return errors.New("dial tcp: connection refused") }},
	)

	assert.NoError(t, h.Check(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), `"redis":"unavailable"`)
	assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestNewHealthHandler(t *testing.T) {
	h := NewHealthHandler()
	assert.NotNil(t, h)
}
