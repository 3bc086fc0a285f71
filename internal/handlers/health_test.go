package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergarden-code/vova/internal/services"
)

func TestHealthHandlerOK(t *testing.T) {
	handler := NewHealthHandler(services.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "vova", resp.Service)
	assert.Equal(t, "healthy", resp.Components["storage"])
	assert.False(t, resp.Timestamp.IsZero())
}

func TestHealthHandlerDegraded(t *testing.T) {
	storage := services.NewMockStorage()
	storage.PingFunc = func(ctx context.Context) error {
		return fmt.Errorf("connection refused")
	}
	handler := NewHealthHandler(storage, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["storage"])
}
