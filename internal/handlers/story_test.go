package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergarden-code/vova/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validStoryBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"contents":          []map[string]interface{}{{"role": "user", "parts": []map[string]string{{"text": "привет"}}}},
		"systemInstruction": map[string]interface{}{"parts": []map[string]string{{"text": "ты Вова"}}},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestStoryHandlerSuccess(t *testing.T) {
	oracle := services.NewMockOracle()
	oracle.GenerateStoryFunc = func(ctx context.Context, req *services.GenerateStoryRequest) (json.RawMessage, error) {
		return json.RawMessage(`{"candidates":[{"content":{"parts":[{"text":"{}"}]}}]}`), nil
	}
	handler := NewStoryHandler(oracle, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-story", validStoryBody(t))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "candidates")
	assert.Equal(t, 1, oracle.CallCount())
}

func TestStoryHandlerMethodNotAllowed(t *testing.T) {
	handler := NewStoryHandler(services.NewMockOracle(), testLogger())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/generate-story", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
	}
}

func TestStoryHandlerInvalidBody(t *testing.T) {
	handler := NewStoryHandler(services.NewMockOracle(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-story",
		bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoryHandlerMissingFields(t *testing.T) {
	oracle := services.NewMockOracle()
	handler := NewStoryHandler(oracle, testLogger())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing contents", `{"systemInstruction":{"parts":[]}}`, "contents"},
		{"missing systemInstruction", `{"contents":[{"parts":[]}]}`, "systemInstruction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/generate-story",
				bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var errResp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Contains(t, errResp.Error, tt.want)
		})
	}
	assert.Equal(t, 0, oracle.CallCount(), "invalid requests never reach the oracle")
}

func TestStoryHandlerForwardsUpstreamFailure(t *testing.T) {
	oracle := services.NewMockOracle()
	oracle.GenerateStoryFunc = func(ctx context.Context, req *services.GenerateStoryRequest) (json.RawMessage, error) {
		return nil, &services.UpstreamError{
			StatusCode: http.StatusTooManyRequests,
			Detail:     "quota exceeded",
		}
	}
	handler := NewStoryHandler(oracle, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-story", validStoryBody(t))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code,
		"the upstream status is passed through, not flattened to 500")

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Details, "quota exceeded")
}

func TestStoryHandlerOracleError(t *testing.T) {
	oracle := services.NewMockOracle()
	oracle.GenerateStoryFunc = func(ctx context.Context, req *services.GenerateStoryRequest) (json.RawMessage, error) {
		return nil, context.DeadlineExceeded
	}
	handler := NewStoryHandler(oracle, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/generate-story", validStoryBody(t))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
