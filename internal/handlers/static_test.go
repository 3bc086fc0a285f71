package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaticDir(t *testing.T, withIndex bool) string {
	t.Helper()
	dir := t.TempDir()
	if withIndex {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
			[]byte("<html>vova</html>"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"),
		[]byte("console.log('hi')"), 0o644))
	return dir
}

func TestStaticServesExistingFile(t *testing.T) {
	handler := NewStaticHandler(newStaticDir(t, true), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/app.js", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")
}

func TestStaticSPAFallback(t *testing.T) {
	handler := NewStaticHandler(newStaticDir(t, true), testLogger())

	// Client-side routes fall back to the SPA entry point.
	req := httptest.NewRequest(http.MethodGet, "/visit/kitchen", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vova")
}

func TestStaticUnknownAPIRoute(t *testing.T) {
	handler := NewStaticHandler(newStaticDir(t, true), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/does-not-exist", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code,
		"unknown API paths never fall back to index.html")

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.NotEmpty(t, errResp.Error)
}

func TestStaticMissingIndex(t *testing.T) {
	handler := NewStaticHandler(newStaticDir(t, false), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/somewhere", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
