package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the built front end. Unmatched /api/ paths get a
// JSON 404; every other unknown path falls back to index.html so the
// SPA router can handle it.
type StaticHandler struct {
	dir    string
	fs     http.Handler
	logger *slog.Logger
}

func NewStaticHandler(dir string, logger *slog.Logger) *StaticHandler {
	return &StaticHandler{
		dir:    dir,
		fs:     http.FileServer(http.Dir(dir)),
		logger: logger,
	}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		writeError(w, h.logger, http.StatusNotFound, "API endpoint not found", "")
		return
	}

	// Serve the file if it exists, otherwise fall back to the SPA
	// entry point.
	path := filepath.Join(h.dir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		h.fs.ServeHTTP(w, r)
		return
	}

	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		h.logger.Warn("SPA entry point missing", "path", index)
		http.Error(w, "index.html not found; build the front end first", http.StatusNotFound)
		return
	}
	http.ServeFile(w, r, index)
}
