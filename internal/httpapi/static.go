package httpapi

import (
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// staticAssets serves the single-page client from {data_root}/public,
// stripping the configured base-URL prefix from incoming paths, per
// spec §4.E.
type staticAssets struct {
	publicDir string
	baseURL   string
}

func (s *staticAssets) serveHTTP(w http.ResponseWriter, r *http.Request) {
	trimmed := strings.TrimPrefix(r.URL.Path, s.baseURL)
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		trimmed = "index.html"
	}

	// Path traversal below the base-URL root is a 500, not a 404 — a
	// request trying to escape the public dir is a request error, not a
	// missing-asset case.
	cleaned := filepath.Clean(trimmed)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		http.Error(w, "invalid path", http.StatusInternalServerError)
		return
	}

	fsPath := filepath.Join(s.publicDir, cleaned)
	f, err := os.Open(fsPath)
	if err != nil {
		if cleaned == "index.html" {
			http.Error(w, "index not found", http.StatusInternalServerError)
			return
		}
		// Not the index page itself: redirect to the base URL with a
		// trailing slash, enabling client-side routing.
		redirectTo := strings.TrimSuffix(s.baseURL, "/") + "/"
		http.Redirect(w, r, redirectTo, http.StatusFound)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(fsPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	io.Copy(w, f)
}
