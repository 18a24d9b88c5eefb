// Package httpapi assembles the chi router: the Subsonic-compatible REST
// surface under {base_url}/rest/, plus the static single-page-client asset
// server for everything else. Middleware stack (RequestID, RealIP,
// Recoverer, a slog request logger, and a dev-gated CORS policy) is
// grounded on Orb's services/api/cmd/main.go.
package httpapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/spookyvision/udrome/internal/query"
	"github.com/spookyvision/udrome/internal/streaming"
)

// Config controls router construction: the base URL prefix, whether dev
// CORS is enabled, and the static-site root directory.
type Config struct {
	BaseURL   string
	Dev       bool
	PublicDir string
}

// NewRouter builds the complete chi.Router for the server.
func NewRouter(cfg Config, engine *query.Engine, stream *streaming.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(slogMiddleware)
	r.Use(middleware.Recoverer)
	if cfg.Dev {
		r.Use(corsMiddleware)
	}

	h := &handlers{engine: engine}

	restBase := strings.TrimSuffix(cfg.BaseURL, "/") + "/rest"
	r.Route(restBase, func(r chi.Router) {
		r.Get("/ping.view", h.ping)
		r.Get("/search3.view", h.search3)
		r.Get("/getSong.view", h.getSong)
		r.Get("/getArtists.view", h.getArtists)
		r.Get("/getAlbumList2.view", h.getAlbumList2)
		r.Get("/getPlaylists.view", h.getPlaylists)
		r.Get("/getMusicFolders.view", h.getMusicFolders)
		r.Get("/getCoverArt.view", stream.Cover)
		r.Get("/stream.view", stream.Stream)
		r.Get("/scrobble.view", h.scrobble)
	})

	static := &staticAssets{publicDir: cfg.PublicDir, baseURL: cfg.BaseURL}
	r.NotFound(static.serveHTTP)

	return r
}

func slogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// corsMiddleware is the dev-only permissive CORS policy: GET+POST, any
// origin, per spec §6 `[system].dev`.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Range")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
