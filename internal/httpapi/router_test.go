package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spookyvision/udrome/internal/blobstore"
	"github.com/spookyvision/udrome/internal/catalog"
	"github.com/spookyvision/udrome/internal/query"
	"github.com/spookyvision/udrome/internal/streaming"
	"github.com/spookyvision/udrome/internal/subsonic"
)

func newTestRouter(t *testing.T, publicDir string) http.Handler {
	t.Helper()
	ctx := context.Background()
	dataRoot := t.TempDir()

	store, err := catalog.Open(ctx, filepath.Join(dataRoot, "udrome.sqlite"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	blobs := blobstore.New(dataRoot)
	engine := query.New(store)
	stream := streaming.New(store, blobs)

	return NewRouter(Config{BaseURL: "", Dev: false, PublicDir: publicDir}, engine, stream)
}

func TestPingReturnsOKEnvelope(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/rest/ping.view", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var envelope subsonic.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Response.Status != "ok" {
		t.Fatalf("status field = %q, want ok", envelope.Response.Status)
	}
}

func TestGetSongMissingIDReturnsFailedEnvelope(t *testing.T) {
	router := newTestRouter(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/rest/getSong.view?id=999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope subsonic.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Response.Status != "failed" {
		t.Fatalf("status field = %q, want failed", envelope.Response.Status)
	}
	if envelope.Response.Error == nil || envelope.Response.Error.Code != 70 {
		t.Fatalf("error = %+v, want code 70", envelope.Response.Error)
	}
}

func TestStaticFallbackServesIndex(t *testing.T) {
	publicDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<html>hi</html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	router := newTestRouter(t, publicDir)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "<html>hi</html>" {
		t.Fatalf("body = %q, want index contents", rec.Body.String())
	}
}

func TestStaticFallbackMissingNonIndexRedirects(t *testing.T) {
	publicDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	router := newTestRouter(t, publicDir)

	req := httptest.NewRequest(http.MethodGet, "/app/route/deep-link", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
}
