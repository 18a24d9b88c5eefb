package query

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spookyvision/udrome/internal/catalog"
)

func newTestEngine(t *testing.T) (*Engine, *catalog.Store) {
	t.Helper()
	ctx := context.Background()
	store, err := catalog.Open(ctx, filepath.Join(t.TempDir(), "udrome.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

func TestGetSongNonNumericIDIsNotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.GetSong(context.Background(), "abc"); err != ErrNotFound {
		t.Fatalf("GetSong(abc) err = %v, want ErrNotFound", err)
	}
}

func TestGetSongUnknownNumericIDIsNotFound(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.GetSong(context.Background(), "12345"); err != ErrNotFound {
		t.Fatalf("GetSong(12345) err = %v, want ErrNotFound", err)
	}
}

func TestGetSongReturnsChildWithCoverArt(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	id, err := store.InsertSong(ctx, catalog.SongDraft{Path: "/lib/a.mp3", Title: "A"})
	if err != nil {
		t.Fatalf("insert song: %v", err)
	}
	if _, _, err := store.InsertCoverArt(ctx, id, "image/png"); err != nil {
		t.Fatalf("insert cover art: %v", err)
	}

	child, err := e.GetSong(ctx, strconv.FormatInt(id, 10))
	if err != nil {
		t.Fatalf("get song: %v", err)
	}
	if child.CoverArt == "" {
		t.Fatalf("expected CoverArt to be set on returned Child")
	}
}

func TestSearch3EmptyQueryReturnsEverythingPaged(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	artist := "An Artist"
	for _, title := range []string{"One", "Two", "Three"} {
		if _, err := store.InsertSong(ctx, catalog.SongDraft{
			Path: filepath.Join("/lib", title+".mp3"), Title: title, Artist: &artist,
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	result, err := e.Search3(ctx, Search3Params{})
	if err != nil {
		t.Fatalf("search3: %v", err)
	}
	if len(result.Song) != 3 {
		t.Fatalf("want 3 songs, got %d", len(result.Song))
	}
	if len(result.Artist) != 1 || result.Artist[0].Name != artist {
		t.Fatalf("want 1 artist %q, got %+v", artist, result.Artist)
	}
}

func TestGetArtistsSingleAnonymousIndex(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	artist := "Solo Artist"
	if _, err := store.InsertSong(ctx, catalog.SongDraft{Path: "/lib/a.mp3", Title: "A", Artist: &artist}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	artists, err := e.GetArtists(ctx)
	if err != nil {
		t.Fatalf("get artists: %v", err)
	}
	if len(artists.Index) != 1 {
		t.Fatalf("want exactly 1 index bucket, got %d", len(artists.Index))
	}
	if artists.Index[0].Name != "" {
		t.Fatalf("index name = %q, want empty anonymous bucket", artists.Index[0].Name)
	}
}
