package indexer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"

	"github.com/spookyvision/udrome/internal/blobstore"
	"github.com/spookyvision/udrome/internal/catalog"
)

func newTestPipeline(t *testing.T) (*Pipeline, *catalog.Store) {
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

	media := filepath.Join(dataRoot, "media")
	if err := os.MkdirAll(media, 0o755); err != nil {
		t.Fatalf("mkdir media: %v", err)
	}

	p := New(Config{
		MediaPaths:   []string{media},
		ExcludeFiles: map[string]struct{}{"skip.mp3": {}},
		ExcludeDirs:  map[string]struct{}{".trash": {}},
		Enabled:      true,
		Parallelism:  2,
	}, store, blobs)

	return p, store
}

// writeTaggedMP3 writes an id3v2-tagged file containing cover art, followed
// by arbitrary payload bytes, to simulate an MP3 with embedded artwork.
func writeTaggedMP3(t *testing.T, path, title, artist string, coverBytes []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tag := id3v2.NewEmptyTag()
	tag.SetTitle(title)
	tag.SetArtist(artist)
	if coverBytes != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "cover",
			Picture:     coverBytes,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatalf("write id3v2 tag: %v", err)
	}
	buf.Write([]byte("not real mp3 audio data, just payload bytes"))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestPipelineIndexesExtensionCaseFold(t *testing.T) {
	p, store := newTestPipeline(t)
	media := p.cfg.MediaPaths[0]

	writeTaggedMP3(t, filepath.Join(media, "lower.mp3"), "Lower", "A", nil)
	writeTaggedMP3(t, filepath.Join(media, "upper.MP3"), "Upper", "A", nil)
	if err := os.WriteFile(filepath.Join(media, "ignore.txt"), []byte("not audio"), 0o644); err != nil {
		t.Fatalf("write non-mp3: %v", err)
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	songs, err := store.ListSongs(context.Background(), catalog.ListSongsParams{Limit: 100})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("want 2 indexed songs (case-folded .mp3/.MP3), got %d", len(songs))
	}
}

func TestPipelineSkipsExcludedFilenameAndDir(t *testing.T) {
	p, store := newTestPipeline(t)
	media := p.cfg.MediaPaths[0]

	writeTaggedMP3(t, filepath.Join(media, "skip.mp3"), "Skip", "A", nil)
	writeTaggedMP3(t, filepath.Join(media, "keep.mp3"), "Keep", "A", nil)
	writeTaggedMP3(t, filepath.Join(media, ".trash", "hidden.mp3"), "Hidden", "A", nil)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	songs, err := store.ListSongs(context.Background(), catalog.ListSongsParams{Limit: 100})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Keep" {
		t.Fatalf("want exactly the non-excluded song indexed, got %+v", songs)
	}
}

func TestPipelineDisabledModeSkipsExtractAndWrite(t *testing.T) {
	p, store := newTestPipeline(t)
	p.cfg.Enabled = false
	media := p.cfg.MediaPaths[0]

	writeTaggedMP3(t, filepath.Join(media, "a.mp3"), "A", "Artist", nil)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	songs, err := store.ListSongs(context.Background(), catalog.ListSongsParams{Limit: 100})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(songs) != 0 {
		t.Fatalf("disabled indexer should write nothing, got %d songs", len(songs))
	}
}

func TestPipelineCoverArtRoundTrip(t *testing.T) {
	p, store := newTestPipeline(t)
	media := p.cfg.MediaPaths[0]

	cover := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	writeTaggedMP3(t, filepath.Join(media, "art.mp3"), "With Art", "Artist", cover)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	songs, err := store.ListSongs(context.Background(), catalog.ListSongsParams{Limit: 100})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("want 1 song, got %d", len(songs))
	}
	song, err := store.GetSong(context.Background(), songs[0].ID)
	if err != nil {
		t.Fatalf("get song: %v", err)
	}
	if song.CoverArt == nil {
		t.Fatalf("expected cover art reference on indexed song")
	}

	coverIDs, err := store.CoverArtIDsForSongs(context.Background(), []int64{songs[0].ID})
	if err != nil {
		t.Fatalf("cover art ids: %v", err)
	}
	coverID, ok := coverIDs[songs[0].ID]
	if !ok {
		t.Fatalf("no cover art mapping for song %d", songs[0].ID)
	}

	coverRow, err := store.GetCoverArt(context.Background(), coverID)
	if err != nil {
		t.Fatalf("get cover art: %v", err)
	}

	got, err := p.blobs.Read(coverRow.Shard, coverRow.ID)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if !bytes.Equal(got, cover) {
		t.Fatalf("round-tripped cover bytes = %v, want %v", got, cover)
	}
}
