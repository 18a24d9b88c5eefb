package indexer

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spookyvision/udrome/internal/catalog"
)

const writerBatchSize = 100

// write draws batches of up to 100 results and performs per-row inserts:
// first the Song, then — if pictures are non-empty — a CoverArt row for
// the first picture and a blob write. Insert conflicts are logged at warn
// and skipped, not treated as errors. The writer is a single consumer, as
// required by spec §5.
func (p *Pipeline) write(ctx context.Context, in <-chan indexerResult) {
	batch := make([]indexerResult, 0, writerBatchSize)

	flush := func() {
		for _, r := range batch {
			p.writeOne(ctx, r)
		}
		batch = batch[:0]
	}

	for r := range in {
		batch = append(batch, r)
		if len(batch) >= writerBatchSize {
			flush()
		}
	}
	flush()
}

func (p *Pipeline) writeOne(ctx context.Context, r indexerResult) {
	draft := buildDraft(r)

	id, err := p.store.InsertSong(ctx, draft)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicatePath) {
			slog.Warn("duplicate song path, skipping", "path", r.path)
			return
		}
		slog.Error("insert song failed", "path", r.path, "err", err)
		return
	}

	if len(r.res.Pictures) == 0 {
		return
	}
	pic := r.res.Pictures[0]

	coverID, shard, err := p.store.InsertCoverArt(ctx, id, pic.MimeType)
	if err != nil {
		slog.Error("insert cover art failed", "path", r.path, "err", err)
		return
	}
	if err := p.blobs.Write(pic.Data, coverID, shard); err != nil {
		slog.Error("write cover art blob failed", "path", r.path, "err", err)
	}
}

func buildDraft(r indexerResult) catalog.SongDraft {
	title := filepath.Base(r.path)
	var album, artist, genre *string
	var track *int
	var duration *int

	if tag := r.res.Tag; tag != nil {
		if v, ok := tag.Title(); ok && v != "" {
			title = v
		}
		if v, ok := tag.Artist(); ok {
			artist = strPtr(v)
		}
		if v, ok := tag.Album(); ok {
			album = strPtr(v)
		}
		if v, ok := tag.Genre(); ok {
			genre = strPtr(v)
		}
		if v, ok := tag.Track(); ok {
			if n, ok := parseTrack(v); ok {
				track = &n
			}
		}
	}

	if r.res.DurationS != nil {
		duration = r.res.DurationS
	}

	parent := filepath.Base(filepath.Dir(r.path))

	var contentType *string
	if r.res.MimeType != "" {
		contentType = strPtr(r.res.MimeType)
	}

	return catalog.SongDraft{
		Path:        r.path,
		Parent:      strPtr(parent),
		Title:       title,
		Album:       album,
		Artist:      artist,
		Track:       track,
		Duration:    duration,
		Year:        nil,
		Genre:       genre,
		Size:        int64Ptr(r.res.Size),
		ContentType: contentType,
	}
}

// parseTrack parses a track number that may arrive as "01" or "2/14" — the
// leading segment before an optional "/" is the track number itself.
func parseTrack(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return n, true
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }
