// Package extractor is the Metadata Extractor: a pure function from a file
// path to its tags, MIME type, duration, size, and embedded pictures. It
// never touches the catalog and is safe to run in a CPU-parallel pool.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
)

// ErrNoTag signals that the underlying reader found no usable tag data.
// It is a non-fatal outcome: the caller proceeds with tag = none.
var ErrNoTag = errors.New("no tag present")

// Result is everything the extractor can report about one file.
type Result struct {
	Tag       Tag // nil when no tag could be read
	MimeType  string
	DurationS *int
	Size      int64
	Pictures  []Picture
}

// Extract reads path and returns its Result. Extraction errors are
// non-fatal per spec §4.B/§7: a failed tag or duration read is logged here
// and leaves the corresponding Result field empty, and Extract still
// returns a nil error. Only a failure to stat path is returned as an error.
func Extract(ctx context.Context, path string) (Result, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %q: %w", path, err)
	}

	res := Result{
		MimeType: guessMime(path),
		Size:     fi.Size(),
	}

	if res.MimeType == "audio/mpeg" {
		tag, pics, err := readID3(path)
		switch {
		case err == nil:
			res.Tag = tag
			res.Pictures = pics
		case errors.Is(err, ErrNoTag):
			slog.Debug("no id3 tag present", "path", path)
		default:
			slog.Warn("id3 read failed", "path", path, "err", err)
		}

		if d, err := mp3Duration(path); err != nil {
			slog.Warn("mp3 duration scan failed", "path", path, "err", err)
		} else {
			res.DurationS = &d
		}

		return res, nil
	}

	tag, err := readProbe(ctx, path)
	if err != nil {
		slog.Warn("probe extraction failed", "path", path, "err", err)
		return res, nil
	}
	res.Tag = tag
	return res, nil
}

// guessMime infers a MIME type from path's suffix, matching spec §4.B's
// "mime is guessed from the path suffix."
func guessMime(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return ""
}
