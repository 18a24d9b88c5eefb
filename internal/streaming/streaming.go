// Package streaming is the Streaming & Asset Façade: range-aware delivery
// of audio files and cover blobs resolved through the Catalog Store.
package streaming

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/spookyvision/udrome/internal/blobstore"
	"github.com/spookyvision/udrome/internal/catalog"
)

// Service serves audio and cover-art bytes.
type Service struct {
	store *catalog.Store
	blobs *blobstore.Store
}

// New returns a Service backed by store and blobs.
func New(store *catalog.Store, blobs *blobstore.Store) *Service {
	return &Service{store: store, blobs: blobs}
}

// Stream serves the audio file for a song id, honouring an optional byte
// range. Missing id or missing file both respond 404.
func (s *Service) Stream(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "song not found", http.StatusNotFound)
		return
	}

	song, err := s.store.GetSong(r.Context(), id)
	if err != nil {
		http.Error(w, "song not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(song.Path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	fileSize := fi.Size()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Accept-Ranges", "bytes")

	rangeHeader := r.Header.Get("Range")
	if rangeHeader == "" {
		w.Header().Set("Content-Length", strconv.FormatInt(fileSize, 10))
		io.Copy(w, f)
		return
	}

	start, end, err := parseRange(rangeHeader, fileSize)
	if err != nil {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", fileSize))
		http.Error(w, "invalid range", http.StatusRequestedRangeNotSatisfiable)
		return
	}

	length := end - start + 1
	if _, err := f.Seek(start, io.SeekStart); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, fileSize))
	w.Header().Set("Content-Length", strconv.FormatInt(length, 10))
	w.WriteHeader(http.StatusPartialContent)
	io.CopyN(w, f, length)
}

// Cover serves the blob for a cover-art id, responding with the row's
// stored MIME type.
func (s *Service) Cover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "cover art not found", http.StatusNotFound)
		return
	}

	cover, err := s.store.GetCoverArt(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "cover art not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f, err := s.blobs.Open(cover.Shard, cover.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", cover.MimeType)
	io.Copy(w, f)
}

// parseRange parses a single-range "bytes=" HTTP Range header, adapted
// from Orb's stream.go. end is inclusive.
func parseRange(rangeHeader string, size int64) (start, end int64, err error) {
	const prefix = "bytes="
	if len(rangeHeader) <= len(prefix) || rangeHeader[:len(prefix)] != prefix {
		return 0, 0, fmt.Errorf("unsupported range unit")
	}
	spec := rangeHeader[len(prefix):]

	dash := -1
	for i, c := range spec {
		if c == '-' {
			dash = i
			break
		}
	}
	if dash < 0 {
		return 0, 0, fmt.Errorf("invalid range")
	}
	startStr, endStr := spec[:dash], spec[dash+1:]

	if startStr == "" {
		n, e := strconv.ParseInt(endStr, 10, 64)
		if e != nil || n <= 0 {
			return 0, 0, fmt.Errorf("invalid range")
		}
		start = size - n
		end = size - 1
	} else {
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil {
			return 0, 0, err
		}
		if endStr == "" {
			end = size - 1
		} else {
			end, err = strconv.ParseInt(endStr, 10, 64)
			if err != nil {
				return 0, 0, err
			}
		}
	}

	if start < 0 || end >= size || start > end {
		return 0, 0, fmt.Errorf("range out of bounds")
	}
	return start, end, nil
}
