// Package blobstore is the cover-art blob sidecar: raw picture bytes stored
// out-of-row on disk at {data_root}/data/artwork/{shard}/{id}, keyed by the
// CoverArt row's own id (the filename carries no extension).
package blobstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store writes and reads cover-art blobs under a data root.
type Store struct {
	dataRoot string
}

// New returns a Store rooted at dataRoot (the configured system.data_path).
func New(dataRoot string) *Store {
	return &Store{dataRoot: dataRoot}
}

// path returns the on-disk path for a cover-art blob, mirroring the layout
// documented in spec §6: {data_root}/data/artwork/{shard}/{id}.
func (s *Store) path(shard int, id int64) string {
	return filepath.Join(s.dataRoot, "data", "artwork", fmt.Sprintf("%d", shard), fmt.Sprintf("%d", id))
}

// Write creates intermediate directories as needed and writes data to the
// blob path, overwriting any existing blob silently.
func (s *Store) Write(data []byte, id int64, shard int) error {
	dest := s.path(shard, id)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create artwork dir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write artwork blob %q: %w", dest, err)
	}
	return nil
}

// Open opens the blob for reading. The caller must close the returned file.
func (s *Store) Open(shard int, id int64) (*os.File, error) {
	f, err := os.Open(s.path(shard, id))
	if err != nil {
		return nil, fmt.Errorf("open artwork blob: %w", err)
	}
	return f, nil
}

// Read returns the full contents of a blob. Used by round-trip tests and
// any caller that doesn't need streaming access.
func (s *Store) Read(shard int, id int64) ([]byte, error) {
	f, err := s.Open(shard, id)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
