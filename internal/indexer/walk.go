package indexer

import (
	"io/fs"
	"path/filepath"
)

// filepathWalkDir adapts filepath.WalkDir's fs.DirEntry-based callback to
// a simpler (path, isDir, err) shape, since the walker stage only cares
// about those two facts. Entries that are neither directories nor regular
// files (symlinks, devices, sockets) are not passed to fn.
func filepathWalkDir(root string, fn func(path string, isDir bool, err error) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fn(path, false, err)
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}
		return fn(path, d.IsDir(), nil)
	})
}
