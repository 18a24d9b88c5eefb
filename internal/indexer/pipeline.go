// Package indexer is the Indexer Pipeline: a four-stage, channel-connected
// walker → filter → extractor-pool → writer that feeds the Catalog Store.
// Stages are connected by bounded channels sized to their downstream
// consumer's batch, so back-pressure propagates upstream with no global
// lock held across stages.
package indexer

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/spookyvision/udrome/internal/blobstore"
	"github.com/spookyvision/udrome/internal/catalog"
	"github.com/spookyvision/udrome/internal/extractor"
)

// Config controls one pipeline run.
type Config struct {
	MediaPaths   []string
	ExcludeFiles map[string]struct{}
	ExcludeDirs  map[string]struct{}
	Enabled      bool
	// Parallelism is the extractor pool size. Zero means use detected
	// available parallelism, defaulting to 4 per spec §4.C.
	Parallelism int
}

// Pipeline owns the catalog and blob store the Writer stage writes into.
type Pipeline struct {
	cfg   Config
	store *catalog.Store
	blobs *blobstore.Store
}

// New returns a Pipeline ready to Run.
func New(cfg Config, store *catalog.Store, blobs *blobstore.Store) *Pipeline {
	if cfg.Parallelism <= 0 {
		if n := runtime.GOMAXPROCS(0); n > 0 {
			cfg.Parallelism = n
		} else {
			cfg.Parallelism = 4
		}
	}
	return &Pipeline{cfg: cfg, store: store, blobs: blobs}
}

// indexerResult is the per-path output of the extractor stage, carrying
// everything the Writer needs to construct a Song (and optional CoverArt).
type indexerResult struct {
	path string
	res  extractor.Result
}

// Run walks every configured media root, filters, extracts, and writes.
// It blocks until the walker completes and every downstream stage has
// drained, matching spec §9's resolved "terminate when the walker
// completes" open question: each stage closes its output channel when its
// input is drained and closed.
func (p *Pipeline) Run(ctx context.Context) error {
	known, err := p.store.KnownPaths(ctx)
	if err != nil {
		return err
	}

	paths := p.walk(ctx)
	filtered := p.filter(paths, known)

	if !p.cfg.Enabled {
		// Disabled mode: walker and filter still run so progress is
		// observable, but extraction and writing are skipped entirely.
		for range filtered {
		}
		return nil
	}

	results := p.extract(ctx, filtered)
	p.write(ctx, results)
	return nil
}

// walk recursively enumerates each configured media root, emitting only
// regular files whose lowercased extension is mp3. A monotonic file
// counter is logged every 100th file for progress reporting.
func (p *Pipeline) walk(ctx context.Context) <-chan string {
	out := make(chan string, p.cfg.Parallelism*2)

	go func() {
		defer close(out)
		count := 0
		for _, root := range p.cfg.MediaPaths {
			p.walkRoot(ctx, root, out, &count)
		}
	}()

	return out
}

func (p *Pipeline) walkRoot(ctx context.Context, root string, out chan<- string, count *int) {
	err := filepathWalkDir(root, func(path string, isDir bool, walkErr error) error {
		if walkErr != nil {
			slog.Error("walk error", "path", path, "err", walkErr)
			return nil
		}
		if isDir {
			if path != root {
				if _, excluded := p.cfg.ExcludeDirs[filepath.Base(path)]; excluded {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !utf8.ValidString(path) {
			slog.Error("skipping non-utf8 path", "path", path)
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) != ".mp3" {
			return nil
		}

		*count++
		if *count%100 == 0 {
			slog.Info("walk progress", "files_seen", *count)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- path:
		}
		return nil
	})
	if err != nil {
		slog.Error("walk aborted", "root", root, "err", err)
	}
}

// filter drops entries whose path is already known or whose filename is
// excluded by configuration.
func (p *Pipeline) filter(in <-chan string, known map[string]struct{}) <-chan string {
	out := make(chan string, p.cfg.Parallelism*2)

	go func() {
		defer close(out)
		for path := range in {
			if _, seen := known[path]; seen {
				continue
			}
			if _, excluded := p.cfg.ExcludeFiles[filepath.Base(path)]; excluded {
				continue
			}
			out <- path
		}
	}()

	return out
}

// extract draws batches of up to Parallelism entries and runs the
// Metadata Extractor on each in parallel on a CPU-bound goroutine pool.
func (p *Pipeline) extract(ctx context.Context, in <-chan string) <-chan indexerResult {
	out := make(chan indexerResult, 100)

	go func() {
		defer close(out)

		workers := p.cfg.Parallelism
		sem := make(chan struct{}, workers)
		done := make(chan struct{})
		active := 0

		for path := range in {
			active++
			sem <- struct{}{}
			go func(path string) {
				defer func() { <-sem; done <- struct{}{} }()
				res, err := extractor.Extract(ctx, path)
				if err != nil {
					slog.Warn("extraction failed", "path", path, "err", err)
					return
				}
				out <- indexerResult{path: path, res: res}
			}(path)
		}

		for i := 0; i < active; i++ {
			<-done
		}
	}()

	return out
}
