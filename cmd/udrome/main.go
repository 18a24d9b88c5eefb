// Command udrome is the self-hosted music library server: it indexes a
// filesystem tree of MP3s into a SQLite catalog and serves a
// Subsonic-compatible HTTP API plus a static single-page client.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spookyvision/udrome/internal/blobstore"
	"github.com/spookyvision/udrome/internal/catalog"
	"github.com/spookyvision/udrome/internal/config"
	"github.com/spookyvision/udrome/internal/httpapi"
	"github.com/spookyvision/udrome/internal/indexer"
	"github.com/spookyvision/udrome/internal/query"
	"github.com/spookyvision/udrome/internal/streaming"
)

var rootCmd = &cobra.Command{
	Use:   "udrome [config path]",
	Short: "Self-hosted music library server",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath
		if len(args) == 1 {
			path = args[0]
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return run(ctx, path)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, resolvedPath, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config %q: %w", configPath, err)
	}
	slog.Info("config loaded", "path", resolvedPath)

	store, err := catalog.Open(ctx, filepath.Join(cfg.System.DataPath, "udrome.sqlite"))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate catalog: %w", err)
	}
	slog.Info("catalog ready")

	blobs := blobstore.New(cfg.System.DataPath)

	excludeFiles := toSet(cfg.Indexer.Exclude.Files)
	excludeDirs := toSet(cfg.Indexer.Exclude.Dirs)

	pipeline := indexer.New(indexer.Config{
		MediaPaths:   cfg.Media.Paths,
		ExcludeFiles: excludeFiles,
		ExcludeDirs:  excludeDirs,
		Enabled:      cfg.Indexer.Enable,
	}, store, blobs)

	go func() {
		if err := pipeline.Run(ctx); err != nil {
			slog.Error("indexer pipeline failed", "err", err)
		} else {
			slog.Info("indexer pipeline complete")
		}
	}()

	engine := query.New(store)
	streamSvc := streaming.New(store, blobs)

	router := httpapi.NewRouter(httpapi.Config{
		BaseURL:   cfg.System.BaseURL,
		Dev:       cfg.System.Dev,
		PublicDir: filepath.Join(cfg.System.DataPath, "public"),
	}, engine, streamSvc)

	srv := &http.Server{
		Addr:         cfg.System.BindAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // streaming — no write timeout
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	slog.Info("listening", "addr", cfg.System.BindAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func toSet(vals []string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}
