package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"imageboard/pkg/api"
	"imageboard/pkg/banner"
	"imageboard/pkg/board"
	"imageboard/pkg/config"
	"imageboard/pkg/logger"
	"imageboard/pkg/media"
	"imageboard/pkg/store"
)

// build metadata - set via ldflags during build/release
var version = "dev"

func main() {
	_ = godotenv.Load(".env")
	flags := config.ParseCommandFlags()

	cfgPath := config.ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	config.ApplyEnv(cfg)

	// explicit flags win over env and file
	addr := cfg.Addr()
	if flags.Set["addr"] {
		addr = flags.Addr
	}
	if flags.Set["db"] {
		cfg.Storage.DBPath = flags.DB
	}

	logger.Init(cfg.Logging.Level)

	pipeline := media.New(cfg.Media)
	if err := pipeline.EnsureDirs(); err != nil {
		log.Fatalf("failed to create media directories: %v", err)
	}

	if err := store.Open(cfg.Storage.DBPath); err != nil {
		log.Fatalf("failed to open pebble at %s: %v", cfg.Storage.DBPath, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("store_close_failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepCancel, err := pipeline.StartSweeper(ctx, cfg.Media.Sweep)
	if err != nil {
		log.Fatalf("failed to start media sweeper: %v", err)
	}
	defer sweepCancel()

	if cfg.Board.PageSize <= 0 {
		cfg.Board.PageSize = board.DefaultPageSize
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(cfg, pipeline).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	banner.Print(addr, cfg.Storage.DBPath, version)
	logger.Info("server_starting", "addr", addr, "db", cfg.Storage.DBPath, "version", version)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server_failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown_signal_received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server_shutdown_failed", "error", err)
		}
	}
	logger.Info("server_stopped")
}
