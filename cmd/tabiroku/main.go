package main

import (
	"context"
	"log/slog"

	"github.com/tabiroku/tabiroku/internal/app"
	"github.com/tabiroku/tabiroku/internal/config"
	"github.com/tabiroku/tabiroku/internal/logger"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	ctx := context.Background()

	removed, err := app.ExperienceService.SweepOrphanFiles(ctx)
	if err != nil {
		slog.Error("failed to sweep orphan media files", "error", err)
	} else if removed > 0 {
		slog.Info("removed orphan media directories", "count", removed)
	}

	syncCtx, cancel := context.WithTimeout(ctx, cfg.SyncTimeout)
	defer cancel()

	result, err := app.SyncEngine.SyncAll(syncCtx, cfg.UserID)
	if err != nil {
		slog.Error("sync failed", "error", err)
		panic(err)
	}

	slog.Info("sync finished",
		"uploaded", result.UploadedCount,
		"downloaded", result.DownloadedCount,
	)

	tripResult, err := app.SyncEngine.SyncTrips(syncCtx, cfg.UserID)
	if err != nil {
		slog.Error("trip sync failed", "error", err)
		panic(err)
	}

	slog.Info("trip sync finished",
		"uploaded", tripResult.UploadedCount,
		"downloaded", tripResult.DownloadedCount,
	)
}
