package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	h "github.com/veranemoloko/vreddit-downloader/internal/api/http"
	cfgpkg "github.com/veranemoloko/vreddit-downloader/internal/config"
	"github.com/veranemoloko/vreddit-downloader/internal/muxer"
	repo "github.com/veranemoloko/vreddit-downloader/internal/repository"
	svc "github.com/veranemoloko/vreddit-downloader/internal/service"
)

func main() {

	cfg, err := cfgpkg.Load()
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			slog.Error("configuration file not found", "error", err)
		} else {
			slog.Error("failed to load configuration", "error", err)
		}
		os.Exit(1)
	}

	logger := cfgpkg.SetupLogger(cfg)
	logger.Info("configuration loaded successfully", "environment", cfg.Environment)

	if !muxer.NewFFmpegMuxer(cfg.FFmpegPath, logger).Available() {
		logger.Warn("ffmpeg not found, downloads will fail at the mux stage", "ffmpeg_path", cfg.FFmpegPath)
	}

	taskStorage, err := repo.NewTaskStorage(cfg.StateFile)
	if err != nil {
		logger.Error("failed to initialize file repository", "error", err)
		os.Exit(1)
	}

	downloadService := svc.NewDownloadServiceFromConfig(cfg, logger)
	taskService := svc.NewTaskService(taskStorage, downloadService, cfg, logger)

	// Recovery can block on a full queue; the server starts regardless.
	go func() {
		if err := taskService.RecoverPendingTasks(context.Background()); err != nil {
			logger.Error("failed to recover pending tasks", "error", err)
		}
	}()

	router := h.NewRouter(taskService, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  cfg.HTTPTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	} else {
		logger.Info("server stopped gracefully")
	}

	if err := taskService.Shutdown(shutdownCtx); err != nil {
		logger.Error("task service shutdown failed", "error", err)
	}
}
