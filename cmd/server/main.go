package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/agencypulse/agencypulse/internal/config"
	"github.com/agencypulse/agencypulse/internal/httpx"
	"github.com/agencypulse/agencypulse/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("bad config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	st := store.NewSessionStore()
	r := httpx.NewRouter(logger, st, httpx.Options{
		WeekStart:      cfg.WeekStartDay(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
