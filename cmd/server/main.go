package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"

	"github.com/GabinFqt/minesweeper-session-server/internal/admission"
	"github.com/GabinFqt/minesweeper-session-server/internal/applog"
	"github.com/GabinFqt/minesweeper-session-server/internal/config"
	"github.com/GabinFqt/minesweeper-session-server/internal/reaper"
	"github.com/GabinFqt/minesweeper-session-server/internal/registry"
	"github.com/GabinFqt/minesweeper-session-server/internal/transport/cors"
	"github.com/GabinFqt/minesweeper-session-server/internal/transport/httpapi"
	"github.com/GabinFqt/minesweeper-session-server/internal/transport/recovery"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := applog.New(os.Stdout)

	reg := registry.New()
	adm := admission.New(cfg.RateLimitGamesPerMinute)
	handler := httpapi.New(reg, adm, cfg.CORSAllowedOrigins, logger)

	r := mux.NewRouter()
	handler.Mount(r)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rp := reaper.New(reg, adm, cfg.CleanupInterval, cfg.ActiveGameTimeout, cfg.InactiveGameTimeout, logger)
	go rp.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.BindAddress,
		Handler: recovery.Wrap(cors.Wrap(r, cfg.CORSAllowedOrigins), logger),
	}

	logger.Info("server starting", slog.String("addr", cfg.BindAddress))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
