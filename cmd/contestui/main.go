// Command contestui serves the contest admin UI and its JSON API.
//
// Configuration comes from flags, then environment variables, then a .env
// file in the working directory:
//
//	SECRET_KEY=dev contestui -seed 14
//	# then open http://localhost:9000/login?kaid=kaid_100000000000000000000001
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kascribe/contestui/internal/config"
	"github.com/kascribe/contestui/internal/server"
	"github.com/kascribe/contestui/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Args[1:], ".env")
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Database schema ready", "driver", cfg.DatabaseType)

	if cfg.SeedEntries > 0 {
		if err := st.Seed(ctx, cfg.SeedEntries); err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
	}

	srv := server.New(cfg, st, logger)

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	if err := srv.Start(cfg.Addr()); err != nil {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
