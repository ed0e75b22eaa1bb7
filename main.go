package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"

	"github.com/Mamajin/ku-polls/admin"
	"github.com/Mamajin/ku-polls/cache"
	"github.com/Mamajin/ku-polls/cliparse"
	"github.com/Mamajin/ku-polls/db"
	"github.com/Mamajin/ku-polls/middleware"
	"github.com/Mamajin/ku-polls/router"
	"github.com/Mamajin/ku-polls/store"
	"github.com/Mamajin/ku-polls/voting"
)

const (
	tallyCacheTTL   = 30 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	setupLogger()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	if len(cfg.Command) > 0 && !admin.IsCommand(cfg.Command[0]) {
		fmt.Fprintf(os.Stderr, "unknown command %q\n%s", cfg.Command[0], admin.Usage())
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("exiting", "error", err)
		stop()
		os.Exit(1)
	}
}

// setupLogger logs text to a terminal and JSON everywhere else
func setupLogger() {
	var handler slog.Handler
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

func run(ctx context.Context, cfg cliparse.Config) error {
	// Connect and verify
	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer conn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	st := store.New(conn, cfg.DatabaseType)

	if len(cfg.Command) > 0 {
		return admin.Run(ctx, st, cfg.Command, os.Stdout)
	}

	engine := voting.NewEngine(st)
	if cfg.RedisURL != "" {
		tallies, err := cache.NewRedisTallyCache(ctx, cfg.RedisURL, tallyCacheTTL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer tallies.Close()
		engine.WithCache(tallies)
		slog.Info("Results cache enabled")
	}

	// one request per second per client, bursts of five
	limiter := middleware.NewIPRateLimiter(rate.Every(time.Second), 5)
	go limiter.RunPruner(ctx, time.Minute, 10*time.Minute)

	mux, err := router.NewRouter(st, engine, limiter, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}
