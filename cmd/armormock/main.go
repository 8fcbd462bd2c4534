// Package main runs the standalone Model Armor mock service. It exposes the
// template, sanitization, floor-setting, and DLP fixture surfaces on one
// port, with Prometheus metrics at /metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goarmor/internal/armormock"
	"goarmor/internal/version"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	dbPath := flag.String("db", "", "SQLite database path (empty for in-memory storage)")
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	slog.Info("starting armormock",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	opts := armormock.Options{}
	if *dbPath != "" {
		store, err := armormock.OpenSQLiteStore(*dbPath)
		if err != nil {
			slog.Error("failed to open store", "error", err, "path", *dbPath)
			os.Exit(1)
		}
		opts.Store = store
		slog.Info("using sqlite storage", "path", *dbPath)
	} else {
		slog.Info("using in-memory storage")
	}

	srv := armormock.New(opts)
	defer func() {
		if err := srv.Close(); err != nil {
			slog.Error("store close error", "error", err)
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting server", "address", *addr)

	if err := srv.Start(*addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}
