package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mglzgsr/thangs-color-scraper/internal/config"
	"github.com/mglzgsr/thangs-color-scraper/internal/report"
)

// Serves the interactive color-matrix viewer and the generated CSV artifacts
// on localhost. Read-only: there is no API and no state beyond the files on
// disk.
func main() {
	var (
		addr = flag.String("addr", "", "Listen address (overrides VIEWER_ADDR)")
		dir  = flag.String("dir", "", "Directory holding the CSV reports (overrides OUTPUT_DIR)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Viewer.Addr = *addr
	}
	if *dir != "" {
		cfg.Output.Dir = *dir
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(report.ViewerHTML)
	})

	// only the two known artifacts are exposed
	reports := map[string]string{
		report.ModelsFile: filepath.Join(cfg.Output.Dir, report.ModelsFile),
		report.ColorsFile: filepath.Join(cfg.Output.Dir, report.ColorsFile),
	}
	r.Get("/reports/{name}", func(w http.ResponseWriter, req *http.Request) {
		path, ok := reports[chi.URLParam(req, "name")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		http.ServeFile(w, req, path)
	})

	server := &http.Server{
		Addr:         cfg.Viewer.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down viewer server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Info("viewer server starting", "addr", cfg.Viewer.Addr, "reports_dir", cfg.Output.Dir)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("viewer server stopped")
}
