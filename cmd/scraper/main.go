package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mglzgsr/thangs-color-scraper/internal/browser"
	"github.com/mglzgsr/thangs-color-scraper/internal/config"
	"github.com/mglzgsr/thangs-color-scraper/internal/scraper"
)

func main() {
	var (
		headless = flag.Bool("headless", true, "Run browser in headless mode")
		output   = flag.String("output", "", "Directory for CSV reports (overrides OUTPUT_DIR)")
		debugDir = flag.String("debug-dir", "", "Directory for failure snapshots (overrides DEBUG_DIR)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// positional argument beats DESIGNER_URL beats the built-in default
	if arg := flag.Arg(0); arg != "" {
		cfg.Scraper.ListingURL = arg
	}
	if *output != "" {
		cfg.Output.Dir = *output
	}
	if *debugDir != "" {
		cfg.Output.DebugDir = *debugDir
	}
	cfg.Browser.Headless = *headless && cfg.Browser.Headless

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      cfg.Browser.UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		DebugDir:       cfg.Output.DebugDir,
	})
	if err != nil {
		logger.Error("failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	svc := scraper.NewService(b, cfg, logger)
	if err := svc.Run(ctx, cfg.Scraper.ListingURL); err != nil {
		logger.Error("scrape failed", "error", err)
		b.Close()
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
