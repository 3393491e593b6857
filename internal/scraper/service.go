package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/mglzgsr/thangs-color-scraper/internal/browser"
	"github.com/mglzgsr/thangs-color-scraper/internal/config"
	"github.com/mglzgsr/thangs-color-scraper/internal/ratelimit"
	"github.com/mglzgsr/thangs-color-scraper/internal/report"
)

// Service owns the whole pipeline: discover listing links, visit each model
// page, extract colors, write the CSV reports and the viewer page.
type Service struct {
	browser *browser.Browser
	cfg     *config.Config
	logger  *slog.Logger
}

func NewService(b *browser.Browser, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		browser: b,
		cfg:     cfg,
		logger:  logger.With("component", "scraper"),
	}
}

// Run executes one full scrape of listingURL. Empty discovery is not an
// error: header-only reports are written so scheduled consumers always find
// the artifacts. Only a navigation failure on the listing itself is fatal.
func (s *Service) Run(ctx context.Context, listingURL string) error {
	runID := uuid.NewString()[:8]
	logger := s.logger.With("run_id", runID)

	logger.Info("starting scrape", "listing", listingURL)

	page, err := s.browser.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	disc := NewDiscoverer(s.browser, s.cfg.Scraper)
	urls, err := disc.Discover(ctx, page, listingURL)
	if err != nil {
		return fmt.Errorf("listing discovery failed: %w", err)
	}

	acc := report.NewAccumulator()

	if len(urls) == 0 {
		logger.Warn("no model links discovered, writing empty reports")
	} else {
		logger.Info("discovered model pages", "count", len(urls))

		visitor := &pageVisitor{
			browser:  s.browser,
			page:     page,
			attempts: s.cfg.Scraper.MaxAttempts,
			settle:   s.cfg.Scraper.SettleDelay,
		}
		pacer := ratelimit.NewPacer(s.cfg.Scraper.ItemDelay)

		if err := Collect(ctx, visitor, urls, pacer, acc, logger); err != nil {
			return err
		}
	}

	if err := acc.WriteReports(s.cfg.Output.Dir); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	if err := report.EnsureViewer(s.cfg.Output.Dir); err != nil {
		return fmt.Errorf("failed to write viewer: %w", err)
	}

	logger.Info("scrape finished", "models", acc.Len())
	for _, c := range acc.TopColors(10) {
		logger.Info("top color", "color", c.Color, "uses", len(c.Models))
	}

	return nil
}

// pageVisitor adapts the shared browser page to the Visitor interface used by
// Collect.
type pageVisitor struct {
	browser  *browser.Browser
	page     playwright.Page
	attempts int
	settle   time.Duration
}

func (v *pageVisitor) Visit(ctx context.Context, url, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := v.browser.Navigate(v.page, url, label, v.attempts); err != nil {
		return "", err
	}

	// let late-rendering sections (the promotional block included) settle
	time.Sleep(v.settle)

	html, err := v.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

func sortedCopy(urls []string) []string {
	out := make([]string, len(urls))
	copy(out, urls)
	sort.Strings(out)
	return out
}
