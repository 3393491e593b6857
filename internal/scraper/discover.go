package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/mglzgsr/thangs-color-scraper/internal/browser"
	"github.com/mglzgsr/thangs-color-scraper/internal/config"
	"github.com/mglzgsr/thangs-color-scraper/internal/parser"
)

// Discoverer finds model detail URLs on a listing page. The primary strategy
// drives infinite scroll until the page stops growing; if that yields nothing
// it falls back to iterating ?page=N.
type Discoverer struct {
	browser *browser.Browser
	cfg     config.Scraper
	logger  *slog.Logger
}

func NewDiscoverer(b *browser.Browser, cfg config.Scraper) *Discoverer {
	return &Discoverer{
		browser: b,
		cfg:     cfg,
		logger:  slog.Default().With("component", "discoverer"),
	}
}

// Discover returns the deduplicated, sorted set of model URLs reachable from
// listingURL. Navigation failure on the listing itself is fatal; an empty
// result is not.
func (d *Discoverer) Discover(ctx context.Context, page playwright.Page, listingURL string) ([]string, error) {
	urls, err := d.scroll(ctx, page, listingURL)
	if err != nil {
		return nil, err
	}

	d.logger.Info("scroll discovery finished", "links", len(urls))

	if len(urls) == 0 {
		d.browser.DumpDebug(page, "listing_after_scroll")
		urls, err = d.paged(ctx, page, listingURL)
		if err != nil {
			return nil, err
		}
		d.logger.Info("paged discovery finished", "links", len(urls))
	}

	return urls, nil
}

func (d *Discoverer) scroll(ctx context.Context, page playwright.Page, listingURL string) ([]string, error) {
	if err := d.browser.Navigate(page, listingURL, "listing", d.cfg.MaxAttempts); err != nil {
		return nil, fmt.Errorf("failed to open listing: %w", err)
	}

	// Any model anchor is a good early signal; its absence just means the
	// content is still rendering, so we log, dump and keep scrolling.
	if _, err := page.WaitForSelector(`a[href*="/3d-model/"]`, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		d.logger.Info("no model links visible yet, continuing with scroll", "url", listingURL)
		d.browser.DumpDebug(page, "listing_initial")
	}

	seen := make(map[string]struct{})
	var urls []string
	stall := &stagnation{limit: d.cfg.StagnationLimit}

	for i := 0; i < d.cfg.ScrollRounds; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		html, err := page.Content()
		if err != nil {
			d.logger.Warn("failed to read listing content", "round", i+1, "error", err)
		} else {
			links, err := parser.CollectModelLinks(html)
			if err != nil {
				d.logger.Warn("failed to parse listing content", "round", i+1, "error", err)
			}
			for _, l := range links {
				if _, ok := seen[l]; !ok {
					seen[l] = struct{}{}
					urls = append(urls, l)
				}
			}
		}

		if _, err := page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			d.logger.Warn("scroll failed", "round", i+1, "error", err)
		}
		time.Sleep(d.cfg.ScrollDelay)

		height := stall.last
		if v, err := page.Evaluate(`document.body.scrollHeight`); err == nil {
			if h, ok := asFloat(v); ok {
				height = h
			}
		}

		if stall.observe(height) {
			d.logger.Debug("scroll height stagnant, stopping", "round", i+1)
			break
		}
	}

	return sortedCopy(urls), nil
}

// stagnation tracks consecutive scroll rounds with an unchanged page height.
// A listing shorter than one viewport never grows at all, so the very first
// rounds already count toward the limit.
type stagnation struct {
	limit int
	last  float64
	run   int
}

// observe records the latest height and reports whether scrolling has
// stalled for limit rounds in a row.
func (s *stagnation) observe(height float64) bool {
	if height == s.last {
		s.run++
	} else {
		s.run = 0
	}
	s.last = height

	return s.run >= s.limit
}

func (d *Discoverer) paged(ctx context.Context, page playwright.Page, listingURL string) ([]string, error) {
	seen := make(map[string]struct{})
	var urls []string

	for n := 1; n <= d.cfg.MaxPages; n++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pageURL := listingURL
		if n > 1 {
			pageURL = fmt.Sprintf("%s?page=%d", listingURL, n)
		}

		if err := d.browser.Navigate(page, pageURL, fmt.Sprintf("listing_page_%d", n), d.cfg.MaxAttempts); err != nil {
			if n == 1 {
				return nil, fmt.Errorf("failed to open listing page 1: %w", err)
			}
			d.logger.Warn("paged navigation failed, stopping", "page", n, "error", err)
			break
		}
		time.Sleep(d.cfg.PageDelay)

		html, err := page.Content()
		if err != nil {
			d.logger.Warn("failed to read page content, stopping", "page", n, "error", err)
			break
		}

		links, err := parser.CollectModelLinks(html)
		if err != nil {
			d.logger.Warn("failed to parse page content, stopping", "page", n, "error", err)
			break
		}

		added := 0
		for _, l := range links {
			if _, ok := seen[l]; !ok {
				seen[l] = struct{}{}
				urls = append(urls, l)
				added++
			}
		}

		d.logger.Info("collected listing page", "page", n, "links", len(links), "new", added)

		if added == 0 {
			break
		}
	}

	return sortedCopy(urls), nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
