package scraper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mglzgsr/thangs-color-scraper/internal/parser"
	"github.com/mglzgsr/thangs-color-scraper/internal/ratelimit"
	"github.com/mglzgsr/thangs-color-scraper/internal/report"
)

// Visitor fetches the rendered markup of a single URL. The label names debug
// artifacts should the visit fail.
type Visitor interface {
	Visit(ctx context.Context, url, label string) (string, error)
}

// Collect visits every model URL in order, extracts title and colors, and
// feeds the accumulator. A failing page is logged and skipped; the run
// continues with the rest. The pacer throttles successive visits.
func Collect(ctx context.Context, v Visitor, urls []string, pacer *ratelimit.Pacer, acc *report.Accumulator, logger *slog.Logger) error {
	total := len(urls)

	for i, url := range urls {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}

		logger.Info("visiting model page", "index", i+1, "total", total, "url", url)

		html, err := v.Visit(ctx, url, fmt.Sprintf("model_%d", i+1))
		if err != nil {
			logger.Warn("skipping model page", "url", url, "error", err)
			continue
		}

		title, colors, err := parser.ExtractModelPage(html, url)
		if err != nil {
			logger.Warn("skipping unparseable model page", "url", url, "error", err)
			continue
		}

		logger.Info("extracted model", "title", title, "colors", len(colors))
		acc.Add(report.Record{Name: title, URL: url, Colors: colors})
	}

	return nil
}
