package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Browser wraps a single playwright Chromium instance. One page at a time is
// enough here; the pipeline is strictly sequential.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	opts    *Options
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	DebugDir       string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        60 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		DebugDir:       "debug",
	}
}

func New(opts *Options) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: &opts.UserAgent,
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: b,
		context: context,
		opts:    opts,
		logger:  slog.Default().With("component", "browser"),
	}, nil
}

// NewPage opens a page with heavy resources blocked. Images, media and fonts
// keep the target site's network from ever going idle and add nothing to the
// markup we parse.
func (b *Browser) NewPage() (playwright.Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}

	page.SetDefaultTimeout(float64(b.opts.Timeout.Milliseconds()))

	err = page.Route("**/*", func(route playwright.Route) {
		switch route.Request().ResourceType() {
		case "image", "media", "font":
			route.Abort()
		default:
			route.Continue()
		}
	})
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to install request routing: %w", err)
	}

	return page, nil
}

func (b *Browser) Close() error {
	var errs []error

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}

// waitStates is the descending ladder of load conditions. The site's network
// never reliably goes idle, so later attempts accept progressively weaker
// signals; the final attempt takes whatever committed plus a short pause.
var waitStates = []*playwright.WaitUntilState{
	playwright.WaitUntilStateNetworkidle,
	playwright.WaitUntilStateDomcontentloaded,
	nil,
}

// Navigate drives the page to url, weakening the wait condition on each
// attempt. On exhaustion it dumps debug artifacts under "<label>_goto_fail"
// and returns the last navigation error.
func (b *Browser) Navigate(page playwright.Page, url, label string, attempts int) error {
	var lastErr error

	for i := 0; i < attempts; i++ {
		state := waitStates[min(i, len(waitStates)-1)]

		if i > 0 {
			b.logger.Info("retrying navigation", "attempt", i+1, "url", url)
		}

		opts := playwright.PageGotoOptions{
			Timeout: playwright.Float(float64(b.opts.Timeout.Milliseconds())),
		}
		if state != nil {
			opts.WaitUntil = state
		} else {
			opts.WaitUntil = playwright.WaitUntilStateCommit
		}

		_, err := page.Goto(url, opts)
		if err == nil {
			if state == nil {
				time.Sleep(1500 * time.Millisecond)
			}
			return nil
		}

		lastErr = err
		b.logger.Warn("navigation attempt failed", "url", url, "attempt", i+1, "error", err)
	}

	b.DumpDebug(page, label+"_goto_fail")
	return fmt.Errorf("failed to navigate to %s after %d attempts: %w", url, attempts, lastErr)
}
