package browser

import (
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
)

// DumpDebug persists a full-page screenshot and the current HTML under the
// debug directory for offline inspection. Dump failures are logged and
// swallowed; a broken page must not turn a navigation error into a crash.
func (b *Browser) DumpDebug(page playwright.Page, label string) {
	if err := os.MkdirAll(b.opts.DebugDir, 0o755); err != nil {
		b.logger.Warn("failed to create debug dir", "dir", b.opts.DebugDir, "error", err)
		return
	}

	shot := filepath.Join(b.opts.DebugDir, label+".png")
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(shot),
		FullPage: playwright.Bool(true),
	}); err != nil {
		b.logger.Warn("failed to capture debug screenshot", "label", label, "error", err)
	}

	html, err := page.Content()
	if err != nil {
		b.logger.Warn("failed to read page content for debug dump", "label", label, "error", err)
		return
	}

	if err := os.WriteFile(filepath.Join(b.opts.DebugDir, label+".html"), []byte(html), 0o644); err != nil {
		b.logger.Warn("failed to write debug html", "label", label, "error", err)
	}
}
