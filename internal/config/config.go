package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultListingURL is crawled when neither the CLI argument nor DESIGNER_URL is set.
const DefaultListingURL = "https://thangs.com/designer/The%20Kit%20Kiln"

type Config struct {
	Scraper Scraper
	Browser Browser
	Output  Output
	Viewer  Viewer
	Logging Logging
}

type Scraper struct {
	ListingURL      string
	MaxAttempts     int
	ScrollRounds    int
	ScrollDelay     time.Duration
	StagnationLimit int
	MaxPages        int
	PageDelay       time.Duration
	SettleDelay     time.Duration
	ItemDelay       time.Duration
}

type Browser struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
}

type Output struct {
	Dir      string
	DebugDir string
}

type Viewer struct {
	Addr string
}

type Logging struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Scraper: Scraper{
			ListingURL:      getEnvOrDefault("DESIGNER_URL", DefaultListingURL),
			MaxAttempts:     getIntOrDefault("SCRAPER_MAX_ATTEMPTS", 3),
			ScrollRounds:    getIntOrDefault("SCRAPER_SCROLL_ROUNDS", 40),
			ScrollDelay:     getDurationOrDefault("SCRAPER_SCROLL_DELAY", 900*time.Millisecond),
			StagnationLimit: getIntOrDefault("SCRAPER_STAGNATION_LIMIT", 4),
			MaxPages:        getIntOrDefault("SCRAPER_MAX_PAGES", 20),
			PageDelay:       getDurationOrDefault("SCRAPER_PAGE_DELAY", time.Second),
			SettleDelay:     getDurationOrDefault("SCRAPER_SETTLE_DELAY", 1200*time.Millisecond),
			ItemDelay:       getDurationOrDefault("SCRAPER_ITEM_DELAY", 300*time.Millisecond),
		},
		Browser: Browser{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 60*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			UserAgent: getEnvOrDefault("BROWSER_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"),
		},
		Output: Output{
			Dir:      getEnvOrDefault("OUTPUT_DIR", "."),
			DebugDir: getEnvOrDefault("DEBUG_DIR", "debug"),
		},
		Viewer: Viewer{
			Addr: getEnvOrDefault("VIEWER_ADDR", "127.0.0.1:8090"),
		},
		Logging: Logging{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.ListingURL == "" {
		return fmt.Errorf("listing URL must not be empty")
	}

	if c.Scraper.MaxAttempts < 1 {
		return fmt.Errorf("SCRAPER_MAX_ATTEMPTS must be at least 1")
	}

	if c.Scraper.ScrollRounds < 1 {
		return fmt.Errorf("SCRAPER_SCROLL_ROUNDS must be at least 1")
	}

	if c.Scraper.StagnationLimit < 1 {
		return fmt.Errorf("SCRAPER_STAGNATION_LIMIT must be at least 1")
	}

	if c.Scraper.MaxPages < 1 {
		return fmt.Errorf("SCRAPER_MAX_PAGES must be at least 1")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
