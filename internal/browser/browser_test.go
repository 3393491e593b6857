package browser

import (
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.Headless {
		t.Error("Expected headless to be true by default")
	}

	if opts.Timeout != 60*time.Second {
		t.Errorf("Expected timeout to be 60s, got %v", opts.Timeout)
	}

	if opts.ViewportWidth != 1920 || opts.ViewportHeight != 1080 {
		t.Errorf("Expected viewport to be 1920x1080, got %dx%d", opts.ViewportWidth, opts.ViewportHeight)
	}

	if opts.DebugDir != "debug" {
		t.Errorf("Expected debug dir to be debug, got %s", opts.DebugDir)
	}
}

func TestWaitStatesLadder(t *testing.T) {
	if len(waitStates) != 3 {
		t.Fatalf("Expected 3 wait strategies, got %d", len(waitStates))
	}

	if waitStates[len(waitStates)-1] != nil {
		t.Error("Expected the final strategy to drop the wait condition")
	}
}
