package report

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
)

// ViewerFile is the standalone page that loads a models_colors.csv export and
// renders an interactive model-by-color matrix.
const ViewerFile = "thangs_color_matrix_loader.html"

//go:embed viewer.html
var ViewerHTML []byte

// EnsureViewer writes the viewer page into dir unless one already exists, so
// local edits to the page survive re-runs.
func EnsureViewer(dir string) error {
	path := filepath.Join(dir, ViewerFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, ViewerHTML, 0o644); err != nil {
		return fmt.Errorf("failed to write viewer: %w", err)
	}
	return nil
}
