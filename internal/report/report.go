package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	ModelsFile = "models_colors.csv"
	ColorsFile = "color_counts.csv"
)

// Record is one scraped model page: its title, URL and the ordered,
// case-insensitively unique color names found on it.
type Record struct {
	Name   string
	URL    string
	Colors []string
}

// ColorCount is one row of the per-color report.
type ColorCount struct {
	Color  string
	Models []string
}

// Accumulator collects records and the color -> model-names index over one
// run. Insertion order of a color's model list reflects visiting order.
type Accumulator struct {
	rows  []Record
	index map[string][]string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		index: make(map[string][]string),
	}
}

func (a *Accumulator) Add(r Record) {
	a.rows = append(a.rows, r)
	for _, c := range r.Colors {
		a.index[c] = append(a.index[c], r.Name)
	}
}

func (a *Accumulator) Len() int {
	return len(a.rows)
}

// ColorCounts returns the per-color rows sorted by descending usage count,
// ties broken by ascending case-insensitive color name.
func (a *Accumulator) ColorCounts() []ColorCount {
	counts := make([]ColorCount, 0, len(a.index))
	for color, models := range a.index {
		counts = append(counts, ColorCount{Color: color, Models: models})
	}

	sort.Slice(counts, func(i, j int) bool {
		if len(counts[i].Models) != len(counts[j].Models) {
			return len(counts[i].Models) > len(counts[j].Models)
		}
		return strings.ToLower(counts[i].Color) < strings.ToLower(counts[j].Color)
	})

	return counts
}

// TopColors returns up to n of the most used colors for log output.
func (a *Accumulator) TopColors(n int) []ColorCount {
	counts := a.ColorCounts()
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// WriteReports renders both CSV artifacts into dir, truncating any previous
// run's files. An empty accumulator still produces valid header-only files so
// downstream consumers never see a missing artifact.
func (a *Accumulator) WriteReports(dir string) error {
	if err := a.writeModels(filepath.Join(dir, ModelsFile)); err != nil {
		return err
	}
	return a.writeColors(filepath.Join(dir, ColorsFile))
}

func (a *Accumulator) writeModels(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"model_name", "model_url", "colors"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range a.rows {
		if err := w.Write([]string{r.Name, r.URL, strings.Join(r.Colors, "; ")}); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.URL, err)
		}
	}

	w.Flush()
	return w.Error()
}

func (a *Accumulator) writeColors(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"color", "count", "models"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, c := range a.ColorCounts() {
		row := []string{c.Color, fmt.Sprintf("%d", len(c.Models)), strings.Join(c.Models, "; ")}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", c.Color, err)
		}
	}

	w.Flush()
	return w.Error()
}
