package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorCountsOrdering(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(Record{Name: "Model A", URL: "u/a", Colors: []string{"Matte Ash Gray", "Silk Bronze", "Matte Army Red"}})
	acc.Add(Record{Name: "Model B", URL: "u/b", Colors: []string{"Matte Ash Gray", "Silk Bronze", "Matte Charcoal Black"}})
	acc.Add(Record{Name: "Model C", URL: "u/c", Colors: []string{"Matte Ash Gray", "Silk Bronze"}})
	acc.Add(Record{Name: "Model D", URL: "u/d", Colors: []string{"matte zinc"}})

	counts := acc.ColorCounts()
	require.Len(t, counts, 5)

	// count 3 ties sort alphabetically, ahead of everything rarer
	assert.Equal(t, "Matte Ash Gray", counts[0].Color)
	assert.Equal(t, "Silk Bronze", counts[1].Color)
	assert.Len(t, counts[0].Models, 3)
	assert.Len(t, counts[1].Models, 3)

	// count 1 ties sort case-insensitively
	assert.Equal(t, "Matte Army Red", counts[2].Color)
	assert.Equal(t, "Matte Charcoal Black", counts[3].Color)
	assert.Equal(t, "matte zinc", counts[4].Color)
}

func TestColorIndexPreservesVisitingOrder(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(Record{Name: "First", URL: "u/1", Colors: []string{"Matte Ash Gray"}})
	acc.Add(Record{Name: "Second", URL: "u/2", Colors: []string{"Matte Ash Gray"}})

	counts := acc.ColorCounts()
	require.Len(t, counts, 1)
	assert.Equal(t, []string{"First", "Second"}, counts[0].Models)
}

func TestWriteReportsEmptyRun(t *testing.T) {
	dir := t.TempDir()

	acc := NewAccumulator()
	require.NoError(t, acc.WriteReports(dir))

	models := readCSV(t, filepath.Join(dir, ModelsFile))
	assert.Equal(t, [][]string{{"model_name", "model_url", "colors"}}, models)

	colors := readCSV(t, filepath.Join(dir, ColorsFile))
	assert.Equal(t, [][]string{{"color", "count", "models"}}, colors)
}

func TestWriteReportsTruncatesPreviousRun(t *testing.T) {
	dir := t.TempDir()

	acc := NewAccumulator()
	acc.Add(Record{Name: "Old", URL: "u/old", Colors: []string{"Matte Ash Gray"}})
	require.NoError(t, acc.WriteReports(dir))

	fresh := NewAccumulator()
	require.NoError(t, fresh.WriteReports(dir))

	models := readCSV(t, filepath.Join(dir, ModelsFile))
	assert.Len(t, models, 1, "stale rows must not survive a rewrite")
}

func TestWriteReportsJoinsColors(t *testing.T) {
	dir := t.TempDir()

	acc := NewAccumulator()
	acc.Add(Record{
		Name:   "Batmobile",
		URL:    "https://thangs.com/x/3d-model/bat-1",
		Colors: []string{"Matte Ash Gray", "Matte Charcoal Black"},
	})
	require.NoError(t, acc.WriteReports(dir))

	models := readCSV(t, filepath.Join(dir, ModelsFile))
	require.Len(t, models, 2)
	assert.Equal(t, "Matte Ash Gray; Matte Charcoal Black", models[1][2])

	colors := readCSV(t, filepath.Join(dir, ColorsFile))
	require.Len(t, colors, 3)
	assert.Equal(t, []string{"Matte Ash Gray", "1", "Batmobile"}, colors[1])
}

func TestTopColors(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(Record{Name: "A", URL: "u/a", Colors: []string{"Matte Ash Gray", "Silk Bronze"}})
	acc.Add(Record{Name: "B", URL: "u/b", Colors: []string{"Matte Ash Gray"}})

	top := acc.TopColors(1)
	require.Len(t, top, 1)
	assert.Equal(t, "Matte Ash Gray", top[0].Color)
}

func TestEnsureViewer(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, EnsureViewer(dir))

	path := filepath.Join(dir, ViewerFile)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "model_name")

	// a customized copy survives re-runs
	require.NoError(t, os.WriteFile(path, []byte("customized"), 0o644))
	require.NoError(t, EnsureViewer(dir))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "customized", string(data))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}
