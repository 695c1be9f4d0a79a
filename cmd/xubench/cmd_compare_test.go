package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xu-lang/xubench/internal/history"
	"github.com/xu-lang/xubench/internal/models"
)

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	store := history.NewStore(dir)

	mk := func(day int, median float64) string {
		path, err := store.Save(&models.Snapshot{
			Scales:      []uint{5000},
			Runs:        3,
			GeneratedAt: time.Date(2026, 8, day, 12, 0, 0, 0, time.UTC),
			Results: []models.ScaleResult{{
				Scale: 5000,
				Cases: map[models.CaseID]models.CaseMedians{
					models.CaseDict: {Medians: map[models.RuntimeID]float64{"xu": median}},
				},
			}},
		})
		require.NoError(t, err)
		return path
	}

	oldPath := mk(26, 100.0)
	newPath := mk(27, 250.0)
	outPath := filepath.Join(t.TempDir(), "diff.md")

	// Even a large regression exits 0: compare is informational only.
	err := runCommand(t, "compare", oldPath, newPath, "--out", outPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "+150.0")
}

func TestCompareCommand_MissingFile(t *testing.T) {
	err := runCommand(t, "compare", "no-such-a.json", "no-such-b.json")
	assert.Error(t, err)
}

func TestCompareCommand_RequiresTwoArgs(t *testing.T) {
	err := runCommand(t, "compare", "only-one.json")
	assert.Error(t, err)
}
