package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xu-lang/xubench/internal/models"
)

func snapshotAt(ts time.Time) *models.Snapshot {
	return &models.Snapshot{
		SuiteName:   "demo",
		Scales:      []uint{5000},
		Runs:        3,
		GeneratedAt: ts,
		Results: []models.ScaleResult{{
			Scale: 5000,
			Cases: map[models.CaseID]models.CaseMedians{
				models.CaseDict: {Medians: map[models.RuntimeID]float64{"xu": 10.0}},
			},
		}},
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir())

	snap := snapshotAt(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC))
	path, err := store.Save(snap)
	require.NoError(t, err)
	assert.Equal(t, "bench_20260827T120000.json", filepath.Base(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Stamp(), loaded.Stamp())
	assert.Equal(t, 10.0, loaded.Results[0].Cases[models.CaseDict].Medians["xu"])
}

func TestStore_CompressedRoundtrip(t *testing.T) {
	store := NewStore(t.TempDir(), WithCompression(true))

	snap := snapshotAt(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC))
	path, err := store.Save(snap)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".json.gz"))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Stamp(), loaded.Stamp())
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())

	stamps := []time.Time{
		time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		_, err := store.Save(snapshotAt(ts))
		require.NoError(t, err)
	}

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "bench_bad.tmp"), []byte("x"), 0644))

	paths, err := store.List()
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Contains(t, paths[0], "20260827")
	assert.Contains(t, paths[1], "20260826")
	assert.Contains(t, paths[2], "20260825")
}

func TestStore_ListMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"))
	paths, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestStore_LatestInsufficientHistory(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Save(snapshotAt(time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	_, err = store.Latest(2)
	require.Error(t, err)
	var insufficient *InsufficientHistoryError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 1, insufficient.Have)
	assert.Equal(t, 2, insufficient.Want)
}

func TestLoad_RejectsInvalidSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench_20260827T120000.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"runs": 3}`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
}

func TestLoad_RejectsCorruptJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench_20260827T120000.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
