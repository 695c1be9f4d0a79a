package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xu-lang/xubench/internal/history"
	"github.com/xu-lang/xubench/internal/models"
)

func saveSnapshot(t *testing.T, dir string, ts time.Time, median float64) {
	t.Helper()
	store := history.NewStore(dir)
	_, err := store.Save(&models.Snapshot{
		Scales:      []uint{5000},
		Runs:        3,
		GeneratedAt: ts,
		Results: []models.ScaleResult{{
			Scale: 5000,
			Cases: map[models.CaseID]models.CaseMedians{
				models.CaseDict: {Medians: map[models.RuntimeID]float64{"xu": median}},
			},
		}},
	})
	require.NoError(t, err)
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCommand()
	cmd.SilenceErrors = true
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestGateCommand_SkipsOnFreshHistory(t *testing.T) {
	dir := t.TempDir()
	err := runCommand(t, "gate", "--history", dir)
	assert.NoError(t, err, "an empty history is a skip, not a failure")
}

func TestGateCommand_PassesWithoutRegression(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	saveSnapshot(t, dir, base, 100.0)
	saveSnapshot(t, dir, base.Add(24*time.Hour), 101.0)

	err := runCommand(t, "gate", "--history", dir)
	assert.NoError(t, err)
}

func TestGateCommand_FailsOnRegression(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	saveSnapshot(t, dir, base, 100.0)
	saveSnapshot(t, dir, base.Add(24*time.Hour), 150.0)

	err := runCommand(t, "gate", "--history", dir)
	require.Error(t, err)

	var gateErr *GateFailureError
	require.ErrorAs(t, err, &gateErr, "regressions must map to the dedicated exit code")
}

func TestGateCommand_ThresholdFlag(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	saveSnapshot(t, dir, base, 100.0)
	saveSnapshot(t, dir, base.Add(24*time.Hour), 150.0)

	err := runCommand(t, "gate", "--history", dir, "--threshold", "60")
	assert.NoError(t, err)
}

func TestGateCommand_ZeroThresholdFailsSmallRegression(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	saveSnapshot(t, dir, base, 100.0)
	saveSnapshot(t, dir, base.Add(24*time.Hour), 105.0)

	err := runCommand(t, "gate", "--history", dir, "--threshold", "0")
	require.Error(t, err, "zero tolerance means any slowdown fails")

	var gateErr *GateFailureError
	require.ErrorAs(t, err, &gateErr)
}

func TestGateCommand_CaseFlagOverridesTracked(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	saveSnapshot(t, dir, base, 100.0)
	saveSnapshot(t, dir, base.Add(24*time.Hour), 150.0)

	// The regressed case is dict; watching only loop must pass.
	err := runCommand(t, "gate", "--history", dir, "--case", "loop")
	assert.NoError(t, err)
}
