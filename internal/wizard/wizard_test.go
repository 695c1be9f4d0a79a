package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xu-lang/xubench/internal/models"
	"gopkg.in/yaml.v3"
)

func TestGenerateSuiteYAML_RendersAndLoads(t *testing.T) {
	draft := &SuiteDraft{
		Name:         "xu-bench",
		Description:  "Cross-runtime micro-benchmarks",
		SweepCommand: "scripts/bench_all.sh",
		SweepArgs:    []string{"--quiet"},
		RuntimeIDs:   []string{"xu", "node"},
		TrackedCases: []string{"dict", "string-builder"},
		Scales:       []string{"5000", "10000"},
		Runs:         "10",
	}

	content, err := GenerateSuiteYAML(draft)
	require.NoError(t, err)

	assert.Contains(t, content, "name: xu-bench")
	assert.Contains(t, content, "command: scripts/bench_all.sh")
	assert.Contains(t, content, "- --quiet")
	assert.Contains(t, content, `label: "xu:"`)
	assert.Contains(t, content, `label: "node:"`)
	assert.Contains(t, content, "scales: [5000, 10000]")
	assert.Contains(t, content, "runs: 10")

	// The rendered file must round-trip through the real loader.
	var suite models.Suite
	require.NoError(t, yaml.Unmarshal([]byte(content), &suite))
	require.NoError(t, suite.Validate())
	assert.Equal(t, "xu-bench", suite.Name)
	require.Len(t, suite.Runtimes, 2)
	assert.Equal(t, models.RuntimeID("xu"), suite.Runtimes[0].ID)
	assert.Equal(t, "xu:", suite.Runtimes[0].Label)
	assert.Equal(t, []models.CaseID{"dict", "string-builder"}, suite.TrackedCases)
}

func TestGenerateSuiteYAML_NoDescription(t *testing.T) {
	draft := &SuiteDraft{
		Name:         "min",
		SweepCommand: "run.sh",
		RuntimeIDs:   []string{"xu"},
		TrackedCases: []string{"dict"},
		Scales:       []string{"100"},
		Runs:         "3",
	}

	content, err := GenerateSuiteYAML(draft)
	require.NoError(t, err)
	assert.NotContains(t, content, "description:")
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,"))
	assert.Nil(t, splitAndTrim(""))
	assert.Nil(t, splitAndTrim(" , ,"))
}
