package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSuiteBytes_Valid(t *testing.T) {
	suite := []byte(`
name: demo
sweep:
  command: run.sh
runtimes:
  - id: xu
    label: "xu:"
`)
	assert.Empty(t, ValidateSuiteBytes(suite))
}

func TestValidateSuiteBytes_Problems(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "sweep: {command: run.sh}\nruntimes: [{id: xu, label: 'xu:'}]"},
		{"missing sweep command", "name: demo\nsweep: {}\nruntimes: [{id: xu, label: 'xu:'}]"},
		{"empty runtimes", "name: demo\nsweep: {command: run.sh}\nruntimes: []"},
		{"runtime without label", "name: demo\nsweep: {command: run.sh}\nruntimes: [{id: xu}]"},
		{"non-integer scale", "name: demo\nsweep: {command: run.sh}\nruntimes: [{id: xu, label: 'xu:'}]\nscales: [fast]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateSuiteBytes([]byte(tt.yaml))
			assert.NotEmpty(t, errs)
		})
	}
}

func TestValidateSuiteBytes_YAMLParseError(t *testing.T) {
	errs := ValidateSuiteBytes([]byte("name: [unclosed"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "YAML parse error")
}

func TestValidateSnapshotBytes_Valid(t *testing.T) {
	snap := []byte(`{
		"suite": "demo",
		"scales": [5000],
		"runs": 3,
		"generated_at": "2026-08-27T12:00:00Z",
		"results": [
			{"scale": 5000, "cases": {"dict": {"medians": {"xu": 10.5}}}}
		]
	}`)
	assert.Empty(t, ValidateSnapshotBytes(snap))
}

func TestValidateSnapshotBytes_UnknownCasesAndRuntimesAllowed(t *testing.T) {
	// Snapshots written by other configurations stay loadable.
	snap := []byte(`{
		"scales": [1],
		"runs": 1,
		"generated_at": "2026-08-27T12:00:00Z",
		"results": [
			{"scale": 1, "cases": {"future-case": {"medians": {"future-runtime": 1.0}}}}
		]
	}`)
	assert.Empty(t, ValidateSnapshotBytes(snap))
}

func TestValidateSnapshotBytes_Problems(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"missing results", `{"scales": [1], "runs": 1, "generated_at": "x"}`},
		{"case without medians", `{"scales": [1], "runs": 1, "generated_at": "x", "results": [{"scale": 1, "cases": {"dict": {}}}]}`},
		{"non-numeric median", `{"scales": [1], "runs": 1, "generated_at": "x", "results": [{"scale": 1, "cases": {"dict": {"medians": {"xu": "slow"}}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, ValidateSnapshotBytes([]byte(tt.json)))
		})
	}
}

func TestValidateSnapshotBytes_JSONParseError(t *testing.T) {
	errs := ValidateSnapshotBytes([]byte("{"))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "JSON parse error")
}
