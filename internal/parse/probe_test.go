package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xu-lang/xubench/internal/models"
)

func TestProbe_ParsesLastNonBlankLine(t *testing.T) {
	output := `starting up
lang=node iters=200000 total_ns=4200000 per_ns=21

`

	sample, err := Probe(output)
	require.NoError(t, err)
	assert.Equal(t, models.RuntimeID("node"), sample.Lang)
	assert.Equal(t, uint64(200000), sample.Iters)
	assert.Equal(t, uint64(4200000), sample.TotalNs)
	assert.Equal(t, uint64(21), sample.PerNs)
}

func TestProbe_MalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"empty", ""},
		{"wrong last line", "lang=node iters=1 total_ns=2 per_ns=3\nall done"},
		{"missing field", "lang=node iters=200000 total_ns=4200000"},
		{"negative value", "lang=node iters=-1 total_ns=2 per_ns=3"},
		{"trailing garbage", "lang=node iters=1 total_ns=2 per_ns=3 extra=4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Probe(tt.output)
			require.Error(t, err)
			var malformed *MalformedOutputError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.output, malformed.Output)
		})
	}
}

func TestProbe_AcceptsHyphenatedLang(t *testing.T) {
	sample, err := Probe("lang=xu-jit iters=10 total_ns=100 per_ns=10")
	require.NoError(t, err)
	assert.Equal(t, models.RuntimeID("xu-jit"), sample.Lang)
}
