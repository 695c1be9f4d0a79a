// Package parse turns raw benchmark stdout into normalized samples.
//
// Sweep output is a sequence of lines grouped by section markers: a line
// that exactly equals a runtime's label switches the current runtime;
// data lines until the next marker belong to it. A data line is either a
// self-describing JSON record, or in the terse single-number format a
// bare number following a bare case tag. Anything else (diagnostics,
// blank lines, malformed records) is skipped, and that tolerance is
// deliberate: benchmark programs interleave progress noise with data.
package parse

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xu-lang/xubench/internal/models"
)

// bareNumberRE matches the terse single-number data lines some benchmark
// programs emit instead of JSON records.
var bareNumberRE = regexp.MustCompile(`^[0-9]+(?:\.[0-9]+)?$`)

// record is the self-describing per-case line a benchmark emits.
type record struct {
	Case       string  `mapstructure:"case"`
	Scale      uint    `mapstructure:"scale"`
	DurationMs float64 `mapstructure:"duration_ms"`
	RSSBytes   float64 `mapstructure:"rss_bytes"`
	hasRSS     bool
}

// lineKind classifies one line of sweep output.
type lineKind int

const (
	lineIgnorable lineKind = iota
	lineSectionMarker
	lineDataRecord
	lineCaseTag
	lineBareNumber
)

// classify decides what a line is relative to the configured section
// labels. Data records are identified by the leading brace only; decode
// failures downgrade them to ignorable. A line that exactly matches a
// known case ID is a tag for the terse single-number format, where a
// bare numeric line carries the duration for the most recent tag.
func classify(line string, sections map[string]models.RuntimeID) lineKind {
	if line == "" {
		return lineIgnorable
	}
	if _, ok := sections[line]; ok {
		return lineSectionMarker
	}
	if strings.HasPrefix(line, "{") {
		return lineDataRecord
	}
	if models.CaseID(line).Known() {
		return lineCaseTag
	}
	if bareNumberRE.MatchString(line) {
		return lineBareNumber
	}
	return lineIgnorable
}

// decodeRecord tolerantly decodes one JSON data line. Unknown fields are
// ignored and numeric fields may arrive as strings; both happen in
// practice as benchmark programs evolve ahead of the harness.
func decodeRecord(line string) (record, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return record{}, false
	}

	var rec record
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &rec,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return record{}, false
	}
	if err := dec.Decode(raw); err != nil {
		slog.Debug("skipping undecodable record", "line", line, "error", err)
		return record{}, false
	}
	if rec.Case == "" {
		return record{}, false
	}
	_, rec.hasRSS = raw["rss_bytes"]
	return rec, true
}

// Sweep parses one sweep invocation's stdout into one sample per
// (runtime, case) pair. sections maps exact marker lines to runtime IDs.
// Parsing is total: unexpected input is skipped, never an error. A
// runtime absent from the result (or present with zero cases) signals the
// caller to take the fallback re-invocation path.
func Sweep(output string, scale uint, sections map[string]models.RuntimeID) map[models.RuntimeID]map[models.CaseID]models.Sample {
	out := make(map[models.RuntimeID]map[models.CaseID]models.Sample)

	var current models.RuntimeID
	var pendingCase models.CaseID
	inSection := false

	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch classify(line, sections) {
		case lineSectionMarker:
			current = sections[line]
			pendingCase = ""
			inSection = true
		case lineCaseTag:
			if inSection {
				pendingCase = models.CaseID(line)
			}
		case lineBareNumber:
			// Terse format: the number belongs to the case tag emitted
			// earlier in the buffer. The last number before the next tag
			// wins, matching the last-record-wins rule for JSON lines.
			if !inSection || pendingCase == "" {
				continue
			}
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				continue
			}
			if out[current] == nil {
				out[current] = make(map[models.CaseID]models.Sample)
			}
			out[current][pendingCase] = models.Sample{
				Runtime:    current,
				Case:       pendingCase,
				Scale:      scale,
				DurationMs: v,
				MemoryMB:   math.NaN(),
			}
		case lineDataRecord:
			if !inSection {
				continue
			}
			rec, ok := decodeRecord(line)
			if !ok {
				continue
			}
			sample := models.Sample{
				Runtime:    current,
				Case:       models.CaseID(rec.Case),
				Scale:      scale,
				DurationMs: rec.DurationMs,
				MemoryMB:   math.NaN(),
			}
			if rec.hasRSS {
				sample.MemoryMB = rec.RSSBytes / (1024.0 * 1024.0)
			}
			if out[current] == nil {
				out[current] = make(map[models.CaseID]models.Sample)
			}
			out[current][sample.Case] = sample
		}
	}

	return out
}

// Runtime parses a single runtime's direct stdout (the fallback path,
// where no section markers are present) into samples attributed to that
// runtime.
func Runtime(output string, scale uint, runtime models.RuntimeID) map[models.CaseID]models.Sample {
	marker := string(runtime) + ":"
	sections := map[string]models.RuntimeID{marker: runtime}
	// Prepend the marker so every record lands in the runtime's section.
	parsed := Sweep(marker+"\n"+output, scale, sections)
	return parsed[runtime]
}
