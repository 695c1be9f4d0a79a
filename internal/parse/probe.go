package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xu-lang/xubench/internal/models"
)

// probeLineRE matches the single-shot probe contract. Probes are used for
// precise cross-runtime per-op comparison, so unlike sweep parsing this
// format is strict: only the last non-blank line is read and a mismatch
// is a hard failure.
var probeLineRE = regexp.MustCompile(
	`^lang=([a-zA-Z0-9_+-]+)\s+iters=(\d+)\s+total_ns=(\d+)\s+per_ns=(\d+)\s*$`,
)

// MalformedOutputError reports a probe whose final line violated the
// single-line contract. It is one of the pipeline's two hard failures.
type MalformedOutputError struct {
	LastLine string
	Output   string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("unexpected probe output, last line=%q", e.LastLine)
}

// Probe parses a single-shot probe's stdout. It reads only the last
// non-blank line and returns *MalformedOutputError when that line does
// not match the contract.
func Probe(output string) (models.ProbeSample, error) {
	last := ""
	for _, raw := range strings.Split(output, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			last = line
		}
	}

	m := probeLineRE.FindStringSubmatch(last)
	if m == nil {
		return models.ProbeSample{}, &MalformedOutputError{LastLine: last, Output: output}
	}

	iters, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return models.ProbeSample{}, &MalformedOutputError{LastLine: last, Output: output}
	}
	totalNs, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return models.ProbeSample{}, &MalformedOutputError{LastLine: last, Output: output}
	}
	perNs, err := strconv.ParseUint(m[4], 10, 64)
	if err != nil {
		return models.ProbeSample{}, &MalformedOutputError{LastLine: last, Output: output}
	}

	return models.ProbeSample{
		Lang:    models.RuntimeID(m[1]),
		Iters:   iters,
		TotalNs: totalNs,
		PerNs:   perNs,
	}, nil
}
