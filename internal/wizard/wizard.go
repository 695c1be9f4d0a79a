// Package wizard scaffolds a new suite file interactively.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"github.com/xu-lang/xubench/internal/models"
	"golang.org/x/term"
)

// SuiteDraft holds the fields collected during the interactive wizard.
// Runtime IDs double as section labels in the form "<id>:"; suites with
// different marker conventions are edited by hand afterwards.
type SuiteDraft struct {
	Name         string
	Description  string
	SweepCommand string
	SweepArgs    []string
	RuntimeIDs   []string
	TrackedCases []string
	Scales       []string
	Runs         string
}

const suiteYAMLTemplate = `name: {{ .Name }}
{{- if .Description }}
description: {{ .Description }}
{{- end }}

sweep:
  command: {{ .SweepCommand }}
{{- if .SweepArgs }}
  args:
{{- range .SweepArgs }}
    - {{ . }}
{{- end }}
{{- end }}

runtimes:
{{- range .RuntimeIDs }}
  - id: {{ . }}
    label: "{{ . }}:"
{{- end }}

tracked_cases:
{{- range .TrackedCases }}
  - {{ . }}
{{- end }}

scales: [{{ join .Scales ", " }}]
runs: {{ .Runs }}
`

// RunSuiteWizard runs an interactive huh form to collect the suite
// skeleton. If initialName is non-empty, it pre-populates the name field.
func RunSuiteWizard(in io.Reader, out io.Writer, initialName string) (*SuiteDraft, error) {
	var (
		name        = initialName
		description string
		sweepRaw    string
		runtimesRaw string
		trackedRaw  = joinCases(models.DefaultTrackedCases)
		scalesRaw   = "5000, 10000"
		runsRaw     = "10"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Suite name").
				Placeholder("xu-bench").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("suite name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Placeholder("Cross-runtime micro-benchmarks").
				Value(&description),
			huh.NewInput().
				Title("Sweep command").
				Description("Entry point that runs every runtime and prints sectioned records; the scale is appended as the last argument").
				Placeholder("scripts/bench_all.sh").
				Value(&sweepRaw).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("sweep command is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Runtime IDs").
				Description("Comma-separated, in display order; each section marker becomes \"<id>:\"").
				Placeholder("xu, node").
				Value(&runtimesRaw).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) == 0 {
						return fmt.Errorf("at least one runtime is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Tracked cases").
				Description("Comma-separated case IDs the regression gate watches").
				Value(&trackedRaw),
			huh.NewInput().
				Title("Scales").
				Description("Comma-separated input sizes").
				Value(&scalesRaw),
			huh.NewInput().
				Title("Runs per scale").
				Value(&runsRaw),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	sweepParts := strings.Fields(strings.TrimSpace(sweepRaw))
	draft := &SuiteDraft{
		Name:         strings.TrimSpace(name),
		Description:  strings.TrimSpace(description),
		SweepCommand: sweepParts[0],
		SweepArgs:    sweepParts[1:],
		RuntimeIDs:   splitAndTrim(runtimesRaw),
		TrackedCases: splitAndTrim(trackedRaw),
		Scales:       splitAndTrim(scalesRaw),
		Runs:         strings.TrimSpace(runsRaw),
	}
	return draft, nil
}

// GenerateSuiteYAML renders the suite file from the draft.
func GenerateSuiteYAML(draft *SuiteDraft) (string, error) {
	tmpl, err := template.New("suite").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(suiteYAMLTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, draft); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

func joinCases(cases []models.CaseID) string {
	parts := make([]string, len(cases))
	for i, c := range cases {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
