package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Command describes an external entry point: the command, its arguments,
// and any extra environment to layer over the inherited one.
type Command struct {
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// IsZero reports whether the command was left unset in the suite file.
func (c Command) IsZero() bool {
	return c.Command == ""
}

// RuntimeSpec configures one runtime participating in the sweep. Label is
// the exact section-marker line the sweep prints before that runtime's
// records. Fallback, when set, is the runtime's own benchmark entry point,
// re-invoked directly when the sweep's section parses empty.
type RuntimeSpec struct {
	ID       RuntimeID `yaml:"id" json:"id"`
	Label    string    `yaml:"label" json:"label"`
	Version  *Command  `yaml:"version,omitempty" json:"version,omitempty"`
	Fallback *Command  `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// ProbeSpec configures one single-shot CLI probe. The command must end its
// output with exactly one `lang=... iters=... total_ns=... per_ns=...`
// line.
type ProbeSpec struct {
	ID      RuntimeID `yaml:"id" json:"id"`
	Command string    `yaml:"command" json:"command"`
	Args    []string  `yaml:"args,omitempty" json:"args,omitempty"`
}

// Suite is the benchmark suite specification loaded from YAML. It names
// the sweep entry point, the closed set of runtimes, and the defaults for
// scales, repetitions, and gate-tracked cases.
type Suite struct {
	Name         string        `yaml:"name" json:"name"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	Sweep        Command       `yaml:"sweep" json:"sweep"`
	Runtimes     []RuntimeSpec `yaml:"runtimes" json:"runtimes"`
	Probes       []ProbeSpec   `yaml:"probes,omitempty" json:"probes,omitempty"`
	TrackedCases []CaseID      `yaml:"tracked_cases,omitempty" json:"tracked_cases,omitempty"`
	Scales       []uint        `yaml:"scales,omitempty" json:"scales,omitempty"`
	Runs         int           `yaml:"runs,omitempty" json:"runs,omitempty"`
}

// LoadSuite loads and validates a suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing suite file: %w", err)
	}

	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite %s: %w", path, err)
	}
	suite.ApplyDefaults()
	return &suite, nil
}

// Validate checks structural requirements that the schema alone cannot
// express cheaply at call sites.
func (s *Suite) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("suite name is required")
	}
	if s.Sweep.IsZero() {
		return fmt.Errorf("sweep command is required")
	}
	if len(s.Runtimes) == 0 {
		return fmt.Errorf("at least one runtime is required")
	}
	seen := make(map[RuntimeID]bool)
	for i, rt := range s.Runtimes {
		if rt.ID == "" {
			return fmt.Errorf("runtimes[%d]: id is required", i)
		}
		if rt.Label == "" {
			return fmt.Errorf("runtime %s: section label is required", rt.ID)
		}
		if seen[rt.ID] {
			return fmt.Errorf("duplicate runtime id %s", rt.ID)
		}
		seen[rt.ID] = true
	}
	for i, p := range s.Probes {
		if p.Command == "" {
			return fmt.Errorf("probes[%d]: command is required", i)
		}
	}
	return nil
}

// ApplyDefaults fills unset optional fields.
func (s *Suite) ApplyDefaults() {
	if len(s.Scales) == 0 {
		s.Scales = []uint{5000, 10000}
	}
	if s.Runs <= 0 {
		s.Runs = 10
	}
	if len(s.TrackedCases) == 0 {
		s.TrackedCases = append([]CaseID(nil), DefaultTrackedCases...)
	}
}

// RuntimeOrder returns runtime IDs in suite-enumeration order. Winner
// tie-breaking and report columns follow this order.
func (s *Suite) RuntimeOrder() []RuntimeID {
	ids := make([]RuntimeID, 0, len(s.Runtimes))
	for _, rt := range s.Runtimes {
		ids = append(ids, rt.ID)
	}
	return ids
}

// SectionLabels maps each section-marker line to its runtime ID.
func (s *Suite) SectionLabels() map[string]RuntimeID {
	labels := make(map[string]RuntimeID, len(s.Runtimes))
	for _, rt := range s.Runtimes {
		labels[rt.Label] = rt.ID
	}
	return labels
}
