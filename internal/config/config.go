// Package config carries the pipeline configuration: environment-driven
// guard knobs read once at process start, plus per-command settings
// applied through functional options.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/xu-lang/xubench/internal/models"
)

// Environment knobs and their defaults.
const (
	EnvMaxMemoryMB     = "XUBENCH_MAX_MEMORY_MB"
	EnvRunTimeoutSec   = "XUBENCH_RUN_TIMEOUT_SEC"
	EnvTotalTimeoutSec = "XUBENCH_TOTAL_TIMEOUT_SEC"
	EnvWarmupRuns      = "XUBENCH_WARMUP_RUNS"
	EnvRuns            = "XUBENCH_RUNS"

	DefaultMaxMemoryMB  = 2048
	DefaultRunTimeout   = 600 * time.Second
	DefaultTotalTimeout = 1800 * time.Second
	DefaultWarmupRuns = 0
)

// Knobs are the environment-driven guard settings. Runs stays 0 when the
// environment never set it, so the suite's own repetition count is not
// silently overridden by a default.
type Knobs struct {
	MaxMemoryMB  int
	RunTimeout   time.Duration
	TotalTimeout time.Duration
	WarmupRuns   int
	Runs         int
}

// FromEnv reads the guard knobs once. Unset or unparseable variables fall
// back to their documented defaults; a bad value is logged, not fatal.
func FromEnv() Knobs {
	return Knobs{
		MaxMemoryMB:  envInt(EnvMaxMemoryMB, DefaultMaxMemoryMB),
		RunTimeout:   time.Duration(envInt(EnvRunTimeoutSec, int(DefaultRunTimeout/time.Second))) * time.Second,
		TotalTimeout: time.Duration(envInt(EnvTotalTimeoutSec, int(DefaultTotalTimeout/time.Second))) * time.Second,
		WarmupRuns:   envInt(EnvWarmupRuns, DefaultWarmupRuns),
		Runs:         envInt(EnvRuns, 0),
	}
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		slog.Warn("ignoring invalid environment value", "var", name, "value", raw)
		return fallback
	}
	return v
}

// PipelineConfig binds a suite to the settings for one pipeline run.
type PipelineConfig struct {
	suite       *models.Suite
	knobs       Knobs
	scales      []uint
	runs        int
	verbose     bool
	memoryGuard bool
	workDir     string
}

// Option configures a PipelineConfig.
type Option func(*PipelineConfig)

// WithScales overrides the suite's scale list.
func WithScales(scales []uint) Option {
	return func(c *PipelineConfig) {
		if len(scales) > 0 {
			c.scales = scales
		}
	}
}

// WithRuns overrides the measured repetition count.
func WithRuns(runs int) Option {
	return func(c *PipelineConfig) {
		if runs > 0 {
			c.runs = runs
		}
	}
}

// WithVerbose enables detailed progress output.
func WithVerbose(verbose bool) Option {
	return func(c *PipelineConfig) {
		c.verbose = verbose
	}
}

// WithMemoryGuard toggles the RLIMIT_AS ceiling installation.
func WithMemoryGuard(enabled bool) Option {
	return func(c *PipelineConfig) {
		c.memoryGuard = enabled
	}
}

// WithWorkDir sets the working directory for benchmark invocations.
func WithWorkDir(dir string) Option {
	return func(c *PipelineConfig) {
		c.workDir = dir
	}
}

// New builds a PipelineConfig from a suite, the process knobs, and
// options. Precedence for repetitions and scales: option > env knob >
// suite default.
func New(suite *models.Suite, knobs Knobs, opts ...Option) *PipelineConfig {
	c := &PipelineConfig{
		suite:       suite,
		knobs:       knobs,
		scales:      suite.Scales,
		runs:        suite.Runs,
		memoryGuard: true,
	}
	if knobs.Runs > 0 {
		c.runs = knobs.Runs
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Suite returns the suite under benchmark.
func (c *PipelineConfig) Suite() *models.Suite { return c.suite }

// Scales returns the requested input scales.
func (c *PipelineConfig) Scales() []uint { return c.scales }

// Runs returns the measured repetition count per scale.
func (c *PipelineConfig) Runs() int { return c.runs }

// WarmupRuns returns the discarded repetition count per scale.
func (c *PipelineConfig) WarmupRuns() int { return c.knobs.WarmupRuns }

// RunTimeout returns the per-invocation wall-clock bound.
func (c *PipelineConfig) RunTimeout() time.Duration { return c.knobs.RunTimeout }

// TotalTimeout returns the whole-pipeline deadline.
func (c *PipelineConfig) TotalTimeout() time.Duration { return c.knobs.TotalTimeout }

// MaxMemoryMB returns the address-space ceiling in megabytes.
func (c *PipelineConfig) MaxMemoryMB() int { return c.knobs.MaxMemoryMB }

// MemoryGuard reports whether the ceiling should be installed.
func (c *PipelineConfig) MemoryGuard() bool { return c.memoryGuard }

// Verbose reports whether detailed progress output is enabled.
func (c *PipelineConfig) Verbose() bool { return c.verbose }

// WorkDir returns the working directory for invocations ("" = inherit).
func (c *PipelineConfig) WorkDir() string { return c.workDir }
