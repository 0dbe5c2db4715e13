package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config captures CLI options sourced from config files or flags.
type Config struct {
	TestCommand      string `yaml:"test_command"`
	CoverageCommand  string `yaml:"coverage_command"`
	LintCommand      string `yaml:"lint_command"`
	TypecheckCommand string `yaml:"typecheck_command"`

	ReportFile   string `yaml:"report_file"`
	CoverageFile string `yaml:"coverage_file"`
	CoverageDir  string `yaml:"coverage_dir"`

	Steps []StepConfig `yaml:"steps"`

	OnlySteps []string `yaml:"only_step"`
	SkipSteps []string `yaml:"skip_step"`

	KeepGoing bool   `yaml:"keep_going"`
	Verbose   bool   `yaml:"verbose"`
	Format    string `yaml:"format"`

	StepTimeoutSeconds int               `yaml:"step_timeout_seconds"`
	Env                map[string]string `yaml:"env"`

	Warn WarnConfig `yaml:"warn"`
}

// StepConfig defines an extra named step appended after the canonical preset.
type StepConfig struct {
	Name        string `yaml:"name"`
	Command     string `yaml:"command"`
	Interpreter string `yaml:"interpreter"`
}

// WarnConfig controls preflight warning behaviour.
type WarnConfig struct {
	MissingTools bool `yaml:"missing_tools"`
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"

	// InterpreterNone judges a custom step by exit status alone.
	InterpreterNone = "none"
	// InterpreterUnitTests applies the unit-test output interpreter.
	InterpreterUnitTests = "unit-tests"
	// InterpreterCoverage applies the coverage output interpreter.
	InterpreterCoverage = "coverage"
)

// Default returns the baseline configuration used when no flags or config
// file specify values. Artifact paths follow the conventions of the wrapped
// JS toolchain: the structured test report lands in the system temp
// directory, coverage artifacts under coverage/.
func Default() Config {
	return Config{
		TestCommand:        "npx vitest run",
		CoverageCommand:    "npx vitest run --coverage",
		ReportFile:         filepath.Join(os.TempDir(), "qualgate-test-report.json"),
		CoverageFile:       filepath.Join("coverage", "coverage-final.json"),
		CoverageDir:        "coverage",
		Format:             FormatPretty,
		StepTimeoutSeconds: 600,
		Warn: WarnConfig{
			MissingTools: true,
		},
	}
}

// Load reads .qualgate.yml from the project root when present. Missing files
// are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, ".qualgate.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}

	cfg = merge(cfg, fileCfg)
	return cfg, nil
}

func merge(base, override Config) Config {
	out := base

	if override.TestCommand != "" {
		out.TestCommand = override.TestCommand
	}
	if override.CoverageCommand != "" {
		out.CoverageCommand = override.CoverageCommand
	}
	if override.LintCommand != "" {
		out.LintCommand = override.LintCommand
	}
	if override.TypecheckCommand != "" {
		out.TypecheckCommand = override.TypecheckCommand
	}
	if override.ReportFile != "" {
		out.ReportFile = override.ReportFile
	}
	if override.CoverageFile != "" {
		out.CoverageFile = override.CoverageFile
	}
	if override.CoverageDir != "" {
		out.CoverageDir = override.CoverageDir
	}
	if len(override.Steps) > 0 {
		out.Steps = append([]StepConfig{}, override.Steps...)
	}
	if len(override.OnlySteps) > 0 {
		out.OnlySteps = append([]string{}, override.OnlySteps...)
	}
	if len(override.SkipSteps) > 0 {
		out.SkipSteps = append([]string{}, override.SkipSteps...)
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.StepTimeoutSeconds > 0 {
		out.StepTimeoutSeconds = override.StepTimeoutSeconds
	}
	if len(override.Env) > 0 {
		out.Env = make(map[string]string, len(override.Env))
		for k, v := range override.Env {
			out.Env[k] = v
		}
	}
	if override.KeepGoing {
		out.KeepGoing = true
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.Warn.MissingTools {
		out.Warn.MissingTools = true
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if len(flags.OnlySteps.Values) > 0 {
		cfg.OnlySteps = append([]string{}, flags.OnlySteps.Values...)
	}
	if len(flags.SkipSteps.Values) > 0 {
		cfg.SkipSteps = append([]string{}, flags.SkipSteps.Values...)
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.KeepGoing.Set {
		cfg.KeepGoing = flags.KeepGoing.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was
// set explicitly.
type FlagValues struct {
	OnlySteps SliceFlag
	SkipSteps SliceFlag
	Format    StringFlag
	KeepGoing BoolFlag
	Verbose   BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}
