package suite

import "github.com/bgricker/qualgate/internal/interpret"

// Canonical preset step names. Metric lifting matches on these, so renames
// should keep the "unit test" / "coverage" stems.
const (
	StepLint      = "Lint"
	StepTypecheck = "Typecheck"
	StepUnitTests = "Unit Tests"
	StepCoverage  = "Coverage"
)

// PresetConfig supplies the tool commands and artifact paths the canonical
// suite uses. Lint and typecheck are thin exit-status-only steps and are
// included only when a command is configured.
type PresetConfig struct {
	LintCommand      string
	TypecheckCommand string
	TestCommand      string
	CoverageCommand  string

	ReportFile   string
	CoverageFile string
	CoverageDir  string
}

// Preset assembles the canonical quality-gate step list: lint and typecheck
// when configured, then unit tests, then coverage.
func Preset(cfg PresetConfig) []Definition {
	defs := make([]Definition, 0, 4)
	if cfg.LintCommand != "" {
		defs = append(defs, Definition{Name: StepLint, Command: cfg.LintCommand})
	}
	if cfg.TypecheckCommand != "" {
		defs = append(defs, Definition{Name: StepTypecheck, Command: cfg.TypecheckCommand})
	}
	defs = append(defs,
		Definition{
			Name:      StepUnitTests,
			Command:   cfg.TestCommand,
			Interpret: interpret.UnitTests(cfg.ReportFile),
		},
		Definition{
			Name:      StepCoverage,
			Command:   cfg.CoverageCommand,
			Interpret: interpret.Coverage(cfg.CoverageFile, cfg.CoverageDir),
		},
	)
	return defs
}
