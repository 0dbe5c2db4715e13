package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bgricker/qualgate/internal/config"
	"github.com/bgricker/qualgate/internal/interpret"
	"github.com/bgricker/qualgate/internal/suite"
	"github.com/bgricker/qualgate/internal/toolcheck"
)

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	return cfg, root, nil
}

// buildSuite resolves the canonical preset plus any configured extra steps
// into the ordered definition list for one run.
func buildSuite(root string, cfg config.Config) ([]suite.Definition, error) {
	reportFile := resolvePath(root, cfg.ReportFile)
	coverageFile := resolvePath(root, cfg.CoverageFile)
	coverageDir := resolvePath(root, cfg.CoverageDir)

	defs := suite.Preset(suite.PresetConfig{
		LintCommand:      cfg.LintCommand,
		TypecheckCommand: cfg.TypecheckCommand,
		TestCommand:      cfg.TestCommand,
		CoverageCommand:  cfg.CoverageCommand,
		ReportFile:       reportFile,
		CoverageFile:     coverageFile,
		CoverageDir:      coverageDir,
	})

	for _, sc := range cfg.Steps {
		if sc.Name == "" || sc.Command == "" {
			return nil, fmt.Errorf("custom steps require both name and command")
		}
		def := suite.Definition{Name: sc.Name, Command: sc.Command}
		switch sc.Interpreter {
		case "", config.InterpreterNone:
		case config.InterpreterUnitTests:
			def.Interpret = interpret.UnitTests(reportFile)
		case config.InterpreterCoverage:
			def.Interpret = interpret.Coverage(coverageFile, coverageDir)
		default:
			return nil, fmt.Errorf("unknown interpreter %q for step %q", sc.Interpreter, sc.Name)
		}
		defs = append(defs, def)
	}

	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if _, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("duplicate step name %q", def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	return defs, nil
}

func applyFilters(defs []suite.Definition, cfg config.Config) ([]suite.Definition, error) {
	only, err := suite.Compile(cfg.OnlySteps)
	if err != nil {
		return nil, err
	}
	skip, err := suite.Compile(cfg.SkipSteps)
	if err != nil {
		return nil, err
	}
	return suite.Filter(defs, only, skip), nil
}

func toolWarnings(root string, cfg config.Config, defs []suite.Definition) []string {
	if !cfg.Warn.MissingTools {
		return nil
	}
	commands := make([]string, 0, len(defs))
	for _, def := range defs {
		commands = append(commands, def.Command)
	}
	warnings := toolcheck.Check(root, commands)
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
