package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bgricker/qualgate/internal/config"
	"github.com/bgricker/qualgate/internal/executor"
	"github.com/bgricker/qualgate/internal/output"
	"github.com/bgricker/qualgate/internal/suite"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the quality-gate suite",
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	defs, err := buildSuite(root, cfg)
	if err != nil {
		return err
	}

	filtered, err := applyFilters(defs, cfg)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching steps")
		return nil
	}

	warnings := toolWarnings(root, cfg, filtered)

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runner := suite.New(suite.Options{
		Dir:           root,
		Env:           executor.MergeEnv(os.Environ(), cfg.Env),
		StepTimeout:   time.Duration(cfg.StepTimeoutSeconds) * time.Second,
		Verbose:       cfg.Verbose,
		StopOnFailure: !cfg.KeepGoing,
		Stdout:        cmd.OutOrStdout(),
		Stderr:        cmd.ErrOrStderr(),
		Logger:        logger,
	})
	summary := runner.RunSuite(cmd.Context(), filtered)

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		renderer := output.NewPretty(cmd.OutOrStdout())
		if err := renderer.RenderSummary(summary); err != nil {
			return err
		}
		for _, msg := range warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
	case config.FormatJSON:
		renderer := output.NewJSON(cmd.OutOrStdout())
		if err := renderer.Render(output.Report{Summary: &summary, Warnings: warnings}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}

	if !summary.Success {
		return fmt.Errorf("one or more steps failed")
	}
	return nil
}
