package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgricker/qualgate/internal/config"
	"github.com/bgricker/qualgate/internal/output"
	"github.com/bgricker/qualgate/internal/suite"
)

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List resolved suite steps without running them",
		RunE:  runSteps,
	}
}

func runSteps(cmd *cobra.Command, args []string) error {
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

	infos := stepInfos(filtered)

	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		renderer := output.NewPretty(cmd.OutOrStdout())
		return renderer.RenderSteps(infos)
	case config.FormatJSON:
		renderer := output.NewJSON(cmd.OutOrStdout())
		return renderer.Render(output.Report{Steps: infos})
	default:
		return fmt.Errorf("unsupported format %q", cfg.Format)
	}
}

func stepInfos(defs []suite.Definition) []output.StepInfo {
	infos := make([]output.StepInfo, 0, len(defs))
	for _, def := range defs {
		infos = append(infos, output.StepInfo{
			Name:        def.Name,
			Command:     def.Command,
			Interpreted: def.Interpret != nil,
		})
	}
	return infos
}
