package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/bgricker/qualgate/internal/report"
)

var (
	passGlyph = color.New(color.FgGreen).Sprint("✓")
	failGlyph = color.New(color.FgRed).Sprint("✗")
)

// PrettyRenderer renders suite results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderSummary shows per-step outcomes, lifted metrics and the suite verdict.
func (p *PrettyRenderer) RenderSummary(summary report.SuiteSummary) error {
	for _, res := range summary.Results {
		glyph := passGlyph
		if !res.Succeeded {
			glyph = failGlyph
		}
		if _, err := fmt.Fprintf(p.out, "%s %s (%s)\n", glyph, res.Name, formatDuration(res.Duration)); err != nil {
			return err
		}
		if !res.Succeeded && res.Err != "" {
			if _, err := fmt.Fprintf(p.out, "    error: %s\n", indent(res.Err, "    ")); err != nil {
				return err
			}
		}
		if !res.Succeeded && res.Output != "" {
			if _, err := fmt.Fprintf(p.out, "    output: %s\n", indent(res.Output, "    ")); err != nil {
				return err
			}
		}
	}

	if summary.UnitTests.Total > 0 {
		if _, err := fmt.Fprintf(p.out, "Unit tests: %d/%d passed\n", summary.UnitTests.Passed, summary.UnitTests.Total); err != nil {
			return err
		}
	}
	if summary.Coverage != nil {
		if _, err := fmt.Fprintf(p.out, "Coverage: %.1f%%\n", *summary.Coverage); err != nil {
			return err
		}
	}

	skipped := summary.TotalSteps - len(summary.Results)
	line := fmt.Sprintf("SUMMARY: %d passed, %d failed", summary.Passed, summary.Failed)
	if skipped > 0 {
		line += fmt.Sprintf(", %d not run", skipped)
	}
	line += fmt.Sprintf(" (%s)", formatDuration(summary.Duration))
	_, err := fmt.Fprintln(p.out, line)
	return err
}

// RenderSteps lists resolved step definitions without executing them.
func (p *PrettyRenderer) RenderSteps(infos []StepInfo) error {
	for _, info := range infos {
		suffix := ""
		if info.Interpreted {
			suffix = " [interpreted]"
		}
		if _, err := fmt.Fprintf(p.out, "• %s: %s%s\n", info.Name, info.Command, suffix); err != nil {
			return err
		}
	}
	return nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func indent(s, prefix string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n"+prefix)
}
