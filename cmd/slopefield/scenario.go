package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/san-kum/slopefield/internal/automation"
	"github.com/san-kum/slopefield/internal/export"
	"github.com/san-kum/slopefield/internal/screen"
	"github.com/san-kum/slopefield/internal/sim"
	"github.com/spf13/cobra"
)

func newScenarioCmd() *cobra.Command {
	var svgDir string
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML batch of fields and seeds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			results, err := automation.Runner{Workers: workers, Logger: logger}.RunScenario(cmd.Context(), sc)
			if err != nil {
				return err
			}
			if err := printScenario(cmd.OutOrStdout(), sc, results); err != nil {
				return err
			}
			if svgDir == "" {
				return nil
			}
			if err := os.MkdirAll(svgDir, 0755); err != nil {
				return err
			}
			for _, r := range results {
				if err := writeStepSVG(filepath.Join(svgDir, r.Name+".svg"), &r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&svgDir, "svg-dir", "", "write one SVG per step into this directory")
	return cmd
}

func printScenario(out io.Writer, sc *automation.Scenario, results []automation.StepResult) error {
	if sc.Name != "" {
		fmt.Fprintf(out, "%s\n", sc.Name)
	}
	if sc.Description != "" {
		fmt.Fprintf(out, "%s\n", sc.Description)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tEQUATION\tSAMPLES\tSKIPPED\tTRACES\tCAPPED")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n", r.Name, r.Domain.Equation, r.Stats.Total, r.Stats.Skipped, len(r.Traces), r.Capped())
	}
	return w.Flush()
}

func writeStepSVG(path string, r *automation.StepResult) error {
	f, err := r.Frame(screen.Nominal)
	if err != nil {
		return err
	}
	svg := export.NewSVG(screen.Nominal)
	if err := sim.Render(svg, f); err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error { _, err := svg.WriteTo(w); return err })
}
