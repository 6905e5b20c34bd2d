package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/dynamo"
	"github.com/san-kum/slopefield/internal/export"
	"github.com/san-kum/slopefield/internal/expr"
	"github.com/san-kum/slopefield/internal/field"
	"github.com/san-kum/slopefield/internal/metrics"
	"github.com/san-kum/slopefield/internal/screen"
	"github.com/san-kum/slopefield/internal/sim"
	"github.com/san-kum/slopefield/internal/trace"
	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	var asCSV bool
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "print the slope at every grid point",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDomain(cmd)
			if err != nil {
				return err
			}
			samples := field.SampleParallel(d, workers)
			if asCSV {
				return export.WriteSamples(cmd.OutOrStdout(), samples)
			}
			return printSamples(cmd.OutOrStdout(), d, samples)
		},
	}
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}

func printSamples(out io.Writer, d *config.Domain, samples []dynamo.SamplePoint) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tY\tSLOPE")
	for _, p := range samples {
		if p.OK() {
			fmt.Fprintf(w, "%.4f\t%.4f\t%.6f\n", p.T, p.Y, p.Slope)
		} else {
			fmt.Fprintf(w, "%.4f\t%.4f\t- (%v)\n", p.T, p.Y, p.Err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	st := field.Summarize(samples)
	_, err := fmt.Fprintf(out, "\ndy/dt = %s: %d points, %d skipped\n", d.Equation, st.Total, st.Skipped)
	return err
}

func newTraceCmd() *cobra.Command {
	var (
		plot   bool
		asCSV  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "trace the solution curve through a seed point",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDomain(cmd)
			if err != nil {
				return err
			}
			res := trace.Trace(dynamo.Point{X: seedT, Y: seedY}, d)
			out := cmd.OutOrStdout()
			switch {
			case asCSV:
				return export.WriteTrace(out, res)
			case asJSON:
				return export.WriteJSON(out, export.NewSummary(d, field.Stats{}, res))
			}
			return printTrace(out, d, res, plot)
		},
	}
	addSeedFlags(cmd)
	cmd.Flags().BoolVar(&plot, "plot", false, "plot y(t) along the curve")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write the curve as CSV")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write a JSON summary")
	return cmd
}

func addSeedFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&seedT, "t", 0, "seed t")
	cmd.Flags().Float64Var(&seedY, "y", 0, "seed y")
}

func printTrace(out io.Writer, d *config.Domain, res *trace.Result, plot bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "equation\tdy/dt = %s\n", d.Equation)
	fmt.Fprintf(w, "seed\t%s\n", res.Seed)
	for _, c := range []struct {
		name string
		cur  trace.Cursor
	}{{"left", res.Left}, {"right", res.Right}} {
		fmt.Fprintf(w, "%s\t%d steps, %s, ends at %s\n", c.name, c.cur.Steps, c.cur.Halt, c.cur.Pos)
		if c.cur.Err != nil {
			fmt.Fprintf(w, "\t%v\n", c.cur.Err)
		}
	}
	fmt.Fprintf(w, "iterations\t%d of %d\n", res.Iterations, d.StepCap())
	if err := w.Flush(); err != nil {
		return err
	}

	if !plot {
		return nil
	}
	ys := curveValues(res)
	if len(ys) < 2 {
		_, err := fmt.Fprintln(out, "\ncurve too short to plot")
		return err
	}
	caption := fmt.Sprintf("y(t), t from %.2f to %.2f", res.Left.Pos.X, res.Right.Pos.X)
	graph := asciigraph.Plot(ys,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	_, err := fmt.Fprintf(out, "\n%s\n", graph)
	return err
}

// curveValues returns y along the curve in increasing t.
func curveValues(res *trace.Result) []float64 {
	left := res.Branch(dynamo.KindLeft)
	right := res.Branch(dynamo.KindRight)
	ys := make([]float64, 0, len(left)+len(right)+1)
	for i := len(left) - 1; i >= 0; i-- {
		ys = append(ys, left[i].B.Y)
	}
	ys = append(ys, res.Seed.Y)
	for _, s := range right {
		ys = append(ys, s.B.Y)
	}
	return ys
}

func newExportCmd() *cobra.Command {
	var svgPath, csvPath, traceCSVPath, jsonPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "render one frame to SVG, CSV or JSON files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if svgPath == "" && csvPath == "" && traceCSVPath == "" && jsonPath == "" {
				return errors.New("nothing to export: set --svg, --csv, --trace-csv or --json")
			}
			d, err := loadDomain(cmd)
			if err != nil {
				return err
			}

			store := config.NewStore(d, logger)
			m := metrics.Default()
			s := sim.New(store, screen.Nominal, sim.WithWorkers(workers), sim.WithLogger(logger))
			s.AddObserver(m)

			withSeed := cmd.Flags().Changed("t") || cmd.Flags().Changed("y")
			pointer, err := screen.Nominal.ToDisplay(dynamo.Point{X: seedT, Y: seedY}, d)
			if err != nil {
				return err
			}

			svg := export.NewSVG(screen.Nominal)
			f, err := s.Step(sim.PointerFunc(func() (dynamo.Point, bool) { return pointer, withSeed }), svg)
			if err != nil {
				return err
			}

			if svgPath != "" {
				if err := writeFile(svgPath, func(w io.Writer) error { _, err := svg.WriteTo(w); return err }); err != nil {
					return err
				}
			}
			if csvPath != "" {
				if err := writeFile(csvPath, func(w io.Writer) error { return export.WriteSamples(w, f.Samples) }); err != nil {
					return err
				}
			}
			if traceCSVPath != "" {
				if f.Trace == nil {
					return errors.New("--trace-csv needs a seed (--t/--y)")
				}
				if err := writeFile(traceCSVPath, func(w io.Writer) error { return export.WriteTrace(w, f.Trace) }); err != nil {
					return err
				}
			}
			if jsonPath != "" {
				sum := export.NewSummary(d, field.Summarize(f.Samples), f.Trace)
				sum.Metrics = m.Values()
				if err := writeFile(jsonPath, func(w io.Writer) error { return export.WriteJSON(w, sum) }); err != nil {
					return err
				}
			}
			logger.Info("exported", "eq", d.Equation.String(), "ticks", len(f.Ticks), "curve", len(f.Curve))
			return nil
		},
	}
	addSeedFlags(cmd)
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the frame as SVG")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write field samples as CSV")
	cmd.Flags().StringVar(&traceCSVPath, "trace-csv", "", "write the traced curve as CSV")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write a JSON summary")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [config_file]",
		Short: "validate a config file and report ignored lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			d, warnings, err := config.Load(args[0])
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if err != nil {
				var pe *expr.ParseError
				if errors.As(err, &pe) {
					fmt.Fprintf(out, "%s\n", pe.Caret())
				}
				return err
			}
			fmt.Fprintf(out, "ok: dy/dt = %s on [%g, %g] x [%g, %g], dt %g, %d samples\n",
				d.Equation, d.TMin, d.TMax, d.YMin, d.YMax, d.Dt, field.Len(d))
			return nil
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEQUATION\tT\tY\tDT")
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t[%g, %g]\t[%g, %g]\t%g\n", name, p.Equation, p.TMin, p.TMax, p.YMin, p.YMax, p.Dt)
			}
			return w.Flush()
		},
	}
}
