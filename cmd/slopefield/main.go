package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/slopefield/internal/config"
	"github.com/san-kum/slopefield/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configFile string
	equation   string
	preset     string
	logLevel   string
	logFile    string
	workers    int
	dt         float64
	bounds     string
	maxSteps   int
	theme      string

	// seed for trace and export, in domain space
	seedT float64
	seedY float64

	logger = logging.NewNop()
	// logCloser is the open --log-file, if any
	logCloser io.Closer
)

// main registers the commands and runs the terminal viewer when no
// subcommand is given. It exits with status 1 if the command fails.
func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and closes the log file opened for it.
func execute(cmd *cobra.Command) error {
	defer closeLog()
	return cmd.Execute()
}

func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
	logCloser = nil
	logger = logging.NewNop()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "slopefield",
		Short:             "slope fields and Euler solution curves for dy/dt = f(t, y)",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (key: value text, or .yaml)")
	pf.StringVar(&equation, "eq", "", "right-hand side f(t, y)")
	pf.StringVar(&preset, "preset", "", "start from a named preset")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	pf.IntVar(&workers, "workers", 1, "goroutines used to sample the field")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "Euler step size")
	pf.StringVar(&bounds, "bounds", "strict", "trace clipping: strict or time")
	pf.IntVar(&maxSteps, "max-steps", 0, "trace iteration cap (0 derives it from the domain)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal viewer",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive 800x600 window",
		RunE:  runGUI,
	}

	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().StringVar(&theme, "theme", "paper", "color theme")
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, newSampleCmd(), newTraceCmd(), newExportCmd(), newCheckCmd(), newPresetsCmd(), newScenarioCmd(), newServeCmd())
	return rootCmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if logFile == "" {
		logger = logging.New(level)
		return nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logger = logging.NewWriter(f, level)
	logCloser = f
	return nil
}

// loadDomain builds the starting domain: defaults, then the preset, then the
// config file, then any flag set on the command line.
func loadDomain(cmd *cobra.Command) (*config.Domain, error) {
	spec := config.DefaultSpec()
	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		spec = p
	}

	if configFile != "" {
		ov, warnings, err := config.LoadFile(configFile)
		for _, w := range warnings {
			logger.Warn("config", "file", configFile, "warning", w.String())
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		spec = ov.Apply(spec)
	}

	d, err := config.New(applyFlags(spec, cmd.Flags()))
	if err != nil {
		return nil, err
	}
	logger.Debug("domain", "eq", d.Equation.String(), "t", []float64{d.TMin, d.TMax}, "y", []float64{d.YMin, d.YMax}, "dt", d.Dt)
	return d, nil
}

// applyFlags overrides spec values only for flags set on the command line.
func applyFlags(spec config.Spec, flags *pflag.FlagSet) config.Spec {
	if flags.Changed("eq") {
		spec.Equation = equation
	}
	if flags.Changed("dt") {
		spec.Dt = dt
	}
	if flags.Changed("bounds") {
		spec.Bounds = bounds
	}
	if flags.Changed("max-steps") {
		spec.MaxSteps = maxSteps
	}
	return spec
}

// interactiveLogger keeps log lines off the terminal while a full-screen
// surface owns it, unless they go to a file.
func interactiveLogger() *slog.Logger {
	if logFile == "" {
		return logging.NewNop()
	}
	return logger
}
