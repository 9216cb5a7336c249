// Package main provides the respecthconv binary entry point.
// respecthconv converts ReSpecTh experiment files into OpenSMOKE++
// dictionaries, one folder per experiment, and reports the outcome of
// every file.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/respecthconv/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "respecthconv"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configPath    string
	logLevel      string
	kinetics      string
	output        string
	database      string
	caseSensitive bool
	natsURL       string
	metricsFile   string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert ReSpecTh experiments into OpenSMOKE++ dictionaries",
		Long: `respecthconv reads ReSpecTh XML experiment files and writes the
OpenSMOKE++ dictionaries that reproduce them:

- ignition delay times (BatchReactor)
- jet stirred reactor and outlet concentrations (PerfectlyStirredReactor, PlugFlowReactor)
- laminar burning velocities and burner stabilized flames (PremixedLaminarFlame1D)
- concentration time profiles (BatchReactor, PlugFlowReactor, ShockTubeReactor)

Species are checked against the kinetic mechanism of --kinetics.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVarP(&g.kinetics, "kinetics", "k", "", "Kinetics folder, kinetics.xml or species list")
	pf.StringVarP(&g.output, "output", "o", "", "Output folder")
	pf.StringVar(&g.database, "species-database", "", "Species alias database (XML)")
	pf.BoolVar(&g.caseSensitive, "case-sensitive", false, "Check species names case sensitively")
	pf.StringVar(&g.natsURL, "nats-url", "", "Publish conversion events to this NATS server")
	pf.StringVar(&g.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	cmd.AddCommand(
		convertCmd(g),
		batchCmd(g),
		watchCmd(g),
		speciesCmd(g),
		initCmd(g),
		versionCmd(),
	)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

// setupLogging installs a text logger on w at level as the default logger.
func setupLogging(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig layers the config files and applies the command line flags on
// top of them.
func loadConfig(cmd *cobra.Command, g *globalFlags, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.NewLoader(logger).Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := &config.Config{}
	flags.Kinetics.Folder = g.kinetics
	flags.Output.Folder = g.output
	flags.Species.Database = g.database
	flags.Species.CaseSensitive = g.caseSensitive
	flags.NATS.URL = g.natsURL
	flags.Metrics.File = g.metricsFile
	folder, err := inputFolder(cmd)
	if err != nil {
		return nil, err
	}
	flags.Input.Folder = folder
	if f := cmd.Flags().Lookup("report-format"); f != nil && f.Changed {
		flags.Report.Format = f.Value.String()
	}
	cfg.Merge(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// inputFolder returns the --input folder of the batch and watch commands,
// or "" when the flag is not set. convert takes a file and is not checked
// here.
func inputFolder(cmd *cobra.Command) (string, error) {
	f := cmd.Flags().Lookup("input")
	if f == nil || !f.Changed {
		return "", nil
	}
	if _, ok := f.Annotations[cobra.BashCompSubdirsInDir]; !ok {
		return "", nil
	}
	input := f.Value.String()
	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("input folder: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("input folder %s is not a directory", input)
	}
	return input, nil
}
