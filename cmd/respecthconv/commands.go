package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/respecthconv/batch"
	"github.com/c360studio/respecthconv/config"
	"github.com/c360studio/respecthconv/report"
	"github.com/c360studio/respecthconv/species"
)

// start loads the configuration and creates the app for cmd.
func start(cmd *cobra.Command, g *globalFlags) (*App, error) {
	logger := setupLogging(cmd.ErrOrStderr(), g.logLevel)
	cfg, err := loadConfig(cmd, g, logger)
	if err != nil {
		return nil, err
	}
	return NewApp(cfg, logger)
}

func convertCmd(g *globalFlags) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert one ReSpecTh file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := start(cmd, g)
			if err != nil {
				return err
			}
			defer func() {
				if serr := app.Shutdown(); serr != nil && err == nil {
					err = serr
				}
			}()

			res, err := app.conv.ConvertFile(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s (%s, %d simulations)\n",
				input, res.Dictionary, res.Model, res.Runs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "ReSpecTh file to convert")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func batchCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [patterns...]",
		Short: "Convert every ReSpecTh file of the input folder and write a report",
		Long: `Convert every file matching the patterns (default: input.patterns,
"**/*.xml") below the input folder. A file that fails is recorded in the
report and the batch goes on.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := start(cmd, g)
			if err != nil {
				return err
			}
			defer func() {
				if serr := app.Shutdown(); serr != nil && err == nil {
					err = serr
				}
			}()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			inputs, err := app.resolveInputs(args)
			if err != nil {
				return err
			}
			if err := batch.Run(ctx, app.conv, inputs, app.report, app.logger); err != nil {
				return err
			}
			return app.writeReport(cmd)
		},
	}
	cmd.Flags().StringP("input", "i", "", "Input folder (default: current directory)")
	_ = cmd.MarkFlagDirname("input")
	cmd.Flags().String("report-format", "", "Report format (text, markdown, html)")
	return cmd
}

func watchCmd(g *globalFlags) *cobra.Command {
	var initial bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert ReSpecTh files of the input folder as they change",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := start(cmd, g)
			if err != nil {
				return err
			}
			defer func() {
				if serr := app.Shutdown(); serr != nil && err == nil {
					err = serr
				}
			}()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			w, err := batch.NewWatcher(app.cfg.Input.Folder, app.cfg.Watch.Debounce, app.logger)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()

			if initial {
				inputs, err := app.resolveInputs(nil)
				if err != nil {
					return err
				}
				if err := batch.Run(ctx, app.conv, inputs, app.report, app.logger); err != nil {
					return err
				}
				w.Seed(inputs)
			}

			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			out := cmd.OutOrStdout()
			batch.Watch(ctx, app.conv, w, app.report, func(e report.Entry) {
				fmt.Fprintf(out, "%s: %s %s\n", filepath.Base(e.File), e.Status, e.ErrorKind)
			})

			app.report.Finish()
			return app.writeReport(cmd)
		},
	}
	cmd.Flags().StringP("input", "i", "", "Input folder (default: current directory)")
	_ = cmd.MarkFlagDirname("input")
	cmd.Flags().String("report-format", "", "Report format (text, markdown, html)")
	cmd.Flags().BoolVar(&initial, "initial", true, "Convert the existing files before watching")
	return cmd
}

func speciesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "species [names...]",
		Short: "List the mechanism species, or check names against it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(cmd.ErrOrStderr(), g.logLevel)
			cfg, err := loadConfig(cmd, g, logger)
			if err != nil {
				return err
			}
			if cfg.Kinetics.Folder == "" {
				return errors.New("kinetics folder is required (--kinetics)")
			}
			mech, err := species.LoadMechanism(cfg.Kinetics.Folder, cfg.Species.CaseSensitive)
			if err != nil {
				return err
			}
			var db *species.Database
			if cfg.Species.Database != "" {
				if db, err = species.LoadDatabase(cfg.Species.Database); err != nil {
					return err
				}
				db.Summary(logger)
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, n := range mech.Names() {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			missing := 0
			for _, name := range args {
				lookup := name
				if alias, ok := db.Lookup(name, name); ok {
					lookup = alias
				}
				resolved, err := mech.Resolve(lookup)
				if err != nil {
					missing++
					fmt.Fprintf(out, "%s: %v\n", name, err)
					continue
				}
				fmt.Fprintf(out, "%s -> %s\n", name, resolved)
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d species not in the kinetic mechanism", missing, len(args))
			}
			return nil
		},
	}
}

func initCmd(g *globalFlags) *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.ProjectConfigFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(cmd.ErrOrStderr(), g.logLevel)
			if user {
				return config.NewLoader(logger).EnsureUserConfig()
			}
			if _, err := os.Stat(config.ProjectConfigFile); err == nil {
				return fmt.Errorf("%s already exists", config.ProjectConfigFile)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.DefaultConfig().SaveToFile(config.ProjectConfigFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.ProjectConfigFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&user, "user", false, "Write the user config instead")
	return cmd
}

func (a *App) resolveInputs(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = a.cfg.Input.Patterns
	}
	inputs, err := batch.ResolveInputs(a.cfg.Input.Folder, patterns)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		a.logger.Warn("No ReSpecTh files found", "folder", a.cfg.Input.Folder, "patterns", patterns)
	}
	return inputs, nil
}

func (a *App) writeReport(cmd *cobra.Command) error {
	path := a.cfg.ReportPath()
	if err := batch.SaveReport(path, a.report, report.Format(a.cfg.Report.Format)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d converted, %d failed. Report: %s\n",
		a.report.Converted(), a.report.Failed(), path)
	return nil
}
