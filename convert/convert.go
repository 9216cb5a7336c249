// Package convert runs the single-file pipeline: parse a ReSpecTh document,
// classify it, and write its OpenSMOKE++ dictionary and profile files.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360studio/respecthconv/composition"
	"github.com/c360studio/respecthconv/config"
	"github.com/c360studio/respecthconv/dictionary"
	"github.com/c360studio/respecthconv/events"
	"github.com/c360studio/respecthconv/experiment"
	"github.com/c360studio/respecthconv/metrics"
	"github.com/c360studio/respecthconv/report"
	"github.com/c360studio/respecthconv/respecth"
	"github.com/c360studio/respecthconv/species"
)

// DictionaryExt is the extension of written dictionary files.
const DictionaryExt = ".dic"

// Result describes a converted file.
type Result struct {
	File           string
	Stem           string
	ExperimentType string
	Model          string
	Variation      string
	Dictionary     string
	Profiles       []string
	Runs           int
	Duration       time.Duration
}

// Converter converts ReSpecTh files into dictionaries under the configured
// output folder. It is safe for sequential use only.
type Converter struct {
	cfg       *config.Config
	registry  *experiment.Registry
	mechanism composition.Resolver
	database  *species.Database
	metrics   *metrics.Metrics
	publisher events.Publisher
	logger    *slog.Logger
	runID     string
}

// Option configures a Converter.
type Option func(*Converter)

// WithRegistry replaces the default experiment registry.
func WithRegistry(r *experiment.Registry) Option {
	return func(c *Converter) { c.registry = r }
}

// WithMechanism sets the species resolver instead of loading it from
// kinetics.folder.
func WithMechanism(m composition.Resolver) Option {
	return func(c *Converter) { c.mechanism = m }
}

// WithDatabase sets the species alias database instead of loading it from
// species.database.
func WithDatabase(db *species.Database) Option {
	return func(c *Converter) { c.database = db }
}

// WithMetrics records every conversion in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Converter) { c.metrics = m }
}

// WithPublisher publishes a ConversionEvent for every file.
func WithPublisher(p events.Publisher) Option {
	return func(c *Converter) { c.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithRunID tags published events with id.
func WithRunID(id string) Option {
	return func(c *Converter) { c.runID = id }
}

// New creates a converter. The mechanism is loaded from cfg.Kinetics.Folder
// unless WithMechanism is given.
func New(cfg *config.Config, opts ...Option) (*Converter, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Converter{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "convert")
	if c.registry == nil {
		c.registry = experiment.DefaultRegistry
	}
	if c.publisher == nil {
		c.publisher = events.Noop{}
	}

	if c.mechanism == nil {
		if cfg.Kinetics.Folder == "" {
			return nil, errors.New("kinetics.folder is required to check species")
		}
		mech, err := species.LoadMechanism(cfg.Kinetics.Folder, cfg.Species.CaseSensitive)
		if err != nil {
			return nil, fmt.Errorf("load mechanism: %w", err)
		}
		c.logger.Info("Loaded kinetic mechanism",
			"path", cfg.Kinetics.Folder,
			"species", mech.Len(),
			"case_sensitive", mech.CaseSensitive())
		c.mechanism = mech
	}

	if c.database == nil && cfg.Species.Database != "" {
		db, err := species.LoadDatabase(cfg.Species.Database)
		if err != nil {
			return nil, fmt.Errorf("load species database: %w", err)
		}
		db.Summary(c.logger)
		c.database = db
	}

	return c, nil
}

// Config returns the converter configuration.
func (c *Converter) Config() *config.Config { return c.cfg }

// Stem returns the file name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ConvertFile converts the ReSpecTh file at path. A failure is returned as
// an *Error carrying the report error kind.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	stem := Stem(path)

	res, experimentType, err := c.convert(path, stem)
	elapsed := time.Since(start)
	if err != nil {
		convErr := &Error{File: path, ExperimentType: experimentType, Kind: Kind(err), Err: err}
		c.metrics.Failed(experimentType, convErr.Kind, elapsed)
		c.logger.Warn("Conversion failed", "file", path, "kind", convErr.Kind, "error", err)
		c.publish(ctx, events.ConversionEvent{
			File:           path,
			ExperimentType: experimentType,
			Status:         report.StatusFailed,
			ErrorKind:      convErr.Kind,
			Message:        err.Error(),
		})
		return nil, convErr
	}

	res.Duration = elapsed
	c.metrics.Converted(res.ExperimentType, res.Runs, elapsed)
	c.logger.Info("Converted experiment",
		"file", path,
		"type", res.ExperimentType,
		"model", res.Model,
		"variation", res.Variation,
		"runs", res.Runs,
		"dictionary", res.Dictionary)
	c.publish(ctx, events.ConversionEvent{
		File:           path,
		ExperimentType: res.ExperimentType,
		Model:          res.Model,
		Status:         report.StatusConverted,
		Dictionary:     res.Dictionary,
		Profiles:       res.Profiles,
		Simulations:    res.Runs,
	})
	return res, nil
}

func (c *Converter) convert(path, stem string) (*Result, string, error) {
	doc, err := respecth.ParseFile(path)
	if err != nil {
		return nil, "", err
	}

	env := experiment.Env{
		Mechanism:      c.mechanism,
		KineticsFolder: c.cfg.DictionaryKineticsFolder(),
		OutputFolder:   c.cfg.SimulationOutputFolder(stem),
		Name:           stem,
		Source:         path,
		Logger:         c.logger,
	}
	if c.database.Active() {
		env.Aliases = c.database
	}

	cs, err := c.registry.Convert(doc, env)
	if err != nil {
		return nil, doc.ExperimentType, err
	}

	res, err := c.write(cs)
	if err != nil {
		return nil, doc.ExperimentType, err
	}
	res.File = path
	return res, doc.ExperimentType, nil
}

// write stores cs as <output>/<stem>/<stem>.dic plus its profile files.
func (c *Converter) write(cs *experiment.Case) (*Result, error) {
	dir := filepath.Join(c.cfg.Output.Folder, cs.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output folder: %w", err)
	}

	res := &Result{
		Stem:           cs.Name,
		ExperimentType: cs.ExperimentType,
		Model:          cs.Model,
		Variation:      cs.Variation,
		Dictionary:     filepath.Join(dir, cs.Name+DictionaryExt),
		Runs:           cs.Runs,
	}

	if err := writeFile(res.Dictionary, func(f *os.File) error {
		return dictionary.Write(f, cs.File)
	}); err != nil {
		return nil, err
	}

	for _, p := range cs.Profiles {
		path := filepath.Join(dir, p.FileName)
		if err := writeFile(path, func(f *os.File) error {
			return dictionary.WriteProfileCSV(f, p)
		}); err != nil {
			return nil, err
		}
		res.Profiles = append(res.Profiles, path)
	}
	return res, nil
}

func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (c *Converter) publish(ctx context.Context, ev events.ConversionEvent) {
	ev.RunID = c.runID
	ev.Timestamp = time.Now().UTC()
	if err := c.publisher.Publish(ctx, ev); err != nil {
		c.logger.Warn("Failed to publish conversion event", "file", ev.File, "error", err)
	}
}
