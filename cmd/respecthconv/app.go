package main

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/respecthconv/config"
	"github.com/c360studio/respecthconv/convert"
	"github.com/c360studio/respecthconv/events"
	"github.com/c360studio/respecthconv/metrics"
	"github.com/c360studio/respecthconv/report"
)

// App wires the converter to its metrics, event publisher and report.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	report    *report.Report
	metrics   *metrics.Metrics
	publisher events.Publisher
	conv      *convert.Converter
}

// NewApp creates the converter and connects to NATS when configured.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &App{
		cfg:       cfg,
		logger:    logger,
		report:    report.New(),
		metrics:   metrics.New(),
		publisher: events.Noop{},
	}

	if cfg.NATS.URL != "" {
		pub, err := events.Connect(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return nil, err
		}
		app.publisher = pub
	}

	conv, err := convert.New(cfg,
		convert.WithLogger(logger),
		convert.WithMetrics(app.metrics),
		convert.WithPublisher(app.publisher),
		convert.WithRunID(app.report.RunID),
	)
	if err != nil {
		_ = app.publisher.Close()
		return nil, err
	}
	app.conv = conv
	return app, nil
}

// Shutdown writes the metrics textfile and closes the event publisher.
func (a *App) Shutdown() error {
	var firstErr error
	if a.cfg.Metrics.File != "" {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
			firstErr = err
		} else {
			a.logger.Debug("Wrote metrics", "path", a.cfg.Metrics.File)
		}
	}
	if err := a.publisher.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close publisher: %w", err)
	}
	return firstErr
}
