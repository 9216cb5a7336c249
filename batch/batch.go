// Package batch converts many ReSpecTh files in one run and collects the
// outcome in a report. It also watches an input folder and converts files
// as they change.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/respecthconv/convert"
	"github.com/c360studio/respecthconv/report"
)

// FileConverter converts one file. *convert.Converter implements it.
type FileConverter interface {
	ConvertFile(ctx context.Context, path string) (*convert.Result, error)
}

// Run converts every input and records each outcome in r. A file that
// fails is reported and the run goes on. Run only returns an error when
// ctx is done.
func Run(ctx context.Context, conv FileConverter, inputs []string, r *report.Report, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Starting batch conversion", "run_id", r.RunID, "files", len(inputs))

	for i, path := range inputs {
		if err := ctx.Err(); err != nil {
			logger.Warn("Batch conversion interrupted", "converted", i, "files", len(inputs))
			return err
		}
		r.Add(Entry(ctx, conv, path))
	}

	r.Finish()
	logger.Info("Batch conversion finished",
		"run_id", r.RunID,
		"converted", r.Converted(),
		"failed", r.Failed(),
		"duration", r.Finished.Sub(r.Started))
	return nil
}

// Entry converts path and returns its report entry.
func Entry(ctx context.Context, conv FileConverter, path string) report.Entry {
	res, err := conv.ConvertFile(ctx, path)
	if err == nil {
		return report.Entry{
			File:           path,
			ExperimentType: res.ExperimentType,
			Status:         report.StatusConverted,
			Output:         res.Dictionary,
			Duration:       res.Duration,
		}
	}

	e := report.Entry{
		File:      path,
		Status:    report.StatusFailed,
		ErrorKind: convert.KindOther,
		Message:   err.Error(),
	}
	var convErr *convert.Error
	if errors.As(err, &convErr) {
		e.ErrorKind = convErr.Kind
		e.ExperimentType = convErr.ExperimentType
		e.Message = convErr.Err.Error()
	}
	return e
}

// SaveReport writes r to path in format.
func SaveReport(path string, r *report.Report, format report.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Write(f, r, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}
