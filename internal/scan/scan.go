// Package scan turns a raw flash dump into a ScanReport. Every pass is a
// single deterministic sweep over the in-memory image, there is no shared
// state between scans so independent scans may run concurrently.
package scan

import (
	"context"
	"log/slog"

	"github.com/flashlens/flashlens/internal/image"
	"github.com/flashlens/flashlens/internal/log"
	"github.com/flashlens/flashlens/internal/model"
)

// Scanner runs the three detection passes with a fixed, validated set of
// options.
type Scanner struct {
	opts model.ScanOptions
}

// New validates opts and returns a Scanner. A model.ConfigError is returned
// before any file is touched.
func New(opts model.ScanOptions) (Scanner, error) {
	if err := opts.Validate(); err != nil {
		return Scanner{}, err
	}
	opts.RAMBases = model.NormalizeBases(opts.RAMBases)
	return Scanner{opts: opts}, nil
}

// Options returns the options the Scanner was built with, RAM bases already
// normalized.
func (s Scanner) Options() model.ScanOptions {
	return s.opts
}

// Scan loads the image at path and runs every pass over it. The only side
// effect is the file read, two scans of the same file with the same options
// yield identical reports.
func (s Scanner) Scan(ctx context.Context, path string) (model.ScanReport, error) {
	img, err := image.Load(path, s.opts.MaxImageSize)
	if err != nil {
		return model.ScanReport{}, err
	}
	return s.ScanImage(ctx, img), nil
}

// ScanImage runs every pass over an already loaded image.
func (s Scanner) ScanImage(ctx context.Context, img image.Image) model.ScanReport {
	ctx = log.ContextAttrs(ctx, slog.String("image", img.Path()))
	slog.DebugContext(ctx, "scanning", "size", img.Size())

	b := img.Bytes()
	report := model.ScanReport{
		Path:      img.Path(),
		ImageSize: img.Size(),
		Vectors:   VectorCandidates(b, s.opts.RAMBases),
		Strings:   Strings(b, s.opts.MinStringLength),
		Fills:     FillRegions(b, s.opts.FillByte, s.opts.MinFillRun),
	}

	slog.DebugContext(ctx, "scan done",
		"vectors", len(report.Vectors),
		"strings", len(report.Strings),
		"fills", len(report.Fills),
	)
	return report
}
