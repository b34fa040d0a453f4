package main

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flashlens/flashlens/internal/log"
	"github.com/flashlens/flashlens/internal/model"
	"github.com/flashlens/flashlens/internal/parallel"
	"github.com/flashlens/flashlens/internal/partition"
	"github.com/flashlens/flashlens/internal/report"
	"github.com/flashlens/flashlens/internal/scan"
	"github.com/flashlens/flashlens/internal/walk"
)

var (
	flagPMStatic string // value of layout --pm-static
	flagOverlay  string // value of layout --overlay
	flagEvery    string // value of watch --every
)

// scanLimit is how many images are scanned at once when multiple paths are
// given.
const scanLimit = 4

func doScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	attrs := slog.Group("flashlens",
		slog.String("cmd", "scan"),
		slog.Int("pid", os.Getpid()),
	)
	ctx = log.ContextAttrs(ctx, attrs)

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}
	scanner, err := scan.New(opts)
	if err != nil {
		return err
	}

	// walk errors must survive into the exit code, so the paths are
	// materialized here instead of letting parallel.Map drop them
	var (
		paths    []string
		scanErrs []error
	)
	for path, err := range walk.Images(ctx, args, nil) {
		if err != nil {
			slog.ErrorContext(ctx, "walk failed", "error", err)
			scanErrs = append(scanErrs, err)
			continue
		}
		paths = append(paths, path)
	}

	var images iter.Seq2[string, error] = func(yield func(string, error) bool) {
		for _, p := range paths {
			if !yield(p, nil) {
				return
			}
		}
	}

	var reports []model.ScanReport
	for rep, err := range parallel.Map(ctx, scanLimit, images, scanner.Scan) {
		if err != nil {
			slog.ErrorContext(ctx, "scan failed", "error", err)
			scanErrs = append(scanErrs, err)
			continue
		}
		reports = append(reports, rep)
	}

	// parallel.Map yields in completion order
	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	if flagJSON {
		if err := report.AsJSON(os.Stdout, reports...); err != nil {
			return err
		}
	} else {
		for i, rep := range reports {
			if i > 0 {
				fmt.Println()
			}
			if err := report.Render(os.Stdout, rep); err != nil {
				return err
			}
		}
	}

	return errors.Join(scanErrs...)
}

func doDiff(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	attrs := slog.Group("flashlens",
		slog.String("cmd", "diff"),
		slog.Int("pid", os.Getpid()),
	)
	ctx = log.ContextAttrs(ctx, attrs)

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}
	scanner, err := scan.New(opts)
	if err != nil {
		return err
	}

	// independent scans, no shared state
	var a, b model.ScanReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = scanner.Scan(gctx, args[0])
		return err
	})
	g.Go(func() error {
		var err error
		b, err = scanner.Scan(gctx, args[1])
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	d := report.Compare(a, b)
	if flagJSON {
		return report.DiffAsJSON(os.Stdout, d)
	}
	return d.Render(os.Stdout)
}

func doLayout(cmd *cobra.Command, args []string) error {
	flashSize, specs, err := partition.FromConfig(config.Layout)
	if err != nil {
		return err
	}
	regions, err := partition.Layout(flashSize, specs)
	if err != nil {
		return err
	}

	partition.Render(os.Stdout, regions, flashSize)

	if flagPMStatic != "" {
		if err := writeFile(flagPMStatic, func(f *os.File) error {
			return partition.WritePMStatic(f, regions)
		}); err != nil {
			return err
		}
		slog.Info("wrote partition manager config", "path", flagPMStatic)
	}
	if flagOverlay != "" {
		if err := writeFile(flagOverlay, func(f *os.File) error {
			return partition.WriteOverlay(f, regions)
		}); err != nil {
			return err
		}
		slog.Info("wrote devicetree overlay", "path", flagOverlay)
	}
	return nil
}

func doUsage(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	flashSize, specs, err := partition.FromConfig(config.Layout)
	if err != nil {
		return err
	}
	regions, err := partition.Layout(flashSize, specs)
	if err != nil {
		return err
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}
	scanner, err := scan.New(opts)
	if err != nil {
		return err
	}
	rep, err := scanner.Scan(ctx, args[0])
	if err != nil {
		return err
	}

	partition.RenderUsage(os.Stdout, partition.ComputeUsage(regions, rep), rep)
	return nil
}

func doWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	attrs := slog.Group("flashlens",
		slog.String("cmd", "watch"),
		slog.Int("pid", os.Getpid()),
	)
	ctx = log.ContextAttrs(ctx, attrs)

	interval, err := model.ParseEvery(flagEvery)
	if err != nil {
		return fmt.Errorf("parsing --every: %w", err)
	}

	opts, err := scanOptions(cmd)
	if err != nil {
		return err
	}
	scanner, err := scan.New(opts)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "watching", "image", args[0], "interval", interval)

	var (
		prev     model.ScanReport
		havePrev bool
	)
	if rep, err := scanner.Scan(ctx, args[0]); err != nil {
		slog.WarnContext(ctx, "scan failed, will retry", "error", err)
	} else {
		prev, havePrev = rep, true
		if err := report.Render(os.Stdout, rep); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		rep, err := scanner.Scan(ctx, args[0])
		if err != nil {
			slog.WarnContext(ctx, "scan failed, will retry", "error", err)
			continue
		}
		if !havePrev {
			prev, havePrev = rep, true
			if err := report.Render(os.Stdout, rep); err != nil {
				return err
			}
			continue
		}

		d := report.Compare(prev, rep)
		if d.Equal() {
			slog.DebugContext(ctx, "image unchanged")
			continue
		}
		fmt.Printf("\n%s image changed\n", time.Now().Format(time.RFC3339))
		if err := d.Render(os.Stdout); err != nil {
			return err
		}
		prev = rep
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
