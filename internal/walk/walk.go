// Package walk enumerates flash image files for scanning.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/flashlens/flashlens/internal/model"
)

// DefaultExtensions are the file suffixes treated as raw flash images when a
// directory is walked.
var DefaultExtensions = []string{".bin", ".img", ".raw", ".dump"}

// Images yields the image files found at every given path. A path naming a
// regular file is yielded as-is regardless of its extension, a directory is
// walked recursively and only files matching exts are picked. Symlinks are
// not followed. Walk errors are yielded with an empty path.
func Images(ctx context.Context, paths []string, exts []string) iter.Seq2[string, error] {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return func(yield func(string, error) bool) {
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}
			info, err := os.Stat(path)
			if err != nil {
				werr := fmt.Errorf("walking %s: %v: %w", path, err, model.ErrUnreadable)
				if errors.Is(err, fs.ErrNotExist) {
					werr = fmt.Errorf("walking %s: %w", path, model.ErrNotFound)
				}
				if !yield("", werr) {
					return
				}
				continue
			}
			if info.Mode().IsRegular() {
				if !yield(path, nil) {
					return
				}
				continue
			}
			if !walkDir(ctx, path, exts, yield) {
				return
			}
		}
	}
}

func walkDir(ctx context.Context, dir string, exts []string, yield func(string, error) bool) bool {
	ok := true
	fn := func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return fs.SkipAll
		}
		if err != nil {
			if !yield("", fmt.Errorf("walking %s: %v: %w", path, err, model.ErrUnreadable)) {
				ok = false
				return fs.SkipAll
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}
		if !yield(path, nil) {
			ok = false
			return fs.SkipAll
		}
		return nil
	}
	_ = filepath.WalkDir(dir, fn)
	return ok
}
