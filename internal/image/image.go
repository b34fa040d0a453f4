// Package image loads raw flash dumps into memory. No container format is
// assumed, the bytes are taken as they are.
package image

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/flashlens/flashlens/internal/model"
)

// Image is an immutable in-memory copy of a flash dump. It is owned by the
// scan which loaded it and is dropped once the report is built.
type Image struct {
	path string
	data []byte
}

// Path returns the file the image was loaded from.
func (i Image) Path() string {
	return i.path
}

// Bytes returns the raw content. Callers must not modify it.
func (i Image) Bytes() []byte {
	return i.data
}

// Size returns the image length in bytes.
func (i Image) Size() int {
	return len(i.data)
}

// Load reads the whole file at path. It fails with model.ErrNotFound,
// model.ErrUnreadable, model.ErrEmpty or model.ErrTooBig wrapped with the
// path, maxSize <= 0 disables the size guard.
func Load(path string, maxSize int64) (Image, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Image{}, fmt.Errorf("loading %s: %w", path, model.ErrNotFound)
	case err != nil:
		return Image{}, fmt.Errorf("loading %s: %v: %w", path, err, model.ErrUnreadable)
	case !info.Mode().IsRegular():
		return Image{}, fmt.Errorf("loading %s: not a regular file: %w", path, model.ErrUnreadable)
	case info.Size() == 0:
		return Image{}, fmt.Errorf("loading %s: %w", path, model.ErrEmpty)
	case maxSize > 0 && info.Size() > maxSize:
		return Image{}, fmt.Errorf("loading %s (%d bytes): %w", path, info.Size(), model.ErrTooBig)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("loading %s: %v: %w", path, err, model.ErrUnreadable)
	}
	if len(data) == 0 {
		// raced with a truncate between Stat and ReadFile
		return Image{}, fmt.Errorf("loading %s: %w", path, model.ErrEmpty)
	}
	return Image{path: path, data: data}, nil
}
