package image_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashlens/flashlens/internal/image"
	"github.com/flashlens/flashlens/internal/model"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fw.bin")
	content := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	require.NoError(t, os.WriteFile(path, content, 0644))

	img, err := image.Load(path, 0)
	require.NoError(t, err)
	require.Equal(t, path, img.Path())
	require.Equal(t, content, img.Bytes())
	require.Equal(t, 4, img.Size())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	big := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(big, make([]byte, 1024), 0644))

	tests := []struct {
		name    string
		path    string
		maxSize int64
		want    error
	}{
		{"missing file", filepath.Join(dir, "missing.bin"), 0, model.ErrNotFound},
		{"empty file", empty, 0, model.ErrEmpty},
		{"directory", dir, 0, model.ErrUnreadable},
		{"over size limit", big, 512, model.ErrTooBig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := image.Load(tt.path, tt.maxSize)
			require.ErrorIs(t, err, tt.want)
			require.ErrorContains(t, err, tt.path)
		})
	}
}
