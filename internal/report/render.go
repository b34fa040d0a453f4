// Package report renders scan reports for humans and machines and compares
// reports of two images.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/flashlens/flashlens/internal/model"
)

var header = color.New(color.Bold)

// Render writes the human readable form of a report: three sections with one
// finding per line, offsets in hex.
func Render(w io.Writer, r model.ScanReport) error {
	_, err := fmt.Fprintf(w, "%s: %d bytes (%s)\n", r.Path, r.ImageSize, humanize.IBytes(uint64(r.ImageSize)))
	if err != nil {
		return err
	}

	_, _ = header.Fprintln(w, "\nVector Candidates")
	if len(r.Vectors) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, v := range r.Vectors {
		fmt.Fprintf(w, "  0x%08x: sp 0x%08x (ram 0x%08x-0x%08x)\n",
			v.Offset, v.Value, v.MatchedBase, v.MatchedBase+0x10000)
	}

	_, _ = header.Fprintln(w, "\nStrings")
	if len(r.Strings) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, s := range r.Strings {
		fmt.Fprintf(w, "  0x%08x: %q (%d bytes)\n", s.Offset, s.Text, len(s.Text))
	}

	_, _ = header.Fprintln(w, "\nFill Regions")
	if len(r.Fills) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, f := range r.Fills {
		fmt.Fprintf(w, "  0x%08x: 0x%02x x %d [0x%08x,0x%08x)\n",
			f.Start, f.Fill, f.Len(), f.Start, f.End)
	}
	return nil
}
