// Package partition calculates static flash partition layouts and reports
// how much of each partition a scanned image actually uses.
package partition

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/flashlens/flashlens/internal/model"
)

// Spec is a named partition size as configured.
type Spec struct {
	Name string
	Size uint32
}

// Region is a placed partition, End is exclusive.
type Region struct {
	Name  string
	Start uint32
	End   uint32
	Size  uint32
}

// Layout packs specs into a flash of flashSize bytes starting at address 0,
// in the given order. It fails when a partition does not fit.
func Layout(flashSize uint32, specs []Spec) ([]Region, error) {
	var addr uint32
	regions := make([]Region, 0, len(specs))
	for _, s := range specs {
		if s.Size > flashSize || addr > flashSize-s.Size {
			return nil, fmt.Errorf("partition %q exceeds flash size 0x%x", s.Name, flashSize)
		}
		regions = append(regions, Region{
			Name:  s.Name,
			Start: addr,
			End:   addr + s.Size,
			Size:  s.Size,
		})
		addr += s.Size
	}
	return regions, nil
}

// FromConfig resolves a layout config into a flash size and partition specs.
func FromConfig(cfg *model.LayoutConfig) (uint32, []Spec, error) {
	if cfg == nil {
		return 0, nil, model.ConfigError{Path: "layout", Message: "not configured"}
	}
	flashSize, err := model.ParseWord(cfg.FlashSize)
	if err != nil {
		return 0, nil, model.ConfigError{Path: "layout.flash_size", Message: err.Error()}
	}
	specs := make([]Spec, 0, len(cfg.Partitions))
	for _, p := range cfg.Partitions {
		size, err := model.ParseWord(p.Size)
		if err != nil {
			return 0, nil, model.ConfigError{
				Path:    "layout.partitions",
				Message: fmt.Sprintf("%s: %v", p.Name, err),
			}
		}
		specs = append(specs, Spec{Name: p.Name, Size: size})
	}
	return flashSize, specs, nil
}

// Render prints the layout as a table, one row per partition plus an UNUSED
// row when the layout does not cover the whole flash.
func Render(w io.Writer, regions []Region, flashSize uint32) {
	fmt.Fprintf(w, "Flash Size: %#x (%s)\n", flashSize, humanize.IBytes(uint64(flashSize)))
	rule := strings.Repeat("-", 66)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-20s %-12s %-12s %-12s %s\n", "Partition", "Start", "End", "Size", "")
	fmt.Fprintln(w, rule)

	var used uint32
	for _, r := range regions {
		fmt.Fprintf(w, "%-20s %#010x   %#010x   %#010x   %s\n",
			r.Name, r.Start, r.End, r.Size, humanize.IBytes(uint64(r.Size)))
		used += r.Size
	}
	if used < flashSize {
		fmt.Fprintln(w, rule)
		fmt.Fprintf(w, "%-20s %#010x   %#010x   %#010x   %s\n",
			"UNUSED", used, flashSize, flashSize-used, humanize.IBytes(uint64(flashSize-used)))
	}
}
