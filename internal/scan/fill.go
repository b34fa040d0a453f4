package scan

import "github.com/flashlens/flashlens/internal/model"

// FillRegions reports maximal runs of fill of at least minRun bytes, ordered
// by offset. The byte before Start and the byte at End, when they exist, are
// never equal to fill.
func FillRegions(b []byte, fill byte, minRun int) []model.FillRegion {
	var out []model.FillRegion
	start := -1
	for i, c := range b {
		if c == fill {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && i-start >= minRun {
			out = append(out, model.FillRegion{Start: start, End: i, Fill: fill})
		}
		start = -1
	}
	if start >= 0 && len(b)-start >= minRun {
		out = append(out, model.FillRegion{Start: start, End: len(b), Fill: fill})
	}
	return out
}
