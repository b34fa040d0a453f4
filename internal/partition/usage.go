package partition

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/flashlens/flashlens/internal/model"
)

// Usage is how much of a partition is actually programmed in a scanned
// image. Bytes inside a fill region count as free, bytes past the end of the
// image count as free as well.
type Usage struct {
	Region
	Used uint32
}

// Percent returns used bytes as a share of the partition size.
func (u Usage) Percent() float64 {
	if u.Size == 0 {
		return 0
	}
	return float64(u.Used) / float64(u.Size) * 100
}

// ComputeUsage overlays the fill regions of a scan report onto a partition
// layout. The report must come from an image flashed at address 0 of the
// same flash the layout describes.
func ComputeUsage(regions []Region, rep model.ScanReport) []Usage {
	out := make([]Usage, 0, len(regions))
	for _, r := range regions {
		u := Usage{Region: r}

		// clip the partition to the actual image
		end := min(int(r.End), rep.ImageSize)
		if int(r.Start) < end {
			used := end - int(r.Start)
			for _, f := range rep.Fills {
				used -= overlap(int(r.Start), end, f.Start, f.End)
			}
			u.Used = uint32(used)
		}
		out = append(out, u)
	}
	return out
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	start := max(aStart, bStart)
	end := min(aEnd, bEnd)
	if end <= start {
		return 0
	}
	return end - start
}

// RenderUsage prints per-partition usage and a whole-image summary.
func RenderUsage(w io.Writer, usages []Usage, rep model.ScanReport) {
	fmt.Fprintf(w, "%s: %d bytes (%s)\n\n", rep.Path, rep.ImageSize, humanize.IBytes(uint64(rep.ImageSize)))

	var total, totalUsed uint64
	for _, u := range usages {
		fmt.Fprintf(w, "%-20s %8d / %8d bytes  %5.1f%%  (%s of %s)\n",
			u.Name, u.Used, u.Size, u.Percent(),
			humanize.IBytes(uint64(u.Used)), humanize.IBytes(uint64(u.Size)))
		total += uint64(u.Size)
		totalUsed += uint64(u.Used)
	}
	if total > 0 {
		fmt.Fprintf(w, "\n%-20s %8d / %8d bytes  %5.1f%%\n",
			"total", totalUsed, total, float64(totalUsed)/float64(total)*100)
	}
}
