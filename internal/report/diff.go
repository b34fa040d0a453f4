package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/flashlens/flashlens/internal/model"
)

// Diff holds the findings present in exactly one of two reports. Findings
// are compared by value including their offsets, so a string moved to a
// different offset shows up on both sides.
type Diff struct {
	A, B model.ScanReport `json:"-"`

	VectorsOnlyA []model.VectorCandidate `json:"vectorsOnlyA"`
	VectorsOnlyB []model.VectorCandidate `json:"vectorsOnlyB"`
	StringsOnlyA []model.StringMatch     `json:"stringsOnlyA"`
	StringsOnlyB []model.StringMatch     `json:"stringsOnlyB"`
	FillsOnlyA   []model.FillRegion      `json:"fillsOnlyA"`
	FillsOnlyB   []model.FillRegion      `json:"fillsOnlyB"`
}

// Compare builds the symmetric difference of two reports.
func Compare(a, b model.ScanReport) Diff {
	d := Diff{A: a, B: b}
	d.VectorsOnlyA, d.VectorsOnlyB = onlyIn(a.Vectors, b.Vectors)
	d.StringsOnlyA, d.StringsOnlyB = onlyIn(a.Strings, b.Strings)
	d.FillsOnlyA, d.FillsOnlyB = onlyIn(a.Fills, b.Fills)
	return d
}

// Equal reports whether both images have the same size and findings.
func (d Diff) Equal() bool {
	return d.A.ImageSize == d.B.ImageSize &&
		len(d.VectorsOnlyA) == 0 && len(d.VectorsOnlyB) == 0 &&
		len(d.StringsOnlyA) == 0 && len(d.StringsOnlyB) == 0 &&
		len(d.FillsOnlyA) == 0 && len(d.FillsOnlyB) == 0
}

var (
	removed = color.New(color.FgRed)
	added   = color.New(color.FgGreen)
)

// Render writes the diff, - lines belong only to the first image, + lines
// only to the second.
func (d Diff) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, "--- %s (%d bytes)\n+++ %s (%d bytes)\n",
		d.A.Path, d.A.ImageSize, d.B.Path, d.B.ImageSize)
	if err != nil {
		return err
	}
	if d.Equal() {
		fmt.Fprintln(w, "reports are identical")
		return nil
	}

	_, _ = header.Fprintln(w, "\nVector Candidates")
	for _, v := range d.VectorsOnlyA {
		_, _ = removed.Fprintf(w, "- 0x%08x: sp 0x%08x\n", v.Offset, v.Value)
	}
	for _, v := range d.VectorsOnlyB {
		_, _ = added.Fprintf(w, "+ 0x%08x: sp 0x%08x\n", v.Offset, v.Value)
	}

	_, _ = header.Fprintln(w, "\nStrings")
	for _, s := range d.StringsOnlyA {
		_, _ = removed.Fprintf(w, "- 0x%08x: %q\n", s.Offset, s.Text)
	}
	for _, s := range d.StringsOnlyB {
		_, _ = added.Fprintf(w, "+ 0x%08x: %q\n", s.Offset, s.Text)
	}

	_, _ = header.Fprintln(w, "\nFill Regions")
	for _, f := range d.FillsOnlyA {
		_, _ = removed.Fprintf(w, "- 0x%08x: 0x%02x x %d\n", f.Start, f.Fill, f.Len())
	}
	for _, f := range d.FillsOnlyB {
		_, _ = added.Fprintf(w, "+ 0x%08x: 0x%02x x %d\n", f.Start, f.Fill, f.Len())
	}
	return nil
}

// onlyIn splits two ordered finding slices into the elements unique to each,
// preserving order.
func onlyIn[F comparable](a, b []F) (onlyA, onlyB []F) {
	inA := make(map[F]struct{}, len(a))
	for _, f := range a {
		inA[f] = struct{}{}
	}
	inB := make(map[F]struct{}, len(b))
	for _, f := range b {
		inB[f] = struct{}{}
	}
	for _, f := range a {
		if _, ok := inB[f]; !ok {
			onlyA = append(onlyA, f)
		}
	}
	for _, f := range b {
		if _, ok := inA[f]; !ok {
			onlyB = append(onlyB, f)
		}
	}
	return onlyA, onlyB
}
