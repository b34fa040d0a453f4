package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashlens/flashlens/internal/model"
	"github.com/flashlens/flashlens/internal/report"
)

func TestCompareEqual(t *testing.T) {
	d := report.Compare(sampleReport(), sampleReport())
	require.True(t, d.Equal())

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	require.Contains(t, buf.String(), "reports are identical")
}

func TestCompare(t *testing.T) {
	a := sampleReport()
	b := sampleReport()
	b.Path = "fw2.bin"
	b.Strings = []model.StringMatch{
		{Offset: 20, Text: "hello"},
		{Offset: 28, Text: "v1.2.3"},
	}
	b.Fills = nil

	d := report.Compare(a, b)
	require.False(t, d.Equal())

	require.Empty(t, d.VectorsOnlyA)
	require.Empty(t, d.VectorsOnlyB)
	require.Empty(t, d.StringsOnlyA)
	require.Equal(t, []model.StringMatch{{Offset: 28, Text: "v1.2.3"}}, d.StringsOnlyB)
	require.Equal(t, a.Fills, d.FillsOnlyA)
	require.Empty(t, d.FillsOnlyB)

	var buf bytes.Buffer
	require.NoError(t, d.Render(&buf))
	out := buf.String()
	require.Contains(t, out, "--- fw.bin (32 bytes)")
	require.Contains(t, out, "+++ fw2.bin (32 bytes)")
	require.Contains(t, out, "+ 0x0000001c: \"v1.2.3\"")
	require.Contains(t, out, "- 0x00000000: 0xff x 16")
}

func TestCompareMovedStringShowsOnBothSides(t *testing.T) {
	a := model.ScanReport{ImageSize: 64, Strings: []model.StringMatch{{Offset: 8, Text: "boot"}}}
	b := model.ScanReport{ImageSize: 64, Strings: []model.StringMatch{{Offset: 12, Text: "boot"}}}

	d := report.Compare(a, b)
	require.Equal(t, a.Strings, d.StringsOnlyA)
	require.Equal(t, b.Strings, d.StringsOnlyB)
}

func TestCompareSizeChangeOnly(t *testing.T) {
	a := model.ScanReport{ImageSize: 64}
	b := model.ScanReport{ImageSize: 128}
	require.False(t, report.Compare(a, b).Equal())
}

func TestDiffAsJSON(t *testing.T) {
	a := sampleReport()
	b := sampleReport()
	b.Path = "fw2.bin"
	b.Strings = append(b.Strings, model.StringMatch{Offset: 28, Text: "v1.2.3"})

	var buf bytes.Buffer
	require.NoError(t, report.DiffAsJSON(&buf, report.Compare(a, b)))

	var env report.Envelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	require.Len(t, env.Reports, 2)
	require.NotNil(t, env.Diff)
	require.Equal(t, []model.StringMatch{{Offset: 28, Text: "v1.2.3"}}, env.Diff.StringsOnlyB)
	require.Empty(t, env.Diff.StringsOnlyA)

	// empty difference lists must encode as [] and never as null
	require.NotContains(t, buf.String(), "null")
}
