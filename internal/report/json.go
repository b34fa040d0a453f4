package report

import (
	"encoding/json"
	"io"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/flashlens/flashlens/internal/model"
)

var version string

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		version = "unknown"
	} else {
		version = info.Main.Version
	}
}

// Envelope is the machine readable form of one or more scans, ready for a
// comparison between runs.
type Envelope struct {
	SerialNumber string             `json:"serialNumber"`
	GeneratedAt  string             `json:"generatedAt"`
	Tool         Tool               `json:"tool"`
	Reports      []model.ScanReport `json:"reports"`
	Diff         *Diff              `json:"diff,omitempty"`
}

type Tool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewEnvelope wraps reports with a fresh serial number and timestamp. The
// finding slices are never nil so the JSON schema stays stable.
func NewEnvelope(reports ...model.ScanReport) Envelope {
	if reports == nil {
		reports = []model.ScanReport{}
	}
	for i := range reports {
		if reports[i].Vectors == nil {
			reports[i].Vectors = []model.VectorCandidate{}
		}
		if reports[i].Strings == nil {
			reports[i].Strings = []model.StringMatch{}
		}
		if reports[i].Fills == nil {
			reports[i].Fills = []model.FillRegion{}
		}
	}
	return Envelope{
		SerialNumber: "urn:uuid:" + uuid.New().String(),
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Tool: Tool{
			Name:    "flashlens",
			Version: version,
		},
		Reports: reports,
	}
}

// AsJSON encodes reports into indented JSON.
func AsJSON(w io.Writer, reports ...model.ScanReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewEnvelope(reports...))
}

// DiffAsJSON encodes both reports together with their symmetric difference.
func DiffAsJSON(w io.Writer, d Diff) error {
	if d.VectorsOnlyA == nil {
		d.VectorsOnlyA = []model.VectorCandidate{}
	}
	if d.VectorsOnlyB == nil {
		d.VectorsOnlyB = []model.VectorCandidate{}
	}
	if d.StringsOnlyA == nil {
		d.StringsOnlyA = []model.StringMatch{}
	}
	if d.StringsOnlyB == nil {
		d.StringsOnlyB = []model.StringMatch{}
	}
	if d.FillsOnlyA == nil {
		d.FillsOnlyA = []model.FillRegion{}
	}
	if d.FillsOnlyB == nil {
		d.FillsOnlyB = []model.FillRegion{}
	}
	env := NewEnvelope(d.A, d.B)
	env.Diff = &d
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
