package model

import (
	"io"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	_ "embed"
)

//go:embed config.cue
var cueSource []byte

var (
	cueCtx *cue.Context
	schema cue.Value
)

func init() {
	if len(cueSource) == 0 {
		panic("variable cueSource is empty")
	}
	cueCtx = cuecontext.New()
	compiled := cueCtx.CompileBytes(cueSource)
	if compiled.Err() != nil {
		panic(compiled.Err())
	}

	if err := compiled.Validate(); err != nil {
		panic(err)
	}

	schema = compiled.LookupPath(cue.ParsePath("#Config"))
	if schema.Err() != nil {
		panic(schema.Err())
	}
	if err := schema.Validate(); err != nil {
		panic(err)
	}
}

type Config struct {
	Version int           `json:"version"` // fixed 0 for now
	Scan    ScanConfig    `json:"scan"`
	Layout  *LayoutConfig `json:"layout,omitempty"`
	Service ServiceConfig `json:"service"`
}

// ScanConfig mirrors the #Scan schema. Words are kept as strings so that a
// config file can spell addresses in hex, Options resolves them.
type ScanConfig struct {
	RAMBases        []string `json:"ram_bases"`
	MinStringLength int      `json:"min_string_length"`
	FillByte        int      `json:"fill_byte"`
	MinFillRun      int      `json:"min_fill_run"`
	MaxImageSize    int64    `json:"max_image_size"`
}

// LayoutConfig is a static flash partition layout.
type LayoutConfig struct {
	FlashSize  string            `json:"flash_size"`
	Partitions []PartitionConfig `json:"partitions"`
}

type PartitionConfig struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

type ServiceConfig struct {
	Verbose bool `json:"verbose"`
}

// DefaultConfig returns a configuration equal to a config file with every
// field left on its schema default.
func DefaultConfig() Config {
	return Config{
		Version: 0,
		Scan: ScanConfig{
			RAMBases:        []string{"0x20000000", "0x20001000", "0x20002000"},
			MinStringLength: 4,
			FillByte:        0xFF,
			MinFillRun:      16,
			MaxImageSize:    64 * 1024 * 1024,
		},
		Service: ServiceConfig{},
	}
}

// LoadConfig validates YAML from r against the CUE schema and decodes it.
func LoadConfig(r io.Reader) (Config, error) {
	yamlFile, err := yaml.Extract("flashlens.yaml", r)
	if err != nil {
		return Config{}, err
	}
	yamlValue := cueCtx.BuildFile(yamlFile)

	unified := schema.Unify(yamlValue)
	if err := unified.Validate(
		cue.All(),          // all constraints
		cue.Concrete(true), // no incomplete values
	); err != nil {
		return Config{}, err
	}

	var out Config
	if err := unified.Decode(&out); err != nil {
		return Config{}, err
	}

	return out, nil
}

// ParseWord parses a flash address or size given as decimal or 0x hex.
func ParseWord(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
