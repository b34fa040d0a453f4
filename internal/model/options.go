package model

import "fmt"

// ScanOptions are the resolved knobs a scan runs with. Unlike ScanConfig all
// values are already parsed, Validate must pass before any file is touched.
type ScanOptions struct {
	RAMBases        []uint32 // high 16 bits of a plausible stack pointer
	MinStringLength int
	FillByte        byte
	MinFillRun      int
	MaxImageSize    int64
}

// DefaultScanOptions mirrors the schema defaults of #Scan.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		RAMBases:        []uint32{0x20000000, 0x20001000, 0x20002000},
		MinStringLength: 4,
		FillByte:        0xFF,
		MinFillRun:      16,
		MaxImageSize:    64 * 1024 * 1024,
	}
}

// Options resolves a ScanConfig into ScanOptions, parsing the RAM base words
// and validating the result.
func (c ScanConfig) Options() (ScanOptions, error) {
	opts := ScanOptions{
		MinStringLength: c.MinStringLength,
		MinFillRun:      c.MinFillRun,
		MaxImageSize:    c.MaxImageSize,
	}
	if c.FillByte < 0 || c.FillByte > 0xFF {
		return ScanOptions{}, ConfigError{Path: "scan.fill_byte", Message: "must be in range 0..255"}
	}
	opts.FillByte = byte(c.FillByte)
	for _, s := range c.RAMBases {
		base, err := ParseWord(s)
		if err != nil {
			return ScanOptions{}, ConfigError{Path: "scan.ram_bases", Message: fmt.Sprintf("%q is not an address: %v", s, err)}
		}
		opts.RAMBases = append(opts.RAMBases, base)
	}
	opts.RAMBases = NormalizeBases(opts.RAMBases)
	if err := opts.Validate(); err != nil {
		return ScanOptions{}, err
	}
	return opts, nil
}

// NormalizeBases masks every base to its high 16 bits and drops duplicates.
// A stack pointer matches a base through value & 0xFFFF0000, so bases given
// with a nonzero low half (eg 0x20001000) collapse to the same pattern.
func NormalizeBases(bases []uint32) []uint32 {
	seen := make(map[uint32]struct{}, len(bases))
	out := make([]uint32, 0, len(bases))
	for _, base := range bases {
		base &= 0xFFFF0000
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		out = append(out, base)
	}
	return out
}

// Validate checks the options before any scan runs.
func (o ScanOptions) Validate() error {
	if len(o.RAMBases) == 0 {
		return ConfigError{Path: "scan.ram_bases", Message: "must not be empty"}
	}
	if o.MinStringLength < 1 {
		return ConfigError{Path: "scan.min_string_length", Message: "must be positive"}
	}
	if o.MinFillRun < 1 {
		return ConfigError{Path: "scan.min_fill_run", Message: "must be positive"}
	}
	if o.MaxImageSize < 1 {
		return ConfigError{Path: "scan.max_image_size", Message: "must be positive"}
	}
	return nil
}
