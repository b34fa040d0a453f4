package model

import "encoding/json"

// VectorCandidate is a 4-byte-aligned little-endian word whose high 16 bits
// match one of the configured RAM bases. On Cortex-M parts the word at offset
// 0 of a valid firmware is the initial stack pointer, so such words are a
// cheap heuristic for vector tables inside a raw dump.
type VectorCandidate struct {
	Offset      int    `json:"offset"`
	Value       uint32 `json:"value"`
	MatchedBase uint32 `json:"matchedBase"` // value & 0xFFFF0000
}

// StringMatch is a maximal run of printable ASCII bytes. Every byte of Text
// is within [0x20, 0x7E] and len(Text) >= the configured minimum.
type StringMatch struct {
	Offset int    `json:"offset"`
	Text   string `json:"text"`
}

// MarshalJSON adds the byte length next to the text so consumers do not have
// to recompute it.
func (s StringMatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Offset int    `json:"offset"`
		Text   string `json:"text"`
		Length int    `json:"length"`
	}{Offset: s.Offset, Text: s.Text, Length: len(s.Text)})
}

// FillRegion is a maximal run of a single fill byte, End is exclusive.
// Erased NOR flash reads as 0xFF, zeroed regions as 0x00.
type FillRegion struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Fill  byte `json:"fill"`
}

// Len returns a number of bytes covered by the region.
func (r FillRegion) Len() int {
	return r.End - r.Start
}

// ScanReport aggregates every finding of a single image scan. All three
// sequences are ordered by ascending offset and never mutated after the scan
// returns.
type ScanReport struct {
	Path      string            `json:"path"`
	ImageSize int               `json:"imageSize"`
	Vectors   []VectorCandidate `json:"vectorCandidates"`
	Strings   []StringMatch     `json:"strings"`
	Fills     []FillRegion      `json:"fillRegions"`
}
