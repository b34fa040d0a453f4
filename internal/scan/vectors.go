package scan

import (
	"encoding/binary"

	"github.com/flashlens/flashlens/internal/model"
)

// VectorCandidates reports every 4-byte-aligned little-endian word whose high
// 16 bits match one of bases. ARM vector tables are word aligned, so
// unaligned matches are never reported. Results are ordered by offset.
func VectorCandidates(b []byte, bases []uint32) []model.VectorCandidate {
	var out []model.VectorCandidate
	for off := 0; off+4 <= len(b); off += 4 {
		value := binary.LittleEndian.Uint32(b[off:])
		pattern := value & 0xFFFF0000
		for _, base := range bases {
			if pattern != base&0xFFFF0000 {
				continue
			}
			out = append(out, model.VectorCandidate{
				Offset:      off,
				Value:       value,
				MatchedBase: pattern,
			})
			break
		}
	}
	return out
}
