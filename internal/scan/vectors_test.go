package scan_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashlens/flashlens/internal/model"
	"github.com/flashlens/flashlens/internal/scan"
)

func word(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func TestVectorCandidates(t *testing.T) {
	bases := []uint32{0x20000000}

	tests := []struct {
		name  string
		input []byte
		want  []model.VectorCandidate
	}{
		{
			name:  "match at offset 0",
			input: word(0x20000400),
			want: []model.VectorCandidate{
				{Offset: 0, Value: 0x20000400, MatchedBase: 0x20000000},
			},
		},
		{
			name:  "no match",
			input: word(0x08000000),
			want:  nil,
		},
		{
			name:  "unaligned matches are not reported",
			input: append([]byte{0x00}, word(0x20001234)...), // 5 bytes, match only at offset 1
			want:  nil,
		},
		{
			name:  "trailing bytes shorter than a word are ignored",
			input: append(word(0x20008000), 0x00, 0x00, 0x20),
			want: []model.VectorCandidate{
				{Offset: 0, Value: 0x20008000, MatchedBase: 0x20000000},
			},
		},
		{
			name:  "multiple matches in ascending order",
			input: append(append(word(0x20000000), word(0x08000199)...), word(0x2000FFFC)...),
			want: []model.VectorCandidate{
				{Offset: 0, Value: 0x20000000, MatchedBase: 0x20000000},
				{Offset: 8, Value: 0x2000FFFC, MatchedBase: 0x20000000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan.VectorCandidates(tt.input, bases)
			require.Equal(t, tt.want, got)
			for _, v := range got {
				require.Zero(t, v.Offset%4)
				require.Less(t, v.Offset, len(tt.input)-3)
			}
		})
	}
}

func TestVectorCandidatesBaseNotNormalized(t *testing.T) {
	// a base given with a nonzero low half matches through its high 16 bits
	got := scan.VectorCandidates(word(0x20001FF0), []uint32{0x20001000})
	require.Equal(t, []model.VectorCandidate{
		{Offset: 0, Value: 0x20001FF0, MatchedBase: 0x20000000},
	}, got)
}
