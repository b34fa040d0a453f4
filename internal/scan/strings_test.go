package scan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flashlens/flashlens/internal/model"
	"github.com/flashlens/flashlens/internal/scan"
)

func TestStrings(t *testing.T) {
	tests := []struct {
		name      string
		input     []byte
		minLength int
		want      []model.StringMatch
	}{
		{
			name:      "single string terminated by NUL",
			input:     []byte("hello\x00"),
			minLength: 4,
			want:      []model.StringMatch{{Offset: 0, Text: "hello"}},
		},
		{
			name:      "string at end of image",
			input:     []byte("\x00world"),
			minLength: 4,
			want:      []model.StringMatch{{Offset: 1, Text: "world"}},
		},
		{
			name:      "short runs are discarded",
			input:     []byte("ab\x00cd\x00efg\x00"),
			minLength: 4,
			want:      nil,
		},
		{
			name:      "interior space kept, edge space trimmed",
			input:     []byte{0x00, ' ', 'h', 'i', ' ', 't', 'h', 'e', 'r', 'e', ' ', 0xFF},
			minLength: 4,
			want:      []model.StringMatch{{Offset: 2, Text: "hi there"}},
		},
		{
			name:      "spaces only run is dropped",
			input:     []byte("\xff    \xff"),
			minLength: 1,
			want:      nil,
		},
		{
			name:      "two separate runs never overlap",
			input:     []byte("first\x00\x01second"),
			minLength: 4,
			want: []model.StringMatch{
				{Offset: 0, Text: "first"},
				{Offset: 7, Text: "second"},
			},
		},
		{
			name:      "bytes above 0x7E break a run",
			input:     []byte{'t', 'e', 'x', 't', 0x7F, 'm', 'o', 'r', 'e'},
			minLength: 4,
			want: []model.StringMatch{
				{Offset: 0, Text: "text"},
				{Offset: 5, Text: "more"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan.Strings(tt.input, tt.minLength)
			require.Equal(t, tt.want, got)

			prevEnd := -1
			for _, m := range got {
				require.GreaterOrEqual(t, len(m.Text), tt.minLength)
				require.Greater(t, m.Offset, prevEnd, "matches must not overlap")
				prevEnd = m.Offset + len(m.Text) - 1
				for _, c := range []byte(m.Text) {
					require.True(t, c >= 0x20 && c <= 0x7E)
				}
			}
		})
	}
}
