package scan

import "github.com/flashlens/flashlens/internal/model"

func printable(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}

// Strings reports maximal runs of printable ASCII of at least minLength
// bytes, ordered by offset. Runs never overlap. Edge spaces are trimmed
// before the length check: 0x20 is both the space character and the high
// byte of every 0x20xxxxxx RAM address, so raw dumps are full of spurious
// spaces glued to real text.
func Strings(b []byte, minLength int) []model.StringMatch {
	var out []model.StringMatch
	start := -1
	emit := func(start, end int) {
		for start < end && b[start] == ' ' {
			start++
		}
		for end > start && b[end-1] == ' ' {
			end--
		}
		if end-start >= minLength {
			out = append(out, model.StringMatch{Offset: start, Text: string(b[start:end])})
		}
	}
	for i, c := range b {
		if printable(c) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			emit(start, i)
		}
		start = -1
	}
	if start >= 0 {
		emit(start, len(b))
	}
	return out
}
