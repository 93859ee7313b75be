package filesort

import (
	"cmp"
	"unicode"
	"unicode/utf8"
)

// Compare is the order every sorted file follows. It compares a and b rune by
// rune after simple case folding and returns a negative number when a sorts
// first, zero when the lines are equal ignoring case, and a positive number
// otherwise. A line sorts before every longer line it is a prefix of.
//
// Invalid UTF-8 decodes to utf8.RuneError one byte at a time, both here and in
// prefix extraction, so the two always agree on what a character is.
func Compare(a, b string) int {
	for len(a) > 0 && len(b) > 0 {
		ra, na := decodeRune(a)
		rb, nb := decodeRune(b)
		if ra != rb {
			if fa, fb := foldRune(ra), foldRune(rb); fa != fb {
				return cmp.Compare(fa, fb)
			}
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}

func decodeRune(s string) (rune, int) {
	if c := s[0]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(s)
}

func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	return unicode.ToLower(unicode.ToUpper(r))
}

// cutPrefix returns the first depth characters of line. ok is false when the
// line is shorter than depth.
func cutPrefix(line string, depth int) (prefix string, ok bool) {
	i := 0
	for range depth {
		if i >= len(line) {
			return "", false
		}
		_, n := decodeRune(line[i:])
		i += n
	}
	return line[:i], true
}
