// ABOUTME: Display width of terminal text: grapheme aware, escape sequences count as zero.
// ABOUTME: Also maps a column offset onto rows of a terminal with a fixed number of columns.

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Visible returns the number of cells s occupies.
func Visible(s string) int {
	if isPlainASCII(s) {
		return len(s)
	}
	s = StripANSI(s)
	w := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		r, _ := utf8.DecodeRuneInString(cluster)
		w += runewidth.RuneWidth(r)
	}
	return w
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// StripANSI removes CSI and OSC sequences and lone two-byte escapes.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\x1b') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\x1b' {
			b.WriteByte(s[i])
			i++
			continue
		}
		i = skipEscape(s, i)
	}
	return b.String()
}

// skipEscape returns the index just past the sequence starting at s[i].
func skipEscape(s string, i int) int {
	i++
	if i >= len(s) {
		return i
	}
	switch s[i] {
	case '[':
		for i++; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
	case ']':
		for i++; i < len(s); i++ {
			if s[i] == '\x07' {
				return i + 1
			}
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
	default:
		return i + 1
	}
	return i
}

// Rows is how many terminal rows a line of w cells takes when the cursor
// is left after it: a line filling the last column exactly still gets a
// fresh row for the cursor.
func Rows(w, cols int) int {
	if cols <= 0 {
		return 1
	}
	return w/cols + 1
}

// Span is how many rows a line of w cells takes when followed by a line
// break.
func Span(w, cols int) int {
	if cols <= 0 || w == 0 {
		return 1
	}
	return (w + cols - 1) / cols
}
