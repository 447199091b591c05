// ABOUTME: Defines the Key type (code + modifier set) and ParseKey for raw terminal input.
// ABOUTME: Handles printable runes, Ctrl+letter bytes, Alt prefixes, and legacy escape sequences.

package key

import (
	"strings"
	"unicode/utf8"
)

// Code identifies the non-modifier part of a key press.
type Code int

const (
	CodeRune      Code = iota // Printable character; Key.Rune holds it
	CodeEnter                 // Enter / Return
	CodeTab                   // Tab
	CodeBackTab               // Shift+Tab
	CodeBackspace             // Backspace / DEL (0x7F)
	CodeDelete                // Delete key
	CodeUp                    // Arrow up
	CodeDown                  // Arrow down
	CodeLeft                  // Arrow left
	CodeRight                 // Arrow right
	CodeHome                  // Home
	CodeEnd                   // End
	CodePageUp                // Page Up
	CodePageDown              // Page Down
	CodeEscape                // Escape
	CodeUnknown               // Unrecognized input
)

// Mod is a bit set of active modifiers.
type Mod uint8

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// Has reports whether every modifier in other is set in m.
func (m Mod) Has(other Mod) bool {
	return m&other == other
}

// Key represents a parsed keyboard input event. Key is comparable and is
// used directly as a lookup key in command tables.
type Key struct {
	Code Code
	Rune rune // For CodeRune; lower-case letter for Ctrl+letter
	Mod  Mod
}

// Rune returns a plain printable key.
func Rune(r rune) Key {
	return Key{Code: CodeRune, Rune: r}
}

// Ctrl returns the Ctrl+r combination.
func Ctrl(r rune) Key {
	return Key{Code: CodeRune, Rune: r, Mod: ModCtrl}
}

// ParseKey parses one complete input sequence into a Key.
// Use Split to cut a raw read into sequences first.
func ParseKey(data string) Key {
	if len(data) == 0 {
		return Key{Code: CodeUnknown}
	}

	if len(data) == 1 {
		return parseSingleByte(data[0])
	}

	if data[0] == 0x1b {
		return parseEscapeSequence(data)
	}

	r, _ := utf8.DecodeRuneInString(data)
	if r == utf8.RuneError {
		return Key{Code: CodeUnknown}
	}
	return Rune(r)
}

// parseSingleByte handles a single-byte input (ASCII or control character).
func parseSingleByte(b byte) Key {
	switch {
	case b == 0x0d, b == 0x0a:
		return Key{Code: CodeEnter}
	case b == 0x09:
		return Key{Code: CodeTab}
	case b == 0x7f, b == 0x08:
		return Key{Code: CodeBackspace}
	case b == 0x1b:
		return Key{Code: CodeEscape}
	case b >= 0x20 && b <= 0x7e:
		return Rune(rune(b))
	case b >= 0x01 && b <= 0x1a:
		return Ctrl(rune('a' + b - 1))
	}
	return Key{Code: CodeUnknown}
}

// parseEscapeSequence resolves ESC-prefixed data.
func parseEscapeSequence(data string) Key {
	if k, ok := legacySequences[data]; ok {
		return k
	}

	// Alt+<key>: ESC followed by exactly one key
	rest := data[1:]
	if len(Split(rest)) == 1 && rest[0] != 0x1b {
		k := ParseKey(rest)
		if k.Code != CodeUnknown {
			k.Mod |= ModAlt
			return k
		}
	}

	return Key{Code: CodeUnknown}
}

// Split cuts a raw read into individual key sequences. CSI sequences end at
// their final byte, SS3 sequences are three bytes, ESC+key is Alt+key, and
// everything else is one UTF-8 rune.
func Split(data string) []string {
	var seqs []string
	for len(data) > 0 {
		n := sequenceLen(data)
		seqs = append(seqs, data[:n])
		data = data[n:]
	}
	return seqs
}

func sequenceLen(data string) int {
	if data[0] != 0x1b {
		_, n := utf8.DecodeRuneInString(data)
		return n
	}
	if len(data) == 1 {
		return 1
	}
	switch data[1] {
	case '[':
		for i := 2; i < len(data); i++ {
			if data[i] >= 0x40 && data[i] <= 0x7e {
				return i + 1
			}
		}
		return len(data)
	case 'O':
		return min(3, len(data))
	case 0x1b:
		return 1
	}
	_, n := utf8.DecodeRuneInString(data[1:])
	return 1 + n
}

var codeNames = map[Code]string{
	CodeEnter:     "Enter",
	CodeTab:       "Tab",
	CodeBackTab:   "BackTab",
	CodeBackspace: "Backspace",
	CodeDelete:    "Delete",
	CodeUp:        "Up",
	CodeDown:      "Down",
	CodeLeft:      "Left",
	CodeRight:     "Right",
	CodeHome:      "Home",
	CodeEnd:       "End",
	CodePageUp:    "PageUp",
	CodePageDown:  "PageDown",
	CodeEscape:    "Escape",
	CodeUnknown:   "Unknown",
}

// String returns a human-readable form such as "Ctrl+Alt+x" or "Enter".
func (k Key) String() string {
	var b strings.Builder
	if k.Mod.Has(ModCtrl) {
		b.WriteString("Ctrl+")
	}
	if k.Mod.Has(ModAlt) {
		b.WriteString("Alt+")
	}
	if k.Mod.Has(ModShift) && k.Code != CodeBackTab {
		b.WriteString("Shift+")
	}
	if k.Code == CodeRune {
		b.WriteRune(k.Rune)
		return b.String()
	}
	name, ok := codeNames[k.Code]
	if !ok {
		name = "Unknown"
	}
	b.WriteString(name)
	return b.String()
}
