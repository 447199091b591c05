// ABOUTME: In-memory input history with Up/Down navigation and Ctrl-R fuzzy search.
// ABOUTME: Entries are NFC-normalized so visually equal inputs collapse into one.

package history

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// History is owned by the main loop and is not safe for concurrent use.
type History struct {
	entries []string
	// pos is the entry being shown while navigating; len(entries) means
	// the user's own draft.
	pos   int
	draft string
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// Add records entry as the most recent. Blank entries are ignored and an
// earlier identical entry is moved to the end. Navigation is reset.
func (h *History) Add(entry string) {
	defer h.Reset()
	if strings.TrimSpace(entry) == "" {
		return
	}
	entry = norm.NFC.String(entry)
	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, entry)
}

// Reset ends navigation.
func (h *History) Reset() {
	h.pos = len(h.entries)
	h.draft = ""
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns the entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Prev moves one entry back. current is remembered as the draft when
// navigation starts so Next can return to it.
func (h *History) Prev(current string) (string, bool) {
	if h.pos == 0 {
		return "", false
	}
	if h.pos == len(h.entries) {
		h.draft = current
	}
	h.pos--
	return h.entries[h.pos], true
}

// Next moves one entry forward, ending at the saved draft.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.pos], true
}

// recent presents entries newest first so equal scores favor recency.
type recent []string

func (r recent) String(i int) string { return r[len(r)-1-i] }
func (r recent) Len() int            { return len(r) }

// Search returns entries matching pattern, best first. An empty pattern
// returns every entry, newest first.
func (h *History) Search(pattern string) []string {
	src := recent(h.entries)
	if pattern == "" {
		out := make([]string, src.Len())
		for i := range out {
			out[i] = src.String(i)
		}
		return out
	}
	matches := fuzzy.FindFrom(norm.NFC.String(pattern), src)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}
