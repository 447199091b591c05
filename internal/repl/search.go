// ABOUTME: Reverse history search (Ctrl-R): fuzzy matches, newest first.
// ABOUTME: Enter or any unbound key accepts the match; Escape and Ctrl-C restore the input.

package repl

import (
	"context"

	"github.com/mauromedda/irepl/pkg/tui/key"
)

type search struct {
	query   string
	matches []string
	idx     int
	// saved is the input before the search started.
	saved string
}

func (s *search) current() string {
	if s.idx < len(s.matches) {
		return s.matches[s.idx]
	}
	return ""
}

func (s *Session) startSearch(context.Context) (bool, error) {
	s.search = &search{saved: s.buf.Text()}
	s.refreshSearch()
	return false, nil
}

func (s *Session) refreshSearch() {
	s.search.matches = s.hist.Search(s.search.query)
	s.search.idx = 0
}

func (s *Session) handleSearch(k key.Key) {
	sr := s.search
	switch {
	case k == key.Ctrl('r'):
		if len(sr.matches) > 0 {
			sr.idx = (sr.idx + 1) % len(sr.matches)
		}
	case k == key.Ctrl('c') || k.Code == key.CodeEscape:
		s.buf.Set(sr.saved)
		s.search = nil
	case k.Code == key.CodeBackspace:
		if sr.query != "" {
			q := []rune(sr.query)
			sr.query = string(q[:len(q)-1])
			s.refreshSearch()
		}
	default:
		if r, ok := insertable(k); ok {
			sr.query += string(r)
			s.refreshSearch()
			return
		}
		if m := sr.current(); m != "" {
			s.buf.Set(m)
		} else {
			s.buf.Set(sr.saved)
		}
		s.search = nil
	}
}
