// ABOUTME: Bracket depth scanning over Rust source, skipping strings, chars, and comments.
// ABOUTME: Used to find statement boundaries and to tell when typed input is unfinished.

package shadow

// scanner tracks bracket depth across successive chunks of source.
type scanner struct {
	depth   int
	quote   bool
	escaped bool
}

func (sc *scanner) feed(text string) {
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if sc.quote {
			switch {
			case sc.escaped:
				sc.escaped = false
			case r == '\\':
				sc.escaped = true
			case r == '"':
				sc.quote = false
			}
			continue
		}
		switch r {
		case '"':
			sc.quote = true
		case '\'':
			i = skipChar(rs, i)
		case '/':
			if i+1 < len(rs) && rs[i+1] == '/' {
				for i < len(rs) && rs[i] != '\n' {
					i++
				}
			}
		case '(', '[', '{':
			sc.depth++
		case ')', ']', '}':
			sc.depth--
		}
	}
}

// balanced reports whether every bracket and string fed so far is closed.
func (sc *scanner) balanced() bool {
	return sc.depth <= 0 && !sc.quote
}

// skipChar returns the index of the closing quote of the char literal
// opening at rs[i], or i itself when the quote starts a lifetime.
func skipChar(rs []rune, i int) int {
	if i+1 < len(rs) && rs[i+1] == '\\' {
		for j := i + 3; j < len(rs) && rs[j] != '\n'; j++ {
			if rs[j] == '\'' {
				return j
			}
		}
		return i
	}
	if i+2 < len(rs) && rs[i+2] == '\'' {
		return i + 2
	}
	return i
}

// Unclosed reports whether text leaves a bracket or string literal open.
func Unclosed(text string) bool {
	var sc scanner
	sc.feed(text)
	return !sc.balanced()
}
