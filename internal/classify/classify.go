// ABOUTME: Separates diagnostics from build-progress noise in captured build-and-run output.
// ABOUTME: Keeps whole diagnostic blocks (header through the next blank line) and drops the rest.

package classify

import "strings"

// Classifier filters captured build output. The zero value is not useful;
// use New or Default.
type Classifier struct {
	progressMarker    string
	diagnosticMarkers []string
}

// New returns a Classifier that treats text containing progressMarker as
// build output and keeps blocks whose first line starts with one of
// diagnosticMarkers.
func New(progressMarker string, diagnosticMarkers []string) *Classifier {
	return &Classifier{
		progressMarker:    progressMarker,
		diagnosticMarkers: append([]string(nil), diagnosticMarkers...),
	}
}

// Default returns the cargo-flavoured classifier.
func Default() *Classifier {
	return New("Compiling", []string{"warning", "error"})
}

// Clean returns output unchanged when it carries no progress marker.
// Otherwise only lines inside diagnostic blocks survive, each terminated
// by a newline.
func (c *Classifier) Clean(output string) string {
	if c.progressMarker == "" || !strings.Contains(output, c.progressMarker) {
		return output
	}

	var b strings.Builder
	inBlock := false
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case c.isDiagnostic(line):
			inBlock = true
		case line == "":
			inBlock = false
		}
		if inBlock {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *Classifier) isDiagnostic(line string) bool {
	for _, m := range c.diagnosticMarkers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}
