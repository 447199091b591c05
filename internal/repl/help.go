// ABOUTME: The :help text, rendered as markdown for the terminal width.
// ABOUTME: Falls back to the raw markdown when rendering fails.

package repl

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mauromedda/irepl/internal/log"
)

const helpText = `# irepl

Rust expressions are printed with ` + "`{:?}`" + `. Statements ending in ` + "`;`" + ` or ` + "`}`" + `
are kept and run before every later input.

| Command | Effect |
|---|---|
| ` + "`:help`" + ` | show this help |
| ` + "`:reset`" + ` | forget every kept statement |
| ` + "`:show`" + ` | print the current program |
| ` + "`:pop`" + ` | drop the last kept statement |
| ` + "`:del <n>`" + ` | drop statement number n |
| ` + "`:sync`" + ` | reload statements from the external file |
| ` + "`:exit`" + `, ` + "`:quit`" + ` | leave |

| Key | Effect |
|---|---|
| Enter | evaluate, or new line while brackets are open |
| Alt-Enter | new line |
| Ctrl-E | evaluate now |
| Up, Down | history |
| Ctrl-R | search history |
| Ctrl-C | clear input |
| Ctrl-D | exit on empty input |
| Ctrl-L | clear screen |
| Ctrl-Z | suspend |
`

func renderHelp(cols int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(cols),
	)
	if err != nil {
		log.Debug("repl: help renderer: %v", err)
		return helpText
	}
	out, err := r.Render(helpText)
	if err != nil {
		log.Debug("repl: rendering help: %v", err)
		return helpText
	}
	return strings.Trim(out, "\n")
}
