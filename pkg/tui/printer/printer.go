// ABOUTME: Printer draws the prompt region and results onto a raw-mode terminal.
// ABOUTME: Output is buffered; the main loop flushes before it blocks for the next event.

package printer

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/irepl/pkg/tui/terminal"
	"github.com/mauromedda/irepl/pkg/tui/width"
)

const (
	clearBelow  = "\x1b[J"
	clearScreen = "\x1b[2J\x1b[H"
)

// Styles are the prompt and result decorations.
type Styles struct {
	In      lipgloss.Style
	Out     lipgloss.Style
	Error   lipgloss.Style
	Welcome lipgloss.Style
}

// DefaultStyles mirror a classic REPL: green input prompt, red output prompt.
func DefaultStyles() Styles {
	return Styles{
		In:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Out:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Welcome: lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Italic(true),
	}
}

// Printer is owned by the main goroutine.
type Printer struct {
	out    *bufio.Writer
	styles Styles
	cols   int

	inPrompt  string
	outPrompt string

	// Position of the cursor and of the end of the input region, in rows
	// below the region's first row.
	cursorRow int
	endRow    int
}

// New wraps t. The column count is read once; call Resize on changes.
func New(t terminal.Terminal, styles Styles) *Printer {
	cols, _, err := t.Size()
	if err != nil || cols <= 0 {
		cols = 80
	}
	return &Printer{
		out:       bufio.NewWriter(t),
		styles:    styles,
		cols:      cols,
		inPrompt:  styles.In.Render("In: "),
		outPrompt: styles.Out.Render("Out: "),
	}
}

// Resize records a new column count.
func (p *Printer) Resize(cols int) {
	if cols > 0 {
		p.cols = cols
	}
}

// SetTitle sets the terminal window title.
func (p *Printer) SetTitle(title string) {
	fmt.Fprintf(p.out, "\x1b]0;%s\x07", title)
}

// Welcome prints the banner line.
func (p *Printer) Welcome(msg string) {
	p.line(p.styles.Welcome.Render(msg))
}

// Clear wipes the screen and homes the cursor.
func (p *Printer) Clear() {
	p.out.WriteString(clearScreen)
	p.cursorRow, p.endRow = 0, 0
}

// DrawInput redraws the prompt region with text and places the cursor at
// the byte offset cursor.
func (p *Printer) DrawInput(text string, cursor int) {
	p.draw(p.inPrompt, text, cursor)
}

// DrawSearch shows the reverse history search prompt with the current match.
func (p *Printer) DrawSearch(query, match string) {
	prompt := p.styles.In.Render(fmt.Sprintf("(search)`%s': ", query))
	p.draw(prompt, match, len(match))
}

func (p *Printer) draw(prompt, text string, cursor int) {
	if p.cursorRow > 0 {
		fmt.Fprintf(p.out, "\x1b[%dA", p.cursorRow)
	}
	p.out.WriteString("\r" + clearBelow)

	cursor = min(max(cursor, 0), len(text))
	lines := strings.Split(text, "\n")
	promptW := width.Visible(prompt)
	indent := strings.Repeat(" ", promptW)

	var row, curRow, curCol, seen int
	for i, l := range lines {
		prefix := indent
		if i == 0 {
			prefix = prompt
		}
		p.out.WriteString(prefix)
		p.out.WriteString(l)

		w := promptW + width.Visible(l)
		last := i == len(lines)-1

		if cursor >= seen && cursor <= seen+len(l) {
			c := promptW + width.Visible(l[:cursor-seen])
			curRow, curCol = row+c/p.cols, c%p.cols
			if !last && c > 0 && c%p.cols == 0 {
				curRow, curCol = curRow-1, p.cols-1
			}
		}
		seen += len(l) + 1

		if last {
			if w > 0 && w%p.cols == 0 {
				// Leave the pending-wrap state so row arithmetic holds.
				p.out.WriteString("\r\n")
			}
			row += width.Rows(w, p.cols) - 1
			break
		}
		p.out.WriteString("\r\n")
		row += width.Span(w, p.cols)
	}

	if up := row - curRow; up > 0 {
		fmt.Fprintf(p.out, "\x1b[%dA", up)
	}
	p.out.WriteString("\r")
	if curCol > 0 {
		fmt.Fprintf(p.out, "\x1b[%dC", curCol)
	}
	p.cursorRow, p.endRow = curRow, row
}

// Commit leaves the input region as it is and moves below it.
func (p *Printer) Commit() {
	if down := p.endRow - p.cursorRow; down > 0 {
		fmt.Fprintf(p.out, "\x1b[%dB", down)
	}
	p.out.WriteString("\r\n")
	p.cursorRow, p.endRow = 0, 0
}

// Output prints an evaluation result after the Out prompt.
func (p *Printer) Output(s string) {
	if s == "" {
		return
	}
	p.line(p.outPrompt + s)
}

// Error prints diagnostics.
func (p *Printer) Error(s string) {
	if s == "" {
		return
	}
	p.line(p.styles.Error.Render(strings.TrimRight(s, "\n")))
}

// Text prints s unstyled.
func (p *Printer) Text(s string) {
	p.line(s)
}

// line writes s followed by a blank line, translating newlines for raw mode.
func (p *Printer) line(s string) {
	s = strings.TrimRight(s, "\n")
	p.out.WriteString(strings.ReplaceAll(s, "\n", "\r\n"))
	p.out.WriteString("\r\n\r\n")
}

// Flush writes everything buffered to the terminal.
func (p *Printer) Flush() error {
	return p.out.Flush()
}
