// ABOUTME: Submitting input: Rust evaluation through the shadow project and colon commands.
// ABOUTME: Every result passes through the OutputEvent hook before it is printed.

package repl

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mauromedda/irepl/internal/shadow"
)

type resultKind int

const (
	resultValue resultKind = iota
	resultText
	resultError
)

type result struct {
	text string
	kind resultKind
	quit bool
}

func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), ":")
}

// submit evaluates the whole buffer and prints the result.
func (s *Session) submit(ctx context.Context) (bool, error) {
	input := s.buf.Text()
	s.out.Commit()
	s.buf.Clear()
	if strings.TrimSpace(input) == "" {
		return false, nil
	}
	s.hist.Add(input)

	var res result
	if isCommand(input) {
		res = s.command(input)
	} else {
		res = s.eval(ctx, input)
	}
	if res.quit {
		return true, nil
	}

	out := s.hooks.OutputEvent(ctx, input, res.text)
	switch {
	case out != res.text:
		s.out.Output(out)
	case res.kind == resultError:
		s.out.Error(out)
	case res.kind == resultText:
		s.out.Text(out)
	default:
		s.out.Output(out)
	}
	return false, nil
}

// eval runs input as Rust. A statement joins the body when it builds; an
// expression is printed with its Debug formatting.
func (s *Session) eval(ctx context.Context, input string) result {
	code := strings.TrimSpace(input)

	if shadow.IsStatement(code) {
		body := append(slices.Clone(s.body), code)
		stdout, res := s.run(ctx, shadow.Program(body, ""))
		if res.kind == resultError {
			return res
		}
		s.body = body
		s.seen = stdout
		s.persist()
		return res
	}

	_, res := s.run(ctx, shadow.Program(s.body, code))
	if res.kind != resultError {
		res.text = strings.TrimRight(res.text, "\n")
	}
	return res
}

// run builds and runs source. The result holds the stdout the accepted body
// has not printed yet, or the cleaned build diagnostics.
func (s *Session) run(ctx context.Context, source string) (string, result) {
	out, err := s.runner.Run(ctx, source)
	if err != nil {
		return "", result{text: err.Error(), kind: resultError}
	}
	if out.ExitCode != 0 {
		return "", result{text: s.classify.Clean(out.Stderr + out.Stdout), kind: resultError}
	}
	return out.Stdout, result{text: strings.TrimPrefix(out.Stdout, s.seen), kind: resultValue}
}

// command runs a colon command.
func (s *Session) command(input string) result {
	fields := strings.Fields(strings.TrimSpace(input))
	name, args := fields[0], fields[1:]

	switch name {
	case ":exit", ":quit":
		return result{quit: true}
	case ":help":
		return result{text: renderHelp(s.cols), kind: resultText}
	case ":reset":
		s.body = nil
		s.seen = ""
		s.persist()
		return ok()
	case ":show":
		return result{text: shadow.Program(s.body, ""), kind: resultText}
	case ":pop":
		if len(s.body) == 0 {
			return failed("nothing to pop")
		}
		s.body = s.body[:len(s.body)-1]
		s.seen = ""
		s.persist()
		return ok()
	case ":del":
		if len(args) != 1 {
			return failed("usage: :del <line>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(s.body) {
			return failed(fmt.Sprintf("no statement %q (have %d)", args[0], len(s.body)))
		}
		s.body = slices.Delete(s.body, n-1, n)
		s.seen = ""
		s.persist()
		return ok()
	case ":sync":
		body, err := s.ws.ReadExtern()
		if err != nil {
			return failed(err.Error())
		}
		s.body = body
		s.seen = ""
		return ok()
	}
	return failed(fmt.Sprintf("unknown command %s, try :help", name))
}

func ok() result               { return result{text: "Ok!", kind: resultText} }
func failed(msg string) result { return result{text: msg, kind: resultError} }
