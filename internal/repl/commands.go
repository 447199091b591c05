// ABOUTME: Fixed key-to-command table for the input line.
// ABOUTME: Unbound combinations are no-ops; printable runes are inserted.

package repl

import (
	"context"

	"github.com/mauromedda/irepl/internal/log"
	"github.com/mauromedda/irepl/internal/shadow"
	"github.com/mauromedda/irepl/pkg/tui/key"
)

const indentUnit = "    "

// command handles one key. It returns true to end the session.
type command func(s *Session, ctx context.Context) (bool, error)

func edit(fn func(Buffer)) command {
	return func(s *Session, _ context.Context) (bool, error) {
		fn(s.buf)
		return false, nil
	}
}

func noop(*Session, context.Context) (bool, error) { return false, nil }

var commands = commandTable()

func commandTable() map[key.Key]command {
	t := make(map[key.Key]command)
	bind := func(c key.Code, m key.Mod, cmd command) {
		t[key.Key{Code: c, Mod: m}] = cmd
	}

	bind(key.CodeEnter, key.ModNone, (*Session).enter)
	bind(key.CodeEnter, key.ModShift, (*Session).enter)
	bind(key.CodeEnter, key.ModCtrl, (*Session).enter)
	bind(key.CodeEnter, key.ModAlt, edit(func(b Buffer) { b.Insert("\n") }))
	bind(key.CodeTab, key.ModNone, edit(func(b Buffer) { b.Insert(indentUnit) }))
	bind(key.CodeBackTab, key.ModNone, noop)
	bind(key.CodeBackTab, key.ModShift, noop)

	bind(key.CodeLeft, key.ModNone, edit(Buffer.Left))
	bind(key.CodeRight, key.ModNone, edit(Buffer.Right))
	bind(key.CodeLeft, key.ModCtrl, edit(Buffer.WordLeft))
	bind(key.CodeRight, key.ModCtrl, edit(Buffer.WordRight))
	bind(key.CodeLeft, key.ModAlt, edit(Buffer.WordLeft))
	bind(key.CodeRight, key.ModAlt, edit(Buffer.WordRight))
	bind(key.CodeHome, key.ModNone, edit(Buffer.Home))
	bind(key.CodeEnd, key.ModNone, edit(Buffer.End))
	bind(key.CodeUp, key.ModNone, (*Session).historyPrev)
	bind(key.CodeDown, key.ModNone, (*Session).historyNext)
	bind(key.CodeBackspace, key.ModNone, edit(Buffer.Backspace))
	bind(key.CodeDelete, key.ModNone, edit(Buffer.Delete))

	t[key.Ctrl('e')] = (*Session).forceEval
	t[key.Ctrl('c')] = (*Session).cancel
	t[key.Ctrl('d')] = (*Session).eof
	t[key.Ctrl('l')] = (*Session).clearScreen
	t[key.Ctrl('r')] = (*Session).startSearch
	t[key.Ctrl('z')] = (*Session).suspendProcess
	return t
}

func (s *Session) dispatch(ctx context.Context, k key.Key) (bool, error) {
	if cmd, ok := commands[k]; ok {
		return cmd(s, ctx)
	}
	if r, ok := insertable(k); ok {
		s.buf.Insert(string(r))
		return false, nil
	}
	log.Debug("repl: unbound key %s", k)
	return false, nil
}

// insertable reports the rune a key types. Ctrl+Alt is how AltGr reaches
// a raw terminal on some layouts.
func insertable(k key.Key) (rune, bool) {
	if k.Code != key.CodeRune {
		return 0, false
	}
	switch k.Mod {
	case key.ModNone, key.ModShift, key.ModCtrl | key.ModAlt:
		return k.Rune, true
	}
	return 0, false
}

func (s *Session) enter(ctx context.Context) (bool, error) {
	text := s.buf.Text()
	if !isCommand(text) && shadow.Unclosed(text) {
		s.buf.Insert("\n")
		return false, nil
	}
	return s.submit(ctx)
}

func (s *Session) forceEval(ctx context.Context) (bool, error) {
	return s.submit(ctx)
}

func (s *Session) historyPrev(context.Context) (bool, error) {
	if entry, ok := s.hist.Prev(s.buf.Text()); ok {
		s.buf.Set(entry)
	}
	return false, nil
}

func (s *Session) historyNext(context.Context) (bool, error) {
	if entry, ok := s.hist.Next(); ok {
		s.buf.Set(entry)
	}
	return false, nil
}

func (s *Session) cancel(context.Context) (bool, error) {
	s.buf.Clear()
	s.hist.Reset()
	return false, nil
}

// eof exits on an empty line and deletes forward otherwise.
func (s *Session) eof(context.Context) (bool, error) {
	if s.buf.Empty() {
		s.out.Commit()
		return true, nil
	}
	s.buf.Delete()
	return false, nil
}

func (s *Session) clearScreen(context.Context) (bool, error) {
	s.out.Clear()
	return false, nil
}

func (s *Session) suspendProcess(context.Context) (bool, error) {
	if s.suspend == nil {
		return false, nil
	}
	if err := s.out.Flush(); err != nil {
		return false, err
	}
	if err := s.suspend(); err != nil {
		log.Warn("repl: suspend: %v", err)
	}
	return false, nil
}
