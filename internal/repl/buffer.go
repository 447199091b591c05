// ABOUTME: TextBuffer is the multi-line input being edited, with a byte-offset cursor.
// ABOUTME: Cursor motion and deletion step over whole grapheme clusters.

package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Buffer is the editable input line.
type Buffer interface {
	Text() string
	// Cursor is a byte offset into Text.
	Cursor() int
	Set(text string)
	Clear()
	Empty() bool
	Insert(s string)
	Backspace()
	Delete()
	Left()
	Right()
	WordLeft()
	WordRight()
	Home()
	End()
}

// TextBuffer implements Buffer.
type TextBuffer struct {
	text   string
	cursor int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *TextBuffer {
	return &TextBuffer{}
}

func (b *TextBuffer) Text() string { return b.text }
func (b *TextBuffer) Cursor() int  { return b.cursor }
func (b *TextBuffer) Empty() bool  { return b.text == "" }

// Set replaces the text and moves the cursor to the end.
func (b *TextBuffer) Set(text string) {
	b.text = text
	b.cursor = len(text)
}

func (b *TextBuffer) Clear() { b.Set("") }

func (b *TextBuffer) Insert(s string) {
	b.text = b.text[:b.cursor] + s + b.text[b.cursor:]
	b.cursor += len(s)
}

func (b *TextBuffer) Backspace() {
	if b.cursor == 0 {
		return
	}
	prev := b.prevBoundary()
	b.text = b.text[:prev] + b.text[b.cursor:]
	b.cursor = prev
}

func (b *TextBuffer) Delete() {
	if b.cursor == len(b.text) {
		return
	}
	next := b.nextBoundary()
	b.text = b.text[:b.cursor] + b.text[next:]
}

func (b *TextBuffer) Left()  { b.cursor = b.prevBoundary() }
func (b *TextBuffer) Right() { b.cursor = b.nextBoundary() }

// Home moves to the start of the current line.
func (b *TextBuffer) Home() {
	b.cursor = strings.LastIndexByte(b.text[:b.cursor], '\n') + 1
}

// End moves to the end of the current line.
func (b *TextBuffer) End() {
	if i := strings.IndexByte(b.text[b.cursor:], '\n'); i >= 0 {
		b.cursor += i
		return
	}
	b.cursor = len(b.text)
}

// WordLeft skips separators, then a word, to the left.
func (b *TextBuffer) WordLeft() {
	i := b.cursor
	for i > 0 {
		r, n := utf8.DecodeLastRuneInString(b.text[:i])
		if isWordRune(r) {
			break
		}
		i -= n
	}
	for i > 0 {
		r, n := utf8.DecodeLastRuneInString(b.text[:i])
		if !isWordRune(r) {
			break
		}
		i -= n
	}
	b.cursor = i
}

// WordRight skips separators, then a word, to the right.
func (b *TextBuffer) WordRight() {
	i := b.cursor
	for i < len(b.text) {
		r, n := utf8.DecodeRuneInString(b.text[i:])
		if isWordRune(r) {
			break
		}
		i += n
	}
	for i < len(b.text) {
		r, n := utf8.DecodeRuneInString(b.text[i:])
		if !isWordRune(r) {
			break
		}
		i += n
	}
	b.cursor = i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (b *TextBuffer) prevBoundary() int {
	last, pos := 0, 0
	state := -1
	rest := b.text
	for pos < b.cursor && len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		last = pos
		pos += len(cluster)
	}
	return last
}

func (b *TextBuffer) nextBoundary() int {
	if b.cursor >= len(b.text) {
		return len(b.text)
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(b.text[b.cursor:], -1)
	return b.cursor + len(cluster)
}
