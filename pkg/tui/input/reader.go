// ABOUTME: Reader turns raw terminal bytes and resize notifications into one blocking event stream.
// ABOUTME: A pump goroutine reads the tty; ReadEvent hands out exactly one parsed event per call.

package input

import (
	"io"

	"github.com/mauromedda/irepl/pkg/tui/key"
)

const readBufSize = 256

// EventKind distinguishes key presses from terminal resizes.
type EventKind int

const (
	EventKey EventKind = iota
	EventResize
)

// Event is a single terminal event.
type Event struct {
	Kind   EventKind
	Key    key.Key
	Width  int
	Height int
}

func (e Event) String() string {
	if e.Kind == EventResize {
		return "Resize"
	}
	return e.Key.String()
}

type readResult struct {
	data []byte
	err  error
}

type size struct{ width, height int }

// Reader parses raw input into events. ReadEvent must be called from a
// single goroutine.
type Reader struct {
	reads   chan readResult
	resizes chan size
	pending []key.Key
	err     error
}

// NewReader starts reading r in the background.
func NewReader(r io.Reader) *Reader {
	rd := &Reader{
		reads:   make(chan readResult),
		resizes: make(chan size, 1),
	}
	go rd.pump(r)
	return rd
}

// pump forwards raw reads until the first error.
func (rd *Reader) pump(r io.Reader) {
	buf := make([]byte, readBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			rd.reads <- readResult{data: data}
		}
		if err != nil {
			rd.reads <- readResult{err: err}
			return
		}
	}
}

// NotifyResize records a new terminal size. Only the latest size is kept
// while no one is reading.
func (rd *Reader) NotifyResize(width, height int) {
	s := size{width, height}
	for {
		select {
		case rd.resizes <- s:
			return
		default:
		}
		select {
		case <-rd.resizes:
		default:
		}
	}
}

// ReadEvent blocks until one event is available. Keys from a multi-key read
// (a paste, or fast typing) are returned one per call, in order.
func (rd *Reader) ReadEvent() (Event, error) {
	for {
		if len(rd.pending) > 0 {
			k := rd.pending[0]
			rd.pending = rd.pending[1:]
			return Event{Kind: EventKey, Key: k}, nil
		}
		if rd.err != nil {
			return Event{}, rd.err
		}

		select {
		case s := <-rd.resizes:
			return Event{Kind: EventResize, Width: s.width, Height: s.height}, nil
		case res := <-rd.reads:
			if res.err != nil {
				rd.err = res.err
				continue
			}
			for _, seq := range key.Split(string(res.data)) {
				rd.pending = append(rd.pending, key.ParseKey(seq))
			}
		}
	}
}
