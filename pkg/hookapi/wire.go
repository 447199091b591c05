// ABOUTME: Line-oriented wire codec shared by the host and plugin scripts.
// ABOUTME: One JSON message per line: {"hook":..,"payload":..} out, {"payload":..} back.

package hookapi

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// ErrEmptyMessage is returned for a blank line or a stream that ended
// before any message.
var ErrEmptyMessage = errors.New("empty message")

type requestEnvelope struct {
	req Request
}

func (e requestEnvelope) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"hook":`)
	w.String(e.req.Hook().String())
	w.RawString(`,"payload":`)
	e.req.MarshalEasyJSON(w)
	w.RawByte('}')
}

type responseEnvelope struct {
	value *string
}

func (e responseEnvelope) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"payload":`)
	if e.value == nil {
		w.RawString("null")
	} else {
		w.String(*e.value)
	}
	w.RawByte('}')
}

func (e *responseEnvelope) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeObject(l, func(key string) {
		if key != "payload" {
			l.SkipRecursive()
			return
		}
		s := l.String()
		e.value = &s
	})
}

func writeLine(w io.Writer, m interface{ MarshalEasyJSON(*jwriter.Writer) }) error {
	jw := jwriter.Writer{}
	m.MarshalEasyJSON(&jw)
	jw.RawByte('\n')
	data, err := jw.BuildBytes()
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteRequest writes one request line.
func WriteRequest(w io.Writer, req Request) error {
	return writeLine(w, requestEnvelope{req: req})
}

// WriteResponse writes one response line. A nil value means "no override".
func WriteResponse(w io.Writer, value *string) error {
	return writeLine(w, responseEnvelope{value: value})
}

// DecodeRequest parses one request message.
func DecodeRequest(data []byte) (Request, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	var (
		name    string
		payload []byte
	)
	l := jlexer.Lexer{Data: data}
	decodeObject(&l, func(key string) {
		switch key {
		case "hook":
			name = l.String()
		case "payload":
			payload = append([]byte(nil), l.Raw()...)
		default:
			l.SkipRecursive()
		}
	})
	l.Consumed()
	if err := l.Error(); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}

	h, err := ParseHook(name)
	if err != nil {
		return nil, err
	}
	req := newRequest(h)
	if len(payload) > 0 {
		pl := jlexer.Lexer{Data: payload}
		req.UnmarshalEasyJSON(&pl)
		pl.Consumed()
		if err := pl.Error(); err != nil {
			return nil, fmt.Errorf("decoding %s payload: %w", h, err)
		}
	}
	return value(req), nil
}

// DecodeResponse parses one response message.
func DecodeResponse(data []byte) (*string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}
	var env responseEnvelope
	l := jlexer.Lexer{Data: data}
	env.UnmarshalEasyJSON(&l)
	l.Consumed()
	if err := l.Error(); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return env.value, nil
}

// ReadRequest reads and decodes the next request line. It returns io.EOF
// when the stream ends cleanly between messages.
func ReadRequest(r *bufio.Reader) (Request, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	return DecodeRequest(line)
}

// ReadResponse reads and decodes the next response line.
func ReadResponse(r *bufio.Reader) (*string, error) {
	line, err := readLine(r)
	if err != nil {
		return nil, err
	}
	return DecodeResponse(line)
}

func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err == io.EOF && len(bytes.TrimSpace(line)) > 0 {
		return line, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}
