// ABOUTME: Public SDK for writing irepl scripts in Go
// ABOUTME: Serves --describe, then answers hook requests once (OneOff) or until EOF (Daemon)

package sdk

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/mauromedda/irepl/pkg/hookapi"
)

// DescribeFlag makes a script print its manifest and exit.
const DescribeFlag = "--describe"

// Handler answers one hook request. Returning nil means "no override".
type Handler func(ctx context.Context, req hookapi.Request) *string

// Script is a plugin process: a fixed descriptor plus its handler.
type Script struct {
	desc    hookapi.Descriptor
	handler Handler
	in      io.Reader
	out     io.Writer
}

// Option configures a Script.
type Option func(*Script)

// WithIO replaces stdin and stdout (for testing).
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Script) {
		s.in = in
		s.out = out
	}
}

// New creates a script. The descriptor is validated up front so a broken
// manifest fails before the host ever sees it.
func New(desc hookapi.Descriptor, handler Handler, opts ...Option) (*Script, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, errors.New("nil handler")
	}
	s := &Script{
		desc:    desc,
		handler: handler,
		in:      os.Stdin,
		out:     os.Stdout,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Run serves the process. args are the command-line arguments without
// the program name.
func (s *Script) Run(ctx context.Context, args []string) error {
	if slices.Contains(args, DescribeFlag) {
		data, err := hookapi.MarshalManifest(s.desc)
		if err != nil {
			return fmt.Errorf("rendering manifest: %w", err)
		}
		_, err = s.out.Write(data)
		return err
	}

	r := bufio.NewReader(s.in)
	w := bufio.NewWriter(s.out)

	if s.desc.Type == hookapi.OneOff {
		req, err := hookapi.ReadRequest(r)
		if err != nil {
			return fmt.Errorf("reading request: %w", err)
		}
		return s.respond(ctx, w, req)
	}

	for {
		req, err := hookapi.ReadRequest(r)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, hookapi.ErrEmptyMessage):
			continue
		case err != nil:
			// Answer anyway so the host stays paired with our replies.
			if werr := s.write(w, nil); werr != nil {
				return werr
			}
			continue
		}
		if err := s.respond(ctx, w, req); err != nil {
			return err
		}
	}
}

func (s *Script) respond(ctx context.Context, w *bufio.Writer, req hookapi.Request) error {
	if !s.desc.Subscribes(req.Hook()) {
		return s.write(w, nil)
	}
	return s.write(w, s.handler(ctx, req))
}

func (s *Script) write(w *bufio.Writer, resp *string) error {
	if err := hookapi.WriteResponse(w, resp); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return w.Flush()
}

// Main runs a script over the real process streams and exits non-zero on
// failure. It is meant to be the whole body of a script's main function.
func Main(desc hookapi.Descriptor, handler Handler) {
	s, err := New(desc, handler)
	if err == nil {
		err = s.Run(context.Background(), os.Args[1:])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", desc.Name, err)
		os.Exit(1)
	}
}
