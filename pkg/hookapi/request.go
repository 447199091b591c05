// ABOUTME: Typed request payloads, one per hook, with hand-written easyjson codecs.
// ABOUTME: Request is sealed so a payload can only ever name a catalog hook.

package hookapi

import (
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// Request is a hook payload sent from host to script. Only the five
// payload types below implement it.
type Request interface {
	Hook() Hook
	MarshalEasyJSON(w *jwriter.Writer)
	sealed()
}

type requestDecoder interface {
	Request
	UnmarshalEasyJSON(l *jlexer.Lexer)
}

// SetTitleRequest asks for a window title.
type SetTitleRequest struct{}

// SetWelcomeMsgRequest asks for a welcome banner.
type SetWelcomeMsgRequest struct{}

// OutputEventRequest offers an evaluated line for rewriting.
type OutputEventRequest struct {
	Input  string
	Output string
}

// StartupRequest announces (re)start of the host session.
type StartupRequest struct{}

// ShutdownRequest announces the end of the host session.
type ShutdownRequest struct{}

func (SetTitleRequest) Hook() Hook      { return SetTitle }
func (SetWelcomeMsgRequest) Hook() Hook { return SetWelcomeMsg }
func (OutputEventRequest) Hook() Hook   { return OutputEvent }
func (StartupRequest) Hook() Hook       { return Startup }
func (ShutdownRequest) Hook() Hook      { return Shutdown }
func (SetTitleRequest) sealed()         {}
func (SetWelcomeMsgRequest) sealed()    {}
func (OutputEventRequest) sealed()      {}
func (StartupRequest) sealed()          {}
func (ShutdownRequest) sealed()         {}

func (SetTitleRequest) MarshalEasyJSON(w *jwriter.Writer)       { w.RawString("{}") }
func (SetWelcomeMsgRequest) MarshalEasyJSON(w *jwriter.Writer)  { w.RawString("{}") }
func (StartupRequest) MarshalEasyJSON(w *jwriter.Writer)        { w.RawString("{}") }
func (ShutdownRequest) MarshalEasyJSON(w *jwriter.Writer)       { w.RawString("{}") }
func (*SetTitleRequest) UnmarshalEasyJSON(l *jlexer.Lexer)      { skipObject(l) }
func (*SetWelcomeMsgRequest) UnmarshalEasyJSON(l *jlexer.Lexer) { skipObject(l) }
func (*StartupRequest) UnmarshalEasyJSON(l *jlexer.Lexer)       { skipObject(l) }
func (*ShutdownRequest) UnmarshalEasyJSON(l *jlexer.Lexer)      { skipObject(l) }

func (r OutputEventRequest) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"input":`)
	w.String(r.Input)
	w.RawString(`,"output":`)
	w.String(r.Output)
	w.RawByte('}')
}

func (r *OutputEventRequest) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeObject(l, func(key string) {
		switch key {
		case "input":
			r.Input = l.String()
		case "output":
			r.Output = l.String()
		default:
			l.SkipRecursive()
		}
	})
}

// newRequest returns an empty payload for h, ready to be decoded into.
func newRequest(h Hook) requestDecoder {
	switch h {
	case SetTitle:
		return &SetTitleRequest{}
	case SetWelcomeMsg:
		return &SetWelcomeMsgRequest{}
	case OutputEvent:
		return &OutputEventRequest{}
	case Startup:
		return &StartupRequest{}
	case Shutdown:
		return &ShutdownRequest{}
	}
	return nil
}

// value strips the pointer newRequest added so callers can type-switch on
// plain payload types.
func value(r requestDecoder) Request {
	switch r := r.(type) {
	case *SetTitleRequest:
		return *r
	case *SetWelcomeMsgRequest:
		return *r
	case *OutputEventRequest:
		return *r
	case *StartupRequest:
		return *r
	case *ShutdownRequest:
		return *r
	}
	return r
}

// decodeObject walks a JSON object, calling field for each non-null member.
func decodeObject(l *jlexer.Lexer, field func(key string)) {
	if l.IsNull() {
		l.Skip()
		return
	}
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeString()
		l.WantColon()
		if l.IsNull() {
			l.Skip()
			l.WantComma()
			continue
		}
		field(key)
		l.WantComma()
	}
	l.Delim('}')
}

func skipObject(l *jlexer.Lexer) {
	decodeObject(l, func(string) { l.SkipRecursive() })
}
