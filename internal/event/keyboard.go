// ABOUTME: KeyboardReader pushes one terminal event at a time and parks until woken.
// ABOUTME: The park/wake handshake keeps at most one Input event in flight.

package event

import (
	"context"
	"fmt"

	"github.com/mauromedda/irepl/pkg/tui/input"
)

// Source yields terminal events; ReadEvent blocks.
type Source interface {
	ReadEvent() (input.Event, error)
}

// KeyboardReader is the Input producer.
type KeyboardReader struct {
	src  Source
	bus  *Bus
	wake chan struct{}
}

// NewKeyboardReader binds src to bus.
func NewKeyboardReader(src Source, bus *Bus) *KeyboardReader {
	return &KeyboardReader{
		src:  src,
		bus:  bus,
		wake: make(chan struct{}, 1),
	}
}

// Run reads, sends, and parks, until ctx is done, the bus closes, or the
// source fails. A source failure is returned so the supervisor turns it
// into an Exit fault.
func (k *KeyboardReader) Run(ctx context.Context) error {
	for {
		ev, err := k.src.ReadEvent()
		if err != nil {
			return fmt.Errorf("reading terminal event: %w", err)
		}
		if err := k.bus.Send(Input{Event: ev}); err != nil {
			return nil
		}
		select {
		case <-k.wake:
		case <-ctx.Done():
			return nil
		}
	}
}

// Wake releases the reader after the consumer finished handling the
// current Input. A wake delivered before the reader parks is kept.
func (k *KeyboardReader) Wake() {
	select {
	case k.wake <- struct{}{}:
	default:
	}
}
