// ABOUTME: Bus merges every producer into one unbuffered stream with a single consumer.
// ABOUTME: Sends fail fast with ErrBusClosed once the consumer has gone away.

package event

import (
	"context"
	"errors"
	"sync"
)

// ErrBusClosed is returned to producers after the consumer closed the bus.
var ErrBusClosed = errors.New("event bus closed")

// Bus is a many-producer, one-consumer channel. The zero value is not
// usable; call NewBus.
type Bus struct {
	ch        chan Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewBus returns an open bus.
func NewBus() *Bus {
	return &Bus{
		ch:   make(chan Event),
		done: make(chan struct{}),
	}
}

// Send blocks until the consumer takes ev or the bus is closed.
func (b *Bus) Send(ev Event) error {
	select {
	case <-b.done:
		return ErrBusClosed
	default:
	}
	select {
	case b.ch <- ev:
		return nil
	case <-b.done:
		return ErrBusClosed
	}
}

// Recv blocks for the next event. Only the owning consumer may call it.
func (b *Bus) Recv(ctx context.Context) (Event, error) {
	select {
	case ev := <-b.ch:
		return ev, nil
	case <-b.done:
		return nil, ErrBusClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close marks the consumer as gone. Pending and future sends fail.
// Close is idempotent.
func (b *Bus) Close() {
	b.closeOnce.Do(func() { close(b.done) })
}
