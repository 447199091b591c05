// ABOUTME: The three event kinds merged onto the bus: Input, Notify, and Exit.
// ABOUTME: Event is sealed; the main loop type-switches over exactly these.

package event

import (
	"fmt"

	"github.com/mauromedda/irepl/pkg/tui/input"
)

// Event is one item on the bus.
type Event interface {
	isEvent()
}

// Input carries one terminal event from the keyboard reader.
type Input struct {
	Event input.Event
}

// Notify reports that the watched external file changed.
type Notify struct {
	Path string
	// Count is how many raw notifications were coalesced.
	Count int
}

// Exit ends the session with Err.
type Exit struct {
	Err error
}

func (Input) isEvent()  {}
func (Notify) isEvent() {}
func (Exit) isEvent()   {}

func (n Notify) String() string {
	return fmt.Sprintf("notify %s (%d)", n.Path, n.Count)
}
