// ABOUTME: Closed catalog of hooks a plugin can subscribe to, plus the host protocol version.
// ABOUTME: Hook names exist as strings only at the process boundary (wire and manifest).

package hookapi

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Version is the host version scripts negotiate against.
const Version = "1.31.0"

// Hook identifies one extension point.
type Hook int

const (
	SetTitle Hook = iota + 1
	SetWelcomeMsg
	OutputEvent
	Startup
	Shutdown
)

var hookNames = map[Hook]string{
	SetTitle:      "SetTitle",
	SetWelcomeMsg: "SetWelcomeMsg",
	OutputEvent:   "OutputEvent",
	Startup:       "Startup",
	Shutdown:      "Shutdown",
}

// Catalog returns every hook in declaration order.
func Catalog() []Hook {
	return []Hook{SetTitle, SetWelcomeMsg, OutputEvent, Startup, Shutdown}
}

// Valid reports whether h belongs to the catalog.
func (h Hook) Valid() bool {
	_, ok := hookNames[h]
	return ok
}

func (h Hook) String() string {
	if name, ok := hookNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Hook(%d)", int(h))
}

// ParseHook resolves a wire name. Unknown names are an error, never a
// silently ignored hook.
func ParseHook(name string) (Hook, error) {
	for h, n := range hookNames {
		if n == name {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown hook %q", name)
}

// MarshalYAML writes the wire name.
func (h Hook) MarshalYAML() (any, error) {
	if !h.Valid() {
		return nil, fmt.Errorf("invalid hook %d", int(h))
	}
	return h.String(), nil
}

// UnmarshalYAML reads a wire name.
func (h *Hook) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseHook(name)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
