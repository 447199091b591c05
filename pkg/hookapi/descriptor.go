// ABOUTME: Script manifest: name, OneOff/Daemon type, version requirement, subscribed hooks.
// ABOUTME: Serialized as YAML when a script is asked to describe itself.

package hookapi

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScriptType says how a script process is owned.
type ScriptType int

const (
	// OneOff scripts get a fresh process per hook call.
	OneOff ScriptType = iota
	// Daemon scripts run one persistent process for the whole session.
	Daemon
)

func (t ScriptType) String() string {
	switch t {
	case OneOff:
		return "OneOff"
	case Daemon:
		return "Daemon"
	}
	return fmt.Sprintf("ScriptType(%d)", int(t))
}

// MarshalYAML writes the type name.
func (t ScriptType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML reads a type name.
func (t *ScriptType) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	switch name {
	case "OneOff":
		*t = OneOff
	case "Daemon":
		*t = Daemon
	default:
		return fmt.Errorf("unknown script type %q", name)
	}
	return nil
}

// Descriptor is declared by a script at registration and never changes.
type Descriptor struct {
	Name               string     `yaml:"name"`
	Type               ScriptType `yaml:"script_type"`
	VersionRequirement string     `yaml:"version_requirement"`
	Hooks              []Hook     `yaml:"hooks"`
}

// Subscribes reports whether the script wants calls for h.
func (d Descriptor) Subscribes(h Hook) bool {
	for _, s := range d.Hooks {
		if s == h {
			return true
		}
	}
	return false
}

// Validate checks the descriptor is usable.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("script name is empty")
	}
	if d.Type != OneOff && d.Type != Daemon {
		return fmt.Errorf("script %s: invalid type %d", d.Name, int(d.Type))
	}
	seen := make(map[Hook]bool, len(d.Hooks))
	for _, h := range d.Hooks {
		if !h.Valid() {
			return fmt.Errorf("script %s: invalid hook %d", d.Name, int(h))
		}
		if seen[h] {
			return fmt.Errorf("script %s: hook %s listed twice", d.Name, h)
		}
		seen[h] = true
	}
	return nil
}

// MarshalManifest renders d as YAML.
func MarshalManifest(d Descriptor) ([]byte, error) {
	return yaml.Marshal(d)
}

// UnmarshalManifest parses and validates a YAML manifest.
func UnmarshalManifest(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("parsing manifest: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}
