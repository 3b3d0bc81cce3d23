// Package event defines pointer event records and the dispatcher that
// matches them to registered bindings.
package event

import (
	"fmt"
	"strings"
)

// Kind identifies a pointer action on the primary button
type Kind int

const (
	ButtonPress Kind = iota + 1
	ButtonRelease
	Motion
)

// Event is a single pointer action in surface-local pixel coordinates
type Event struct {
	Kind Kind `json:"kind"`
	X    int  `json:"x"`
	Y    int  `json:"y"`
}

// Sequence returns the binding sequence name for the kind
func (k Kind) Sequence() string {
	switch k {
	case ButtonPress:
		return "<Button-1>"
	case ButtonRelease:
		return "<ButtonRelease-1>"
	case Motion:
		return "<B1-Motion>"
	default:
		return fmt.Sprintf("<unknown-%d>", int(k))
	}
}

// String returns the wire name of the kind
func (k Kind) String() string {
	switch k {
	case ButtonPress:
		return "press"
	case ButtonRelease:
		return "release"
	case Motion:
		return "drag"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts wire names (press, release, drag) and binding sequences
func ParseKind(s string) (Kind, error) {
	switch strings.TrimSpace(s) {
	case "press", "<Button-1>":
		return ButtonPress, nil
	case "release", "<ButtonRelease-1>":
		return ButtonRelease, nil
	case "drag", "<B1-Motion>":
		return Motion, nil
	default:
		return 0, fmt.Errorf("unknown event kind: %q", s)
	}
}
