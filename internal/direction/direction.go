// Package direction holds the English/Telugu direction toggle used by the
// translate-multiple workflow.
package direction

import (
	"fmt"
	"sync"
)

// Direction selects the source and target language pair.
type Direction int

const (
	// Forward translates English to Telugu.
	Forward Direction = iota
	// Reverse translates Telugu to English.
	Reverse
)

// Wire codes sent as the "direction" request field.
const (
	CodeForward = "en-to-te"
	CodeReverse = "te-to-en"
)

// Slot names a field of a multi-translation result.
type Slot int

const (
	SlotTranscript Slot = iota
	SlotSummary
)

// Code returns the wire code for d.
func (d Direction) Code() string {
	if d == Reverse {
		return CodeReverse
	}
	return CodeForward
}

// Source returns the source language name.
func (d Direction) Source() string {
	if d == Reverse {
		return "Telugu"
	}
	return "English"
}

// Target returns the target language name.
func (d Direction) Target() string {
	if d == Reverse {
		return "English"
	}
	return "Telugu"
}

func (d Direction) String() string {
	return fmt.Sprintf("%s → %s", d.Source(), d.Target())
}

// LabelFor returns the display label for a translated slot.
func (d Direction) LabelFor(slot Slot) string {
	switch slot {
	case SlotSummary:
		return fmt.Sprintf("Translated Summary (%s)", d.Target())
	default:
		return fmt.Sprintf("Translated Transcript (%s)", d.Target())
	}
}

// Parse converts a wire code back to a Direction.
func Parse(code string) (Direction, error) {
	switch code {
	case CodeForward:
		return Forward, nil
	case CodeReverse:
		return Reverse, nil
	default:
		return Forward, fmt.Errorf("unknown direction code: %q", code)
	}
}

// State is the mutable toggle. The zero value starts Forward.
type State struct {
	mu      sync.RWMutex
	current Direction
}

// NewState creates a toggle starting at Forward.
func NewState() *State {
	return &State{}
}

// Toggle flips the direction and returns the new value.
func (s *State) Toggle() Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == Forward {
		s.current = Reverse
	} else {
		s.current = Forward
	}
	return s.current
}

// Set forces a direction, used when the CLI starts in reverse mode.
func (s *State) Set(d Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = d
}

// Current returns the active direction.
func (s *State) Current() Direction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentDirectionCode returns the wire code of the active direction.
func (s *State) CurrentDirectionCode() string {
	return s.Current().Code()
}

// LabelFor labels a slot using the active direction.
func (s *State) LabelFor(slot Slot) string {
	return s.Current().LabelFor(slot)
}
