// Package transition decides which card the conversation needs next.
//
// The phase is the state and the interaction is the trigger. Discover,
// shape and inspect are answered from a canned catalog; refine and fork
// produce a Request for the card generator. Decide never touches the rail
// or the plan.
package transition

import (
	"fmt"

	"github.com/roach88/designrail/internal/card"
)

// Phase is the stage of the design conversation.
type Phase string

const (
	PhaseDiscover Phase = "discover"
	PhaseShape    Phase = "shape"
	PhaseInspect  Phase = "inspect"
	PhaseRefine   Phase = "refine"
	PhaseFork     Phase = "fork"
)

// InitialPhase is the phase of a fresh conversation.
const InitialPhase = PhaseDiscover

// Phases lists every phase in conversation order.
var Phases = []Phase{PhaseDiscover, PhaseShape, PhaseInspect, PhaseRefine, PhaseFork}

// IsValid reports whether p is a known phase.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseDiscover, PhaseShape, PhaseInspect, PhaseRefine, PhaseFork:
		return true
	}
	return false
}

// ParsePhase converts a string to a Phase. The empty string is the initial phase.
func ParsePhase(s string) (Phase, error) {
	if s == "" {
		return InitialPhase, nil
	}
	p := Phase(s)
	if !p.IsValid() {
		return "", &InputError{Field: "phase", Message: fmt.Sprintf("unknown phase %q", s)}
	}
	return p, nil
}

// NextPhase returns the phase that follows accepting a card of kind accepted.
// Kinds that do not advance the conversation keep the current phase.
func NextPhase(current Phase, accepted card.Kind) Phase {
	switch accepted {
	case card.KindInterpret:
		return PhaseShape
	case card.KindPropose, card.KindLens, card.KindMockup:
		return PhaseInspect
	default:
		return current
	}
}
