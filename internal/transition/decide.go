package transition

import (
	"fmt"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/ident"
	"github.com/roach88/designrail/internal/schema"
)

// Decide returns the next step for phase and interaction. Canned cards get
// their ids from ids; nothing else is consulted, so Decide is deterministic
// for a deterministic generator.
func Decide(phase Phase, in Interaction, ids ident.Generator) (Step, error) {
	switch phase {
	case PhaseDiscover:
		return Step{Phase: phase, Card: interpretCard(ids.Generate())}, nil

	case PhaseShape:
		return Step{Phase: phase, Card: proposeCard(ids.Generate())}, nil

	case PhaseInspect:
		if m, ok := mockupFor(in.OptionID, ids.Generate()); ok {
			return Step{Phase: phase, Card: m}, nil
		}
		// An unrecognised option falls back to the generic screens lens.
		return Step{Phase: phase, Card: fallbackLens(ids.Generate())}, nil

	case PhaseRefine:
		req, err := newRequest(ModeRefine, in)
		if err != nil {
			return Step{}, err
		}
		return Step{Phase: phase, Request: req}, nil

	case PhaseFork:
		req, err := newRequest(ModeFork, in)
		if err != nil {
			return Step{}, err
		}
		return Step{Phase: phase, Request: req}, nil

	default:
		return Step{}, &InputError{Field: "phase", Message: fmt.Sprintf("unknown phase %q", phase)}
	}
}

func newRequest(mode Mode, in Interaction) (*Request, error) {
	if card.IsNil(in.SourceCard) {
		return nil, &InputError{Field: "sourceCard", Message: fmt.Sprintf("%s needs a source card", mode)}
	}
	kind := in.SourceCard.Kind()
	return &Request{
		Mode:         mode,
		Kind:         kind,
		Schema:       SchemaFor(kind),
		SourceCard:   card.Clone(in.SourceCard),
		Instructions: in.Instructions,
	}, nil
}

// SchemaFor selects the schema a regenerated card of kind must satisfy.
// Kinds without a dedicated schema use the union of all card schemas.
func SchemaFor(kind card.Kind) schema.Schema {
	return schema.For(kind)
}
