// Package plan projects the accepted decisions into the current plan: the
// locked interpretation, the locked architecture and the inspected artifact.
//
// The plan is a pure fold over lock events. Replaying the same events into
// New always yields the same plan, so the session can rebuild it from the
// active path whenever the head moves.
package plan

import (
	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/transition"
)

// Section is a locked option.
type Section struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Summary string `json:"summary,omitempty"`
}

// InspectSection is the locked lens or mockup.
type InspectSection struct {
	Kind    card.Kind `json:"kind"`
	Label   string    `json:"label"`
	Summary string    `json:"summary,omitempty"`
	Card    card.Card `json:"card"`
}

// CurrentPlan is the projection of the decisions made so far.
type CurrentPlan struct {
	Phase     transition.Phase `json:"phase"`
	Interpret *Section         `json:"interpret,omitempty"`
	Propose   *Section         `json:"propose,omitempty"`
	Inspect   *InspectSection  `json:"inspect,omitempty"`
}

// New returns the empty plan at the initial phase.
func New() CurrentPlan {
	return CurrentPlan{Phase: transition.InitialPhase}
}

// Replay folds events into a fresh plan.
func Replay(events ...Event) CurrentPlan {
	p := New()
	for _, e := range events {
		p = Apply(p, e)
	}
	return p
}

// Apply returns the plan after e. The input plan is not modified.
func Apply(p CurrentPlan, e Event) CurrentPlan {
	switch ev := e.(type) {
	case LockInterpret:
		// A new interpretation invalidates everything decided after it.
		return CurrentPlan{
			Phase:     phaseOr(ev.NextPhase, transition.NextPhase(p.Phase, card.KindInterpret)),
			Interpret: section(ev.Option),
		}

	case LockPropose:
		return CurrentPlan{
			Phase:     phaseOr(ev.NextPhase, transition.NextPhase(p.Phase, card.KindPropose)),
			Interpret: cloneSection(p.Interpret),
			Propose:   section(ev.Option),
		}

	case LockInspect:
		if card.IsNil(ev.Card) {
			return p.Clone()
		}
		kind := ev.Card.Kind()
		if kind != card.KindLens && kind != card.KindMockup {
			return p.Clone()
		}
		next := p.Clone()
		next.Phase = phaseOr(ev.Phase, transition.NextPhase(p.Phase, kind))
		meta := ev.Card.Meta()
		next.Inspect = &InspectSection{
			Kind:    kind,
			Label:   meta.Title,
			Summary: meta.Description,
			Card:    card.Clone(ev.Card),
		}
		return next

	case Reset:
		return CurrentPlan{Phase: phaseOr(ev.Phase, transition.InitialPhase)}

	default:
		return p.Clone()
	}
}

// Clone returns a deep copy of p.
func (p CurrentPlan) Clone() CurrentPlan {
	out := CurrentPlan{
		Phase:     p.Phase,
		Interpret: cloneSection(p.Interpret),
		Propose:   cloneSection(p.Propose),
	}
	if p.Inspect != nil {
		in := *p.Inspect
		in.Card = card.Clone(p.Inspect.Card)
		out.Inspect = &in
	}
	return out
}

func section(o card.Option) *Section {
	return &Section{ID: o.ID, Label: o.Label, Summary: o.Summary}
}

func cloneSection(s *Section) *Section {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func phaseOr(p, def transition.Phase) transition.Phase {
	if p == "" {
		return def
	}
	return p
}
