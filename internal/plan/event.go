package plan

import (
	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/transition"
)

// Event is a change to the plan.
//
// This is a sealed interface; only the types in this package implement it.
type Event interface {
	isEvent()
}

// LockInterpret locks an interpret option and clears later choices.
// An empty NextPhase means shape.
type LockInterpret struct {
	Option    card.Option
	NextPhase transition.Phase
}

// LockPropose locks a propose option, keeping the interpretation.
// An empty NextPhase means inspect.
type LockPropose struct {
	Option    card.Option
	NextPhase transition.Phase
}

// LockInspect locks a lens or mockup card. Other kinds are ignored.
// An empty Phase means inspect.
type LockInspect struct {
	Card  card.Card
	Phase transition.Phase
}

// Reset clears the plan. An empty Phase means the initial phase.
type Reset struct {
	Phase transition.Phase
}

func (LockInterpret) isEvent() {}
func (LockPropose) isEvent()   {}
func (LockInspect) isEvent()   {}
func (Reset) isEvent()         {}

// EventFor maps one accepted decision to its lock event, if it has one.
func EventFor(n rail.DecisionNode) (Event, bool) {
	switch c := n.CardSnapshot.(type) {
	case *card.SelectionSummaryCard:
		opt := card.Option{ID: c.SelectionID, Label: c.SelectionLabel, Summary: c.SelectionSummary}
		switch c.SourceCardKind {
		case card.KindInterpret:
			return LockInterpret{Option: opt}, true
		case card.KindPropose:
			return LockPropose{Option: opt}, true
		}
	case *card.LensCard, *card.MockupCard:
		return LockInspect{Card: c}, true
	}
	return nil, false
}

// EventsFromPath returns the lock events of an active path, oldest first.
func EventsFromPath(path []rail.DecisionNode) []Event {
	events := []Event{}
	for _, n := range path {
		if e, ok := EventFor(n); ok {
			events = append(events, e)
		}
	}
	return events
}

// FromPath rebuilds the plan from an active path.
func FromPath(path []rail.DecisionNode) CurrentPlan {
	return Replay(EventsFromPath(path)...)
}
