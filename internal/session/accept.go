package session

import (
	"context"
	"fmt"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/plan"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/transition"
)

type acceptOptions struct {
	parent  *string
	root    bool
	summary *string
}

// AcceptOpt configures where and how a decision is recorded.
type AcceptOpt func(*acceptOptions)

// WithParent attaches the decision under id instead of the active head.
// Attaching under an inner decision forks the rail.
func WithParent(id string) AcceptOpt {
	return func(o *acceptOptions) {
		o.parent = &id
		o.root = false
	}
}

// AsRoot starts a new tree.
func AsRoot() AcceptOpt {
	return func(o *acceptOptions) {
		o.parent = nil
		o.root = true
	}
}

// WithSummary records a free-text summary on the decision.
func WithSummary(summary string) AcceptOpt {
	return func(o *acceptOptions) { o.summary = &summary }
}

// Select accepts one option of an interpret or propose card. The decision's
// snapshot is a selection-summary card for that option.
func (s *Session) Select(ctx context.Context, source card.Card, optionID string, opts ...AcceptOpt) (rail.DecisionNode, error) {
	if card.IsNil(source) {
		return rail.DecisionNode{}, &transition.InputError{Field: "sourceCard", Message: "select needs a card"}
	}
	kind := source.Kind()
	if kind != card.KindInterpret && kind != card.KindPropose {
		return rail.DecisionNode{}, &transition.InputError{
			Field:   "sourceCard",
			Message: fmt.Sprintf("%s cards have no options to select", kind),
		}
	}
	opt, ok := card.FindOption(source, optionID)
	if !ok {
		return rail.DecisionNode{}, &transition.InputError{
			Field:   "optionId",
			Message: fmt.Sprintf("card %s has no option %q", source.Meta().ID, optionID),
		}
	}

	meta := source.Meta()
	snapshot := &card.SelectionSummaryCard{
		Base: card.Base{
			ID:          meta.ID,
			Title:       opt.Label,
			Description: opt.Summary,
			FlowID:      meta.FlowID,
			StepIndex:   meta.StepIndex,
		},
		SelectionID:      opt.ID,
		SelectionLabel:   opt.Label,
		SelectionSummary: opt.Summary,
		SourceCardKind:   kind,
	}
	return s.record(ctx, meta.ID, snapshot, opts)
}

// Accept records a whole card as a decision. Accepting a lens or mockup
// locks it as the inspected artifact.
func (s *Session) Accept(ctx context.Context, c card.Card, opts ...AcceptOpt) (rail.DecisionNode, error) {
	if card.IsNil(c) {
		return rail.DecisionNode{}, &transition.InputError{Field: "card", Message: "accept needs a card"}
	}
	if c.Meta().ID == "" {
		c = card.Clone(c)
		card.SetID(c, s.ids.Generate())
	}
	return s.record(ctx, c.Meta().ID, c, opts)
}

// record persists the decision, then appends it to the rail and rebuilds
// the plan. The parent is checked first so the store never holds a
// decision the rail would reject.
func (s *Session) record(ctx context.Context, cardID string, snapshot card.Card, opts []AcceptOpt) (rail.DecisionNode, error) {
	if err := card.Check(snapshot); err != nil {
		return rail.DecisionNode{}, err
	}

	var o acceptOptions
	for _, opt := range opts {
		opt(&o)
	}

	node := rail.DecisionNode{
		ID:           s.ids.Generate(),
		CardID:       cardID,
		AcceptedAt:   s.clock.Now(),
		Summary:      o.summary,
		CardSnapshot: card.Clone(snapshot),
	}
	switch {
	case o.root:
	case o.parent != nil:
		node.ParentID = o.parent
	default:
		if head := s.rail.ActiveHeadID(); head != "" {
			node.ParentID = &head
		}
	}
	if node.ParentID != nil {
		if _, ok := s.rail.Node(*node.ParentID); !ok {
			return rail.DecisionNode{}, rail.NewDanglingParentError(node.ID, *node.ParentID)
		}
	}

	stored, err := s.store.Append(ctx, node)
	if err != nil {
		return rail.DecisionNode{}, fmt.Errorf("persist decision: %w", err)
	}
	view, err := s.rail.Append(stored)
	if err != nil {
		return rail.DecisionNode{}, err
	}
	s.plan = plan.FromPath(view.ActivePath)

	s.logger.Info("decision accepted",
		"node", stored.ID,
		"card", cardID,
		"kind", snapshot.Kind(),
		"parent", stored.Parent(),
		"phase", s.plan.Phase,
	)
	return stored, nil
}
