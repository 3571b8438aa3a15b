// Package session runs one design conversation: it owns the rail and the
// plan, asks the transition logic what comes next, calls the generator
// when a card has to be produced, and persists accepted decisions.
//
// A Session is a single-writer state object and is not safe for
// concurrent use. Every failed operation leaves the rail, the plan and the
// store as they were.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/generate"
	"github.com/roach88/designrail/internal/ident"
	"github.com/roach88/designrail/internal/plan"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/transition"
)

// Store persists accepted decisions.
type Store interface {
	LoadAll(ctx context.Context) ([]rail.DecisionNode, error)
	Append(ctx context.Context, node rail.DecisionNode) (rail.DecisionNode, error)
	DeleteAll(ctx context.Context) error
}

// Session is one conversation over a persisted rail.
type Session struct {
	store  Store
	gen    generate.Generator
	ids    ident.Generator
	clock  ident.Clock
	logger *slog.Logger

	rail        *rail.Rail
	plan        plan.CurrentPlan
	latestInput string
}

// Option configures a Session.
type Option func(*Session)

// WithIDs sets the generator for card and decision ids.
func WithIDs(g ident.Generator) Option {
	return func(s *Session) { s.ids = g }
}

// WithClock sets the clock used for AcceptedAt.
func WithClock(c ident.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session with an empty rail. Call Load to read the store.
// gen may be nil when only canned cards are needed.
func New(store Store, gen generate.Generator, opts ...Option) *Session {
	s := &Session{
		store:  store,
		gen:    gen,
		ids:    ident.UUIDv7Generator{},
		clock:  ident.SystemClock{},
		logger: slog.Default(),
		plan:   plan.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rail = rail.New(rail.WithLogger(s.logger))
	return s
}

// Load replaces the rail with the stored forest and rebuilds the plan.
func (s *Session) Load(ctx context.Context) (rail.View, error) {
	nodes, err := s.store.LoadAll(ctx)
	if err != nil {
		return s.rail.View(), fmt.Errorf("load rail: %w", err)
	}
	view := s.rail.ReplaceAll(nodes)
	s.plan = plan.FromPath(view.ActivePath)
	s.logger.Debug("rail loaded", "decisions", len(nodes), "head", view.ActiveHead)
	return view, nil
}

// SetLatestInput records the user's most recent free-text message. It is
// included in generation prompts.
func (s *Session) SetLatestInput(text string) {
	s.latestInput = text
}

// Next returns the card the conversation needs after in.
//
// Refine and fork interactions force their phase; otherwise the plan's
// phase applies. In the inspect phase an interaction without an option uses
// the locked architecture.
func (s *Session) Next(ctx context.Context, in transition.Interaction) (card.Card, error) {
	return s.NextAt(ctx, in.PhaseFor(s.plan.Phase), in)
}

// NextAt is Next with an explicit phase, for callers that override the plan.
func (s *Session) NextAt(ctx context.Context, phase transition.Phase, in transition.Interaction) (card.Card, error) {
	if phase == transition.PhaseInspect && in.OptionID == "" && s.plan.Propose != nil {
		in.OptionID = s.plan.Propose.ID
	}

	step, err := transition.Decide(phase, in, s.ids)
	if err != nil {
		return nil, err
	}
	if step.IsCanned() {
		s.logger.Debug("canned card", "phase", phase, "kind", step.Card.Kind(), "card", step.Card.Meta().ID)
		return step.Card, nil
	}

	if s.gen == nil {
		return nil, &generate.GenerationError{Message: "no generator configured"}
	}
	latest := s.latestInput
	if latest == "" {
		latest = in.Instructions
	}
	prompts, err := transition.BuildPrompts(step.Request, s.rail.ActivePath(), latest, phase)
	if err != nil {
		return nil, err
	}

	c, err := s.gen.Generate(ctx, generate.Request{
		Kind:    step.Request.Kind,
		Schema:  step.Request.Schema,
		System:  prompts.System,
		Context: prompts.Context,
	})
	if err != nil {
		s.logger.Warn("card generation failed", "phase", phase, "kind", step.Request.Kind, "error", err)
		return nil, err
	}
	s.logger.Debug("generated card", "phase", phase, "kind", c.Kind(), "card", c.Meta().ID)
	return c, nil
}

// View returns the current rail view.
func (s *Session) View() rail.View {
	return s.rail.View()
}

// Plan returns a copy of the current plan.
func (s *Session) Plan() plan.CurrentPlan {
	return s.plan.Clone()
}

// Phase returns the phase the next plain interaction will be answered in.
func (s *Session) Phase() transition.Phase {
	return s.plan.Phase
}

// Rail exposes the rail for read-only queries.
func (s *Session) Rail() *rail.Rail {
	return s.rail
}

// SwitchHead makes id the active head and rebuilds the plan from its path.
func (s *Session) SwitchHead(id string) (rail.View, error) {
	view, err := s.rail.SetActiveHead(id)
	if err != nil {
		return view, err
	}
	s.plan = plan.FromPath(view.ActivePath)
	return view, nil
}

// Reset deletes every stored decision and starts over.
func (s *Session) Reset(ctx context.Context) (rail.View, error) {
	if err := s.store.DeleteAll(ctx); err != nil {
		return s.rail.View(), fmt.Errorf("reset rail: %w", err)
	}
	view := s.rail.Reset()
	s.plan = plan.Apply(s.plan, plan.Reset{})
	s.latestInput = ""
	s.logger.Info("rail reset")
	return view, nil
}
