package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/generate"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/schema"
	"github.com/roach88/designrail/internal/session"
	"github.com/roach88/designrail/internal/store"
	"github.com/roach88/designrail/internal/testutil"
	"github.com/roach88/designrail/internal/transition"
)

// Error classes used by Expect.Error and TraceEvent.Error.
const (
	ErrClassValidation      = "validation"
	ErrClassGeneration      = "generation"
	ErrClassInput           = "input"
	ErrClassNotFound        = "not_found"
	ErrClassMalformedForest = "malformed_forest"
	ErrClassDuplicate       = "duplicate"
	ErrClassInvariant       = "invariant"
	ErrClassOther           = "error"
)

var errorClasses = []string{
	ErrClassValidation,
	ErrClassGeneration,
	ErrClassInput,
	ErrClassNotFound,
	ErrClassMalformedForest,
	ErrClassDuplicate,
	ErrClassInvariant,
	ErrClassOther,
}

func isErrorClass(s string) bool {
	for _, c := range errorClasses {
		if c == s {
			return true
		}
	}
	return false
}

// ErrorClass maps an error returned by a session to its class. The order
// matters: a validation failure is reported as validation even when a
// caller wrapped it.
func ErrorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case schema.IsValidationError(err):
		return ErrClassValidation
	case generate.IsGenerationError(err):
		return ErrClassGeneration
	case transition.IsInputError(err):
		return ErrClassInput
	case rail.IsNotFound(err):
		return ErrClassNotFound
	case rail.IsMalformedForest(err):
		return ErrClassMalformedForest
	case rail.IsDuplicateNode(err), errors.Is(err, store.ErrDuplicate):
		return ErrClassDuplicate
	case card.IsInvariantError(err):
		return ErrClassInvariant
	default:
		return ErrClassOther
	}
}

// FinalState is the session state after the last step.
type FinalState struct {
	Phase     transition.Phase
	Path      []string
	Heads     int
	Decisions int
	Interpret string
	Propose   string
	Inspect   card.Kind
}

// Harness drives one session through a scenario.
type Harness struct {
	store   *store.Store
	sess    *session.Session
	current card.Card
	labels  map[string]string
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with sequential ids
// ("id-1", "id-2", ...) for cards and decisions, "gen-N" ids for generated
// cards that arrive without one, and a clock starting at testutil.Epoch.
// A step that fails is recorded in the trace and the run continues.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to load card schemas: %w", err)
	}

	responses := make([]generate.Response, len(scenario.Generated))
	for i, g := range scenario.Generated {
		responses[i] = generate.Response{JSON: g.JSON}
		if g.Error != "" {
			responses[i].Err = errors.New(g.Error)
		}
	}
	gen := generate.NewStatic(
		generate.NewFinisher(validator, testutil.NewSequenceGenerator("gen")),
		responses...,
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	h := &Harness{
		store: st,
		sess: session.New(st, gen,
			session.WithIDs(testutil.NewSequenceGenerator("id")),
			session.WithClock(testutil.NewDeterministicClock()),
			session.WithLogger(logger),
		),
		labels: make(map[string]string),
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		event := h.execute(ctx, step)
		event.Step = i + 1
		result.AddTrace(event)
		if msg := checkExpect(event, step.Expect); msg != "" {
			result.AddError(fmt.Sprintf("steps[%d] (%s): %s", i, step.Action, msg))
		}
	}

	final, err := h.finalState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read final state: %w", err)
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, final) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) execute(ctx context.Context, step Step) TraceEvent {
	event := TraceEvent{Action: step.Action}

	var err error
	switch step.Action {
	case ActionNext:
		in := transition.Interaction{Type: transition.InteractionSelect, OptionID: step.Option, Instructions: step.Instructions}
		if h.current == nil {
			in.Type = transition.InteractionStart
		}
		err = h.produce(ctx, in, &event)
	case ActionRefine:
		err = h.produce(ctx, transition.Interaction{
			Type:         transition.InteractionRefine,
			SourceCard:   h.current,
			Instructions: step.Instructions,
		}, &event)
	case ActionFork:
		err = h.produce(ctx, transition.Interaction{
			Type:         transition.InteractionFork,
			SourceCard:   h.current,
			Instructions: step.Instructions,
		}, &event)
	case ActionSelect:
		var node rail.DecisionNode
		node, err = h.sess.Select(ctx, h.current, step.Option, h.acceptOpts(step)...)
		h.recordNode(step, node, err, &event)
	case ActionAccept:
		var node rail.DecisionNode
		node, err = h.sess.Accept(ctx, h.current, h.acceptOpts(step)...)
		h.recordNode(step, node, err, &event)
	case ActionSwitchHead:
		_, err = h.sess.SwitchHead(h.resolve(step.Head))
	case ActionReset:
		_, err = h.sess.Reset(ctx)
		if err == nil {
			h.current = nil
			clear(h.labels)
		}
	case ActionInput:
		h.sess.SetLatestInput(step.Text)
	default:
		err = fmt.Errorf("unknown action %q", step.Action)
	}

	if err != nil {
		event.Error = ErrorClass(err)
		h.logger.Debug("step failed", "action", step.Action, "error", err)
	}
	event.Phase = string(h.sess.Phase())
	event.Head = h.sess.View().ActiveHead
	return event
}

// produce asks the session for a card and makes it the current card.
func (h *Harness) produce(ctx context.Context, in transition.Interaction, event *TraceEvent) error {
	c, err := h.sess.Next(ctx, in)
	if err != nil {
		return err
	}
	h.current = c
	meta := c.Meta()
	event.Card = meta.ID
	event.Kind = string(c.Kind())
	event.Title = meta.Title
	return nil
}

func (h *Harness) recordNode(step Step, node rail.DecisionNode, err error, event *TraceEvent) {
	if err != nil {
		return
	}
	event.Node = node.ID
	event.Parent = node.Parent()
	event.Card = node.CardID
	event.Kind = string(node.CardSnapshot.Kind())
	event.Title = node.Title()
	if step.As != "" {
		h.labels[step.As] = node.ID
	}
}

func (h *Harness) acceptOpts(step Step) []session.AcceptOpt {
	var opts []session.AcceptOpt
	switch {
	case step.Root:
		opts = append(opts, session.AsRoot())
	case step.Parent != "":
		opts = append(opts, session.WithParent(h.resolve(step.Parent)))
	}
	if step.Summary != "" {
		opts = append(opts, session.WithSummary(step.Summary))
	}
	return opts
}

// resolve maps a label to its decision id. Unknown labels are raw ids.
func (h *Harness) resolve(label string) string {
	if id, ok := h.labels[label]; ok {
		return id
	}
	return label
}

func (h *Harness) finalState(ctx context.Context) (FinalState, error) {
	view := h.sess.View()
	p := h.sess.Plan()

	n, err := h.store.Count(ctx)
	if err != nil {
		return FinalState{}, err
	}

	fs := FinalState{
		Phase:     p.Phase,
		Path:      make([]string, len(view.ActivePath)),
		Heads:     len(view.Heads),
		Decisions: n,
	}
	for i, node := range view.ActivePath {
		fs.Path[i] = node.Title()
	}
	if p.Interpret != nil {
		fs.Interpret = p.Interpret.ID
	}
	if p.Propose != nil {
		fs.Propose = p.Propose.ID
	}
	if p.Inspect != nil {
		fs.Inspect = p.Inspect.Kind
	}
	return fs, nil
}

// checkExpect returns a failure message, or "" if the step met expect.
// A failed step without an expectation is always reported.
func checkExpect(event TraceEvent, expect *Expect) string {
	if expect == nil {
		if event.Failed() {
			return fmt.Sprintf("unexpected %s error", event.Error)
		}
		return ""
	}
	if expect.Error != "" {
		if event.Error != expect.Error {
			return fmt.Sprintf("expected %s error, got %q", expect.Error, event.Error)
		}
		return ""
	}
	if event.Failed() {
		return fmt.Sprintf("unexpected %s error", event.Error)
	}
	if expect.Kind != "" && event.Kind != expect.Kind {
		return fmt.Sprintf("expected card kind %s, got %q", expect.Kind, event.Kind)
	}
	return ""
}
