package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/format"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/designrail/internal/card"
)

//go:embed cards.cue
var cardsCUE string

// Schema names a CUE definition in cards.cue.
type Schema string

const (
	Interpret Schema = "#InterpretCard"
	Propose   Schema = "#ProposeCard"
	Mockup    Schema = "#MockupCard"
	Lens      Schema = "#LensCard"
	Union     Schema = "#AnyCard"
)

// For returns the dedicated schema for a generated card kind, or Union for
// any kind without one.
func For(kind card.Kind) Schema {
	switch kind {
	case card.KindInterpret:
		return Interpret
	case card.KindPropose:
		return Propose
	case card.KindMockup:
		return Mockup
	case card.KindLens:
		return Lens
	default:
		return Union
	}
}

// Validator checks JSON against the card schemas.
// A cue.Context is not safe for concurrent use, so calls are serialised.
type Validator struct {
	mu   sync.Mutex
	ctx  *cue.Context
	root cue.Value
}

// NewValidator compiles the embedded card schemas.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(cardsCUE, cue.Filename("cards.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile card schemas: %w", err)
	}
	return &Validator{ctx: ctx, root: root}, nil
}

// Validate checks data against schema s and decodes it into a card.
// Every failure is returned as a *ValidationError. The returned card may
// have an empty ID; callers assign one.
func (v *Validator) Validate(s Schema, data []byte) (card.Card, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	expr, err := cuejson.Extract("card.json", data)
	if err != nil {
		return nil, &ValidationError{
			Schema: s,
			Issues: []Issue{{Code: ErrInvalidJSON, Message: err.Error()}},
		}
	}

	target := s
	if s == Union {
		// Dispatch on the discriminant so a known kind gets precise errors.
		if kind, err := card.PeekKind(data); err == nil && For(kind) != Union {
			target = For(kind)
		}
	}

	def := v.root.LookupPath(cue.ParsePath(string(target)))
	if !def.Exists() {
		return nil, fmt.Errorf("schema %s not defined", target)
	}

	unified := def.Unify(v.ctx.BuildExpr(expr))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &ValidationError{Schema: target, Issues: issuesFromCUE(err)}
	}

	c, err := card.Decode(data)
	if err != nil {
		return nil, &ValidationError{
			Schema: target,
			Issues: []Issue{{Code: ErrDecode, Message: err.Error()}},
		}
	}
	return c, nil
}

// Describe returns the CUE source of a definition, for inclusion in prompts.
func (v *Validator) Describe(s Schema) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	def := v.root.LookupPath(cue.ParsePath(string(s)))
	if !def.Exists() {
		return "", fmt.Errorf("schema %s not defined", s)
	}
	src, err := format.Node(def.Syntax(cue.Definitions(true)))
	if err != nil {
		return "", fmt.Errorf("format schema %s: %w", s, err)
	}
	return strings.TrimSpace(string(src)), nil
}

// issuesFromCUE flattens a CUE error list into issues with dotted paths.
func issuesFromCUE(err error) []Issue {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return []Issue{{Code: ErrSchemaMismatch, Message: err.Error()}}
	}
	issues := make([]Issue, 0, len(errs))
	for _, e := range errs {
		msg, args := e.Msg()
		issue := Issue{
			Code:    ErrSchemaMismatch,
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(msg, args...),
		}
		if pos := e.Position(); pos.IsValid() {
			issue.Line = pos.Line()
		}
		issues = append(issues, issue)
	}
	return issues
}
