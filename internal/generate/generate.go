// Package generate turns generation requests into validated cards.
//
// A Generator produces raw JSON from some source (the Gemini API, or canned
// responses in tests and offline runs) and hands it to Finish, which
// validates it against the requested schema, checks the kind and assigns a
// missing id. Upstream failures are *GenerationError; schema failures are
// *schema.ValidationError. Neither mutates anything.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/ident"
	"github.com/roach88/designrail/internal/schema"
)

// Request is one call to a generator.
type Request struct {
	// Kind is the expected card kind. Empty means any kind the schema allows.
	Kind   card.Kind
	Schema schema.Schema

	System  string
	Context string
}

// Generator produces a card for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (card.Card, error)
}

// GenerationError reports an upstream failure or unusable output.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Message, e.Err)
	}
	return "generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err is a *GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// Finisher validates raw generator output.
type Finisher struct {
	validator *schema.Validator
	ids       ident.Generator
}

// NewFinisher creates a Finisher. ids assigns ids to cards that arrive without one.
func NewFinisher(v *schema.Validator, ids ident.Generator) *Finisher {
	return &Finisher{validator: v, ids: ids}
}

// SchemaText returns the CUE source of the schema a request is validated
// against, for use in prompts.
func (f *Finisher) SchemaText(req Request) (string, error) {
	return f.validator.Describe(schemaOf(req))
}

// Finish validates raw against req.Schema and returns the card.
func (f *Finisher) Finish(req Request, raw []byte) (card.Card, error) {
	raw = stripFence(raw)
	if len(raw) == 0 {
		return nil, &GenerationError{Message: "empty response"}
	}

	s := schemaOf(req)
	c, err := f.validator.Validate(s, raw)
	if err != nil {
		return nil, err
	}
	if req.Kind != "" && s != schema.Union && c.Kind() != req.Kind {
		return nil, &GenerationError{Message: fmt.Sprintf("expected a %s card, got %s", req.Kind, c.Kind())}
	}
	if c.Meta().ID == "" {
		card.SetID(c, f.ids.Generate())
	}
	return c, nil
}

func schemaOf(req Request) schema.Schema {
	if req.Schema == "" {
		return schema.For(req.Kind)
	}
	return req.Schema
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if !bytes.HasPrefix(raw, []byte("```")) {
		return raw
	}
	raw = bytes.TrimPrefix(raw, []byte("```"))
	if nl := bytes.IndexByte(raw, '\n'); nl >= 0 {
		raw = raw[nl+1:]
	} else {
		raw = nil
	}
	raw = bytes.TrimSuffix(bytes.TrimSpace(raw), []byte("```"))
	return bytes.TrimSpace(raw)
}
