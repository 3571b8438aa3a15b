package transition

import (
	"errors"
	"fmt"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/schema"
)

// InteractionType is what the user just did.
type InteractionType string

const (
	InteractionStart  InteractionType = "start"
	InteractionSelect InteractionType = "select"
	InteractionRefine InteractionType = "refine"
	InteractionFork   InteractionType = "fork"
)

// Interaction carries the user's latest action into Decide.
type Interaction struct {
	Type InteractionType `json:"type" yaml:"type"`

	// OptionID is the option picked on the previous card, if any.
	OptionID string `json:"optionId,omitempty" yaml:"option_id,omitempty"`

	// SourceCard is the card being refined or forked.
	SourceCard card.Card `json:"-" yaml:"-"`

	// Instructions is free text from the user.
	Instructions string `json:"instructions,omitempty" yaml:"instructions,omitempty"`
}

// PhaseFor returns the phase an interaction forces, if any. Refine and fork
// interactions override the planning phase.
func (i Interaction) PhaseFor(planned Phase) Phase {
	switch i.Type {
	case InteractionRefine:
		return PhaseRefine
	case InteractionFork:
		return PhaseFork
	default:
		return planned
	}
}

// Mode is the kind of generation a Request asks for.
type Mode string

const (
	// ModeRefine asks for a revised card of the same kind.
	ModeRefine Mode = "refine"

	// ModeFork asks for a sibling card in a materially different direction.
	ModeFork Mode = "fork"
)

// Request is the payload for the card generator.
type Request struct {
	Mode   Mode
	Kind   card.Kind
	Schema schema.Schema

	SourceCard   card.Card
	Instructions string
}

// Step is the outcome of Decide: exactly one of Card and Request is set.
type Step struct {
	Phase Phase

	// Card is a ready-made card from the canned catalog.
	Card card.Card

	// Request must be sent to the generator.
	Request *Request
}

// IsCanned reports whether the step already carries its card.
func (s Step) IsCanned() bool {
	return s.Card != nil
}

// InputError reports an interaction that cannot be acted on.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid interaction: %s: %s", e.Field, e.Message)
}

// IsInputError reports whether err is an *InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
