package card

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecodeError reports JSON that cannot be turned into a Card.
type DecodeError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Kind != "" {
		if e.Err != nil {
			return fmt.Sprintf("decode %s card: %s: %v", e.Kind, e.Message, e.Err)
		}
		return fmt.Sprintf("decode %s card: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("decode card: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("decode card: %s", e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// PeekKind reads only the "kind" discriminant from a JSON object.
func PeekKind(data []byte) (Kind, error) {
	var head struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", &DecodeError{Message: "invalid JSON", Err: err}
	}
	if head.Kind == "" {
		return "", &DecodeError{Message: "missing kind"}
	}
	return head.Kind, nil
}

// New returns an empty card of the given kind.
func New(kind Kind) (Card, error) {
	switch kind {
	case KindInterpret:
		return &InterpretCard{}, nil
	case KindPropose:
		return &ProposeCard{}, nil
	case KindMockup:
		return &MockupCard{}, nil
	case KindLens:
		return &LensCard{}, nil
	case KindError:
		return &ErrorCard{}, nil
	case KindSelectionSummary:
		return &SelectionSummaryCard{}, nil
	default:
		return nil, &DecodeError{Kind: kind, Message: "unknown kind"}
	}
}

// Decode dispatches on the "kind" field and decodes the matching variant.
func Decode(data []byte) (Card, error) {
	kind, err := PeekKind(data)
	if err != nil {
		return nil, err
	}
	c, err := New(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, &DecodeError{Kind: kind, Message: "invalid fields", Err: err}
	}
	return c, nil
}

// Marshal encodes a card with its "kind" discriminant.
func Marshal(c Card) ([]byte, error) {
	if IsNil(c) {
		return nil, fmt.Errorf("marshal card: nil card")
	}
	return json.Marshal(c)
}

// marshalWithKind encodes v and splices the "kind" discriminant in front of its fields.
func marshalWithKind(kind Kind, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(struct {
		Kind Kind `json:"kind"`
	}{kind})
	if err != nil {
		return nil, err
	}
	if len(body) <= 2 {
		return head, nil
	}
	out := make([]byte, 0, len(head)+len(body))
	out = append(out, head[:len(head)-1]...)
	out = append(out, ',')
	out = append(out, body[1:]...)
	return out, nil
}

type (
	interpretJSON InterpretCard
	proposeJSON   ProposeCard
	mockupJSON    MockupCard
	lensJSON      LensCard
	errorJSON     ErrorCard
	selectionJSON SelectionSummaryCard
)

func (c *InterpretCard) MarshalJSON() ([]byte, error) {
	return marshalWithKind(KindInterpret, (*interpretJSON)(c))
}

func (c *ProposeCard) MarshalJSON() ([]byte, error) {
	return marshalWithKind(KindPropose, (*proposeJSON)(c))
}

func (c *MockupCard) MarshalJSON() ([]byte, error) {
	return marshalWithKind(KindMockup, (*mockupJSON)(c))
}

func (c *LensCard) MarshalJSON() ([]byte, error) {
	return marshalWithKind(KindLens, (*lensJSON)(c))
}

func (c *ErrorCard) MarshalJSON() ([]byte, error) {
	return marshalWithKind(KindError, (*errorJSON)(c))
}

func (c *SelectionSummaryCard) MarshalJSON() ([]byte, error) {
	return marshalWithKind(KindSelectionSummary, (*selectionJSON)(c))
}
