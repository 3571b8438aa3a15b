package rail

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/designrail/internal/card"
)

// DecisionNode is one accepted decision.
type DecisionNode struct {
	ID     string `json:"id"`
	CardID string `json:"cardId"`

	// ParentID is nil only for a root decision.
	ParentID   *string   `json:"parentId"`
	AcceptedAt time.Time `json:"acceptedAt"`
	Summary    *string   `json:"summary"`

	// CardSnapshot is a full copy of the card as accepted. It is never
	// re-derived from a live card and must be treated as read-only.
	CardSnapshot card.Card `json:"cardSnapshot"`
}

// IsRoot reports whether the node has no parent.
func (n DecisionNode) IsRoot() bool {
	return n.ParentID == nil
}

// Parent returns the parent id, or "" for a root.
func (n DecisionNode) Parent() string {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}

// Title returns the snapshot title, or "" when there is no snapshot.
func (n DecisionNode) Title() string {
	if card.IsNil(n.CardSnapshot) {
		return ""
	}
	return n.CardSnapshot.Meta().Title
}

// UnmarshalJSON decodes the snapshot through card.Decode.
func (n *DecisionNode) UnmarshalJSON(data []byte) error {
	type plain DecisionNode
	var raw struct {
		plain
		CardSnapshot json.RawMessage `json:"cardSnapshot"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = DecisionNode(raw.plain)
	n.CardSnapshot = nil
	if len(raw.CardSnapshot) > 0 && string(raw.CardSnapshot) != "null" {
		c, err := card.Decode(raw.CardSnapshot)
		if err != nil {
			return fmt.Errorf("decision %s: %w", n.ID, err)
		}
		n.CardSnapshot = c
	}
	return nil
}

// StringPtr returns a pointer to s, for ParentID and Summary literals.
func StringPtr(s string) *string {
	return &s
}
