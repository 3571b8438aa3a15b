package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/rail"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// createTestDecision creates a decision whose snapshot is a small lens card.
func createTestDecision(id, parent string, offset time.Duration) rail.DecisionNode {
	n := rail.DecisionNode{
		ID:         id,
		CardID:     "card-" + id,
		AcceptedAt: testEpoch.Add(offset),
		CardSnapshot: &card.LensCard{
			Base:     card.Base{ID: "card-" + id, Title: "Lens " + id, FlowID: "slice-1", StepIndex: card.Step(2)},
			LensType: card.LensScreens,
			Payload: card.LensPayload{
				Sections:      []card.LensSection{{ID: "hero", Label: "Header", Contents: []string{"Nav", "Profile"}}},
				CallsToAction: []string{"Create project"},
			},
		},
	}
	if parent != "" {
		n.ParentID = rail.StringPtr(parent)
	}
	return n
}
