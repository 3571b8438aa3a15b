package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/transition"
)

var (
	screens   = card.Option{ID: "screens", Label: "Sketch main screens", Summary: "Layouts and navigation."}
	dataModel = card.Option{ID: "data-model", Label: "Define the data model"}
	dashboard = card.Option{ID: "dashboard", Label: "Dashboard: overview + project pages"}
)

func mockup() *card.MockupCard {
	return &card.MockupCard{
		Base: card.Base{ID: "m1", Title: "Dashboard overview sketch", Description: "Hero metrics up top."},
		Regions: []card.Region{
			{ID: "nav-rail", Label: "Navigation rail", Layout: card.LayoutLibrary},
		},
	}
}

func lens() *card.LensCard {
	return &card.LensCard{
		Base:     card.Base{ID: "l1", Title: "Dashboard entity lens"},
		LensType: card.LensScreens,
		Payload: card.LensPayload{
			Sections: []card.LensSection{{ID: "hero", Label: "Header", Contents: []string{"Nav"}}},
		},
	}
}

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, transition.PhaseDiscover, p.Phase)
	assert.Nil(t, p.Interpret)
	assert.Nil(t, p.Propose)
	assert.Nil(t, p.Inspect)
}

func TestApply_LockSequence(t *testing.T) {
	p := Apply(New(), LockInterpret{Option: screens})
	assert.Equal(t, transition.PhaseShape, p.Phase)
	require.NotNil(t, p.Interpret)
	assert.Equal(t, "screens", p.Interpret.ID)

	p = Apply(p, LockPropose{Option: dashboard})
	assert.Equal(t, transition.PhaseInspect, p.Phase)
	assert.Equal(t, "screens", p.Interpret.ID)
	assert.Equal(t, "dashboard", p.Propose.ID)

	p = Apply(p, LockInspect{Card: mockup()})
	assert.Equal(t, transition.PhaseInspect, p.Phase)
	require.NotNil(t, p.Inspect)
	assert.Equal(t, card.KindMockup, p.Inspect.Kind)
	assert.Equal(t, "Dashboard overview sketch", p.Inspect.Label)
	assert.Equal(t, "Hero metrics up top.", p.Inspect.Summary)
	assert.Equal(t, "dashboard", p.Propose.ID, "inspect keeps earlier locks")
}

func TestApply_LockInterpretClearsLaterSlots(t *testing.T) {
	p := Replay(LockInterpret{Option: screens}, LockPropose{Option: dashboard}, LockInspect{Card: lens()})
	p = Apply(p, LockInterpret{Option: dataModel})

	assert.Equal(t, transition.PhaseShape, p.Phase)
	assert.Equal(t, "data-model", p.Interpret.ID)
	assert.Nil(t, p.Propose)
	assert.Nil(t, p.Inspect)
}

func TestApply_LockProposeDropsInspect(t *testing.T) {
	p := Replay(LockInterpret{Option: screens}, LockPropose{Option: dashboard}, LockInspect{Card: lens()})
	p = Apply(p, LockPropose{Option: card.Option{ID: "minimal", Label: "Minimal"}})

	assert.Equal(t, "minimal", p.Propose.ID)
	assert.Nil(t, p.Inspect)
}

func TestApply_ExplicitPhases(t *testing.T) {
	p := Apply(New(), LockInterpret{Option: screens, NextPhase: transition.PhaseRefine})
	assert.Equal(t, transition.PhaseRefine, p.Phase)

	p = Apply(p, Reset{Phase: transition.PhaseShape})
	assert.Equal(t, CurrentPlan{Phase: transition.PhaseShape}, p)

	p = Apply(p, Reset{})
	assert.Equal(t, New(), p)
}

func TestApply_DefaultPhasesFollowTransition(t *testing.T) {
	mockup := &card.MockupCard{
		Base:    card.Base{ID: "m", Title: "Sketch"},
		Regions: []card.Region{{ID: "nav", Label: "Nav", Layout: card.LayoutLibrary}},
	}
	tests := []struct {
		name  string
		event Event
		kind  card.Kind
	}{
		{"interpret", LockInterpret{Option: screens}, card.KindInterpret},
		{"propose", LockPropose{Option: card.Option{ID: "dashboard", Label: "Dashboard"}}, card.KindPropose},
		{"inspect", LockInspect{Card: mockup}, card.KindMockup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := New()
			got := Apply(from, tt.event)
			assert.Equal(t, transition.NextPhase(from.Phase, tt.kind), got.Phase)
		})
	}
}

func TestApply_LockInspectIgnoresOtherKinds(t *testing.T) {
	before := Replay(LockInterpret{Option: screens})
	after := Apply(before, LockInspect{Card: &card.ErrorCard{Base: card.Base{ID: "e", Title: "x"}}})
	assert.Empty(t, cmp.Diff(before, after))

	after = Apply(before, LockInspect{})
	assert.Empty(t, cmp.Diff(before, after))

	after = Apply(before, LockInspect{Card: (*card.LensCard)(nil)})
	assert.Empty(t, cmp.Diff(before, after))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	before := Replay(LockInterpret{Option: screens}, LockPropose{Option: dashboard})
	snapshot := before.Clone()

	_ = Apply(before, LockInspect{Card: mockup()})
	_ = Apply(before, LockInterpret{Option: dataModel})

	assert.Empty(t, cmp.Diff(snapshot, before))
}

func TestApply_InspectCardIsCopied(t *testing.T) {
	m := mockup()
	p := Apply(New(), LockInspect{Card: m})
	m.Regions[0].Label = "changed"

	got := p.Inspect.Card.(*card.MockupCard)
	assert.Equal(t, "Navigation rail", got.Regions[0].Label)
}

func TestReplay_Idempotent(t *testing.T) {
	events := []Event{
		LockInterpret{Option: screens},
		LockPropose{Option: dashboard},
		LockInspect{Card: lens()},
		LockInspect{Card: mockup()},
		Reset{},
		LockInterpret{Option: dataModel},
		LockPropose{Option: dashboard},
	}

	first := Replay(events...)
	second := Replay(events...)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("replay is not idempotent (-first +second):\n%s", diff)
	}
	assert.Equal(t, "data-model", first.Interpret.ID)
	assert.Equal(t, "dashboard", first.Propose.ID)
}

func TestFromPath(t *testing.T) {
	path := []rail.DecisionNode{
		{ID: "d1", CardSnapshot: &card.SelectionSummaryCard{
			Base:           card.Base{ID: "i1", Title: "Sketch main screens"},
			SelectionID:    "screens",
			SelectionLabel: "Sketch main screens",
			SourceCardKind: card.KindInterpret,
		}},
		{ID: "d2", ParentID: rail.StringPtr("d1"), CardSnapshot: &card.SelectionSummaryCard{
			Base:             card.Base{ID: "p1", Title: "Dashboard"},
			SelectionID:      "dashboard",
			SelectionLabel:   "Dashboard: overview + project pages",
			SelectionSummary: "KPIs first.",
			SourceCardKind:   card.KindPropose,
		}},
		{ID: "d3", ParentID: rail.StringPtr("d2"), CardSnapshot: &card.ErrorCard{
			Base: card.Base{ID: "e1", Title: "Oops"}, ErrorKind: card.ErrorModelUncertain,
		}},
		{ID: "d4", ParentID: rail.StringPtr("d3"), CardSnapshot: mockup()},
	}

	events := EventsFromPath(path)
	require.Len(t, events, 3)
	assert.IsType(t, LockInterpret{}, events[0])
	assert.IsType(t, LockPropose{}, events[1])
	assert.IsType(t, LockInspect{}, events[2])

	p := FromPath(path)
	assert.Equal(t, transition.PhaseInspect, p.Phase)
	assert.Equal(t, "screens", p.Interpret.ID)
	assert.Equal(t, "KPIs first.", p.Propose.Summary)
	assert.Equal(t, card.KindMockup, p.Inspect.Kind)

	assert.Equal(t, New(), FromPath(nil))
	assert.Empty(t, EventsFromPath(nil))
}
