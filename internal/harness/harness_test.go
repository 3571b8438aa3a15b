package harness

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/generate"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/schema"
	"github.com/roach88/designrail/internal/store"
	"github.com/roach88/designrail/internal/transition"
)

func intPtr(n int) *int { return &n }

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "first card only",
		Steps:       []Step{{Action: ActionNext, Expect: &Expect{Kind: "interpret"}}},
		Assertions:  []Assertion{{Type: AssertTraceContains, Action: ActionNext, Kind: "interpret"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{
		Step:   1,
		Action: ActionNext,
		Card:   "id-1",
		Kind:   "interpret",
		Title:  "What did you have in mind?",
		Phase:  "discover",
	}, result.Trace[0])
}

func TestRun_SelectLocksPlanAndLabels(t *testing.T) {
	scenario := &Scenario{
		Name:        "labels",
		Description: "select twice, then branch from the first decision",
		Steps: []Step{
			{Action: ActionNext},
			{Action: ActionSelect, Option: "screens", As: "interp"},
			{Action: ActionNext},
			{Action: ActionSelect, Option: "minimal"},
			{Action: ActionSelect, Option: "workspace", Parent: "interp"},
		},
		Assertions: []Assertion{{
			Type:      AssertFinalState,
			Phase:     "inspect",
			Path:      []string{"Sketch main screens", "Workspace: sidebar with sections"},
			Heads:     intPtr(2),
			Decisions: intPtr(3),
			Interpret: "screens",
			Propose:   "workspace",
		}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	last := result.Trace[4]
	assert.Equal(t, "id-2", last.Parent)
	assert.Equal(t, last.Node, last.Head)
}

func TestRun_ExpectedErrorPasses(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_source",
		Description: "refine before any card exists",
		Steps:       []Step{{Action: ActionRefine, Expect: &Expect{Error: ErrClassInput}}},
		Assertions:  []Assertion{{Type: AssertTraceCount, Action: ActionRefine, Count: 0}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, ErrClassInput, result.Trace[0].Error)
}

func TestRun_UnexpectedErrorFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "no_card",
		Description: "accept before any card exists",
		Steps:       []Step{{Action: ActionAccept}},
		Assertions:  []Assertion{{Type: AssertTraceCount, Action: ActionAccept, Count: 0}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "unexpected input error")
}

func TestRun_ExpectMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "wrong expectations are reported per step",
		Steps: []Step{
			{Action: ActionNext, Expect: &Expect{Kind: "propose"}},
			{Action: ActionSelect, Option: "screens", Expect: &Expect{Error: ErrClassNotFound}},
		},
		Assertions: []Assertion{{Type: AssertTraceContains, Action: ActionNext}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected card kind propose")
	assert.Contains(t, result.Errors[1], "expected not_found error")
}

func TestRun_GeneratedResponses(t *testing.T) {
	scenario := &Scenario{
		Name:        "generated",
		Description: "refine consumes canned replies in order",
		Generated: []Generated{
			{Error: "quota exceeded"},
			{JSON: `{"kind":"interpret","title":"Sharper","options":[{"id":"a","label":"A"}]}`},
		},
		Steps: []Step{
			{Action: ActionNext},
			{Action: ActionRefine, Expect: &Expect{Error: ErrClassGeneration}},
			{Action: ActionRefine, Expect: &Expect{Kind: "interpret"}},
			{Action: ActionSelect, Option: "a"},
		},
		Assertions: []Assertion{{Type: AssertFinalState, Path: []string{"A"}, Interpret: "a"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "gen-1", result.Trace[2].Card)
	assert.Equal(t, "Sharper", result.Trace[2].Title)
}

func TestRun_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/dashboard_happy_path.yaml")
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_FreshDatabasePerRun(t *testing.T) {
	scenario := &Scenario{
		Name:        "one_decision",
		Description: "each run starts empty",
		Steps: []Step{
			{Action: ActionNext},
			{Action: ActionSelect, Option: "flows"},
		},
		Assertions: []Assertion{{Type: AssertFinalState, Decisions: intPtr(1)}},
	}

	for i := range 3 {
		result, err := Run(scenario)
		require.NoError(t, err)
		assert.True(t, result.Pass, "run %d: %v", i, result.Errors)
	}
}

func TestErrorClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&schema.ValidationError{Schema: schema.Mockup}, ErrClassValidation},
		{&generate.GenerationError{Message: "x"}, ErrClassGeneration},
		{&transition.InputError{Field: "f", Message: "m"}, ErrClassInput},
		{rail.NewNotFoundError("a"), ErrClassNotFound},
		{rail.NewDanglingParentError("a", "b"), ErrClassMalformedForest},
		{rail.NewDuplicateNodeError("a"), ErrClassDuplicate},
		{fmt.Errorf("persist decision: %w", store.ErrDuplicate), ErrClassDuplicate},
		{&card.InvariantError{Problems: []string{"title is required"}}, ErrClassInvariant},
		{errors.New("disk full"), ErrClassOther},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorClass(tt.err), "%v", tt.err)
	}
}

func TestResult_AddError(t *testing.T) {
	result := NewResult()
	assert.True(t, result.Pass)

	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}

func TestResult_AddTrace(t *testing.T) {
	result := NewResult()
	result.AddTrace(TraceEvent{Step: 1, Action: ActionNext})
	result.AddTrace(TraceEvent{Step: 2, Action: ActionReset})

	require.Len(t, result.Trace, 2)
	assert.Equal(t, ActionReset, result.Trace[1].Action)
	assert.True(t, result.Pass)
}
