package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		scenario, err := LoadScenario(f)
		require.NoError(t, err)

		t.Run(scenario.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestAssertGolden_FromResult(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/start_over.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, "start_over", result))
}

func TestTraceJSON_Canonical(t *testing.T) {
	trace := []TraceEvent{
		{Step: 1, Action: ActionNext, Card: "id-1", Kind: "interpret", Title: "<b> & more", Phase: "discover"},
		{Step: 2, Action: ActionSwitchHead, Phase: "shape", Error: ErrClassNotFound},
	}

	got, err := TraceJSON("canon", trace)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario":"canon","trace":[`+
			`{"action":"next","card":"id-1","kind":"interpret","phase":"discover","step":1,"title":"<b> & more"},`+
			`{"action":"switch_head","error":"not_found","phase":"shape","step":2}]}`,
		string(got))
}

func TestTraceJSON_EmptyTrace(t *testing.T) {
	got, err := TraceJSON("empty", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"scenario":"empty","trace":[]}`, string(got))
}

func TestTraceJSON_Deterministic(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/fork_and_errors.yaml")
	require.NoError(t, err)

	var outputs []string
	for range 3 {
		result, err := Run(scenario)
		require.NoError(t, err)
		data, err := TraceJSON(scenario.Name, result.Trace)
		require.NoError(t, err)
		outputs = append(outputs, string(data))
	}
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[1], outputs[2])
}
