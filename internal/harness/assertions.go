package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Step, event.Action)
			if event.Kind != "" {
				fmt.Fprintf(&buf, " %s %q", event.Kind, event.Title)
			}
			if event.Failed() {
				fmt.Fprintf(&buf, " (%s error)", event.Error)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

// matches reports whether a successful event has the action and, if set, the kind.
func matches(event TraceEvent, action, kind string) bool {
	return !event.Failed() && event.Action == action && (kind == "" || event.Kind == kind)
}

// assertTraceContains checks for a successful step with the action and kind.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if matches(event, assertion.Action, assertion.Kind) {
			return nil
		}
	}

	expected := assertion.Action
	if assertion.Kind != "" {
		expected += " producing " + assertion.Kind
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "no matching step",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the actions succeed in the given order.
// Each action is matched after the previous match, so repeated actions
// must repeat in the trace.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	pos, after := 0, 0
	for _, action := range assertion.Actions {
		found := false
		for pos < len(trace) {
			event := trace[pos]
			pos++
			if matches(event, action, "") {
				found = true
				after = event.Step
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
				Actual:   fmt.Sprintf("no %s after step %d", action, after),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks if the action succeeds exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if matches(event, assertion.Action, assertion.Kind) {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks the fields set on the assertion against the
// session state after the last step.
func assertFinalState(fs FinalState, assertion Assertion) error {
	fail := func(field string, expected, actual any) error {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s = %v", field, expected),
			Actual:   fmt.Sprintf("%s = %v", field, actual),
		}
	}

	if assertion.Phase != "" && assertion.Phase != string(fs.Phase) {
		return fail("phase", assertion.Phase, fs.Phase)
	}
	if assertion.Path != nil && !slices.Equal(assertion.Path, fs.Path) {
		return fail("path", assertion.Path, fs.Path)
	}
	if assertion.Heads != nil && *assertion.Heads != fs.Heads {
		return fail("heads", *assertion.Heads, fs.Heads)
	}
	if assertion.Decisions != nil && *assertion.Decisions != fs.Decisions {
		return fail("decisions", *assertion.Decisions, fs.Decisions)
	}
	if assertion.Interpret != "" && assertion.Interpret != fs.Interpret {
		return fail("interpret", assertion.Interpret, fs.Interpret)
	}
	if assertion.Propose != "" && assertion.Propose != fs.Propose {
		return fail("propose", assertion.Propose, fs.Propose)
	}
	if assertion.Inspect != "" && assertion.Inspect != string(fs.Inspect) {
		return fail("inspect", assertion.Inspect, fs.Inspect)
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result and the
// final state. Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, final FinalState) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(final, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
