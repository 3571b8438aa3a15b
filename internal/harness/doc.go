// Package harness runs scripted design conversations against a real
// session and checks the result.
//
// Each scenario runs in a fresh in-memory store with a sequential id
// generator, a deterministic clock and canned generator replies, so its
// trace is byte-stable and can be compared to a golden file.
//
// # Scenario Format
//
//	name: dashboard_happy_path
//	description: "Pick screens, then the dashboard, then keep the mockup"
//	generated:
//	  - json: '{"kind":"mockup","title":"...","regions":[...]}'
//	  - error: "upstream unavailable"
//	steps:
//	  - action: next
//	    expect: { kind: interpret }
//	  - action: select
//	    option: screens
//	    as: interpretation
//	  - action: refine
//	    instructions: "fewer widgets"
//	    expect: { error: generation }
//	assertions:
//	  - type: trace_order
//	    actions: [next, select]
//	  - type: final_state
//	    phase: inspect
//	    path: ["Sketch main screens"]
//
// # Step Actions
//
//   - next: ask for the next card (start on the first step, select after)
//   - refine / fork: regenerate the current card through the generator
//   - select: accept an option of the current card
//   - accept: accept the whole current card
//   - switch_head: make a labelled decision the active head
//   - reset: delete every decision
//   - input: record free-text user input for later prompts
//
// Decisions can be labelled with "as" and referred to by "parent" and
// "head". An unknown label is passed through as a raw decision id.
//
// # Assertion Types
//
//   - trace_contains: a successful step with the given action (and card kind)
//   - trace_order: actions appear in order (not necessarily consecutive)
//   - trace_count: exact number of successful steps with an action
//   - final_state: phase, active path titles, head count, stored decisions, plan
package harness
