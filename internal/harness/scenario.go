package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted conversation with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Generated are the generator replies consumed in order by refine and
	// fork steps. The last one repeats.
	Generated []Generated `yaml:"generated,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// Generated is one canned generator reply: raw card JSON or an upstream error.
type Generated struct {
	JSON  string `yaml:"json,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// Step is one user action.
type Step struct {
	Action string `yaml:"action"`

	// Option is the option id for select, or the locked option for next.
	Option string `yaml:"option,omitempty"`

	Instructions string `yaml:"instructions,omitempty"`
	Text         string `yaml:"text,omitempty"`

	// Parent, Root and Summary shape the decision made by select or accept.
	Parent  string `yaml:"parent,omitempty"`
	Root    bool   `yaml:"root,omitempty"`
	Summary string `yaml:"summary,omitempty"`

	// As labels the decision made by this step.
	As string `yaml:"as,omitempty"`

	// Head is the decision label for switch_head.
	Head string `yaml:"head,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is the expected outcome of a step.
type Expect struct {
	// Kind is the card kind produced or accepted.
	Kind string `yaml:"kind,omitempty"`

	// Error is the expected failure class (see ErrorClass).
	Error string `yaml:"error,omitempty"`
}

// Step actions.
const (
	ActionNext       = "next"
	ActionRefine     = "refine"
	ActionFork       = "fork"
	ActionSelect     = "select"
	ActionAccept     = "accept"
	ActionSwitchHead = "switch_head"
	ActionReset      = "reset"
	ActionInput      = "input"
)

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	Action  string   `yaml:"action,omitempty"`
	Kind    string   `yaml:"kind,omitempty"`
	Actions []string `yaml:"actions,omitempty"`
	Count   int      `yaml:"count,omitempty"`

	// final_state fields. Unset fields are not checked.
	Phase     string   `yaml:"phase,omitempty"`
	Path      []string `yaml:"path,omitempty"`
	Heads     *int     `yaml:"heads,omitempty"`
	Decisions *int     `yaml:"decisions,omitempty"`
	Interpret string   `yaml:"interpret,omitempty"`
	Propose   string   `yaml:"propose,omitempty"`
	Inspect   string   `yaml:"inspect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir whose base name
// (without extension) matches filter, sorted by path. An empty filter
// matches everything.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := filepath.Base(path)
			name = name[:len(name)-len(ext)]
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, g := range s.Generated {
		if (g.JSON == "") == (g.Error == "") {
			return fmt.Errorf("generated[%d]: exactly one of json or error is required", i)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	switch s.Action {
	case ActionNext, ActionRefine, ActionFork, ActionAccept, ActionReset:
	case ActionSelect:
		if s.Option == "" {
			return fmt.Errorf("steps[%d]: option is required for select", index)
		}
	case ActionSwitchHead:
		if s.Head == "" {
			return fmt.Errorf("steps[%d]: head is required for switch_head", index)
		}
	case ActionInput:
		if s.Text == "" {
			return fmt.Errorf("steps[%d]: text is required for input", index)
		}
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, s.Action)
	}
	if s.Root && s.Parent != "" {
		return fmt.Errorf("steps[%d]: root and parent are mutually exclusive", index)
	}
	if s.Expect != nil && s.Expect.Error != "" && !isErrorClass(s.Expect.Error) {
		return fmt.Errorf("steps[%d].expect: unknown error class %q", index, s.Expect.Error)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Phase == "" && a.Path == nil && a.Heads == nil && a.Decisions == nil &&
			a.Interpret == "" && a.Propose == "" && a.Inspect == "" {
			return fmt.Errorf("assertions[%d]: final_state needs at least one field to check", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
