package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Step   int    `json:"step"`
	Action string `json:"action"`

	// Card is the id of the card produced or accepted by the step.
	Card  string `json:"card,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Title string `json:"title,omitempty"`

	// Node is the decision created by select or accept.
	Node   string `json:"node,omitempty"`
	Parent string `json:"parent,omitempty"`

	// Phase and Head are the session state after the step.
	Phase string `json:"phase"`
	Head  string `json:"head,omitempty"`

	// Error is the failure class of the step, if it failed.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the step returned an error.
func (e TraceEvent) Failed() bool {
	return e.Error != ""
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	Trace  []TraceEvent `json:"trace"`
	Errors []string     `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
