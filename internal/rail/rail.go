package rail

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/designrail/internal/card"
)

// View is the derived state of the rail after a mutation.
type View struct {
	// ActiveHead is the id of the active head, or "" for an empty rail.
	ActiveHead string
	ActivePath []DecisionNode
	Heads      []DecisionNode
}

// Rail is the decision forest of one session.
//
// Rail is an owned state object, not a shared store: it is mutated by a
// single writer and is not safe for concurrent use.
type Rail struct {
	nodes  []DecisionNode
	index  map[string]int // id -> position in nodes (last occurrence)
	head   string         // "" means "use the last node"
	logger *slog.Logger
}

// Option configures a Rail.
type Option func(*Rail)

// WithLogger sets the logger used for malformed-forest warnings.
func WithLogger(l *slog.Logger) Option {
	return func(r *Rail) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty rail.
func New(opts ...Option) *Rail {
	r := &Rail{
		index:  make(map[string]int),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reset drops every node and clears the active head.
func (r *Rail) Reset() View {
	r.nodes = nil
	r.index = make(map[string]int)
	r.head = ""
	return r.View()
}

// ReplaceAll bulk-loads a forest, typically from persisted storage.
// Parent references are not validated. The active head becomes the last
// node, or stays unset when nodes is empty.
func (r *Rail) ReplaceAll(nodes []DecisionNode) View {
	r.nodes = slices.Clone(nodes)
	r.index = make(map[string]int, len(nodes))
	for i, n := range r.nodes {
		r.index[n.ID] = i
	}
	r.head = ""
	if len(r.nodes) > 0 {
		r.head = r.nodes[len(r.nodes)-1].ID
	}
	return r.View()
}

// Append adds a node and makes it the active head.
//
// The node's parent must already be in the forest; this keeps the rail
// acyclic by construction. A duplicate id, an empty id, a missing snapshot
// or an unknown parent is rejected and the rail is left unchanged. The
// snapshot is cloned so later edits to the caller's card cannot reach it.
func (r *Rail) Append(node DecisionNode) (View, error) {
	if node.ID == "" {
		return r.View(), &Error{Code: ErrCodeInvalidNode, Message: "decision id is empty"}
	}
	if card.IsNil(node.CardSnapshot) {
		return r.View(), &Error{Code: ErrCodeInvalidNode, Message: "decision has no card snapshot", NodeID: node.ID}
	}
	if _, exists := r.index[node.ID]; exists {
		return r.View(), NewDuplicateNodeError(node.ID)
	}
	if node.ParentID != nil {
		if _, ok := r.index[*node.ParentID]; !ok {
			return r.View(), NewDanglingParentError(node.ID, *node.ParentID)
		}
	}

	node.CardSnapshot = card.Clone(node.CardSnapshot)
	r.nodes = append(r.nodes, node)
	r.index[node.ID] = len(r.nodes) - 1
	r.head = node.ID
	return r.View(), nil
}

// SetActiveHead points the active head at an existing node. Any node may be
// made active, not only heads, so a caller can inspect an inner decision.
func (r *Rail) SetActiveHead(id string) (View, error) {
	if _, ok := r.index[id]; !ok {
		return r.View(), NewNotFoundError(id)
	}
	r.head = id
	return r.View(), nil
}

// ActiveHeadID returns the active head id, defaulting to the last node.
func (r *Rail) ActiveHeadID() string {
	if r.head != "" {
		return r.head
	}
	if len(r.nodes) == 0 {
		return ""
	}
	return r.nodes[len(r.nodes)-1].ID
}

// ActiveHead returns the active head node.
func (r *Rail) ActiveHead() (DecisionNode, bool) {
	return r.Node(r.ActiveHeadID())
}

// ActivePath returns root to active head, oldest first. A malformed parent
// chain truncates the path at the break and is logged.
func (r *Rail) ActivePath() []DecisionNode {
	path, err := r.CheckedActivePath()
	if err != nil {
		r.logger.Warn("active path truncated", "head", r.ActiveHeadID(), "error", err)
	}
	return path
}

// CheckedActivePath is ActivePath that also reports a malformed parent
// chain. The truncated path is returned alongside the error.
func (r *Rail) CheckedActivePath() ([]DecisionNode, error) {
	head := r.ActiveHeadID()
	if head == "" {
		return []DecisionNode{}, nil
	}
	return r.walk(head)
}

// PathTo returns root to id, oldest first.
func (r *Rail) PathTo(id string) ([]DecisionNode, error) {
	if _, ok := r.index[id]; !ok {
		return nil, NewNotFoundError(id)
	}
	return r.walk(id)
}

// walk follows parent links from id and returns the reversed chain.
func (r *Rail) walk(id string) ([]DecisionNode, error) {
	var (
		path []DecisionNode
		err  error
	)
	seen := make(map[string]bool)
	pos := r.index[id]
	for {
		n := r.nodes[pos]
		seen[n.ID] = true
		path = append(path, n)
		if n.ParentID == nil {
			break
		}
		parent := *n.ParentID
		next, ok := r.index[parent]
		if !ok {
			err = NewDanglingParentError(n.ID, parent)
			break
		}
		if seen[parent] {
			err = NewParentCycleError(n.ID, parent)
			break
		}
		pos = next
	}
	slices.Reverse(path)
	return path, err
}

// Heads returns every node that is not the parent of another node, in
// forest order. One branch gives one head; each fork adds another.
func (r *Rail) Heads() []DecisionNode {
	parents := make(map[string]bool, len(r.nodes))
	for _, n := range r.nodes {
		if n.ParentID != nil {
			parents[*n.ParentID] = true
		}
	}
	heads := []DecisionNode{}
	for _, n := range r.nodes {
		if !parents[n.ID] {
			heads = append(heads, n)
		}
	}
	return heads
}

// Children returns the direct children of id in forest order.
func (r *Rail) Children(id string) []DecisionNode {
	var out []DecisionNode
	for _, n := range r.nodes {
		if n.ParentID != nil && *n.ParentID == id {
			out = append(out, n)
		}
	}
	return out
}

// Node looks up a node by id.
func (r *Rail) Node(id string) (DecisionNode, bool) {
	pos, ok := r.index[id]
	if !ok {
		return DecisionNode{}, false
	}
	return r.nodes[pos], true
}

// Nodes returns every node in forest (insertion) order.
func (r *Rail) Nodes() []DecisionNode {
	return slices.Clone(r.nodes)
}

// Len returns the number of nodes.
func (r *Rail) Len() int {
	return len(r.nodes)
}

// View recomputes the derived state.
func (r *Rail) View() View {
	return View{
		ActiveHead: r.ActiveHeadID(),
		ActivePath: r.ActivePath(),
		Heads:      r.Heads(),
	}
}

// RenderPath renders a path as "[Accepted: <title>] -> [Accepted: <title>]".
func RenderPath(path []DecisionNode) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = "[Accepted: " + n.Title() + "]"
	}
	return strings.Join(parts, " -> ")
}
