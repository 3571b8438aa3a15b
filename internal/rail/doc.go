// Package rail holds the decision rail: an append-only forest of accepted
// decisions with a movable active head.
//
// Every DecisionNode wraps an immutable snapshot of the card the user
// accepted. Nodes are only ever added (Append, ReplaceAll) or dropped all at
// once (Reset). The active head is the one piece of state that moves on its
// own, when the user switches attention to another branch.
//
// Derived views are recomputed on demand:
//
//   - ActivePath: root to active head, oldest first
//   - Heads: nodes that are nobody's parent, in forest order
//
// Both are O(n) in the number of nodes, which is bounded by a single
// session's interactions.
//
// # Malformed forests
//
// Append refuses a node whose parent is not already in the forest, so a rail
// built only through Append is always well formed and acyclic. ReplaceAll
// loads persisted data as-is; if that data has a dangling parent or a parent
// cycle, path walks stop at the break and report a MalformedForest error
// (CheckedActivePath, PathTo) or log a warning (ActivePath).
package rail
