package rail

import (
	"errors"
	"fmt"
)

// ErrorCode categorises rail errors.
type ErrorCode string

const (
	// ErrCodeNotFound: the referenced node id is not in the forest.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeMalformedForest: a parent reference is dangling or cyclic.
	ErrCodeMalformedForest ErrorCode = "MALFORMED_FOREST"

	// ErrCodeDuplicateNode: a node with the same id already exists.
	ErrCodeDuplicateNode ErrorCode = "DUPLICATE_NODE"

	// ErrCodeInvalidNode: the node is missing its id or snapshot.
	ErrCodeInvalidNode ErrorCode = "INVALID_NODE"
)

// Error is returned by rail operations. A failed operation leaves the rail unchanged.
type Error struct {
	Code    ErrorCode
	Message string

	// NodeID is the node the error is about.
	NodeID string

	// ParentID is the offending parent reference for malformed-forest errors.
	ParentID string
}

func (e *Error) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.NodeID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// IsNotFound reports whether err is a NOT_FOUND rail error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsMalformedForest reports whether err is a MALFORMED_FOREST rail error.
func IsMalformedForest(err error) bool { return hasCode(err, ErrCodeMalformedForest) }

// IsDuplicateNode reports whether err is a DUPLICATE_NODE rail error.
func IsDuplicateNode(err error) bool { return hasCode(err, ErrCodeDuplicateNode) }

// NewNotFoundError creates a NOT_FOUND error for id.
func NewNotFoundError(id string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "no decision with this id", NodeID: id}
}

// NewDanglingParentError reports a node whose parent is not in the forest.
func NewDanglingParentError(nodeID, parentID string) *Error {
	return &Error{
		Code:     ErrCodeMalformedForest,
		Message:  fmt.Sprintf("parent %s is not in the forest", parentID),
		NodeID:   nodeID,
		ParentID: parentID,
	}
}

// NewParentCycleError reports a parent chain that loops back on itself.
func NewParentCycleError(nodeID, parentID string) *Error {
	return &Error{
		Code:     ErrCodeMalformedForest,
		Message:  fmt.Sprintf("parent %s closes a cycle", parentID),
		NodeID:   nodeID,
		ParentID: parentID,
	}
}

// NewDuplicateNodeError reports an id that is already taken.
func NewDuplicateNodeError(id string) *Error {
	return &Error{Code: ErrCodeDuplicateNode, Message: "decision id already exists", NodeID: id}
}
