package card

import (
	"errors"
	"fmt"
	"strings"
)

// InvariantError lists the structural problems found on a card.
type InvariantError struct {
	Kind     Kind
	Problems []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invalid %s card: %s", e.Kind, strings.Join(e.Problems, "; "))
}

// IsInvariantError reports whether err is (or wraps) an InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}

// IsNil reports whether c is nil or a nil pointer of one of the variant
// types, such as (*MockupCard)(nil).
func IsNil(c Card) bool {
	switch v := c.(type) {
	case nil:
		return true
	case *InterpretCard:
		return v == nil
	case *ProposeCard:
		return v == nil
	case *MockupCard:
		return v == nil
	case *LensCard:
		return v == nil
	case *ErrorCard:
		return v == nil
	case *SelectionSummaryCard:
		return v == nil
	default:
		return false
	}
}

// Check verifies the structural invariants of a card: an id and title are
// present, option/region/section lists are non-empty, and enum fields hold
// known values. Returns nil when the card is well formed.
func Check(c Card) error {
	if IsNil(c) {
		return &InvariantError{Problems: []string{"card is nil"}}
	}
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	meta := c.Meta()
	if meta.ID == "" {
		add("id is required")
	}
	if meta.Title == "" {
		add("title is required")
	}

	switch v := c.(type) {
	case *InterpretCard:
		checkOptions(v.Options, add)
	case *ProposeCard:
		checkOptions(v.Options, add)
	case *MockupCard:
		if len(v.Regions) == 0 {
			add("regions must not be empty")
		}
		for i, r := range v.Regions {
			if r.ID == "" {
				add("regions[%d].id is required", i)
			}
			switch r.Layout {
			case LayoutShelf, LayoutBookcase, LayoutLibrary:
			default:
				add("regions[%d].layout %q is not one of shelf, bookcase, library", i, r.Layout)
			}
			switch r.Role {
			case "", RoleSidebar, RoleSwitcher, RoleContent:
			default:
				add("regions[%d].role %q is not one of sidebar, switcher, content", i, r.Role)
			}
		}
	case *LensCard:
		switch v.LensType {
		case LensEntities, LensFlows, LensScreens, LensPermissions:
		default:
			add("lensType %q is not one of entities, flows, screens, permissions", v.LensType)
		}
		if len(v.Payload.Sections) == 0 {
			add("payload.sections must not be empty")
		}
	case *ErrorCard:
		switch v.ErrorKind {
		case ErrorMissingInfo, ErrorModelUncertain, ErrorInvalidState:
		default:
			add("errorKind %q is not one of missing_info, model_uncertain, invalid_state", v.ErrorKind)
		}
	case *SelectionSummaryCard:
		if v.SelectionID == "" {
			add("selectionId is required")
		}
		if v.SourceCardKind != KindInterpret && v.SourceCardKind != KindPropose {
			add("sourceCardKind %q is not one of interpret, propose", v.SourceCardKind)
		}
	}

	if len(problems) > 0 {
		return &InvariantError{Kind: c.Kind(), Problems: problems}
	}
	return nil
}

func checkOptions(opts []Option, add func(string, ...any)) {
	if len(opts) == 0 {
		add("options must not be empty")
	}
	seen := make(map[string]bool, len(opts))
	for i, o := range opts {
		if o.ID == "" {
			add("options[%d].id is required", i)
			continue
		}
		if seen[o.ID] {
			add("options[%d].id %q is duplicated", i, o.ID)
		}
		seen[o.ID] = true
	}
}
