package card

import "slices"

// Clone returns a deep copy of c. Decision snapshots are taken with Clone so
// later edits to a live card never reach an accepted decision. A nil or
// typed-nil card clones to nil.
func Clone(c Card) Card {
	if IsNil(c) {
		return nil
	}
	switch v := c.(type) {
	case *InterpretCard:
		out := *v
		out.Base = v.Meta()
		out.Options = slices.Clone(v.Options)
		return &out
	case *ProposeCard:
		out := *v
		out.Base = v.Meta()
		out.Options = slices.Clone(v.Options)
		return &out
	case *MockupCard:
		out := *v
		out.Base = v.Meta()
		out.Regions = slices.Clone(v.Regions)
		return &out
	case *LensCard:
		out := *v
		out.Base = v.Meta()
		out.Payload.CallsToAction = slices.Clone(v.Payload.CallsToAction)
		if v.Payload.Sections != nil {
			out.Payload.Sections = make([]LensSection, len(v.Payload.Sections))
			for i, s := range v.Payload.Sections {
				s.Contents = slices.Clone(s.Contents)
				out.Payload.Sections[i] = s
			}
		}
		return &out
	case *ErrorCard:
		out := *v
		out.Base = v.Meta()
		return &out
	case *SelectionSummaryCard:
		out := *v
		out.Base = v.Meta()
		return &out
	default:
		return nil
	}
}
