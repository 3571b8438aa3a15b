package card

// Kind is the discriminant of a Card.
type Kind string

const (
	KindInterpret        Kind = "interpret"
	KindPropose          Kind = "propose"
	KindMockup           Kind = "mockup"
	KindLens             Kind = "lens"
	KindError            Kind = "error"
	KindSelectionSummary Kind = "selection-summary"
)

// ValidKinds lists every card kind in declaration order.
var ValidKinds = []Kind{
	KindInterpret,
	KindPropose,
	KindMockup,
	KindLens,
	KindError,
	KindSelectionSummary,
}

// IsValid reports whether k is a known card kind.
func (k Kind) IsValid() bool {
	for _, v := range ValidKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Card is a sealed interface over the card variants.
// Only *InterpretCard, *ProposeCard, *MockupCard, *LensCard, *ErrorCard and
// *SelectionSummaryCard implement it.
type Card interface {
	Kind() Kind
	Meta() Base
	base() *Base
	isCard()
}

// Base holds the fields shared by every card.
type Base struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// FlowID groups the cards that belong to one design slice.
	FlowID string `json:"flowId,omitempty"`

	// StepIndex is the ordinal position within a flow. Nil when unset.
	StepIndex *int `json:"stepIndex,omitempty"`
}

// Meta returns a copy of the shared card fields.
func (b Base) Meta() Base {
	if b.StepIndex != nil {
		n := *b.StepIndex
		b.StepIndex = &n
	}
	return b
}

func (b *Base) base() *Base { return b }

// Step returns a StepIndex pointer for use in literals.
func Step(n int) *int { return &n }

// Option is one selectable choice on an interpret or propose card.
type Option struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Summary string `json:"summary"`
}

// InterpretCard offers interpretations of what the user asked for.
type InterpretCard struct {
	Base
	Options []Option `json:"options"`
}

func (*InterpretCard) Kind() Kind { return KindInterpret }
func (*InterpretCard) isCard()    {}

// ProposeCard offers architectural directions for an accepted interpretation.
type ProposeCard struct {
	Base
	Options []Option `json:"options"`
}

func (*ProposeCard) Kind() Kind { return KindPropose }
func (*ProposeCard) isCard()    {}

// MockupLayout is the shape of a mockup region.
type MockupLayout string

const (
	LayoutShelf    MockupLayout = "shelf"
	LayoutBookcase MockupLayout = "bookcase"
	LayoutLibrary  MockupLayout = "library"
)

// MockupRole is the optional navigational role of a mockup region.
type MockupRole string

const (
	RoleSidebar  MockupRole = "sidebar"
	RoleSwitcher MockupRole = "switcher"
	RoleContent  MockupRole = "content"
)

// Region is one named area of a mockup.
type Region struct {
	ID     string       `json:"id"`
	Label  string       `json:"label"`
	Layout MockupLayout `json:"layout"`
	Role   MockupRole   `json:"role,omitempty"`
	Notes  string       `json:"notes,omitempty"`
}

// MockupCard sketches a screen layout as a list of regions.
type MockupCard struct {
	Base
	Regions []Region `json:"regions"`
}

func (*MockupCard) Kind() Kind { return KindMockup }
func (*MockupCard) isCard()    {}

// LensType selects what a lens card looks at.
type LensType string

const (
	LensEntities    LensType = "entities"
	LensFlows       LensType = "flows"
	LensScreens     LensType = "screens"
	LensPermissions LensType = "permissions"
)

// LensSection is a labelled group of lens contents.
type LensSection struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Contents []string `json:"contents"`
}

// LensPayload is the body of a lens card.
type LensPayload struct {
	Sections      []LensSection `json:"sections"`
	CallsToAction []string      `json:"callsToAction"`
}

// LensCard presents one facet (entities, flows, screens, permissions) of the design.
type LensCard struct {
	Base
	LensType LensType    `json:"lensType"`
	Payload  LensPayload `json:"payload"`
}

func (*LensCard) Kind() Kind { return KindLens }
func (*LensCard) isCard()    {}

// ErrorKind classifies an error card.
type ErrorKind string

const (
	ErrorMissingInfo    ErrorKind = "missing_info"
	ErrorModelUncertain ErrorKind = "model_uncertain"
	ErrorInvalidState   ErrorKind = "invalid_state"
)

// ErrorCard tells the user the conversation cannot continue as asked.
type ErrorCard struct {
	Base
	ErrorKind    ErrorKind `json:"errorKind"`
	Details      string    `json:"details,omitempty"`
	RecoveryHint string    `json:"recoveryHint,omitempty"`
}

func (*ErrorCard) Kind() Kind { return KindError }
func (*ErrorCard) isCard()    {}

// SelectionSummaryCard records a single option picked from an interpret or propose card.
type SelectionSummaryCard struct {
	Base
	SelectionID      string `json:"selectionId"`
	SelectionLabel   string `json:"selectionLabel"`
	SelectionSummary string `json:"selectionSummary,omitempty"`
	SourceCardKind   Kind   `json:"sourceCardKind"`
}

func (*SelectionSummaryCard) Kind() Kind { return KindSelectionSummary }
func (*SelectionSummaryCard) isCard()    {}

// Options returns the options of an interpret or propose card, or nil.
func Options(c Card) []Option {
	switch v := c.(type) {
	case *InterpretCard:
		return v.Options
	case *ProposeCard:
		return v.Options
	default:
		return nil
	}
}

// FindOption returns the option with the given id on an interpret or propose card.
func FindOption(c Card, id string) (Option, bool) {
	for _, o := range Options(c) {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// SetID assigns the card id. Used when a generated card arrives without one.
func SetID(c Card, id string) {
	c.base().ID = id
}
