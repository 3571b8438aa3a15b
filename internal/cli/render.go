package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/plan"
	"github.com/roach88/designrail/internal/rail"
)

var (
	errorLabel  = color.New(color.FgRed, color.Bold)
	okLabel     = color.New(color.FgHiGreen)
	failLabel   = color.New(color.FgRed)
	titleStyle  = color.New(color.Bold)
	tokenStyle  = color.New(color.FgHiYellow)
	mutedStyle  = color.New(color.FgHiBlack)
	headMarker  = color.New(color.FgHiMagenta)
	phaseStyle  = color.New(color.FgCyan)
	kindColours = map[card.Kind]*color.Color{
		card.KindInterpret:        color.New(color.FgHiBlue),
		card.KindPropose:          color.New(color.FgHiCyan),
		card.KindMockup:           color.New(color.FgHiGreen),
		card.KindLens:             color.New(color.FgYellow),
		card.KindError:            color.New(color.FgRed),
		card.KindSelectionSummary: color.New(color.FgWhite),
	}
)

func kindBadge(k card.Kind) string {
	c, ok := kindColours[k]
	if !ok {
		c = color.New(color.FgWhite)
	}
	return c.Sprintf("[%s]", k)
}

// renderCard writes a card for a terminal. Options are listed with their
// option tokens so the user can answer with a short code.
func renderCard(w io.Writer, c card.Card) {
	meta := c.Meta()
	fmt.Fprintf(w, "%s %s %s\n", kindBadge(c.Kind()), titleStyle.Sprint(meta.Title), mutedStyle.Sprintf("(%s)", meta.ID))
	if meta.Description != "" {
		fmt.Fprintf(w, "  %s\n", meta.Description)
	}

	switch v := c.(type) {
	case *card.InterpretCard, *card.ProposeCard:
		for _, o := range card.Options(v) {
			fmt.Fprintf(w, "  %s %s", tokenStyle.Sprintf("[%s]", card.TokenFor(o.ID).Code), o.Label)
			if o.Summary != "" {
				fmt.Fprintf(w, ": %s", o.Summary)
			}
			fmt.Fprintf(w, " %s\n", mutedStyle.Sprintf("(%s)", o.ID))
		}
	case *card.MockupCard:
		for _, r := range v.Regions {
			layout := string(r.Layout)
			if r.Role != "" {
				layout += ", " + string(r.Role)
			}
			fmt.Fprintf(w, "  - %s %s\n", r.Label, mutedStyle.Sprintf("(%s)", layout))
			if r.Notes != "" {
				fmt.Fprintf(w, "      %s\n", r.Notes)
			}
		}
	case *card.LensCard:
		fmt.Fprintf(w, "  lens: %s\n", v.LensType)
		for _, s := range v.Payload.Sections {
			fmt.Fprintf(w, "  - %s: %s\n", s.Label, strings.Join(s.Contents, ", "))
		}
		if len(v.Payload.CallsToAction) > 0 {
			fmt.Fprintf(w, "  actions: %s\n", strings.Join(v.Payload.CallsToAction, " | "))
		}
	case *card.ErrorCard:
		fmt.Fprintf(w, "  %s\n", errorLabel.Sprint(v.ErrorKind))
		if v.Details != "" {
			fmt.Fprintf(w, "  %s\n", v.Details)
		}
		if v.RecoveryHint != "" {
			fmt.Fprintf(w, "  hint: %s\n", v.RecoveryHint)
		}
	case *card.SelectionSummaryCard:
		fmt.Fprintf(w, "  picked %s from the %s card\n", v.SelectionID, v.SourceCardKind)
	}
}

func renderDecision(w io.Writer, n rail.DecisionNode) {
	parent := n.Parent()
	if parent == "" {
		parent = "root"
	}
	fmt.Fprintf(w, "%s %s %s\n", okLabel.Sprint("✓ accepted"), titleStyle.Sprint(n.Title()),
		mutedStyle.Sprintf("(decision %s, parent %s)", n.ID, parent))
}

// renderRail writes the active path, the heads and the plan.
func renderRail(w io.Writer, view rail.View, p plan.CurrentPlan) {
	fmt.Fprintf(w, "Phase: %s\n", phaseStyle.Sprint(p.Phase))

	if len(view.ActivePath) == 0 {
		fmt.Fprintln(w, "Rail is empty.")
		return
	}

	fmt.Fprintln(w, "\nActive path:")
	for i, n := range view.ActivePath {
		fmt.Fprintf(w, "  %d. %s %s %s\n", i+1, kindBadge(n.CardSnapshot.Kind()), n.Title(), mutedStyle.Sprintf("(%s)", n.ID))
	}

	fmt.Fprintln(w, "\nHeads:")
	for _, h := range view.Heads {
		marker := ""
		if h.ID == view.ActiveHead {
			marker = headMarker.Sprint(" ← active")
		}
		fmt.Fprintf(w, "  %s %s%s\n", h.ID, h.Title(), marker)
	}

	fmt.Fprintln(w, "\nPlan:")
	fmt.Fprintf(w, "  interpret: %s\n", sectionLabel(p.Interpret))
	fmt.Fprintf(w, "  propose:   %s\n", sectionLabel(p.Propose))
	inspect := "-"
	if p.Inspect != nil {
		inspect = fmt.Sprintf("%s (%s)", p.Inspect.Label, p.Inspect.Kind)
	}
	fmt.Fprintf(w, "  inspect:   %s\n", inspect)
}

func sectionLabel(s *plan.Section) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s", tokenStyle.Sprintf("[%s]", card.TokenFor(s.ID).Code), s.Label)
}
