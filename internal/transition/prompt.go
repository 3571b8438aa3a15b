package transition

import (
	"fmt"
	"strings"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/rail"
)

// Prompts is the text sent to the generator for one Request.
type Prompts struct {
	System  string
	Context string
}

const systemPreamble = `You are a product design partner working through an app idea one card at a time.
Reply with a single JSON object and nothing else. Always include "kind", "title" and "description".`

var kindGuides = map[card.Kind]string{
	card.KindInterpret: `An interpret card lists three distinct interpretations of the user's goal in "options" (id, label, summary).`,
	card.KindPropose:   `A propose card lists three distinct architectural directions in "options" (id, label, summary).`,
	card.KindMockup:    `A mockup card sketches a screen as "regions" (id, label, layout one of shelf|bookcase|library, optional role one of sidebar|switcher|content, optional notes).`,
	card.KindLens:      `A lens card has "lensType" (entities|flows|screens|permissions) and "payload" with "sections" (id, label, contents) and "callsToAction".`,
}

// BuildPrompts renders the system and context prompts for req.
// path is the active path, latestInput the user's most recent message.
func BuildPrompts(req *Request, path []rail.DecisionNode, latestInput string, phase Phase) (Prompts, error) {
	if req == nil {
		return Prompts{}, &InputError{Field: "request", Message: "no generation request"}
	}

	var sys strings.Builder
	sys.WriteString(systemPreamble)
	sys.WriteString("\n\n")
	switch req.Mode {
	case ModeFork:
		fmt.Fprintf(&sys, "Produce a sibling %s card that takes a materially different direction from the source card. Keep the same kind.", req.Kind)
	default:
		fmt.Fprintf(&sys, "Revise the source %s card following the user's instructions. Keep the same kind.", req.Kind)
	}
	if guide, ok := kindGuides[req.Kind]; ok {
		sys.WriteString("\n")
		sys.WriteString(guide)
	}

	var ctx strings.Builder
	ctx.WriteString("Accepted so far: ")
	if len(path) == 0 {
		ctx.WriteString("(nothing yet)")
	} else {
		ctx.WriteString(rail.RenderPath(path))
	}
	fmt.Fprintf(&ctx, "\nCurrent phase: %s\n", phase)
	if latestInput != "" {
		fmt.Fprintf(&ctx, "Latest user input: %s\n", latestInput)
	}
	if req.Instructions != "" {
		fmt.Fprintf(&ctx, "Instructions: %s\n", req.Instructions)
	}
	if req.SourceCard != nil {
		src, err := card.Marshal(req.SourceCard)
		if err != nil {
			return Prompts{}, fmt.Errorf("encode source card: %w", err)
		}
		fmt.Fprintf(&ctx, "Source card: %s\n", src)
	}

	return Prompts{System: sys.String(), Context: ctx.String()}, nil
}
