package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/transition"
)

// NextOptions holds flags for the next command.
type NextOptions struct {
	*RootOptions
	Phase        string
	Option       string
	CardFile     string
	Fork         bool
	Instructions string
	Save         string
	Accept       bool
}

// NextResult is the JSON payload of the next command.
type NextResult struct {
	Phase    transition.Phase   `json:"phase"`
	Card     json.RawMessage    `json:"card"`
	Decision *rail.DecisionNode `json:"decision,omitempty"`
}

// NewNextCommand creates the next command.
func NewNextCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NextOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Produce the next card",
		Long: `Produce the card the conversation needs next.

Without flags the phase comes from the plan: an interpretation card first,
then architectures, then the mockup for the chosen architecture. With
--card the card is refined (or forked with --fork) by the generator.

Examples:
  designrail next
  designrail next --save propose.json
  designrail next --phase inspect --option workspace --accept
  designrail next --card mockup.json --instructions "fewer widgets"
  designrail next --card mockup.json --fork`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNext(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Phase, "phase", "", "answer in this phase instead of the planned one")
	cmd.Flags().StringVar(&opts.Option, "option", "", "option id picked on the previous card")
	cmd.Flags().StringVar(&opts.CardFile, "card", "", "card file to refine or fork")
	cmd.Flags().BoolVar(&opts.Fork, "fork", false, "fork the --card instead of refining it")
	cmd.Flags().StringVarP(&opts.Instructions, "instructions", "i", "", "free-text instructions for the generator")
	cmd.Flags().StringVarP(&opts.Save, "save", "o", "", "write the card JSON to this file")
	cmd.Flags().BoolVar(&opts.Accept, "accept", false, "accept the produced card onto the rail")

	return cmd
}

func runNext(ctx context.Context, opts *NextOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	if opts.Fork && opts.CardFile == "" {
		return f.Fail(ExitCommandError, ErrCodeInput, fmt.Errorf("--fork needs --card"))
	}

	in := transition.Interaction{
		Type:         transition.InteractionSelect,
		OptionID:     opts.Option,
		Instructions: opts.Instructions,
	}
	if opts.CardFile != "" {
		src, err := readCard(opts.CardFile)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeCardFile, err)
		}
		in.SourceCard = src
		in.Type = transition.InteractionRefine
		if opts.Fork {
			in.Type = transition.InteractionFork
		}
	}

	e, err := openEnv(ctx, opts.RootOptions, f)
	if err != nil {
		return err
	}
	defer e.Close()

	if in.Type == transition.InteractionSelect && e.sess.Rail().Len() == 0 && in.OptionID == "" {
		in.Type = transition.InteractionStart
	}
	if opts.Instructions != "" {
		e.sess.SetLatestInput(opts.Instructions)
	}

	timeout, err := e.cfg.RequestTimeout()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var c card.Card
	if opts.Phase != "" {
		phase, perr := transition.ParsePhase(opts.Phase)
		if perr != nil {
			return f.FailSession(perr)
		}
		c, err = e.sess.NextAt(ctx, in.PhaseFor(phase), in)
	} else {
		c, err = e.sess.Next(ctx, in)
	}
	if err != nil {
		return f.FailSession(err)
	}

	if opts.Save != "" {
		if err := writeCard(opts.Save, c); err != nil {
			return f.Fail(ExitCommandError, ErrCodeCardFile, err)
		}
		f.VerboseLog("Saved card %s to %s", c.Meta().ID, opts.Save)
	}

	var decision *rail.DecisionNode
	if opts.Accept {
		node, err := e.sess.Accept(ctx, c)
		if err != nil {
			return f.FailSession(err)
		}
		decision = &node
	}

	if f.IsJSON() {
		raw, err := card.Marshal(c)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, err)
		}
		return f.Success(NextResult{Phase: e.sess.Phase(), Card: raw, Decision: decision})
	}

	w := cmd.OutOrStdout()
	renderCard(w, c)
	if decision != nil {
		renderDecision(w, *decision)
	}
	return nil
}
