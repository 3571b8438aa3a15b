package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/designrail/internal/card"
	"github.com/roach88/designrail/internal/plan"
	"github.com/roach88/designrail/internal/rail"
	"github.com/roach88/designrail/internal/session"
)

// DecisionOptions holds the flags shared by select and accept.
type DecisionOptions struct {
	*RootOptions
	Parent  string
	Root    bool
	Summary string
}

// DecisionResult is the JSON payload of select and accept.
type DecisionResult struct {
	Decision rail.DecisionNode `json:"decision"`
	Plan     plan.CurrentPlan  `json:"plan"`
}

func (o *DecisionOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Parent, "parent", "", "attach under this decision instead of the active head")
	cmd.Flags().BoolVar(&o.Root, "root", false, "start a new tree")
	cmd.Flags().StringVar(&o.Summary, "summary", "", "free-text note stored with the decision")
	cmd.MarkFlagsMutuallyExclusive("parent", "root")
}

func (o *DecisionOptions) acceptOpts() []session.AcceptOpt {
	var opts []session.AcceptOpt
	switch {
	case o.Root:
		opts = append(opts, session.AsRoot())
	case o.Parent != "":
		opts = append(opts, session.WithParent(o.Parent))
	}
	if o.Summary != "" {
		opts = append(opts, session.WithSummary(o.Summary))
	}
	return opts
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecisionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select <card-file> <option-id>",
		Short: "Accept one option of an interpret or propose card",
		Long: `Accept one option of an interpret or propose card onto the rail.

The decision stores a selection summary of the picked option and locks it
in the plan. Picking under an earlier decision (--parent) forks the rail.

Examples:
  designrail select interpret.json screens
  designrail select propose.json workspace --parent 0193...`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd, opts, args[0], func(ctx context.Context, s *session.Session, c card.Card) (rail.DecisionNode, error) {
				return s.Select(ctx, c, args[1], opts.acceptOpts()...)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

// NewAcceptCommand creates the accept command.
func NewAcceptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecisionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "accept <card-file>",
		Short: "Accept a whole card onto the rail",
		Long: `Accept a whole card onto the rail. Accepting a mockup or lens locks it
as the inspected artifact.

Examples:
  designrail accept mockup.json
  designrail accept mockup.json --summary "go with the calm one"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecision(cmd, opts, args[0], func(ctx context.Context, s *session.Session, c card.Card) (rail.DecisionNode, error) {
				return s.Accept(ctx, c, opts.acceptOpts()...)
			})
		},
	}
	opts.bind(cmd)
	return cmd
}

type decideFunc func(ctx context.Context, s *session.Session, c card.Card) (rail.DecisionNode, error)

func runDecision(cmd *cobra.Command, opts *DecisionOptions, cardFile string, decide decideFunc) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	c, err := readCard(cardFile)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeCardFile, err)
	}

	e, err := openEnv(ctx, opts.RootOptions, f)
	if err != nil {
		return err
	}
	defer e.Close()

	node, err := decide(ctx, e.sess, c)
	if err != nil {
		return f.FailSession(err)
	}

	if f.IsJSON() {
		return f.Success(DecisionResult{Decision: node, Plan: e.sess.Plan()})
	}
	renderDecision(cmd.OutOrStdout(), node)
	return nil
}
