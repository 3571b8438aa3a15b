package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/designrail/internal/plan"
	"github.com/roach88/designrail/internal/rail"
)

// RailOptions holds flags for the rail command.
type RailOptions struct {
	*RootOptions
	Head string
}

// RailResult is the JSON payload of the rail command.
type RailResult struct {
	ActiveHead string              `json:"activeHead"`
	ActivePath []rail.DecisionNode `json:"activePath"`
	Heads      []rail.DecisionNode `json:"heads"`
	Plan       plan.CurrentPlan    `json:"plan"`
}

// NewRailCommand creates the rail command.
func NewRailCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RailOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rail",
		Short: "Show the active path, heads and plan",
		Long: `Show the decision rail: the active path from its root, every head of the
forest and the plan derived from the active path.

With --head the path and plan are shown for that decision instead of the
most recent one.

Examples:
  designrail rail
  designrail rail --head 0193...
  designrail rail --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRail(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Head, "head", "", "show the rail as seen from this decision")

	return cmd
}

func runRail(opts *RailOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	e, err := openEnv(ctx, opts.RootOptions, f)
	if err != nil {
		return err
	}
	defer e.Close()

	view := e.sess.View()
	if opts.Head != "" {
		if view, err = e.sess.SwitchHead(opts.Head); err != nil {
			return f.FailSession(err)
		}
	}
	// A forest loaded with a broken parent chain still renders; the path
	// stops at the break.
	if _, err := e.sess.Rail().CheckedActivePath(); err != nil {
		f.VerboseLog("warning: %v", err)
	}

	p := e.sess.Plan()
	if f.IsJSON() {
		return f.Success(RailResult{
			ActiveHead: view.ActiveHead,
			ActivePath: nonNil(view.ActivePath),
			Heads:      nonNil(view.Heads),
			Plan:       p,
		})
	}
	renderRail(cmd.OutOrStdout(), view, p)
	return nil
}

func nonNil(nodes []rail.DecisionNode) []rail.DecisionNode {
	if nodes == nil {
		return []rail.DecisionNode{}
	}
	return nodes
}
