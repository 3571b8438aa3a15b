package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ResetResult is the JSON payload of the reset command.
type ResetResult struct {
	Deleted int `json:"deleted"`
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every decision and start over",
		Long: `Delete every decision on the rail, across all branches, and return the
plan to the discover phase. There is no partial reset.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(rootOpts, cmd)
		},
	}
	return cmd
}

func runReset(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := opts.formatter(cmd)

	e, err := openEnv(ctx, opts, f)
	if err != nil {
		return err
	}
	defer e.Close()

	deleted := e.sess.Rail().Len()
	if _, err := e.sess.Reset(ctx); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err)
	}

	if f.IsJSON() {
		return f.Success(ResetResult{Deleted: deleted})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d decision(s) deleted)\n", okLabel.Sprint("✓ Rail reset"), deleted)
	return nil
}
