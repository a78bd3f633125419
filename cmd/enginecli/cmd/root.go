package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the enginecli command tree: submit, view, and replay,
// mirroring spec.md §6's three entrypoint families (mutating submission,
// read-only view, standalone replay) as one cobra tree the way the
// teacher's evmd wraps a cosmos-sdk server command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "enginecli",
		Short: "Administrative and demo CLI for the EVM execution engine",
	}

	root.AddCommand(
		newSubmitCmd(),
		newViewCmd(),
		newReplayCmd(),
	)
	return root
}
