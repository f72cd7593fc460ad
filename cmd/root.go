// Package cmd holds the command line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/llehouerou/listentwo/internal/state"
)

type rootOptions struct {
	stateDB string
}

// NewRootCmd builds the listentwo command tree. Without a subcommand it
// starts the player.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "listentwo [folder]",
		Short:         "A terminal music player for a folder of audio files",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			folder := ""
			if len(args) == 1 {
				folder = args[0]
			}
			return runPlayer(opts, folder)
		},
	}
	root.PersistentFlags().StringVar(&opts.stateDB, "state-db", "", "state database path (default: XDG data dir)")

	root.AddCommand(
		newStateCmd(opts),
		newScanCmd(),
	)
	return root
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "listentwo:", err)
		os.Exit(1)
	}
}

func (o *rootOptions) openStore() (*state.Manager, error) {
	if o.stateDB != "" {
		return state.OpenPath(o.stateDB)
	}
	return state.Open()
}
