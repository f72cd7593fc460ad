package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/llehouerou/listentwo/internal/playback"
	"github.com/llehouerou/listentwo/internal/snapshot"
	"github.com/llehouerou/listentwo/internal/state"
)

func newStateCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "state",
		Short: "Inspect or move the saved session",
	}
	c.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved session as JSON",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return withStore(opts, func(s state.Interface) error {
					return showState(c.OutOrStdout(), s)
				})
			},
		},
		&cobra.Command{
			Use:   "export <folder>",
			Short: "Write the saved session into a music folder",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return withStore(opts, func(s state.Interface) error {
					return exportState(c.OutOrStdout(), s, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "import <folder>",
			Short: "Replace the saved session with a folder's state file",
			Args:  cobra.ExactArgs(1),
			RunE: func(c *cobra.Command, args []string) error {
				return withStore(opts, func(s state.Interface) error {
					return importState(c.OutOrStdout(), s, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the saved session",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return withStore(opts, func(s state.Interface) error {
					return resetState(c.OutOrStdout(), s)
				})
			},
		},
	)
	return c
}

func withStore(opts *rootOptions, fn func(state.Interface) error) error {
	store, err := opts.openStore()
	if err != nil {
		return err
	}
	return errors.Join(fn(store), store.Close())
}

// storedSnapshot decodes the saved session. A missing session decodes to
// the defaults with no warnings.
func storedSnapshot(s state.Interface) (snapshot.Snapshot, []snapshot.Warning, error) {
	data, ok, err := s.Get(snapshot.Key)
	if err != nil {
		return snapshot.Snapshot{}, nil, err
	}
	if !ok {
		return snapshot.Defaults(), nil, nil
	}
	p, warnings := snapshot.Decode(data)
	return p.Snapshot(), warnings, nil
}

func showState(w io.Writer, s state.Interface) error {
	snap, warnings, err := storedSnapshot(s)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", snapshot.MarshalIndent(snap)); err != nil {
		return err
	}
	if folder, ok, _ := s.Get(playback.FolderKey); ok {
		fmt.Fprintf(w, "folder: %s\n", folder)
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

func exportState(w io.Writer, s state.Interface, folder string) error {
	snap, _, err := storedSnapshot(s)
	if err != nil {
		return err
	}
	if err := snapshot.WriteSidecar(folder, snap); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", snapshot.SidecarPath(folder))
	return nil
}

func importState(w io.Writer, s state.Interface, folder string) error {
	p, warnings, ok, err := snapshot.ReadSidecar(folder)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no %s in %s", snapshot.SidecarName, folder)
	}
	if err := s.Put(snapshot.Key, snapshot.Marshal(p.Snapshot())); err != nil {
		return err
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	fmt.Fprintf(w, "imported %s\n", snapshot.SidecarPath(folder))
	return nil
}

func resetState(w io.Writer, s state.Interface) error {
	if err := errors.Join(s.Delete(snapshot.Key), s.Delete(playback.FolderKey)); err != nil {
		return err
	}
	fmt.Fprintln(w, "session cleared")
	return nil
}
