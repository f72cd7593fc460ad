package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/listentwo/internal/library"
	"github.com/llehouerou/listentwo/internal/tags"
	"github.com/llehouerou/listentwo/internal/ui/render"
)

func newScanCmd() *cobra.Command {
	var withTags bool
	c := &cobra.Command{
		Use:   "scan <folder>",
		Short: "List the audio files the player would load from a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return scanFolder(c.Context(), c.OutOrStdout(), args[0], withTags)
		},
	}
	c.Flags().BoolVarP(&withTags, "tags", "t", false, "read title, artist and duration of every file")
	return c
}

func scanFolder(ctx context.Context, w io.Writer, folder string, withTags bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := library.ListAudioFiles(ctx, folder)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var size int64
	var total time.Duration
	for _, f := range files {
		if info, err := os.Stat(f); err == nil {
			size += info.Size()
		}
		if !withTags {
			fmt.Fprintln(tw, filepath.Base(f))
			continue
		}
		md := tags.ReadMetadata(ctx, f)
		total += md.Duration
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", filepath.Base(f), md.Title, md.Artist, render.Clock(md.Duration))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d audio files, %s", len(files), humanize.Bytes(uint64(size)))
	if withTags {
		summary += ", " + render.Clock(total)
	}
	fmt.Fprintln(w, summary)
	return nil
}
