package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/state"
	"github.com/llehouerou/reel/internal/timefmt"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently played items and where they will resume",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		mgr, err := state.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpStateOpen, err))
		}
		defer mgr.Close()

		positions, err := mgr.ListRecent(recentLimit)
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpPositionLoad, err))
		}
		if len(positions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing played yet")
			return nil
		}
		return printRecent(cmd.OutOrStdout(), positions)
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "number of items to list")
}

func printRecent(out io.Writer, positions []state.Position) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, p := range positions {
		at := timefmt.Duration(p.Position)
		if p.Duration > 0 {
			at += " / " + timefmt.Duration(p.Duration)
		}
		title := p.Title
		if title == "" {
			title = p.URI
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", humanize.Time(p.UpdatedAt), at, title)
	}
	return w.Flush()
}
