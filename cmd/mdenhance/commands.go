package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/mdenhance/internal/app"
	"github.com/dshills/mdenhance/internal/input/palette"
)

func newCommandsCmd(g *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "commands [QUERY]",
		Short: "List the available commands, optionally fuzzy filtered",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			opts := g.options()
			opts.LogOutput = cmd.ErrOrStderr()

			a, err := app.New(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var cmds []*palette.Command
			if len(pos) == 1 {
				for _, r := range a.Search(pos[0], limit) {
					cmds = append(cmds, r.Command)
				}
			} else {
				cmds = a.Commands()
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range cmds {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Title, c.Category)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of matches (0 for all)")
	return cmd
}
