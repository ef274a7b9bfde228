package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/mdenhance/internal/app"
	"github.com/dshills/mdenhance/internal/config"
)

func newSettingsCmd(g *globalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings",
		Long: `Print the settings after defaults, the settings file and MDENHANCE_*
environment overrides are applied. With --watch, keep running and print
them again each time the settings file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := g.options()
			opts.LogOutput = cmd.ErrOrStderr()

			a, err := app.New(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			printSettings(out, a.Settings())
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.WatchSettings(ctx, func(s *config.Settings, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
				fmt.Fprintln(out)
				printSettings(out, a.Settings())
			})
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reload and print on every settings file change")
	return cmd
}

func printSettings(w io.Writer, s *config.Settings) {
	for _, f := range s.Flags() {
		fmt.Fprintf(w, "%s = %t\n", f.Name, *f.Value)
	}
	fmt.Fprintf(w, "logLevel = %s\n", s.LogLevel)
	for _, p := range s.QuickCommandScripts {
		fmt.Fprintf(w, "quickCommandScripts += %s\n", p)
	}
}
