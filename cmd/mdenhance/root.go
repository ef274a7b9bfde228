package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/mdenhance/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func (g *globalFlags) options() app.Options {
	return app.Options{
		ConfigPath: g.configPath,
		LogLevel:   g.logLevel,
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:   "mdenhance",
		Short: "Markdown editing enhancements from the command line",
		Long: `mdenhance applies highlight, inline markup, table alignment and mermaid
folding commands to markdown documents, and runs Lua quick command scripts.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to settings file (.toml, .yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newExecCmd(&g),
		newCommandsCmd(&g),
		newRunCmd(&g),
		newSettingsCmd(&g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mdenhance %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
