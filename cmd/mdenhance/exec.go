package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/mdenhance/internal/app"
	"github.com/dshills/mdenhance/internal/engine/cursor"
)

type editFlags struct {
	selections []string
	cursor     string
	write      bool
	readOnly   bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.selections, "select", "s", nil, "selection LINE:COL-LINE:COL, 1-based (repeatable)")
	cmd.Flags().StringVar(&f.cursor, "cursor", "", "caret position LINE:COL, 1-based")
	cmd.Flags().BoolVarP(&f.write, "write", "w", false, "save the result back to FILE instead of printing it")
	cmd.Flags().BoolVarP(&f.readOnly, "readonly", "R", false, "open FILE read-only")
}

// apply places the caret and selections. Selections win over the caret.
func (f *editFlags) apply(a *app.Application) error {
	if f.cursor != "" {
		p, err := app.ParsePoint(f.cursor)
		if err != nil {
			return err
		}
		a.SetCursor(p)
	}
	var sels []cursor.Selection
	for _, s := range f.selections {
		sel, err := app.ParseSelection(s)
		if err != nil {
			return err
		}
		sels = append(sels, sel)
	}
	a.Select(sels...)
	return nil
}

// finish saves the document or prints its view.
func (f *editFlags) finish(a *app.Application, out io.Writer) error {
	if f.write {
		return a.Save()
	}
	view := a.View()
	if !strings.HasSuffix(view, "\n") {
		view += "\n"
	}
	_, err := io.WriteString(out, view)
	return err
}

func newExecCmd(g *globalFlags) *cobra.Command {
	var (
		ef      editFlags
		command string
		args    []string
	)

	cmd := &cobra.Command{
		Use:   "exec FILE",
		Short: "Run one command against a markdown file",
		Example: `  mdenhance exec notes.md --command markdownHL1 --select 3:1-3:9
  mdenhance exec notes.md --command markdown.toggleInline --arg '**' --arg '**' -s 1:1-1:5 -w
  mdenhance exec table.md --command alignColumnCenter --cursor 4:3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			opts := g.options()
			opts.FilePath = pos[0]
			opts.ReadOnly = ef.readOnly
			opts.LogOutput = cmd.ErrOrStderr()

			a, err := app.New(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := ef.apply(a); err != nil {
				return err
			}
			res := a.Execute(command, args...)
			if res.IsError() {
				return res.Error
			}
			if res.Message != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
			}
			return ef.finish(a, cmd.OutOrStdout())
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVarP(&command, "command", "x", "", "command to run (see 'mdenhance commands')")
	cmd.Flags().StringArrayVarP(&args, "arg", "a", nil, "positional command argument (repeatable)")
	_ = cmd.MarkFlagRequired("command")
	return cmd
}

func newRunCmd(g *globalFlags) *cobra.Command {
	var ef editFlags

	cmd := &cobra.Command{
		Use:   "run FILE SCRIPT.lua",
		Short: "Run a Lua script against a markdown file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, pos []string) error {
			opts := g.options()
			opts.FilePath = pos[0]
			opts.ReadOnly = ef.readOnly
			opts.LogOutput = cmd.ErrOrStderr()

			a, err := app.New(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := ef.apply(a); err != nil {
				return err
			}
			if err := a.RunScript(cmd.Context(), pos[1]); err != nil {
				return err
			}
			return ef.finish(a, cmd.OutOrStdout())
		},
	}
	ef.register(cmd)
	return cmd
}
