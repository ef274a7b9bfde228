package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mdenhance/internal/config"
	"github.com/dshills/mdenhance/internal/dispatcher"
	"github.com/dshills/mdenhance/internal/engine/buffer"
	"github.com/dshills/mdenhance/internal/engine/cursor"
	"github.com/dshills/mdenhance/internal/markdown/mermaid"
)

func newTestApp(t *testing.T, opts Options) (*Application, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	if opts.LogOutput == nil {
		opts.LogOutput = &logs
	}
	if opts.Settings == nil {
		opts.Settings = config.Default()
	}
	app, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { app.Close() })
	return app, &logs
}

func commandIDs(app *Application) []string {
	var ids []string
	for _, c := range app.Commands() {
		ids = append(ids, c.ID)
	}
	return ids
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestNewRegistersEnabledFeatures(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	ids := commandIDs(app)
	for _, want := range []string{
		"markdownHL1", "markdownHL7", "markdown.toggleInline",
		"alignColumnLeft", "alignColumnSlash", "table.format",
		"mermaid.foldAll", "mermaid.toggleFold",
	} {
		if !contains(ids, want) {
			t.Errorf("command %q not registered; got %v", want, ids)
		}
		if !app.Dispatcher().HasCommand(want) {
			t.Errorf("dispatcher has no handler for %q", want)
		}
	}

	for _, c := range app.Commands() {
		if c.ID == "alignColumnLeft" && c.Title != "Align current column to left" {
			t.Errorf("alignColumnLeft title = %q", c.Title)
		}
	}
}

func TestNewFeatureFlags(t *testing.T) {
	s := config.Default()
	s.EnableTableFormatter = false
	s.EnableMermaidFolder = false
	s.EnableQuickCommands = false
	s.EnablePapers = true

	app, logs := newTestApp(t, Options{Settings: s})

	ids := commandIDs(app)
	if !contains(ids, "markdownHL1") {
		t.Error("highlight commands must always be registered")
	}
	for _, name := range []string{"alignColumnLeft", "mermaid.foldAll"} {
		if contains(ids, name) {
			t.Errorf("%q registered while its feature is disabled", name)
		}
	}

	res := app.Execute("alignColumnLeft")
	if !errors.Is(res.Error, dispatcher.ErrNoHandler) {
		t.Errorf("Execute(alignColumnLeft) error = %v, want ErrNoHandler", res.Error)
	}

	if err := app.RunScript(context.Background(), "x.lua"); !errors.Is(err, ErrFeatureDisabled) {
		t.Errorf("RunScript() error = %v, want ErrFeatureDisabled", err)
	}

	if !strings.Contains(logs.String(), "feature unavailable") || !strings.Contains(logs.String(), "flag=enablePapers") {
		t.Errorf("expected unavailable feature log, got %q", logs.String())
	}
}

func TestNewInvalidSettings(t *testing.T) {
	s := config.Default()
	s.LogLevel = "verbose"

	_, err := New(context.Background(), Options{Settings: s, LogOutput: &bytes.Buffer{}})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "config" {
		t.Fatalf("New() error = %v, want config InitError", err)
	}
}

func TestNewMissingDocument(t *testing.T) {
	_, err := New(context.Background(), Options{
		Settings:  config.Default(),
		FilePath:  filepath.Join(t.TempDir(), "missing.md"),
		LogOutput: &bytes.Buffer{},
	})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "document" {
		t.Fatalf("New() error = %v, want document InitError", err)
	}
}

func TestExecuteHighlight(t *testing.T) {
	app, _ := newTestApp(t, Options{Content: "one two three"})

	app.Select(cursor.NewSelection(buffer.Point{Column: 4}, buffer.Point{Column: 7}))
	res := app.Execute("markdownHL2")
	if !res.IsOK() {
		t.Fatalf("Execute() = %+v", res)
	}

	want := `one <mark style="background: #ff6666">two</mark> three`
	if app.Text() != want {
		t.Errorf("Text() = %q, want %q", app.Text(), want)
	}
}

func TestExecuteReadOnly(t *testing.T) {
	app, _ := newTestApp(t, Options{Content: "word", ReadOnly: true})

	app.Select(cursor.NewSelection(buffer.Point{}, buffer.Point{Column: 4}))
	res := app.Execute("markdownHL1")
	if res.IsError() {
		t.Fatalf("Execute() error = %v", res.Error)
	}
	if app.Text() != "word" {
		t.Errorf("Text() = %q, read-only document changed", app.Text())
	}
	if err := app.Save(); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Save() error = %v, want ErrReadOnly", err)
	}
}

func TestExecuteTableAlign(t *testing.T) {
	doc := "| a | bb |\n|---|---|\n| 1 | 2 |"
	app, _ := newTestApp(t, Options{Content: doc})

	app.SetCursor(buffer.Point{Line: 2, Column: 7})
	res := app.Execute("alignColumnRight")
	if !res.IsOK() {
		t.Fatalf("Execute() = %+v", res)
	}

	lines := strings.Split(app.Text(), "\n")
	if lines[1] != "| --- | --: |" {
		t.Errorf("delimiter row = %q", lines[1])
	}
}

func TestViewFoldsMermaid(t *testing.T) {
	doc := "intro\n```mermaid\ngraph TD\nA-->B\n```\noutro"
	app, _ := newTestApp(t, Options{Content: doc})

	if app.View() != doc {
		t.Errorf("View() before folding = %q", app.View())
	}

	if res := app.Execute("mermaid.foldAll"); !res.IsOK() {
		t.Fatalf("Execute() = %+v", res)
	}
	want := "intro\n" + mermaid.Placeholder + "\noutro"
	if app.View() != want {
		t.Errorf("View() = %q, want %q", app.View(), want)
	}
	if app.Text() != doc {
		t.Errorf("Text() = %q, folding must not edit the document", app.Text())
	}
}

func TestPaletteRecency(t *testing.T) {
	app, _ := newTestApp(t, Options{Content: "word"})

	app.Select(cursor.NewSelection(buffer.Point{}, buffer.Point{Column: 4}))
	if res := app.Execute("markdownHL5"); !res.IsOK() {
		t.Fatalf("Execute() = %+v", res)
	}

	results := app.Search("highlight", 3)
	if len(results) == 0 || results[0].Command.ID != "markdownHL5" {
		t.Errorf("most recent highlight should rank first, got %+v", results)
	}
}

func writeScript(t *testing.T, dir, name, code string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestQuickCommandScripts(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "bold.lua", `
		md.register("quick.bold", function()
			md.toggle("**", "**", "strong")
			return "bolded"
		end)
	`)
	bad := writeScript(t, dir, "broken.lua", `this is not lua`)

	s := config.Default()
	s.QuickCommandScripts = []string{bad, good}
	app, logs := newTestApp(t, Options{Settings: s, Content: "word"})

	if !strings.Contains(logs.String(), "quick command script failed") {
		t.Errorf("expected a warning for the broken script, got %q", logs.String())
	}

	var found bool
	for _, c := range app.Commands() {
		if c.ID == "quick.bold" {
			found = true
			if c.Source != "script" {
				t.Errorf("quick.bold source = %q", c.Source)
			}
		}
	}
	if !found {
		t.Fatalf("quick.bold not in palette: %v", commandIDs(app))
	}

	app.Select(cursor.NewSelection(buffer.Point{}, buffer.Point{Column: 4}))
	res := app.Execute("quick.bold")
	if !res.IsOK() || res.Message != "bolded" {
		t.Fatalf("Execute(quick.bold) = %+v", res)
	}
	if app.Text() != "**word**" {
		t.Errorf("Text() = %q", app.Text())
	}
}

func TestRunScript(t *testing.T) {
	path := writeScript(t, t.TempDir(), "hl.lua", `md.highlight(3)`)
	app, _ := newTestApp(t, Options{Content: "word"})

	app.Select(cursor.NewSelection(buffer.Point{}, buffer.Point{Column: 4}))
	if err := app.RunScript(context.Background(), path); err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	want := `<mark style="background: #5fb236">word</mark>`
	if app.Text() != want {
		t.Errorf("Text() = %q, want %q", app.Text(), want)
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.md")
	if err := os.WriteFile(path, []byte("alpha\r\nbeta\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	app, _ := newTestApp(t, Options{FilePath: path})

	if app.Document().IsModified() {
		t.Error("fresh document reports modified")
	}
	app.Select(cursor.NewSelection(buffer.Point{Line: 1}, buffer.Point{Line: 1, Column: 4}))
	if res := app.Execute("markdownHL1"); !res.IsOK() {
		t.Fatalf("Execute() = %+v", res)
	}
	if !app.Document().IsModified() {
		t.Error("edited document reports unmodified")
	}
	if err := app.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "alpha\r\n<mark style=\"background: #ffd400\">beta</mark>\r\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("saved file mismatch (-want +got):\n%s", diff)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	if app.Document().IsModified() {
		t.Error("saved document reports modified")
	}
}

func TestSaveScratch(t *testing.T) {
	app, _ := newTestApp(t, Options{Content: "word"})
	app.Select(cursor.NewSelection(buffer.Point{}, buffer.Point{Column: 4}))
	app.Execute("markdownHL1")

	if err := app.Save(); !errors.Is(err, ErrNoPath) {
		t.Errorf("Save() error = %v, want ErrNoPath", err)
	}
}

func TestApplySettings(t *testing.T) {
	app, logs := newTestApp(t, Options{})

	next := config.Default()
	next.LogLevel = "debug"
	next.EnableTableFormatter = false
	app.applySettings(next)

	if app.level.Level() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", app.level.Level())
	}
	if app.Settings().EnableTableFormatter {
		t.Error("settings not replaced")
	}
	if !strings.Contains(logs.String(), "flag=enableTableFormatter") {
		t.Errorf("expected flag change log, got %q", logs.String())
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in      string
		want    cursor.Selection
		wantErr bool
	}{
		{"1:1", cursor.NewCursorSelection(buffer.Point{}), false},
		{"3", cursor.NewCursorSelection(buffer.Point{Line: 2}), false},
		{"1:5-2:3", cursor.NewSelection(buffer.Point{Column: 4}, buffer.Point{Line: 1, Column: 2}), false},
		{"2:3-1:1", cursor.NewSelection(buffer.Point{Line: 1, Column: 2}, buffer.Point{}), false},
		{"0:1", cursor.Selection{}, true},
		{"1:x", cursor.Selection{}, true},
		{"1:1-", cursor.Selection{}, true},
		{"", cursor.Selection{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSelection(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSelection(%q) error = nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSelection(%q) error = %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseSelection(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
