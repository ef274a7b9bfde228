package app

import (
	"context"
	"errors"

	"github.com/dshills/mdenhance/internal/dispatcher/handlers/markdown"
	mermaidhandler "github.com/dshills/mdenhance/internal/dispatcher/handlers/mermaid"
	tablehandler "github.com/dshills/mdenhance/internal/dispatcher/handlers/table"
	"github.com/dshills/mdenhance/internal/input/palette"
	"github.com/dshills/mdenhance/internal/plugin/lua"
)

// ErrFeatureDisabled is returned when using a feature its flag turned off.
var ErrFeatureDisabled = errors.New("feature is disabled")

// Palette sources.
const (
	sourceCore   = "core"
	sourceScript = "script"
)

// catalog holds the palette titles of the built-in commands.
var catalog = map[string]palette.Command{
	markdown.ActionHighlight1:   {Title: "Highlight 1", Category: "Highlight", Description: "Yellow highlight"},
	markdown.ActionHighlight2:   {Title: "Highlight 2", Category: "Highlight", Description: "Red highlight"},
	markdown.ActionHighlight3:   {Title: "Highlight 3", Category: "Highlight", Description: "Green highlight"},
	markdown.ActionHighlight4:   {Title: "Highlight 4", Category: "Highlight", Description: "Blue highlight"},
	markdown.ActionHighlight5:   {Title: "Highlight 5", Category: "Highlight", Description: "Purple highlight"},
	markdown.ActionHighlight6:   {Title: "Highlight 6", Category: "Highlight", Description: "Magenta highlight"},
	markdown.ActionHighlight7:   {Title: "Highlight 7", Category: "Highlight", Description: "Orange highlight"},
	markdown.ActionToggleInline: {Title: "Toggle inline markup", Category: "Markdown", Description: "Wrap or unwrap the selection with a prefix and suffix"},

	tablehandler.ActionAlignLeft:    {Title: "Align current column to left", Category: "Table"},
	tablehandler.ActionAlignRight:   {Title: "Align current column to right", Category: "Table"},
	tablehandler.ActionAlignCenter:  {Title: "Align current column to center", Category: "Table"},
	tablehandler.ActionAlignSlash:   {Title: "Remove the alignment of current column", Category: "Table"},
	tablehandler.ActionAlignColumns: {Title: "Align column", Category: "Table", Description: "Set the current column alignment from two markers"},
	tablehandler.ActionFormat:       {Title: "Format table", Category: "Table", Description: "Pad every cell to its column width"},

	mermaidhandler.ActionFoldAll:    {Title: "Fold all mermaid blocks", Category: "Mermaid"},
	mermaidhandler.ActionUnfoldAll:  {Title: "Unfold all mermaid blocks", Category: "Mermaid"},
	mermaidhandler.ActionToggleFold: {Title: "Toggle mermaid block fold", Category: "Mermaid", Description: "Fold or unfold the block under the cursor"},
}

// unavailable names the flags whose features mdenhance does not provide.
var unavailable = map[string]bool{
	"enableLocalPDFPreview":     true,
	"enableImageEnhancement":    true,
	"enablePapers":              true,
	"enableAutoAnnotationFetch": true,
	"enablePseudocode":          true,
}

// registerFeatures registers the handlers of every enabled feature.
func (app *Application) registerFeatures(ctx context.Context) {
	s := app.settings

	for _, f := range s.Flags() {
		if *f.Value && unavailable[f.Name] {
			app.logger.Info("feature unavailable", "flag", f.Name)
		}
	}

	// Inline highlighting is the core feature and is always available.
	md := markdown.NewHandler()
	app.dispatcher.RegisterNamespace(md)
	app.registerCore(md.Actions())

	if s.EnableQuickCommands {
		app.mu.Lock()
		app.scripts = lua.NewRuntime(app.dispatcher,
			lua.WithLogger(app.logger.With("component", "scripts")))
		app.mu.Unlock()

		for _, path := range s.QuickCommandScripts {
			if err := app.scripts.RunFile(ctx, path); err != nil {
				app.logger.Warn("quick command script failed", "path", path, "error", err)
			}
		}
		app.registerScriptCommands()
	}

	if s.EnableTableFormatter {
		h := tablehandler.NewHandler()
		app.dispatcher.RegisterNamespace(h)
		app.registerCore(h.Actions())
	}

	if s.EnableMermaidFolder {
		app.mermaid = mermaidhandler.NewHandler()
		app.dispatcher.RegisterNamespace(app.mermaid)
		app.registerCore(app.mermaid.Actions())
	}

	app.logger.Debug("features registered", "commands", len(app.dispatcher.Commands()))
}

// registerCore adds palette entries for built-in actions.
func (app *Application) registerCore(actions []string) {
	for _, name := range actions {
		entry, ok := catalog[name]
		if !ok {
			entry = palette.Command{Title: name}
		}
		entry.ID = name
		entry.Source = sourceCore
		if err := app.palette.Register(&entry); err != nil {
			app.logger.Warn("palette entry rejected", "command", name, "error", err)
		}
	}
}

// registerScriptCommands adds palette entries for script commands not
// yet listed.
func (app *Application) registerScriptCommands() {
	app.mu.RLock()
	rt := app.scripts
	app.mu.RUnlock()
	if rt == nil {
		return
	}
	for _, name := range rt.Commands() {
		if app.palette.Get(name) != nil {
			continue
		}
		err := app.palette.Register(&palette.Command{
			ID:       name,
			Title:    name,
			Category: "Quick commands",
			Source:   sourceScript,
		})
		if err != nil {
			app.logger.Warn("palette entry rejected", "command", name, "error", err)
		}
	}
}
