// Package app wires settings, the open document, the dispatcher and the
// enabled feature handlers into one Application.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/dshills/mdenhance/internal/config"
	"github.com/dshills/mdenhance/internal/dispatcher"
	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	mermaidhandler "github.com/dshills/mdenhance/internal/dispatcher/handlers/mermaid"
	"github.com/dshills/mdenhance/internal/engine/buffer"
	"github.com/dshills/mdenhance/internal/engine/cursor"
	"github.com/dshills/mdenhance/internal/input"
	"github.com/dshills/mdenhance/internal/input/palette"
	"github.com/dshills/mdenhance/internal/plugin/lua"
)

// ErrReadOnly is returned when saving a read-only document.
var ErrReadOnly = errors.New("document is read-only")

// Options configures the application.
type Options struct {
	// ConfigPath is the settings file. Empty means defaults plus
	// environment overrides.
	ConfigPath string

	// Settings, when set, is used instead of loading ConfigPath.
	Settings *config.Settings

	// FilePath is the markdown document to open. Empty opens a scratch
	// document holding Content.
	FilePath string

	// Content seeds a scratch document.
	Content string

	// ReadOnly opens the document read-only.
	ReadOnly bool

	// LogLevel overrides the settings log level when non-empty.
	LogLevel string

	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Application is the composition root.
type Application struct {
	mu sync.RWMutex

	opts     Options
	settings *config.Settings
	level    *slog.LevelVar
	logger   *slog.Logger

	doc        *Document
	dispatcher *dispatcher.Dispatcher
	palette    *palette.Palette

	mermaid *mermaidhandler.Handler
	scripts *lua.Runtime
}

// New creates an Application and runs any configured quick command
// scripts.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{
		opts:  opts,
		level: new(slog.LevelVar),
	}
	if err := app.bootstrap(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap(ctx context.Context) error {
	// 1. Settings
	settings := app.opts.Settings
	if settings == nil {
		var err error
		settings, err = config.Load(app.opts.ConfigPath)
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
	} else if err := settings.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.settings = settings.Clone()
	if app.opts.LogLevel != "" {
		app.settings.LogLevel = app.opts.LogLevel
	}

	// 2. Logging
	lvl, err := config.ParseLevel(app.settings.LogLevel)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.level.Set(lvl)
	out := app.opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	app.logger = NewLogger(out, app.level)

	// 3. Document
	if app.opts.FilePath != "" {
		app.doc, err = OpenDocument(app.opts.FilePath, app.opts.ReadOnly)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
	} else {
		app.doc = NewDocument("", app.opts.Content, app.opts.ReadOnly)
	}
	app.logger.Debug("document opened", "path", app.doc.Path, "readOnly", app.doc.Editor.IsReadOnly())

	// 4. Dispatcher and palette
	app.dispatcher = dispatcher.New(dispatcher.DefaultConfig().WithMetrics())
	app.dispatcher.SetLogger(app.logger)
	app.dispatcher.SetEditor(app.doc.Editor)
	app.dispatcher.SetFilePath(app.doc.Path)

	app.palette = palette.New()
	app.dispatcher.RegisterPostHook(dispatcher.PostDispatchFunc(app.recordHistory))

	// 5. Features
	app.registerFeatures(ctx)
	return nil
}

// recordHistory feeds successful commands into palette ranking.
func (app *Application) recordHistory(action *input.Action, _ *execctx.ExecutionContext, result *handler.Result) {
	if result.IsOK() {
		app.palette.Record(action.Name)
	}
}

// Close releases the script runtime.
func (app *Application) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.scripts != nil {
		err := app.scripts.Close()
		app.scripts = nil
		return err
	}
	return nil
}

// Execute dispatches the named command with positional arguments.
func (app *Application) Execute(name string, args ...string) handler.Result {
	action := input.NewAction(name).WithSource(input.SourceCLI)
	if len(args) > 0 {
		action = action.WithStrings(args...)
	}
	return app.ExecuteAction(action)
}

// ExecuteAction dispatches a prepared action.
func (app *Application) ExecuteAction(action input.Action) handler.Result {
	return app.dispatcher.Dispatch(action)
}

// RunScript runs a Lua file against the document. It fails when quick
// commands are disabled.
func (app *Application) RunScript(ctx context.Context, path string) error {
	app.mu.RLock()
	rt := app.scripts
	app.mu.RUnlock()
	if rt == nil {
		return ErrFeatureDisabled
	}
	if err := rt.RunFile(ctx, path); err != nil {
		return err
	}
	app.registerScriptCommands()
	return nil
}

// Save writes the document back to its file.
func (app *Application) Save() error {
	if app.doc.Editor.IsReadOnly() {
		return ErrReadOnly
	}
	if !app.doc.IsModified() {
		app.logger.Debug("document unchanged, not saving", "path", app.doc.Path)
		return nil
	}
	if err := app.doc.Save(); err != nil {
		return err
	}
	app.logger.Info("document saved", "path", app.doc.Path)
	return nil
}

// Text returns the document text with LF line endings.
func (app *Application) Text() string {
	return app.doc.Editor.Text()
}

// View returns the document as displayed: folded mermaid blocks are
// replaced by their placeholder.
func (app *Application) View() string {
	text := app.Text()
	if app.mermaid == nil || app.mermaid.Folder().Count() == 0 {
		return text
	}
	return strings.Join(app.mermaid.Folder().Render(strings.Split(text, "\n")), "\n")
}

// Select replaces the document selections.
func (app *Application) Select(sels ...cursor.Selection) {
	if len(sels) == 0 {
		return
	}
	app.doc.Editor.SetSelections(sels...)
}

// SetCursor collapses the selections to a caret at p.
func (app *Application) SetCursor(p buffer.Point) {
	app.doc.Editor.SetCursor(p)
}

// Commands returns the palette entries sorted by category and title.
func (app *Application) Commands() []*palette.Command {
	return app.palette.All()
}

// Search ranks palette entries against query.
func (app *Application) Search(query string, limit int) []palette.SearchResult {
	return app.palette.Search(query, limit)
}

// Settings returns a copy of the active settings.
func (app *Application) Settings() *config.Settings {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.settings.Clone()
}

// Document returns the open document.
func (app *Application) Document() *Document {
	return app.doc
}

// Dispatcher returns the command dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
