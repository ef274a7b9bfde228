package dispatcher

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dshills/mdenhance/internal/dispatcher/execctx"
	"github.com/dshills/mdenhance/internal/dispatcher/handler"
	"github.com/dshills/mdenhance/internal/input"
)

// Dispatcher routes actions to handlers and coordinates execution.
type Dispatcher struct {
	mu sync.RWMutex

	registry *Registry
	router   *Router

	editor   execctx.EditorInterface
	filePath string
	logger   *slog.Logger

	config  Config
	metrics *Metrics

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook
}

// New creates a new dispatcher with the given configuration.
func New(config Config) *Dispatcher {
	d := &Dispatcher{
		registry: NewRegistry(),
		router:   NewRouter(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		config:   config,
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a new dispatcher with default configuration.
func NewWithDefaults() *Dispatcher {
	return New(DefaultConfig())
}

// SetEditor sets the editor handed to handlers.
func (d *Dispatcher) SetEditor(ed execctx.EditorInterface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.editor = ed
}

// Editor returns the current editor.
func (d *Dispatcher) Editor() execctx.EditorInterface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.editor
}

// SetFilePath sets the path of the document being edited.
func (d *Dispatcher) SetFilePath(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filePath = path
}

// SetLogger sets the logger. A nil logger is ignored.
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logger = logger.With("component", "dispatcher")
}

// Dispatch executes an action synchronously.
func (d *Dispatcher) Dispatch(action input.Action) handler.Result {
	start := time.Now()
	if action.Name == "" {
		return handler.Error(ErrInvalidAction)
	}

	ctx := d.buildContext(action)

	if !d.runPreHooks(&action, ctx) {
		return handler.Cancelled("cancelled by hook")
	}

	h := d.router.Route(action.Name)
	if h == nil {
		h = d.registry.Get(action.Name)
	}
	if h == nil {
		result := handler.Error(fmt.Errorf("%w: %s", ErrNoHandler, action.Name))
		ctx.Logger.Warn("unknown action")
		return result
	}

	var result handler.Result
	if d.config.RecoverFromPanic {
		result = d.executeWithRecovery(h, action, ctx)
	} else {
		result = h.Handle(action, ctx)
	}

	d.runPostHooks(&action, ctx, &result)

	elapsed := time.Since(start)
	d.logResult(ctx.Logger, result, elapsed)
	if d.metrics != nil {
		d.metrics.RecordDispatch(action.Name, elapsed, result.Status)
	}
	return result
}

func (d *Dispatcher) executeWithRecovery(h handler.Handler, action input.Action, ctx *execctx.ExecutionContext) (result handler.Result) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			ctx.Logger.Error("handler panic", "panic", r, "stack", string(stack[:n]))

			result = handler.Error(fmt.Errorf("%w for %s: %v", ErrPanic, action.Name, r))
			if d.metrics != nil {
				d.metrics.RecordPanic(action.Name)
			}
		}
	}()
	return h.Handle(action, ctx)
}

func (d *Dispatcher) buildContext(action input.Action) *execctx.ExecutionContext {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return execctx.New().
		WithEditor(d.editor).
		WithFilePath(d.filePath).
		WithLogger(d.logger.With("action", action.Name, "source", action.Source.String()))
}

func (d *Dispatcher) logResult(logger *slog.Logger, result handler.Result, elapsed time.Duration) {
	attrs := []any{"status", result.Status.String(), "duration", elapsed}
	if result.Message != "" {
		attrs = append(attrs, "message", result.Message)
	}

	switch {
	case result.IsError():
		logger.Warn("dispatch failed", append(attrs, "error", result.Error)...)
	case d.config.SlowThreshold > 0 && elapsed > d.config.SlowThreshold:
		logger.Warn("slow dispatch", attrs...)
	default:
		logger.Debug("dispatched", attrs...)
	}
}

// RegisterHandler registers a handler for an exact action name.
func (d *Dispatcher) RegisterHandler(actionName string, h handler.Handler) {
	d.registry.Register(actionName, h)
}

// RegisterHandlerFunc registers a handler function for an action name.
func (d *Dispatcher) RegisterHandlerFunc(actionName string, fn handler.Func) {
	d.registry.Register(actionName, handler.NewHandlerFunc(fn))
}

// RegisterNamespace registers a namespace handler. Action names it claims
// outside its own namespace, such as "markdownHL1", are registered by name.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.router.RegisterNamespace(h)
	adapter := handler.NewNamespaceAdapter(h)
	for _, name := range h.Actions() {
		if extractNamespace(name) != h.Namespace() {
			d.registry.Register(name, adapter)
		}
	}
}

// UnregisterHandler removes a handler for an action name.
func (d *Dispatcher) UnregisterHandler(actionName string) {
	d.registry.Unregister(actionName)
}

// HasCommand reports whether an action name can be dispatched.
func (d *Dispatcher) HasCommand(actionName string) bool {
	return d.router.Route(actionName) != nil || d.registry.Has(actionName)
}

// Commands returns every dispatchable action name, sorted.
func (d *Dispatcher) Commands() []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range append(d.registry.List(), d.router.Actions()...) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RegisterPreHook registers a pre-dispatch hook.
func (d *Dispatcher) RegisterPreHook(hook PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, hook)
}

// RegisterPostHook registers a post-dispatch hook.
func (d *Dispatcher) RegisterPostHook(hook PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, hook)
}

func (d *Dispatcher) runPreHooks(action *input.Action, ctx *execctx.ExecutionContext) bool {
	d.mu.RLock()
	hooks := append([]PreDispatchHook(nil), d.preHooks...)
	d.mu.RUnlock()

	for _, h := range hooks {
		if !h.PreDispatch(action, ctx) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) runPostHooks(action *input.Action, ctx *execctx.ExecutionContext, result *handler.Result) {
	d.mu.RLock()
	hooks := append([]PostDispatchHook(nil), d.postHooks...)
	d.mu.RUnlock()

	for _, h := range hooks {
		h.PostDispatch(action, ctx, result)
	}
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Router returns the action router.
func (d *Dispatcher) Router() *Router {
	return d.router
}

// Metrics returns the metrics collector (nil if disabled).
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
