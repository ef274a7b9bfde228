package dispatcher

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/mdenhance/internal/dispatcher/handler"
)

// Router routes dotted actions like "table.alignColumns" by namespace.
type Router struct {
	mu         sync.RWMutex
	namespaces map[string]handler.NamespaceHandler
}

// NewRouter creates a new action router.
func NewRouter() *Router {
	return &Router{
		namespaces: make(map[string]handler.NamespaceHandler),
	}
}

// RegisterNamespace registers a handler for all actions in its namespace.
func (r *Router) RegisterNamespace(h handler.NamespaceHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.namespaces[h.Namespace()] = h
}

// UnregisterNamespace removes a namespace handler.
func (r *Router) UnregisterNamespace(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.namespaces, namespace)
}

// Route finds the handler for a dotted action, or nil.
func (r *Router) Route(actionName string) handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if h, ok := r.namespaces[extractNamespace(actionName)]; ok && h.CanHandle(actionName) {
		return handler.NewNamespaceAdapter(h)
	}
	return nil
}

// Namespaces returns all registered namespace names, sorted.
func (r *Router) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Actions returns every routable dotted action, sorted.
func (r *Router) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for ns, h := range r.namespaces {
		for _, name := range h.Actions() {
			if extractNamespace(name) == ns {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// extractNamespace returns the text before the first dot, or "" when the
// name has none.
func extractNamespace(actionName string) string {
	idx := strings.IndexByte(actionName, '.')
	if idx < 0 {
		return ""
	}
	return actionName[:idx]
}
