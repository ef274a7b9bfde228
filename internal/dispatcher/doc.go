// Package dispatcher routes actions to handlers and coordinates execution.
//
// Routing is two-tier:
//
//  1. Namespace router: "mermaid.foldAll" goes to the handler registered for
//     the "mermaid" namespace.
//  2. Registry: exact action names such as "markdownHL3" or
//     "alignColumnLeft". Undotted names claimed by a namespace handler are
//     registered here automatically.
//
// Each dispatch builds an ExecutionContext around the current editor, runs
// pre-dispatch hooks, executes the handler (recovering from panics when
// configured), runs post-dispatch hooks, logs the outcome and records
// metrics.
//
// Basic setup:
//
//	d := dispatcher.New(dispatcher.DefaultConfig())
//	d.SetEditor(ed)
//	d.RegisterNamespace(markdown.NewHandler())
//	result := d.Dispatch(input.NewAction("markdownHL1"))
package dispatcher
