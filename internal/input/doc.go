// Package input defines the actions that flow from the command line, the
// Lua quick-command runtime and the palette into the dispatcher.
//
// An Action is a command name plus loosely typed arguments. Handlers read
// the arguments they understand and ignore the rest.
package input
