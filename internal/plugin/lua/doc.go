// Package lua runs quick command scripts.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, the loaders (dofile, loadfile,
// load, loadstring) are removed, and require resolves only modules
// preloaded by the host. Every top-level run is bounded by a deadline.
//
// # The md module
//
// A Runtime exposes the editor to scripts through the global md table
// (also available as require("md")):
//
//	md.highlight(n)                 -- run markdownHLn, n in 1..7
//	md.toggle(prefix, suffix [, tag]) -- toggle an arbitrary marker pair
//	md.execute(name [, args])       -- dispatch any registered command
//	md.text()                       -- current document text
//	md.register(name, fn)           -- expose fn as a command
//	md.log(msg, ...)                -- write to the structured log
//
// md.highlight, md.toggle and md.execute return the result status and
// message, plus a table of result data when the command produced any.
// A command that fails raises a Lua error.
//
// A function passed to md.register receives the action's positional
// arguments as a list. Returning nothing or true reports success, false
// reports no-op, and a string reports success with that message.
//
// # Example
//
//	md.register("quick.boldLine", function(args)
//	  md.toggle("**", "**", "strong")
//	  return "bolded"
//	end)
package lua
