// Package palette keeps the human-facing catalogue of commands.
//
// Every command the dispatcher can run gets an entry with a title such as
// "Highlight 3" or "Align column center". Search ranks entries for a
// query with a fuzzy subsequence scorer and lifts recently used commands,
// which is what `mdenhance commands QUERY` prints.
//
// All operations are safe for concurrent use.
package palette
