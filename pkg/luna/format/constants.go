// Package format turns Luna syntax trees back into source text.
// Defaults for the layout settings live here.
package format

// Indentation - four spaces per nesting level unless configured otherwise
const DefaultIndentWidth = 4

// Punctuation used when rendering
const (
	ListSeparator  = ", "   // between arguments, entries, bindings and values
	ReturnArrow    = " -> " // between a function type's arguments and results
	EmptyBraces    = "{ }"  // an empty table or an array without element type
	OptionalSuffix = "?"
)
