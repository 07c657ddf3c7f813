package ast

import (
	"strconv"
	"strings"
)

var (
	_ TypeAnnotation = (*BuiltInType)(nil)
	_ TypeAnnotation = (*PrimitiveType)(nil)
	_ TypeAnnotation = (*SingletonType)(nil)
	_ TypeAnnotation = (*OptionalType)(nil)
	_ TypeAnnotation = (*CombinationType)(nil)
	_ TypeAnnotation = (*FunctionType)(nil)
	_ TypeAnnotation = (*TableType)(nil)
	_ TypeAnnotation = (*ArrayType)(nil)
)

// BuiltInKind names the special built-in types.
type BuiltInKind int

const (
	BuiltInNever BuiltInKind = iota
	BuiltInAny
	BuiltInUnknown
)

// BuiltInKinds lists every built-in type kind.
var BuiltInKinds = []BuiltInKind{BuiltInNever, BuiltInAny, BuiltInUnknown}

// Keyword returns the spelling of the type in source.
func (k BuiltInKind) Keyword() string {
	switch k {
	case BuiltInNever:
		return "never"
	case BuiltInAny:
		return "any"
	case BuiltInUnknown:
		return "unknown"
	}
	return "?"
}

// PrimitiveKind names the primitive value types.
type PrimitiveKind int

const (
	PrimitiveNil PrimitiveKind = iota
	PrimitiveBoolean
	PrimitiveNumber
	PrimitiveString
	PrimitiveThread
)

// PrimitiveKinds lists every primitive type kind.
var PrimitiveKinds = []PrimitiveKind{
	PrimitiveNil, PrimitiveBoolean, PrimitiveNumber, PrimitiveString, PrimitiveThread,
}

// Keyword returns the spelling of the type in source.
func (k PrimitiveKind) Keyword() string {
	switch k {
	case PrimitiveNil:
		return "nil"
	case PrimitiveBoolean:
		return "boolean"
	case PrimitiveNumber:
		return "number"
	case PrimitiveString:
		return "string"
	case PrimitiveThread:
		return "thread"
	}
	return "?"
}

// TypeKeywords lists every keyword that names a type, for lookups and hints.
func TypeKeywords() []string {
	words := make([]string, 0, len(BuiltInKinds)+len(PrimitiveKinds))
	for _, k := range BuiltInKinds {
		words = append(words, k.Keyword())
	}
	for _, k := range PrimitiveKinds {
		words = append(words, k.Keyword())
	}
	return words
}

// BuiltInType is one of never, any or unknown.
type BuiltInType struct {
	Kind BuiltInKind
}

func (t *BuiltInType) annotationNode() {}
func (t *BuiltInType) String() string  { return t.Kind.Keyword() }

// PrimitiveType is one of nil, boolean, number, string or thread.
type PrimitiveType struct {
	Kind PrimitiveKind
}

func (t *PrimitiveType) annotationNode() {}
func (t *PrimitiveType) String() string  { return t.Kind.Keyword() }

// SingletonKind says which literal a SingletonType holds.
type SingletonKind int

const (
	SingletonString SingletonKind = iota
	SingletonBoolean
)

// SingletonType is a type inhabited by exactly one literal value.
type SingletonType struct {
	Kind    SingletonKind
	Text    string // set for SingletonString
	Boolean bool   // set for SingletonBoolean
}

func (t *SingletonType) annotationNode() {}
func (t *SingletonType) String() string {
	if t.Kind == SingletonBoolean {
		return strconv.FormatBool(t.Boolean)
	}
	return strconv.Quote(t.Text)
}

// OptionalType is `T?`.
type OptionalType struct {
	Inner TypeAnnotation
}

func (t *OptionalType) annotationNode() {}
func (t *OptionalType) String() string  { return "(" + t.Inner.String() + ")?" }

// CombinationType is a union or intersection of two annotations.
type CombinationType struct {
	Operator TypeOperator
	Left     TypeAnnotation
	Right    TypeAnnotation
}

func (t *CombinationType) annotationNode() {}
func (t *CombinationType) String() string {
	return "(" + t.Left.String() + " " + t.Operator.Text() + " " + t.Right.String() + ")"
}

// TypeArgument is one parameter of a function type. An empty Name marks an
// anonymous argument.
type TypeArgument struct {
	Name string
	Type TypeAnnotation
}

// IsNamed reports whether the argument has a name.
func (a TypeArgument) IsNamed() bool {
	return a.Name != ""
}

func (a TypeArgument) String() string {
	if a.Name == "" {
		return a.Type.String()
	}
	return a.Name + ": " + a.Type.String()
}

// FunctionType is `(args) -> result`.
type FunctionType struct {
	Arguments []TypeArgument
	Results   []TypeAnnotation
}

func (t *FunctionType) annotationNode() {}
func (t *FunctionType) String() string {
	args := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.String()
	}
	results := make([]string, len(t.Results))
	for i, r := range t.Results {
		results[i] = r.String()
	}
	return "((" + strings.Join(args, ", ") + ") -> (" + strings.Join(results, ", ") + "))"
}

// TableEntry is a named field of a table shape.
type TableEntry struct {
	Name string
	Type TypeAnnotation
}

func (e TableEntry) String() string {
	return e.Name + ": " + e.Type.String()
}

// TableIndexer is the `[K]: V` part of a table shape.
type TableIndexer struct {
	Key   TypeAnnotation
	Value TypeAnnotation
}

func (i *TableIndexer) String() string {
	return "[" + i.Key.String() + "]: " + i.Value.String()
}

// TableType is a table shape with named entries and at most one indexer.
type TableType struct {
	Entries []TableEntry
	Indexer *TableIndexer
}

func (t *TableType) annotationNode() {}
func (t *TableType) String() string {
	parts := make([]string, 0, len(t.Entries)+1)
	for _, e := range t.Entries {
		parts = append(parts, e.String())
	}
	if t.Indexer != nil {
		parts = append(parts, t.Indexer.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ArrayType is `{ T }`. Element is nil when the element type is absent.
type ArrayType struct {
	Element TypeAnnotation
}

func (t *ArrayType) annotationNode() {}
func (t *ArrayType) String() string {
	if t.Element == nil {
		return "{}"
	}
	return "{" + t.Element.String() + "}"
}
