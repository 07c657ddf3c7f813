package ast

import "strings"

var (
	_ Statement = (*LocalAssign)(nil)
	_ Statement = (*ExpressionStatement)(nil)
)

// LocalAssign is a `local` declaration with optional initial values.
type LocalAssign struct {
	Bindings []Binding
	Values   []Expression
}

func (l *LocalAssign) statementNode() {}
func (l *LocalAssign) String() string {
	names := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		names[i] = b.String()
	}
	out := "local " + strings.Join(names, ", ")
	if len(l.Values) > 0 {
		values := make([]string, len(l.Values))
		for i, v := range l.Values {
			values[i] = v.String()
		}
		out += " = " + strings.Join(values, ", ")
	}
	return out
}

// AssignMany declares bindings and assigns them values.
func AssignMany(bindings []Binding, values []any) *LocalAssign {
	return &LocalAssign{Bindings: bindings, Values: exprs(values)}
}

// DeclareMany declares bindings without values.
func DeclareMany(bindings ...Binding) *LocalAssign {
	return &LocalAssign{Bindings: bindings}
}

// AssignOne declares a single binding with a value.
func AssignOne(binding Binding, value any) *LocalAssign {
	return &LocalAssign{Bindings: []Binding{binding}, Values: []Expression{Expr(value)}}
}

// DeclareOne declares a single binding without a value.
func DeclareOne(binding Binding) *LocalAssign {
	return &LocalAssign{Bindings: []Binding{binding}}
}

// ExpressionStatement is a bare expression used as a statement.
type ExpressionStatement struct {
	Expression Expression
}

func (e *ExpressionStatement) statementNode() {}
func (e *ExpressionStatement) String() string { return e.Expression.String() }

// Chunk is a sequence of statements, the unit of a source file.
type Chunk struct {
	Statements []Statement
}

func (c *Chunk) String() string {
	var out strings.Builder
	for _, s := range c.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}
