// Package ast defines the syntax tree for Luna source: expressions, type
// annotations, bindings and statements.
//
// Nodes are plain data. They are built with the constructor functions in this
// package and are never mutated afterwards, so a tree may be shared between
// goroutines for read-only work such as formatting.
package ast

import (
	"strconv"
	"strings"
)

// Node represents any node in the AST
type Node interface {
	String() string
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// TypeAnnotation represents type annotation nodes
type TypeAnnotation interface {
	Node
	annotationNode()
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

var (
	_ Expression = (*NilLiteral)(nil)
	_ Expression = (*BooleanLiteral)(nil)
	_ Expression = (*NumberLiteral)(nil)
	_ Expression = (*StringLiteral)(nil)
	_ Expression = (*Identifier)(nil)
	_ Expression = (*UnaryOperation)(nil)
	_ Expression = (*BinaryOperation)(nil)
)

// NilLiteral is the `nil` value.
type NilLiteral struct{}

func (n *NilLiteral) expressionNode() {}
func (n *NilLiteral) String() string  { return "nil" }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Value bool
}

func (b *BooleanLiteral) expressionNode() {}
func (b *BooleanLiteral) String() string  { return strconv.FormatBool(b.Value) }

// NumberLiteral keeps the number exactly as it was written.
type NumberLiteral struct {
	Value string // never empty; "0" by default
}

func (n *NumberLiteral) expressionNode() {}
func (n *NumberLiteral) String() string  { return n.Value }

// StringLiteral holds decoded string content.
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) expressionNode() {}
func (s *StringLiteral) String() string  { return strconv.Quote(s.Value) }

// Identifier is a variable reference.
type Identifier struct {
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Name }

// UnaryOperation is a prefix operator applied to an operand, e.g. `-x` or `not ok`.
type UnaryOperation struct {
	Operator UnaryOperator
	Operand  Expression
}

func (u *UnaryOperation) expressionNode() {}
func (u *UnaryOperation) String() string {
	var out strings.Builder
	out.WriteString("(")
	out.WriteString(u.Operator.Text())
	if u.Operator.IsWord() {
		out.WriteString(" ")
	}
	out.WriteString(u.Operand.String())
	out.WriteString(")")
	return out.String()
}

// BinaryOperation is an infix operation, e.g. `a + b`.
type BinaryOperation struct {
	Operator BinaryOperator
	Left     Expression
	Right    Expression
}

func (b *BinaryOperation) expressionNode() {}
func (b *BinaryOperation) String() string {
	return "(" + b.Left.String() + " " + b.Operator.Text() + " " + b.Right.String() + ")"
}

// Binding is a name introduced by a declaration, optionally annotated.
type Binding struct {
	Name       string
	Annotation TypeAnnotation // nil when undeclared
}

// IsAnnotated reports whether the binding carries a type annotation.
func (b Binding) IsAnnotated() bool {
	return b.Annotation != nil
}

func (b Binding) String() string {
	if b.Annotation == nil {
		return b.Name
	}
	return b.Name + ": " + b.Annotation.String()
}
