package ast

import (
	"fmt"
	"math"
	"strconv"
)

// Expr converts a Go value into an Expression.
//
// Expressions pass through unchanged; nil, bool, integer, float and string
// values become the matching literal. Any other type panics, as do infinite
// and NaN floats: building a tree from a value that has no source form is a
// programming error.
func Expr(v any) Expression {
	switch v := v.(type) {
	case Expression:
		return v
	case nil:
		return &NilLiteral{}
	case bool:
		return &BooleanLiteral{Value: v}
	case int:
		return Number(strconv.Itoa(v))
	case int8:
		return Number(strconv.FormatInt(int64(v), 10))
	case int16:
		return Number(strconv.FormatInt(int64(v), 10))
	case int32:
		return Number(strconv.FormatInt(int64(v), 10))
	case int64:
		return Number(strconv.FormatInt(v, 10))
	case uint:
		return Number(strconv.FormatUint(uint64(v), 10))
	case uint8:
		return Number(strconv.FormatUint(uint64(v), 10))
	case uint16:
		return Number(strconv.FormatUint(uint64(v), 10))
	case uint32:
		return Number(strconv.FormatUint(uint64(v), 10))
	case uint64:
		return Number(strconv.FormatUint(v, 10))
	case float32:
		return Number(strconv.FormatFloat(finite(float64(v)), 'g', -1, 32))
	case float64:
		return Number(strconv.FormatFloat(finite(v), 'g', -1, 64))
	case string:
		return &StringLiteral{Value: v}
	}
	panic(fmt.Sprintf("ast: cannot convert %T to an expression", v))
}

// finite panics on infinities and NaN, which have no number literal.
func finite(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		panic(fmt.Sprintf("ast: cannot convert %v to an expression", f))
	}
	return f
}

func exprs(values []any) []Expression {
	if len(values) == 0 {
		return nil
	}
	out := make([]Expression, len(values))
	for i, v := range values {
		out[i] = Expr(v)
	}
	return out
}

// Literals

func Nil() *NilLiteral { return &NilLiteral{} }

func Bool(v bool) *BooleanLiteral { return &BooleanLiteral{Value: v} }

// Number builds a number literal from its source text. Empty text becomes "0".
func Number(text string) *NumberLiteral {
	if text == "" {
		text = "0"
	}
	return &NumberLiteral{Value: text}
}

func String(v string) *StringLiteral { return &StringLiteral{Value: v} }

func Name(name string) *Identifier { return &Identifier{Name: name} }

// Unary operations

func Unary(op UnaryOperator, operand any) *UnaryOperation {
	return &UnaryOperation{Operator: op, Operand: Expr(operand)}
}

func Negate(operand any) *UnaryOperation { return Unary(OpNegate, operand) }
func Length(operand any) *UnaryOperation { return Unary(OpLength, operand) }
func Not(operand any) *UnaryOperation    { return Unary(OpNot, operand) }

// Binary operations

func Binary(op BinaryOperator, left, right any) *BinaryOperation {
	return &BinaryOperation{Operator: op, Left: Expr(left), Right: Expr(right)}
}

func Add(l, r any) *BinaryOperation      { return Binary(OpAdd, l, r) }
func Subtract(l, r any) *BinaryOperation { return Binary(OpSubtract, l, r) }
func Multiply(l, r any) *BinaryOperation { return Binary(OpMultiply, l, r) }
func Divide(l, r any) *BinaryOperation   { return Binary(OpDivide, l, r) }
func Modulo(l, r any) *BinaryOperation   { return Binary(OpModulo, l, r) }
func Power(l, r any) *BinaryOperation    { return Binary(OpPower, l, r) }
func And(l, r any) *BinaryOperation      { return Binary(OpAnd, l, r) }
func Or(l, r any) *BinaryOperation       { return Binary(OpOr, l, r) }
func Equal(l, r any) *BinaryOperation    { return Binary(OpEqual, l, r) }
func NotEqual(l, r any) *BinaryOperation { return Binary(OpNotEqual, l, r) }
func LessThan(l, r any) *BinaryOperation { return Binary(OpLessThan, l, r) }

func GreaterThan(l, r any) *BinaryOperation {
	return Binary(OpGreaterThan, l, r)
}

func LessThanOrEqual(l, r any) *BinaryOperation {
	return Binary(OpLessThanOrEqual, l, r)
}

func GreaterThanOrEqual(l, r any) *BinaryOperation {
	return Binary(OpGreaterThanOrEqual, l, r)
}

// Type annotations

func BuiltIn(kind BuiltInKind) *BuiltInType { return &BuiltInType{Kind: kind} }

func Primitive(kind PrimitiveKind) *PrimitiveType { return &PrimitiveType{Kind: kind} }

func StringSingleton(text string) *SingletonType {
	return &SingletonType{Kind: SingletonString, Text: text}
}

func BooleanSingleton(v bool) *SingletonType {
	return &SingletonType{Kind: SingletonBoolean, Boolean: v}
}

func Optional(inner TypeAnnotation) *OptionalType { return &OptionalType{Inner: inner} }

func Combination(op TypeOperator, left, right TypeAnnotation) *CombinationType {
	return &CombinationType{Operator: op, Left: left, Right: right}
}

func Union(left, right TypeAnnotation) *CombinationType {
	return Combination(OpUnion, left, right)
}

func Intersection(left, right TypeAnnotation) *CombinationType {
	return Combination(OpIntersection, left, right)
}

// Function builds a function type. A nil results slice means no results.
func Function(args []TypeArgument, results []TypeAnnotation) *FunctionType {
	return &FunctionType{Arguments: args, Results: results}
}

func Anonymous(t TypeAnnotation) TypeArgument { return TypeArgument{Type: t} }

func Named(name string, t TypeAnnotation) TypeArgument {
	return TypeArgument{Name: name, Type: t}
}

func Table(entries []TableEntry, indexer *TableIndexer) *TableType {
	return &TableType{Entries: entries, Indexer: indexer}
}

func Entry(name string, t TypeAnnotation) TableEntry { return TableEntry{Name: name, Type: t} }

func Indexer(key, value TypeAnnotation) *TableIndexer {
	return &TableIndexer{Key: key, Value: value}
}

// Array builds an array type; a nil element means the element type is absent.
func Array(element TypeAnnotation) *ArrayType { return &ArrayType{Element: element} }

// Bindings

// Declared builds a binding without a type annotation.
func Declared(name string) Binding { return Binding{Name: name} }

// Annotated builds a binding with a type annotation.
func Annotated(name string, t TypeAnnotation) Binding {
	return Binding{Name: name, Annotation: t}
}
