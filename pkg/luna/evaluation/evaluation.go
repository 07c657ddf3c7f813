// Package evaluation derives the evaluation order of expressions: the
// precedence level and associativity of every node, and from those whether a
// child must be parenthesised when it is printed inside its parent.
package evaluation

import (
	"github.com/sambeau/luna/pkg/luna/ast"
)

// Precedence is a binding-strength level. Higher binds tighter.
type Precedence int

const (
	_ Precedence = iota
	Relational
	Equality
	Or
	And
	Additive
	Multiplicative
	Exponentiation
	Unary
	Verbatim
)

func (p Precedence) String() string {
	switch p {
	case Relational:
		return "Relational"
	case Equality:
		return "Equality"
	case Or:
		return "Or"
	case And:
		return "And"
	case Additive:
		return "Additive"
	case Multiplicative:
		return "Multiplicative"
	case Exponentiation:
		return "Exponentiation"
	case Unary:
		return "Unary"
	case Verbatim:
		return "Verbatim"
	}
	return "Precedence(?)"
}

// Associativity says how neighbours at the same precedence group.
type Associativity struct {
	Left  bool
	Right bool
}

var (
	FullAssociative  = Associativity{Left: true, Right: true}
	LeftAssociative  = Associativity{Left: true}
	RightAssociative = Associativity{Right: true}
	NonAssociative   = Associativity{}
)

// Rules is the evaluation order of one node.
type Rules struct {
	Precedence    Precedence
	Associativity Associativity
}

func (r Rules) IsLeftAssociative() bool  { return r.Associativity.Left }
func (r Rules) IsRightAssociative() bool { return r.Associativity.Right }

// verbatim is the order of every node that never needs parentheses.
var verbatim = Rules{Precedence: Verbatim, Associativity: NonAssociative}

// UnaryRules returns the order of a unary operator.
func UnaryRules(op ast.UnaryOperator) Rules {
	return Rules{Precedence: Unary, Associativity: RightAssociative}
}

// BinaryRules returns the order of a binary operator.
func BinaryRules(op ast.BinaryOperator) Rules {
	switch op {
	case ast.OpAdd:
		return Rules{Additive, FullAssociative}
	case ast.OpSubtract:
		return Rules{Additive, LeftAssociative}
	case ast.OpMultiply:
		return Rules{Multiplicative, FullAssociative}
	case ast.OpDivide, ast.OpModulo:
		return Rules{Multiplicative, LeftAssociative}
	case ast.OpPower:
		return Rules{Exponentiation, RightAssociative}
	case ast.OpAnd:
		return Rules{And, FullAssociative}
	case ast.OpOr:
		return Rules{Or, FullAssociative}
	case ast.OpEqual, ast.OpNotEqual:
		return Rules{Equality, LeftAssociative}
	default:
		return Rules{Relational, LeftAssociative}
	}
}

// RulesOf returns the evaluation order of an expression.
func RulesOf(e ast.Expression) Rules {
	switch e := e.(type) {
	case *ast.UnaryOperation:
		return UnaryRules(e.Operator)
	case *ast.BinaryOperation:
		return BinaryRules(e.Operator)
	default:
		return verbatim
	}
}

// Side names the operand position of a child inside its parent.
type Side int

const (
	LeftSide Side = iota
	RightSide
)

// wrap decides parenthesisation from the parent and child orders.
//
// At equal precedence a left child stays bare when the parent groups to the
// left, and a right child stays bare only when both parent and child group to
// the right: `a - b - c`, `a ^ b ^ c`, `a + b + c`, but `a - (b - c)` and
// `a * (b % c)`.
func wrap(parent, child Rules, side Side) bool {
	switch {
	case child.Precedence < parent.Precedence:
		return true
	case child.Precedence > parent.Precedence:
		return false
	case side == LeftSide:
		return !parent.IsLeftAssociative()
	default:
		return !(parent.IsRightAssociative() && child.IsRightAssociative())
	}
}

// ShouldWrap reports whether child needs parentheses on the given side of parent.
func ShouldWrap(parent, child ast.Expression, side Side) bool {
	return wrap(RulesOf(parent), RulesOf(child), side)
}

// ShouldWrapLeft reports whether the left operand of parent needs parentheses.
func ShouldWrapLeft(parent, child ast.Expression) bool {
	return ShouldWrap(parent, child, LeftSide)
}

// ShouldWrapRight reports whether the right operand of parent needs parentheses.
func ShouldWrapRight(parent, child ast.Expression) bool {
	return ShouldWrap(parent, child, RightSide)
}

// ShouldWrapOperand reports whether the operand of a unary operation needs
// parentheses. Prefix operators take their operand on the right.
func ShouldWrapOperand(u *ast.UnaryOperation) bool {
	return ShouldWrapRight(u, u.Operand)
}
