package evaluation

import "github.com/sambeau/luna/pkg/luna/ast"

// TypePrecedence is the binding-strength ladder for type annotations.
type TypePrecedence int

const (
	_ TypePrecedence = iota
	FunctionType
	UnionType
	IntersectionType
	OptionalType
	AtomType
)

// TypeRules is the evaluation order of one type annotation.
type TypeRules struct {
	Precedence    TypePrecedence
	Associativity Associativity
}

// TypeRulesOf returns the evaluation order of a type annotation.
func TypeRulesOf(t ast.TypeAnnotation) TypeRules {
	switch t := t.(type) {
	case *ast.FunctionType:
		return TypeRules{FunctionType, RightAssociative}
	case *ast.CombinationType:
		if t.Operator == ast.OpIntersection {
			return TypeRules{IntersectionType, FullAssociative}
		}
		return TypeRules{UnionType, FullAssociative}
	case *ast.OptionalType:
		return TypeRules{OptionalType, LeftAssociative}
	default:
		return TypeRules{AtomType, NonAssociative}
	}
}

// ShouldWrapType reports whether a child annotation needs parentheses on the
// given side of parent. Only operator positions are considered; delimited
// positions such as arguments and table fields never wrap.
func ShouldWrapType(parent, child ast.TypeAnnotation, side Side) bool {
	p, c := TypeRulesOf(parent), TypeRulesOf(child)
	return wrap(
		Rules{Precedence: Precedence(p.Precedence), Associativity: p.Associativity},
		Rules{Precedence: Precedence(c.Precedence), Associativity: c.Associativity},
		side,
	)
}
