package evaluation

import (
	"testing"

	"github.com/sambeau/luna/pkg/luna/ast"
)

func TestPrecedenceLadder(t *testing.T) {
	ladder := []Precedence{
		Relational, Equality, Or, And, Additive, Multiplicative, Exponentiation, Unary, Verbatim,
	}
	for i := 1; i < len(ladder); i++ {
		if ladder[i-1] >= ladder[i] {
			t.Errorf("%s should be lower than %s", ladder[i-1], ladder[i])
		}
	}
	if Relational != 1 || Verbatim != 9 {
		t.Errorf("ladder should run from 1 to 9, got %d to %d", Relational, Verbatim)
	}
}

func TestBinaryRules(t *testing.T) {
	tests := []struct {
		op    ast.BinaryOperator
		prec  Precedence
		assoc Associativity
	}{
		{ast.OpAdd, Additive, FullAssociative},
		{ast.OpSubtract, Additive, LeftAssociative},
		{ast.OpMultiply, Multiplicative, FullAssociative},
		{ast.OpDivide, Multiplicative, LeftAssociative},
		{ast.OpModulo, Multiplicative, LeftAssociative},
		{ast.OpPower, Exponentiation, RightAssociative},
		{ast.OpAnd, And, FullAssociative},
		{ast.OpOr, Or, FullAssociative},
		{ast.OpEqual, Equality, LeftAssociative},
		{ast.OpNotEqual, Equality, LeftAssociative},
		{ast.OpLessThan, Relational, LeftAssociative},
		{ast.OpGreaterThan, Relational, LeftAssociative},
		{ast.OpLessThanOrEqual, Relational, LeftAssociative},
		{ast.OpGreaterThanOrEqual, Relational, LeftAssociative},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			r := BinaryRules(tt.op)
			if r.Precedence != tt.prec {
				t.Errorf("expected precedence %s, got %s", tt.prec, r.Precedence)
			}
			if r.Associativity != tt.assoc {
				t.Errorf("expected associativity %+v, got %+v", tt.assoc, r.Associativity)
			}
		})
	}
}

func TestRulesOfLeaves(t *testing.T) {
	leaves := []ast.Expression{ast.Nil(), ast.Bool(true), ast.Number("1"), ast.String("s"), ast.Name("x")}
	for _, leaf := range leaves {
		r := RulesOf(leaf)
		if r.Precedence != Verbatim || r.Associativity != NonAssociative {
			t.Errorf("%s: expected verbatim/non-associative, got %+v", leaf, r)
		}
	}
	for _, op := range ast.UnaryOperators {
		r := RulesOf(ast.Unary(op, 1))
		if r.Precedence != Unary || !r.IsRightAssociative() || r.IsLeftAssociative() {
			t.Errorf("%s: expected unary/right, got %+v", op, r)
		}
	}
}

func TestShouldWrap(t *testing.T) {
	tests := []struct {
		name   string
		parent ast.Expression
		child  ast.Expression
		side   Side
		wrap   bool
	}{
		{"lower precedence left", ast.Multiply(ast.Add(1, 2), 3), ast.Add(1, 2), LeftSide, true},
		{"higher precedence right", ast.Add(1, ast.Multiply(2, 3)), ast.Multiply(2, 3), RightSide, false},
		{"literal left", ast.Power(2, 3), ast.Number("2"), LeftSide, false},
		{"literal right", ast.Power(2, 3), ast.Number("3"), RightSide, false},
		{"subtract left chain", ast.Subtract(ast.Subtract(1, 2), 3), ast.Subtract(1, 2), LeftSide, false},
		{"subtract right chain", ast.Subtract(1, ast.Subtract(2, 3)), ast.Subtract(2, 3), RightSide, true},
		{"power right chain", ast.Power(2, ast.Power(3, 4)), ast.Power(3, 4), RightSide, false},
		{"power left chain", ast.Power(ast.Power(2, 3), 4), ast.Power(2, 3), LeftSide, true},
		{"add right chain", ast.Add(1, ast.Add(2, 3)), ast.Add(2, 3), RightSide, false},
		{"and right chain", ast.And(1, ast.And(2, 3)), ast.And(2, 3), RightSide, false},
		{"or left chain", ast.Or(ast.Or(1, 2), 3), ast.Or(1, 2), LeftSide, false},
		{"multiply over modulo", ast.Multiply(1, ast.Modulo(2, 3)), ast.Modulo(2, 3), RightSide, true},
		{"add over subtract", ast.Add(1, ast.Subtract(2, 3)), ast.Subtract(2, 3), RightSide, true},
		{"subtract over add", ast.Subtract(1, ast.Add(2, 3)), ast.Add(2, 3), RightSide, true},
		{"equality chain left", ast.Equal(ast.Equal(1, 2), 3), ast.Equal(1, 2), LeftSide, false},
		{"relational chain right", ast.LessThan(1, ast.LessThan(2, 3)), ast.LessThan(2, 3), RightSide, true},
		{"unary under power", ast.Power(ast.Negate(2), 3), ast.Negate(2), LeftSide, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldWrap(tt.parent, tt.child, tt.side); got != tt.wrap {
				t.Errorf("expected %v, got %v", tt.wrap, got)
			}
		})
	}
}

func TestShouldWrapLeftRight(t *testing.T) {
	sub := ast.Subtract(ast.Subtract(1, 2), ast.Subtract(3, 4))
	if ShouldWrapLeft(sub, sub.Left) {
		t.Error("left operand of subtract should not wrap")
	}
	if !ShouldWrapRight(sub, sub.Right) {
		t.Error("right operand of subtract should wrap")
	}
}

func TestShouldWrapOperand(t *testing.T) {
	tests := []struct {
		name string
		node *ast.UnaryOperation
		wrap bool
	}{
		{"negate literal", ast.Negate(1), false},
		{"negate negate", ast.Negate(ast.Negate(ast.Name("x"))), false},
		{"not not", ast.Not(ast.Not(ast.Name("x"))), false},
		{"negate add", ast.Negate(ast.Add(1, 2)), true},
		{"not equal", ast.Not(ast.Equal(ast.Name("a"), ast.Name("b"))), true},
		{"length power", ast.Length(ast.Power(ast.Name("t"), 2)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldWrapOperand(tt.node); got != tt.wrap {
				t.Errorf("expected %v, got %v", tt.wrap, got)
			}
		})
	}
}

// Children of strictly higher precedence never wrap, on either side.
func TestHigherPrecedenceNeverWraps(t *testing.T) {
	var operations []ast.Expression
	for _, op := range ast.BinaryOperators {
		operations = append(operations, ast.Binary(op, 1, 2))
	}
	for _, op := range ast.UnaryOperators {
		operations = append(operations, ast.Unary(op, 1))
	}
	operations = append(operations, ast.Name("x"), ast.Number("1"))

	for _, parent := range operations {
		for _, child := range operations {
			if RulesOf(child).Precedence <= RulesOf(parent).Precedence {
				continue
			}
			if ShouldWrapLeft(parent, child) || ShouldWrapRight(parent, child) {
				t.Errorf("%s inside %s should not wrap", child, parent)
			}
		}
	}
}

func TestShouldWrapType(t *testing.T) {
	num := ast.Primitive(ast.PrimitiveNumber)
	str := ast.Primitive(ast.PrimitiveString)
	union := ast.Union(num, str)
	inter := ast.Intersection(num, str)
	fn := ast.Function(nil, []ast.TypeAnnotation{num})
	opt := ast.Optional(num)

	tests := []struct {
		name   string
		parent ast.TypeAnnotation
		child  ast.TypeAnnotation
		side   Side
		wrap   bool
	}{
		{"union in optional", ast.Optional(union), union, LeftSide, true},
		{"optional in optional", ast.Optional(opt), opt, LeftSide, false},
		{"union in intersection", ast.Intersection(union, num), union, LeftSide, true},
		{"intersection in union", ast.Union(inter, num), inter, LeftSide, false},
		{"union right of union", ast.Union(num, union), union, RightSide, false},
		{"function in union", ast.Union(fn, num), fn, LeftSide, true},
		{"function result function", ast.Function(nil, []ast.TypeAnnotation{fn}), fn, RightSide, false},
		{"function result union", ast.Function(nil, []ast.TypeAnnotation{union}), union, RightSide, false},
		{"atom in optional", opt, num, LeftSide, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldWrapType(tt.parent, tt.child, tt.side); got != tt.wrap {
				t.Errorf("expected %v, got %v", tt.wrap, got)
			}
		})
	}
}
