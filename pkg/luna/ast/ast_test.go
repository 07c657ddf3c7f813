package ast

import (
	"math"
	"testing"
)

func TestOperatorTextIsUniqueAndNonEmpty(t *testing.T) {
	seen := map[string]string{}
	check := func(kind, text string) {
		t.Helper()
		if text == "" || text == "?" {
			t.Errorf("%s has no text", kind)
			return
		}
		if prev, ok := seen[text]; ok && prev != kind {
			// "-" is shared by negate and subtract; that is the only overlap.
			if text != "-" {
				t.Errorf("text %q used by both %s and %s", text, prev, kind)
			}
		}
		seen[text] = kind
	}

	for _, op := range UnaryOperators {
		check("unary "+op.String(), op.Text())
	}
	for _, op := range BinaryOperators {
		check("binary "+op.String(), op.Text())
	}
	for _, op := range TypeOperators {
		check("type "+op.String(), op.Text())
	}
	for _, op := range CompoundAssignmentOperators {
		check("compound "+op.Text(), op.Text())
	}
}

func TestOperatorText(t *testing.T) {
	tests := []struct {
		got      string
		expected string
	}{
		{OpNegate.Text(), "-"},
		{OpLength.Text(), "#"},
		{OpNot.Text(), "not"},
		{OpAdd.Text(), "+"},
		{OpSubtract.Text(), "-"},
		{OpMultiply.Text(), "*"},
		{OpDivide.Text(), "/"},
		{OpModulo.Text(), "%"},
		{OpPower.Text(), "^"},
		{OpAnd.Text(), "and"},
		{OpOr.Text(), "or"},
		{OpEqual.Text(), "=="},
		{OpNotEqual.Text(), "~="},
		{OpLessThan.Text(), "<"},
		{OpGreaterThan.Text(), ">"},
		{OpLessThanOrEqual.Text(), "<="},
		{OpGreaterThanOrEqual.Text(), ">="},
		{OpUnion.Text(), "|"},
		{OpIntersection.Text(), "&"},
		{OpAddAssign.Text(), "+="},
		{OpSubtractAssign.Text(), "-="},
		{OpMultiplyAssign.Text(), "*="},
		{OpDivideAssign.Text(), "/="},
		{OpModuloAssign.Text(), "%="},
		{OpPowerAssign.Text(), "^="},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, tt.got)
		}
	}

	if len(BinaryOperators) != 14 {
		t.Errorf("expected 14 binary operators, got %d", len(BinaryOperators))
	}
}

func TestCompoundAssignmentBinary(t *testing.T) {
	for _, op := range CompoundAssignmentOperators {
		want := op.Text()[:1]
		if got := op.Binary().Text(); got != want {
			t.Errorf("%s: expected binary %q, got %q", op.Text(), want, got)
		}
	}
}

func TestExprConversion(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "nil"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint8", uint8(255), "255"},
		{"float", 1.5, "1.5"},
		{"string", "hi", `"hi"`},
		{"expression", Name("x"), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expr(tt.input).String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestExprPanicsOnUnsupportedType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported type")
		}
	}()
	Expr(struct{}{})
}

func TestExprPanicsOnNonFiniteFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
		{"NaN", math.NaN()},
		{"float32 infinity", float32(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for %v", tt.input)
				}
			}()
			Expr(tt.input)
		})
	}
}

func TestNumberDefault(t *testing.T) {
	if got := Number("").Value; got != "0" {
		t.Errorf("expected default number text \"0\", got %q", got)
	}
	if got := Number("0x_FF").Value; got != "0x_FF" {
		t.Errorf("expected verbatim number text, got %q", got)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"add", Add(1, 2), "(1 + 2)"},
		{"nested", Subtract(Subtract(1, 2), 3), "((1 - 2) - 3)"},
		{"negate", Negate(Add(1, 2)), "(-(1 + 2))"},
		{"not", Not(Equal(Name("a"), Name("b"))), "(not (a == b))"},
		{"length", Length(Name("t")), "(#t)"},
		{"comparison", GreaterThanOrEqual(1, 2), "(1 >= 2)"},
		{"optional", Optional(Primitive(PrimitiveNumber)), "(number)?"},
		{"union", Union(Primitive(PrimitiveNumber), BuiltIn(BuiltInNever)), "(number | never)"},
		{"function", Function([]TypeArgument{Anonymous(Primitive(PrimitiveNumber)), Named("x", Primitive(PrimitiveString))}, nil), "((number, x: string) -> ())"},
		{"table", Table([]TableEntry{Entry("x", Primitive(PrimitiveNumber))}, Indexer(Primitive(PrimitiveString), BuiltIn(BuiltInAny))), "{x: number, [string]: any}"},
		{"array", Array(nil), "{}"},
		{"singleton", StringSingleton("foo"), `"foo"`},
		{"boolean singleton", BooleanSingleton(true), "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestArgumentsAndBindings(t *testing.T) {
	if Anonymous(Primitive(PrimitiveNumber)).IsNamed() {
		t.Error("anonymous argument reports a name")
	}
	if !Named("x", Primitive(PrimitiveNumber)).IsNamed() {
		t.Error("named argument reports no name")
	}
	if Declared("x").IsAnnotated() {
		t.Error("declared binding reports an annotation")
	}
	if !Annotated("x", Primitive(PrimitiveNumber)).IsAnnotated() {
		t.Error("annotated binding reports no annotation")
	}
}

func TestLocalAssignForms(t *testing.T) {
	x := Declared("x")
	y := Annotated("y", Primitive(PrimitiveNumber))

	tests := []struct {
		name     string
		stmt     *LocalAssign
		bindings int
		values   int
		expected string
	}{
		{"declare one", DeclareOne(x), 1, 0, "local x"},
		{"declare many", DeclareMany(x, y), 2, 0, "local x, y: number"},
		{"assign one", AssignOne(y, 1), 1, 1, "local y: number = 1"},
		{"assign many", AssignMany([]Binding{x, y}, []any{true, 2}), 2, 2, "local x, y: number = true, 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.stmt.Bindings) != tt.bindings {
				t.Errorf("expected %d bindings, got %d", tt.bindings, len(tt.stmt.Bindings))
			}
			if len(tt.stmt.Values) != tt.values {
				t.Errorf("expected %d values, got %d", tt.values, len(tt.stmt.Values))
			}
			if got := tt.stmt.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTypeKeywords(t *testing.T) {
	words := TypeKeywords()
	want := []string{"never", "any", "unknown", "nil", "boolean", "number", "string", "thread"}
	if len(words) != len(want) {
		t.Fatalf("expected %d keywords, got %d", len(want), len(words))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("keyword %d: expected %q, got %q", i, want[i], words[i])
		}
	}
}
