package parser

import (
	"testing"

	"github.com/sambeau/luna/pkg/luna/ast"
	"github.com/sambeau/luna/pkg/luna/format"
	"github.com/sambeau/luna/pkg/luna/lexer"
)

func tightSettings() format.Settings {
	s := format.DefaultSettings()
	s.OperatorSpacing = format.OperatorSpacing{}
	return s
}

// nestedExpressions builds every two-operator tree over a, b and c, with the
// inner operation on either side, plus unary operators around and inside them.
func nestedExpressions() []ast.Expression {
	a, b, c := ast.Name("a"), ast.Name("b"), ast.Name("c")

	var out []ast.Expression
	for _, outer := range ast.BinaryOperators {
		for _, inner := range ast.BinaryOperators {
			out = append(out,
				ast.Binary(outer, ast.Binary(inner, a, b), c),
				ast.Binary(outer, a, ast.Binary(inner, b, c)),
			)
		}
		for _, u := range ast.UnaryOperators {
			out = append(out,
				ast.Unary(u, ast.Binary(outer, a, b)),
				ast.Binary(outer, ast.Unary(u, a), b),
				ast.Binary(outer, a, ast.Unary(u, b)),
			)
		}
	}
	for _, u := range ast.UnaryOperators {
		for _, v := range ast.UnaryOperators {
			out = append(out, ast.Unary(u, ast.Unary(v, a)))
		}
	}
	return out
}

func nestedTypes() []ast.TypeAnnotation {
	num := ast.Primitive(ast.PrimitiveNumber)
	str := ast.Primitive(ast.PrimitiveString)
	nilType := ast.Primitive(ast.PrimitiveNil)
	anyType := ast.BuiltIn(ast.BuiltInAny)
	fn := ast.Function(nil, []ast.TypeAnnotation{num})

	return []ast.TypeAnnotation{
		ast.Union(num, str),
		ast.Union(ast.Union(num, str), nilType),
		ast.Union(num, ast.Union(str, nilType)),
		ast.Intersection(ast.Union(num, str), anyType),
		ast.Union(ast.Intersection(num, str), anyType),
		ast.Optional(ast.Union(num, str)),
		ast.Optional(ast.Optional(num)),
		ast.Union(fn, nilType),
		ast.Optional(fn),
		ast.Function(nil, []ast.TypeAnnotation{fn}),
		ast.Function(nil, []ast.TypeAnnotation{ast.Union(num, nilType)}),
		ast.Function(nil, []ast.TypeAnnotation{ast.Optional(ast.Union(num, nilType))}),
		ast.Function(nil, []ast.TypeAnnotation{num, str}),
		ast.Function(nil, nil),
		ast.Function(nil, []ast.TypeAnnotation{ast.Function(nil, nil)}),
		ast.Function(
			[]ast.TypeArgument{ast.Named("f", fn), ast.Anonymous(ast.Union(num, str))},
			[]ast.TypeAnnotation{ast.Function([]ast.TypeArgument{ast.Named("x", num)}, nil)},
		),
		ast.Array(nil),
		ast.Array(ast.Union(num, str)),
		ast.Array(ast.Array(fn)),
		ast.Table([]ast.TableEntry{ast.Entry("x", num), ast.Entry("f", fn)}, ast.Indexer(str, anyType)),
		ast.Table(nil, ast.Indexer(ast.Union(num, str), ast.Optional(fn))),
		ast.Union(ast.StringSingleton("a\"b"), ast.BooleanSingleton(false)),
		ast.BuiltIn(ast.BuiltInNever),
		ast.BuiltIn(ast.BuiltInUnknown),
		ast.Primitive(ast.PrimitiveThread),
	}
}

func TestExpressionRoundTrip(t *testing.T) {
	for name, settings := range map[string]format.Settings{
		"default": format.DefaultSettings(),
		"tight":   tightSettings(),
	} {
		t.Run(name, func(t *testing.T) {
			for _, e := range nestedExpressions() {
				printed := format.FormatNode(e, settings)

				p := New(lexer.New(printed))
				parsed := p.ParseExpression()
				if len(p.Errors()) > 0 {
					t.Errorf("%s: %q does not parse: %v", e, printed, p.Errors())
					continue
				}
				if again := format.FormatNode(parsed, settings); again != printed {
					t.Errorf("%s: printed %q, reprinted %q", e, printed, again)
				}
			}
		})
	}
}

// Chains of one associative operator print without parentheses and parse
// back to the same grouping, so the trees match exactly.
func TestParsedTreeMatches(t *testing.T) {
	tests := []ast.Expression{
		ast.Subtract(ast.Subtract(ast.Name("a"), ast.Name("b")), ast.Name("c")),
		ast.Subtract(ast.Name("a"), ast.Subtract(ast.Name("b"), ast.Name("c"))),
		ast.Power(ast.Name("a"), ast.Power(ast.Name("b"), ast.Name("c"))),
		ast.Power(ast.Power(ast.Name("a"), ast.Name("b")), ast.Name("c")),
		ast.Power(ast.Negate(ast.Name("a")), ast.Name("b")),
		ast.Negate(ast.Power(ast.Name("a"), ast.Name("b"))),
		ast.Not(ast.Equal(ast.Name("a"), ast.Name("b"))),
		ast.Or(ast.And(ast.Name("a"), ast.Name("b")), ast.Not(ast.Name("c"))),
	}

	for _, e := range tests {
		t.Run(e.String(), func(t *testing.T) {
			parsed := parseExpression(t, format.FormatExpression(e))
			if parsed.String() != e.String() {
				t.Errorf("expected tree %s, got %s", e, parsed)
			}
		})
	}
}

func TestTypeRoundTrip(t *testing.T) {
	for name, settings := range map[string]format.Settings{
		"default": format.DefaultSettings(),
		"tight":   tightSettings(),
	} {
		t.Run(name, func(t *testing.T) {
			for _, typ := range nestedTypes() {
				printed := format.FormatNode(typ, settings)

				p := New(lexer.New(printed))
				parsed := p.ParseType()
				if len(p.Errors()) > 0 {
					t.Errorf("%s: %q does not parse: %v", typ, printed, p.Errors())
					continue
				}
				if again := format.FormatNode(parsed, settings); again != printed {
					t.Errorf("%s: printed %q, reprinted %q", typ, printed, again)
				}
			}
		})
	}
}

func TestChunkRoundTrip(t *testing.T) {
	num := ast.Primitive(ast.PrimitiveNumber)
	chunk := &ast.Chunk{Statements: []ast.Statement{
		&ast.LocalAssign{
			Bindings: []ast.Binding{ast.Annotated("x", ast.Optional(num)), ast.Declared("y")},
			Values:   []ast.Expression{ast.Negate(ast.Number("1")), ast.String("two")},
		},
		&ast.LocalAssign{Bindings: []ast.Binding{ast.Annotated("t", ast.Array(num))}},
		&ast.ExpressionStatement{Expression: ast.Multiply(ast.Add(ast.Name("x"), 1), 2)},
	}}

	settings := format.Settings{Indentation: format.Tabs(1), OperatorSpacing: format.DefaultOperatorSpacing()}
	printed := format.FormatChunk(chunk, settings)

	p := New(lexer.New(printed))
	parsed := p.ParseChunk()
	checkParserErrors(t, p)

	if again := format.FormatChunk(parsed, settings); again != printed {
		t.Errorf("printed:\n%s\nreprinted:\n%s", printed, again)
	}
}

func TestChunkStatementBoundaries(t *testing.T) {
	a, x := ast.Name("a"), ast.Name("x")
	tests := []struct {
		name       string
		statements []ast.Statement
		printed    string
	}{
		{
			"negation after expression",
			[]ast.Statement{&ast.ExpressionStatement{Expression: a}, &ast.ExpressionStatement{Expression: ast.Negate(x)}},
			"a;\n-x\n",
		},
		{
			"negation after assignment",
			[]ast.Statement{ast.AssignOne(ast.Declared("y"), a), &ast.ExpressionStatement{Expression: ast.Add(ast.Negate(x), 1)}},
			"local y = a;\n-x + 1\n",
		},
		{
			"group after expression",
			[]ast.Statement{&ast.ExpressionStatement{Expression: a}, &ast.ExpressionStatement{Expression: ast.Multiply(ast.Add(x, 1), 2)}},
			"a;\n(x + 1) * 2\n",
		},
		{
			"negation after declaration",
			[]ast.Statement{&ast.LocalAssign{Bindings: []ast.Binding{ast.Declared("y")}}, &ast.ExpressionStatement{Expression: ast.Negate(x)}},
			"local y\n-x\n",
		},
		{
			"plain expressions",
			[]ast.Statement{&ast.ExpressionStatement{Expression: a}, &ast.ExpressionStatement{Expression: x}},
			"a\nx\n",
		},
	}

	settings := format.DefaultSettings()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			printed := format.FormatChunk(&ast.Chunk{Statements: tt.statements}, settings)
			if printed != tt.printed {
				t.Errorf("expected %q, got %q", tt.printed, printed)
			}

			p := New(lexer.New(printed))
			parsed := p.ParseChunk()
			checkParserErrors(t, p)
			if len(parsed.Statements) != len(tt.statements) {
				t.Fatalf("expected %d statements, got %d from %q", len(tt.statements), len(parsed.Statements), printed)
			}
			if again := format.FormatChunk(parsed, settings); again != printed {
				t.Errorf("printed %q, reprinted %q", printed, again)
			}
		})
	}
}

func TestStringLiteralRoundTrip(t *testing.T) {
	values := []string{
		"a\x00b",
		"\x01" + "23",
		"tab\tand\r\nbreak",
		"bell\a del\x7f",
		"invalid \xff\xfe bytes",
		`back\slash "quoted"`,
		"ünïcödé",
	}

	for _, value := range values {
		t.Run(value, func(t *testing.T) {
			printed := format.FormatExpression(ast.String(value))
			p := New(lexer.New(printed))
			parsed := p.ParseChunk()
			checkParserErrors(t, p)
			if len(parsed.Statements) != 1 {
				t.Fatalf("expected 1 statement from %q, got %d", printed, len(parsed.Statements))
			}
			stmt, ok := parsed.Statements[0].(*ast.ExpressionStatement)
			if !ok {
				t.Fatalf("expected an expression statement, got %T", parsed.Statements[0])
			}
			lit, ok := stmt.Expression.(*ast.StringLiteral)
			if !ok {
				t.Fatalf("expected a string literal, got %T", stmt.Expression)
			}
			if lit.Value != value {
				t.Errorf("printed %q, parsed back %q, want %q", printed, lit.Value, value)
			}
		})
	}
}
