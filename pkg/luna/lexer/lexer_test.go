package lexer

import (
	"testing"
)

type expectedToken struct {
	expectedType    TokenType
	expectedLiteral string
}

func checkTokens(t *testing.T, input string, tests []expectedToken) {
	t.Helper()
	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := `local five: number = 5;
local ten = 10

five + ten * 2 ^ 3 - #t % 4 / 1
not a == b and c ~= d or e <= f
x >= y; p < q > r
if else while for in break continue return function
"foobar"
"foo bar"
`

	checkTokens(t, input, []expectedToken{
		{LOCAL, "local"},
		{IDENT, "five"},
		{COLON, ":"},
		{IDENT, "number"},
		{ASSIGN, "="},
		{NUMBER, "5"},
		{SEMICOLON, ";"},
		{LOCAL, "local"},
		{IDENT, "ten"},
		{ASSIGN, "="},
		{NUMBER, "10"},
		{IDENT, "five"},
		{PLUS, "+"},
		{IDENT, "ten"},
		{ASTERISK, "*"},
		{NUMBER, "2"},
		{CARET, "^"},
		{NUMBER, "3"},
		{MINUS, "-"},
		{HASH, "#"},
		{IDENT, "t"},
		{PERCENT, "%"},
		{NUMBER, "4"},
		{SLASH, "/"},
		{NUMBER, "1"},
		{NOT, "not"},
		{IDENT, "a"},
		{EQ, "=="},
		{IDENT, "b"},
		{AND, "and"},
		{IDENT, "c"},
		{NOT_EQ, "~="},
		{IDENT, "d"},
		{OR, "or"},
		{IDENT, "e"},
		{LTE, "<="},
		{IDENT, "f"},
		{IDENT, "x"},
		{GTE, ">="},
		{IDENT, "y"},
		{SEMICOLON, ";"},
		{IDENT, "p"},
		{LT, "<"},
		{IDENT, "q"},
		{GT, ">"},
		{IDENT, "r"},
		{IF, "if"},
		{ELSE, "else"},
		{WHILE, "while"},
		{FOR, "for"},
		{IN, "in"},
		{BREAK, "break"},
		{CONTINUE, "continue"},
		{RETURN, "return"},
		{FUNCTION, "function"},
		{STRING, "foobar"},
		{STRING, "foo bar"},
		{EOF, ""},
	})
}

func TestTypeSyntaxTokens(t *testing.T) {
	input := `(x: number?, ...) -> { [string]: "a" | true & nil }.`

	checkTokens(t, input, []expectedToken{
		{LPAREN, "("},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "number"},
		{QUESTION, "?"},
		{COMMA, ","},
		{ELLIPSIS, "..."},
		{RPAREN, ")"},
		{ARROW, "->"},
		{LBRACE, "{"},
		{LBRACKET, "["},
		{IDENT, "string"},
		{RBRACKET, "]"},
		{COLON, ":"},
		{STRING, "a"},
		{PIPE, "|"},
		{TRUE, "true"},
		{AMPERSAND, "&"},
		{NIL, "nil"},
		{RBRACE, "}"},
		{DOT, "."},
		{EOF, ""},
	})
}

func TestNumberTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{"1_000_000", "1_000_000"},
		{".5", ".5"},
		{".5_0", ".5_0"},
		{"3.14159", "3.14159"},
		{"1.", "1."},
		{"1.5e10", "1.5e10"},
		{"1.5E-3", "1.5E-3"},
		{"2.e+1_0", "2.e+1_0"},
		{"1e10", "1e10"},
		{"0xFF", "0xFF"},
		{"0x_dead_BEEF", "0x_dead_BEEF"},
		{"0_x1", "0_x1"},
		{"0b1010", "0b1010"},
		{"0B_1", "0B_1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(tt.input)
			tok := l.NextToken()
			if tok.Type != NUMBER {
				t.Fatalf("expected NUMBER, got %s", tok.Type)
			}
			if tok.Literal != tt.expected {
				t.Errorf("expected literal %q, got %q", tt.expected, tok.Literal)
			}
			if next := l.NextToken(); next.Type != EOF {
				t.Errorf("expected EOF after number, got %s", next)
			}
		})
	}
}

func TestNumberBoundaries(t *testing.T) {
	// An exponent marker without digits is not part of the number.
	checkTokens(t, "1e x", []expectedToken{
		{NUMBER, "1"},
		{IDENT, "e"},
		{IDENT, "x"},
		{EOF, ""},
	})

	checkTokens(t, "1...", []expectedToken{
		{NUMBER, "1"},
		{ELLIPSIS, "..."},
		{EOF, ""},
	})

	checkTokens(t, "0b12", []expectedToken{
		{NUMBER, "0b1"},
		{NUMBER, "2"},
		{EOF, ""},
	})

	checkTokens(t, "0x", []expectedToken{
		{ILLEGAL, "0x"},
		{EOF, ""},
	})
}

func TestStringTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `"hello"`, "hello"},
		{"escapes", `"a\nb\tc\\d\"e"`, "a\nb\tc\\d\"e"},
		{"unknown escape kept", `"\q"`, `\q`},
		{"carriage return", `"a\rb"`, "a\rb"},
		{"decimal escapes", `"\000\65\0012\255"`, "\x00A\x012\xff"},
		{"decimal escape out of range kept", `"\256"`, `\256`},
		{"multi-line", "\"one\ntwo\"", "one\ntwo"},
		{"unicode", `"héllo 日本"`, "héllo 日本"},
		{"empty", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != STRING {
				t.Fatalf("expected STRING, got %s", tok.Type)
			}
			if tok.Literal != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tok.Literal)
			}
		})
	}
}

func TestUnterminatedLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"abc`, "unterminated string"},
		{`"abc\`, "unterminated string"},
		{"`abc", "unterminated template"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != ILLEGAL || tok.Literal != tt.expected {
			t.Errorf("%q: expected ILLEGAL %q, got %s", tt.input, tt.expected, tok)
		}
		if next := l.NextToken(); next.Type != EOF {
			t.Errorf("%q: expected EOF, got %s", tt.input, next)
		}
	}
}

func TestTemplateTokens(t *testing.T) {
	checkTokens(t, "`a ${b}\n\\`c` x", []expectedToken{
		{TEMPLATE, "a ${b}\n`c"},
		{IDENT, "x"},
		{EOF, ""},
	})
}

func TestIllegalCharacters(t *testing.T) {
	checkTokens(t, "a ~ b @ c", []expectedToken{
		{IDENT, "a"},
		{ILLEGAL, "~"},
		{IDENT, "b"},
		{ILLEGAL, "@"},
		{IDENT, "c"},
		{EOF, ""},
	})
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
	}{
		{"local", LOCAL},
		{"function", FUNCTION},
		{"nil", NIL},
		{"true", TRUE},
		{"false", FALSE},
		{"and", AND},
		{"or", OR},
		{"not", NOT},
		{"number", IDENT},
		{"foobar", IDENT},
	}

	for _, tt := range tests {
		result := LookupIdent(tt.input)
		if result != tt.expected {
			t.Errorf("LookupIdent(%q) wrong. expected=%q, got=%q",
				tt.input, tt.expected, result)
		}
	}

	if n := len(Keywords()); n != 16 {
		t.Errorf("expected 16 keywords, got %d", n)
	}
}

func TestTokenPositions(t *testing.T) {
	input := "local x\n  = 1"
	expected := []struct {
		typ          TokenType
		line, column int
	}{
		{LOCAL, 1, 1},
		{IDENT, 1, 7},
		{ASSIGN, 2, 3},
		{NUMBER, 2, 5},
		{EOF, 2, 5},
	}

	l := NewWithFilename(input, "test.lua")
	if l.Filename() != "test.lua" {
		t.Errorf("expected filename test.lua, got %q", l.Filename())
	}
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want.typ || tok.Line != want.line || tok.Column != want.column {
			t.Errorf("token %d: expected %s at %d:%d, got %s", i, want.typ, want.line, want.column, tok)
		}
	}
}

func TestTokens(t *testing.T) {
	toks := New("a + 1").Tokens()
	if len(toks) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(toks))
	}
	if toks[len(toks)-1].Type != EOF {
		t.Errorf("expected final EOF, got %s", toks[len(toks)-1])
	}
}
