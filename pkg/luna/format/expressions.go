package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sambeau/luna/pkg/luna/ast"
	"github.com/sambeau/luna/pkg/luna/evaluation"
)

func formatExpression(e ast.Expression, s Settings) string {
	switch e := e.(type) {
	case *ast.NilLiteral:
		return "nil"
	case *ast.BooleanLiteral:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.NumberLiteral:
		return e.Value
	case *ast.StringLiteral:
		return Quote(e.Value)
	case *ast.Identifier:
		return e.Name
	case *ast.UnaryOperation:
		return formatUnary(e, s)
	case *ast.BinaryOperation:
		return formatBinary(e, s)
	}
	return ""
}

func formatUnary(u *ast.UnaryOperation, s Settings) string {
	var out strings.Builder
	out.WriteString(unaryOperator(u.Operator, s))
	out.WriteString(wrapIf(formatExpression(u.Operand, s), evaluation.ShouldWrapOperand(u)))
	return out.String()
}

func formatBinary(b *ast.BinaryOperation, s Settings) string {
	var out strings.Builder
	out.WriteString(wrapIf(formatExpression(b.Left, s), evaluation.ShouldWrapLeft(b, b.Left)))
	out.WriteString(binaryOperator(b.Operator, s))
	out.WriteString(wrapIf(formatExpression(b.Right, s), evaluation.ShouldWrapRight(b, b.Right)))
	return out.String()
}

// unaryOperator renders a prefix operator. Spaced prefixes get one trailing
// space and no leading space.
func unaryOperator(op ast.UnaryOperator, s Settings) string {
	if op.IsWord() || s.OperatorSpacing.UnarySpaced(op) {
		return op.Text() + " "
	}
	return op.Text()
}

func binaryOperator(op ast.BinaryOperator, s Settings) string {
	return spaced(op.Text(), op.IsWord() || s.OperatorSpacing.BinarySpaced(op))
}

func spaced(text string, on bool) string {
	if on {
		return " " + text + " "
	}
	return text
}

func wrapIf(text string, wrap bool) string {
	if wrap {
		return "(" + text + ")"
	}
	return text
}

// Quote renders s as a double-quoted string literal. Control characters and
// bytes that are not valid UTF-8 are written as three-digit decimal escapes.
func Quote(s string) string {
	var out strings.Builder
	out.Grow(len(s) + 2)
	out.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\\':
			out.WriteString(`\\`)
		case r == '"':
			out.WriteString(`\"`)
		case r == '\n':
			out.WriteString(`\n`)
		case r == '\t':
			out.WriteString(`\t`)
		case r == '\r':
			out.WriteString(`\r`)
		case r < 0x20 || r == 0x7f || (r == utf8.RuneError && size == 1):
			fmt.Fprintf(&out, `\%03d`, s[i])
		default:
			out.WriteString(s[i : i+size])
		}
		i += size
	}
	out.WriteByte('"')
	return out.String()
}
