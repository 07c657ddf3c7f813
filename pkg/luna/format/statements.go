package format

import (
	"strings"

	"github.com/sambeau/luna/pkg/luna/ast"
)

func formatStatement(st ast.Statement, s Settings) string {
	switch st := st.(type) {
	case *ast.LocalAssign:
		return formatLocalAssign(st, s)
	case *ast.ExpressionStatement:
		return formatExpression(st.Expression, s)
	}
	return ""
}

func formatBinding(b ast.Binding, s Settings) string {
	if !b.IsAnnotated() {
		return b.Name
	}
	return b.Name + ": " + formatType(b.Annotation, s)
}

func formatLocalAssign(l *ast.LocalAssign, s Settings) string {
	names := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		names[i] = formatBinding(b, s)
	}

	var out strings.Builder
	out.WriteString("local ")
	out.WriteString(strings.Join(names, ListSeparator))
	if len(l.Values) == 0 {
		return out.String()
	}

	values := make([]string, len(l.Values))
	for i, v := range l.Values {
		values[i] = formatExpression(v, s)
	}
	out.WriteString(" = ")
	out.WriteString(strings.Join(values, ListSeparator))
	return out.String()
}

// formatChunk lays statements out one per line. A statement ending in an
// expression is closed with `;` when the next one starts with a token that
// would otherwise continue it.
func formatChunk(c *ast.Chunk, s Settings) Block {
	texts := make([]string, len(c.Statements))
	for i, st := range c.Statements {
		texts[i] = formatStatement(st, s)
	}

	block := make(Block, 0, len(texts))
	for i, text := range texts {
		if i+1 < len(texts) && endsWithExpression(c.Statements[i]) && continuesExpression(texts[i+1]) {
			text += ";"
		}
		block = append(block, Line(Text(text)))
	}
	return block
}

func endsWithExpression(st ast.Statement) bool {
	switch st := st.(type) {
	case *ast.ExpressionStatement:
		return true
	case *ast.LocalAssign:
		return len(st.Values) > 0
	}
	return false
}

// continuesExpression reports whether text opens with a binary minus or a
// parenthesis when read straight after an expression.
func continuesExpression(text string) bool {
	return strings.HasPrefix(text, "-") || strings.HasPrefix(text, "(")
}
