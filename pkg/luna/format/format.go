package format

import (
	"github.com/sambeau/luna/pkg/luna/ast"
)

// FormatItem renders any node to a SourceItem.
//
// Expressions, annotations, bindings and statements produce Text; a Chunk
// produces a Block with one separated line per statement. A nil node renders
// as empty text.
func FormatItem(node ast.Node, settings Settings) SourceItem {
	switch node := node.(type) {
	case ast.Expression:
		return Text(formatExpression(node, settings))
	case ast.TypeAnnotation:
		return Text(formatType(node, settings))
	case ast.Statement:
		return Text(formatStatement(node, settings))
	case *ast.Chunk:
		return formatChunk(node, settings)
	case ast.Binding:
		return Text(formatBinding(node, settings))
	case ast.TypeArgument:
		return Text(formatArgument(node, settings))
	case ast.TableEntry:
		return Text(formatEntry(node, settings))
	case *ast.TableIndexer:
		return Text(formatIndexer(node, settings))
	}
	return Text("")
}

// FormatNode renders a node to source text.
func FormatNode(node ast.Node, settings Settings) string {
	return Render(FormatItem(node, settings), settings, 0)
}

// FormatChunk renders a whole chunk to source text.
func FormatChunk(chunk *ast.Chunk, settings Settings) string {
	return Render(formatChunk(chunk, settings), settings, 0)
}

// FormatExpression renders an expression with the default settings.
func FormatExpression(e ast.Expression) string {
	return formatExpression(e, DefaultSettings())
}

// FormatType renders a type annotation with the default settings.
func FormatType(t ast.TypeAnnotation) string {
	return formatType(t, DefaultSettings())
}
