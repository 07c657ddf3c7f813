package format

import (
	"strings"

	"github.com/sambeau/luna/pkg/luna/ast"
	"github.com/sambeau/luna/pkg/luna/evaluation"
)

func formatType(t ast.TypeAnnotation, s Settings) string {
	switch t := t.(type) {
	case *ast.BuiltInType:
		return t.Kind.Keyword()
	case *ast.PrimitiveType:
		return t.Kind.Keyword()
	case *ast.SingletonType:
		if t.Kind == ast.SingletonBoolean {
			if t.Boolean {
				return "true"
			}
			return "false"
		}
		return Quote(t.Text)
	case *ast.OptionalType:
		inner := formatType(t.Inner, s)
		return wrapIf(inner, evaluation.ShouldWrapType(t, t.Inner, evaluation.LeftSide)) + OptionalSuffix
	case *ast.CombinationType:
		return formatCombination(t, s)
	case *ast.FunctionType:
		return formatFunction(t, s)
	case *ast.TableType:
		return formatTable(t, s)
	case *ast.ArrayType:
		if t.Element == nil {
			return EmptyBraces
		}
		return "{ " + formatType(t.Element, s) + " }"
	}
	return ""
}

func formatCombination(c *ast.CombinationType, s Settings) string {
	var out strings.Builder
	out.WriteString(wrapIf(formatType(c.Left, s), evaluation.ShouldWrapType(c, c.Left, evaluation.LeftSide)))
	out.WriteString(spaced(c.Operator.Text(), s.OperatorSpacing.TypeSpaced(c.Operator)))
	out.WriteString(wrapIf(formatType(c.Right, s), evaluation.ShouldWrapType(c, c.Right, evaluation.RightSide)))
	return out.String()
}

// formatFunction renders `(args) -> R`. A single result is written bare;
// zero or several results are written as a parenthesised list.
func formatFunction(f *ast.FunctionType, s Settings) string {
	args := make([]string, len(f.Arguments))
	for i, a := range f.Arguments {
		args[i] = formatArgument(a, s)
	}

	var out strings.Builder
	out.WriteString("(")
	out.WriteString(strings.Join(args, ListSeparator))
	out.WriteString(")")
	out.WriteString(ReturnArrow)

	if len(f.Results) == 1 {
		r := f.Results[0]
		out.WriteString(wrapIf(formatType(r, s), evaluation.ShouldWrapType(f, r, evaluation.RightSide)))
		return out.String()
	}
	results := make([]string, len(f.Results))
	for i, r := range f.Results {
		results[i] = formatType(r, s)
	}
	out.WriteString("(")
	out.WriteString(strings.Join(results, ListSeparator))
	out.WriteString(")")
	return out.String()
}

func formatArgument(a ast.TypeArgument, s Settings) string {
	if a.IsNamed() {
		return a.Name + ": " + formatType(a.Type, s)
	}
	return formatType(a.Type, s)
}

func formatEntry(e ast.TableEntry, s Settings) string {
	return e.Name + ": " + formatType(e.Type, s)
}

func formatIndexer(i *ast.TableIndexer, s Settings) string {
	return "[" + formatType(i.Key, s) + "]: " + formatType(i.Value, s)
}

func formatTable(t *ast.TableType, s Settings) string {
	parts := make([]string, 0, len(t.Entries)+1)
	for _, e := range t.Entries {
		parts = append(parts, formatEntry(e, s))
	}
	if t.Indexer != nil {
		parts = append(parts, formatIndexer(t.Indexer, s))
	}
	if len(parts) == 0 {
		return EmptyBraces
	}
	return "{ " + strings.Join(parts, ListSeparator) + " }"
}
