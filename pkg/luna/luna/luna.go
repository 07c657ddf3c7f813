// Package luna provides a public API for embedding the Luna formatter.
//
// Basic usage:
//
//	out, err := luna.Format("local x:number=1+2")
//	// out == "local x: number = 1 + 2\n"
//
// For whole files, with caching and Markdown support, use a Runner.
package luna

import (
	"github.com/sambeau/luna/pkg/luna/ast"
	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/format"
	"github.com/sambeau/luna/pkg/luna/lexer"
	"github.com/sambeau/luna/pkg/luna/parser"
)

// Version is the formatter version. It is part of every cache key, so
// changing the output format means bumping it.
const Version = "0.4.0"

// Parse parses source into a chunk. The error, if any, is a *errors.LunaError.
func Parse(source, filename string) (*ast.Chunk, error) {
	chunk, errs := parse(source, filename)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return chunk, nil
}

// Format formats source with the default settings.
func Format(source string) (string, error) {
	return FormatWith(source, format.DefaultSettings())
}

// FormatWith formats source with the given settings.
func FormatWith(source string, settings format.Settings) (string, error) {
	chunk, err := Parse(source, "")
	if err != nil {
		return "", err
	}
	return format.FormatChunk(chunk, settings), nil
}

// Check parses source and returns its syntax errors.
func Check(source, filename string) []*lerrors.LunaError {
	_, errs := parse(source, filename)
	return errs
}

func parse(source, filename string) (*ast.Chunk, []*lerrors.LunaError) {
	var l *lexer.Lexer
	if filename == "" {
		l = lexer.New(source)
	} else {
		l = lexer.NewWithFilename(source, filename)
	}

	p := parser.New(l)
	chunk := p.ParseChunk()
	return chunk, p.StructuredErrors()
}
