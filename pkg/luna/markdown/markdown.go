// Package markdown formats the Lua and Luau code blocks of Markdown documents.
package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/format"
	"github.com/sambeau/luna/pkg/luna/lexer"
	"github.com/sambeau/luna/pkg/luna/parser"
)

// Languages are the fence info words whose blocks are formatted.
var Languages = []string{"lua", "luau"}

// Block is one fenced code block found in a document.
type Block struct {
	Language string
	Line     int // document line of the first code line
	Source   string
	Output   string // formatted code; equal to Source when Err is set
	Err      *lerrors.LunaError
	Skipped  bool // indented or padded blocks are left alone
}

// Changed reports whether formatting altered the block.
func (b Block) Changed() bool {
	return b.Output != b.Source
}

// Result is a formatted document.
type Result struct {
	Output []byte
	Blocks []Block
}

// Errors returns the parse errors of every block, positioned in the document.
func (r *Result) Errors() []*lerrors.LunaError {
	var errs []*lerrors.LunaError
	for _, b := range r.Blocks {
		if b.Err != nil {
			errs = append(errs, b.Err)
		}
	}
	return errs
}

// span is a byte range of the document to replace.
type span struct {
	start, stop int
	block       int
}

// Format formats every lua and luau fenced block in source. Blocks that fail
// to parse are left unchanged and reported in the result.
func Format(source []byte, settings format.Settings, filename string) *Result {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader(source))

	result := &Result{}
	var spans []span

	gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fence, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}

		lang := strings.ToLower(string(fence.Language(source)))
		if !isLanguage(lang) {
			return gmast.WalkSkipChildren, nil
		}

		lines := fence.Lines()
		if lines.Len() == 0 {
			return gmast.WalkSkipChildren, nil
		}

		first, last := lines.At(0), lines.At(lines.Len()-1)
		block := Block{
			Language: lang,
			Line:     bytes.Count(source[:first.Start], []byte("\n")) + 1,
			Source:   string(source[first.Start:last.Stop]),
		}
		block.Output = block.Source

		if !flush(source, lines) {
			block.Skipped = true
			result.Blocks = append(result.Blocks, block)
			return gmast.WalkSkipChildren, nil
		}

		p := parser.New(lexer.NewWithFilename(block.Source, filename))
		chunk := p.ParseChunk()
		if errs := p.StructuredErrors(); len(errs) > 0 {
			err := *errs[0]
			block.Err = err.WithPosition(err.Line+block.Line-1, err.Column)
		} else {
			block.Output = format.FormatChunk(chunk, settings)
			spans = append(spans, span{first.Start, last.Stop, len(result.Blocks)})
		}

		result.Blocks = append(result.Blocks, block)
		return gmast.WalkSkipChildren, nil
	})

	result.Output = splice(source, spans, result.Blocks)
	return result
}

// flush reports whether every code line starts at the beginning of a source
// line, so the block can be replaced as one contiguous range.
func flush(source []byte, lines *text.Segments) bool {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if seg.Padding > 0 {
			return false
		}
		if seg.Start > 0 && source[seg.Start-1] != '\n' {
			return false
		}
	}
	return true
}

func splice(source []byte, spans []span, blocks []Block) []byte {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var out bytes.Buffer
	pos := 0
	for _, s := range spans {
		out.Write(source[pos:s.start])
		out.WriteString(blocks[s.block].Output)
		pos = s.stop
	}
	out.Write(source[pos:])
	return out.Bytes()
}

func isLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// IsMarkdown reports whether a file name has a Markdown extension.
func IsMarkdown(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}
