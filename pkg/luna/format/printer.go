package format

import (
	"strings"
)

// Printer flattens SourceItems into text
type Printer struct {
	output   strings.Builder
	settings Settings
	linePos  int // Current position in the current line
}

// NewPrinter creates a new Printer instance
func NewPrinter(settings Settings) *Printer {
	return &Printer{settings: settings}
}

// String returns the formatted output
func (p *Printer) String() string {
	return p.output.String()
}

// Reset clears the printer output for reuse
func (p *Printer) Reset() {
	p.output.Reset()
	p.linePos = 0
}

// Print renders an item at the given indent level.
//
// Text is written after the level's indentation prefix. A Block writes no
// prefix of its own: each member is printed at the block's level, or one
// deeper when indented, and a newline follows a member when it or the member
// before it is separated.
func (p *Printer) Print(item SourceItem, indent int) {
	switch item := item.(type) {
	case Text:
		p.writeIndent(indent)
		p.write(string(item))
	case Block:
		lastSeparated := false
		for _, obj := range item {
			level := indent
			if obj.Description.Indented {
				level++
			}
			p.Print(obj.Item, level)
			if lastSeparated || obj.Description.Separated {
				p.newline()
			}
			lastSeparated = obj.Description.Separated
		}
	}
}

// write appends a string to the output and updates line position
func (p *Printer) write(s string) {
	p.output.WriteString(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		p.linePos = len(s) - idx - 1
	} else {
		p.linePos += len(s)
	}
}

// newline writes a newline character and resets line position
func (p *Printer) newline() {
	p.output.WriteString("\n")
	p.linePos = 0
}

// writeIndent writes the indentation for a level
func (p *Printer) writeIndent(level int) {
	p.write(p.settings.Indentation.Prefix(level))
}

// Column returns the position in the current line
func (p *Printer) Column() int {
	return p.linePos
}
