package format

// FormatDescription controls how a member of a Block is laid out.
type FormatDescription struct {
	Indented  bool // render the member one level deeper than the block
	Separated bool // end the member with a newline
}

// SourceObject is one member of a Block.
type SourceObject struct {
	Item        SourceItem
	Description FormatDescription
}

// SourceItem is intermediate formatter output: atomic Text or a Block.
type SourceItem interface {
	sourceItem()
}

// Text is an atomic run of source.
type Text string

// Block is a sequence of members laid out one after another.
type Block []SourceObject

func (Text) sourceItem()  {}
func (Block) sourceItem() {}

// Line wraps an item as a separated, unindented block member.
func Line(item SourceItem) SourceObject {
	return SourceObject{Item: item, Description: FormatDescription{Separated: true}}
}

// Nested wraps an item as a separated block member one level deeper.
func Nested(item SourceItem) SourceObject {
	return SourceObject{Item: item, Description: FormatDescription{Indented: true, Separated: true}}
}

// Render flattens an item into a string starting at the given indent level.
func Render(item SourceItem, settings Settings, indent int) string {
	p := NewPrinter(settings)
	p.Print(item, indent)
	return p.String()
}
