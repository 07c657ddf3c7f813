package format

import (
	"fmt"
	"strings"

	"github.com/sambeau/luna/pkg/luna/ast"
)

// IndentationMode selects the character used for indentation.
type IndentationMode int

const (
	IndentNone IndentationMode = iota
	IndentSpaces
	IndentTabs
)

func (m IndentationMode) String() string {
	switch m {
	case IndentSpaces:
		return "spaces"
	case IndentTabs:
		return "tabs"
	}
	return "none"
}

// ParseIndentationMode converts "none", "spaces" or "tabs" to a mode.
func ParseIndentationMode(s string) (IndentationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return IndentNone, nil
	case "spaces", "space":
		return IndentSpaces, nil
	case "tabs", "tab":
		return IndentTabs, nil
	}
	return IndentNone, fmt.Errorf("unknown indentation mode %q (must be none, spaces or tabs)", s)
}

// Indentation is the per-level indentation unit.
type Indentation struct {
	Mode  IndentationMode
	Width int // characters per level; ignored for IndentNone
}

func NoIndentation() Indentation      { return Indentation{Mode: IndentNone} }
func Spaces(n int) Indentation        { return Indentation{Mode: IndentSpaces, Width: n} }
func Tabs(n int) Indentation          { return Indentation{Mode: IndentTabs, Width: n} }
func DefaultIndentation() Indentation { return Spaces(DefaultIndentWidth) }

// Prefix returns the indentation for the given nesting level.
// Zero or negative widths produce no indentation.
func (in Indentation) Prefix(level int) string {
	if level <= 0 || in.Width <= 0 {
		return ""
	}
	switch in.Mode {
	case IndentSpaces:
		return strings.Repeat(" ", in.Width*level)
	case IndentTabs:
		return strings.Repeat("\t", in.Width*level)
	}
	return ""
}

func (in Indentation) String() string {
	if in.Mode == IndentNone {
		return "none"
	}
	return fmt.Sprintf("%s(%d)", in.Mode, in.Width)
}

// OperatorSpacing says, per operator, whether it is surrounded by spaces.
// The word operators and, or and not are spaced whatever these say.
type OperatorSpacing struct {
	// Types
	Union        bool `yaml:"union"`
	Intersection bool `yaml:"intersection"`

	// Unary
	Negate bool `yaml:"negate"`
	Length bool `yaml:"length"`

	// Arithmetic
	Add      bool `yaml:"add"`
	Subtract bool `yaml:"subtract"`
	Multiply bool `yaml:"multiply"`
	Divide   bool `yaml:"divide"`
	Modulo   bool `yaml:"modulo"`
	Power    bool `yaml:"power"`

	// Logical
	And bool `yaml:"and"`
	Or  bool `yaml:"or"`

	// Equality
	Equal    bool `yaml:"equal"`
	NotEqual bool `yaml:"not_equal"`

	// Relational
	LessThan           bool `yaml:"less_than"`
	GreaterThan        bool `yaml:"greater_than"`
	GreaterThanOrEqual bool `yaml:"greater_than_or_equal"`
	LessThanOrEqual    bool `yaml:"less_than_or_equal"`
}

// DefaultOperatorSpacing spaces everything except negate and length.
func DefaultOperatorSpacing() OperatorSpacing {
	return OperatorSpacing{
		Union:              true,
		Intersection:       true,
		Negate:             false,
		Length:             false,
		Add:                true,
		Subtract:           true,
		Multiply:           true,
		Divide:             true,
		Modulo:             true,
		Power:              true,
		And:                true,
		Or:                 true,
		Equal:              true,
		NotEqual:           true,
		LessThan:           true,
		GreaterThan:        true,
		GreaterThanOrEqual: true,
		LessThanOrEqual:    true,
	}
}

// UnarySpaced reports whether a unary operator is followed by a space.
func (o OperatorSpacing) UnarySpaced(op ast.UnaryOperator) bool {
	switch op {
	case ast.OpNegate:
		return o.Negate
	case ast.OpLength:
		return o.Length
	}
	return true
}

// BinarySpaced reports whether a binary operator is surrounded by spaces.
func (o OperatorSpacing) BinarySpaced(op ast.BinaryOperator) bool {
	switch op {
	case ast.OpAdd:
		return o.Add
	case ast.OpSubtract:
		return o.Subtract
	case ast.OpMultiply:
		return o.Multiply
	case ast.OpDivide:
		return o.Divide
	case ast.OpModulo:
		return o.Modulo
	case ast.OpPower:
		return o.Power
	case ast.OpEqual:
		return o.Equal
	case ast.OpNotEqual:
		return o.NotEqual
	case ast.OpLessThan:
		return o.LessThan
	case ast.OpGreaterThan:
		return o.GreaterThan
	case ast.OpGreaterThanOrEqual:
		return o.GreaterThanOrEqual
	case ast.OpLessThanOrEqual:
		return o.LessThanOrEqual
	}
	return true
}

// TypeSpaced reports whether a type operator is surrounded by spaces.
func (o OperatorSpacing) TypeSpaced(op ast.TypeOperator) bool {
	if op == ast.OpIntersection {
		return o.Intersection
	}
	return o.Union
}

// fields lists the switches in a fixed order for fingerprints and lookups.
func (o *OperatorSpacing) fields() []struct {
	name  string
	value *bool
} {
	return []struct {
		name  string
		value *bool
	}{
		{"union", &o.Union},
		{"intersection", &o.Intersection},
		{"negate", &o.Negate},
		{"length", &o.Length},
		{"add", &o.Add},
		{"subtract", &o.Subtract},
		{"multiply", &o.Multiply},
		{"divide", &o.Divide},
		{"modulo", &o.Modulo},
		{"power", &o.Power},
		{"and", &o.And},
		{"or", &o.Or},
		{"equal", &o.Equal},
		{"not_equal", &o.NotEqual},
		{"less_than", &o.LessThan},
		{"greater_than", &o.GreaterThan},
		{"greater_than_or_equal", &o.GreaterThanOrEqual},
		{"less_than_or_equal", &o.LessThanOrEqual},
	}
}

// Names returns the setting names in a fixed order.
func (o OperatorSpacing) Names() []string {
	fs := o.fields()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.name
	}
	return names
}

// Get returns the switch with the given setting name.
func (o OperatorSpacing) Get(name string) (bool, bool) {
	for _, f := range o.fields() {
		if f.name == name {
			return *f.value, true
		}
	}
	return false, false
}

// Set changes the switch with the given setting name.
func (o *OperatorSpacing) Set(name string, spaced bool) error {
	for _, f := range o.fields() {
		if f.name == name {
			*f.value = spaced
			return nil
		}
	}
	return fmt.Errorf("unknown operator %q", name)
}

// Settings controls how source is emitted.
type Settings struct {
	Indentation     Indentation
	OperatorSpacing OperatorSpacing
}

// DefaultSettings returns four-space indentation and the default spacing.
func DefaultSettings() Settings {
	return Settings{
		Indentation:     DefaultIndentation(),
		OperatorSpacing: DefaultOperatorSpacing(),
	}
}

// Fingerprint is a stable text form of the settings, used as part of cache keys.
func (s Settings) Fingerprint() string {
	var sb strings.Builder
	sb.WriteString("indent=")
	sb.WriteString(s.Indentation.Mode.String())
	fmt.Fprintf(&sb, ":%d;spacing=", s.Indentation.Width)
	for _, f := range s.OperatorSpacing.fields() {
		if *f.value {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
