// Package errors provides structured error types for Luna tools.
//
// LunaError carries a catalog code, a rendered message, hints and a source
// position so that the same error can be shown to a person, printed with its
// source context, or emitted as JSON by editor integrations.
package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorClass categorizes errors for filtering and display.
type ErrorClass string

const (
	ClassParse  ErrorClass = "parse"
	ClassIO     ErrorClass = "io"
	ClassCache  ErrorClass = "cache"
	ClassConfig ErrorClass = "config"
)

// title names the class in PrettyString output.
func (c ErrorClass) title() string {
	switch c {
	case ClassParse:
		return "Parser error"
	case ClassIO:
		return "I/O error"
	case ClassCache:
		return "Cache error"
	case ClassConfig:
		return "Configuration error"
	}
	return "Error"
}

// LunaError represents any error reported by the Luna tools.
type LunaError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"` // catalog code, e.g. "PARSE-0001"
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Line    int            `json:"line"`   // 1-based, 0 if unknown
	Column  int            `json:"column"` // 1-based, 0 if unknown
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"` // values the message was rendered from
	Err     error          `json:"-"`
}

func (e *LunaError) Error() string {
	return e.String()
}

func (e *LunaError) Unwrap() error {
	return e.Err
}

// position renders "line L, column C", or "" when the line is unknown.
func (e *LunaError) position() string {
	if e.Line <= 0 {
		return ""
	}
	return fmt.Sprintf("line %d, column %d", e.Line, e.Column)
}

// String is the one-line form, "file: line L, column C: message", followed
// by one indented line per hint.
func (e *LunaError) String() string {
	var parts []string
	if e.File != "" {
		parts = append(parts, e.File)
	}
	if pos := e.position(); pos != "" {
		parts = append(parts, pos)
	}
	parts = append(parts, e.Message)

	out := strings.Join(parts, ": ")
	for _, hint := range e.Hints {
		out += "\n  " + hint
	}
	return out
}

// PrettyString is the multi-line form used on terminals.
func (e *LunaError) PrettyString() string {
	var sb strings.Builder
	sb.WriteString(e.Class.title())
	if e.Code != "" {
		fmt.Fprintf(&sb, " [%s]", e.Code)
	}

	pos := e.position()
	switch {
	case e.File != "":
		fmt.Fprintf(&sb, ":\n  in: %s", e.File)
		if pos != "" {
			fmt.Fprintf(&sb, "\n  at: %s", pos)
		}
		sb.WriteString("\n  ")
	case pos != "":
		fmt.Fprintf(&sb, ": %s\n  ", pos)
	default:
		sb.WriteString(":\n  ")
	}
	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		label := " or: "
		if i == 0 {
			label = "Use: "
		}
		sb.WriteString("\n  " + label + hint)
	}
	return sb.String()
}

// ToJSON returns the error as a JSON object.
func (e *LunaError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *LunaError) WithFile(file string) *LunaError {
	c := *e
	c.File = file
	return &c
}

// WithPosition returns a copy of the error with line and column set.
func (e *LunaError) WithPosition(line, column int) *LunaError {
	c := *e
	c.Line, c.Column = line, column
	return &c
}

func (e *LunaError) IsParseError() bool {
	return e.Class == ClassParse
}

// New creates a LunaError from the catalog. An unknown code gives an error
// whose message is data["message"], or the code itself.
func New(code string, data map[string]any) *LunaError {
	entry, ok := catalog[code]
	if !ok {
		msg, _ := data["message"].(string)
		if msg == "" {
			msg = code
		}
		return &LunaError{Class: classOf(code), Code: code, Message: msg, Data: data}
	}

	err := &LunaError{
		Class:   entry.class,
		Code:    code,
		Message: entry.message.render(data),
		Data:    data,
	}
	for _, h := range entry.hints {
		if hint := h.render(data); hint != "" {
			err.Hints = append(err.Hints, hint)
		}
	}
	return err
}

// NewWithPosition creates a catalog error at a source position.
func NewWithPosition(code string, line, column int, data map[string]any) *LunaError {
	err := New(code, data)
	err.Line, err.Column = line, column
	return err
}

// Wrap creates a catalog error around cause, whose text is available to the
// message as {{.Err}}.
func Wrap(code string, cause error, data map[string]any) *LunaError {
	merged := make(map[string]any, len(data)+1)
	for k, v := range data {
		merged[k] = v
	}
	if cause != nil {
		merged["Err"] = cause.Error()
	}
	err := New(code, merged)
	err.Err = cause
	return err
}

// NewUnknownType reports an unknown type name, suggesting the closest
// of knownTypes when there is one.
func NewUnknownType(name string, line, column int, knownTypes []string) *LunaError {
	err := NewWithPosition("PARSE-0006", line, column, map[string]any{"Name": name})
	if suggestion := FindClosestMatch(name, knownTypes); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}
	return err
}
