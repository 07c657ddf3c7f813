package errors

import (
	"strings"
	"text/template"
)

// message is a catalog text, parsed once. Texts without placeholders are
// used as they are.
type message struct {
	text string
	tmpl *template.Template
}

func newMessage(text string) message {
	m := message{text: text}
	if strings.Contains(text, "{{") {
		m.tmpl = template.Must(template.New("").Option("missingkey=error").Parse(text))
	}
	return m
}

// render fills in the placeholders. A missing value leaves the text unrendered.
func (m message) render(data map[string]any) string {
	if m.tmpl == nil {
		return m.text
	}
	var sb strings.Builder
	if err := m.tmpl.Execute(&sb, data); err != nil {
		return m.text
	}
	return sb.String()
}

type catalogEntry struct {
	class   ErrorClass
	message message
	hints   []message
}

// definitions lists every catalog code with its message and hints.
var definitions = []struct {
	code  string
	text  string
	hints []string
}{
	{"PARSE-0001", "expected {{.Expected}}, got '{{.Got}}'", nil},
	{"PARSE-0002", "unexpected token '{{.Token}}'", nil},
	{"PARSE-0003", "unterminated string", []string{`close the string with a matching "`}},
	{"PARSE-0004", "invalid number literal: {{.Literal}}", nil},
	{"PARSE-0005", "illegal character '{{.Char}}'", nil},
	{"PARSE-0006", "unknown type '{{.Name}}'", nil},
	{"PARSE-0007", "'{{.Keyword}}' statements are not supported", []string{"only local declarations and expressions can be formatted"}},
	{"PARSE-0008", "template literals are not supported", nil},
	{"PARSE-0009", "table type has more than one indexer", []string{"merge the key types into a union: [K1 | K2]: V"}},
	{"PARSE-0010", "named argument '{{.Name}}' outside a function type", []string{"({{.Name}}: T) -> R"}},
	{"PARSE-0011", "unterminated template literal", nil},
	{"PARSE-0012", "expected a type, got '{{.Got}}'", nil},
	{"PARSE-0013", "a parenthesised type list needs '->'", []string{"({{.Types}}) -> R"}},

	{"IO-0001", "cannot read {{.Path}}: {{.Err}}", nil},
	{"IO-0002", "cannot write {{.Path}}: {{.Err}}", nil},
	{"IO-0003", "cannot walk {{.Path}}: {{.Err}}", nil},

	{"CACHE-0001", "cannot open cache {{.Path}}: {{.Err}}", nil},
	{"CACHE-0002", "unsupported cache driver '{{.Driver}}'", []string{"driver: sqlite", "driver: postgres", "driver: mysql"}},
	{"CACHE-0003", "corrupt cache entry {{.Key}}: {{.Err}}", []string{"luna cache clear"}},

	{"CONFIG-0001", "invalid configuration {{.Path}}: {{.Err}}", nil},
}

var catalog = func() map[string]*catalogEntry {
	m := make(map[string]*catalogEntry, len(definitions))
	for _, d := range definitions {
		e := &catalogEntry{class: classOf(d.code), message: newMessage(d.text)}
		for _, h := range d.hints {
			e.hints = append(e.hints, newMessage(h))
		}
		m[d.code] = e
	}
	return m
}()

// classOf derives the class from a code's prefix.
func classOf(code string) ErrorClass {
	prefix, _, _ := strings.Cut(code, "-")
	switch prefix {
	case "IO":
		return ClassIO
	case "CACHE":
		return ClassCache
	case "CONFIG":
		return ClassConfig
	}
	return ClassParse
}

// Codes returns every catalog code in definition order.
func Codes() []string {
	codes := make([]string, len(definitions))
	for i, d := range definitions {
		codes[i] = d.code
	}
	return codes
}
