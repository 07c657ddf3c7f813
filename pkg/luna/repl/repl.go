// Package repl is an interactive shell that formats each input as it is entered.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/luna/pkg/luna/ast"
	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/format"
	"github.com/sambeau/luna/pkg/luna/lexer"
	"github.com/sambeau/luna/pkg/luna/parser"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const LOGO = `
█░░ █░█ █▄░█ ▄▀█
█▄▄ █▄█ █░▀█ █▀█ `

// commands are the REPL meta-commands offered for completion
var commands = []string{":help", ":settings", ":indent", ":spacing", ":ast"}

// completionWords are keywords and type names, sorted and without duplicates
var completionWords = func() []string {
	seen := map[string]bool{}
	var words []string
	for _, w := range append(lexer.Keywords(), ast.TypeKeywords()...) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}()

// Session holds the state the REPL keeps between inputs.
type Session struct {
	Settings format.Settings
	ShowAST  bool
}

// NewSession creates a session with the given settings.
func NewSession(settings format.Settings) *Session {
	return &Session{Settings: settings}
}

// Start starts the REPL with line editing, history, and tab completion
func Start(out io.Writer, settings format.Settings, version string) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	line.SetCompleter(func(line string) []string {
		return filterCompletions(line)
	})

	// Load command history from file
	historyFile := filepath.Join(os.TempDir(), ".luna_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Use Tab for completion, ↑↓ for history")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	session := NewSession(settings)
	var inputBuffer strings.Builder

	for {
		currentPrompt := PROMPT
		if inputBuffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if inputBuffer.Len() > 0 {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				inputBuffer.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)

		// Commands are only recognised at the main prompt
		if inputBuffer.Len() == 0 {
			if trimmed == "exit" || trimmed == "quit" {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			if strings.HasPrefix(trimmed, ":") {
				session.Command(trimmed, out)
				continue
			}
			if trimmed == "" {
				continue
			}
		}

		if inputBuffer.Len() > 0 {
			inputBuffer.WriteString("\n")
		}
		inputBuffer.WriteString(input)

		fullInput := inputBuffer.String()
		if needsMoreInput(fullInput) {
			continue
		}

		line.AppendHistory(fullInput)
		session.Format(fullInput, out)
		inputBuffer.Reset()
	}
}

// Format parses input and writes it back formatted, or writes its errors.
func (s *Session) Format(input string, out io.Writer) {
	p := parser.New(lexer.New(input))
	chunk := p.ParseChunk()

	if errs := p.StructuredErrors(); len(errs) != 0 {
		printStructuredErrors(out, errs)
		return
	}

	if s.ShowAST {
		for _, stmt := range chunk.Statements {
			fmt.Fprintf(out, "; %s\n", stmt)
		}
	}
	io.WriteString(out, format.FormatChunk(chunk, s.Settings))
}

// Command handles REPL meta-commands that start with ':'
func (s *Session) Command(cmd string, out io.Writer) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?              Show this help")
		fmt.Fprintln(out, "  :settings                  Show the formatting settings")
		fmt.Fprintln(out, "  :indent none               Turn indentation off")
		fmt.Fprintln(out, "  :indent spaces|tabs N      Indent with N spaces or tabs")
		fmt.Fprintln(out, "  :spacing <operator> on|off Space an operator or not")
		fmt.Fprintln(out, "  :ast                       Toggle printing the syntax tree")
		fmt.Fprintln(out, "  exit, quit                 Exit the REPL")

	case ":settings":
		s.printSettings(out)

	case ":indent":
		s.indent(fields[1:], out)

	case ":spacing":
		s.spacing(fields[1:], out)

	case ":ast":
		s.ShowAST = !s.ShowAST
		if s.ShowAST {
			fmt.Fprintln(out, "Syntax tree output ON")
		} else {
			fmt.Fprintln(out, "Syntax tree output OFF")
		}

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", fields[0])
		if suggestion := lerrors.FindClosestMatch(fields[0], commands); suggestion != "" {
			fmt.Fprintf(out, "Did you mean %s?\n", suggestion)
		}
	}
}

func (s *Session) printSettings(out io.Writer) {
	fmt.Fprintf(out, "  indentation: %s\n", s.Settings.Indentation)
	for _, name := range s.Settings.OperatorSpacing.Names() {
		on, _ := s.Settings.OperatorSpacing.Get(name)
		fmt.Fprintf(out, "  %-22s %s\n", name+":", onOff(on))
	}
}

func (s *Session) indent(args []string, out io.Writer) {
	if len(args) == 0 {
		fmt.Fprintln(out, "Usage: :indent none | spaces N | tabs N")
		return
	}

	mode, err := format.ParseIndentationMode(args[0])
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}

	width := 0
	if mode != format.IndentNone {
		if len(args) < 2 {
			fmt.Fprintf(out, "Usage: :indent %s N\n", mode)
			return
		}
		width, err = strconv.Atoi(args[1])
		if err != nil || width < 0 {
			fmt.Fprintf(out, "Invalid width: %s\n", args[1])
			return
		}
	}

	s.Settings.Indentation = format.Indentation{Mode: mode, Width: width}
	fmt.Fprintf(out, "Indentation set to %s\n", s.Settings.Indentation)
}

func (s *Session) spacing(args []string, out io.Writer) {
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		fmt.Fprintln(out, "Usage: :spacing <operator> on|off")
		return
	}

	name, on := args[0], args[1] == "on"
	if err := s.Settings.OperatorSpacing.Set(name, on); err != nil {
		fmt.Fprintln(out, err)
		if suggestion := lerrors.FindClosestMatch(name, s.Settings.OperatorSpacing.Names()); suggestion != "" {
			fmt.Fprintf(out, "Did you mean %s?\n", suggestion)
		}
		return
	}
	fmt.Fprintf(out, "Spacing for %s is %s\n", name, onOff(on))
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string) []string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	if strings.HasPrefix(trimmed, ":") && !strings.ContainsAny(trimmed, " \t") {
		var matches []string
		for _, c := range commands {
			if strings.HasPrefix(c, trimmed) {
				matches = append(matches, c)
			}
		}
		return matches
	}

	// Complete the last word, keeping everything before it
	start := strings.LastIndexAny(line, " \t(){}[],:|&?") + 1
	prefix, lastWord := line[:start], line[start:]
	if lastWord == "" {
		return nil
	}

	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has unclosed braces, brackets or parentheses
func needsMoreInput(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	braceCount := 0
	bracketCount := 0
	parenCount := 0
	inString := false
	escapeNext := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		if inString && ch == '\\' {
			escapeNext = true
			continue
		}

		// Track string state to ignore brackets inside strings
		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		switch ch {
		case '{':
			braceCount++
		case '}':
			braceCount--
		case '[':
			bracketCount++
		case ']':
			bracketCount--
		case '(':
			parenCount++
		case ')':
			parenCount--
		}
	}

	// Need more input if any are unclosed
	return inString || braceCount > 0 || bracketCount > 0 || parenCount > 0
}

// printStructuredErrors prints parser errors using structured error format
func printStructuredErrors(out io.Writer, errs []*lerrors.LunaError) {
	for _, err := range errs {
		io.WriteString(out, err.PrettyString())
		io.WriteString(out, "\n")
	}
}
