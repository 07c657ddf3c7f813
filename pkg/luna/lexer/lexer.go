package lexer

import (
	"fmt"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers and literals
	IDENT    // add, foobar, x, y, ...
	NUMBER   // 1343456, 3.14, .5, 1e10, 0xFF, 0b1010
	STRING   // "foobar"
	TEMPLATE // `template`

	// Operators
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	ASTERISK  // *
	SLASH     // /
	PERCENT   // %
	CARET     // ^
	HASH      // #
	EQ        // ==
	NOT_EQ    // ~=
	LT        // <
	GT        // >
	LTE       // <=
	GTE       // >=
	PIPE      // |
	AMPERSAND // &
	QUESTION  // ?
	ARROW     // ->

	// Delimiters
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	DOT       // .
	ELLIPSIS  // ...
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]

	// Keywords
	IF       // "if"
	ELSE     // "else"
	WHILE    // "while"
	FOR      // "for"
	IN       // "in"
	BREAK    // "break"
	CONTINUE // "continue"
	RETURN   // "return"
	FUNCTION // "function"
	LOCAL    // "local"
	NIL      // "nil"
	TRUE     // "true"
	FALSE    // "false"
	AND      // "and"
	OR       // "or"
	NOT      // "not"
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

var tokenNames = map[TokenType]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	TEMPLATE:  "TEMPLATE",
	ASSIGN:    "ASSIGN",
	PLUS:      "PLUS",
	MINUS:     "MINUS",
	ASTERISK:  "ASTERISK",
	SLASH:     "SLASH",
	PERCENT:   "PERCENT",
	CARET:     "CARET",
	HASH:      "HASH",
	EQ:        "EQ",
	NOT_EQ:    "NOT_EQ",
	LT:        "LT",
	GT:        "GT",
	LTE:       "LTE",
	GTE:       "GTE",
	PIPE:      "PIPE",
	AMPERSAND: "AMPERSAND",
	QUESTION:  "QUESTION",
	ARROW:     "ARROW",
	COMMA:     "COMMA",
	SEMICOLON: "SEMICOLON",
	COLON:     "COLON",
	DOT:       "DOT",
	ELLIPSIS:  "ELLIPSIS",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	LBRACE:    "LBRACE",
	RBRACE:    "RBRACE",
	LBRACKET:  "LBRACKET",
	RBRACKET:  "RBRACKET",
	IF:        "IF",
	ELSE:      "ELSE",
	WHILE:     "WHILE",
	FOR:       "FOR",
	IN:        "IN",
	BREAK:     "BREAK",
	CONTINUE:  "CONTINUE",
	RETURN:    "RETURN",
	FUNCTION:  "FUNCTION",
	LOCAL:     "LOCAL",
	NIL:       "NIL",
	TRUE:      "TRUE",
	FALSE:     "FALSE",
	AND:       "AND",
	OR:        "OR",
	NOT:       "NOT",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"function": FUNCTION,
	"local":    LOCAL,
	"nil":      NIL,
	"true":     TRUE,
	"false":    FALSE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns every reserved word in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Lexer represents the lexical analyzer
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chRune       rune // current character as a rune
	chSize       int  // byte size of current character
	line         int
	column       int
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "<input>")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    input,
		line:     1,
		column:   0,
	}
	l.readChar()
	return l
}

// Filename returns the name the lexer reports in positions.
func (l *Lexer) Filename() string {
	return l.filename
}

// readChar reads the next character and advances position.
// ASCII takes a fast path; anything else is decoded as UTF-8.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents EOF
		l.chRune = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}

	b := l.input[l.readPosition]

	if b < utf8.RuneSelf {
		l.ch = b
		l.chRune = rune(b)
		l.chSize = 1
		l.position = l.readPosition
		l.readPosition++

		if l.ch == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = b
	l.chRune = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	return l.peekCharN(1)
}

// peekCharN returns the character n positions ahead without advancing position
func (l *Lexer) peekCharN(n int) byte {
	pos := l.readPosition + n - 1
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()
	line, col := l.line, l.column

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: EQ, Literal: "==", Line: line, Column: col}
		} else {
			tok = newToken(ASSIGN, l.ch, line, col)
		}
	case '~':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: "~=", Line: line, Column: col}
		} else {
			tok = newToken(ILLEGAL, l.ch, line, col)
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: LTE, Literal: "<=", Line: line, Column: col}
		} else {
			tok = newToken(LT, l.ch, line, col)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: GTE, Literal: ">=", Line: line, Column: col}
		} else {
			tok = newToken(GT, l.ch, line, col)
		}
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok = Token{Type: ARROW, Literal: "->", Line: line, Column: col}
		} else {
			tok = newToken(MINUS, l.ch, line, col)
		}
	case '+':
		tok = newToken(PLUS, l.ch, line, col)
	case '*':
		tok = newToken(ASTERISK, l.ch, line, col)
	case '/':
		tok = newToken(SLASH, l.ch, line, col)
	case '%':
		tok = newToken(PERCENT, l.ch, line, col)
	case '^':
		tok = newToken(CARET, l.ch, line, col)
	case '#':
		tok = newToken(HASH, l.ch, line, col)
	case '|':
		tok = newToken(PIPE, l.ch, line, col)
	case '&':
		tok = newToken(AMPERSAND, l.ch, line, col)
	case '?':
		tok = newToken(QUESTION, l.ch, line, col)
	case ',':
		tok = newToken(COMMA, l.ch, line, col)
	case ';':
		tok = newToken(SEMICOLON, l.ch, line, col)
	case ':':
		tok = newToken(COLON, l.ch, line, col)
	case '(':
		tok = newToken(LPAREN, l.ch, line, col)
	case ')':
		tok = newToken(RPAREN, l.ch, line, col)
	case '{':
		tok = newToken(LBRACE, l.ch, line, col)
	case '}':
		tok = newToken(RBRACE, l.ch, line, col)
	case '[':
		tok = newToken(LBRACKET, l.ch, line, col)
	case ']':
		tok = newToken(RBRACKET, l.ch, line, col)
	case '.':
		if isDigit(l.peekChar()) {
			return Token{Type: NUMBER, Literal: l.readNumber(), Line: line, Column: col}
		}
		if l.peekChar() == '.' && l.peekCharN(2) == '.' {
			l.readChar()
			l.readChar()
			tok = Token{Type: ELLIPSIS, Literal: "...", Line: line, Column: col}
		} else {
			tok = newToken(DOT, l.ch, line, col)
		}
	case '"':
		str, terminated := l.readString()
		if !terminated {
			return Token{Type: ILLEGAL, Literal: "unterminated string", Line: line, Column: col}
		}
		tok = Token{Type: STRING, Literal: str, Line: line, Column: col}
	case '`':
		str, terminated := l.readTemplate()
		if !terminated {
			return Token{Type: ILLEGAL, Literal: "unterminated template", Line: line, Column: col}
		}
		tok = Token{Type: TEMPLATE, Literal: str, Line: line, Column: col}
	case 0:
		return Token{Type: EOF, Literal: "", Line: line, Column: col}
	default:
		if isLetterRune(l.chRune) {
			ident := norm.NFC.String(l.readIdentifier())
			return Token{Type: LookupIdent(ident), Literal: ident, Line: line, Column: col}
		} else if isDigit(l.ch) {
			number, ok := l.readNumberLiteral()
			if !ok {
				return Token{Type: ILLEGAL, Literal: number, Line: line, Column: col}
			}
			return Token{Type: NUMBER, Literal: number, Line: line, Column: col}
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.chRune), Line: line, Column: col}
	}

	l.readChar()
	return tok
}

// Tokens returns every token up to and including EOF.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

// newToken creates a new token with the given parameters
func newToken(tokenType TokenType, ch byte, line, column int) Token {
	return Token{Type: tokenType, Literal: string(ch), Line: line, Column: column}
}

// readIdentifier reads an identifier or keyword.
// Unicode letters are accepted; the caller normalises the result to NFC.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetterRune(l.chRune) || isDigit(l.ch) || isMark(l.chRune) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumberLiteral reads a number starting with a digit. Hexadecimal and
// binary literals need at least one digit after their prefix.
func (l *Lexer) readNumberLiteral() (string, bool) {
	if l.ch == '0' {
		if prefix := l.radixPrefix(); prefix != 0 {
			return l.readRadixNumber(prefix)
		}
	}
	return l.readNumber(), true
}

// radixPrefix reports 'x' or 'b' when the input continues `0_*[xXbB]`.
func (l *Lexer) radixPrefix() byte {
	n := 1
	for l.peekCharN(n) == '_' {
		n++
	}
	switch l.peekCharN(n) {
	case 'x', 'X':
		return 'x'
	case 'b', 'B':
		return 'b'
	}
	return 0
}

func (l *Lexer) readRadixNumber(prefix byte) (string, bool) {
	position := l.position
	l.readChar() // consume '0'
	for l.ch == '_' {
		l.readChar()
	}
	l.readChar() // consume x or b

	valid := isHexDigit
	if prefix == 'b' {
		valid = isBinaryDigit
	}

	digits := 0
	for l.ch == '_' || valid(l.ch) {
		if l.ch != '_' {
			digits++
		}
		l.readChar()
	}
	return l.input[position:l.position], digits > 0
}

// readNumber reads integer, decimal, float and scientific forms, keeping
// the literal text as written.
func (l *Lexer) readNumber() string {
	position := l.position
	if isDigit(l.ch) {
		l.readDigits()
	}

	if l.ch == '.' && l.peekChar() != '.' {
		l.readChar() // consume the '.'
		l.readDigits()
	}

	if (l.ch == 'e' || l.ch == 'E') && l.exponentAhead() {
		l.readChar() // consume e
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		l.readDigits()
	}

	return l.input[position:l.position]
}

func (l *Lexer) readDigits() {
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
}

// exponentAhead reports whether the current 'e' starts `[eE][-+]?[_\d]*\d`.
func (l *Lexer) exponentAhead() bool {
	n := 1
	if c := l.peekCharN(n); c == '+' || c == '-' {
		n++
	}
	digits := false
	for {
		c := l.peekCharN(n)
		if isDigit(c) {
			digits = true
		} else if c != '_' {
			return digits
		}
		n++
	}
}

// readString reads a string literal with escape sequence support.
// Returns the string content and whether it was terminated properly.
// Strings may span lines.
func (l *Lexer) readString() (string, bool) {
	var result []byte
	l.readChar() // skip opening quote

	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar() // consume backslash
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
				result = l.appendDecimalEscape(result)
			case '\\':
				result = append(result, '\\')
			case '"':
				result = append(result, '"')
			case 0:
				return string(result), false
			default:
				// Unknown escape, keep as-is
				result = append(result, '\\')
				result = l.appendCurrentChar(result)
			}
		} else {
			result = l.appendCurrentChar(result)
		}
		l.readChar()
	}

	terminated := l.ch == '"'
	return string(result), terminated
}

// appendDecimalEscape decodes \d, \dd or \ddd as a single byte. Values
// above 255 are kept as written.
func (l *Lexer) appendDecimalEscape(result []byte) []byte {
	start := l.position
	value := int(l.ch - '0')
	for i := 1; i < 3 && isDigit(l.peekChar()); i++ {
		l.readChar()
		value = value*10 + int(l.ch-'0')
	}
	if value > 255 {
		result = append(result, '\\')
		return append(result, l.input[start:l.position+1]...)
	}
	return append(result, byte(value))
}

// readTemplate reads a template literal (backtick string)
func (l *Lexer) readTemplate() (string, bool) {
	var result []byte
	l.readChar() // skip opening backtick

	for l.ch != '`' && l.ch != 0 {
		if l.ch == '\\' && l.peekChar() == '`' {
			l.readChar()
			result = append(result, '`')
		} else {
			result = l.appendCurrentChar(result)
		}
		l.readChar()
	}

	return string(result), l.ch == '`'
}

// appendCurrentChar appends the current character (all bytes for multi-byte UTF-8) to the given slice.
func (l *Lexer) appendCurrentChar(result []byte) []byte {
	if l.chSize <= 1 {
		return append(result, l.ch)
	}
	return append(result, l.input[l.position:l.position+l.chSize]...)
}

// skipWhitespace skips spaces, tabs, carriage returns and newlines.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// isLetterRune checks if a rune is a valid identifier character (letter or underscore).
func isLetterRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isMark accepts combining marks inside identifiers so decomposed input
// survives until NFC normalisation.
func isMark(r rune) bool {
	return r >= utf8.RuneSelf && unicode.Is(unicode.M, r)
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isBinaryDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}
