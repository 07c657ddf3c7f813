// Package parser builds Luna syntax trees from lexer tokens.
//
// Expressions are parsed with a Pratt parser whose binding powers come from
// the evaluation package, so that printing a parsed tree and parsing the
// printed text again yields the same tree.
package parser

import (
	"fmt"
	"strings"

	"github.com/sambeau/luna/pkg/luna/ast"
	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/evaluation"
	"github.com/sambeau/luna/pkg/luna/lexer"
)

// Precedence levels for operators
const (
	LOWEST = 0
	PREFIX = int(evaluation.Unary) // -X, #X, not X
)

// binaryOperators maps infix tokens to the operator they build
var binaryOperators = map[lexer.TokenType]ast.BinaryOperator{
	lexer.PLUS:     ast.OpAdd,
	lexer.MINUS:    ast.OpSubtract,
	lexer.ASTERISK: ast.OpMultiply,
	lexer.SLASH:    ast.OpDivide,
	lexer.PERCENT:  ast.OpModulo,
	lexer.CARET:    ast.OpPower,
	lexer.AND:      ast.OpAnd,
	lexer.OR:       ast.OpOr,
	lexer.EQ:       ast.OpEqual,
	lexer.NOT_EQ:   ast.OpNotEqual,
	lexer.LT:       ast.OpLessThan,
	lexer.GT:       ast.OpGreaterThan,
	lexer.LTE:      ast.OpLessThanOrEqual,
	lexer.GTE:      ast.OpGreaterThanOrEqual,
}

// unaryOperators maps prefix tokens to the operator they build
var unaryOperators = map[lexer.TokenType]ast.UnaryOperator{
	lexer.MINUS: ast.OpNegate,
	lexer.HASH:  ast.OpLength,
	lexer.NOT:   ast.OpNot,
}

// unsupportedStatements are keywords that start statements Luna cannot format yet
var unsupportedStatements = map[lexer.TokenType]bool{
	lexer.IF:       true,
	lexer.ELSE:     true,
	lexer.WHILE:    true,
	lexer.FOR:      true,
	lexer.IN:       true,
	lexer.BREAK:    true,
	lexer.CONTINUE: true,
	lexer.RETURN:   true,
	lexer.FUNCTION: true,
}

// Parser represents the parser
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*lerrors.LunaError

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TEMPLATE, p.parseTemplateLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.NIL, p.parseNil)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	for tok := range unaryOperators {
		p.registerPrefix(tok, p.parsePrefixExpression)
	}

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for tok := range binaryOperators {
		p.registerInfix(tok, p.parseInfixExpression)
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns parser errors as strings (convenience method for tests).
// Prefer StructuredErrors() for production code.
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		if err.Line > 0 {
			result[i] = fmt.Sprintf("line %d, column %d: %s", err.Line, err.Column, err.Message)
		} else {
			result[i] = err.Message
		}
	}
	return result
}

// StructuredErrors returns parser errors as structured LunaError objects.
func (p *Parser) StructuredErrors() []*lerrors.LunaError {
	return p.structuredErrors
}

func (p *Parser) failed() bool {
	return len(p.structuredErrors) > 0
}

// addError records a structured error.
// Only the first error is recorded - subsequent errors are usually cascading noise.
func (p *Parser) addError(err *lerrors.LunaError) {
	if p.failed() {
		return
	}
	if name := p.l.Filename(); name != "" && name != "<input>" {
		err = err.WithFile(name)
	}
	p.structuredErrors = append(p.structuredErrors, err)
}

// addStructuredError adds a structured error from the catalog.
func (p *Parser) addStructuredError(code string, line, column int, data map[string]any) {
	p.addError(lerrors.NewWithPosition(code, line, column, data))
}

// registerPrefix registers a prefix parse function
func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers an infix parse function
func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances prevToken, curToken, and peekToken
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseChunk parses a whole source file.
// Parsing stops at the first error.
func (p *Parser) ParseChunk() *ast.Chunk {
	chunk := &ast.Chunk{}

	for !p.curTokenIs(lexer.EOF) && !p.failed() {
		stmt := p.parseStatement()
		if stmt != nil && !p.failed() {
			chunk.Statements = append(chunk.Statements, stmt)
		}
		p.nextToken()
	}

	return chunk
}

// ParseExpression parses input holding exactly one expression.
func (p *Parser) ParseExpression() ast.Expression {
	exp := p.parseExpression(LOWEST)
	p.expectEnd()
	if p.failed() {
		return nil
	}
	return exp
}

// ParseType parses input holding exactly one type annotation.
func (p *Parser) ParseType() ast.TypeAnnotation {
	t := p.parseType(LOWEST)
	p.expectEnd()
	if p.failed() {
		return nil
	}
	return t
}

func (p *Parser) expectEnd() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	if !p.peekTokenIs(lexer.EOF) {
		p.unexpectedToken(p.peekToken)
	}
}

// parseStatement parses statements
func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.curTokenIs(lexer.SEMICOLON):
		return nil
	case p.curTokenIs(lexer.LOCAL):
		return p.parseLocalAssign()
	case unsupportedStatements[p.curToken.Type]:
		p.addStructuredError("PARSE-0007", p.curToken.Line, p.curToken.Column,
			map[string]any{"Keyword": p.curToken.Literal})
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseLocalAssign parses `local a: T, b = x, y`
func (p *Parser) parseLocalAssign() ast.Statement {
	stmt := &ast.LocalAssign{}

	for {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		binding := ast.Declared(p.curToken.Literal)

		if p.peekTokenIs(lexer.COLON) {
			p.nextToken()
			p.nextToken()
			binding.Annotation = p.parseType(LOWEST)
			if binding.Annotation == nil {
				return nil
			}
		}
		stmt.Bindings = append(stmt.Bindings, binding)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Values = p.parseExpressionList()
		if stmt.Values == nil {
			return nil
		}
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ExpressionStatement{Expression: exp}
}

// parseExpressionList parses one or more comma separated expressions
func (p *Parser) parseExpressionList() []ast.Expression {
	var list []ast.Expression
	for {
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil
		}
		list = append(list, exp)

		if !p.peekTokenIs(lexer.COMMA) {
			return list
		}
		p.nextToken()
		p.nextToken()
	}
}

// parseExpression parses expressions using Pratt parsing
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}

	leftExp := prefix()

	for leftExp != nil && !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return ast.Name(p.curToken.Literal)
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return ast.Number(p.curToken.Literal)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return ast.String(p.curToken.Literal)
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	p.addStructuredError("PARSE-0008", p.curToken.Line, p.curToken.Column, nil)
	return nil
}

func (p *Parser) parseBoolean() ast.Expression {
	return ast.Bool(p.curTokenIs(lexer.TRUE))
}

func (p *Parser) parseNil() ast.Expression {
	return ast.Nil()
}

// parsePrefixExpression parses a unary operator; its operand binds at the
// unary level, so `-x ^ 2` is `(-x) ^ 2`.
func (p *Parser) parsePrefixExpression() ast.Expression {
	op := unaryOperators[p.curToken.Type]

	p.nextToken()

	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.UnaryOperation{Operator: op, Operand: operand}
}

// parseInfixExpression parses the right operand of a binary operator.
// Right-associative operators parse their right side one level lower so
// that `a ^ b ^ c` groups as `a ^ (b ^ c)`.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	op := binaryOperators[p.curToken.Type]

	precedence := p.curPrecedence()
	if rules := evaluation.BinaryRules(op); rules.IsRightAssociative() && !rules.IsLeftAssociative() {
		precedence--
	}
	p.nextToken()

	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.BinaryOperation{Operator: op, Left: left, Right: right}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return exp
}

// Helper functions
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	if p.peekTokenIs(lexer.ILLEGAL) {
		p.illegalTokenError(p.peekToken)
		return
	}

	// Report error at the position after the last successfully parsed token (curToken)
	line := p.curToken.Line
	column := p.curToken.Column + len(p.curToken.Literal)

	p.addStructuredError("PARSE-0001", line, column, map[string]any{
		"Expected": tokenTypeToReadableName(t),
		"Got":      tokenLiteral(p.peekToken),
	})
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		p.illegalTokenError(tok)
		return
	}
	p.unexpectedToken(tok)
}

func (p *Parser) unexpectedToken(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		p.illegalTokenError(tok)
		return
	}
	p.addStructuredError("PARSE-0002", tok.Line, tok.Column, map[string]any{"Token": tokenLiteral(tok)})
}

// illegalTokenError turns the lexer's ILLEGAL tokens into catalog errors
func (p *Parser) illegalTokenError(tok lexer.Token) {
	switch {
	case tok.Literal == "unterminated string":
		p.addStructuredError("PARSE-0003", tok.Line, tok.Column, nil)
	case tok.Literal == "unterminated template":
		p.addStructuredError("PARSE-0011", tok.Line, tok.Column, nil)
	case tok.Literal != "" && tok.Literal[0] >= '0' && tok.Literal[0] <= '9':
		p.addStructuredError("PARSE-0004", tok.Line, tok.Column, map[string]any{"Literal": tok.Literal})
	default:
		p.addStructuredError("PARSE-0005", tok.Line, tok.Column, map[string]any{"Char": tok.Literal})
	}
}

func (p *Parser) peekPrecedence() int {
	if op, ok := binaryOperators[p.peekToken.Type]; ok {
		return int(evaluation.BinaryRules(op).Precedence)
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if op, ok := binaryOperators[p.curToken.Type]; ok {
		return int(evaluation.BinaryRules(op).Precedence)
	}
	return LOWEST
}

// tokenLiteral is the text shown for a token in error messages
func tokenLiteral(tok lexer.Token) string {
	if tok.Literal == "" {
		return tokenTypeToReadableName(tok.Type)
	}
	return tok.Literal
}

// tokenTypeToReadableName converts token types to user-friendly names
func tokenTypeToReadableName(t lexer.TokenType) string {
	switch t {
	case lexer.EOF:
		return "end of input"
	case lexer.IDENT:
		return "identifier"
	case lexer.NUMBER:
		return "number"
	case lexer.STRING:
		return "string"
	case lexer.ASSIGN:
		return "'='"
	case lexer.COLON:
		return "':'"
	case lexer.COMMA:
		return "','"
	case lexer.ARROW:
		return "'->'"
	case lexer.LPAREN:
		return "'('"
	case lexer.RPAREN:
		return "')'"
	case lexer.LBRACE:
		return "'{'"
	case lexer.RBRACE:
		return "'}'"
	case lexer.LBRACKET:
		return "'['"
	case lexer.RBRACKET:
		return "']'"
	}
	return strings.ToLower(t.String())
}
