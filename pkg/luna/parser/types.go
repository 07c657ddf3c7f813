package parser

import (
	"strings"

	"github.com/sambeau/luna/pkg/luna/ast"
	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/evaluation"
	"github.com/sambeau/luna/pkg/luna/lexer"
)

// typeNames maps type keywords spelled as identifiers to their annotation.
// nil is a language keyword and is handled separately.
var typeNames = func() map[string]func() ast.TypeAnnotation {
	names := map[string]func() ast.TypeAnnotation{}
	for _, k := range ast.BuiltInKinds {
		names[k.Keyword()] = func() ast.TypeAnnotation { return ast.BuiltIn(k) }
	}
	for _, k := range ast.PrimitiveKinds {
		if k == ast.PrimitiveNil {
			continue
		}
		names[k.Keyword()] = func() ast.TypeAnnotation { return ast.Primitive(k) }
	}
	return names
}()

// typeOperators maps infix type tokens to their operator
var typeOperators = map[lexer.TokenType]ast.TypeOperator{
	lexer.PIPE:      ast.OpUnion,
	lexer.AMPERSAND: ast.OpIntersection,
}

// typePrecedence is the binding power of a type operator token
func typePrecedence(t lexer.TokenType) int {
	switch t {
	case lexer.PIPE:
		return int(evaluation.UnionType)
	case lexer.AMPERSAND:
		return int(evaluation.IntersectionType)
	case lexer.QUESTION:
		return int(evaluation.OptionalType)
	}
	return LOWEST
}

func (p *Parser) peekTypePrecedence() int {
	return typePrecedence(p.peekToken.Type)
}

// parseType parses a type annotation starting at curToken.
func (p *Parser) parseType(precedence int) ast.TypeAnnotation {
	left := p.parseTypePrefix()
	if left == nil {
		return nil
	}
	return p.parseTypeSuffix(left, precedence)
}

// parseTypeSuffix applies postfix `?` and infix `|` / `&` to left while
// they bind tighter than precedence.
func (p *Parser) parseTypeSuffix(left ast.TypeAnnotation, precedence int) ast.TypeAnnotation {
	for precedence < p.peekTypePrecedence() {
		p.nextToken()

		if p.curTokenIs(lexer.QUESTION) {
			left = ast.Optional(left)
			continue
		}

		op := typeOperators[p.curToken.Type]
		opPrecedence := typePrecedence(p.curToken.Type)
		p.nextToken()
		right := p.parseType(opPrecedence)
		if right == nil {
			return nil
		}
		left = ast.Combination(op, left, right)
	}
	return left
}

func (p *Parser) parseTypePrefix() ast.TypeAnnotation {
	tok := p.curToken
	switch tok.Type {
	case lexer.IDENT:
		if build, ok := typeNames[tok.Literal]; ok {
			return build()
		}
		p.addError(lerrors.NewUnknownType(tok.Literal, tok.Line, tok.Column, ast.TypeKeywords()))
		return nil
	case lexer.NIL:
		return ast.Primitive(ast.PrimitiveNil)
	case lexer.TRUE, lexer.FALSE:
		return ast.BooleanSingleton(tok.Type == lexer.TRUE)
	case lexer.STRING:
		return ast.StringSingleton(tok.Literal)
	case lexer.LBRACE:
		return p.parseTableType()
	case lexer.LPAREN:
		return p.parseParenthesizedType()
	case lexer.ILLEGAL:
		p.illegalTokenError(tok)
		return nil
	}
	p.addStructuredError("PARSE-0012", tok.Line, tok.Column, map[string]any{"Got": tokenLiteral(tok)})
	return nil
}

// parseTypeArguments parses `(a, name: b, ...)` starting at the opening
// parenthesis and ending on the closing one. ok is false after an error.
func (p *Parser) parseTypeArguments() (args []ast.TypeArgument, ok bool) {
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return nil, true
	}

	for {
		p.nextToken()

		var arg ast.TypeArgument
		if p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.COLON) {
			arg.Name = p.curToken.Literal
			p.nextToken()
			p.nextToken()
		}
		arg.Type = p.parseType(LOWEST)
		if arg.Type == nil {
			return nil, false
		}
		args = append(args, arg)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return args, true
}

// parseParenthesizedType parses either a function type `(args) -> R` or a
// single grouped type `(T)`.
func (p *Parser) parseParenthesizedType() ast.TypeAnnotation {
	open := p.curToken
	args, ok := p.parseTypeArguments()
	if !ok {
		return nil
	}

	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		return p.parseFunctionResults(args)
	}

	return p.groupedType(open, args)
}

// groupedType unwraps a parenthesised list that is not followed by `->`.
func (p *Parser) groupedType(open lexer.Token, list []ast.TypeArgument) ast.TypeAnnotation {
	for _, a := range list {
		if a.IsNamed() {
			p.addStructuredError("PARSE-0010", open.Line, open.Column, map[string]any{"Name": a.Name})
			return nil
		}
	}
	if len(list) != 1 {
		p.addStructuredError("PARSE-0013", open.Line, open.Column, map[string]any{"Types": joinArguments(list)})
		return nil
	}
	return list[0].Type
}

// parseFunctionResults parses what follows `->`. A parenthesised list is a
// result list unless it is itself followed by `->`; a single parenthesised
// type may continue with type operators.
func (p *Parser) parseFunctionResults(args []ast.TypeArgument) ast.TypeAnnotation {
	if !p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		result := p.parseType(LOWEST)
		if result == nil {
			return nil
		}
		return ast.Function(args, []ast.TypeAnnotation{result})
	}

	p.nextToken()
	open := p.curToken
	list, ok := p.parseTypeArguments()
	if !ok {
		return nil
	}

	if p.peekTokenIs(lexer.ARROW) {
		p.nextToken()
		inner := p.parseFunctionResults(list)
		if inner == nil {
			return nil
		}
		return ast.Function(args, []ast.TypeAnnotation{inner})
	}

	if len(list) == 1 && !list[0].IsNamed() {
		result := p.parseTypeSuffix(list[0].Type, LOWEST)
		if result == nil {
			return nil
		}
		return ast.Function(args, []ast.TypeAnnotation{result})
	}

	results := make([]ast.TypeAnnotation, len(list))
	for i, a := range list {
		if a.IsNamed() {
			p.addStructuredError("PARSE-0010", open.Line, open.Column, map[string]any{"Name": a.Name})
			return nil
		}
		results[i] = a.Type
	}
	return ast.Function(args, results)
}

// parseTableType parses `{ }`, `{ T }` and `{ name: T, [K]: V }`.
func (p *Parser) parseTableType() ast.TypeAnnotation {
	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return ast.Array(nil)
	}

	p.nextToken()
	if !p.curTokenIs(lexer.LBRACKET) && !(p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.COLON)) {
		element := p.parseType(LOWEST)
		if element == nil || !p.expectPeek(lexer.RBRACE) {
			return nil
		}
		return ast.Array(element)
	}

	table := &ast.TableType{}
	for {
		switch {
		case p.curTokenIs(lexer.LBRACKET):
			if table.Indexer != nil {
				p.addStructuredError("PARSE-0009", p.curToken.Line, p.curToken.Column, nil)
				return nil
			}
			indexer := p.parseTableIndexer()
			if indexer == nil {
				return nil
			}
			table.Indexer = indexer
		case p.curTokenIs(lexer.IDENT) && p.peekTokenIs(lexer.COLON):
			name := p.curToken.Literal
			p.nextToken()
			p.nextToken()
			t := p.parseType(LOWEST)
			if t == nil {
				return nil
			}
			table.Entries = append(table.Entries, ast.Entry(name, t))
		default:
			p.addStructuredError("PARSE-0001", p.curToken.Line, p.curToken.Column, map[string]any{
				"Expected": "a table field",
				"Got":      tokenLiteral(p.curToken),
			})
			return nil
		}

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(lexer.RBRACE) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return table
}

// parseTableIndexer parses `[K]: V` starting at the opening bracket.
func (p *Parser) parseTableIndexer() *ast.TableIndexer {
	p.nextToken()
	key := p.parseType(LOWEST)
	if key == nil || !p.expectPeek(lexer.RBRACKET) || !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	value := p.parseType(LOWEST)
	if value == nil {
		return nil
	}
	return ast.Indexer(key, value)
}

func joinArguments(args []ast.TypeArgument) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}
