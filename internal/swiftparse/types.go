package swiftparse

import (
	"strings"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/token"
)

// markerProtocols never carry erasure semantics; composition parsing
// drops them so `some View & Sendable` resolves like `some View`.
var markerProtocols = map[string]bool{
	"Sendable":  true,
	"Copyable":  true,
	"Escapable": true,
	"AnyObject": true,
}

// typeAttributesWithArgs lists the type attributes that carry a
// parenthesized argument list. For any other attribute a following
// '(' opens a function type, not arguments.
var typeAttributesWithArgs = map[string]bool{
	"available":  true,
	"convention": true,
	"isolated":   true,
}

// parseType parses one type expression into the closed model. Postfix
// `?` and `!` both map to Optional.
func (p *Parser) parseType() (sigmodel.TypeExpr, bool) {
	escaping := false
	for p.tok.Kind == token.At {
		p.advance()
		if p.tok.Kind != token.Ident && !p.tok.Kind.IsKeyword() {
			diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
				"expected attribute name after '@'").Emit()
			return nil, false
		}
		name := p.tok.Text
		if name == "escaping" {
			escaping = true
		}
		p.advance()
		if p.tok.Kind == token.LParen && typeAttributesWithArgs[name] {
			p.skipBalanced(token.LParen, token.RParen)
		}
	}
	if p.tok.Kind == token.KwInout {
		p.advance()
	}

	t, ok := p.parseTypeCore(escaping)
	if !ok {
		return nil, false
	}
	for p.tok.Kind == token.Question || p.tok.Kind == token.Bang {
		t = sigmodel.Optional{Inner: t}
		p.advance()
	}
	return t, true
}

func (p *Parser) parseTypeCore(escaping bool) (sigmodel.TypeExpr, bool) {
	switch p.tok.Kind {
	case token.KwSome, token.KwAny:
		kind := sigmodel.ExistentialSome
		if p.tok.Kind == token.KwAny {
			kind = sigmodel.ExistentialAny
		}
		p.advance()
		constraint, ok := p.parseConstraintName()
		if !ok {
			return nil, false
		}
		return sigmodel.Existential{Kind: kind, Constraint: sigmodel.Named{Path: constraint}}, true

	case token.LBracket:
		return p.parseBracketType()

	case token.LParen:
		return p.parseParenType(escaping)

	case token.Ident:
		return p.parseNominal()
	}

	diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
		"expected type, found "+p.tok.Kind.String()).Emit()
	return nil, false
}

// parseBracketType covers array and dictionary sugar. Dictionaries
// desugar to the nominal Dictionary application.
func (p *Parser) parseBracketType() (sigmodel.TypeExpr, bool) {
	p.advance() // [
	key, ok := p.parseType()
	if !ok {
		return nil, false
	}
	if p.tok.Kind == token.Colon {
		p.advance()
		value, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if !p.expect(token.RBracket, "dictionary type") {
			return nil, false
		}
		p.advance()
		return sigmodel.Named{Path: "Dictionary", Args: []sigmodel.TypeExpr{key, value}}, true
	}
	if !p.expect(token.RBracket, "array type") {
		return nil, false
	}
	p.advance()
	return sigmodel.Array{Inner: key}, true
}

// parseParenType disambiguates closure parameter lists from
// parenthesized types. Tuples are not modeled as payload.
func (p *Parser) parseParenType(escaping bool) (sigmodel.TypeExpr, bool) {
	p.advance() // (
	var elems []sigmodel.TypeExpr
	for p.tok.Kind != token.RParen && !p.tok.IsEOF() {
		// Closure parameter labels carry no meaning here.
		if isNameish(p.tok.Kind) && p.lx.Peek().Kind == token.Colon {
			p.advance()
			p.advance()
		}
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		elems = append(elems, elem)
		if p.tok.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	if !p.expect(token.RParen, "type") {
		return nil, false
	}
	p.advance()

	for p.tok.Kind == token.KwThrows || p.tok.Kind == token.KwRethrows ||
		(p.tok.Kind == token.Ident && p.tok.Text == "async") {
		p.advance()
	}
	if p.tok.Kind == token.Arrow {
		p.advance()
		ret, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if named, isNamed := ret.(sigmodel.Named); isNamed && named.Path == "Void" && len(named.Args) == 0 {
			ret = nil
		}
		return sigmodel.Closure{Params: elems, Returns: ret, Escaping: escaping}, true
	}

	switch len(elems) {
	case 0:
		return sigmodel.Named{Path: "Void"}, true
	case 1:
		return elems[0], true
	}
	diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.prev,
		"tuple types are not supported").Emit()
	return nil, false
}

func (p *Parser) parseNominal() (sigmodel.TypeExpr, bool) {
	path, ok := p.parseTypePath()
	if !ok {
		return nil, false
	}

	var args []sigmodel.TypeExpr
	if p.tok.Kind == token.LAngle {
		p.advance()
		for {
			arg, ok := p.parseType()
			if !ok {
				return nil, false
			}
			args = append(args, arg)
			if p.tok.Kind == token.Comma {
				p.advance()
				continue
			}
			break
		}
		if !p.expect(token.RAngle, "generic argument list") {
			return nil, false
		}
		p.advance()
	}

	if len(args) == 0 && p.generics[path] {
		return sigmodel.GenericRef{Name: path}, true
	}
	return sigmodel.Named{Path: path, Args: args}, true
}

func (p *Parser) parseTypePath() (string, bool) {
	if p.tok.Kind != token.Ident {
		diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
			"expected type name, found "+p.tok.Kind.String()).Emit()
		return "", false
	}
	path := p.tok.Text
	p.advance()
	for p.tok.Kind == token.Dot {
		p.advance()
		if p.tok.Kind != token.Ident && !p.tok.Kind.IsKeyword() {
			diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
				"expected name after '.'").Emit()
			return "", false
		}
		path += "." + p.tok.Text
		p.advance()
	}
	return path, true
}

// parseConstraintName reads one capability constraint as text. Generic
// arguments on the constraint are skipped; marker protocols drop out of
// compositions.
func (p *Parser) parseConstraintName() (string, bool) {
	first, ok := p.parseConstraintComponent()
	if !ok {
		return "", false
	}
	parts := []string{first}
	for p.tok.Kind == token.Amp {
		p.advance()
		next, ok := p.parseConstraintComponent()
		if !ok {
			return "", false
		}
		if !markerProtocols[next] {
			parts = append(parts, next)
		}
	}
	if len(parts) > 1 && markerProtocols[parts[0]] {
		parts = parts[1:]
	}
	return strings.Join(parts, " & "), true
}

func (p *Parser) parseConstraintComponent() (string, bool) {
	path, ok := p.parseTypePath()
	if !ok {
		return "", false
	}
	if p.tok.Kind == token.LAngle {
		p.skipBalanced(token.LAngle, token.RAngle)
	}
	return path, true
}
