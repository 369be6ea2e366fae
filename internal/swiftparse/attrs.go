package swiftparse

import (
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/token"
)

// parseAttribute consumes one `@name(...)` attribute. Only availability
// contributes to the model; everything else is skipped.
func (p *Parser) parseAttribute() sigmodel.Predicate {
	p.advance() // @
	if p.tok.Kind != token.Ident && !p.tok.Kind.IsKeyword() {
		diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
			"expected attribute name after '@'").Emit()
		return nil
	}
	name := p.tok.Text
	p.advance()
	if p.tok.Kind != token.LParen {
		return nil
	}
	if name == "available" {
		return p.parseAvailability()
	}
	p.skipBalanced(token.LParen, token.RParen)
	return nil
}

// parseAvailability reads both the shorthand form (`iOS 16.0, macOS
// 13.0, *`) and the extended form (`iOS, introduced: 16.0`). Clauses
// that do not gate a minimum version, like deprecations, contribute
// nothing.
func (p *Parser) parseAvailability() sigmodel.Predicate {
	p.advance() // (
	var atoms []sigmodel.Predicate
	pending := ""
	for p.tok.Kind != token.RParen && !p.tok.IsEOF() {
		switch p.tok.Kind {
		case token.Star:
			p.advance()
		case token.Ident:
			word := p.tok.Text
			p.advance()
			switch {
			case p.tok.Kind == token.Number:
				atoms = append(atoms, sigmodel.VersionAtom{Platform: word, Version: p.tok.Text})
				p.advance()
			case p.tok.Kind == token.Colon:
				p.advance()
				if word == "introduced" && p.tok.Kind == token.Number && pending != "" {
					atoms = append(atoms, sigmodel.VersionAtom{Platform: pending, Version: p.tok.Text})
				}
				p.skipClauseValue()
			default:
				switch word {
				case "deprecated", "unavailable", "noasync":
				default:
					pending = word
				}
			}
		default:
			diag.ReportWarning(p.reporter, diag.ParBadAvailability, p.tok.Span,
				"malformed availability clause").Emit()
			p.skipClauseValue()
		}
		if p.tok.Kind == token.Comma {
			p.advance()
		}
	}
	if p.expect(token.RParen, "availability attribute") {
		p.advance()
	}
	return conjoin(atoms)
}

func (p *Parser) skipClauseValue() {
	for !p.tok.IsEOF() {
		switch p.tok.Kind {
		case token.Comma, token.RParen:
			return
		case token.LParen:
			p.skipBalanced(token.LParen, token.RParen)
		case token.LBracket:
			p.skipBalanced(token.LBracket, token.RBracket)
		default:
			p.advance()
		}
	}
}

// pushCondition opens one #if region.
func (p *Parser) pushCondition() {
	p.advance() // #if
	cond := p.parseBuildExpr()
	frame := condFrame{current: cond}
	if cond != nil {
		frame.prior = append(frame.prior, cond)
	}
	p.frames = append(p.frames, frame)
}

// flipCondition handles #elseif and #else: the new branch holds only
// where every earlier branch of the chain failed.
func (p *Parser) flipCondition(isElse bool) {
	if len(p.frames) == 0 {
		diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
			p.tok.Kind.String()+" without matching #if").Emit()
		p.advance()
		return
	}
	p.advance()
	frame := &p.frames[len(p.frames)-1]

	var ops []sigmodel.Predicate
	for _, c := range frame.prior {
		ops = append(ops, sigmodel.Not{Op: c})
	}
	if !isElse {
		cond := p.parseBuildExpr()
		if cond != nil {
			frame.prior = append(frame.prior, cond)
			ops = append(ops, cond)
		}
	}
	frame.current = conjoin(ops)
}

func (p *Parser) popCondition() {
	if len(p.frames) == 0 {
		diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
			"#endif without matching #if").Emit()
		p.advance()
		return
	}
	p.frames = p.frames[:len(p.frames)-1]
	p.advance()
}

// activeCondition is the conjunction of every open #if region.
func (p *Parser) activeCondition() sigmodel.Predicate {
	var ops []sigmodel.Predicate
	for _, f := range p.frames {
		ops = append(ops, f.current)
	}
	return conjoin(ops)
}

// parseBuildExpr parses `os(...)` expressions with `&&`, `||`, `!` and
// parentheses. Conditions this engine cannot model, like canImport,
// are warned about and treated as always true.
func (p *Parser) parseBuildExpr() sigmodel.Predicate {
	left := p.parseBuildAnd()
	for p.tok.Kind == token.PipePipe {
		p.advance()
		left = disjoin(left, p.parseBuildAnd())
	}
	return left
}

func (p *Parser) parseBuildAnd() sigmodel.Predicate {
	left := p.parseBuildUnary()
	for p.tok.Kind == token.AmpAmp {
		p.advance()
		left = and2(left, p.parseBuildUnary())
	}
	return left
}

func (p *Parser) parseBuildUnary() sigmodel.Predicate {
	switch p.tok.Kind {
	case token.Bang:
		p.advance()
		op := p.parseBuildUnary()
		if op == nil {
			return nil
		}
		return sigmodel.Not{Op: op}
	case token.LParen:
		p.advance()
		inner := p.parseBuildExpr()
		if p.expect(token.RParen, "build condition") {
			p.advance()
		}
		return inner
	case token.Ident:
		name := p.tok.Text
		span := p.tok.Span
		p.advance()
		if p.tok.Kind != token.LParen {
			diag.ReportWarning(p.reporter, diag.ParBadBuildCondition, span,
				"bare build condition "+name+" is not modeled").Emit()
			return nil
		}
		if name != "os" {
			diag.ReportWarning(p.reporter, diag.ParBadBuildCondition, span,
				name+"(...) conditions are not modeled and treated as always true").Emit()
			p.skipBalanced(token.LParen, token.RParen)
			return nil
		}
		p.advance() // (
		if p.tok.Kind != token.Ident {
			diag.ReportError(p.reporter, diag.ParBadBuildCondition, p.tok.Span,
				"expected platform name in os(...)").Emit()
			p.skipClauseValue()
			if p.tok.Kind == token.RParen {
				p.advance()
			}
			return nil
		}
		platform := p.tok.Text
		p.advance()
		if p.expect(token.RParen, "os(...) condition") {
			p.advance()
		}
		return sigmodel.PlatformAtom{Platform: platform}
	}
	diag.ReportError(p.reporter, diag.ParBadBuildCondition, p.tok.Span,
		"malformed build condition").Emit()
	return nil
}

func conjoin(ops []sigmodel.Predicate) sigmodel.Predicate {
	var live []sigmodel.Predicate
	for _, op := range ops {
		if op == nil {
			continue
		}
		if all, ok := op.(sigmodel.All); ok {
			live = append(live, all.Ops...)
			continue
		}
		live = append(live, op)
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return sigmodel.All{Ops: live}
}

func and2(a, b sigmodel.Predicate) sigmodel.Predicate {
	return conjoin([]sigmodel.Predicate{a, b})
}

func disjoin(a, b sigmodel.Predicate) sigmodel.Predicate {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if anyOf, ok := a.(sigmodel.AnyOf); ok {
		ops := append([]sigmodel.Predicate{}, anyOf.Ops...)
		return sigmodel.AnyOf{Ops: append(ops, b)}
	}
	return sigmodel.AnyOf{Ops: []sigmodel.Predicate{a, b}}
}
