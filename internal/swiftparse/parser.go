// Package swiftparse extracts overloaded operation signatures from
// interface files. It is an extraction parser, not a validator: members
// it cannot model are skipped with a warning and the rest of the file
// still parses.
package swiftparse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/lexer"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/token"
)

// Parser walks one file's token stream. Conditional-compilation frames
// stack with nesting; every extracted signature snapshots the active
// conjunction as its build condition.
type Parser struct {
	file     *source.File
	lx       *lexer.Lexer
	reporter diag.Reporter
	tok      token.Token
	prev     source.Span

	frames   []condFrame
	generics map[string]bool
}

// condFrame is one open #if region. prior holds every condition seen on
// the chain so far; #elseif and #else negate them.
type condFrame struct {
	current sigmodel.Predicate
	prior   []sigmodel.Predicate
}

// File extracts every function member of f, in declaration order.
func File(f *source.File, reporter diag.Reporter) []sigmodel.OperationSignature {
	p := &Parser{file: f, lx: lexer.New(f, reporter), reporter: reporter}
	p.tok = p.lx.Next()
	return p.parseFile()
}

// Groups buckets signatures by operation name, groups sorted by name
// and signatures kept in declaration order.
func Groups(sigs []sigmodel.OperationSignature) []sigmodel.OverloadGroup {
	byName := make(map[string]int)
	var out []sigmodel.OverloadGroup
	for _, sig := range sigs {
		at, ok := byName[sig.Name]
		if !ok {
			at = len(out)
			byName[sig.Name] = at
			out = append(out, sigmodel.OverloadGroup{Name: sig.Name})
		}
		out[at].Signatures = append(out[at].Signatures, sig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (p *Parser) parseFile() []sigmodel.OperationSignature {
	var sigs []sigmodel.OperationSignature
	for !p.tok.IsEOF() {
		switch p.tok.Kind {
		case token.HashIf:
			p.pushCondition()
		case token.HashElseif:
			p.flipCondition(false)
		case token.HashElse:
			p.flipCondition(true)
		case token.HashEndif:
			p.popCondition()
		case token.KwImport:
			p.skipImport()
		case token.KwExtension:
			p.enterExtension()
		case token.RBrace:
			p.advance()
		default:
			if sig, ok := p.parseMember(); ok {
				sigs = append(sigs, sig)
			}
		}
	}
	if len(p.frames) > 0 {
		diag.ReportError(p.reporter, diag.ParUnclosedDelimiter, p.prev,
			"#if without matching #endif").Emit()
	}
	return sigs
}

func (p *Parser) advance() {
	p.prev = p.tok.Span
	p.tok = p.lx.Next()
}

func (p *Parser) expect(kind token.Kind, context string) bool {
	if p.tok.Kind == kind {
		return true
	}
	diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
		fmt.Sprintf("expected %q in %s, found %q", kind.String(), context, p.tok.Kind.String())).Emit()
	return false
}

var modifierWords = map[string]bool{
	"open":         true,
	"internal":     true,
	"fileprivate":  true,
	"private":      true,
	"final":        true,
	"mutating":     true,
	"nonmutating":  true,
	"nonisolated":  true,
	"dynamic":      true,
	"optional":     true,
	"consuming":    true,
	"borrowing":    true,
	"unsafe":       true,
	"@discardable": true,
}

func (p *Parser) isModifier() bool {
	switch p.tok.Kind {
	case token.KwPublic, token.KwStatic:
		return true
	case token.Ident:
		return modifierWords[p.tok.Text]
	}
	return false
}

// parseMember consumes one declaration. Only function members become
// signatures; everything else is skipped with a warning.
func (p *Parser) parseMember() (sigmodel.OperationSignature, bool) {
	start := p.tok.Span
	doc := p.tok.Doc

	var avail sigmodel.Predicate
	for {
		if p.tok.Kind == token.At {
			avail = and2(avail, p.parseAttribute())
			continue
		}
		if p.isModifier() {
			p.advance()
			continue
		}
		break
	}

	switch p.tok.Kind {
	case token.KwFunc:
		return p.parseFunc(start, doc, avail)
	case token.KwExtension:
		p.enterExtension()
		return sigmodel.OperationSignature{}, false
	case token.KwImport:
		p.skipImport()
		return sigmodel.OperationSignature{}, false
	default:
		diag.ReportWarning(p.reporter, diag.ParSkippedMember, start,
			fmt.Sprintf("skipping %q declaration: only function members are extracted", p.tok.Kind.String())).Emit()
		p.advance()
		p.skipToMemberEnd()
		return sigmodel.OperationSignature{}, false
	}
}

func (p *Parser) parseFunc(start source.Span, doc string, avail sigmodel.Predicate) (sigmodel.OperationSignature, bool) {
	p.advance() // func
	if p.tok.Kind != token.Ident {
		diag.ReportWarning(p.reporter, diag.ParSkippedMember, p.tok.Span,
			"skipping operator declaration").Emit()
		p.advance()
		p.skipToMemberEnd()
		return sigmodel.OperationSignature{}, false
	}
	name := p.tok.Text
	p.advance()

	p.generics = nil
	var generics []sigmodel.GenericParameter
	if p.tok.Kind == token.LAngle {
		var ok bool
		if generics, ok = p.parseGenericClause(); !ok {
			return p.skipFunc(name, start)
		}
	}

	params, ok := p.parseParams(name)
	if !ok {
		return p.skipFunc(name, start)
	}

	for p.tok.Kind == token.KwThrows || p.tok.Kind == token.KwRethrows ||
		(p.tok.Kind == token.Ident && p.tok.Text == "async") {
		p.advance()
	}

	var ret sigmodel.TypeExpr
	if p.tok.Kind == token.Arrow {
		p.advance()
		if ret, ok = p.parseType(); !ok {
			return p.skipFunc(name, start)
		}
	}

	if p.tok.Kind == token.KwWhere {
		p.parseWhereClause(generics)
	}
	if p.tok.Kind == token.LBrace {
		p.skipBalanced(token.LBrace, token.RBrace)
	}

	return sigmodel.OperationSignature{
		Name:           name,
		Params:         params,
		Return:         ret,
		Generics:       generics,
		Availability:   avail,
		BuildCondition: p.activeCondition(),
		Doc:            doc,
		Span:           start.Cover(p.prev),
	}, true
}

func (p *Parser) skipFunc(name string, start source.Span) (sigmodel.OperationSignature, bool) {
	diag.ReportWarning(p.reporter, diag.ParSkippedMember, start,
		fmt.Sprintf("skipping %q: signature could not be modeled", name)).Emit()
	p.skipToMemberEnd()
	return sigmodel.OperationSignature{}, false
}

func (p *Parser) parseGenericClause() ([]sigmodel.GenericParameter, bool) {
	p.advance() // <
	p.generics = map[string]bool{}
	var out []sigmodel.GenericParameter
	for p.tok.Kind != token.RAngle {
		if p.tok.Kind != token.Ident {
			diag.ReportError(p.reporter, diag.ParBadGenericClause, p.tok.Span,
				"malformed generic parameter clause").Emit()
			return nil, false
		}
		g := sigmodel.GenericParameter{Name: p.tok.Text}
		p.advance()
		if p.tok.Kind == token.Colon {
			p.advance()
			constraint, ok := p.parseConstraintName()
			if !ok {
				return nil, false
			}
			g.Constraint = constraint
		}
		p.generics[g.Name] = true
		out = append(out, g)
		if p.tok.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	if !p.expect(token.RAngle, "generic parameter clause") {
		return nil, false
	}
	p.advance()
	return out, true
}

func (p *Parser) parseParams(name string) ([]sigmodel.Parameter, bool) {
	context := "parameter list of " + name
	if !p.expect(token.LParen, context) {
		return nil, false
	}
	p.advance()
	var out []sigmodel.Parameter
	for p.tok.Kind != token.RParen {
		if p.tok.IsEOF() {
			break
		}
		param, ok := p.parseParam()
		if !ok {
			return nil, false
		}
		out = append(out, param)
		if p.tok.Kind == token.Comma {
			p.advance()
			continue
		}
		break
	}
	if !p.expect(token.RParen, context) {
		return nil, false
	}
	p.advance()
	return out, true
}

func isNameish(k token.Kind) bool {
	return k == token.Ident || k == token.Underscore || k.IsKeyword()
}

func (p *Parser) parseParam() (sigmodel.Parameter, bool) {
	if !isNameish(p.tok.Kind) {
		diag.ReportError(p.reporter, diag.ParUnexpectedToken, p.tok.Span,
			fmt.Sprintf("expected parameter label, found %q", p.tok.Kind.String())).Emit()
		return sigmodel.Parameter{}, false
	}
	first := p.tok
	p.advance()

	label := first.Text
	if first.Kind == token.Underscore {
		label = ""
	}
	name := first.Text
	if isNameish(p.tok.Kind) {
		name = p.tok.Text
		p.advance()
	}

	if !p.expect(token.Colon, "parameter declaration") {
		return sigmodel.Parameter{}, false
	}
	p.advance()

	typ, ok := p.parseType()
	if !ok {
		return sigmodel.Parameter{}, false
	}
	if p.tok.Kind == token.Ellipsis {
		typ = sigmodel.Array{Inner: typ}
		p.advance()
	}

	param := sigmodel.Parameter{Label: label, Name: name, Type: typ}
	if p.tok.Kind == token.Equal {
		p.advance()
		param.HasDefault = true
		param.DefaultText = p.captureDefaultText()
	}
	return param, true
}

// captureDefaultText slices the raw default-value expression out of the
// source. The text is opaque: it travels to the emitter unparsed.
func (p *Parser) captureDefaultText() string {
	first := p.tok.Span
	start := first.Start
	end := start
	depth := 0
loop:
	for !p.tok.IsEOF() {
		switch p.tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				break loop
			}
			depth--
		case token.Comma:
			if depth == 0 {
				break loop
			}
		}
		end = p.tok.Span.End
		p.advance()
	}
	if depth > 0 {
		diag.ReportWarning(p.reporter, diag.ParBadDefaultValue, first,
			"unterminated default value expression").Emit()
	}
	text := strings.TrimSpace(string(p.file.Content[start:end]))
	if text == "" {
		diag.ReportWarning(p.reporter, diag.ParBadDefaultValue, first,
			"missing default value expression").Emit()
	}
	return text
}

// parseWhereClause folds `T: Constraint` requirements back into the
// declared generics. Same-type and member requirements are not modeled.
func (p *Parser) parseWhereClause(generics []sigmodel.GenericParameter) {
	p.advance() // where
	for {
		if p.tok.Kind != token.Ident {
			diag.ReportWarning(p.reporter, diag.ParBadGenericClause, p.tok.Span,
				"unmodeled where requirement").Emit()
			p.skipRequirement()
		} else {
			name := p.tok.Text
			p.advance()
			if p.tok.Kind == token.Colon {
				p.advance()
				constraint, ok := p.parseConstraintName()
				if ok {
					for i := range generics {
						if generics[i].Name == name && generics[i].Constraint == "" {
							generics[i].Constraint = constraint
						}
					}
				}
			} else {
				p.skipRequirement()
			}
		}
		if p.tok.Kind == token.Comma {
			p.advance()
			continue
		}
		return
	}
}

func (p *Parser) skipRequirement() {
	for !p.tok.IsEOF() {
		switch p.tok.Kind {
		case token.Comma, token.LBrace, token.RBrace,
			token.KwFunc, token.KwExtension, token.KwImport, token.KwPublic, token.KwStatic,
			token.KwVar, token.KwLet, token.At,
			token.HashIf, token.HashElseif, token.HashElse, token.HashEndif:
			return
		}
		p.advance()
	}
}

func (p *Parser) enterExtension() {
	p.advance() // extension
	if p.tok.Kind == token.Ident {
		p.advance()
		for p.tok.Kind == token.Dot {
			p.advance()
			if p.tok.Kind == token.Ident {
				p.advance()
			}
		}
	}
	// Constraints on the extension itself are not modeled.
	for !p.tok.IsEOF() && p.tok.Kind != token.LBrace {
		p.advance()
	}
	if p.expect(token.LBrace, "extension body") {
		p.advance()
	}
}

func (p *Parser) skipImport() {
	p.advance() // import
	if p.tok.Kind == token.Ident || p.tok.Kind.IsKeyword() {
		p.advance()
	}
	for p.tok.Kind == token.Dot {
		p.advance()
		if p.tok.Kind == token.Ident {
			p.advance()
		}
	}
}

// skipToMemberEnd drops tokens up to the next plausible member start.
// A brace block ends the member outright.
func (p *Parser) skipToMemberEnd() {
	for !p.tok.IsEOF() {
		switch p.tok.Kind {
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
			return
		case token.RBrace,
			token.KwFunc, token.KwExtension, token.KwImport, token.KwPublic, token.KwStatic,
			token.KwVar, token.KwLet, token.KwInit, token.KwTypealias, token.KwProtocol,
			token.KwAssociatedtype, token.At,
			token.HashIf, token.HashElseif, token.HashElse, token.HashEndif:
			return
		}
		p.advance()
	}
}

func (p *Parser) skipBalanced(open, close token.Kind) {
	start := p.tok.Span
	depth := 0
	for !p.tok.IsEOF() {
		switch p.tok.Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
	diag.ReportError(p.reporter, diag.ParUnclosedDelimiter, start,
		fmt.Sprintf("unclosed %q", open.String())).Emit()
}
