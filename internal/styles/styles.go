// Package styles discovers the concrete style constants an interface
// set declares for union-requiring style protocols. The erasure table
// consumes the discoveries: a wrapper union may only be referenced when
// at least one instance exists.
package styles

import (
	"sort"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/lexer"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/token"
)

// Case is one discovered style constant: the member name and the
// concrete type backing it.
type Case struct {
	Name         string
	ConcreteType string
}

// Enumerator accumulates style cases across an interface set. Scanning
// is best-effort token matching; diagnostics belong to the parse pass.
type Enumerator struct {
	cases map[string][]Case
	seen  map[string]bool
}

func NewEnumerator() *Enumerator {
	return &Enumerator{
		cases: map[string][]Case{},
		seen:  map[string]bool{},
	}
}

// ScanFile collects constants declared through the
// `extension P where Self == C` idiom and through typed static members
// of plain protocol extensions.
func (e *Enumerator) ScanFile(f *source.File) {
	lx := lexer.New(f, diag.NopReporter{})

	type extFrame struct {
		constraint string
		concrete   string
		depth      int
	}
	var stack []extFrame
	depth := 0

	tok := lx.Next()
	for !tok.IsEOF() {
		switch tok.Kind {
		case token.LBrace:
			depth++
			tok = lx.Next()

		case token.RBrace:
			depth--
			if n := len(stack); n > 0 && depth < stack[n-1].depth {
				stack = stack[:n-1]
			}
			tok = lx.Next()

		case token.KwExtension:
			frame := extFrame{}
			tok = lx.Next()
			frame.constraint, tok = scanPath(lx, tok)
			if tok.Kind == token.KwWhere {
				frame.concrete, tok = scanSelfConstraint(lx)
			}
			for !tok.IsEOF() && tok.Kind != token.LBrace {
				tok = lx.Next()
			}
			if tok.Kind == token.LBrace {
				depth++
				frame.depth = depth
				if frame.constraint != "" {
					stack = append(stack, frame)
				}
				tok = lx.Next()
			}

		case token.KwStatic:
			tok = lx.Next()
			if tok.Kind != token.KwVar && tok.Kind != token.KwLet {
				continue
			}
			tok = lx.Next()
			if tok.Kind != token.Ident || len(stack) == 0 {
				continue
			}
			frame := stack[len(stack)-1]
			if depth != frame.depth {
				continue
			}
			name := tok.Text
			tok = lx.Next()
			concrete := frame.concrete
			if tok.Kind == token.Colon {
				var typed string
				typed, tok = scanPath(lx, lx.Next())
				if concrete == "" {
					concrete = typed
				}
			}
			if concrete != "" {
				e.add(frame.constraint, Case{Name: name, ConcreteType: concrete})
			}

		default:
			tok = lx.Next()
		}
	}
}

func (e *Enumerator) add(constraint string, c Case) {
	key := constraint + "\x00" + c.Name
	if e.seen[key] {
		return
	}
	e.seen[key] = true
	e.cases[constraint] = append(e.cases[constraint], c)
}

// Cases returns every discovery, keyed by constraint, cases in
// discovery order.
func (e *Enumerator) Cases() map[string][]Case {
	return e.cases
}

// Instances is the erasure-table seed: constraints with at least one
// discovered case.
func (e *Enumerator) Instances() map[string]bool {
	out := make(map[string]bool, len(e.cases))
	for constraint, cases := range e.cases {
		if len(cases) > 0 {
			out[constraint] = true
		}
	}
	return out
}

// Constraints lists discovered constraints in sorted order.
func (e *Enumerator) Constraints() []string {
	out := make([]string, 0, len(e.cases))
	for constraint := range e.cases {
		out = append(out, constraint)
	}
	sort.Strings(out)
	return out
}

// scanSelfConstraint matches `where Self == C` after an extension head.
// Called with `where` as the current token.
func scanSelfConstraint(lx *lexer.Lexer) (string, token.Token) {
	peeked := lx.Peek()
	if peeked.Kind != token.Ident || peeked.Text != "Self" {
		return "", lx.Next()
	}
	lx.Next() // Self
	tok := lx.Next()
	if tok.Kind != token.Equal {
		return "", tok
	}
	tok = lx.Next()
	if tok.Kind != token.Equal {
		return "", tok
	}
	return scanPath(lx, lx.Next())
}

// scanPath reads a dotted type path, skipping any generic argument
// list, and returns the path with the following token.
func scanPath(lx *lexer.Lexer, tok token.Token) (string, token.Token) {
	if tok.Kind != token.Ident {
		return "", tok
	}
	path := tok.Text
	tok = lx.Next()
	for tok.Kind == token.Dot {
		tok = lx.Next()
		if tok.Kind != token.Ident {
			return path, tok
		}
		path += "." + tok.Text
		tok = lx.Next()
	}
	if tok.Kind == token.LAngle {
		angles := 1
		for angles > 0 {
			tok = lx.Next()
			switch tok.Kind {
			case token.LAngle:
				angles++
			case token.RAngle:
				angles--
			case token.EOF:
				return path, tok
			}
		}
		tok = lx.Next()
	}
	return path, tok
}
