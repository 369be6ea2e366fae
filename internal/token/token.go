package token

import (
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

// Token is one significant lexeme of an interface file. Doc holds the
// text of any '///' comment block immediately preceding the token.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Doc  string
}

func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool {
	return t.Kind == EOF
}

var keywords = map[string]Kind{
	"func":           KwFunc,
	"extension":      KwExtension,
	"public":         KwPublic,
	"static":         KwStatic,
	"let":            KwLet,
	"var":            KwVar,
	"some":           KwSome,
	"any":            KwAny,
	"inout":          KwInout,
	"throws":         KwThrows,
	"rethrows":       KwRethrows,
	"where":          KwWhere,
	"nil":            KwNil,
	"protocol":       KwProtocol,
	"import":         KwImport,
	"init":           KwInit,
	"associatedtype": KwAssociatedtype,
	"typealias":      KwTypealias,
}

// LookupKeyword classifies an identifier's text, falling back to Ident.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
