package token

// Kind represents the category of an interface-file token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// String represents a string literal (default-value text).
	String
	// Number represents a numeric literal.
	Number

	// KwFunc represents the 'func' keyword.
	KwFunc // func
	// KwExtension represents the 'extension' keyword.
	KwExtension // extension
	// KwPublic represents the 'public' keyword.
	KwPublic // public
	// KwStatic represents the 'static' keyword.
	KwStatic // static
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwSome represents the 'some' existential marker.
	KwSome // some
	// KwAny represents the 'any' existential marker.
	KwAny // any
	// KwInout represents the 'inout' parameter modifier.
	KwInout // inout
	// KwThrows represents the 'throws' effect.
	KwThrows // throws
	// KwRethrows represents the 'rethrows' effect.
	KwRethrows // rethrows
	// KwWhere represents the 'where' clause keyword.
	KwWhere // where
	// KwNil represents the 'nil' literal.
	KwNil // nil
	// KwProtocol represents the 'protocol' keyword.
	KwProtocol // protocol
	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwInit represents the 'init' keyword.
	KwInit // init
	// KwAssociatedtype represents the 'associatedtype' keyword.
	KwAssociatedtype // associatedtype
	// KwTypealias represents the 'typealias' keyword.
	KwTypealias // typealias

	// LParen '('
	LParen
	// RParen ')'
	RParen
	// LBrace '{'
	LBrace
	// RBrace '}'
	RBrace
	// LBracket '['
	LBracket
	// RBracket ']'
	RBracket
	// LAngle '<'
	LAngle
	// RAngle '>'
	RAngle
	// Comma ','
	Comma
	// Colon ':'
	Colon
	// Dot '.'
	Dot
	// Question '?'
	Question
	// Bang '!'
	Bang
	// Equal '='
	Equal
	// Arrow '->'
	Arrow
	// At '@'
	At
	// Amp '&'
	Amp
	// AmpAmp '&&'
	AmpAmp
	// PipePipe '||'
	PipePipe
	// Star '*'
	Star
	// Minus '-'
	Minus
	// Ellipsis '...'
	Ellipsis
	// Underscore '_' as a bare label placeholder
	Underscore

	// HashIf represents the '#if' directive.
	HashIf // #if
	// HashElseif represents the '#elseif' directive.
	HashElseif // #elseif
	// HashElse represents the '#else' directive.
	HashElse // #else
	// HashEndif represents the '#endif' directive.
	HashEndif // #endif
)

var kindNames = map[Kind]string{
	Invalid:          "invalid",
	EOF:              "eof",
	Ident:            "ident",
	String:           "string",
	Number:           "number",
	KwFunc:           "func",
	KwExtension:      "extension",
	KwPublic:         "public",
	KwStatic:         "static",
	KwLet:            "let",
	KwVar:            "var",
	KwSome:           "some",
	KwAny:            "any",
	KwInout:          "inout",
	KwThrows:         "throws",
	KwRethrows:       "rethrows",
	KwWhere:          "where",
	KwNil:            "nil",
	KwProtocol:       "protocol",
	KwImport:         "import",
	KwInit:           "init",
	KwAssociatedtype: "associatedtype",
	KwTypealias:      "typealias",
	LParen:           "(",
	RParen:           ")",
	LBrace:           "{",
	RBrace:           "}",
	LBracket:         "[",
	RBracket:         "]",
	LAngle:           "<",
	RAngle:           ">",
	Comma:            ",",
	Colon:            ":",
	Dot:              ".",
	Question:         "?",
	Bang:             "!",
	Equal:            "=",
	Arrow:            "->",
	At:               "@",
	Amp:              "&",
	AmpAmp:           "&&",
	PipePipe:         "||",
	Star:             "*",
	Minus:            "-",
	Ellipsis:         "...",
	Underscore:       "_",
	HashIf:           "#if",
	HashElseif:       "#elseif",
	HashElse:         "#else",
	HashEndif:        "#endif",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwFunc && k <= KwTypealias
}
