package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/token"
)

// Lexer produces significant tokens from one interface file, attaching
// leading '///' doc blocks to the token that follows them.
type Lexer struct {
	file     *source.File
	cursor   Cursor
	reporter diag.Reporter
	look     *token.Token
	doc      []string
}

func New(file *source.File, reporter diag.Reporter) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		reporter: reporter,
	}
}

// Peek returns the upcoming token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.scan()
		lx.look = &tok
	}
	return *lx.look
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.cursor.Span(lx.cursor.Off)}
	}

	start := lx.cursor.Off
	ch := lx.cursor.Peek()

	var tok token.Token
	switch {
	case ch == '_' && !isIdentContinue(lx.cursor.PeekAt(1)):
		lx.cursor.Advance()
		tok = token.Token{Kind: token.Underscore, Span: lx.cursor.Span(start), Text: "_"}
	case isIdentStart(ch) || ch >= utf8.RuneSelf:
		tok = lx.scanIdent()
	case ch >= '0' && ch <= '9':
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '#':
		tok = lx.scanDirective()
	default:
		tok = lx.scanPunct()
	}

	if len(lx.doc) > 0 {
		tok.Doc = strings.Join(lx.doc, "\n")
		lx.doc = nil
	}
	return tok
}

// skipTrivia consumes whitespace and comments, hoarding '///' lines.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n':
			lx.cursor.Advance()
		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			isDoc := lx.cursor.PeekAt(2) == '/'
			start := lx.cursor.Off
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Advance()
			}
			if isDoc {
				line := lx.cursor.Slice(start, lx.cursor.Off)
				lx.doc = append(lx.doc, strings.TrimSpace(strings.TrimPrefix(line, "///")))
			}
		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			lx.skipBlockComment()
		default:
			return
		}
	}
}

func (lx *Lexer) skipBlockComment() {
	start := lx.cursor.Off
	lx.cursor.AdvanceN(2)
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch {
		case lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) == '*':
			depth++
			lx.cursor.AdvanceN(2)
		case lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/':
			depth--
			lx.cursor.AdvanceN(2)
		default:
			lx.cursor.Advance()
		}
	}
	if depth > 0 {
		diag.ReportError(lx.reporter, diag.LexUnterminatedComment, lx.cursor.Span(start),
			"unterminated block comment").Emit()
	}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if isIdentContinue(ch) {
			lx.cursor.Advance()
			continue
		}
		if ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				lx.cursor.AdvanceN(uint32(size)) // #nosec G115
				continue
			}
		}
		break
	}
	// A non-letter rune above ASCII (NBSP, typographic quotes) consumes
	// nothing above; the scanner must still make progress.
	if lx.cursor.Off == start {
		_, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
		lx.cursor.AdvanceN(uint32(size)) // #nosec G115
		text := lx.cursor.Slice(start, lx.cursor.Off)
		diag.ReportError(lx.reporter, diag.LexUnknownChar, lx.cursor.Span(start),
			"unexpected character "+text).Emit()
		return token.Token{Kind: token.Invalid, Span: lx.cursor.Span(start), Text: text}
	}
	// Interface dumps occasionally carry decomposed identifiers; fold to NFC
	// so the same name always interns to the same text.
	text := norm.NFC.String(lx.cursor.Slice(start, lx.cursor.Off))
	return token.Token{
		Kind: token.LookupKeyword(text),
		Span: lx.cursor.Span(start),
		Text: text,
	}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	seenDot := false
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch >= '0' && ch <= '9' || ch == '_' {
			lx.cursor.Advance()
			continue
		}
		if ch == '.' && !seenDot && lx.cursor.PeekAt(1) >= '0' && lx.cursor.PeekAt(1) <= '9' {
			seenDot = true
			lx.cursor.Advance()
			continue
		}
		break
	}
	return token.Token{Kind: token.Number, Span: lx.cursor.Span(start), Text: lx.cursor.Slice(start, lx.cursor.Off)}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Advance() // opening quote
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\\' {
			lx.cursor.AdvanceN(2)
			continue
		}
		if ch == '"' {
			lx.cursor.Advance()
			return token.Token{Kind: token.String, Span: lx.cursor.Span(start), Text: lx.cursor.Slice(start, lx.cursor.Off)}
		}
		if ch == '\n' {
			break
		}
		lx.cursor.Advance()
	}
	span := lx.cursor.Span(start)
	diag.ReportError(lx.reporter, diag.LexUnterminatedString, span, "unterminated string literal").Emit()
	return token.Token{Kind: token.Invalid, Span: span, Text: lx.cursor.Slice(start, lx.cursor.Off)}
}

func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Off
	lx.cursor.Advance() // '#'
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Advance()
	}
	text := lx.cursor.Slice(start, lx.cursor.Off)
	kind := token.Invalid
	switch text {
	case "#if":
		kind = token.HashIf
	case "#elseif":
		kind = token.HashElseif
	case "#else":
		kind = token.HashElse
	case "#endif":
		kind = token.HashEndif
	default:
		// #available and friends surface as identifiers to the parser.
		kind = token.Ident
	}
	return token.Token{Kind: kind, Span: lx.cursor.Span(start), Text: text}
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Peek()

	kind := token.Invalid
	switch ch {
	case '-':
		if lx.cursor.PeekAt(1) == '>' {
			lx.cursor.AdvanceN(2)
			return token.Token{Kind: token.Arrow, Span: lx.cursor.Span(start), Text: "->"}
		}
		kind = token.Minus
	case '.':
		if lx.cursor.PeekAt(1) == '.' && lx.cursor.PeekAt(2) == '.' {
			lx.cursor.AdvanceN(3)
			return token.Token{Kind: token.Ellipsis, Span: lx.cursor.Span(start), Text: "..."}
		}
		kind = token.Dot
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case '<':
		kind = token.LAngle
	case '>':
		kind = token.RAngle
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	case '?':
		kind = token.Question
	case '!':
		kind = token.Bang
	case '=':
		kind = token.Equal
	case '@':
		kind = token.At
	case '&':
		if lx.cursor.PeekAt(1) == '&' {
			lx.cursor.AdvanceN(2)
			return token.Token{Kind: token.AmpAmp, Span: lx.cursor.Span(start), Text: "&&"}
		}
		kind = token.Amp
	case '|':
		if lx.cursor.PeekAt(1) == '|' {
			lx.cursor.AdvanceN(2)
			return token.Token{Kind: token.PipePipe, Span: lx.cursor.Span(start), Text: "||"}
		}
	case '*':
		kind = token.Star
	}

	lx.cursor.Advance()
	text := lx.cursor.Slice(start, lx.cursor.Off)
	if kind == token.Invalid {
		diag.ReportError(lx.reporter, diag.LexUnknownChar, lx.cursor.Span(start),
			"unexpected character "+text).Emit()
	}
	return token.Token{Kind: kind, Span: lx.cursor.Span(start), Text: text}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || ch >= '0' && ch <= '9'
}
