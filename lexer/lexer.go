package lexer

import (
	"strconv"
	"strings"

	"github.com/akashmaji946/klangc/diag"
	"github.com/akashmaji946/klangc/source"
)

// Diagnostic codes owned by this subsystem, per spec.md §7 (class 0x0000)
// and §4.1's 0x0001-0x0010 warning range.
const (
	CodeMissingDigitsAfterBase = diag.ClassLexer + 0x0001
	CodeBadNumericSuffix       = diag.ClassLexer + 0x0002
	CodeIncompleteHexEscape    = diag.ClassLexer + 0x0003
	CodeIncompleteUniversalEsc = diag.ClassLexer + 0x0004
	CodeUnknownEscape          = diag.ClassLexer + 0x0005
	CodeUnterminatedString     = diag.ClassLexer + 0x0006
	CodeUnterminatedChar       = diag.ClassLexer + 0x0007
	CodeEmptyCharLiteral       = diag.ClassLexer + 0x0008
	CodeUnterminatedComment    = diag.ClassLexer + 0x0009
	CodeUnknownOperator        = diag.ClassLexer + 0x000a
)

// Lexer is the character-at-a-time state machine that turns a source
// buffer into a token stream (spec.md §4.1). Its field shape and the
// Advance/Peek/IgnoreWhitespace discipline are grounded directly on the
// teacher's Lexer (lexer/lexer.go), generalized to K's richer literal and
// operator grammar.
type Lexer struct {
	src  []byte
	pos  int
	cur  byte
	tr   source.Tracker
	sink diag.Sink
}

// NewLexer creates a Lexer over src. Diagnostics for local-recovery lexical
// oddities (spec.md §7 "Local recovery") are reported to sink, which may be
// nil to discard them.
func NewLexer(src string, sink diag.Sink) *Lexer {
	l := &Lexer{
		src:  []byte(src),
		tr:   source.NewTracker(),
		sink: sink,
	}
	if len(l.src) > 0 {
		l.cur = l.src[0]
	}
	return l
}

// Lex tokenizes the entire buffer and returns every lexeme, including
// comments, terminated by a single EOF token (spec.md §4.1 "a trailing
// virtual zero byte marks end-of-input").
func (l *Lexer) Lex() []Token {
	var toks []Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == EOF {
			return toks
		}
	}
}

func (l *Lexer) peek() byte {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}
	b := l.src[l.pos]
	l.pos++
	l.tr.Advance(b)
	if l.pos >= len(l.src) {
		l.cur = 0
	} else {
		l.cur = l.src[l.pos]
	}
}

func (l *Lexer) emit(code uint32, at source.Coord, template string, args ...string) {
	if l.sink == nil {
		return
	}
	l.sink.Emit(&diag.Diagnostic{
		Severity: diag.Warning,
		Code:     code,
		Pos: diag.Position{
			Start: diag.At{Line: at.Line, Col: at.Col},
			End:   diag.At{Line: at.Line, Col: at.Col},
			At:    diag.At{Line: at.Line, Col: at.Col},
		},
		Template: template,
		Args:     args,
	})
}

// Next produces the next token, skipping whitespace but retaining
// comments as tokens in the stream (the Cursor skips them on read).
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	start := l.tr.At()
	startPos := l.pos

	switch {
	case l.cur == 0:
		return Token{Kind: EOF, Range: source.Range{Start: start, End: start}}
	case l.cur == '/' && l.peek() == '/':
		return l.readLineComment(start, startPos)
	case l.cur == '/' && l.peek() == '*':
		return l.readBlockComment(start, startPos)
	case l.cur == '"':
		return l.readString(start, startPos)
	case l.cur == '\'':
		return l.readChar(start, startPos)
	case isIdentStart(l.cur):
		return l.readIdentifier(start, startPos)
	case isDigit(l.cur):
		return l.readNumber(start, startPos)
	case l.cur == ':' && l.peek() == ':':
		l.advance()
		l.advance()
		return l.tok(Punct, "::", start, startPos)
	case l.cur == '@':
		l.advance()
		return l.tok(Punct, "@", start, startPos)
	case isEllipsisAt(l.src, l.pos):
		l.advance()
		l.advance()
		l.advance()
		return l.tok(Punct, "…", start, startPos)
	case punctuators[l.cur]:
		p := string(l.cur)
		l.advance()
		return l.tok(Punct, p, start, startPos)
	default:
		if op, ok := matchOperator(l.src, l.pos); ok {
			for range op {
				l.advance()
			}
			return l.tok(Operator, op, start, startPos)
		}
		l.emit(CodeUnknownOperator, start, "unrecognized character '%s'", string(l.cur))
		bad := string(l.cur)
		l.advance()
		return Token{Kind: Invalid, Range: source.Range{Start: start, End: l.tr.At()}, Text: bad}
	}
}

func (l *Lexer) tok(kind Kind, spelling string, start source.Coord, startPos int) Token {
	return Token{
		Kind:     kind,
		Range:    source.Range{Start: start, End: l.tr.At()},
		Text:     string(l.src[startPos:l.pos]),
		Spelling: spelling,
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case isWhitespace(l.cur):
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) readLineComment(start source.Coord, startPos int) Token {
	l.advance() // first '/'
	l.advance() // second '/'
	for l.cur != '\n' && l.cur != '\r' && l.cur != 0 {
		l.advance()
	}
	return Token{Kind: LineComment, Range: source.Range{Start: start, End: l.tr.At()}, Text: string(l.src[startPos:l.pos])}
}

func (l *Lexer) readBlockComment(start source.Coord, startPos int) Token {
	l.advance() // '/'
	l.advance() // '*'
	for l.cur != 0 {
		if l.cur == '*' && l.peek() == '/' {
			l.advance()
			l.advance()
			return Token{Kind: BlockComment, Range: source.Range{Start: start, End: l.tr.At()}, Text: string(l.src[startPos:l.pos])}
		}
		l.advance()
	}
	l.emit(CodeUnterminatedComment, start, "unterminated block comment")
	return Token{Kind: BlockComment, Range: source.Range{Start: start, End: l.tr.At()}, Text: string(l.src[startPos:l.pos])}
}

func (l *Lexer) readIdentifier(start source.Coord, startPos int) Token {
	for isIdentCont(l.cur) {
		l.advance()
	}
	text := string(l.src[startPos:l.pos])
	end := l.tr.At()
	rng := source.Range{Start: start, End: end}
	switch text {
	case "true":
		return Token{Kind: BoolLiteral, Range: rng, Text: text, BoolValue: true}
	case "false":
		return Token{Kind: BoolLiteral, Range: rng, Text: text, BoolValue: false}
	case "null":
		return Token{Kind: NullLiteral, Range: rng, Text: text}
	}
	if Keywords[text] {
		return Token{Kind: Keyword, Range: rng, Text: text, Spelling: text}
	}
	return Token{Kind: Identifier, Range: rng, Text: text}
}

func (l *Lexer) readNumber(start source.Coord, startPos int) Token {
	base := Decimal
	prefixLen := 0
	isFloat := false

	if l.cur == '0' {
		switch {
		case l.peek() == 'x' || l.peek() == 'X':
			base = Hexadecimal
			l.advance()
			l.advance()
			prefixLen = 2
			digitsStart := l.pos
			for isHexDigit(l.cur) {
				l.advance()
			}
			if l.pos == digitsStart {
				l.emit(CodeMissingDigitsAfterBase, start, "missing digits after '0x' prefix")
			}
		case l.peek() == 'b' || l.peek() == 'B':
			base = Binary
			l.advance()
			l.advance()
			prefixLen = 2
			digitsStart := l.pos
			for l.cur == '0' || l.cur == '1' {
				l.advance()
			}
			if l.pos == digitsStart {
				l.emit(CodeMissingDigitsAfterBase, start, "missing digits after '0b' prefix")
			}
		case l.peek() == 'o' || l.peek() == 'O':
			base = Octal
			l.advance()
			l.advance()
			prefixLen = 2
			digitsStart := l.pos
			for isOctalDigit(l.cur) {
				l.advance()
			}
			if l.pos == digitsStart {
				l.emit(CodeMissingDigitsAfterBase, start, "missing digits after '0o' prefix")
			}
		case isDigit(l.peek()):
			// Legacy C-style octal chain, may still turn into a decimal
			// float below if a '.' or exponent follows.
			base = Octal
			l.advance()
			for isDigit(l.cur) {
				l.advance()
			}
		default:
			l.advance() // bare "0"
		}
	} else {
		for isDigit(l.cur) {
			l.advance()
		}
	}

	if base == Decimal || base == Octal {
		if l.cur == '.' && isDigit(l.peek()) {
			isFloat = true
			base = Decimal
			l.advance()
			for isDigit(l.cur) {
				l.advance()
			}
		}
		if l.cur == 'e' || l.cur == 'E' {
			save := l.pos
			savedTr := l.tr
			savedCur := l.cur
			l.advance()
			if l.cur == '+' || l.cur == '-' {
				l.advance()
			}
			if isDigit(l.cur) {
				isFloat = true
				base = Decimal
				for isDigit(l.cur) {
					l.advance()
				}
			} else {
				// Not a valid exponent; roll back and leave 'e' for
				// whatever comes next (e.g. a suffix or a new token).
				l.pos = save
				l.tr = savedTr
				l.cur = savedCur
			}
		}
	}

	contentLen := l.pos - startPos - prefixLen

	if isFloat {
		size := SizeDouble
		if l.cur == 'f' || l.cur == 'F' {
			size = SizeFloat
			l.advance()
		} else if l.cur == 'd' || l.cur == 'D' {
			size = SizeDouble
			l.advance()
		}
		return Token{
			Kind:            FloatLiteral,
			Range:           source.Range{Start: start, End: l.tr.At()},
			Text:            string(l.src[startPos:l.pos]),
			FloatSize:       size,
			FloatContentLen: contentLen,
		}
	}

	signed, size := l.readIntSuffix()
	if isIdentStart(l.cur) {
		// A letter immediately follows a recognized suffix run: the
		// suffix is ill-formed. Fall back to the largest well-defined
		// prefix already parsed and warn.
		l.emit(CodeBadNumericSuffix, start, "ill-formed numeric suffix near '%s'", string(l.cur))
		for isIdentCont(l.cur) {
			l.advance()
		}
	}

	return Token{
		Kind:       IntLiteral,
		Range:      source.Range{Start: start, End: l.tr.At()},
		Text:       string(l.src[startPos:l.pos]),
		IntBase:    base,
		IntSigned:  signed,
		IntSize:    size,
		PrefixLen:  prefixLen,
		ContentLen: contentLen,
	}
}

// readIntSuffix decodes the integer suffix grammar of spec.md §6.4:
// u/U, s/S, i/I, l/L, ll/LL or l64, l128, b/B, in any combination. The
// default (no suffix) is signed, int-sized.
func (l *Lexer) readIntSuffix() (signed bool, size IntSize) {
	signed = true
	size = SizeInt
	for i := 0; i < 4; i++ {
		switch {
		case l.cur == 'u' || l.cur == 'U':
			signed = false
			l.advance()
		case l.cur == 's' || l.cur == 'S':
			size = SizeShort
			l.advance()
		case l.cur == 'i' || l.cur == 'I':
			size = SizeInt
			l.advance()
		case l.cur == 'b' || l.cur == 'B':
			size = SizeBigInt
			l.advance()
		case l.cur == 'l' || l.cur == 'L':
			switch {
			case (l.peek() == 'l' || l.peek() == 'L'):
				size = SizeLongLong
				l.advance()
				l.advance()
			case l.peek() == '6' && l.peekAt(2) == '4':
				size = SizeLongLong
				l.advance()
				l.advance()
				l.advance()
			case l.peek() == '1' && l.peekAt(2) == '2' && l.peekAt(3) == '8':
				size = SizeBigInt
				l.advance()
				l.advance()
				l.advance()
				l.advance()
			default:
				size = SizeLong
				l.advance()
			}
		default:
			return signed, size
		}
	}
	return signed, size
}

func (l *Lexer) readString(start source.Coord, startPos int) Token {
	l.advance() // opening quote
	var decoded strings.Builder
	for l.cur != '"' && l.cur != 0 {
		if l.cur == '\\' {
			decoded.WriteString(l.readEscape())
		} else {
			decoded.WriteByte(l.cur)
			l.advance()
		}
	}
	if l.cur == 0 {
		l.emit(CodeUnterminatedString, start, "unterminated string literal")
	} else {
		l.advance() // closing quote
	}
	return Token{
		Kind:    StringLiteral,
		Range:   source.Range{Start: start, End: l.tr.At()},
		Text:    string(l.src[startPos:l.pos]),
		Decoded: decoded.String(),
	}
}

func (l *Lexer) readChar(start source.Coord, startPos int) Token {
	l.advance() // opening quote
	var decoded string
	if l.cur == '\'' {
		l.emit(CodeEmptyCharLiteral, start, "empty character literal")
	} else if l.cur == '\\' {
		decoded = l.readEscape()
	} else if l.cur != 0 {
		decoded = string(l.cur)
		l.advance()
	}
	if l.cur == '\'' {
		l.advance()
	} else {
		l.emit(CodeUnterminatedChar, start, "unterminated character literal")
	}
	return Token{
		Kind:    CharLiteral,
		Range:   source.Range{Start: start, End: l.tr.At()},
		Text:    string(l.src[startPos:l.pos]),
		Decoded: decoded,
	}
}

// readEscape decodes one backslash-escape sequence; l.cur must be '\\' on
// entry. It supports the full sub-machine of spec.md §4.1: the named
// single-character escapes, octal up to 3 digits, \xHH, \uHHHH and
// \UHHHHHHHH.
func (l *Lexer) readEscape() string {
	at := l.tr.At()
	l.advance() // backslash
	switch l.cur {
	case '\'':
		l.advance()
		return "'"
	case '"':
		l.advance()
		return "\""
	case '?':
		l.advance()
		return "?"
	case '\\':
		l.advance()
		return "\\"
	case 'b':
		l.advance()
		return "\b"
	case 'f':
		l.advance()
		return "\f"
	case 'n':
		l.advance()
		return "\n"
	case 'r':
		l.advance()
		return "\r"
	case 't':
		l.advance()
		return "\t"
	case 'v':
		l.advance()
		return "\v"
	case 'x':
		l.advance()
		start := l.pos
		for count := 0; count < 2 && isHexDigit(l.cur); count++ {
			l.advance()
		}
		if l.pos == start {
			l.emit(CodeIncompleteHexEscape, at, "incomplete \\x escape")
			return ""
		}
		v, _ := strconv.ParseInt(string(l.src[start:l.pos]), 16, 32)
		return string(rune(v))
	case 'u':
		l.advance()
		return l.readUniversalEscape(at, 4)
	case 'U':
		l.advance()
		return l.readUniversalEscape(at, 8)
	default:
		if isOctalDigit(l.cur) {
			start := l.pos
			for count := 0; count < 3 && isOctalDigit(l.cur); count++ {
				l.advance()
			}
			v, _ := strconv.ParseInt(string(l.src[start:l.pos]), 8, 32)
			return string(rune(v))
		}
		l.emit(CodeUnknownEscape, at, "unknown escape sequence '\\%s'", string(l.cur))
		ch := string(l.cur)
		if l.cur != 0 {
			l.advance()
		}
		return ch
	}
}

func (l *Lexer) readUniversalEscape(at source.Coord, digits int) string {
	start := l.pos
	for count := 0; count < digits && isHexDigit(l.cur); count++ {
		l.advance()
	}
	if l.pos-start < digits {
		l.emit(CodeIncompleteUniversalEsc, at, "incomplete universal character escape")
		if l.pos == start {
			return ""
		}
	}
	v, _ := strconv.ParseInt(string(l.src[start:l.pos]), 16, 64)
	return string(rune(v))
}

func isEllipsisAt(src []byte, pos int) bool {
	return pos+2 < len(src) && src[pos] == 0xE2 && src[pos+1] == 0x80 && src[pos+2] == 0xA6
}

func matchOperator(src []byte, pos int) (string, bool) {
	for _, op := range operators {
		if pos+len(op) <= len(src) && string(src[pos:pos+len(op)]) == op {
			return op, true
		}
	}
	return "", false
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentStart(b byte) bool {
	return isAlpha(b) || b == '_'
}

func isIdentCont(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
