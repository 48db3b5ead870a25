/*
Package lexer implements the K language's character-driven lexer: a
state machine that turns a source buffer into a typed token stream
(spec.md §4.1), plus the Cursor the parser drives over that stream
(spec.md §4.1 "Cursor").

The state machine itself is grounded on the teacher's
akashmaji946/go-mix Lexer (Src/Current/Position/Line/Column,
NextToken/Advance/Peek/IgnoreWhitespacesAndComments), generalized from
go-mix's single-character operator set to K's longest-match operator/
punctuator tables, numeric base/suffix decoding, and backslash-escape
sub-machine (spec.md §4.1, §6.1-§6.4).
*/
package lexer

import "github.com/akashmaji946/klangc/source"

// Kind is the closed set of lexeme categories (spec.md §3.2).
type Kind int

const (
	EOF Kind = iota
	Invalid
	Keyword
	Identifier
	IntLiteral
	FloatLiteral
	CharLiteral
	StringLiteral
	BoolLiteral
	NullLiteral
	LineComment
	BlockComment
	Punct
	Operator
)

// String names a Kind for debugging and dump output.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Invalid:
		return "Invalid"
	case Keyword:
		return "Keyword"
	case Identifier:
		return "Identifier"
	case IntLiteral:
		return "IntLiteral"
	case FloatLiteral:
		return "FloatLiteral"
	case CharLiteral:
		return "CharLiteral"
	case StringLiteral:
		return "StringLiteral"
	case BoolLiteral:
		return "BoolLiteral"
	case NullLiteral:
		return "NullLiteral"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	case Punct:
		return "Punct"
	case Operator:
		return "Operator"
	default:
		return "Unknown"
	}
}

// IsComment reports whether k is one of the two comment kinds; the Cursor
// uses this to skip-but-count comments on read.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// IntBase is the numeric base of an integer literal (spec.md §3.2).
type IntBase int

const (
	Decimal     IntBase = 10
	Hexadecimal IntBase = 16
	Octal       IntBase = 8
	Binary      IntBase = 2
)

// IntSize is the closed set of integer literal sizes (spec.md §3.2, §6.4).
type IntSize int

const (
	SizeByte IntSize = iota
	SizeShort
	SizeInt
	SizeLong
	SizeLongLong
	SizeBigInt
)

// FloatSize is the closed set of float literal sizes (spec.md §3.2, §6.4).
type FloatSize int

const (
	SizeFloat FloatSize = iota
	SizeDouble
)

// Token is a single tagged lexeme with its source range and raw content,
// plus the extra decoration spec.md §3.2 requires for integer/float
// literals so the decoder never has to re-scan the source text.
type Token struct {
	Kind  Kind
	Range source.Range
	Text  string // raw source text, verbatim

	// Spelling carries the canonical spelling for Keyword/Operator/Punct
	// kinds (identical to Text, but named separately so callers can
	// switch on it without re-deriving it from Text).
	Spelling string

	// Integer literal decoration (valid iff Kind == IntLiteral).
	IntBase    IntBase
	IntSigned  bool
	IntSize    IntSize
	PrefixLen  int // byte count of the base prefix, e.g. len("0x")
	ContentLen int // byte count of the digit content (prefix/suffix excluded)

	// Float literal decoration (valid iff Kind == FloatLiteral).
	FloatSize       FloatSize
	FloatContentLen int

	// Decoded carries the escape-processed value of a char/string literal
	// (valid iff Kind == CharLiteral || Kind == StringLiteral).
	Decoded string

	// BoolValue carries the decoded value of a bool literal (valid iff
	// Kind == BoolLiteral).
	BoolValue bool
}

// Keywords is the closed keyword set of spec.md §6.2.
var Keywords = map[string]bool{
	"module": true, "import": true, "namespace": true,
	"public": true, "protected": true, "private": true,
	"static": true, "const": true, "abstract": true, "final": true,
	"this": true, "return": true,
	"bool": true, "byte": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "unsigned": true,
	"if": true, "else": true, "while": true, "for": true, "struct": true,
}

// operators is the closed operator set of spec.md §6.3, ordered by
// descending length so the longest-prefix match wins (e.g. "<<=" before
// "<<" before "<"). "::", "@" and the single-character ellipsis "…" are
// punctuators, not operators, per spec.md §6.3, and are dispatched
// separately since they don't share the generic operator-accumulator
// character set.
var operators = []string{
	"<=>",
	"<<=", ">>=", "->*",
	"->", ".*", "==", "!=", ">=", "<=", "&&", "||", "++", "--", "**",
	"<<", ">>",
	"+=", "-=", "*=", "/=", "&=", "|=", "^=", "%=",
	".", "?", ":", "!", "~", "=", "+", "-", "*", "/", "&", "|", "^", "%", ">", "<",
}

// punctuators is the single-byte subset of the closed punctuator set of
// spec.md §6.3.
var punctuators = map[byte]bool{
	'(': true, ')': true, '{': true, '}': true, '[': true, ']': true,
	';': true, ',': true,
}
