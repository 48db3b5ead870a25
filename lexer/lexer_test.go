package lexer

import (
	"testing"

	"github.com/akashmaji946/klangc/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	toks := NewLexer(src, nil).Lex()
	require.NotEmpty(t, toks)
	require.Equal(t, EOF, toks[len(toks)-1].Kind)
	return toks
}

func TestLexerPunctuatorsAndOperators(t *testing.T) {
	toks := lexAll(t, "a :: b @ … <<= <=> ->*")
	var kinds []Kind
	var spellings []string
	for _, tok := range toks {
		if tok.Kind == EOF {
			continue
		}
		kinds = append(kinds, tok.Kind)
		spellings = append(spellings, tok.Spelling)
	}
	assert.Equal(t, []string{"", "::", "", "@", "…", "<<=", "<=>", "->*"}, spellings)
	assert.Equal(t, Identifier, kinds[0])
	assert.Equal(t, Punct, kinds[1])
}

func TestLexerLongestMatch(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"<<=", "<<="},
		{"<<", "<<"},
		{"<", "<"},
		{"<=", "<="},
		{"<=>", "<=>"},
	}
	for _, tc := range cases {
		toks := lexAll(t, tc.src)
		require.Len(t, toks, 2) // operator + EOF
		assert.Equal(t, tc.want, toks[0].Spelling, "source %q", tc.src)
	}
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks := lexAll(t, "module foo namespace bar_baz unsigned")
	require.Len(t, toks, 6)
	assert.Equal(t, Keyword, toks[0].Kind)
	assert.Equal(t, Identifier, toks[1].Kind)
	assert.Equal(t, Keyword, toks[2].Kind)
	assert.Equal(t, Identifier, toks[3].Kind)
	assert.Equal(t, "bar_baz", toks[3].Text)
	assert.Equal(t, Keyword, toks[4].Kind)
}

func TestLexerBooleanAndNullLiterals(t *testing.T) {
	toks := lexAll(t, "true false null")
	require.Len(t, toks, 4)
	assert.Equal(t, BoolLiteral, toks[0].Kind)
	assert.True(t, toks[0].BoolValue)
	assert.Equal(t, BoolLiteral, toks[1].Kind)
	assert.False(t, toks[1].BoolValue)
	assert.Equal(t, NullLiteral, toks[2].Kind)
}

func TestLexerIntegerBasesAndSuffixes(t *testing.T) {
	cases := []struct {
		src        string
		base       IntBase
		signed     bool
		size       IntSize
		prefixLen  int
		contentLen int
	}{
		{"42", Decimal, true, SizeInt, 0, 2},
		{"0x2A", Hexadecimal, true, SizeInt, 2, 2},
		{"0b101", Binary, true, SizeInt, 2, 3},
		{"0o17", Octal, true, SizeInt, 2, 2},
		{"42u", Decimal, false, SizeInt, 0, 2},
		{"42ll", Decimal, true, SizeLongLong, 0, 2},
		{"42l64", Decimal, true, SizeLongLong, 0, 2},
		{"42l128", Decimal, true, SizeBigInt, 0, 2},
		{"42s", Decimal, true, SizeShort, 0, 2},
		{"42b", Decimal, true, SizeBigInt, 0, 2},
	}
	for _, tc := range cases {
		toks := lexAll(t, tc.src)
		require.Len(t, toks, 2, "source %q", tc.src)
		tok := toks[0]
		assert.Equal(t, IntLiteral, tok.Kind, "source %q", tc.src)
		assert.Equal(t, tc.base, tok.IntBase, "source %q", tc.src)
		assert.Equal(t, tc.signed, tok.IntSigned, "source %q", tc.src)
		assert.Equal(t, tc.size, tok.IntSize, "source %q", tc.src)
		assert.Equal(t, tc.prefixLen, tok.PrefixLen, "source %q", tc.src)
		assert.Equal(t, tc.contentLen, tok.ContentLen, "source %q", tc.src)
	}
}

func TestLexerFloatLiterals(t *testing.T) {
	toks := lexAll(t, "3.14 2.0f 1.5d 6e2")
	require.Len(t, toks, 5)
	assert.Equal(t, FloatLiteral, toks[0].Kind)
	assert.Equal(t, SizeDouble, toks[0].FloatSize)
	assert.Equal(t, FloatLiteral, toks[1].Kind)
	assert.Equal(t, SizeFloat, toks[1].FloatSize)
	assert.Equal(t, FloatLiteral, toks[2].Kind)
	assert.Equal(t, SizeDouble, toks[2].FloatSize)
	assert.Equal(t, FloatLiteral, toks[3].Kind)
}

func TestLexerStringAndCharEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb" '\t' '\x41' "A"`)
	require.Len(t, toks, 5)
	assert.Equal(t, "a\nb", toks[0].Decoded)
	assert.Equal(t, "\t", toks[1].Decoded)
	assert.Equal(t, "A", toks[2].Decoded)
	assert.Equal(t, "A", toks[3].Decoded)
}

func TestLexerCommentsRetainedInStream(t *testing.T) {
	toks := lexAll(t, "a // line comment\nb /* block */ c")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, LineComment)
	assert.Contains(t, kinds, BlockComment)
}

func TestLexerLineColumnTracking(t *testing.T) {
	toks := lexAll(t, "a\nbb")
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Range.Start.Line)
	assert.Equal(t, 1, toks[0].Range.Start.Col)
	assert.Equal(t, 2, toks[1].Range.Start.Line)
	assert.Equal(t, 1, toks[1].Range.Start.Col)
}

func TestLexerUnknownOperatorEmitsDiagnosticAndContinues(t *testing.T) {
	coll := diag.NewCollector()
	toks := NewLexer("a $ b", coll).Lex()
	require.NotEmpty(t, coll.All())
	require.Len(t, toks, 4) // a, Invalid($), b, EOF
	assert.Equal(t, Invalid, toks[1].Kind)
}
