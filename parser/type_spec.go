package parser

import (
	"strconv"

	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/source"
)

var primitiveKeywords = map[string]bool{
	"bool": true, "byte": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true,
}

// parseTypeSpec parses a type specifier: a primitive (with optional
// "unsigned" prefix) or a qualified identifier, followed by zero or more
// left-associative postfixes: '*' (pointer), '&' (reference),
// '[' integer? ']' (array) (spec.md §4.2 "Type specifier").
func (p *Parser) parseTypeSpec() ast.TypeSpec {
	start := p.pick().Range.Start
	var t ast.TypeSpec

	if p.atKeyword("unsigned") {
		p.get()
		kw := p.expectKeyword(p.requirePrimitiveKeyword())
		t = &ast.PrimitiveTypeSpec{
			Base:     ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Keyword:  kw.Spelling,
			Unsigned: true,
		}
	} else if p.isPrimitiveKeywordNext() {
		kw := p.get()
		t = &ast.PrimitiveTypeSpec{
			Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Keyword: kw.Spelling,
		}
	} else {
		name := p.parseQualifiedName()
		t = &ast.IdentifiedTypeSpec{
			Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Name: name,
		}
	}

	for {
		switch {
		case p.atOp("*"):
			p.get()
			t = &ast.PointerTypeSpec{
				Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Elem: t,
			}
		case p.atOp("&"):
			p.get()
			t = &ast.ReferenceTypeSpec{
				Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Elem: t,
			}
		case p.atPunct("["):
			p.get()
			var size *int64
			if p.pick().Kind == lexer.IntLiteral {
				tok := p.get()
				if n, err := strconv.ParseInt(trimDigits(tok), 0, 64); err == nil {
					size = &n
				}
			}
			p.expectPunct("]")
			t = &ast.ArrayTypeSpec{
				Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Elem: t,
				Size: size,
			}
		default:
			return t
		}
	}
}

func (p *Parser) isPrimitiveKeywordNext() bool {
	tok := p.pick()
	return tok.Kind == lexer.Keyword && primitiveKeywords[tok.Spelling]
}

func (p *Parser) requirePrimitiveKeyword() string {
	tok := p.pick()
	if tok.Kind == lexer.Keyword && primitiveKeywords[tok.Spelling] {
		return tok.Spelling
	}
	panic(p.fail(tok.Range.Start, CodeInvalidTypeSpec, "expected a primitive type after 'unsigned', found '%s'", describe(tok)))
}

func trimDigits(tok lexer.Token) string {
	return tok.Text[:tok.PrefixLen+tok.ContentLen]
}
