/*
Package parser implements K's recursive-descent parser (spec.md §4.2):
token cursor in, unit AST out. Every production follows a save/rollback
cursor discipline (lexer.Cursor.Tell/Seek) so a failing alternative never
consumes tokens, the same backtracking shape the teacher's Pratt parser
keeps around its CurrToken/NextToken pair, generalized here to a full
recursive-descent grammar because K's grammar (postfix/prefix split,
cast expressions, pointer-to-member, a C-family declaration syntax) does
not fit a two-table Pratt scheme as cleanly as the teacher's simpler
expression language does.
*/
package parser

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/diag"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/source"
)

// Diagnostic codes owned by this subsystem (spec.md §7, class 0x1000).
const (
	CodeExpected         = diag.ClassParser + 0x0001
	CodeUnexpectedToken  = diag.ClassParser + 0x0002
	CodeInvalidTypeSpec  = diag.ClassParser + 0x0003
	CodeInvalidDecl      = diag.ClassParser + 0x0004
	CodeInvalidStatement = diag.ClassParser + 0x0005
	CodeInvalidExpr      = diag.ClassParser + 0x0006
)

// Parser drives a lexer.Cursor and produces an *ast.Unit. It never
// backtracks past a committed production; malformed input raises a
// *SyntaxError after emitting a diagnostic to sink.
type Parser struct {
	cur  *lexer.Cursor
	sink diag.Sink
}

// New creates a Parser over a fully tokenized buffer. sink may be nil to
// discard diagnostics.
func New(tokens []lexer.Token, sink diag.Sink) *Parser {
	return &Parser{cur: lexer.NewCursor(tokens), sink: sink}
}

// ParseUnit parses an entire compilation unit (spec.md §4.2 "Top-level
// form"). On a fatal grammar error it returns nil and the error.
func (p *Parser) ParseUnit() (unit *ast.Unit, err error) {
	defer func() {
		if r := recover(); r != nil {
			se, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			unit, err = nil, se
		}
	}()

	start := p.pick().Range.Start
	u := &ast.Unit{}

	if p.at(lexer.Keyword, "module") {
		p.get()
		name := p.parseQualifiedName()
		u.ModuleName = &name
		p.expectPunct(";")
	}

	for p.at(lexer.Keyword, "import") {
		impStart := p.pick().Range.Start
		p.get()
		id := p.expectIdentifier()
		end := p.pick().Range.Start
		p.expectPunct(";")
		u.Imports = append(u.Imports, &ast.Import{
			Base: ast.Base{Rng: source.Range{Start: impStart, End: end}},
			Name: id.Text,
		})
	}

	for !p.cur.EOF() {
		u.Decls = append(u.Decls, p.parseDecl())
	}

	u.Base = ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}}
	return u, nil
}

// ---- low-level token helpers -------------------------------------------

func (p *Parser) get() lexer.Token  { return p.cur.Get() }
func (p *Parser) pick() lexer.Token { return p.cur.Pick() }

func (p *Parser) at(kind lexer.Kind, spelling string) bool {
	t := p.pick()
	return t.Kind == kind && (spelling == "" || t.Spelling == spelling)
}

func (p *Parser) atPunct(spelling string) bool { return p.at(lexer.Punct, spelling) }
func (p *Parser) atOp(spelling string) bool    { return p.at(lexer.Operator, spelling) }
func (p *Parser) atKeyword(spelling string) bool { return p.at(lexer.Keyword, spelling) }

func (p *Parser) atAnyOp(spellings ...string) bool {
	for _, s := range spellings {
		if p.atOp(s) {
			return true
		}
	}
	return false
}

func (p *Parser) fail(pos source.Coord, code uint32, template string, args ...string) *SyntaxError {
	d := &diag.Diagnostic{
		Severity: diag.Error,
		Code:     code,
		Pos: diag.Position{
			Start: diag.At{Line: pos.Line, Col: pos.Col},
			End:   diag.At{Line: pos.Line, Col: pos.Col},
			At:    diag.At{Line: pos.Line, Col: pos.Col},
		},
		Template: template,
		Args:     args,
	}
	if p.sink != nil {
		p.sink.Emit(d)
	}
	return &SyntaxError{Diagnostic: d}
}

func (p *Parser) expectPunct(spelling string) lexer.Token {
	t := p.pick()
	if t.Kind == lexer.Punct && t.Spelling == spelling {
		return p.get()
	}
	panic(p.fail(t.Range.Start, CodeExpected, "expected '%s', found '%s'", spelling, describe(t)))
}

func (p *Parser) expectKeyword(kw string) lexer.Token {
	t := p.pick()
	if t.Kind == lexer.Keyword && t.Spelling == kw {
		return p.get()
	}
	panic(p.fail(t.Range.Start, CodeExpected, "expected '%s', found '%s'", kw, describe(t)))
}

func (p *Parser) expectOperator(spelling string) lexer.Token {
	t := p.pick()
	if t.Kind == lexer.Operator && t.Spelling == spelling {
		return p.get()
	}
	panic(p.fail(t.Range.Start, CodeExpected, "expected '%s', found '%s'", spelling, describe(t)))
}

func (p *Parser) expectIdentifier() lexer.Token {
	t := p.pick()
	if t.Kind == lexer.Identifier {
		return p.get()
	}
	panic(p.fail(t.Range.Start, CodeExpected, "expected identifier, found '%s'", describe(t)))
}

func describe(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of input"
	}
	if t.Text != "" {
		return t.Text
	}
	return t.Spelling
}

// parseQualifiedName parses a '::'-separated identifier chain, e.g.
// "::a::b" or "a::b" (spec.md §3.4).
func (p *Parser) parseQualifiedName() ast.QualifiedName {
	root := false
	if p.atPunct("::") {
		p.get()
		root = true
	}
	first := p.expectIdentifier()
	parts := []string{first.Text}
	for p.atPunct("::") {
		p.get()
		id := p.expectIdentifier()
		parts = append(parts, id.Text)
	}
	return ast.NewQualifiedName(root, parts...)
}
