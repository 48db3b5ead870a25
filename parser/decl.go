package parser

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/source"
)

// parseDecl parses one top-level, namespace-member or struct-member
// declaration (spec.md §4.2 "Declaration family").
func (p *Parser) parseDecl() ast.Decl {
	start := p.pick().Range.Start

	if v, ok := p.tryVisibilityDecl(start); ok {
		return v
	}
	if p.atKeyword("namespace") {
		return p.parseNamespaceDecl(start)
	}
	if p.atKeyword("struct") {
		return p.parseStructDecl(start)
	}

	specs := p.parseSpecifiers()
	name := p.expectIdentifier()

	if p.atPunct("(") {
		return p.parseFunctionDecl(start, specs, name.Text)
	}
	return p.parseVariableDecl(start, specs, name.Text)
}

// tryVisibilityDecl recognizes "('public'|'protected'|'private') ':'"
// with a save/rollback, since a bare visibility keyword without a
// trailing colon does not belong to this production (spec.md §4.2).
func (p *Parser) tryVisibilityDecl(start source.Coord) (*ast.VisibilityDecl, bool) {
	if !p.atAnyKeyword("public", "protected", "private") {
		return nil, false
	}
	save := p.cur.Tell()
	kw := p.get()
	if !p.atOp(":") {
		p.cur.Seek(save)
		return nil, false
	}
	p.get()
	var scope ast.Visibility
	switch kw.Spelling {
	case "public":
		scope = ast.VisibilityPublic
	case "protected":
		scope = ast.VisibilityProtected
	case "private":
		scope = ast.VisibilityPrivate
	}
	return &ast.VisibilityDecl{
		Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Scope: scope,
	}, true
}

func (p *Parser) atAnyKeyword(kws ...string) bool {
	for _, kw := range kws {
		if p.atKeyword(kw) {
			return true
		}
	}
	return false
}

func (p *Parser) parseSpecifiers() ast.Specifiers {
	var s ast.Specifiers
	for {
		switch {
		case p.atKeyword("static"):
			p.get()
			s.Static = true
		case p.atKeyword("const"):
			p.get()
			s.Const = true
		case p.atKeyword("abstract"):
			p.get()
			s.Abstract = true
		case p.atKeyword("final"):
			p.get()
			s.Final = true
		default:
			return s
		}
	}
}

func (p *Parser) parseNamespaceDecl(start source.Coord) *ast.NamespaceDecl {
	p.expectKeyword("namespace")
	var name *string
	if p.pick().Kind == lexer.Identifier {
		id := p.get()
		name = &id.Text
	}
	p.expectPunct("{")
	var decls []ast.Decl
	for !p.atPunct("}") {
		decls = append(decls, p.parseDecl())
	}
	p.expectPunct("}")
	return &ast.NamespaceDecl{
		Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Name:  name,
		Decls: decls,
	}
}

func (p *Parser) parseStructDecl(start source.Coord) *ast.StructDecl {
	p.expectKeyword("struct")
	name := p.expectIdentifier()
	p.expectPunct("{")
	var members []ast.Decl
	vis := ast.VisibilityDefault
	for !p.atPunct("}") {
		d := p.parseDecl()
		switch m := d.(type) {
		case *ast.VisibilityDecl:
			vis = m.Scope
		case *ast.FunctionDecl:
			m.Specifiers.Visibility = vis
		case *ast.VariableDecl:
			m.Specifiers.Visibility = vis
		}
		members = append(members, d)
	}
	p.expectPunct("}")
	return &ast.StructDecl{
		Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Name:    name.Text,
		Members: members,
	}
}

func (p *Parser) parseFunctionDecl(start source.Coord, specs ast.Specifiers, name string) *ast.FunctionDecl {
	p.expectPunct("(")
	var params []*ast.ParamDecl
	for !p.atPunct(")") {
		if len(params) > 0 {
			p.expectPunct(",")
		}
		params = append(params, p.parseParamDecl())
	}
	p.expectPunct(")")

	var retType ast.TypeSpec
	if p.atOp(":") {
		p.get()
		retType = p.parseTypeSpec()
	}

	var body *ast.BlockStmt
	if p.atPunct("{") {
		body = p.parseBlockStmt()
	} else {
		p.expectPunct(";")
	}

	return &ast.FunctionDecl{
		Base:       ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Specifiers: specs,
		Name:       name,
		Params:     params,
		ReturnType: retType,
		Body:       body,
	}
}

func (p *Parser) parseParamDecl() *ast.ParamDecl {
	start := p.pick().Range.Start
	name := p.expectIdentifier()
	p.expectOperator(":")
	t := p.parseTypeSpec()
	return &ast.ParamDecl{
		Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Name: name.Text,
		Type: t,
	}
}

func (p *Parser) parseVariableDecl(start source.Coord, specs ast.Specifiers, name string) *ast.VariableDecl {
	p.expectOperator(":")
	t := p.parseTypeSpec()
	var init ast.Expr
	if p.atOp("=") {
		p.get()
		init = p.parseConditional()
	}
	p.expectPunct(";")
	return &ast.VariableDecl{
		Base:       ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Specifiers: specs,
		Name:       name,
		Type:       t,
		Init:       init,
	}
}
