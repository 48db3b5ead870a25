package parser

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/source"
)

// parseStmt parses a single statement (spec.md §4.2 "Statement":
// "block | return | if_else | while | for | variable_decl | expression
// ';'").
func (p *Parser) parseStmt() ast.Stmt {
	switch {
	case p.atPunct("{"):
		return p.parseBlockStmt()
	case p.atKeyword("return"):
		return p.parseReturnStmt()
	case p.atKeyword("if"):
		return p.parseIfStmt()
	case p.atKeyword("while"):
		return p.parseWhileStmt()
	case p.atKeyword("for"):
		return p.parseForStmt()
	}
	if decl, ok := p.tryVariableStmt(); ok {
		return decl
	}
	return p.parseExprStmt()
}

func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.expectPunct("{").Range.Start
	var stmts []ast.Stmt
	for !p.atPunct("}") {
		stmts = append(stmts, p.parseStmt())
	}
	p.expectPunct("}")
	return &ast.BlockStmt{
		Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Stmts: stmts,
	}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.expectKeyword("return").Range.Start
	var val ast.Expr
	if !p.atPunct(";") {
		val = p.parseExprList()
	}
	p.expectPunct(";")
	return &ast.ReturnStmt{
		Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Value: val,
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.expectKeyword("if").Range.Start
	p.expectPunct("(")
	cond := p.parseExprList()
	p.expectPunct(")")
	then := p.parseStmt()
	var elseStmt ast.Stmt
	if p.atKeyword("else") {
		p.get()
		elseStmt = p.parseStmt()
	}
	return &ast.IfStmt{
		Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Cond: cond,
		Then: then,
		Else: elseStmt,
	}
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.expectKeyword("while").Range.Start
	p.expectPunct("(")
	cond := p.parseExprList()
	p.expectPunct(")")
	body := p.parseStmt()
	return &ast.WhileStmt{
		Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Cond: cond,
		Body: body,
	}
}

// parseForStmt parses "for ( (var_decl | ';') (expr ';' | ';') expr? )
// body" (spec.md §4.2).
func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.expectKeyword("for").Range.Start
	p.expectPunct("(")

	var init *ast.VariableDecl
	if !p.atPunct(";") {
		declStart := p.pick().Range.Start
		specs := p.parseSpecifiers()
		name := p.expectIdentifier()
		init = p.parseVariableDecl(declStart, specs, name.Text)
	} else {
		p.get()
	}

	var cond ast.Expr
	if !p.atPunct(";") {
		cond = p.parseExprList()
	}
	p.expectPunct(";")

	var post ast.Expr
	if !p.atPunct(")") {
		post = p.parseExprList()
	}
	p.expectPunct(")")

	body := p.parseStmt()
	return &ast.ForStmt{
		Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Init: init,
		Cond: cond,
		Post: post,
		Body: body,
	}
}

// tryVariableStmt recognizes a local variable declaration used as a
// statement, disambiguated from an expression statement by a save/
// rollback: "specifiers? IDENT ':' type ...".
func (p *Parser) tryVariableStmt() (*ast.VariableStmt, bool) {
	save := p.cur.Tell()
	start := p.pick().Range.Start
	specs := p.parseSpecifiers()
	if p.pick().Kind != lexer.Identifier {
		p.cur.Seek(save)
		return nil, false
	}
	name := p.get()
	if !p.atOp(":") {
		p.cur.Seek(save)
		return nil, false
	}
	decl := p.parseVariableDecl(start, specs, name.Text)
	return &ast.VariableStmt{
		Base: ast.Base{Rng: decl.Range()},
		Decl: decl,
	}, true
}

func (p *Parser) parseExprStmt() *ast.ExprStmt {
	start := p.pick().Range.Start
	e := p.parseExprList()
	p.expectPunct(";")
	return &ast.ExprStmt{
		Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Expr: e,
	}
}
