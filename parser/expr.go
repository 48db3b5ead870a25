package parser

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/source"
)

var assignmentOps = []string{
	"=", "+=", "-=", "*=", "/=", "&=", "|=", "^=", "%=", "<<=", ">>=",
}

// parseExprList parses the full expression grammar down through the
// comma operator (spec.md §4.2's lowest precedence level).
func (p *Parser) parseExprList() ast.Expr {
	start := p.pick().Range.Start
	first := p.parseAssignment()
	if !p.atPunct(",") {
		return first
	}
	items := []ast.Expr{first}
	for p.atPunct(",") {
		p.get()
		items = append(items, p.parseAssignment())
	}
	return &ast.ExprList{
		Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Items: items,
	}
}

// parseAssignment is right-associative over the plain and compound
// assignment operators (spec.md §4.2).
func (p *Parser) parseAssignment() ast.Expr {
	start := p.pick().Range.Start
	left := p.parseConditional()
	if p.atAnyOp(assignmentOps...) {
		op := p.get()
		right := p.parseAssignment()
		return &ast.BinaryExpr{
			Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Op:    op.Spelling,
			Left:  left,
			Right: right,
		}
	}
	return left
}

// parseConditional is right-associative over '?:' (spec.md §4.2).
func (p *Parser) parseConditional() ast.Expr {
	start := p.pick().Range.Start
	cond := p.parseLogicalOr()
	if !p.atOp("?") {
		return cond
	}
	p.get()
	then := p.parseAssignment()
	p.expectOperator(":")
	els := p.parseConditional()
	return &ast.ConditionalExpr{
		Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Cond: cond,
		Then: then,
		Else: els,
	}
}

func (p *Parser) binaryChain(next func() ast.Expr, ops ...string) ast.Expr {
	start := p.pick().Range.Start
	left := next()
	for p.atAnyOp(ops...) {
		op := p.get()
		right := next()
		left = &ast.BinaryExpr{
			Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Op:    op.Spelling,
			Left:  left,
			Right: right,
		}
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expr {
	return p.binaryChain(p.parseLogicalAnd, "||")
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	return p.binaryChain(p.parseBitOr, "&&")
}

func (p *Parser) parseBitOr() ast.Expr {
	return p.binaryChain(p.parseBitXor, "|")
}

func (p *Parser) parseBitXor() ast.Expr {
	return p.binaryChain(p.parseBitAnd, "^")
}

func (p *Parser) parseBitAnd() ast.Expr {
	return p.binaryChain(p.parseEquality, "&")
}

func (p *Parser) parseEquality() ast.Expr {
	return p.binaryChain(p.parseRelational, "==", "!=")
}

func (p *Parser) parseRelational() ast.Expr {
	return p.binaryChain(p.parseShift, "<", "<=", ">", ">=", "<=>")
}

func (p *Parser) parseShift() ast.Expr {
	return p.binaryChain(p.parseAdditive, "<<", ">>")
}

func (p *Parser) parseAdditive() ast.Expr {
	return p.binaryChain(p.parseMultiplicative, "+", "-")
}

func (p *Parser) parseMultiplicative() ast.Expr {
	return p.binaryChain(p.parsePointerToMember, "*", "/", "%")
}

func (p *Parser) parsePointerToMember() ast.Expr {
	return p.binaryChain(p.parseCast, ".*", "->*")
}

// parseCast tries the "(" type ")" expr form with a save/rollback,
// falling back to a parenthesized expression or unary if the type
// specifier doesn't parse or isn't followed by a castable operand
// (spec.md §4.2).
func (p *Parser) parseCast() ast.Expr {
	if p.atPunct("(") && p.looksLikeTypeSpec() {
		save := p.cur.Tell()
		start := p.pick().Range.Start
		if e, ok := p.tryParseCastBody(start); ok {
			return e
		}
		p.cur.Seek(save)
	}
	return p.parseUnary()
}

// tryParseCastBody attempts "(" type ")" expr once '(' has been
// confirmed present; any parse failure inside is caught and reported as
// a rollback rather than a fatal error, since the caller still has the
// plain-unary alternative to fall back to.
func (p *Parser) tryParseCastBody(start source.Coord) (e ast.Expr, ok bool) {
	defer func() {
		if recover() != nil {
			e, ok = nil, false
		}
	}()
	p.get() // '('
	t := p.parseTypeSpec()
	if !p.atPunct(")") {
		return nil, false
	}
	p.get()
	operand := p.parseCast()
	return &ast.CastExpr{
		Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
		Type:    t,
		Operand: operand,
	}, true
}

// looksLikeTypeSpec peeks past the matching ')' to decide whether a
// parenthesized prefix could be a cast's type specifier: a primitive
// keyword, "unsigned", or an identifier, immediately after '('.
func (p *Parser) looksLikeTypeSpec() bool {
	save := p.cur.Tell()
	defer p.cur.Seek(save)
	p.get() // '('
	t := p.pick()
	if t.Kind == lexer.Keyword && (t.Spelling == "unsigned" || primitiveKeywords[t.Spelling]) {
		return true
	}
	return t.Kind == lexer.Identifier
}

var unaryPrefixOps = []string{"++", "--", "+", "-", "!", "~"}

func (p *Parser) parseUnary() ast.Expr {
	start := p.pick().Range.Start
	switch {
	case p.atAnyOp(unaryPrefixOps...):
		op := p.get()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Op:      op.Spelling,
			Prefix:  true,
			Operand: operand,
		}
	case p.atOp("*"):
		p.get()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Op:      "*",
			Prefix:  true,
			Operand: operand,
		}
	case p.atOp("&"):
		p.get()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Op:      "&",
			Prefix:  true,
			Operand: operand,
		}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	start := p.pick().Range.Start
	e := p.parsePrimary()
	for {
		switch {
		case p.atAnyOp("++", "--"):
			op := p.get()
			e = &ast.UnaryExpr{
				Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Op:      op.Spelling,
				Prefix:  false,
				Operand: e,
			}
		case p.atPunct("["):
			p.get()
			idx := p.parseExprList()
			p.expectPunct("]")
			e = &ast.SubscriptExpr{
				Base:  ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Object: e,
				Index: idx,
			}
		case p.atPunct("("):
			p.get()
			var args []ast.Expr
			for !p.atPunct(")") {
				if len(args) > 0 {
					p.expectPunct(",")
				}
				args = append(args, p.parseAssignment())
			}
			p.expectPunct(")")
			e = &ast.CallExpr{
				Base:   ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Callee: e,
				Args:   args,
			}
		case p.atOp("."):
			p.get()
			member := p.expectIdentifier()
			e = &ast.MemberExpr{
				Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Object:  e,
				Pointer: false,
				Member:  member.Text,
			}
		case p.atOp("->"):
			p.get()
			member := p.expectIdentifier()
			e = &ast.MemberExpr{
				Base:    ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
				Object:  e,
				Pointer: true,
				Member:  member.Text,
			}
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.pick().Range.Start
	t := p.pick()
	switch {
	case t.Kind == lexer.IntLiteral, t.Kind == lexer.FloatLiteral,
		t.Kind == lexer.CharLiteral, t.Kind == lexer.StringLiteral,
		t.Kind == lexer.BoolLiteral, t.Kind == lexer.NullLiteral:
		p.get()
		return &ast.LiteralExpr{
			Base:  ast.Base{Rng: t.Range},
			Token: t,
		}
	case t.Kind == lexer.Keyword && t.Spelling == "this":
		p.get()
		return &ast.ThisExpr{Base: ast.Base{Rng: t.Range}}
	case t.Kind == lexer.Identifier || t.Kind == lexer.Punct && t.Spelling == "::":
		name := p.parseQualifiedName()
		return &ast.IdentifierExpr{
			Base: ast.Base{Rng: source.Range{Start: start, End: p.pick().Range.Start}},
			Name: name,
		}
	case t.Kind == lexer.Punct && t.Spelling == "(":
		p.get()
		e := p.parseExprList()
		p.expectPunct(")")
		return e
	}
	panic(p.fail(t.Range.Start, CodeInvalidExpr, "unexpected token '%s' in expression", describe(t)))
}
