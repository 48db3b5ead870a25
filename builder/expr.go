package builder

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/model"
)

// buildExpr lowers an AST expression under parent, preserving syntax
// verbatim - no implicit cast or load-value is synthesized here
// (spec.md §4.4); that's entirely the resolver's job.
func (b *Builder) buildExpr(parent model.Index, e ast.Expr) model.Index {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return b.unit.NewLiteral(parent, n.Range(), n.Token)
	case *ast.IdentifierExpr:
		return b.unit.NewSymbol(parent, n.Range(), n.Name)
	case *ast.ThisExpr:
		return b.unit.NewThis(parent, n.Range())
	case *ast.UnaryExpr:
		operand := b.buildExpr(parent, n.Operand)
		return b.unit.NewUnary(parent, n.Range(), unaryKind(n.Op, n.Prefix), n.Prefix, operand)
	case *ast.BinaryExpr:
		left := b.buildExpr(parent, n.Left)
		right := b.buildExpr(parent, n.Right)
		op, ok := binaryKind[n.Op]
		if !ok {
			op = n.Op
		}
		return b.unit.NewBinary(parent, n.Range(), op, left, right)
	case *ast.ConditionalExpr:
		cond := b.buildExpr(parent, n.Cond)
		then := b.buildExpr(parent, n.Then)
		els := b.buildExpr(parent, n.Else)
		return b.unit.NewConditional(parent, n.Range(), cond, then, els)
	case *ast.CastExpr:
		t := b.unit.Registry.FromTypeSpecifier(n.Type)
		operand := b.buildExpr(parent, n.Operand)
		return b.unit.NewCast(parent, n.Range(), t, operand)
	case *ast.SubscriptExpr:
		object := b.buildExpr(parent, n.Object)
		index := b.buildExpr(parent, n.Index)
		return b.unit.NewSubscript(parent, n.Range(), object, index)
	case *ast.CallExpr:
		callee := b.buildExpr(parent, n.Callee)
		args := make([]model.Index, len(n.Args))
		for i, a := range n.Args {
			args[i] = b.buildExpr(parent, a)
		}
		return b.unit.NewCall(parent, n.Range(), callee, args)
	case *ast.MemberExpr:
		object := b.buildExpr(parent, n.Object)
		return b.unit.NewMember(parent, n.Range(), object, n.Pointer, n.Member)
	case *ast.ExprList:
		// A comma expression's value is its last item; earlier items
		// are only built for their side effects, matching the comma
		// operator's evaluate-left-to-right-keep-last semantics.
		var last model.Index
		for _, item := range n.Items {
			last = b.buildExpr(parent, item)
		}
		return last
	default:
		b.fail(e.Range(), CodeUnrecognisedNode, "unrecognised expression")
		return model.NoIndex
	}
}
