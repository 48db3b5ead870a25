/*
Package builder lowers a parsed AST unit into a model tree (spec.md
§4.4). It walks the AST once, depth-first, carrying the "current
container" field a scope guard (scope.go) pushes and pops around every
namespace/struct/function/block/for - the model counterpart of the
teacher's eval.Evaluator.Scp save/restore discipline (eval/eval_loops.go,
eval/eval_controls.go), collapsed into a single deferred guard instead
of a manually-repeated restore at every exit point.

The builder never invents an implicit cast or load-value - it preserves
the AST's syntax verbatim, leaving all numeric-conversion and
reference-dereference decisions to the resolver (model/, resolver/).
*/
package builder

import (
	"crypto/rand"
	"fmt"

	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/diag"
	"github.com/akashmaji946/klangc/model"
	"github.com/akashmaji946/klangc/source"
	"github.com/akashmaji946/klangc/types"
)

// Diagnostic codes owned by this subsystem (spec.md §7, class 0x2000).
const (
	CodeNoVariableHolder = diag.ClassBuilder + 0x0004
	CodeReturnOutOfScope = diag.ClassBuilder + 0x0007
	// CodeUnrecognisedNode guards the unreachable default branch of the
	// buildDecl/buildStmt/buildExpr type switches - every concrete
	// ast.Decl/Stmt/Expr is handled, so this should never actually fire.
	CodeUnrecognisedNode = diag.ClassBuilder + 0x00ff
)

// Builder lowers one ast.Unit into one model.Unit.
type Builder struct {
	unit *model.Unit
	sink diag.Sink
	cur  model.Index // current enclosing namespace/struct/function/block/for
}

// New creates a Builder reporting into sink.
func New(sink diag.Sink) *Builder {
	return &Builder{sink: sink}
}

// Build lowers u into a fresh model.Unit, recovering a *BuildError panic
// raised by any of the fatal checks below (CodeNoVariableHolder 0x2004,
// CodeReturnOutOfScope 0x2007).
func (b *Builder) Build(u *ast.Unit) (out *model.Unit, err error) {
	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(*BuildError)
			if !ok {
				panic(r)
			}
			err = be
		}
	}()

	name := moduleName(u)
	b.unit = model.NewUnit(name)
	b.cur = b.unit.Root

	// Imports name other compilation units; resolving across units is a
	// declared non-goal (spec.md §1), so they don't get a model entity -
	// the AST already records them for anything upstream that needs to
	// enumerate a unit's declared dependencies.
	for _, d := range u.Decls {
		b.buildDecl(b.cur, d)
	}
	return b.unit, nil
}

// moduleName returns the parsed "module NAME;" name, or a synthesized
// "anon<4-hex>" one if absent (spec.md §4.4, §6.6).
func moduleName(u *ast.Unit) string {
	if u.ModuleName != nil {
		return u.ModuleName.String()
	}
	return "anon" + randomHex4()
}

func randomHex4() string {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "0000"
	}
	return fmt.Sprintf("%04x", uint16(buf[0])<<8|uint16(buf[1]))
}

func (b *Builder) fail(rng source.Range, code uint32, template string, args ...string) {
	d := &diag.Diagnostic{
		Severity: diag.Error,
		Code:     code,
		Pos: diag.Position{
			Start: diag.At{Line: rng.Start.Line, Col: rng.Start.Col},
			End:   diag.At{Line: rng.End.Line, Col: rng.End.Col},
			At:    diag.At{Line: rng.Start.Line, Col: rng.Start.Col},
		},
		Template: template,
		Args:     args,
	}
	if b.sink != nil {
		b.sink.Emit(d)
	}
	panic(&BuildError{Diagnostic: d})
}

// buildDecl lowers a single top-level or nested declaration under
// container (a Namespace or Structure model index).
func (b *Builder) buildDecl(container model.Index, d ast.Decl) {
	switch n := d.(type) {
	case *ast.VisibilityDecl:
		// Inside a struct body the parser copies each visibility
		// label into the Specifiers.Visibility of the member
		// FunctionDecl/VariableDecl declarations that follow it;
		// outside a struct a label changes no declaration. Either
		// way there is nothing to lower here.
	case *ast.NamespaceDecl:
		b.buildNamespace(container, n)
	case *ast.StructDecl:
		b.buildStruct(container, n)
	case *ast.FunctionDecl:
		b.buildFunction(container, n, model.NoIndex, nil)
	case *ast.VariableDecl:
		b.buildVariable(container, n)
	}
}

func (b *Builder) buildNamespace(parent model.Index, n *ast.NamespaceDecl) {
	name := "anon" + randomHex4()
	if n.Name != nil {
		name = *n.Name
	}
	parentName := b.unit.Node(parent).QName
	ns := b.unit.NewNamespace(parent, parentName.PushBack(name))
	b.unit.Node(ns).Range = n.Range()
	defer b.enter(ns)()
	for _, d := range n.Decls {
		b.buildDecl(ns, d)
	}
}

func (b *Builder) buildStruct(ns model.Index, n *ast.StructDecl) {
	qname := b.unit.Node(ns).QName.PushBack(n.Name)
	st := b.unit.Registry.RegisterStruct(qname, nil)
	idx := b.unit.NewStructure(ns, n.Range(), n.Name, st)
	defer b.enter(idx)()

	var members []types.Member
	for _, member := range n.Members {
		switch m := member.(type) {
		case *ast.VisibilityDecl:
			// as above, nothing to lower
		case *ast.VariableDecl:
			v := b.buildVariable(idx, m)
			members = append(members, types.Member{Name: m.Name, Type: b.unit.Node(v).Type})
		case *ast.FunctionDecl:
			b.buildFunction(idx, m, idx, st)
		}
	}
	st.Members = members
}

// buildFunction lowers a function declaration. owner/ownerType are
// non-nil/non-NoIndex only for a member function, in which case an
// implicit "this" parameter is injected at position -1 (spec.md §3.7,
// §9 DESIGN NOTES) ahead of the declared parameters.
func (b *Builder) buildFunction(container model.Index, n *ast.FunctionDecl, owner model.Index, ownerType *types.Type) model.Index {
	ret := b.unit.Registry.FromPrimitiveTag(types.Void)
	if n.ReturnType != nil {
		ret = b.unit.Registry.FromTypeSpecifier(n.ReturnType)
	}
	fn := b.unit.NewFunction(container, n.Range(), n.Specifiers, n.Name, ret)

	if owner != model.NoIndex {
		b.unit.AddParam(fn, n.Range(), "this", -1, ownerType.Reference())
	}
	for i, p := range n.Params {
		t := b.unit.Registry.FromTypeSpecifier(p.Type)
		b.unit.AddParam(fn, p.Range(), p.Name, i, t)
	}

	if n.Body != nil {
		defer b.enter(fn)()
		body := b.buildBlock(fn, n.Body)
		b.unit.SetBody(fn, body)
	}
	return fn
}

func (b *Builder) buildVariable(holder model.Index, n *ast.VariableDecl) model.Index {
	holderNode := b.unit.Node(holder)
	if !holderNode.Kind.IsVariableHolder() {
		b.fail(n.Range(), CodeNoVariableHolder, "variable declaration %s has no enclosing variable-holder", n.Name)
	}
	t := b.unit.Registry.FromTypeSpecifier(n.Type)
	init := model.NoIndex
	if n.Init != nil {
		init = b.buildExpr(holder, n.Init)
	}
	return b.unit.NewVariable(holder, n.Range(), n.Specifiers, n.Name, t, init)
}

func (b *Builder) buildBlock(parent model.Index, n *ast.BlockStmt) model.Index {
	block := b.unit.NewBlock(parent, n.Range())
	defer b.enter(block)()
	for _, s := range n.Stmts {
		b.unit.AppendStmt(block, b.buildStmt(block, s))
	}
	return block
}

func (b *Builder) buildStmt(parent model.Index, s ast.Stmt) model.Index {
	switch n := s.(type) {
	case *ast.BlockStmt:
		return b.buildBlock(parent, n)
	case *ast.ReturnStmt:
		if b.unit.EnclosingFunction(b.cur) == model.NoIndex {
			b.fail(n.Range(), CodeReturnOutOfScope, "return statement outside any enclosing function")
		}
		value := model.NoIndex
		if n.Value != nil {
			value = b.buildExpr(parent, n.Value)
		}
		return b.unit.NewReturn(parent, n.Range(), value)
	case *ast.IfStmt:
		cond := b.buildExpr(parent, n.Cond)
		then := b.buildStmt(parent, n.Then)
		els := model.NoIndex
		if n.Else != nil {
			els = b.buildStmt(parent, n.Else)
		}
		return b.unit.NewIf(parent, n.Range(), cond, then, els)
	case *ast.WhileStmt:
		cond := b.buildExpr(parent, n.Cond)
		body := b.buildStmt(parent, n.Body)
		return b.unit.NewWhile(parent, n.Range(), cond, body)
	case *ast.ForStmt:
		return b.buildFor(parent, n)
	case *ast.ExprStmt:
		return b.unit.NewExprStmt(parent, n.Range(), b.buildExpr(parent, n.Expr))
	case *ast.VariableStmt:
		v := b.buildVariable(parent, n.Decl)
		return b.unit.NewVariableStmt(parent, n.Range(), v)
	default:
		b.fail(s.Range(), CodeUnrecognisedNode, "unrecognised statement")
		return model.NoIndex
	}
}

// buildFor lowers a for-statement. The loop variable, condition, post
// expression and body are all built with the For node itself as the
// current container, since per spec.md §9 DESIGN NOTES the for-loop is
// its own variable-holder scope (model.Kind.IsVariableHolder; the loop
// variable is built with the For node as its holder, so
// model.Unit.NewVariable indexes it into the For node's Vars).
func (b *Builder) buildFor(parent model.Index, n *ast.ForStmt) model.Index {
	forIdx := b.unit.NewFor(parent, n.Range(), model.NoIndex, model.NoIndex, model.NoIndex, model.NoIndex)
	defer b.enter(forIdx)()

	init := model.NoIndex
	if n.Init != nil {
		init = b.buildVariable(forIdx, n.Init)
	}
	cond := model.NoIndex
	if n.Cond != nil {
		cond = b.buildExpr(forIdx, n.Cond)
	}
	post := model.NoIndex
	if n.Post != nil {
		post = b.buildExpr(forIdx, n.Post)
	}
	body := b.buildStmt(forIdx, n.Body)

	// init (if any) was already built with forIdx as its holder, so
	// model.Unit.NewVariable already recorded it in forIdx's own Vars
	// map and set its Parent; only the For node's own slots need
	// filling in now that its parts are built.
	f := b.unit.Node(forIdx)
	f.Value = init
	f.Cond = cond
	f.Post = post
	f.Then = body
	return forIdx
}
