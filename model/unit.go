package model

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/source"
	"github.com/akashmaji946/klangc/types"
)

// Unit is the root of one compiled translation unit (spec.md §3.5
// "Unit"): its node arena, its type registry, its module name, and the
// Root namespace index. Exactly one Unit exists per compiled file.
type Unit struct {
	arena    Arena
	Registry *types.Registry
	Name     string
	Root     Index

	// structsByType lets the resolver go from an interned struct *types.Type
	// (found e.g. on the natural type of a member-access object) back to the
	// Structure model node that declares its methods - the Registry only
	// tracks type-level field shape (types.Type.Members), not the model
	// entities holding member-function bodies.
	structsByType map[*types.Type]Index
}

// NewUnit creates an empty unit named name (either the parsed `module`
// name or a builder-synthesized `anon<hex>` one) with its root
// namespace already allocated.
func NewUnit(name string) *Unit {
	u := &Unit{
		Registry:      types.NewRegistry(),
		Name:          name,
		structsByType: make(map[*types.Type]Index),
	}
	u.Root = u.NewNamespace(NoIndex, ast.NewQualifiedName(true, name))
	return u
}

// Node returns a pointer to the node at idx, for reading or in-place
// mutation (the resolver's primary interface into the tree).
func (u *Unit) Node(idx Index) *Node {
	return u.arena.Get(idx)
}

// Len reports the number of nodes allocated so far.
func (u *Unit) Len() int {
	return u.arena.Len()
}

// addChild appends child to parent's Children list and, if parent is a
// variable-holder and child declares a short name, indexes it into
// parent's Vars map too. Re-declaration of an existing name is the
// caller's (builder's) concern to diagnose - this just records the
// latest binding, consistent with spec.md §4.4's forward-declaration
// note ("members may be referenced before every sibling is built;
// resolution happens only after the whole unit exists").
func (u *Unit) addChild(parent Index, child Index, name string) {
	if parent == NoIndex {
		return
	}
	p := u.Node(parent)
	p.Children = append(p.Children, child)
	if name == "" {
		return
	}
	if p.Kind.IsVariableHolder() {
		if p.Vars == nil {
			p.Vars = make(map[string]Index)
		}
		p.Vars[name] = child
	}
}

// NewNamespace allocates a namespace node, nested under parent (or
// NoIndex for the unit root), and links it as parent's child.
func (u *Unit) NewNamespace(parent Index, qname ast.QualifiedName) Index {
	idx := u.arena.alloc(Node{Kind: KindNamespace, Parent: parent, Name: qname.Last(), QName: qname})
	if parent != NoIndex {
		u.addChild(parent, idx, qname.Last())
		p := u.Node(parent)
		if p.Structs == nil {
			p.Structs = make(map[string]Index)
		}
	}
	return idx
}

// NewStructure allocates a structure node owned by namespace ns,
// recording its interned struct type (already registered by the
// caller via Registry.RegisterStruct).
func (u *Unit) NewStructure(ns Index, rng source.Range, name string, st *types.Type) Index {
	idx := u.arena.alloc(Node{Kind: KindStructure, Parent: ns, Range: rng, Name: name, StructType: st, Type: st})
	u.addChild(ns, idx, name)
	parent := u.Node(ns)
	if parent.Structs == nil {
		parent.Structs = make(map[string]Index)
	}
	parent.Structs[name] = idx
	u.structsByType[st] = idx
	return idx
}

// StructureOf returns the Structure node declaring struct type st, or
// NoIndex if st isn't a struct this unit built (e.g. it's still
// unresolved, or belongs to another unit).
func (u *Unit) StructureOf(st *types.Type) Index {
	if idx, ok := u.structsByType[st]; ok {
		return idx
	}
	return NoIndex
}

// NewFunction allocates a function node under owner (a Namespace or a
// Structure for a member function), with no parameters or body yet -
// callers attach those with AddParam/SetBody.
func (u *Unit) NewFunction(owner Index, rng source.Range, specs ast.Specifiers, name string, ret *types.Type) Index {
	idx := u.arena.alloc(Node{
		Kind: KindFunction, Parent: owner, Range: rng,
		Specifiers: specs, Name: name, ReturnType: ret,
		Body: NoIndex, Owner: NoIndex,
	})
	u.addChild(owner, idx, name)
	if u.Node(owner).Kind == KindStructure {
		u.Node(idx).Owner = owner
	}
	return idx
}

// AddParam allocates a Parameter node owned by fn at declared position
// pos (pos is -1 only for the builder-injected implicit "this" on a
// member function, per spec.md §3.7) and appends it to fn's Params list
// and variable map.
func (u *Unit) AddParam(fn Index, rng source.Range, name string, pos int, t *types.Type) Index {
	idx := u.arena.alloc(Node{
		Kind: KindParameter, Parent: fn, Range: rng,
		Name: name, Position: pos, Type: t,
	})
	f := u.Node(fn)
	f.Params = append(f.Params, idx)
	if name != "" {
		if f.Vars == nil {
			f.Vars = make(map[string]Index)
		}
		f.Vars[name] = idx
	}
	return idx
}

// SetBody attaches block as fn's body.
func (u *Unit) SetBody(fn Index, block Index) {
	u.Node(fn).Body = block
	if block != NoIndex {
		u.Node(block).Parent = fn
	}
}

// NewVariable allocates a Variable node (a namespace global, a struct
// member, or a block/for local) owned by holder, with init as its
// optional initializer expression (or NoIndex).
func (u *Unit) NewVariable(holder Index, rng source.Range, specs ast.Specifiers, name string, t *types.Type, init Index) Index {
	idx := u.arena.alloc(Node{
		Kind: KindVariable, Parent: holder, Range: rng,
		Specifiers: specs, Name: name, Type: t, Init: init,
	})
	if init != NoIndex {
		u.Node(init).Parent = idx
	}
	u.addChild(holder, idx, name)
	return idx
}

// NewBlock allocates an empty Block statement under parent.
func (u *Unit) NewBlock(parent Index, rng source.Range) Index {
	return u.arena.alloc(Node{Kind: KindBlock, Parent: parent, Range: rng})
}

// AppendStmt appends stmt to block's statement list and fixes stmt's
// parent pointer to block.
func (u *Unit) AppendStmt(block Index, stmt Index) {
	b := u.Node(block)
	b.Stmts = append(b.Stmts, stmt)
	u.Node(stmt).Parent = block
}

// NewReturn allocates a Return statement; value is NoIndex for a bare
// `return;`.
func (u *Unit) NewReturn(parent Index, rng source.Range, value Index) Index {
	idx := u.arena.alloc(Node{Kind: KindReturn, Parent: parent, Range: rng, Value: value})
	if value != NoIndex {
		u.Node(value).Parent = idx
	}
	return idx
}

// NewIf allocates an If statement; elseBranch is NoIndex when there is
// no else clause.
func (u *Unit) NewIf(parent Index, rng source.Range, cond, thenBranch, elseBranch Index) Index {
	idx := u.arena.alloc(Node{Kind: KindIf, Parent: parent, Range: rng, Cond: cond, Then: thenBranch, Else: elseBranch})
	u.reparent(idx, cond, thenBranch, elseBranch)
	return idx
}

// NewWhile allocates a While statement.
func (u *Unit) NewWhile(parent Index, rng source.Range, cond, body Index) Index {
	idx := u.arena.alloc(Node{Kind: KindWhile, Parent: parent, Range: rng, Cond: cond, Then: body})
	u.reparent(idx, cond, body)
	return idx
}

// NewFor allocates a For statement. Per spec.md §9 DESIGN NOTES ("the
// source's for-loop variable-holder was left incomplete; this
// implementation gives `for` its own scope"), a For node is itself a
// variable-holder: init, when present, is indexed into its Vars map the
// same way a Block indexes its locals, so the loop variable is visible
// to cond/post/body but nowhere else.
func (u *Unit) NewFor(parent Index, rng source.Range, init, cond, post, body Index) Index {
	idx := u.arena.alloc(Node{Kind: KindFor, Parent: parent, Range: rng, Value: init, Cond: cond, Post: post, Then: body})
	if init != NoIndex {
		initNode := u.Node(init)
		initNode.Parent = idx
		if initNode.Kind == KindVariable && initNode.Name != "" {
			f := u.Node(idx)
			if f.Vars == nil {
				f.Vars = make(map[string]Index)
			}
			f.Vars[initNode.Name] = init
		}
	}
	u.reparent(idx, cond, post, body)
	return idx
}

// NewExprStmt allocates an expression statement.
func (u *Unit) NewExprStmt(parent Index, rng source.Range, value Index) Index {
	idx := u.arena.alloc(Node{Kind: KindExprStmt, Parent: parent, Range: rng, Value: value})
	u.reparent(idx, value)
	return idx
}

// NewVariableStmt allocates a statement wrapping a local Variable decl.
func (u *Unit) NewVariableStmt(parent Index, rng source.Range, variable Index) Index {
	idx := u.arena.alloc(Node{Kind: KindVariableStmt, Parent: parent, Range: rng, Value: variable})
	u.reparent(idx, variable)
	return idx
}

// --- Expressions ---

// NewLiteral allocates a Literal expression wrapping a lexer token.
func (u *Unit) NewLiteral(parent Index, rng source.Range, tok lexer.Token) Index {
	return u.arena.alloc(Node{Kind: KindLiteral, Parent: parent, Range: rng, Literal: tok})
}

// NewSymbol allocates a Symbol expression naming an unqualified or
// qualified identifier; Target stays NoIndex until the resolver binds
// it to a Variable/Parameter/Function.
func (u *Unit) NewSymbol(parent Index, rng source.Range, name ast.QualifiedName) Index {
	return u.arena.alloc(Node{Kind: KindSymbol, Parent: parent, Range: rng, SymbolName: name, Target: NoIndex})
}

// NewThis allocates a This expression.
func (u *Unit) NewThis(parent Index, rng source.Range) Index {
	return u.arena.alloc(Node{Kind: KindThis, Parent: parent, Range: rng, Target: NoIndex})
}

// NewUnary allocates a Unary expression (prefix or postfix).
func (u *Unit) NewUnary(parent Index, rng source.Range, op string, prefix bool, operand Index) Index {
	idx := u.arena.alloc(Node{Kind: KindUnary, Parent: parent, Range: rng, Op: op, Prefix: prefix, Operand: operand})
	u.reparent(idx, operand)
	return idx
}

// NewBinary allocates a Binary expression (arithmetic, comparison,
// logical, shift, or assignment - Op distinguishes them; the resolver
// is what classifies Op into a conversion rule, not the builder).
func (u *Unit) NewBinary(parent Index, rng source.Range, op string, left, right Index) Index {
	idx := u.arena.alloc(Node{Kind: KindBinary, Parent: parent, Range: rng, Op: op, Left: left, Right: right})
	u.reparent(idx, left, right)
	return idx
}

// NewConditional allocates a ternary `cond ? then : else` expression.
func (u *Unit) NewConditional(parent Index, rng source.Range, cond, then, els Index) Index {
	idx := u.arena.alloc(Node{Kind: KindConditional, Parent: parent, Range: rng, CondExpr: cond, ThenExpr: then, ElseExpr: els})
	u.reparent(idx, cond, then, els)
	return idx
}

// NewCast allocates an explicit C-style cast expression.
func (u *Unit) NewCast(parent Index, rng source.Range, target *types.Type, operand Index) Index {
	idx := u.arena.alloc(Node{Kind: KindCast, Parent: parent, Range: rng, CastType: target, Operand: operand})
	u.reparent(idx, operand)
	return idx
}

// NewSubscript allocates an `object[index]` expression.
func (u *Unit) NewSubscript(parent Index, rng source.Range, object, index Index) Index {
	idx := u.arena.alloc(Node{Kind: KindSubscript, Parent: parent, Range: rng, Left: object, Right: index})
	u.reparent(idx, object, index)
	return idx
}

// NewCall allocates a `callee(args...)` expression.
func (u *Unit) NewCall(parent Index, rng source.Range, callee Index, args []Index) Index {
	idx := u.arena.alloc(Node{Kind: KindCall, Parent: parent, Range: rng, Callee: callee, Args: args})
	u.Node(callee).Parent = idx
	for _, a := range args {
		u.Node(a).Parent = idx
	}
	return idx
}

// NewMember allocates an `object.member`/`object->member` expression.
func (u *Unit) NewMember(parent Index, rng source.Range, object Index, pointer bool, name string) Index {
	idx := u.arena.alloc(Node{Kind: KindMember, Parent: parent, Range: rng, Operand: object, Pointer: pointer, Member: name})
	u.reparent(idx, object)
	return idx
}

// NewLoadValue wraps operand (which must name a reference) in a
// synthetic load - the resolver-only node kind spec.md §4.5 introduces
// to make an implicit reference-to-value conversion explicit in the
// tree instead of leaving it implicit the way the AST does.
func (u *Unit) NewLoadValue(parent Index, operand Index, t *types.Type) Index {
	idx := u.arena.alloc(Node{Kind: KindLoadValue, Parent: parent, Range: u.Node(operand).Range, Operand: operand, Type: t})
	u.Node(operand).Parent = idx
	return idx
}

// NewAddressOf wraps operand in a synthetic address-of node, the
// resolver-injected counterpart to NewLoadValue for implicit
// value-to-pointer/reference promotions.
func (u *Unit) NewAddressOf(parent Index, operand Index, t *types.Type) Index {
	idx := u.arena.alloc(Node{Kind: KindAddressOf, Parent: parent, Range: u.Node(operand).Range, Operand: operand, Type: t})
	u.Node(operand).Parent = idx
	return idx
}

// reparent fixes the Parent pointer of every non-NoIndex child to self.
func (u *Unit) reparent(self Index, children ...Index) {
	for _, c := range children {
		if c != NoIndex {
			u.Node(c).Parent = self
		}
	}
}
