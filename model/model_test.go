package model

import (
	"testing"

	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/source"
	"github.com/akashmaji946/klangc/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnitHasRootNamespaceWithNoParent(t *testing.T) {
	u := NewUnit("demo")
	root := u.Node(u.Root)
	assert.Equal(t, KindNamespace, root.Kind)
	assert.Equal(t, NoIndex, root.Parent)
	assert.Equal(t, "demo", root.QName.Last())
}

func TestNewFunctionTracksOwnerOnlyForMembers(t *testing.T) {
	u := NewUnit("demo")
	intType := u.Registry.FromPrimitiveTag(types.Int)

	freeFn := u.NewFunction(u.Root, source.Range{}, ast.Specifiers{}, "main", intType)
	assert.Equal(t, NoIndex, u.Node(freeFn).Owner)

	st := u.Registry.RegisterStruct(ast.NewQualifiedName(false, "Point"), nil)
	structIdx := u.NewStructure(u.Root, source.Range{}, "Point", st)
	method := u.NewFunction(structIdx, source.Range{}, ast.Specifiers{}, "norm", intType)
	assert.Equal(t, structIdx, u.Node(method).Owner)
}

func TestAddParamInjectsThisAtPositionMinusOne(t *testing.T) {
	u := NewUnit("demo")
	intType := u.Registry.FromPrimitiveTag(types.Int)
	st := u.Registry.RegisterStruct(ast.NewQualifiedName(false, "Point"), nil)
	structIdx := u.NewStructure(u.Root, source.Range{}, "Point", st)
	method := u.NewFunction(structIdx, source.Range{}, ast.Specifiers{}, "norm", intType)

	this := u.AddParam(method, source.Range{}, "this", -1, st.Pointer())
	x := u.AddParam(method, source.Range{}, "x", 0, intType)

	fn := u.Node(method)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, this, fn.Params[0])
	assert.Equal(t, -1, u.Node(this).Position)
	assert.Equal(t, 0, u.Node(x).Position)
	assert.Equal(t, x, fn.Vars["x"])
}

func TestLookupWalksBlockThenForThenFunctionThenNamespace(t *testing.T) {
	u := NewUnit("demo")
	intType := u.Registry.FromPrimitiveTag(types.Int)

	global := u.NewVariable(u.Root, source.Range{}, ast.Specifiers{}, "g", intType, NoIndex)

	fn := u.NewFunction(u.Root, source.Range{}, ast.Specifiers{}, "main", intType)
	p := u.AddParam(fn, source.Range{}, "p", 0, intType)
	body := u.NewBlock(fn, source.Range{})
	u.SetBody(fn, body)

	loopVar := u.NewVariable(NoIndex, source.Range{}, ast.Specifiers{}, "i", intType, NoIndex)
	forIdx := u.NewFor(body, source.Range{}, loopVar, NoIndex, NoIndex, NoIndex)
	inner := u.NewBlock(forIdx, source.Range{})
	u.Node(forIdx).Then = inner
	localVar := u.NewVariable(inner, source.Range{}, ast.Specifiers{}, "x", intType, NoIndex)

	assert.Equal(t, localVar, u.Lookup(inner, "x"))
	assert.Equal(t, loopVar, u.Lookup(inner, "i"))
	assert.Equal(t, p, u.Lookup(inner, "p"))
	assert.Equal(t, global, u.Lookup(inner, "g"))
	assert.Equal(t, NoIndex, u.Lookup(inner, "nope"))
}

func TestLookupFindsStructMemberThroughOwnerFunction(t *testing.T) {
	u := NewUnit("demo")
	intType := u.Registry.FromPrimitiveTag(types.Int)
	st := u.Registry.RegisterStruct(ast.NewQualifiedName(false, "Point"), nil)
	structIdx := u.NewStructure(u.Root, source.Range{}, "Point", st)
	field := u.NewVariable(structIdx, source.Range{}, ast.Specifiers{}, "x", intType, NoIndex)

	method := u.NewFunction(structIdx, source.Range{}, ast.Specifiers{}, "norm", intType)
	body := u.NewBlock(method, source.Range{})
	u.SetBody(method, body)

	assert.Equal(t, field, u.Lookup(body, "x"))
}

func TestDumpRendersNestedStructure(t *testing.T) {
	u := NewUnit("demo")
	intType := u.Registry.FromPrimitiveTag(types.Int)
	fn := u.NewFunction(u.Root, source.Range{}, ast.Specifiers{}, "main", intType)
	body := u.NewBlock(fn, source.Range{})
	u.SetBody(fn, body)
	ret := u.NewReturn(body, source.Range{}, NoIndex)
	u.AppendStmt(body, ret)

	out := NewDumper(u).Dump()
	assert.Contains(t, out, "Namespace")
	assert.Contains(t, out, "Function main")
	assert.Contains(t, out, "Block")
	assert.Contains(t, out, "Return")
}

func TestEnclosingFunctionStopsAtNamespaceBoundary(t *testing.T) {
	u := NewUnit("demo")
	intType := u.Registry.FromPrimitiveTag(types.Int)
	fn := u.NewFunction(u.Root, source.Range{}, ast.Specifiers{}, "main", intType)
	body := u.NewBlock(fn, source.Range{})
	u.SetBody(fn, body)

	assert.Equal(t, fn, u.EnclosingFunction(body))
	assert.Equal(t, NoIndex, u.EnclosingFunction(u.Root))
}
