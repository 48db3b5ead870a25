package types

import (
	"testing"

	"github.com/akashmaji946/klangc/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPrimitivesPrePopulated(t *testing.T) {
	r := NewRegistry()
	assert.Same(t, r.FromPrimitiveTag(Int), r.FromPrimitiveTag(Int))
	assert.Equal(t, "int", r.FromString("int").String())
	assert.Equal(t, "unsigned int", r.FromString("unsigned int").String())
}

func TestRegistryFromKeywordConcatenatesUnsigned(t *testing.T) {
	r := NewRegistry()
	got := r.FromKeyword("short", true)
	want := r.FromString("unsigned short")
	assert.Same(t, want, got)
}

func TestRegistryByteAndCharAreDistinctPrimitives(t *testing.T) {
	r := NewRegistry()
	assert.NotSame(t, r.FromString("byte"), r.FromString("char"))
}

func TestDerivedTypesCacheAtMostOnce(t *testing.T) {
	r := NewRegistry()
	i := r.FromPrimitiveTag(Int)
	assert.Same(t, i.Pointer(), i.Pointer())
	assert.Same(t, i.Reference(), i.Reference())
	assert.Same(t, i.Array(), i.Array())
	assert.Same(t, i.ArrayOf(4), i.ArrayOf(4))
	assert.NotSame(t, i.ArrayOf(4), i.ArrayOf(8))
	assert.NotSame(t, i.Pointer(), i.Reference())
}

func TestFromTypeSpecifierComposesPostfixes(t *testing.T) {
	r := NewRegistry()
	spec := &ast.ArrayTypeSpec{
		Elem: &ast.ReferenceTypeSpec{
			Elem: &ast.PointerTypeSpec{
				Elem: &ast.PrimitiveTypeSpec{Keyword: "int"},
			},
		},
	}
	got := r.FromTypeSpecifier(spec)
	assert.True(t, got.IsArray())
	assert.False(t, got.Sized)
	assert.True(t, got.Elem.IsReference())
	assert.True(t, got.Elem.Elem.IsPointer())
	assert.Equal(t, "int*&[]", got.String())
}

func TestUnresolvedStructResolvesAfterRegistration(t *testing.T) {
	r := NewRegistry()
	unresolved := r.FromString("Point")
	require.True(t, unresolved.IsUnresolved())

	r.RegisterStruct(ast.NewQualifiedName(false, "Point"), []Member{
		{Name: "x", Type: r.FromPrimitiveTag(Int)},
	})
	err := r.ResolveTypes()
	require.NoError(t, err)
	assert.True(t, unresolved.IsStruct())
	assert.NotNil(t, unresolved.Member("x"))
}

// Two forward references to the same not-yet-declared struct (e.g.
// both a return type and a parameter type naming "Node" ahead of its
// declaration) must share one placeholder handle - spec.md §8 Testable
// Property 3 requires identity-equal handles for structurally equal
// requests, and ResolveTypes only mutates whichever single pointer(s)
// it walks off r.pending in place.
func TestTwoForwardReferencesToSameUndeclaredStructShareOnePlaceholder(t *testing.T) {
	r := NewRegistry()
	fromReturn := r.FromString("Node")
	fromParam := r.FromString("Node")
	require.Same(t, fromReturn, fromParam)
	require.True(t, fromParam.IsUnresolved())

	r.RegisterStruct(ast.NewQualifiedName(false, "Node"), []Member{
		{Name: "next", Type: fromReturn.Pointer()},
	})
	err := r.ResolveTypes()
	require.NoError(t, err)
	assert.True(t, fromReturn.IsStruct())
	assert.True(t, fromParam.IsStruct())
}

// The same dedup applies to qualified-name lookups.
func TestTwoForwardReferencesViaQualifiedNameShareOnePlaceholder(t *testing.T) {
	r := NewRegistry()
	qname := ast.NewQualifiedName(false, "a", "Node")
	first := r.fromQualifiedName(qname)
	second := r.fromQualifiedName(qname)
	assert.Same(t, first, second)
}

func TestResolveTypesReportsStillUnresolvedNames(t *testing.T) {
	r := NewRegistry()
	r.FromString("Ghost")
	err := r.ResolveTypes()
	require.Error(t, err)
	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Contains(t, re.Names, "Ghost")
}

func TestFuncRefInterning(t *testing.T) {
	r := NewRegistry()
	a := r.FuncRef().Returning(r.FromPrimitiveTag(Int)).Params(r.FromPrimitiveTag(Int)).Build()
	b := r.FuncRef().Returning(r.FromPrimitiveTag(Int)).Params(r.FromPrimitiveTag(Int)).Build()
	assert.Same(t, a, b)

	c := r.FuncRef().Returning(r.FromPrimitiveTag(Int)).Build()
	assert.NotSame(t, a, c)
}
