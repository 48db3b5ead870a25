/*
Package mangle implements K's external-symbol name mangler (spec.md
§4.6): a pure function from a model entity (a Function or Variable node,
already resolved) to the external symbol string a linker would see.

The scheme is a simplified Itanium-ABI-style encoding: a `_K` prefix, a
kind tag (`F` function, `V` variable), an optional member flag `M`, the
qualified-name encoding `N<len><name>...E`, and - for functions only -
either `v` for an empty parameter list or the concatenation of the
parameter types' own encodings.

Nothing here allocates state shared across calls; encoding the same
entity twice yields the same bytes (spec.md §4.6's determinism
invariant falls out for free from walking the already-built, immutable
model tree).
*/
package mangle

import (
	"strconv"
	"strings"

	"github.com/akashmaji946/klangc/model"
	"github.com/akashmaji946/klangc/types"
)

// Function mangles the function declared at fnIdx.
func Function(u *model.Unit, fnIdx model.Index) string {
	fn := u.Node(fnIdx)
	var b strings.Builder
	b.WriteString("_KF")
	if fn.Owner != model.NoIndex {
		b.WriteByte('M')
	}
	b.WriteString(qualifiedNameEncoding(qualifiedPath(u, fnIdx)))

	params := realParams(u, fn.Params)
	if len(params) == 0 {
		b.WriteByte('v')
		return b.String()
	}
	for _, p := range params {
		b.WriteString(mangleType(u, u.Node(p).Type))
	}
	return b.String()
}

// Variable mangles the global/member variable declared at varIdx. The
// scheme carries no trailing type encoding for variables (spec.md §6.7's
// `counter:int` → `_KVN7counterE` example has none) - only its
// qualified name distinguishes it from another variable.
func Variable(u *model.Unit, varIdx model.Index) string {
	var b strings.Builder
	b.WriteString("_KV")
	b.WriteString(qualifiedNameEncoding(qualifiedPath(u, varIdx)))
	return b.String()
}

// realParams drops the builder-injected implicit "this" parameter
// (Position == -1, spec.md §3.7) - the member flag M already signals an
// implicit receiver, so this parameter is never separately encoded.
func realParams(u *model.Unit, params []model.Index) []model.Index {
	out := make([]model.Index, 0, len(params))
	for _, p := range params {
		if u.Node(p).Position == -1 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// qualifiedPath walks idx's ancestor chain collecting each enclosing
// Namespace/Structure's own (short) name, stopping before - and never
// including - the unit's synthetic root namespace: spec.md §6.7's
// `sum(int,int):int` → `_KFN3sumEii` example carries no module-name
// prefix even though every top-level declaration is nested one level
// under the unit's root namespace, so that root contributes nothing to
// any mangled name.
func qualifiedPath(u *model.Unit, idx model.Index) []string {
	names := []string{u.Node(idx).Name}
	for p := u.Node(idx).Parent; p != model.NoIndex && p != u.Root; p = u.Node(p).Parent {
		names = append(names, u.Node(p).Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

// qualifiedNameEncoding renders `N<len1><name1><len2><name2>...E`.
func qualifiedNameEncoding(parts []string) string {
	var b strings.Builder
	b.WriteByte('N')
	for _, p := range parts {
		b.WriteString(strconv.Itoa(len(p)))
		b.WriteString(p)
	}
	b.WriteByte('E')
	return b.String()
}

// mangleType encodes a single type per spec.md §4.6's type-encoding
// table: single-letter primitives, `P`/`R` derived-type prefixes, and
// the qualified-name encoding for a struct. Array and function-reference
// parameter types aren't named in that table - an unsized/sized array
// decays to its pointer-to-element encoding, the same convention C-family
// ABIs use for array parameters, since nothing in spec.md's table says
// otherwise. `const`/`volatile`/`restrict` (`K`/`V`/`r`) are part of the
// scheme but never emitted: this type system carries no qualifier bit on
// any Type (see types.Type), so they would have nothing to encode.
func mangleType(u *model.Unit, t *types.Type) string {
	if t == nil {
		return "v"
	}
	switch t.Family {
	case types.FamilyPrimitive:
		return string(t.Prim.MangleLetter())
	case types.FamilyPointer:
		return "P" + mangleType(u, t.Elem)
	case types.FamilyReference:
		return "R" + mangleType(u, t.Elem)
	case types.FamilyArray:
		return "P" + mangleType(u, t.Elem)
	case types.FamilyStruct:
		if structIdx := u.StructureOf(t); structIdx != model.NoIndex {
			return qualifiedNameEncoding(qualifiedPath(u, structIdx))
		}
		return qualifiedNameEncoding(t.Name.Parts)
	default:
		// FamilyFuncRef/FamilyUnresolved have no encoding in spec.md's
		// table and shouldn't reach a parameter position by the time
		// mangling runs - every function that gets mangled has already
		// passed the resolver, which never leaves a parameter type
		// unresolved or function-typed.
		return "v"
	}
}
