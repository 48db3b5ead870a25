package types

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/diag"
)

// Diagnostic codes owned by this subsystem (spec.md §7, class 0x3000).
const (
	CodeUnresolvedStruct = diag.ClassTypes + 0x0001
)

// namedPrimitives is the closed from_string mapping of spec.md §4.3:
// "byte" and "char" both name single-byte integer primitives but are
// kept distinct per the lexer's keyword set - "byte" is treated as the
// unsigned one, "char" as the signed one, which is also the pairing the
// mangler's c/h letters assume.
var namedPrimitives = map[string]Kind{
	"bool":           Bool,
	"byte":           UChar,
	"char":           Char,
	"unsigned char":  UChar,
	"short":          Short,
	"unsigned short": UShort,
	"int":            Int,
	"unsigned int":   UInt,
	"long":           Long,
	"unsigned long":  ULong,
	"float":          Float,
	"double":         Double,
}

// Registry is a per-unit context that hands out interned type handles
// (spec.md §4.3). Create one with NewRegistry per compilation unit.
type Registry struct {
	primitives    map[Kind]*Type
	structs       map[string]*Type // keyed by short (last-component) name
	pending       []*Type          // unresolved types awaiting ResolveTypes
	pendingByName map[string]*Type // same placeholders, keyed by the lookup string that produced them
	funcRefs      map[string]*Type
}

// NewRegistry creates a Registry with every primitive pre-populated.
func NewRegistry() *Registry {
	r := &Registry{
		primitives:    make(map[Kind]*Type),
		structs:       make(map[string]*Type),
		pendingByName: make(map[string]*Type),
		funcRefs:      make(map[string]*Type),
	}
	for k := Void; k <= LongDouble; k++ {
		r.primitives[k] = &Type{Family: FamilyPrimitive, Prim: k}
	}
	return r
}

// FromPrimitiveTag returns the canonical handle for a primitive kind.
func (r *Registry) FromPrimitiveTag(k Kind) *Type {
	return r.primitives[k]
}

// FromString maps a primitive spelling to its handle; failing that, an
// already-registered struct short name; failing that, the pending
// placeholder already handed out for this name, or else a fresh
// unresolved-type handle recorded on the pending list (spec.md §4.3).
// Caching by name here mirrors the struct cache above and the
// signature-keyed func-ref cache (types/funcref.go) - spec.md §8
// Testable Property 3 requires that two calls naming the same
// not-yet-declared type return the identity-equal handle, so two
// forward references ahead of the same struct declaration must share
// one placeholder, not each get their own.
func (r *Registry) FromString(name string) *Type {
	if k, ok := namedPrimitives[name]; ok {
		return r.primitives[k]
	}
	if st, ok := r.structs[name]; ok {
		return st
	}
	if u, ok := r.pendingByName[name]; ok {
		return u
	}
	u := &Type{Family: FamilyUnresolved, Name: ast.NewQualifiedName(false, name)}
	r.pending = append(r.pending, u)
	r.pendingByName[name] = u
	return u
}

// FromKeyword maps a primitive keyword plus the "unsigned" flag to its
// handle, by concatenating "unsigned " as needed and delegating to
// FromString (spec.md §4.3).
func (r *Registry) FromKeyword(kw string, unsigned bool) *Type {
	if unsigned {
		return r.FromString("unsigned " + kw)
	}
	return r.FromString(kw)
}

// FromTypeSpecifier recurses over an AST type specifier, consulting the
// registry for primitive/identifier leaves and composing pointer/
// reference/array postfixes via the derived-type cache (spec.md §4.3).
func (r *Registry) FromTypeSpecifier(spec ast.TypeSpec) *Type {
	switch n := spec.(type) {
	case *ast.PrimitiveTypeSpec:
		return r.FromKeyword(n.Keyword, n.Unsigned)
	case *ast.IdentifiedTypeSpec:
		if n.Name.IsSimple() {
			return r.FromString(n.Name.Last())
		}
		return r.fromQualifiedName(n.Name)
	case *ast.PointerTypeSpec:
		return r.FromTypeSpecifier(n.Elem).Pointer()
	case *ast.ReferenceTypeSpec:
		return r.FromTypeSpecifier(n.Elem).Reference()
	case *ast.ArrayTypeSpec:
		elem := r.FromTypeSpecifier(n.Elem)
		if n.Size == nil {
			return elem.Array()
		}
		return elem.ArrayOf(*n.Size)
	default:
		return r.primitives[Void]
	}
}

// fromQualifiedName resolves a multi-part qualified identifier the same
// way FromString resolves a short name, but keys the pending/struct
// lookup on the full name rather than just the last component, since a
// qualified reference disambiguates which struct it means once
// namespaces are in play.
func (r *Registry) fromQualifiedName(name ast.QualifiedName) *Type {
	key := name.String()
	if st, ok := r.structs[key]; ok {
		return st
	}
	if u, ok := r.pendingByName[key]; ok {
		return u
	}
	u := &Type{Family: FamilyUnresolved, Name: name}
	r.pending = append(r.pending, u)
	r.pendingByName[key] = u
	return u
}

// RegisterStruct interns a struct type under both its short name and
// its full qualified name, so FromString and fromQualifiedName can both
// find it (spec.md §4.3, §4.4 "the builder records member variables and
// member functions"). If an earlier forward reference already produced
// a pending placeholder for this name, that same *Type is promoted to
// the struct in place rather than allocating a new one - so a pointer
// obtained before the struct was declared (e.g. a forward-declared
// parameter's element type) stays identity-equal to the handle returned
// here, and anything keyed off that pointer (model.Unit.StructureOf,
// the derived-type caches in type.go) keeps working once resolved.
func (r *Registry) RegisterStruct(name ast.QualifiedName, members []Member) *Type {
	st := r.takePending(name.Last())
	if st == nil {
		st = r.takePending(name.String())
	}
	if st == nil {
		st = &Type{}
	}
	st.Family = FamilyStruct
	st.Name = name
	st.Members = members
	r.structs[name.Last()] = st
	r.structs[name.String()] = st
	return st
}

// takePending removes and returns the pending placeholder cached under
// key, or nil if none is pending there.
func (r *Registry) takePending(key string) *Type {
	u, ok := r.pendingByName[key]
	if !ok {
		return nil
	}
	delete(r.pendingByName, key)
	for i, p := range r.pending {
		if p == u {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			break
		}
	}
	return u
}

// ResolveTypes walks the pending unresolved list, binding each entry to
// the now-registered struct type of the same name (spec.md §4.3, called
// once the builder has registered every structure). It returns a
// diagnostic-carrying error if any name never resolved.
func (r *Registry) ResolveTypes() error {
	var unresolved []*Type
	for _, u := range r.pending {
		key := u.Name.String()
		lastKey := u.Name.Last()
		st, ok := r.structs[key]
		if !ok {
			st, ok = r.structs[lastKey]
		}
		if !ok {
			unresolved = append(unresolved, u)
			continue
		}
		*u = *st
		delete(r.pendingByName, key)
		delete(r.pendingByName, lastKey)
	}
	r.pending = unresolved
	if len(unresolved) > 0 {
		return &ResolutionError{Names: namesOf(unresolved)}
	}
	return nil
}

func namesOf(ts []*Type) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name.String()
	}
	return names
}

// ResolutionError reports the set of type names that never resolved to
// a registered struct after ResolveTypes ran.
type ResolutionError struct {
	Names []string
}

func (e *ResolutionError) Error() string {
	msg := "unresolved type name(s):"
	for _, n := range e.Names {
		msg += " " + n
	}
	return msg
}
