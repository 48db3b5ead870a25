package types

import (
	"fmt"

	"github.com/akashmaji946/klangc/ast"
)

// Family is the closed set of type shapes a Type can take (spec.md
// §3.6).
type Family int

const (
	FamilyPrimitive Family = iota
	FamilyPointer
	FamilyReference
	FamilyArray
	FamilyStruct
	FamilyFuncRef
	FamilyUnresolved
)

// Member is one field of a struct type, recorded by the builder as it
// walks a struct's member variable declarations (spec.md §4.4).
type Member struct {
	Name string
	Type *Type
}

// Type is an interned type handle (spec.md §3.6 "Types (interned)").
// Every Type is built and owned by exactly one Registry; callers
// compare types by pointer identity, never by structural equality,
// which is the entire point of interning.
type Type struct {
	Family Family

	// Primitive (Family == FamilyPrimitive)
	Prim Kind

	// Pointer / Reference / unsized-or-sized Array (Family ==
	// FamilyPointer/FamilyReference/FamilyArray)
	Elem   *Type
	Sized  bool
	Extent int64

	// Struct / Unresolved (Family == FamilyStruct/FamilyUnresolved)
	Name    ast.QualifiedName
	Members []Member

	// Function reference (Family == FamilyFuncRef)
	Return *Type
	Params []*Type
	This   *Type // nullable: nil for a free function

	// Derived-form caches, populated at most once per spec.md §4.3.
	ptrCache      *Type
	refCache      *Type
	arrCache      *Type
	sizedArrCache map[int64]*Type
}

// Pointer returns (creating and caching on first use) the pointer-to-t
// type.
func (t *Type) Pointer() *Type {
	if t.ptrCache == nil {
		t.ptrCache = &Type{Family: FamilyPointer, Elem: t}
	}
	return t.ptrCache
}

// Reference returns (creating and caching on first use) the
// reference-to-t type.
func (t *Type) Reference() *Type {
	if t.refCache == nil {
		t.refCache = &Type{Family: FamilyReference, Elem: t}
	}
	return t.refCache
}

// Array returns (creating and caching on first use) the unsized
// array-of-t type.
func (t *Type) Array() *Type {
	if t.arrCache == nil {
		t.arrCache = &Type{Family: FamilyArray, Elem: t}
	}
	return t.arrCache
}

// ArrayOf returns (creating and caching on first use, keyed by size)
// the sized array-of-t[n] type.
func (t *Type) ArrayOf(n int64) *Type {
	if t.sizedArrCache == nil {
		t.sizedArrCache = make(map[int64]*Type)
	}
	if existing, ok := t.sizedArrCache[n]; ok {
		return existing
	}
	arr := &Type{Family: FamilyArray, Elem: t, Sized: true, Extent: n}
	t.sizedArrCache[n] = arr
	return arr
}

// IsStruct, IsPointer, IsReference, IsArray, IsUnresolved report the
// type's family.
func (t *Type) IsStruct() bool     { return t.Family == FamilyStruct }
func (t *Type) IsPointer() bool    { return t.Family == FamilyPointer }
func (t *Type) IsReference() bool  { return t.Family == FamilyReference }
func (t *Type) IsArray() bool      { return t.Family == FamilyArray }
func (t *Type) IsUnresolved() bool { return t.Family == FamilyUnresolved }
func (t *Type) IsPrimitive() bool  { return t.Family == FamilyPrimitive }

// IsNumeric reports whether t is directly usable in arithmetic: any
// primitive except void.
func (t *Type) IsNumeric() bool {
	return t.Family == FamilyPrimitive && t.Prim != Void
}

// Member looks up a direct member by name, returning nil if absent.
func (t *Type) Member(name string) *Member {
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i]
		}
	}
	return nil
}

// String renders a human-readable type name for diagnostics and dump
// output.
func (t *Type) String() string {
	switch t.Family {
	case FamilyPrimitive:
		return t.Prim.String()
	case FamilyPointer:
		return t.Elem.String() + "*"
	case FamilyReference:
		return t.Elem.String() + "&"
	case FamilyArray:
		if t.Sized {
			return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Extent)
		}
		return t.Elem.String() + "[]"
	case FamilyStruct:
		return t.Name.String()
	case FamilyUnresolved:
		return "unresolved:" + t.Name.String()
	case FamilyFuncRef:
		s := "("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ") -> "
		if t.Return != nil {
			s += t.Return.String()
		} else {
			s += "void"
		}
		return s
	default:
		return "?"
	}
}
