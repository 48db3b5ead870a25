package model

// Lookup walks the scope chain starting at scope and returns the first
// binding of name found, or NoIndex if none exists anywhere up to the
// root namespace.
//
// This is the single consolidated replacement for the source repo's
// forward-declared-but-never-implemented family of lookup_block/
// lookup_function/lookup_struct overloads (spec.md §9 DESIGN NOTES,
// "Source-repo oddities to flag") - every variable-holder kind
// (Block, For, Function, Structure, Namespace) is walked by the same
// function instead of one per kind, because IsVariableHolder already
// makes them interchangeable for this purpose.
//
// The order matches spec.md §4.5's symbol resolution order: innermost
// block/for scope, then the enclosing function's parameters (which
// includes the injected "this" for a member function), then - for a
// member function - the owning structure's members, then the
// namespace chain up to the root.
func (u *Unit) Lookup(scope Index, name string) Index {
	for idx := scope; idx != NoIndex; idx = u.Node(idx).Parent {
		n := u.Node(idx)
		if n.Kind.IsVariableHolder() {
			if found, ok := n.Vars[name]; ok {
				return found
			}
			if n.Kind == KindFunction && n.Owner != NoIndex {
				if found := u.Lookup(n.Owner, name); found != NoIndex {
					return found
				}
			}
		}
	}
	return NoIndex
}

// LookupStruct walks the namespace chain starting at scope looking for
// a structure declared (or forward-declared) under name, returning
// NoIndex if none is found by the time the root namespace is reached.
func (u *Unit) LookupStruct(scope Index, name string) Index {
	for idx := scope; idx != NoIndex; idx = u.Node(idx).Parent {
		n := u.Node(idx)
		if n.Kind == KindNamespace {
			if found, ok := n.Structs[name]; ok {
				return found
			}
		}
	}
	return NoIndex
}

// EnclosingFunction returns the nearest Function ancestor of idx, or
// NoIndex if idx is not nested inside one (e.g. a namespace-level
// global variable's initializer).
func (u *Unit) EnclosingFunction(idx Index) Index {
	for cur := idx; cur != NoIndex; cur = u.Node(cur).Parent {
		if u.Node(cur).Kind == KindFunction {
			return cur
		}
	}
	return NoIndex
}
