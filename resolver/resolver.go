/*
Package resolver implements K's symbol-and-type resolver (spec.md §4.5):
the pass that walks a model.Unit already built by builder, binds every
Symbol/This expression to the declaration it names, and fills in every
expression node's Type, injecting load_value/cast nodes where the model's
natural (possibly reference) type doesn't already match what the
enclosing operator needs.

Unlike builder.Builder, which panics on the first fatal structural
problem (BuildError) because a malformed AST shape genuinely can't be
lowered any further, this resolver keeps walking after a diagnostic: a
type mismatch on one statement doesn't prevent checking the rest of the
unit, so one run surfaces every problem instead of stopping at the
first. ResolutionError (errors.go) is only raised once, at the end of
Resolve, if anything went wrong.

Because model.Unit's arena is append-only (model/arena.go's Arena.alloc
calls append, which may reallocate the backing slice), a *model.Node
pointer obtained before an allocation-causing call - resolving a child
expression, injecting a load_value or cast - must never be written
through afterward; every resolve function here re-fetches unit.Node(idx)
immediately before each read or write that matters, rather than holding
one across a call that might grow the arena.
*/
package resolver

import (
	"github.com/akashmaji946/klangc/diag"
	"github.com/akashmaji946/klangc/model"
	"github.com/akashmaji946/klangc/source"
	"github.com/akashmaji946/klangc/types"
)

// Resolver walks one model.Unit in place.
type Resolver struct {
	unit *model.Unit
	sink diag.Sink
	errs []*diag.Diagnostic
}

// New creates a Resolver reporting into sink.
func New(sink diag.Sink) *Resolver {
	return &Resolver{sink: sink}
}

// Resolve type-checks and binds every declaration in u, mutating its
// model tree in place. It returns a *ResolutionError if any diagnostic
// of error severity was emitted.
func (r *Resolver) Resolve(u *model.Unit) error {
	r.unit = u
	r.errs = nil

	if err := u.Registry.ResolveTypes(); err != nil {
		r.fail(source.Range{}, CodeUnresolvedTypes, "%s", err.Error())
	}
	r.resolveContainer(u.Root)

	if len(r.errs) > 0 {
		return &ResolutionError{Diagnostics: r.errs}
	}
	return nil
}

func (r *Resolver) fail(rng source.Range, code uint32, template string, args ...string) {
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
	if r.sink != nil {
		r.sink.Emit(d)
	}
	r.errs = append(r.errs, d)
}

// resolveContainer visits every child of a Namespace/Structure node,
// dispatching each to its own resolve routine.
func (r *Resolver) resolveContainer(idx model.Index) {
	children := append([]model.Index(nil), r.unit.Node(idx).Children...)
	for _, c := range children {
		switch r.unit.Node(c).Kind {
		case model.KindNamespace, model.KindStructure:
			r.resolveContainer(c)
		case model.KindFunction:
			r.resolveFunction(c)
		case model.KindVariable:
			r.resolveVariableDecl(c)
		}
	}
}

func (r *Resolver) resolveFunction(fnIdx model.Index) {
	body := r.unit.Node(fnIdx).Body
	if body != model.NoIndex {
		r.resolveStmt(body)
	}
}

// resolveVariableDecl resolves vIdx's initializer (if any) as an r-value
// cast to the variable's declared type - the same "cast to target type"
// rule spec.md §4.5 states for assignment and call arguments, applied
// here to initialization.
func (r *Resolver) resolveVariableDecl(vIdx model.Index) {
	v := r.unit.Node(vIdx)
	init := v.Init
	declared := v.Type
	if init == model.NoIndex {
		return
	}
	newInit, _ := r.resolveRValueCastTo(vIdx, init, declared)
	r.unit.Node(vIdx).Init = newInit
}

// resolveStmt dispatches by statement kind, re-reading child indices
// fresh each time to stay correct across any arena growth a nested
// resolveExpr call triggers (see package doc).
func (r *Resolver) resolveStmt(idx model.Index) {
	switch r.unit.Node(idx).Kind {
	case model.KindBlock:
		stmts := append([]model.Index(nil), r.unit.Node(idx).Stmts...)
		for _, s := range stmts {
			r.resolveStmt(s)
		}

	case model.KindReturn:
		value := r.unit.Node(idx).Value
		if value == model.NoIndex {
			return
		}
		var want *types.Type
		if fnIdx := r.unit.EnclosingFunction(idx); fnIdx != model.NoIndex {
			want = r.unit.Node(fnIdx).ReturnType
		}
		newVal, _ := r.resolveRValueCastTo(idx, value, want)
		r.unit.Node(idx).Value = newVal

	case model.KindIf:
		cond, then, els := r.unit.Node(idx).Cond, r.unit.Node(idx).Then, r.unit.Node(idx).Else
		newCond, ct := r.resolveRValue(idx, cond)
		r.unit.Node(idx).Cond = newCond
		r.requireBoolean(idx, ct)
		r.resolveStmt(then)
		if els != model.NoIndex {
			r.resolveStmt(els)
		}

	case model.KindWhile:
		cond, body := r.unit.Node(idx).Cond, r.unit.Node(idx).Then
		newCond, ct := r.resolveRValue(idx, cond)
		r.unit.Node(idx).Cond = newCond
		r.requireBoolean(idx, ct)
		r.resolveStmt(body)

	case model.KindFor:
		init, cond, post, body := r.unit.Node(idx).Value, r.unit.Node(idx).Cond, r.unit.Node(idx).Post, r.unit.Node(idx).Then
		if init != model.NoIndex {
			r.resolveVariableDecl(init)
		}
		if cond != model.NoIndex {
			newCond, ct := r.resolveRValue(idx, cond)
			r.unit.Node(idx).Cond = newCond
			r.requireBoolean(idx, ct)
		}
		if post != model.NoIndex {
			newPost, _ := r.resolveRValue(idx, post)
			r.unit.Node(idx).Post = newPost
		}
		r.resolveStmt(body)

	case model.KindExprStmt:
		value := r.unit.Node(idx).Value
		newVal, _ := r.resolveRValue(idx, value)
		r.unit.Node(idx).Value = newVal

	case model.KindVariableStmt:
		r.resolveVariableDecl(r.unit.Node(idx).Value)
	}
}

func (r *Resolver) requireBoolean(ctx model.Index, t *types.Type) {
	if toBoolean(t) {
		return
	}
	r.fail(r.unit.Node(ctx).Range, CodeNotNumeric, "condition must be a numeric/boolean expression")
}

// rvalue loads idx's operand if its natural type is a reference
// (spec.md §4.5 "Load-value injection"), returning the possibly-wrapped
// index and its resulting (always non-reference) type. parent is the
// index whose own field will be updated to the returned index by the
// caller.
func (r *Resolver) rvalue(parent, idx model.Index) (model.Index, *types.Type) {
	t := r.unit.Node(idx).Type
	if t == nil || !t.IsReference() {
		return idx, t
	}
	elem := t.Elem
	wrapped := r.unit.NewLoadValue(parent, idx, elem)
	return wrapped, elem
}

// castTo wraps idx in a cast node to target if its current type differs
// from target and the conversion is permitted (spec.md §4.5 "Implicit
// cast injection"). idx must already be an r-value. Returns the
// (possibly wrapped) index and the resulting type; on an impermissible
// conversion it emits a diagnostic and returns idx unchanged.
func (r *Resolver) castTo(parent, idx model.Index, from, target *types.Type) (model.Index, *types.Type) {
	if target == nil || from == nil || from == target {
		// A nil from means the operand already failed to resolve and
		// carries its own diagnostic.
		return idx, from
	}
	if !castPermitted(from, target) {
		r.fail(r.unit.Node(idx).Range, CodeNoConversion, "cannot convert %s to %s", typeName(from), typeName(target))
		return idx, from
	}
	wrapped := r.unit.NewCast(parent, r.unit.Node(idx).Range, target, idx)
	return wrapped, target
}

// resolveRValue resolves idx (an expression occupying a field of the
// parent node) and loads it to an r-value if its natural type is a
// reference.
func (r *Resolver) resolveRValue(parent, idx model.Index) (model.Index, *types.Type) {
	r.resolveExpr(idx)
	t := r.unit.Node(idx).Type
	newIdx, newT := r.rvalue(parent, idx)
	if newIdx != idx {
		t = newT
	}
	return newIdx, t
}

// resolveRValueCastTo resolves idx to an r-value and then, if target is
// known and differs, injects an implicit cast to it.
func (r *Resolver) resolveRValueCastTo(parent, idx model.Index, target *types.Type) (model.Index, *types.Type) {
	rv, t := r.resolveRValue(parent, idx)
	if target == nil {
		return rv, t
	}
	return r.castTo(parent, rv, t, target)
}

func typeName(t *types.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}
