package resolver

import "github.com/akashmaji946/klangc/types"

// promote applies integer promotion (spec.md §4.5 "Unary arithmetic"): a
// narrower-than-int integer kind, or bool, widens to int; everything else
// (floats, int-and-wider, non-primitives) is unchanged.
func (r *Resolver) promote(t *types.Type) *types.Type {
	if t == nil || !t.IsPrimitive() {
		return t
	}
	intT := r.unit.Registry.FromPrimitiveTag(types.Int)
	if t.Prim == types.Bool {
		return intT
	}
	if t.Prim.IsInteger() && t.Prim.Rank() < intT.Prim.Rank() {
		return intT
	}
	return t
}

// commonArithmeticType implements the "usual arithmetic conversions"
// (spec.md §4.5 "Binary arithmetic"): promote both operands, then if
// exactly one is floating the result is that operand's floating kind,
// and if both are floating the result is their shared kind or, when
// they differ, double; otherwise pick the wider integer rank, and the
// unsigned variant on a tie.
func (r *Resolver) commonArithmeticType(a, b *types.Type) (*types.Type, bool) {
	if a == nil || b == nil || !a.IsNumeric() || !b.IsNumeric() {
		return nil, false
	}
	pa, pb := r.promote(a), r.promote(b)

	if pa.Prim.IsFloating() || pb.Prim.IsFloating() {
		switch {
		case pa.Prim.IsFloating() && pb.Prim.IsFloating():
			if pa.Prim == pb.Prim {
				return pa, true
			}
			return r.unit.Registry.FromPrimitiveTag(types.Double), true
		case pa.Prim.IsFloating():
			return pa, true
		default:
			return pb, true
		}
	}

	if pa.Prim.Rank() == pb.Prim.Rank() {
		if pa.Prim.IsUnsigned() {
			return pa, true
		}
		if pb.Prim.IsUnsigned() {
			return pb, true
		}
		return pa, true
	}
	if pa.Prim.Rank() > pb.Prim.Rank() {
		return pa, true
	}
	return pb, true
}

// toBoolean reports whether t can be compared to zero for a logical
// operator (spec.md §4.5 "Logical &&/||": "cast to boolean (zero/non-zero
// for numerics"). Reference dereferencing happens earlier, in rvalue.
func toBoolean(t *types.Type) bool {
	return t != nil && t.IsNumeric()
}

// castPermitted implements spec.md §4.5's cast-expression conversion
// table - numeric↔numeric (bool is numeric, so bool↔numeric falls out of
// the same check), pointer↔pointer of compatible element - and doubles
// as the permission check for every resolver-injected implicit cast
// (assignment RHS, call argument, return value), since none of those
// contexts introduce a conversion this table doesn't already cover.
func castPermitted(from, to *types.Type) bool {
	if from == to {
		return true
	}
	if from == nil || to == nil {
		return false
	}
	if from.IsNumeric() && to.IsNumeric() {
		return true
	}
	if from.IsPointer() && to.IsPointer() {
		if from.Elem == to.Elem {
			return true
		}
		return isVoidPtrElem(from.Elem) || isVoidPtrElem(to.Elem)
	}
	return false
}

func isVoidPtrElem(t *types.Type) bool {
	return t != nil && t.IsPrimitive() && t.Prim == types.Void
}
