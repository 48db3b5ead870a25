package resolver

import (
	"strconv"

	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/model"
	"github.com/akashmaji946/klangc/source"
	"github.com/akashmaji946/klangc/types"
)

// resolveExpr fills in idx's Type (and, for Symbol/This, Target) in
// place. Every case below reads whatever child indices/scalars it needs
// from a single fresh Node(idx) fetch before resolving any child -
// resolving a child expression can allocate new nodes (load_value/cast
// injection), which can grow the arena's backing slice, so a *model.Node
// pointer read before that must never be dereferenced again afterward
// (see resolver.go's package doc).
func (r *Resolver) resolveExpr(idx model.Index) {
	switch r.unit.Node(idx).Kind {
	case model.KindLiteral:
		tok := r.unit.Node(idx).Literal
		r.unit.Node(idx).Type = r.literalType(tok)
	case model.KindSymbol:
		r.resolveSymbol(idx)
	case model.KindThis:
		r.resolveThis(idx)
	case model.KindUnary:
		r.resolveUnary(idx)
	case model.KindBinary:
		r.resolveBinary(idx)
	case model.KindConditional:
		r.resolveConditional(idx)
	case model.KindCast:
		r.resolveCast(idx)
	case model.KindSubscript:
		r.resolveSubscript(idx)
	case model.KindCall:
		r.resolveCall(idx)
	case model.KindMember:
		r.resolveMember(idx)
	}
}

func (r *Resolver) literalType(tok lexer.Token) *types.Type {
	reg := r.unit.Registry
	switch tok.Kind {
	case lexer.BoolLiteral:
		return reg.FromPrimitiveTag(types.Bool)
	case lexer.NullLiteral:
		return reg.FromPrimitiveTag(types.Void).Pointer()
	case lexer.CharLiteral:
		return reg.FromPrimitiveTag(types.Char)
	case lexer.StringLiteral:
		// No distinct string primitive exists (spec.md §4.3's Kind enum
		// is purely numeric/bool/void); a string literal's natural type
		// is modeled as a pointer to char, the usual C-family analogue.
		return reg.FromPrimitiveTag(types.Char).Pointer()
	case lexer.FloatLiteral:
		if tok.FloatSize == lexer.SizeFloat {
			return reg.FromPrimitiveTag(types.Float)
		}
		return reg.FromPrimitiveTag(types.Double)
	case lexer.IntLiteral:
		return reg.FromPrimitiveTag(intKindFor(tok.IntSize, tok.IntSigned))
	default:
		return reg.FromPrimitiveTag(types.Void)
	}
}

// intKindFor maps a literal's decoded suffix size to the closest
// registry primitive. SizeLongLong and SizeBigInt both collapse to
// Long/ULong - the registry has no distinct 64-/128-bit integer kind
// (spec.md §4.3's Kind enum stops at Long/ULong; see types/kind.go).
func intKindFor(size lexer.IntSize, signed bool) types.Kind {
	switch size {
	case lexer.SizeByte:
		if signed {
			return types.Char
		}
		return types.UChar
	case lexer.SizeShort:
		if signed {
			return types.Short
		}
		return types.UShort
	case lexer.SizeInt:
		if signed {
			return types.Int
		}
		return types.UInt
	default: // SizeLong, SizeLongLong, SizeBigInt
		if signed {
			return types.Long
		}
		return types.ULong
	}
}

// resolveSymbol binds a Symbol expression to the nearest declaration
// visible at its position (spec.md §4.5 "Symbol resolution"), using the
// symbol's last name component - qualified cross-namespace symbol
// resolution is out of scope, same as cross-unit import resolution
// (spec.md §1's non-goal), since nothing in this single-unit resolver
// needs to disambiguate by namespace prefix.
func (r *Resolver) resolveSymbol(idx model.Index) {
	rng := r.unit.Node(idx).Range
	name := r.unit.Node(idx).SymbolName.Last()

	target := r.unit.Lookup(idx, name)
	if target == model.NoIndex {
		r.fail(rng, CodeUnresolvedSymbol, "unresolved identifier '%s'", name)
		r.unit.Node(idx).Type = nil
		return
	}
	r.unit.Node(idx).Target = target

	tn := r.unit.Node(target)
	if tn.Kind == model.KindFunction {
		r.unit.Node(idx).Type = r.funcRefOf(target)
		return
	}
	r.unit.Node(idx).Type = tn.Type.Reference()
}

// resolveThis binds a This expression to the enclosing member function's
// implicit "this" parameter. Its resolved type is a reference to the
// owning struct, the same type the builder declares for the this
// parameter, because K's member-access syntax always reaches a field
// through `this.field`, the same dot notation any struct reference
// uses, never `this->field`.
func (r *Resolver) resolveThis(idx model.Index) {
	rng := r.unit.Node(idx).Range
	fnIdx := r.unit.EnclosingFunction(idx)
	if fnIdx == model.NoIndex || r.unit.Node(fnIdx).Owner == model.NoIndex {
		r.fail(rng, CodeUnresolvedSymbol, "'this' used outside a member function")
		r.unit.Node(idx).Type = nil
		return
	}
	fn := r.unit.Node(fnIdx)
	thisParam, ok := fn.Vars["this"]
	if !ok {
		r.fail(rng, CodeUnresolvedSymbol, "'this' used outside a member function")
		r.unit.Node(idx).Type = nil
		return
	}
	r.unit.Node(idx).Target = thisParam
	owner := r.unit.Node(fn.Owner).StructType
	r.unit.Node(idx).Type = owner.Reference()
}

func (r *Resolver) funcRefOf(fnIdx model.Index) *types.Type {
	fn := r.unit.Node(fnIdx)
	b := r.unit.Registry.FuncRef().Returning(fn.ReturnType)
	for _, p := range fn.Params {
		pn := r.unit.Node(p)
		if pn.Position == -1 {
			continue // the injected "this" - carried separately as Owner below
		}
		b = b.Param(pn.Type)
	}
	if fn.Owner != model.NoIndex {
		b = b.Owner(r.unit.Node(fn.Owner).StructType)
	}
	return b.Build()
}

// --- Unary ---

func (r *Resolver) resolveUnary(idx model.Index) {
	rng := r.unit.Node(idx).Range
	op := r.unit.Node(idx).Op
	operand := r.unit.Node(idx).Operand

	switch op {
	case "address-of":
		r.resolveExpr(operand) // natural (reference) type, no load
		ot := r.unit.Node(operand).Type
		if ot == nil || !ot.IsReference() {
			r.fail(rng, CodeNotLValue, "cannot take the address of a non-l-value")
			r.unit.Node(idx).Type = nil
			return
		}
		r.unit.Node(idx).Type = ot.Elem.Pointer()

	case "dereference":
		newOperand, ot := r.resolveRValue(idx, operand)
		r.unit.Node(idx).Operand = newOperand
		if ot == nil || !ot.IsPointer() {
			r.fail(rng, CodeNotPointer, "cannot dereference a non-pointer")
			r.unit.Node(idx).Type = nil
			return
		}
		r.unit.Node(idx).Type = ot.Elem.Reference()

	case "logical-not":
		newOperand, ot := r.resolveRValue(idx, operand)
		r.unit.Node(idx).Operand = newOperand
		if !toBoolean(ot) {
			r.fail(rng, CodeNotNumeric, "operand of '!' must be numeric")
		}
		r.unit.Node(idx).Type = r.unit.Registry.FromPrimitiveTag(types.Bool)

	case "unary-plus", "unary-minus", "bitwise-not":
		newOperand, ot := r.resolveRValue(idx, operand)
		r.unit.Node(idx).Operand = newOperand
		if ot == nil || !ot.IsNumeric() {
			r.fail(rng, CodeNotNumeric, "operand of '%s' must be numeric", op)
			r.unit.Node(idx).Type = nil
			return
		}
		r.unit.Node(idx).Type = r.promote(ot)

	case "pre-increment", "post-increment", "pre-decrement", "post-decrement":
		r.resolveExpr(operand) // natural (reference) type, no load
		ot := r.unit.Node(operand).Type
		if ot == nil || !ot.IsReference() || !ot.Elem.IsNumeric() {
			r.fail(rng, CodeNotLValue, "operand of '%s' must be a numeric l-value", op)
			r.unit.Node(idx).Type = nil
			return
		}
		if op == "pre-increment" || op == "pre-decrement" {
			r.unit.Node(idx).Type = ot
		} else {
			r.unit.Node(idx).Type = ot.Elem
		}
	}
}

// --- Binary ---

var compoundArith = map[string]string{
	"addition-assignment":       "addition",
	"subtraction-assignment":    "subtraction",
	"multiplication-assignment": "multiplication",
	"division-assignment":       "division",
	"modulo-assignment":         "modulo",
	"bitwise-and-assignment":    "bitwise-and",
	"bitwise-or-assignment":     "bitwise-or",
	"bitwise-xor-assignment":    "bitwise-xor",
	"shift-left-assignment":     "shift-left",
	"shift-right-assignment":    "shift-right",
}

func (r *Resolver) resolveBinary(idx model.Index) {
	rng := r.unit.Node(idx).Range
	op := r.unit.Node(idx).Op
	left := r.unit.Node(idx).Left
	right := r.unit.Node(idx).Right

	switch {
	case op == "assignment":
		r.resolveAssignment(idx, rng, left, right)
	case compoundArith[op] != "":
		r.resolveCompoundAssignment(idx, rng, op, left, right)
	case op == "logical-or" || op == "logical-and":
		r.resolveLogical(idx, rng, left, right)
	case op == "shift-left" || op == "shift-right":
		r.resolveShift(idx, rng, left, right)
	case isComparison(op):
		r.resolveComparison(idx, rng, op, left, right)
	case op == "pointer-to-member-of-object" || op == "pointer-to-member-of-pointer":
		// Pointer-to-member operators have no representable type shape in
		// this type system (types.Family has no member-pointer family);
		// operands still get resolved for their side effects, but the
		// expression itself can't be typed.
		newLeft, _ := r.resolveRValue(idx, left)
		newRight, _ := r.resolveRValue(idx, right)
		r.unit.Node(idx).Left = newLeft
		r.unit.Node(idx).Right = newRight
		r.fail(rng, CodeNoConversion, "pointer-to-member operators are not supported")
		r.unit.Node(idx).Type = nil
	default: // arithmetic, bitwise
		r.resolveArithmetic(idx, rng, op, left, right)
	}
}

func isComparison(op string) bool {
	switch op {
	case "equal", "not-equal", "less", "less-equal", "greater", "greater-equal", "three-way-compare":
		return true
	default:
		return false
	}
}

func (r *Resolver) resolveArithmetic(idx model.Index, rng source.Range, op string, left, right model.Index) {
	newLeft, lt := r.resolveRValue(idx, left)
	newRight, rt := r.resolveRValue(idx, right)

	common, ok := r.commonArithmeticType(lt, rt)
	if !ok {
		r.fail(rng, CodeNotNumeric, "operands of '%s' must be numeric", op)
		r.unit.Node(idx).Left, r.unit.Node(idx).Right = newLeft, newRight
		r.unit.Node(idx).Type = nil
		return
	}
	newLeft, _ = r.castTo(idx, newLeft, lt, common)
	newRight, _ = r.castTo(idx, newRight, rt, common)
	r.unit.Node(idx).Left, r.unit.Node(idx).Right = newLeft, newRight
	r.unit.Node(idx).Type = common
}

func (r *Resolver) resolveComparison(idx model.Index, rng source.Range, op string, left, right model.Index) {
	newLeft, lt := r.resolveRValue(idx, left)
	newRight, rt := r.resolveRValue(idx, right)

	common, ok := r.commonArithmeticType(lt, rt)
	if !ok {
		r.fail(rng, CodeNotNumeric, "operands of '%s' must be numeric", op)
		r.unit.Node(idx).Left, r.unit.Node(idx).Right = newLeft, newRight
		r.unit.Node(idx).Type = nil
		return
	}
	newLeft, _ = r.castTo(idx, newLeft, lt, common)
	newRight, _ = r.castTo(idx, newRight, rt, common)
	r.unit.Node(idx).Left, r.unit.Node(idx).Right = newLeft, newRight
	if op == "three-way-compare" {
		// No ordering type exists in this system; an int (-1/0/1-style
		// result) is the closest representable analogue.
		r.unit.Node(idx).Type = r.unit.Registry.FromPrimitiveTag(types.Int)
		return
	}
	r.unit.Node(idx).Type = r.unit.Registry.FromPrimitiveTag(types.Bool)
}

func (r *Resolver) resolveLogical(idx model.Index, rng source.Range, left, right model.Index) {
	newLeft, lt := r.resolveRValue(idx, left)
	newRight, rt := r.resolveRValue(idx, right)
	r.unit.Node(idx).Left, r.unit.Node(idx).Right = newLeft, newRight
	if !toBoolean(lt) || !toBoolean(rt) {
		r.fail(rng, CodeNotNumeric, "operands of a logical operator must be numeric")
	}
	r.unit.Node(idx).Type = r.unit.Registry.FromPrimitiveTag(types.Bool)
}

func (r *Resolver) resolveShift(idx model.Index, rng source.Range, left, right model.Index) {
	newLeft, lt := r.resolveRValue(idx, left)
	newRight, rt := r.resolveRValue(idx, right)
	if lt == nil || !lt.IsNumeric() || rt == nil || !rt.IsNumeric() {
		r.fail(rng, CodeNotNumeric, "operands of a shift must be numeric")
		r.unit.Node(idx).Left, r.unit.Node(idx).Right = newLeft, newRight
		r.unit.Node(idx).Type = nil
		return
	}
	promotedLeft := r.promote(lt)
	promotedRight := r.promote(rt)
	newLeft, _ = r.castTo(idx, newLeft, lt, promotedLeft)
	newRight, _ = r.castTo(idx, newRight, rt, promotedRight)
	r.unit.Node(idx).Left, r.unit.Node(idx).Right = newLeft, newRight
	r.unit.Node(idx).Type = promotedLeft
}

// resolveAssignment implements spec.md §4.5's "Assignment family": the
// left side must be an l-value (its natural type a reference); the
// right side is cast to that reference's element type; the expression's
// own type is the left side's reference-typed form, so assignment
// chains (a = b = c) remain l-values.
func (r *Resolver) resolveAssignment(idx model.Index, rng source.Range, left, right model.Index) {
	r.resolveExpr(left) // natural (reference) type, no load
	lt := r.unit.Node(left).Type
	if lt == nil || !lt.IsReference() {
		r.fail(rng, CodeNotLValue, "left side of an assignment must be an l-value")
		newRight, _ := r.resolveRValue(idx, right)
		r.unit.Node(idx).Right = newRight
		r.unit.Node(idx).Type = nil
		return
	}
	newRight, _ := r.resolveRValueCastTo(idx, right, lt.Elem)
	r.unit.Node(idx).Right = newRight
	r.unit.Node(idx).Type = lt
}

// resolveCompoundAssignment handles `+=` and friends: the same l-value
// requirement as plain assignment, but the right side first combines
// with the current r-value of the left side via the underlying binary
// operator's own conversion rule (spec.md §4.5 groups these under one
// "Assignment family" without detailing the combine step explicitly;
// this follows the same usual-arithmetic-conversions rule the plain
// binary operator uses, then casts the combined result back down to the
// left side's element type).
func (r *Resolver) resolveCompoundAssignment(idx model.Index, rng source.Range, op string, left, right model.Index) {
	underlying := compoundArith[op]
	r.resolveExpr(left) // natural (reference) type, no load
	lt := r.unit.Node(left).Type
	if lt == nil || !lt.IsReference() {
		r.fail(rng, CodeNotLValue, "left side of '%s' must be an l-value", op)
		newRight, _ := r.resolveRValue(idx, right)
		r.unit.Node(idx).Right = newRight
		r.unit.Node(idx).Type = nil
		return
	}
	newRight, rt := r.resolveRValue(idx, right)

	var combined *types.Type
	if op == "shift-left-assignment" || op == "shift-right-assignment" {
		if rt == nil || !rt.IsNumeric() {
			r.fail(rng, CodeNotNumeric, "right side of '%s' must be numeric", op)
		} else {
			newRight, _ = r.castTo(idx, newRight, rt, r.promote(rt))
		}
		combined = lt.Elem
	} else {
		ok := false
		combined, ok = r.commonArithmeticType(lt.Elem, rt)
		if !ok {
			r.fail(rng, CodeNotNumeric, "operands of '%s' must be numeric", underlying)
			combined = lt.Elem
		}
	}
	newRight, _ = r.castTo(idx, newRight, rt, combined)
	newRight, _ = r.castTo(idx, newRight, combined, lt.Elem)
	r.unit.Node(idx).Right = newRight
	r.unit.Node(idx).Type = lt
}

func (r *Resolver) resolveConditional(idx model.Index) {
	rng := r.unit.Node(idx).Range
	cond := r.unit.Node(idx).CondExpr
	then := r.unit.Node(idx).ThenExpr
	els := r.unit.Node(idx).ElseExpr

	newCond, ct := r.resolveRValue(idx, cond)
	r.unit.Node(idx).CondExpr = newCond
	if !toBoolean(ct) {
		r.fail(rng, CodeNotNumeric, "conditional expression's condition must be numeric")
	}

	newThen, tt := r.resolveRValue(idx, then)
	newEls, et := r.resolveRValue(idx, els)
	if common, ok := r.commonArithmeticType(tt, et); ok {
		newThen, _ = r.castTo(idx, newThen, tt, common)
		newEls, _ = r.castTo(idx, newEls, et, common)
		r.unit.Node(idx).ThenExpr, r.unit.Node(idx).ElseExpr = newThen, newEls
		r.unit.Node(idx).Type = common
		return
	}
	r.unit.Node(idx).ThenExpr, r.unit.Node(idx).ElseExpr = newThen, newEls
	if tt != et {
		r.fail(rng, CodeNoConversion, "conditional expression's branches have incompatible types %s and %s", typeName(tt), typeName(et))
	}
	r.unit.Node(idx).Type = tt
}

func (r *Resolver) resolveCast(idx model.Index) {
	rng := r.unit.Node(idx).Range
	target := r.unit.Node(idx).CastType
	operand := r.unit.Node(idx).Operand

	newOperand, ot := r.resolveRValue(idx, operand)
	r.unit.Node(idx).Operand = newOperand
	if !castPermitted(ot, target) {
		r.fail(rng, CodeInvalidCast, "cannot cast %s to %s", typeName(ot), typeName(target))
		r.unit.Node(idx).Type = nil
		return
	}
	r.unit.Node(idx).Type = target
}

func (r *Resolver) resolveSubscript(idx model.Index) {
	rng := r.unit.Node(idx).Range
	object := r.unit.Node(idx).Left
	index := r.unit.Node(idx).Right

	newObject, ot := r.resolveRValue(idx, object)
	newIndex, it := r.resolveRValue(idx, index)
	r.unit.Node(idx).Left, r.unit.Node(idx).Right = newObject, newIndex

	if ot == nil || !(ot.IsArray() || ot.IsPointer()) {
		r.fail(rng, CodeNotArrayOrPointer, "subscript target must be an array or a pointer")
		r.unit.Node(idx).Type = nil
		return
	}
	if it == nil || !it.IsNumeric() || !it.Prim.IsInteger() {
		r.fail(rng, CodeNotNumeric, "subscript index must be an integer")
		r.unit.Node(idx).Type = nil
		return
	}
	r.unit.Node(idx).Type = ot.Elem.Reference()
}

func (r *Resolver) resolveCall(idx model.Index) {
	rng := r.unit.Node(idx).Range
	callee := r.unit.Node(idx).Callee
	args := append([]model.Index(nil), r.unit.Node(idx).Args...)

	r.resolveExpr(callee)
	ft := r.unit.Node(callee).Type
	if ft == nil || ft.Family != types.FamilyFuncRef {
		r.fail(rng, CodeNotCallable, "callee does not name a function")
		r.unit.Node(idx).Type = nil
		return
	}

	if len(args) != len(ft.Params) {
		r.fail(rng, CodeArityMismatch, "call has %s argument(s), expected %s", strconv.Itoa(len(args)), strconv.Itoa(len(ft.Params)))
	}
	newArgs := make([]model.Index, len(args))
	for i, a := range args {
		var want *types.Type
		if i < len(ft.Params) {
			want = ft.Params[i]
		}
		newArgs[i], _ = r.resolveRValueCastTo(idx, a, want)
	}

	// An unqualified call to a member function (callee is a bare Symbol,
	// not an explicit obj.method()/obj->method()) implicitly supplies the
	// enclosing method's `this` as the receiver, the call-site mirror of
	// buildFunction injecting the declared "this" parameter.
	if ft.This != nil && r.unit.Node(callee).Kind == model.KindSymbol {
		thisArg := r.unit.NewThis(idx, rng)
		r.resolveExpr(thisArg)
		newArgs = append([]model.Index{thisArg}, newArgs...)
	}

	r.unit.Node(idx).Args = newArgs
	r.unit.Node(idx).Type = ft.Return
}

// resolveMember implements spec.md §4.5's member-of-object/pointer rule.
// For `.`, the object's effective type is its own type (seeing through
// one layer of reference, since a reference-to-struct variable is still
// accessed with `.`, not `->`). For `->`, the object is loaded to an
// r-value first (dereferencing a reference-to-pointer), and that r-value
// must itself be a pointer to a struct.
func (r *Resolver) resolveMember(idx model.Index) {
	rng := r.unit.Node(idx).Range
	object := r.unit.Node(idx).Operand
	pointer := r.unit.Node(idx).Pointer
	name := r.unit.Node(idx).Member

	r.resolveExpr(object)
	ot := r.unit.Node(object).Type

	var structType *types.Type
	if pointer {
		newObject, rt := r.rvalue(idx, object)
		r.unit.Node(idx).Operand = newObject
		if rt != nil && rt.IsPointer() && rt.Elem.IsStruct() {
			structType = rt.Elem
		}
	} else {
		effective := ot
		if effective != nil && effective.IsReference() {
			effective = effective.Elem
		}
		if effective != nil && effective.IsStruct() {
			structType = effective
		}
	}

	if structType == nil {
		r.fail(rng, CodeMemberOfNonStruct, "member access on a non-struct expression")
		r.unit.Node(idx).Type = nil
		return
	}

	if field := structType.Member(name); field != nil {
		r.unit.Node(idx).Type = field.Type.Reference()
		return
	}

	if structIdx := r.unit.StructureOf(structType); structIdx != model.NoIndex {
		if methodIdx, ok := r.unit.Node(structIdx).Vars[name]; ok && r.unit.Node(methodIdx).Kind == model.KindFunction {
			r.unit.Node(idx).Type = r.funcRefOf(methodIdx)
			return
		}
	}

	r.fail(rng, CodeUnknownMember, "'%s' has no member '%s'", structType.String(), name)
	r.unit.Node(idx).Type = nil
}
