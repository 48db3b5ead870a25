package types

import "strings"

// FuncRefBuilder assembles a function-reference type: a return type, a
// parameter type list, and an optional "this"-owner struct type (spec.md
// §4.3 "Function-reference types").
type FuncRefBuilder struct {
	reg    *Registry
	ret    *Type
	params []*Type
	this   *Type
}

// FuncRef starts building a function-reference type against r.
func (r *Registry) FuncRef() *FuncRefBuilder {
	return &FuncRefBuilder{reg: r}
}

func (b *FuncRefBuilder) Returning(t *Type) *FuncRefBuilder {
	b.ret = t
	return b
}

func (b *FuncRefBuilder) Param(t *Type) *FuncRefBuilder {
	b.params = append(b.params, t)
	return b
}

func (b *FuncRefBuilder) Params(ts ...*Type) *FuncRefBuilder {
	b.params = append(b.params, ts...)
	return b
}

func (b *FuncRefBuilder) Owner(this *Type) *FuncRefBuilder {
	b.this = this
	return b
}

// Build produces the interned function-reference type node, caching it
// on the registry keyed by its full signature so two identical
// signatures share one handle.
func (b *FuncRefBuilder) Build() *Type {
	key := b.signature()
	if existing, ok := b.reg.funcRefs[key]; ok {
		return existing
	}
	t := &Type{
		Family: FamilyFuncRef,
		Return: b.ret,
		Params: append([]*Type(nil), b.params...),
		This:   b.this,
	}
	b.reg.funcRefs[key] = t
	return t
}

func (b *FuncRefBuilder) signature() string {
	var sb strings.Builder
	if b.this != nil {
		sb.WriteString("M")
		sb.WriteString(b.this.String())
		sb.WriteString("|")
	}
	if b.ret != nil {
		sb.WriteString(b.ret.String())
	} else {
		sb.WriteString("void")
	}
	sb.WriteString("(")
	for i, p := range b.params {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(")")
	return sb.String()
}
