package model

import (
	"bytes"
	"fmt"

	"github.com/akashmaji946/klangc/types"
)

const dumpIndentSize = 2

// Dumper renders a Unit's node tree as indented text, one line per
// node, child lines indented under their parent - the same recursive
// indent-and-append-to-a-buffer shape as the teacher's PrintingVisitor,
// adapted to single-dispatch-by-Kind over the arena instead of one
// VisitX method per Go type, since model nodes are one tagged struct,
// not a family of concrete types.
type Dumper struct {
	unit   *Unit
	indent int
	buf    bytes.Buffer
}

// NewDumper creates a Dumper over unit.
func NewDumper(unit *Unit) *Dumper {
	return &Dumper{unit: unit}
}

// String returns the accumulated dump text.
func (d *Dumper) String() string {
	return d.buf.String()
}

// Dump renders the unit's root namespace and everything beneath it.
func (d *Dumper) Dump() string {
	d.buf.Reset()
	d.visit(d.unit.Root)
	return d.String()
}

func (d *Dumper) writeLine(format string, args ...any) {
	d.buf.WriteString(spaces(d.indent))
	d.buf.WriteString(fmt.Sprintf(format, args...))
	d.buf.WriteString("\n")
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func (d *Dumper) nested(body func()) {
	d.indent += dumpIndentSize
	body()
	d.indent -= dumpIndentSize
}

// visit dispatches idx by Kind, writing one header line then
// recursing into its live children at increased indent. NoIndex is
// silently skipped so callers never need a guard before recursing into
// an optional slot (Else, Init, Value, ...).
func (d *Dumper) visit(idx Index) {
	if idx == NoIndex {
		return
	}
	n := d.unit.Node(idx)
	switch n.Kind {
	case KindNamespace:
		d.writeLine("Namespace %s", n.QName.String())
		d.nested(func() {
			for _, c := range n.Children {
				d.visit(c)
			}
		})
	case KindStructure:
		d.writeLine("Structure %s", n.Name)
		d.nested(func() {
			for _, c := range n.Children {
				d.visit(c)
			}
		})
	case KindFunction:
		d.writeLine("Function %s -> %s", n.Name, typeString(n.ReturnType))
		d.nested(func() {
			for _, p := range n.Params {
				d.visit(p)
			}
			d.visit(n.Body)
		})
	case KindParameter:
		d.writeLine("Parameter %s : %s (pos %d)", n.Name, typeString(n.Type), n.Position)
	case KindVariable:
		d.writeLine("Variable %s : %s", n.Name, typeString(n.Type))
		d.nested(func() { d.visit(n.Init) })
	case KindBlock:
		d.writeLine("Block")
		d.nested(func() {
			for _, s := range n.Stmts {
				d.visit(s)
			}
		})
	case KindReturn:
		d.writeLine("Return")
		d.nested(func() { d.visit(n.Value) })
	case KindIf:
		d.writeLine("If")
		d.nested(func() {
			d.visit(n.Cond)
			d.visit(n.Then)
			d.visit(n.Else)
		})
	case KindWhile:
		d.writeLine("While")
		d.nested(func() {
			d.visit(n.Cond)
			d.visit(n.Then)
		})
	case KindFor:
		d.writeLine("For")
		d.nested(func() {
			d.visit(n.Value)
			d.visit(n.Cond)
			d.visit(n.Post)
			d.visit(n.Then)
		})
	case KindExprStmt:
		d.writeLine("ExprStmt")
		d.nested(func() { d.visit(n.Value) })
	case KindVariableStmt:
		d.writeLine("VariableStmt")
		d.nested(func() { d.visit(n.Value) })
	case KindLiteral:
		d.writeLine("Literal %s : %s", n.Literal.Text, typeString(n.Type))
	case KindSymbol:
		d.writeLine("Symbol %s : %s", n.SymbolName.String(), typeString(n.Type))
	case KindThis:
		d.writeLine("This : %s", typeString(n.Type))
	case KindUnary:
		d.writeLine("Unary %s (prefix=%t) : %s", n.Op, n.Prefix, typeString(n.Type))
		d.nested(func() { d.visit(n.Operand) })
	case KindBinary:
		d.writeLine("Binary %s : %s", n.Op, typeString(n.Type))
		d.nested(func() {
			d.visit(n.Left)
			d.visit(n.Right)
		})
	case KindConditional:
		d.writeLine("Conditional : %s", typeString(n.Type))
		d.nested(func() {
			d.visit(n.CondExpr)
			d.visit(n.ThenExpr)
			d.visit(n.ElseExpr)
		})
	case KindCast:
		d.writeLine("Cast -> %s", typeString(n.CastType))
		d.nested(func() { d.visit(n.Operand) })
	case KindSubscript:
		d.writeLine("Subscript : %s", typeString(n.Type))
		d.nested(func() {
			d.visit(n.Left)
			d.visit(n.Right)
		})
	case KindCall:
		d.writeLine("Call : %s", typeString(n.Type))
		d.nested(func() {
			d.visit(n.Callee)
			for _, a := range n.Args {
				d.visit(a)
			}
		})
	case KindMember:
		op := "."
		if n.Pointer {
			op = "->"
		}
		d.writeLine("Member %s%s : %s", op, n.Member, typeString(n.Type))
		d.nested(func() { d.visit(n.Operand) })
	case KindLoadValue:
		d.writeLine("LoadValue : %s", typeString(n.Type))
		d.nested(func() { d.visit(n.Operand) })
	case KindAddressOf:
		d.writeLine("AddressOf : %s", typeString(n.Type))
		d.nested(func() { d.visit(n.Operand) })
	default:
		d.writeLine("<invalid node kind %d>", n.Kind)
	}
}

func typeString(t *types.Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}
