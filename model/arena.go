package model

import (
	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/source"
	"github.com/akashmaji946/klangc/types"
)

// Index is a typed reference into a Unit's node arena. The sentinel
// NoIndex (-1) means "absent"; 0 is a valid index - the Go stand-in for the original's empty
// weak_ptr back-edges (spec.md §9 DESIGN NOTES: "Weak back-edges ... are
// plain indices that may be empty").
type Index int

// NoIndex is the sentinel for an absent reference.
const NoIndex Index = -1

// Node is the single tagged-union record every model entity is stored
// as (spec.md §9 DESIGN NOTES: "model these as sum types with a single
// visit dispatch"). Kind selects which of the fields below are live;
// see the per-kind comments. Fields are grouped by the syntactic family
// that uses them, not deduplicated across families, because the
// entities they represent genuinely don't overlap (a Function's Params
// list and a Call's Args list are both []Index but never the same
// node).
type Node struct {
	Kind   Kind
	Parent Index
	Range  source.Range

	// Resolved type, filled in by the resolver; nil until then for every
	// kind that has one (spec.md §3.7: "every expression node carries a
	// type slot, populated only after resolution").
	Type *types.Type

	// --- Namespace / Structure / Unit-level container ---
	Name     string
	QName    ast.QualifiedName
	Children []Index        // child namespaces/structs/functions/globals, in declaration order
	Vars     map[string]Index // variable-holder: short name -> index of each named child (variable, parameter, function, nested namespace or structure)
	Structs  map[string]Index // namespace only: short name -> Structure index (declared-but-possibly-forward)

	// --- Structure ---
	StructType *types.Type // the interned struct type this Structure models

	// --- Function ---
	Specifiers ast.Specifiers
	ReturnType *types.Type
	Params     []Index // ordered Parameter indices, including an injected "this" at index 0 for members
	Body       Index   // NoIndex for a declaration with no body
	Owner      Index   // owning Structure, or NoIndex for a free function

	// --- Parameter ---
	Position int // spec.md §3.7: 0-based declared position; -1 for the injected "this"

	// --- Variable (namespace global / struct member / local) ---
	Init Index // initializer expression, or NoIndex

	// --- Block ---
	Stmts []Index

	// --- Return / If / While / For / ExprStmt / VariableStmt ---
	Cond  Index // If/While/For condition, or NoIndex for For
	Then  Index // If's then-branch, For/While's body
	Else  Index // If's else-branch, or NoIndex
	Post  Index // For's post-expression, or NoIndex
	Value Index // Return's value, ExprStmt's expression, VariableStmt's Variable node

	// --- Expressions ---
	Literal    lexer.Token
	SymbolName ast.QualifiedName
	Target     Index // resolved Variable/Parameter/Function this Symbol names; NoIndex until resolved
	Op         string
	Prefix     bool    // Unary only: true for prefix (++x), false for postfix (x++)
	Operand    Index   // Unary/Cast/LoadValue/AddressOf operand, or Member's object
	Left       Index   // Binary left operand, Subscript object
	Right      Index   // Binary right operand, Subscript index
	CondExpr   Index   // Conditional's condition
	ThenExpr   Index   // Conditional's then-value
	ElseExpr   Index   // Conditional's else-value
	Callee     Index
	Args       []Index
	Pointer    bool   // Member only: true for "->", false for "."
	Member     string // Member only: field/method name
	CastType   *types.Type
}

// Arena is the append-only store of Node values a Unit owns. Nodes are
// never removed once built - the builder lowers AST to model in one
// forward pass and the resolver only mutates fields in place, matching
// spec.md §3.8's unit lifecycle ("build once, resolve in place, never
// delete").
type Arena struct {
	nodes []Node
}

func (a *Arena) alloc(n Node) Index {
	idx := Index(len(a.nodes))
	a.nodes = append(a.nodes, n)
	return idx
}

// Get returns a pointer to the node at idx for in-place mutation (the
// resolver's primary means of attaching types and targets). Panics on
// NoIndex or an out-of-range index, the same fail-fast contract
// ast/lexer/types already use for programmer errors.
func (a *Arena) Get(idx Index) *Node {
	return &a.nodes[idx]
}

// Len reports how many nodes the arena currently holds.
func (a *Arena) Len() int {
	return len(a.nodes)
}
