package parser

import (
	"testing"

	"github.com/akashmaji946/klangc/ast"
	"github.com/akashmaji946/klangc/diag"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) (*ast.Unit, error) {
	t.Helper()
	toks := lexer.NewLexer(src, nil).Lex()
	return New(toks, nil).ParseUnit()
}

func TestParserModuleAndImports(t *testing.T) {
	u, err := parseSrc(t, `module demo::pkg; import foo; import bar;`)
	require.NoError(t, err)
	require.NotNil(t, u.ModuleName)
	assert.Equal(t, "demo::pkg", u.ModuleName.String())
	require.Len(t, u.Imports, 2)
	assert.Equal(t, "foo", u.Imports[0].Name)
	assert.Equal(t, "bar", u.Imports[1].Name)
}

func TestParserFunctionDecl(t *testing.T) {
	u, err := parseSrc(t, `
		static add(a: int, b: int): int {
			return a + b;
		}
	`)
	require.NoError(t, err)
	require.Len(t, u.Decls, 1)
	fn, ok := u.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.True(t, fn.Specifiers.Static)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
}

func TestParserVariableDeclWithInit(t *testing.T) {
	u, err := parseSrc(t, `const x: int = 5;`)
	require.NoError(t, err)
	require.Len(t, u.Decls, 1)
	v, ok := u.Decls[0].(*ast.VariableDecl)
	require.True(t, ok)
	assert.True(t, v.Specifiers.Const)
	assert.Equal(t, "x", v.Name)
	require.NotNil(t, v.Init)
	lit, ok := v.Init.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.IntLiteral, lit.Token.Kind)
}

func TestParserStructWithVisibilityAndMembers(t *testing.T) {
	u, err := parseSrc(t, `
		struct Point {
			public:
			x: int;
			y: int;
			getX(): int { return x; }
		}
	`)
	require.NoError(t, err)
	require.Len(t, u.Decls, 1)
	st, ok := u.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", st.Name)
	require.Len(t, st.Members, 4)
	_, ok = st.Members[0].(*ast.VisibilityDecl)
	require.True(t, ok)
	_, ok = st.Members[3].(*ast.FunctionDecl)
	require.True(t, ok)
}

func TestParserTypeSpecPostfixes(t *testing.T) {
	u, err := parseSrc(t, `x: int*&[4];`)
	require.NoError(t, err)
	v := u.Decls[0].(*ast.VariableDecl)
	arr, ok := v.Type.(*ast.ArrayTypeSpec)
	require.True(t, ok)
	require.NotNil(t, arr.Size)
	assert.EqualValues(t, 4, *arr.Size)
	ref, ok := arr.Elem.(*ast.ReferenceTypeSpec)
	require.True(t, ok)
	ptr, ok := ref.Elem.(*ast.PointerTypeSpec)
	require.True(t, ok)
	prim, ok := ptr.Elem.(*ast.PrimitiveTypeSpec)
	require.True(t, ok)
	assert.Equal(t, "int", prim.Keyword)
}

func TestParserUnsignedPrimitive(t *testing.T) {
	u, err := parseSrc(t, `x: unsigned int;`)
	require.NoError(t, err)
	v := u.Decls[0].(*ast.VariableDecl)
	prim, ok := v.Type.(*ast.PrimitiveTypeSpec)
	require.True(t, ok)
	assert.True(t, prim.Unsigned)
	assert.Equal(t, "int", prim.Keyword)
}

func TestParserIfWhileFor(t *testing.T) {
	u, err := parseSrc(t, `
		f(): int {
			if (x > 0) {
				return 1;
			} else {
				return 0;
			}
			while (x < 10) {
				x = x + 1;
			}
			for (i: int = 0; i < 10; i = i + 1) {
				x = x + i;
			}
			return x;
		}
	`)
	require.NoError(t, err)
	fn := u.Decls[0].(*ast.FunctionDecl)
	require.Len(t, fn.Body.Stmts, 4)
	_, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	_, ok = fn.Body.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok)
	forStmt, ok := fn.Body.Stmts[2].(*ast.ForStmt)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	assert.Equal(t, "i", forStmt.Init.Name)
}

func TestParserCastAndPointerMember(t *testing.T) {
	u, err := parseSrc(t, `
		f(): int {
			return (int)p->x + obj.y;
		}
	`)
	require.NoError(t, err)
	fn := u.Decls[0].(*ast.FunctionDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	bin := ret.Value.(*ast.BinaryExpr)
	cast, ok := bin.Left.(*ast.CastExpr)
	require.True(t, ok)
	member, ok := cast.Operand.(*ast.MemberExpr)
	require.True(t, ok)
	assert.True(t, member.Pointer)
	rhsMember, ok := bin.Right.(*ast.MemberExpr)
	require.True(t, ok)
	assert.False(t, rhsMember.Pointer)
}

func TestParserConditionalAndAssignmentRightAssociative(t *testing.T) {
	u, err := parseSrc(t, `
		f(): int {
			a = b = c ? d : e;
			return 0;
		}
	`)
	require.NoError(t, err)
	fn := u.Decls[0].(*ast.FunctionDecl)
	stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	outer, ok := stmt.Expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "=", outer.Op)
	inner, ok := outer.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "=", inner.Op)
	_, ok = inner.Right.(*ast.ConditionalExpr)
	require.True(t, ok)
}

func TestParserNamespaceAndCallArgs(t *testing.T) {
	u, err := parseSrc(t, `
		namespace n {
			f(a: int, b: int): int {
				return g(a, b, 1);
			}
		}
	`)
	require.NoError(t, err)
	ns, ok := u.Decls[0].(*ast.NamespaceDecl)
	require.True(t, ok)
	require.NotNil(t, ns.Name)
	assert.Equal(t, "n", *ns.Name)
	fn := ns.Decls[0].(*ast.FunctionDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	call, ok := ret.Value.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 3)
}

func TestParserMalformedInputEmitsDiagnostic(t *testing.T) {
	coll := diag.NewCollector()
	toks := lexer.NewLexer(`x: int`, nil).Lex() // missing ';'
	_, err := New(toks, coll).ParseUnit()
	require.Error(t, err)
	assert.NotEmpty(t, coll.All())
}
