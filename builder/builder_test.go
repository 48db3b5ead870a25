package builder

import (
	"testing"

	"github.com/akashmaji946/klangc/diag"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/model"
	"github.com/akashmaji946/klangc/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSrc(t *testing.T, src string) (*model.Unit, error) {
	t.Helper()
	lexSink := diag.NewCollector()
	toks := lexer.NewLexer(src, lexSink).Lex()
	require.Empty(t, lexSink.All())
	astUnit, err := parser.New(toks, nil).ParseUnit()
	require.NoError(t, err)
	return New(nil).Build(astUnit)
}

func TestBuildSynthesizesAnonModuleName(t *testing.T) {
	u, err := buildSrc(t, "x: int = 1;")
	require.NoError(t, err)
	assert.Regexp(t, `^anon[0-9a-f]{4}$`, u.Name)
}

func TestBuildUsesDeclaredModuleName(t *testing.T) {
	u, err := buildSrc(t, "module demo; x: int = 1;")
	require.NoError(t, err)
	assert.Equal(t, "demo", u.Name)
}

func TestBuildFunctionWithParamsAndBody(t *testing.T) {
	u, err := buildSrc(t, `
		module demo;
		add(a: int, b: int): int {
			return a + b;
		}
	`)
	require.NoError(t, err)

	fnIdx := u.Node(u.Root).Vars["add"]
	fn := u.Node(fnIdx)
	assert.Equal(t, model.KindFunction, fn.Kind)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, 0, u.Node(fn.Params[0]).Position)
	assert.Equal(t, 1, u.Node(fn.Params[1]).Position)

	body := u.Node(fn.Body)
	require.Len(t, body.Stmts, 1)
	ret := u.Node(body.Stmts[0])
	assert.Equal(t, model.KindReturn, ret.Kind)

	plus := u.Node(ret.Value)
	assert.Equal(t, model.KindBinary, plus.Kind)
	assert.Equal(t, "addition", plus.Op)
}

func TestBuildInjectsThisForMemberFunction(t *testing.T) {
	u, err := buildSrc(t, `
		module demo;
		struct Point {
			public:
			x: int;
			norm(): int {
				return this.x;
			}
		}
	`)
	require.NoError(t, err)

	structIdx := u.Node(u.Root).Structs["Point"]
	st := u.Node(structIdx)
	methodIdx := st.Vars["norm"]
	method := u.Node(methodIdx)
	require.Len(t, method.Params, 1)
	this := u.Node(method.Params[0])
	assert.Equal(t, "this", this.Name)
	assert.Equal(t, -1, this.Position)
	assert.Equal(t, structIdx, method.Owner)

	body := u.Node(method.Body)
	ret := u.Node(body.Stmts[0])
	member := u.Node(ret.Value)
	assert.Equal(t, model.KindMember, member.Kind)
	assert.Equal(t, "x", member.Member)
	assert.False(t, member.Pointer)
	assert.Equal(t, model.KindThis, u.Node(member.Operand).Kind)
}

func TestBuildForIsOwnVariableHolder(t *testing.T) {
	u, err := buildSrc(t, `
		module demo;
		main(): int {
			for (i: int = 0; i < 10; i = i + 1) {
				x: int = i;
			}
			return 0;
		}
	`)
	require.NoError(t, err)

	fnIdx := u.Node(u.Root).Vars["main"]
	body := u.Node(u.Node(fnIdx).Body)
	forIdx := body.Stmts[0]
	forNode := u.Node(forIdx)
	assert.Equal(t, model.KindFor, forNode.Kind)
	_, ok := forNode.Vars["i"]
	assert.True(t, ok)

	// "i" belongs to the for scope, not the enclosing function body.
	assert.NotContains(t, body.Vars, "i")
}

func TestBuildReturnOutsideFunctionIsARejectedParse(t *testing.T) {
	// A bare top-level "return" isn't valid K statement grammar either
	// (statements only occur inside a block), so the builder's 0x20007
	// check is only reachable via a malformed model, not malformed
	// source - this documents that the parser already rejects it.
	toks := lexer.NewLexer("module demo; return 0;", nil).Lex()
	_, perr := parser.New(toks, nil).ParseUnit()
	require.Error(t, perr)
}

func TestBuildEmitsNoDiagnosticsForWellFormedUnit(t *testing.T) {
	sink := diag.NewCollector()
	toks := lexer.NewLexer("module demo; x: int = 1;", nil).Lex()
	astUnit, err := parser.New(toks, nil).ParseUnit()
	require.NoError(t, err)
	_, berr := New(sink).Build(astUnit)
	require.NoError(t, berr)
	assert.Empty(t, sink.All())
}
