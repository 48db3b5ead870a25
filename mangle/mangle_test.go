package mangle

import (
	"testing"

	"github.com/akashmaji946/klangc/builder"
	"github.com/akashmaji946/klangc/diag"
	"github.com/akashmaji946/klangc/lexer"
	"github.com/akashmaji946/klangc/model"
	"github.com/akashmaji946/klangc/parser"
	"github.com/stretchr/testify/require"
)

func buildSrc(t *testing.T, src string) *model.Unit {
	t.Helper()
	lexSink := diag.NewCollector()
	toks := lexer.NewLexer(src, lexSink).Lex()
	require.Empty(t, lexSink.All())
	astUnit, perr := parser.New(toks, nil).ParseUnit()
	require.NoError(t, perr)
	u, berr := builder.New(nil).Build(astUnit)
	require.NoError(t, berr)
	return u
}

// spec.md §6.7: top-level `sum(int,int):int` → `_KFN3sumEii`.
func TestFunctionMangleTopLevel(t *testing.T) {
	u := buildSrc(t, `
		module demo;
		sum(a: int, b: int): int {
			return a + b;
		}
	`)
	fnIdx := u.Node(u.Root).Vars["sum"]
	assert := require.New(t)
	assert.Equal("_KFN3sumEii", Function(u, fnIdx))
}

// spec.md §6.7: method `Point::add(int):int` → `_KFMN5Point3addEi`.
func TestFunctionMangleMember(t *testing.T) {
	u := buildSrc(t, `
		module demo;
		struct Point {
			public:
			add(a: int): int {
				return a;
			}
		}
	`)
	structIdx := u.Node(u.Root).Structs["Point"]
	fnIdx := u.Node(structIdx).Vars["add"]
	require.Equal(t, "_KFMN5Point3addEi", Function(u, fnIdx))
}

// spec.md §6.7: global `counter:int` → `_KVN7counterE`.
func TestVariableMangleGlobal(t *testing.T) {
	u := buildSrc(t, `
		module demo;
		counter: int = 0;
	`)
	varIdx := u.Node(u.Root).Vars["counter"]
	require.Equal(t, "_KVN7counterE", Variable(u, varIdx))
}

// spec.md §8 S4: a zero-argument member function's mangled name begins
// `_KFMN1P3sumE` followed by the empty-parameter-list marker.
func TestFunctionMangleMemberNoArgs(t *testing.T) {
	u := buildSrc(t, `
		module demo;
		struct P {
			public:
			a: int;
			b: int;
			sum(): int {
				return a + b;
			}
		}
	`)
	structIdx := u.Node(u.Root).Structs["P"]
	fnIdx := u.Node(structIdx).Vars["sum"]
	require.Equal(t, "_KFMN1P3sumEv", Function(u, fnIdx))
}

// Invariant: a free function and a member function of the same short
// name and signature never collide.
func TestFunctionMangleDistinguishesFreeFromMember(t *testing.T) {
	u := buildSrc(t, `
		module demo;
		run(): int {
			return 0;
		}
		struct Job {
			public:
			run(): int {
				return 1;
			}
		}
	`)
	freeIdx := u.Node(u.Root).Vars["run"]
	structIdx := u.Node(u.Root).Structs["Job"]
	memberIdx := u.Node(structIdx).Vars["run"]

	freeMangled := Function(u, freeIdx)
	memberMangled := Function(u, memberIdx)
	require.NotEqual(t, freeMangled, memberMangled)
	require.Equal(t, "_KFN3runEv", freeMangled)
	require.Equal(t, "_KFMN3Job3runEv", memberMangled)
}

// Invariant: two member functions with the same qualified name that
// differ only in parameter signature (built here in two separate units)
// get distinct mangled names, and re-mangling one is deterministic.
func TestFunctionMangleDistinguishesBySignature(t *testing.T) {
	u := buildSrc(t, `
		module demo;
		struct Vec {
			public:
			scale(k: int): int {
				return k;
			}
		}
	`)
	structIdx := u.Node(u.Root).Structs["Vec"]
	fnIdx := u.Node(structIdx).Vars["scale"]

	first := Function(u, fnIdx)
	second := Function(u, fnIdx)
	require.Equal(t, first, second)
	require.Equal(t, "_KFMN3Vec5scaleEi", first)

	other := buildSrc(t, `
		module demo;
		struct Vec {
			public:
			scale(k: long): int {
				return 0;
			}
		}
	`)
	otherIdx := other.Node(other.Node(other.Root).Structs["Vec"]).Vars["scale"]
	otherMangled := Function(other, otherIdx)
	require.NotEqual(t, first, otherMangled)
	require.Equal(t, "_KFMN3Vec5scaleEx", otherMangled)
}

// Pointer parameters encode with the `P` prefix over the pointee's own
// encoding.
func TestFunctionManglePointerParam(t *testing.T) {
	u := buildSrc(t, `
		module demo;
		set(p: int*): int {
			return 0;
		}
	`)
	fnIdx := u.Node(u.Root).Vars["set"]
	require.Equal(t, "_KFN3setEPi", Function(u, fnIdx))
}
