package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempSrc(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "in.k")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunDumpsResolvedTree(t *testing.T) {
	path := writeTempSrc(t, `
		module demo;
		answer(): int {
			return 42;
		}
	`)
	var out, errOut bytes.Buffer
	code := run([]string{"--file", path}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut.String())
	assert.Contains(t, out.String(), "Function")
	assert.Contains(t, out.String(), "answer")
}

func TestRunMangleListsSymbols(t *testing.T) {
	path := writeTempSrc(t, `
		module demo;
		sum(a: int, b: int): int {
			return a + b;
		}
	`)
	var out, errOut bytes.Buffer
	code := run([]string{"--file", path, "--mangle", "--dump=false"}, &out, &errOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "_KFN3sumEii")
}

func TestRunMissingFileFlagShowsUsage(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(nil, &out, &errOut)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut.String(), "usage")
}

func TestRunUnreadableFileReportsError(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"--file", filepath.Join(t.TempDir(), "missing.k")}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "klangc-dump")
}

func TestRunReportsDiagnosticsOnUnresolvedSymbol(t *testing.T) {
	path := writeTempSrc(t, `
		module demo;
		f(): int {
			return q;
		}
	`)
	var out, errOut bytes.Buffer
	code := run([]string{"--file", path}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errOut.String())
}
