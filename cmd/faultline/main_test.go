package main

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faultline/internal/config"
	"faultline/internal/oracle"
	"faultline/internal/rulelang"
)

func TestBuildOracle(t *testing.T) {
	o, err := buildOracle(config.OracleStructural)
	require.NoError(t, err)
	assert.IsType(t, oracle.Structural{}, o)

	o, err = buildOracle(config.OracleMangle)
	require.NoError(t, err)
	assert.IsType(t, oracle.Mangle{}, o)

	_, err = buildOracle("drools")
	assert.ErrorContains(t, err, "unknown oracle kind")
}

func TestBuildCompleter(t *testing.T) {
	c, err := buildCompleter(config.CompleterStructured)
	require.NoError(t, err)
	assert.IsType(t, rulelang.StructuredCompleter{}, c)

	c, err = buildCompleter(config.CompleterNaive)
	require.NoError(t, err)
	assert.IsType(t, rulelang.NaiveCompleter{}, c)

	_, err = buildCompleter("greedy")
	assert.ErrorContains(t, err, "unknown completer strategy")
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.rule", "b.rule", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("rule \"x\"\nwhen\nthen\nend\n"), 0o644))
	}

	t.Run("glob expands", func(t *testing.T) {
		files, err := expandArgs([]string{filepath.Join(dir, "*.rule")})
		require.NoError(t, err)
		sort.Strings(files)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.rule"),
			filepath.Join(dir, "b.rule"),
		}, files)
	})

	t.Run("non-matching literal passes through", func(t *testing.T) {
		files, err := expandArgs([]string{filepath.Join(dir, "missing.rule")})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "missing.rule")}, files)
	})

	t.Run("bad pattern rejected", func(t *testing.T) {
		_, err := expandArgs([]string{"[unclosed"})
		assert.ErrorContains(t, err, "bad pattern")
	})
}
