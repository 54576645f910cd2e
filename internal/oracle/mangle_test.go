package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMangle_AcceptsValidProgram(t *testing.T) {
	src := `foo(/a).
foo(/b).
bar(X) :- foo(X).`
	o := Mangle{}

	valid, err := o.IsValid(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, valid)

	msg, err := o.FirstError(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, msg)
}

func TestMangle_RejectsParseError(t *testing.T) {
	src := `foo(/a).
bar(X) :- foo(X.`
	o := Mangle{}

	valid, err := o.IsValid(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, valid)

	msg, err := o.FirstError(context.Background(), src)
	require.NoError(t, err)
	assert.NotEmpty(t, msg, "a rejected program must carry the parser diagnostic")
}

func TestMangle_RejectsAnalysisError(t *testing.T) {
	// Parses fine, but Y in the head is unbound: semantic analysis rejects it.
	src := `foo(/a).
bar(X, Y) :- foo(X).`
	o := Mangle{}

	valid, err := o.IsValid(context.Background(), src)
	require.NoError(t, err)
	assert.False(t, valid)

	msg, err := o.FirstError(context.Background(), src)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
}
