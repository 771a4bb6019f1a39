package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(&out)
	cmd.SetArgs(args)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// -------------------- Run Tests --------------------

func TestRun_Echo(t *testing.T) {
	out, err := execute(t, "run", "echo", "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)

	out, err = execute(t, "run", "echo", "-u", "hello", "--", "--world")
	require.NoError(t, err)
	assert.Equal(t, "HELLO --WORLD\n", out)
}

func TestRun_Sum(t *testing.T) {
	out, err := execute(t, "run", "sum", "1", "2", "3")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)

	_, err = execute(t, "run", "sum", "1", "x")
	assert.ErrorIs(t, err, core.ErrArgument)
}

func TestRun_GreetSessionVariable(t *testing.T) {
	out, err := execute(t, "run", "greet", "bob")
	require.NoError(t, err)
	assert.Equal(t, "Hello, bob!\n", out)

	out, err = execute(t, "--set", "greeting=Howdy", "run", "greet", "-s", "-n", "2", "bob")
	require.NoError(t, err)
	assert.Equal(t, "HOWDY, BOB! HOWDY, BOB!\n", out)

	out, err = execute(t, "run", "greet", "--times", "0", "bob")
	assert.Error(t, err)
	assert.False(t, core.IsArgumentError(err))
	assert.Contains(t, out, "usage: greet")
}

func TestRun_Unknown(t *testing.T) {
	_, err := execute(t, "run", "nope")
	assert.Error(t, err)
}

func TestLine(t *testing.T) {
	out, err := execute(t, "--set", "who=world", "line", `echo "hello   there" $who`)
	require.NoError(t, err)
	assert.Equal(t, "hello   there world\n", out)
}

// -------------------- Introspection Tests --------------------

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "echo")
	assert.Contains(t, out, "greet")
	assert.Contains(t, out, "sum")
}

func TestSignature(t *testing.T) {
	out, err := execute(t, "signature", "greet")
	require.NoError(t, err)
	assert.Contains(t, out, `"--times"`)
	assert.NotContains(t, out, `"--greeting"`)
	assert.Contains(t, out, "-s")
}

func TestTools(t *testing.T) {
	out, err := execute(t, "tools")
	require.NoError(t, err)

	var defs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &defs))
	assert.Len(t, defs, 3)

	_, err = execute(t, "tools", "--provider", "anthropic")
	require.NoError(t, err)

	_, err = execute(t, "tools", "--provider", "other")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "list")
	assert.Error(t, err)
}
