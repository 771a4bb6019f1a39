package flags

import (
	"testing"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Canonical(t *testing.T) {
	table, err := New(map[string]any{
		"a": true,
		"b": 0,
		"c": 1,
		"d": "+",
		"e": "*",
		"f": false,
		"g": "good",
		"h": Spec{Arity: One, Target: "k_h"},
		"i": "dry-run",
		"j": uint8(1),
		"k": OneOrMore,
	})
	require.NoError(t, err)

	assert.Equal(t, Table{
		"a": {BooleanTrue, "a"},
		"b": {ZeroArg, "b"},
		"c": {One, "c"},
		"d": {OneOrMore, "d"},
		"e": {ZeroOrMore, "e"},
		"f": {BooleanFalse, "f"},
		"g": {BooleanTrue, "good"},
		"h": {One, "k_h"},
		"i": {BooleanTrue, "dry_run"},
		"j": {One, "j"},
		"k": {OneOrMore, "k"},
	}, table)
}

func TestNew_Invalid(t *testing.T) {
	for name, value := range map[string]any{
		"list":        []string{"cow"},
		"two":         2,
		"negative":    -1,
		"float":       1.0,
		"nil":         nil,
		"empty":       "",
		"spec target": Spec{Arity: One},
		"spec arity":  Spec{Arity: Arity(42), Target: "x"},
		"map":         map[string]any{},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := New(map[string]any{"flag1": value})
			assert.ErrorIs(t, err, core.ErrInvalidFlagSpec)

			var specErr *core.InvalidFlagSpecError
			if assert.ErrorAs(t, err, &specErr) {
				assert.Equal(t, "flag1", specErr.Key)
			}
		})
	}
}

func TestNew_Empty(t *testing.T) {
	table, err := New(nil)
	require.NoError(t, err)
	assert.Empty(t, table)
}

func TestMustNew_Panics(t *testing.T) {
	assert.Panics(t, func() { MustNew(map[string]any{"x": []int{1}}) })
	assert.NotPanics(t, func() { MustNew(map[string]any{"x": 1}) })
}

func TestArity(t *testing.T) {
	assert.True(t, BooleanTrue.IsBoolean())
	assert.True(t, BooleanFalse.IsBoolean())
	assert.False(t, One.IsBoolean())
	assert.True(t, BooleanTrue.Bool())
	assert.False(t, BooleanFalse.Bool())
	assert.Equal(t, "+", OneOrMore.String())
	assert.Equal(t, "*", ZeroOrMore.String())
	assert.Equal(t, "UNKNOWN", Arity(99).String())
}

func TestTable_Helpers(t *testing.T) {
	table := MustNew(map[string]any{"b": 1, "a": true})
	assert.Equal(t, []string{"a", "b"}, table.Keys())

	clone := table.Clone()
	clone["c"] = Spec{Arity: ZeroArg, Target: "c"}
	_, ok := table.Lookup("c")
	assert.False(t, ok)

	spec, ok := clone.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, Spec{Arity: One, Target: "b"}, spec)
}
