package cmdinvoke

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/hupe1980/cmdinvoke/internal/testutil"
	"github.com/hupe1980/cmdinvoke/invoker"
	"github.com/hupe1980/cmdinvoke/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, optFns ...func(o *Options)) *Shell {
	t.Helper()
	sh := New(optFns...)

	echo := func(words ...string) string { return strings.Join(words, " ") }
	require.NoError(t, sh.Register("echo", invoker.MustReflect("echo", echo, signature.VarArgs("words")), nil))

	greet := func(name, greeting string, shout bool) string {
		out := fmt.Sprintf("%s, %s", greeting, name)
		if shout {
			out = strings.ToUpper(out)
		}
		return out
	}
	target := invoker.MustReflect("greet", greet,
		signature.Arg("name"),
		signature.KwOnly("greeting"),
		signature.KwOnly("shout", signature.Default(false)),
	)
	require.NoError(t, sh.Register("", target, map[string]any{"s": "shout"}, "greeting"))
	return sh
}

// -------------------- Registry Tests --------------------

func TestShell_Commands(t *testing.T) {
	sh := newTestShell(t)
	assert.Equal(t, []string{"echo", "greet"}, sh.Commands())

	si, ok := sh.Command("greet")
	require.True(t, ok)
	assert.Equal(t, []string{"greeting"}, si.Excluded())

	_, ok = sh.Command("nope")
	assert.False(t, ok)
}

func TestShell_RegisterDuplicate(t *testing.T) {
	sh := newTestShell(t)
	err := sh.Register("echo", invoker.MustReflect("echo", func() {}), nil)
	assert.ErrorIs(t, err, ErrDuplicateCommand)
}

func TestShell_RegisterInvalidFlags(t *testing.T) {
	sh := New()
	err := sh.Register("x", invoker.MustReflect("x", func() {}), map[string]any{"bad": 2.5})
	assert.ErrorIs(t, err, core.ErrInvalidFlagSpec)
}

// -------------------- Run Tests --------------------

func TestShell_Run(t *testing.T) {
	sh := newTestShell(t)
	sh.Inject(map[string]any{"greeting": "Hello"})

	out, err := sh.Run(context.Background(), "greet", []any{"bob"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, bob", out)

	out, err = sh.Run(context.Background(), "greet", []any{"-s", "bob"})
	require.NoError(t, err)
	assert.Equal(t, "HELLO, BOB", out)
}

func TestShell_RunUnknown(t *testing.T) {
	logger := testutil.NewRecordingLogger()
	sh := newTestShell(t, func(o *Options) { o.Logger = logger })

	_, err := sh.Run(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, ok := logger.Find("shell.unknown_command")
	assert.True(t, ok)
}

func TestShell_InjectFiltersByParameter(t *testing.T) {
	sh := newTestShell(t)
	sh.Inject(map[string]any{"greeting": "Hi", "repo": "xgit"})

	// echo declares neither variable, so neither reaches it.
	out, err := sh.Run(context.Background(), "echo", []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a b", out)

	si, _ := sh.Command("greet")
	assert.Equal(t, map[string]any{"greeting": "Hi"}, si.Variables())
	assert.Equal(t, map[string]any{"greeting": "Hi", "repo": "xgit"}, sh.Variables())
}

func TestShell_InjectBeforeRegister(t *testing.T) {
	sh := New()
	sh.Inject(map[string]any{"greeting": "Hey"})

	greet := func(name, greeting string) string { return greeting + " " + name }
	require.NoError(t, sh.Register("greet", invoker.MustReflect("greet", greet, signature.Arg("name"), signature.KwOnly("greeting")), nil, "greeting"))

	out, err := sh.Run(context.Background(), "greet", []any{"ann"})
	require.NoError(t, err)
	assert.Equal(t, "Hey ann", out)
}

func TestShell_RunLine(t *testing.T) {
	env := map[string]string{"USER": "carol"}
	sh := newTestShell(t, func(o *Options) { o.Env = func(k string) string { return env[k] } })
	sh.Inject(map[string]any{"greeting": "Hello", "word": "there"})

	out, err := sh.RunLine(context.Background(), `echo 'a  b' "$word" $USER`)
	require.NoError(t, err)
	assert.Equal(t, "a  b there carol", out)

	out, err = sh.RunLine(context.Background(), `greet --shout "dave"`)
	require.NoError(t, err)
	assert.Equal(t, "HELLO, DAVE", out)

	_, err = sh.RunLine(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyLine)

	_, err = sh.RunLine(context.Background(), `echo "unterminated`)
	assert.Error(t, err)

	_, err = sh.RunLine(context.Background(), `greet`)
	assert.ErrorIs(t, err, core.ErrArgument)
}

// -------------------- Tools Tests --------------------

func TestShell_Tools(t *testing.T) {
	sh := newTestShell(t)
	sh.Inject(map[string]any{"greeting": "Hi"})

	tools, err := sh.Tools()
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "echo", tools[0].Name())
	assert.Equal(t, "greet", tools[1].Name())

	props := tools[1].Parameters()["properties"].(map[string]any)
	assert.NotContains(t, props, "greeting")

	out, err := tools[1].Call(context.Background(), map[string]any{"name": "eve", "shout": true})
	require.NoError(t, err)
	assert.Equal(t, "HI, EVE", out)
}
