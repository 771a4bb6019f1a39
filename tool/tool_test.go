package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/cmdinvoke/internal/testutil"
	"github.com/hupe1980/cmdinvoke/invoker"
	"github.com/hupe1980/cmdinvoke/signature"
	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumCommand(t *testing.T) *invoker.Command {
	t.Helper()
	sum := func(base int, values ...int) int {
		for _, v := range values {
			base += v
		}
		return base
	}
	inv, err := invoker.New(invoker.MustReflect("sum", sum, signature.Arg("base"), signature.VarArgs("values")), nil)
	require.NoError(t, err)
	return inv.Command()
}

func statusSession(t *testing.T, body invoker.Func) *invoker.SessionInvoker {
	t.Helper()
	target := invoker.MustFunc("status", body,
		signature.PosOnly("path", signature.Of[string]()),
		signature.KwOnly("repo", signature.Of[string]()),
		signature.KwOnly("short", signature.Of[bool](), signature.Default(false)),
	)
	return invoker.NewSession(invoker.MustNew(target, nil), "repo")
}

func echoArgs(_ context.Context, b *signature.Bound) (any, error) { return b.Map(), nil }

// -------------------- Schema Tests --------------------

func TestCommandTool_Parameters(t *testing.T) {
	tl, err := New(statusSession(t, echoArgs).Command(), WithParamDescription("path", "Directory to inspect"))
	require.NoError(t, err)

	schema := tl.Parameters()
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])
	assert.Equal(t, []string{"path"}, schema["required"])

	props := schema["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string", "description": "Directory to inspect"}, props["path"])
	assert.Equal(t, map[string]any{"type": "boolean"}, props["short"])
	assert.NotContains(t, props, "repo")
}

func TestCommandTool_VariadicSchema(t *testing.T) {
	tl, err := New(sumCommand(t))
	require.NoError(t, err)

	props := tl.Parameters()["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "array", "items": map[string]any{"type": "integer"}}, props["values"])
	assert.Equal(t, []string{"base"}, tl.Parameters()["required"])
	assert.Equal(t, "sum", tl.Name())
	assert.Equal(t, "Run the sum command.", tl.Description())
}

func TestCommandTool_DescriptionTemplate(t *testing.T) {
	s := statusSession(t, echoArgs)
	s.Inject(map[string]any{"repo": "xgit"})

	tl, err := New(s.Command(), WithName("git_status"), WithDescription("Show the status of {{.repo}}."))
	require.NoError(t, err)
	assert.Equal(t, "git_status", tl.Name())
	assert.Equal(t, "Show the status of xgit.", tl.Description())
}

// -------------------- Call Tests --------------------

func TestCommandTool_Call(t *testing.T) {
	s := statusSession(t, echoArgs)
	s.Inject(map[string]any{"repo": "xgit"})
	logger := testutil.NewRecordingLogger()

	tl, err := New(s.Command(), WithLogger(logger))
	require.NoError(t, err)

	out, err := tl.Call(context.Background(), map[string]any{"path": "--not-a-flag", "short": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"path": "--not-a-flag", "repo": "xgit", "short": true}, out)
	assert.Equal(t, []string{"tool.call.start", "tool.call.success"}, logger.Messages())
}

func TestCommandTool_CallVariadicFromJSON(t *testing.T) {
	tl, err := New(sumCommand(t))
	require.NoError(t, err)

	var args map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"base": 1, "values": [2, 3]}`), &args))

	out, err := tl.Call(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, 6, out)

	out, err = tl.Call(context.Background(), map[string]any{"base": float64(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, out)
}

func TestCommandTool_ValidationError(t *testing.T) {
	tl, err := New(sumCommand(t))
	require.NoError(t, err)

	_, err = tl.Call(context.Background(), map[string]any{"values": []any{1.0}})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)

	_, err = tl.Call(context.Background(), map[string]any{"base": "one"})
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
}

func TestCommandTool_IntegerOutOfRange(t *testing.T) {
	calls := 0
	target := invoker.MustFunc("resize", func(_ context.Context, b *signature.Bound) (any, error) {
		calls++
		return b.Map(), nil
	},
		signature.Arg("level", signature.Of[int8]()),
		signature.KwOnly("count", signature.Of[uint](), signature.Default(uint(1))),
		signature.KwOnly("sizes", signature.Of[[]uint8](), signature.Default([]uint8(nil))),
	)
	tl, err := New(invoker.MustNew(target, nil).Command())
	require.NoError(t, err)

	for _, args := range []map[string]any{
		{"level": 300.0},
		{"level": 1.0, "count": -1.0},
		{"level": 1.0, "sizes": []any{1.0, 256.0}},
	} {
		_, err = tl.Call(context.Background(), args)
		var toolErr *ToolError
		require.ErrorAs(t, err, &toolErr, "args %v", args)
		assert.Equal(t, CodeValidation, toolErr.Code)
	}
	assert.Zero(t, calls)

	out, err := tl.Call(context.Background(), map[string]any{"level": -128.0, "count": 3.0})
	require.NoError(t, err)
	assert.Equal(t, int8(-128), out.(map[string]any)["level"])
	assert.Equal(t, uint(3), out.(map[string]any)["count"])
}

func TestCommandTool_ArgumentErrorIsValidation(t *testing.T) {
	// Session variable never injected: the invoker rejects the call.
	tl, err := New(statusSession(t, echoArgs).Command())
	require.NoError(t, err)

	_, err = tl.Call(context.Background(), map[string]any{"path": "."})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeValidation, toolErr.Code)
	assert.Contains(t, toolErr.Message, "repo")
}

func TestCommandTool_ExecutionError(t *testing.T) {
	errBoom := errors.New("boom")
	s := statusSession(t, func(context.Context, *signature.Bound) (any, error) { return nil, errBoom })
	s.Inject(map[string]any{"repo": "xgit"})

	tl, err := New(s.Command())
	require.NoError(t, err)

	_, err = tl.Call(context.Background(), map[string]any{"path": "."})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecution, toolErr.Code)
	assert.ErrorIs(t, err, errBoom)
}

func TestCommandTool_ToolErrorForwarded(t *testing.T) {
	custom := NewToolError("status", "denied", "PERMISSION_DENIED")
	s := statusSession(t, func(context.Context, *signature.Bound) (any, error) { return nil, custom })
	s.Inject(map[string]any{"repo": "xgit"})

	tl, err := New(s.Command())
	require.NoError(t, err)

	_, err = tl.Call(context.Background(), map[string]any{"path": "."})
	assert.Same(t, custom, err)
}

func TestToolError_Formatting(t *testing.T) {
	assert.Equal(t, "tool error [X] in t: msg", NewToolError("t", "msg", "X").Error())
	assert.Equal(t, "tool error in t: msg", NewToolError("t", "msg", "").Error())
}

// -------------------- Provider Tests --------------------

func TestAnthropicTool(t *testing.T) {
	tl, err := New(sumCommand(t), WithDescription("Add integers."))
	require.NoError(t, err)

	u := AnthropicTool(tl)
	require.NotNil(t, u.OfTool)
	assert.Equal(t, "sum", u.OfTool.Name)
	assert.Equal(t, []string{"base"}, u.OfTool.InputSchema.Required)
	assert.Equal(t, "Add integers.", u.OfTool.Description.Value)
	assert.Len(t, AnthropicTools(tl, tl), 2)
}

func TestCallAnthropic(t *testing.T) {
	tl, err := New(sumCommand(t))
	require.NoError(t, err)
	tools := []Tool{tl}

	block := anthropic.ToolUseBlock{ID: "toolu_1", Name: "sum", Input: json.RawMessage(`{"base":2,"values":[5]}`)}
	out, err := CallAnthropic(context.Background(), tools, block)
	require.NoError(t, err)
	assert.Equal(t, 7, out)

	_, err = CallAnthropic(context.Background(), tools, anthropic.ToolUseBlock{ID: "toolu_2", Name: "nope"})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeUnknownTool, toolErr.Code)
}

func TestOpenAITool(t *testing.T) {
	tl, err := New(sumCommand(t))
	require.NoError(t, err)

	p := OpenAITool(tl)
	assert.Equal(t, "sum", p.Function.Name)
	assert.Equal(t, "Run the sum command.", p.Function.Description.Value)
	assert.Equal(t, "object", p.Function.Parameters["type"])
	assert.Len(t, OpenAITools(tl), 1)
}

func TestCallOpenAI(t *testing.T) {
	tl, err := New(sumCommand(t))
	require.NoError(t, err)
	tools := []Tool{tl}

	call := openai.ChatCompletionMessageToolCall{
		ID:       "call_1",
		Function: openai.ChatCompletionMessageToolCallFunction{Name: "sum", Arguments: `{"base":1,"values":[1,1]}`},
	}
	out, err := CallOpenAI(context.Background(), tools, call)
	require.NoError(t, err)
	assert.Equal(t, 3, out)

	call.Function.Arguments = `[1]`
	_, err = CallOpenAI(context.Background(), tools, call)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeInvalidInput, toolErr.Code)
}

func TestResultContent(t *testing.T) {
	content, isErr := resultContent(map[string]int{"n": 1}, nil)
	assert.Equal(t, `{"n":1}`, content)
	assert.False(t, isErr)

	content, isErr = resultContent(nil, errors.New("bad"))
	assert.Equal(t, "bad", content)
	assert.True(t, isErr)

	content, _ = resultContent("plain", nil)
	assert.Equal(t, "plain", content)
}
