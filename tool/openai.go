package tool

import (
	"context"

	"github.com/openai/openai-go"
)

// OpenAITool converts a tool into OpenAI's function tool format.
func OpenAITool(t Tool) openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Type: "function",
		Function: openai.FunctionDefinitionParam{
			Name:        t.Name(),
			Description: openai.String(t.Description()),
			Parameters:  t.Parameters(),
		},
	}
}

// OpenAITools converts every tool.
func OpenAITools(tools ...Tool) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		out[i] = OpenAITool(t)
	}
	return out
}

// CallOpenAI dispatches a chat completion tool call to the tool of the same name.
func CallOpenAI(ctx context.Context, tools []Tool, call openai.ChatCompletionMessageToolCall) (any, error) {
	return dispatch(ctx, tools, call.Function.Name, []byte(call.Function.Arguments))
}

// OpenAIResult wraps the outcome of CallOpenAI as a tool message.
func OpenAIResult(call openai.ChatCompletionMessageToolCall, result any, err error) openai.ChatCompletionMessageParamUnion {
	content, _ := resultContent(result, err)
	return openai.ToolMessage(content, call.ID)
}
