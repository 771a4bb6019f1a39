package tool

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/hupe1980/cmdinvoke/internal/util"
)

// AnthropicTool converts a tool into Anthropic's tool definition format.
func AnthropicTool(t Tool) anthropic.ToolUnionParam {
	params := t.Parameters()
	inputSchema := anthropic.ToolInputSchemaParam{
		Type: constant.Object("object"),
	}
	if properties, exists := params["properties"]; exists {
		inputSchema.Properties = properties
	}
	inputSchema.Required = util.RequiredFields(params["required"])

	u := anthropic.ToolUnionParamOfTool(inputSchema, t.Name())
	if desc := t.Description(); desc != "" && u.OfTool != nil {
		u.OfTool.Description = anthropic.String(desc)
	}
	return u
}

// AnthropicTools converts every tool.
func AnthropicTools(tools ...Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		out[i] = AnthropicTool(t)
	}
	return out
}

// CallAnthropic dispatches a tool_use block to the tool of the same name.
func CallAnthropic(ctx context.Context, tools []Tool, block anthropic.ToolUseBlock) (any, error) {
	raw, err := json.Marshal(block.Input)
	if err != nil {
		return nil, &ToolError{Tool: block.Name, Message: err.Error(), Code: CodeInvalidInput, Details: err}
	}
	return dispatch(ctx, tools, block.Name, raw)
}

// AnthropicResult wraps the outcome of CallAnthropic as a tool_result block.
func AnthropicResult(block anthropic.ToolUseBlock, result any, err error) anthropic.ContentBlockParamUnion {
	content, isError := resultContent(result, err)
	return anthropic.NewToolResultBlock(block.ID, content, isError)
}
