package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Find returns the tool with the given name.
func Find(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

func dispatch(ctx context.Context, tools []Tool, name string, raw []byte) (any, error) {
	t, ok := Find(tools, name)
	if !ok {
		return nil, NewToolError(name, "no such tool", CodeUnknownTool)
	}

	args := map[string]any{}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &args); err != nil {
			return nil, &ToolError{
				Tool:    name,
				Message: fmt.Sprintf("arguments are not a JSON object: %v", err),
				Code:    CodeInvalidInput,
				Details: err,
			}
		}
	}
	return t.Call(ctx, args)
}

// resultContent renders a call outcome as text for a provider result message.
func resultContent(result any, err error) (string, bool) {
	if err != nil {
		return err.Error(), true
	}
	switch v := result.(type) {
	case nil:
		return "", false
	case string:
		return v, false
	}
	b, mErr := json.Marshal(result)
	if mErr != nil {
		return fmt.Sprintf("%v", result), false
	}
	return string(b), false
}
