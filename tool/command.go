package tool

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"time"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/hupe1980/cmdinvoke/internal/util"
	"github.com/hupe1980/cmdinvoke/invoker"
	"github.com/hupe1980/cmdinvoke/logging"
	"github.com/hupe1980/cmdinvoke/signature"
)

// Options configures a CommandTool.
type Options struct {
	// Name overrides the command name.
	Name string

	// Description is shown to the model. It may reference session variables
	// as text/template fields, e.g. "Show the status of {{.repo}}".
	Description string

	// ParamDescriptions documents individual parameters in the schema.
	ParamDescriptions map[string]string

	// Logger receives tool call events (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Option mutates Options.
type Option func(o *Options)

// WithName overrides the tool name.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithDescription sets the tool description template.
func WithDescription(desc string) Option {
	return func(o *Options) { o.Description = desc }
}

// WithParamDescription documents one parameter.
func WithParamDescription(param, desc string) Option {
	return func(o *Options) {
		if o.ParamDescriptions == nil {
			o.ParamDescriptions = map[string]string{}
		}
		o.ParamDescriptions[param] = desc
	}
}

// WithLogger sets the tool call logger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// variableSource is implemented by session invokers.
type variableSource interface {
	Variables() map[string]any
}

// CommandTool exposes an invoker Command as a Tool.
//
// The parameter schema is derived from the target signature. Parameters the
// command excludes (supplied by a session) are not offered to the model; a
// var-positional parameter appears as an array property of the same name and
// a var-keyword parameter allows additional properties.
//
// Error Semantics:
//
//	*ToolError returned by the target  -> forwarded unchanged
//	schema or argument mismatch        -> *ToolError{Code: "VALIDATION_ERROR"}
//	other error                        -> *ToolError{Code: "EXECUTION_ERROR"}
//
// A CommandTool has no mutable state after construction and is safe for
// concurrent use.
type CommandTool struct {
	command *invoker.Command
	sig     *signature.Signature
	opts    Options
	schema  map[string]any
}

var _ Tool = (*CommandTool)(nil)

// New creates a CommandTool for cmd.
func New(cmd *invoker.Command, optFns ...Option) (*CommandTool, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Name == "" {
		opts.Name = cmd.Name()
	}

	sig := cmd.Dispatcher().Signature()
	if sig == nil {
		return nil, fmt.Errorf("tool %q: %w", opts.Name, invoker.ErrNoSignature)
	}

	t := &CommandTool{command: cmd, sig: sig, opts: opts}
	t.schema = t.buildSchema()
	return t, nil
}

// Name returns the tool name.
func (t *CommandTool) Name() string { return t.opts.Name }

// Description renders the description against the current session
// variables. A template that fails to render is returned verbatim.
func (t *CommandTool) Description() string {
	desc := t.opts.Description
	if desc == "" {
		return fmt.Sprintf("Run the %s command.", t.opts.Name)
	}
	var vars map[string]any
	if src, ok := t.command.Dispatcher().(variableSource); ok {
		vars = src.Variables()
	}
	out, err := util.RenderTemplate(desc, vars)
	if err != nil {
		return desc
	}
	return out
}

// Parameters returns the JSON schema of the accepted arguments.
func (t *CommandTool) Parameters() map[string]any { return t.schema }

func (t *CommandTool) buildSchema() map[string]any {
	properties := map[string]any{}
	required := []string{}
	additional := false
	excluded := t.command.Excluded()

	for _, p := range t.sig.Params() {
		if slices.Contains(excluded, p.Name) {
			continue
		}

		prop := map[string]any{}
		jsonType := util.JSONType(p.Type)
		switch p.Kind {
		case signature.VarKeyword:
			additional = true
			continue
		case signature.VarPositional:
			prop["type"] = "array"
			if jsonType != "" {
				prop["items"] = map[string]any{"type": jsonType}
			}
		default:
			if jsonType != "" {
				prop["type"] = jsonType
			}
			if !p.HasDefault {
				required = append(required, p.Name)
			}
		}
		if desc, ok := t.opts.ParamDescriptions[p.Name]; ok {
			prop["description"] = desc
		}
		properties[p.Name] = prop
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": additional,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Call validates args against the schema, maps them onto the command's
// calling convention and runs it.
//
// Logging Fields:
//
//	tool: tool name
//	duration_ms: execution time in milliseconds
func (t *CommandTool) Call(ctx context.Context, args map[string]any) (any, error) {
	logger := t.opts.Logger
	start := time.Now()
	name := t.opts.Name

	logger.Debug("tool.call.start", "tool", name)

	if args == nil {
		args = map[string]any{}
	}

	if err := util.ValidateParameters(args, t.schema); err != nil {
		logger.Warn("tool.call.validation_failed", "tool", name, "error", err.Error())

		return nil, &ToolError{
			Tool:    name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Details: err,
		}
	}

	tokens, kwargs, err := t.arguments(args)
	if err != nil {
		logger.Warn("tool.call.validation_failed", "tool", name, "error", err.Error())

		return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeValidation, Details: err}
	}

	result, err := t.command.Run(ctx, tokens, kwargs)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) { // Already a ToolError -> just log and forward
			logger.Error("tool.call.error", "tool", name, "error", toolErr.Message)

			return nil, toolErr
		}

		if core.IsArgumentError(err) {
			logger.Warn("tool.call.validation_failed", "tool", name, "error", err.Error())

			return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeValidation, Details: err}
		}

		logger.Error("tool.call.error", "tool", name, "error", err.Error())

		return nil, &ToolError{Tool: name, Message: err.Error(), Code: CodeExecution, Details: err}
	}

	logger.Info("tool.call.success", "tool", name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// arguments splits a JSON argument object into positional tokens and
// keywords. Positional-only parameters are always passed by position;
// positional-or-keyword parameters only when variadic arguments follow them.
// Positional values are placed after "--" so they are never parsed as flags.
func (t *CommandTool) arguments(args map[string]any) ([]any, map[string]any, error) {
	kwargs := maps.Clone(args)
	for _, p := range t.sig.Params() {
		if v, ok := kwargs[p.Name]; ok && p.Kind != signature.VarKeyword {
			c, err := coerce(p.Type, v)
			if err != nil {
				return nil, nil, &ValidationError{Field: p.Name, Message: err.Error()}
			}
			kwargs[p.Name] = c
		}
	}

	var rest []any
	if vp, ok := t.sig.VarPositional(); ok {
		if v, ok := kwargs[vp.Name]; ok {
			values, _ := v.([]any)
			for i, e := range values {
				c, err := coerce(vp.Type, e)
				if err != nil {
					return nil, nil, &ValidationError{Field: fmt.Sprintf("%s[%d]", vp.Name, i), Message: err.Error()}
				}
				rest = append(rest, c)
			}
			delete(kwargs, vp.Name)
		}
	}

	tokens := []any{"--"}
	for _, p := range t.sig.Params() {
		if !p.IsPositional() {
			continue
		}
		v, ok := kwargs[p.Name]
		if p.Kind == signature.PositionalOrKeyword && len(rest) == 0 {
			continue
		}
		if !ok {
			if !p.HasDefault {
				if len(rest) > 0 {
					return nil, nil, &ValidationError{Field: p.Name, Message: "required when variadic arguments are given"}
				}
				break
			}
			v = p.Default
		}
		tokens = append(tokens, v)
		delete(kwargs, p.Name)
	}
	return append(tokens, rest...), kwargs, nil
}

// coerce adapts JSON decoded values to the declared Go type where the
// decoder's choice differs: integral float64 numbers become integers.
// Numbers the integer type cannot hold are rejected.
func coerce(t reflect.Type, v any) (any, error) {
	if t == nil || v == nil {
		return v, nil
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return v, nil
		}
		dst := reflect.New(t).Elem()
		if t.Kind() >= reflect.Uint {
			if f < 0 || f >= math.Exp2(64) || dst.OverflowUint(uint64(f)) {
				return nil, fmt.Errorf("value %v out of range for %s", f, t)
			}
			dst.SetUint(uint64(f))
			return dst.Interface(), nil
		}
		if f < math.MinInt64 || f >= math.Exp2(63) || dst.OverflowInt(int64(f)) {
			return nil, fmt.Errorf("value %v out of range for %s", f, t)
		}
		dst.SetInt(int64(f))
		return dst.Interface(), nil
	case reflect.Slice:
		if values, ok := v.([]any); ok {
			out := make([]any, len(values))
			for i, e := range values {
				c, err := coerce(t.Elem(), e)
				if err != nil {
					return nil, fmt.Errorf("element %d: %w", i, err)
				}
				out[i] = c
			}
			return out, nil
		}
	}
	return v, nil
}
