package invoker

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/cmdinvoke/argsplit"
	"github.com/hupe1980/cmdinvoke/flags"
	"github.com/hupe1980/cmdinvoke/signature"
)

// SimpleInvoker invokes a target using only explicitly declared flags.
// It is safe for concurrent use.
type SimpleInvoker struct {
	target Target
	flags  flags.Table
	opts   Options
}

// NewSimple creates a SimpleInvoker. decl is canonicalized with flags.New;
// malformed entries yield a *core.InvalidFlagSpecError.
func NewSimple(target Target, decl map[string]any, optFns ...Option) (*SimpleInvoker, error) {
	table, err := flags.New(decl)
	if err != nil {
		return nil, err
	}
	return newSimple(target, table, buildOptions(optFns)), nil
}

func newSimple(target Target, table flags.Table, opts Options) *SimpleInvoker {
	return &SimpleInvoker{target: target, flags: table, opts: opts}
}

// Target returns the invoked target.
func (s *SimpleInvoker) Target() Target { return s.target }

// Name returns the target name.
func (s *SimpleInvoker) Name() string { return s.target.Name() }

// Flags returns a copy of the recognized flags.
func (s *SimpleInvoker) Flags() flags.Table { return s.flags.Clone() }

// ExtractKeywords classifies tokens against the recognized flags.
func (s *SimpleInvoker) ExtractKeywords(tokens []any) (*argsplit.ArgSplit, error) {
	return argsplit.Split(tokens, s.flags)
}

// Invoke parses tokens, unifies the result with kwargs (kwargs win) and calls
// the target. The signature is taken from the target on every call.
func (s *SimpleInvoker) Invoke(ctx context.Context, tokens []any, kwargs map[string]any) (any, error) {
	return s.dispatch(ctx, s.flags, s.target.Signature(), tokens, kwargs)
}

// dispatch is the shared invocation path of every invoker flavour.
func (s *SimpleInvoker) dispatch(ctx context.Context, table flags.Table, sig *signature.Signature, tokens []any, kwargs map[string]any) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := s.opts.Logger
	name := s.target.Name()
	id := s.opts.NewID()
	start := time.Now()

	logger.Debug("invoke.start", "command", name, "invocation_id", id, "tokens", len(tokens))

	if sig == nil {
		err := fmt.Errorf("target %q: %w", name, ErrNoSignature)
		logger.Error("invoke.error", "command", name, "invocation_id", id, "error", err.Error())
		return nil, err
	}

	bound, err := s.bind(table, sig, tokens, kwargs)
	if err != nil {
		logger.Warn("invoke.argument_error", "command", name, "invocation_id", id, "error", err.Error())
		return nil, err
	}

	result, err := s.target.Call(ctx, bound)
	if err != nil {
		logger.Error("invoke.error", "command", name, "invocation_id", id, "error", err.Error())
		return nil, err
	}

	logger.Info("invoke.success", "command", name, "invocation_id", id, "duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// bind performs every dispatch-level step before the call. Every error it
// returns is an argument error; nothing has been called yet.
func (s *SimpleInvoker) bind(table flags.Table, sig *signature.Signature, tokens []any, kwargs map[string]any) (*signature.Bound, error) {
	split, err := argsplit.Split(tokens, table)
	if err != nil {
		return nil, err
	}

	positional := append(split.Positional, split.OverflowPositional...)
	bound, err := sig.Bind(positional, split.Unify(kwargs))
	if err != nil {
		return nil, err
	}

	if s.opts.Transforms != nil {
		if err := s.opts.Transforms.Apply(bound); err != nil {
			return nil, err
		}
	}
	if checker, ok := s.target.(ArgumentChecker); ok {
		if err := checker.CheckArguments(bound); err != nil {
			return nil, err
		}
	}
	return bound, nil
}
