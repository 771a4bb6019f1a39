package invoker

import (
	"context"
	"fmt"

	"github.com/hupe1980/cmdinvoke/flags"
	"github.com/hupe1980/cmdinvoke/signature"
)

// SignatureInvoker is a SimpleInvoker that captures the target signature once,
// at construction, and exposes it.
type SignatureInvoker struct {
	*SimpleInvoker
	sig *signature.Signature
}

// NewSignature creates a SignatureInvoker. A target without a signature
// yields ErrNoSignature.
func NewSignature(target Target, decl map[string]any, optFns ...Option) (*SignatureInvoker, error) {
	table, err := flags.New(decl)
	if err != nil {
		return nil, err
	}
	return newSignature(target, table, buildOptions(optFns))
}

func newSignature(target Target, table flags.Table, opts Options) (*SignatureInvoker, error) {
	sig := target.Signature()
	if sig == nil {
		return nil, fmt.Errorf("target %q: %w", target.Name(), ErrNoSignature)
	}
	return &SignatureInvoker{
		SimpleInvoker: newSimple(target, table, opts),
		sig:           sig,
	}, nil
}

// Signature returns the target signature.
func (s *SignatureInvoker) Signature() *signature.Signature { return s.sig }

// Invoke is SimpleInvoker.Invoke against the captured signature.
func (s *SignatureInvoker) Invoke(ctx context.Context, tokens []any, kwargs map[string]any) (any, error) {
	return s.dispatch(ctx, s.flags, s.sig, tokens, kwargs)
}
