package invoker

import (
	"context"

	"github.com/hupe1980/cmdinvoke/argsplit"
	"github.com/hupe1980/cmdinvoke/core"
	"github.com/hupe1980/cmdinvoke/flags"
	"github.com/hupe1980/cmdinvoke/signature"
)

// Invoker extends the explicit flag table with flags inferred from the target
// signature. Explicit entries are never overridden. The combined table and
// the Command façade are built once, at construction.
type Invoker struct {
	*SignatureInvoker
	combined flags.Table
	command  *Command
}

// New creates an Invoker.
func New(target Target, decl map[string]any, optFns ...Option) (*Invoker, error) {
	table, err := flags.New(decl)
	if err != nil {
		return nil, err
	}
	si, err := newSignature(target, table, buildOptions(optFns))
	if err != nil {
		return nil, err
	}
	inv := &Invoker{
		SignatureInvoker: si,
		combined:         InferFlags(si.sig, table),
	}
	inv.command = NewCommand(inv)
	return inv, nil
}

// MustNew is like New but panics on error.
func MustNew(target Target, decl map[string]any, optFns ...Option) *Invoker {
	inv, err := New(target, decl, optFns...)
	if err != nil {
		panic(err)
	}
	return inv
}

// InferFlags layers signature-inferred flags underneath explicit:
//
//	bool typed parameter      --name      => {BooleanTrue, name}
//	positional-only           not flag addressable
//	positional-or-keyword     --name x    => {One, name}
//	var-positional            --name x... => {ZeroOrMore, name}
//	keyword-only              --name x    => {One, name}
//	var-keyword               absorbs overflow keywords instead
//
// Lookup keys use hyphens (`dry_run` is `--dry-run`); targets keep the
// parameter name. Parameters whose name or key is declared explicitly are
// skipped.
func InferFlags(sig *signature.Signature, explicit flags.Table) flags.Table {
	out := explicit.Clone()
	if sig == nil {
		return out
	}
	for _, p := range sig.Params() {
		key := core.Hyphenate(p.Name)
		if _, ok := explicit[p.Name]; ok {
			continue
		}
		if _, ok := out[key]; ok {
			continue
		}

		var arity flags.Arity
		switch {
		case p.IsBool():
			arity = flags.BooleanTrue
		case p.Kind == signature.PositionalOrKeyword, p.Kind == signature.KeywordOnly:
			arity = flags.One
		case p.Kind == signature.VarPositional:
			arity = flags.ZeroOrMore
		default:
			continue
		}
		out[key] = flags.Spec{Arity: arity, Target: p.Name}
	}
	return out
}

// Flags returns a copy of the combined flag table.
func (inv *Invoker) Flags() flags.Table { return inv.combined.Clone() }

// ExplicitFlags returns a copy of the explicitly declared flags.
func (inv *Invoker) ExplicitFlags() flags.Table { return inv.flags.Clone() }

// ExtractKeywords classifies tokens against the combined flag table.
func (inv *Invoker) ExtractKeywords(tokens []any) (*argsplit.ArgSplit, error) {
	return argsplit.Split(tokens, inv.combined)
}

// Invoke parses tokens against the combined table and calls the target.
func (inv *Invoker) Invoke(ctx context.Context, tokens []any, kwargs map[string]any) (any, error) {
	return inv.dispatch(ctx, inv.combined, inv.sig, tokens, kwargs)
}

// Command returns the Command façade for this invoker.
func (inv *Invoker) Command() *Command { return inv.command }
