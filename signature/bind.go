package signature

import (
	"sort"
	"strings"

	"github.com/hupe1980/cmdinvoke/core"
)

// Bound holds the arguments matched to a signature. Defaults have been
// applied; the var-positional parameter (if declared) holds a []any and the
// var-keyword parameter a map[string]any.
type Bound struct {
	sig    *Signature
	values map[string]any
}

// Bind matches positional and keyword arguments against the signature, the
// same way a call would. Any mismatch is reported as a *core.ArgumentError.
// The inputs are not retained.
func (s *Signature) Bind(args []any, kwargs map[string]any) (*Bound, error) {
	b := &Bound{sig: s, values: make(map[string]any, len(s.params))}

	positional := make([]Param, 0, len(s.params))
	for _, p := range s.params {
		if p.IsPositional() {
			positional = append(positional, p)
		}
	}

	n := min(len(args), len(positional))
	for i := 0; i < n; i++ {
		b.values[positional[i].Name] = args[i]
	}
	if extra := args[n:]; len(extra) > 0 {
		vp, ok := s.VarPositional()
		if !ok {
			return nil, core.NewArgumentError("too many positional arguments: takes %d but %d were given", len(positional), len(args))
		}
		b.values[vp.Name] = append([]any{}, extra...)
	}

	_, hasVarKeyword := s.VarKeyword()
	var overflow map[string]any
	if hasVarKeyword {
		overflow = map[string]any{}
	}

	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		p, known := s.Param(k)
		switch {
		case known && (p.Kind == PositionalOrKeyword || p.Kind == KeywordOnly):
			if _, dup := b.values[k]; dup {
				return nil, core.NewArgumentError("multiple values for argument %q", k)
			}
			b.values[k] = kwargs[k]
		case hasVarKeyword:
			overflow[k] = kwargs[k]
		case known && p.Kind == PositionalOnly:
			return nil, core.NewArgumentError("positional-only argument %q passed as keyword", k)
		default:
			return nil, core.NewArgumentError("unexpected keyword argument %q", k)
		}
	}

	var missing []string
	for _, p := range s.params {
		if _, ok := b.values[p.Name]; ok {
			continue
		}
		switch {
		case p.Kind == VarPositional:
			b.values[p.Name] = []any{}
		case p.Kind == VarKeyword:
			b.values[p.Name] = overflow
		case p.HasDefault:
			b.values[p.Name] = p.Default
		default:
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewArgumentError("missing required argument(s): %s", strings.Join(missing, ", "))
	}

	return b, nil
}

// Signature returns the signature the arguments were bound to.
func (b *Bound) Signature() *Signature { return b.sig }

// Lookup returns the value bound to the named parameter.
func (b *Bound) Lookup(name string) (any, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Get returns the value bound to the named parameter, or nil.
func (b *Bound) Get(name string) any { return b.values[name] }

// Set replaces the value bound to a declared parameter. It is a no-op for
// unknown names; transforms use it to swap in converted values.
func (b *Bound) Set(name string, v any) {
	if _, ok := b.sig.index[name]; ok {
		b.values[name] = v
	}
}

// Args returns the values collected by the var-positional parameter.
func (b *Bound) Args() []any {
	vp, ok := b.sig.VarPositional()
	if !ok {
		return nil
	}
	args, _ := b.values[vp.Name].([]any)
	return args
}

// Kwargs returns the keywords collected by the var-keyword parameter.
func (b *Bound) Kwargs() map[string]any {
	vk, ok := b.sig.VarKeyword()
	if !ok {
		return nil
	}
	kwargs, _ := b.values[vk.Name].(map[string]any)
	return kwargs
}

// Map returns a copy of all bound values keyed by parameter name.
func (b *Bound) Map() map[string]any {
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Value returns the named argument converted to T.
func Value[T any](b *Bound, name string) (T, bool) {
	v, ok := b.values[name].(T)
	return v, ok
}
