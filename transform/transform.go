// Package transform is the extension point for argument value conversion.
//
// The invocation engine classifies and routes tokens but never converts
// them. A Transformer registered for a parameter name turns the raw bound
// value (usually a string token) into a richer value before the target runs,
// and may offer completion candidates to external tooling. Nothing here is
// applied automatically: an invoker opts in with invoker.WithTransforms.
package transform

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/hupe1980/cmdinvoke/signature"
)

// Transformer converts the value bound to one named parameter.
type Transformer interface {
	// Name is the parameter this transformer applies to.
	Name() string
	Transform(v any) (any, error)
}

// Completer is implemented by transformers that can suggest values.
type Completer interface {
	Complete(prefix string) []string
}

var stringType = reflect.TypeOf((*string)(nil)).Elem()

// ArgTransform describes a conversion from Source to Target for a parameter
// declared as Declared. On its own it is the identity transform.
type ArgTransform struct {
	name     string
	declared reflect.Type
	target   reflect.Type
	source   reflect.Type
}

// NewArgTransform creates an identity transform descriptor. A nil source
// defaults to string, the type of a raw token.
func NewArgTransform(name string, declared, target, source reflect.Type) *ArgTransform {
	if source == nil {
		source = stringType
	}
	return &ArgTransform{name: name, declared: declared, target: target, source: source}
}

// Name returns the parameter name.
func (t *ArgTransform) Name() string { return t.name }

// Declared returns the type annotated on the parameter.
func (t *ArgTransform) Declared() reflect.Type { return t.declared }

// Target returns the type produced by the transform.
func (t *ArgTransform) Target() reflect.Type { return t.target }

// Source returns the type the transform accepts.
func (t *ArgTransform) Source() reflect.Type { return t.source }

// Transform returns v unchanged.
func (t *ArgTransform) Transform(v any) (any, error) { return v, nil }

// TypeTransform converts values with a converter function.
type TypeTransform struct {
	*ArgTransform
	converter func(any) (any, error)
	completer func(prefix string) []string
}

// TypeOption configures a TypeTransform.
type TypeOption func(t *TypeTransform)

// WithSource overrides the accepted source type.
func WithSource(source reflect.Type) TypeOption {
	return func(t *TypeTransform) { t.source = source }
}

// WithCompleter attaches a completion candidate provider.
func WithCompleter(fn func(prefix string) []string) TypeOption {
	return func(t *TypeTransform) { t.completer = fn }
}

// NewTypeTransform creates a transform using converter. A nil converter is
// the identity.
func NewTypeTransform(name string, declared, target reflect.Type, converter func(any) (any, error), opts ...TypeOption) *TypeTransform {
	if converter == nil {
		converter = func(v any) (any, error) { return v, nil }
	}
	t := &TypeTransform{
		ArgTransform: NewArgTransform(name, declared, target, nil),
		converter:    converter,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Func adapts a typed conversion from S to T into a TypeTransform. Values
// that are already a T pass through untouched.
func Func[S, T any](name string, fn func(S) (T, error), opts ...TypeOption) *TypeTransform {
	target := reflect.TypeOf((*T)(nil)).Elem()
	convert := func(v any) (any, error) {
		if t, ok := v.(T); ok {
			return t, nil
		}
		s, ok := v.(S)
		if !ok {
			return nil, fmt.Errorf("expected %s, got %T", reflect.TypeOf((*S)(nil)).Elem(), v)
		}
		return fn(s)
	}
	opts = append([]TypeOption{WithSource(reflect.TypeOf((*S)(nil)).Elem())}, opts...)
	return NewTypeTransform(name, target, target, convert, opts...)
}

// Transform converts v.
func (t *TypeTransform) Transform(v any) (any, error) { return t.converter(v) }

// Complete returns completion candidates for prefix, or nil.
func (t *TypeTransform) Complete(prefix string) []string {
	if t.completer == nil {
		return nil
	}
	return t.completer(prefix)
}

// Registry maps parameter names to transformers. It is safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	transformers map[string]Transformer
}

// NewRegistry creates a registry holding ts.
func NewRegistry(ts ...Transformer) *Registry {
	r := &Registry{transformers: make(map[string]Transformer, len(ts))}
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

// Register adds or replaces the transformer for t.Name().
func (r *Registry) Register(t Transformer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transformers[t.Name()] = t
}

// Lookup returns the transformer for name.
func (r *Registry) Lookup(name string) (Transformer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transformers[name]
	return t, ok
}

// Names returns the registered parameter names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.transformers))
	for n := range r.transformers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Complete returns completion candidates for the named parameter.
func (r *Registry) Complete(name, prefix string) []string {
	t, ok := r.Lookup(name)
	if !ok {
		return nil
	}
	if c, ok := t.(Completer); ok {
		return c.Complete(prefix)
	}
	return nil
}

// Apply converts every bound argument that has a registered transformer.
// Variadic parameters are converted element by element. Conversion failures
// are reported as *core.ArgumentError.
func (r *Registry) Apply(b *signature.Bound) error {
	for _, p := range b.Signature().Params() {
		t, ok := r.Lookup(p.Name)
		if !ok {
			continue
		}
		v, ok := b.Lookup(p.Name)
		if !ok || v == nil {
			continue
		}

		converted, err := convert(t, p, v)
		if err != nil {
			return core.NewArgumentError("argument %q: %v", p.Name, err)
		}
		b.Set(p.Name, converted)
	}
	return nil
}

func convert(t Transformer, p signature.Param, v any) (any, error) {
	switch values := v.(type) {
	case []any:
		// Variadic parameters, and scalar parameters fed by a +/* flag.
		return transformAll(t, values)
	case map[string]any:
		if p.Kind != signature.VarKeyword {
			return t.Transform(v)
		}
		out := make(map[string]any, len(values))
		for k, e := range values {
			c, err := t.Transform(e)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	default:
		return t.Transform(v)
	}
}

func transformAll(t Transformer, values []any) ([]any, error) {
	out := make([]any, len(values))
	for i, e := range values {
		c, err := t.Transform(e)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
