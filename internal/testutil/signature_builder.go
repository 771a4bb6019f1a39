package testutil

import (
	"github.com/hupe1980/cmdinvoke/signature"
)

// SignatureBuilder provides a fluent helper for describing parameters.
// Example:
//
//	params := NewSignatureBuilder().PosOnly("a").Bool("b", signature.PositionalOnly).Params()
//
// Parameters without an explicit type are untyped (any).
type SignatureBuilder struct {
	params []signature.Param
}

// NewSignatureBuilder creates an empty builder.
func NewSignatureBuilder() *SignatureBuilder { return &SignatureBuilder{} }

// PosOnly appends positional-only parameters (chainable).
func (b *SignatureBuilder) PosOnly(names ...string) *SignatureBuilder {
	for _, n := range names {
		b.params = append(b.params, signature.PosOnly(n))
	}
	return b
}

// Arg appends positional-or-keyword parameters (chainable).
func (b *SignatureBuilder) Arg(names ...string) *SignatureBuilder {
	for _, n := range names {
		b.params = append(b.params, signature.Arg(n))
	}
	return b
}

// Bool appends a bool typed parameter of the given kind (chainable).
func (b *SignatureBuilder) Bool(name string, kind signature.Kind) *SignatureBuilder {
	p := signature.Arg(name, signature.Of[bool]())
	p.Kind = kind
	b.params = append(b.params, p)
	return b
}

// VarArgs appends a var-positional parameter (chainable).
func (b *SignatureBuilder) VarArgs(name string) *SignatureBuilder {
	b.params = append(b.params, signature.VarArgs(name))
	return b
}

// KwOnly appends a keyword-only parameter with a default (chainable).
func (b *SignatureBuilder) KwOnly(name string, def any) *SignatureBuilder {
	b.params = append(b.params, signature.KwOnly(name, signature.Default(def)))
	return b
}

// VarKwargs appends a var-keyword parameter (chainable).
func (b *SignatureBuilder) VarKwargs(name string) *SignatureBuilder {
	b.params = append(b.params, signature.VarKwargs(name))
	return b
}

// Params returns the described parameters.
func (b *SignatureBuilder) Params() []signature.Param {
	return append([]signature.Param(nil), b.params...)
}
