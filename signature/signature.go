// Package signature describes the calling convention of an invocation target.
//
// Go cannot enumerate parameter names at runtime, so a Signature is built
// from an explicit descriptor table (name, kind, type). FromFunc fills in
// whatever reflection can provide for a plain Go function: parameter types,
// variadic-ness and the return type.
//
// Bind is the dispatch-level binding step: it matches a positional list and a
// keyword map against the parameters and reports any mismatch as a
// *core.ArgumentError, before the target is ever called.
package signature

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidSignature is returned for malformed descriptor tables.
var ErrInvalidSignature = errors.New("invalid signature")

// Kind classifies how a parameter may be supplied.
type Kind int

const (
	// PositionalOnly parameters can only be matched by position.
	PositionalOnly Kind = iota
	// PositionalOrKeyword parameters can be matched by position or by name.
	PositionalOrKeyword
	// VarPositional collects surplus positional values.
	VarPositional
	// KeywordOnly parameters can only be matched by name.
	KeywordOnly
	// VarKeyword collects surplus keywords.
	VarKeyword
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case PositionalOnly:
		return "positional-only"
	case PositionalOrKeyword:
		return "positional-or-keyword"
	case VarPositional:
		return "var-positional"
	case KeywordOnly:
		return "keyword-only"
	case VarKeyword:
		return "var-keyword"
	default:
		return "unknown"
	}
}

// Param describes one parameter. For variadic kinds Type is the type of each
// collected value. A nil Type means any value is accepted.
type Param struct {
	Name       string
	Kind       Kind
	Type       reflect.Type
	Default    any
	HasDefault bool
}

// ParamOption configures a Param.
type ParamOption func(p *Param)

// Of declares the parameter type as T.
func Of[T any]() ParamOption {
	return func(p *Param) { p.Type = reflect.TypeOf((*T)(nil)).Elem() }
}

// OfType declares the parameter type.
func OfType(t reflect.Type) ParamOption {
	return func(p *Param) { p.Type = t }
}

// Default gives the parameter a default value, making it optional.
func Default(v any) ParamOption {
	return func(p *Param) {
		p.Default = v
		p.HasDefault = true
	}
}

func newParam(name string, kind Kind, opts []ParamOption) Param {
	p := Param{Name: name, Kind: kind}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// PosOnly declares a positional-only parameter.
func PosOnly(name string, opts ...ParamOption) Param {
	return newParam(name, PositionalOnly, opts)
}

// Arg declares a positional-or-keyword parameter.
func Arg(name string, opts ...ParamOption) Param {
	return newParam(name, PositionalOrKeyword, opts)
}

// VarArgs declares the var-positional parameter.
func VarArgs(name string, opts ...ParamOption) Param {
	return newParam(name, VarPositional, opts)
}

// KwOnly declares a keyword-only parameter.
func KwOnly(name string, opts ...ParamOption) Param {
	return newParam(name, KeywordOnly, opts)
}

// VarKwargs declares the var-keyword parameter.
func VarKwargs(name string, opts ...ParamOption) Param {
	return newParam(name, VarKeyword, opts)
}

// IsBool reports whether the parameter is declared as a boolean.
func (p Param) IsBool() bool {
	return p.Type != nil && p.Type.Kind() == reflect.Bool
}

// IsPositional reports whether the parameter can be matched by position.
func (p Param) IsPositional() bool {
	return p.Kind == PositionalOnly || p.Kind == PositionalOrKeyword
}

// TypeName returns the declared type name, or "any".
func (p Param) TypeName() string {
	if p.Type == nil {
		return "any"
	}
	return p.Type.String()
}

func (p Param) String() string {
	var b strings.Builder
	switch p.Kind {
	case PositionalOnly:
		fmt.Fprintf(&b, "%s %s", p.Name, p.TypeName())
	case PositionalOrKeyword:
		fmt.Fprintf(&b, "[--]%s %s", p.Name, p.TypeName())
	case VarPositional:
		fmt.Fprintf(&b, "%s ...%s", p.Name, p.TypeName())
	case KeywordOnly:
		fmt.Fprintf(&b, "--%s %s", p.Name, p.TypeName())
	case VarKeyword:
		fmt.Fprintf(&b, "--%s... %s", p.Name, p.TypeName())
	}
	if p.HasDefault {
		fmt.Fprintf(&b, " = %#v", p.Default)
	}
	return b.String()
}

// Signature is an immutable, validated parameter list.
type Signature struct {
	params []Param
	index  map[string]int
	ret    reflect.Type
}

// New validates a descriptor table. Parameters must appear in kind order
// (positional-only, positional-or-keyword, var-positional, keyword-only,
// var-keyword), names must be unique and non-empty, there is at most one
// variadic parameter of each kind, and a positional parameter without a
// default may not follow one with a default.
func New(params ...Param) (*Signature, error) {
	s := &Signature{
		params: append([]Param(nil), params...),
		index:  make(map[string]int, len(params)),
	}

	var (
		last           = PositionalOnly
		seenDefault    bool
		seenVarPos     bool
		seenVarKeyword bool
	)

	for i, p := range s.params {
		switch {
		case p.Name == "":
			return nil, fmt.Errorf("%w: parameter %d has no name", ErrInvalidSignature, i)
		case p.Kind < PositionalOnly || p.Kind > VarKeyword:
			return nil, fmt.Errorf("%w: parameter %q has unknown kind %d", ErrInvalidSignature, p.Name, p.Kind)
		case p.Kind < last:
			return nil, fmt.Errorf("%w: %s parameter %q follows a %s parameter", ErrInvalidSignature, p.Kind, p.Name, last)
		}
		if _, dup := s.index[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate parameter %q", ErrInvalidSignature, p.Name)
		}

		switch p.Kind {
		case VarPositional:
			if seenVarPos {
				return nil, fmt.Errorf("%w: more than one var-positional parameter", ErrInvalidSignature)
			}
			seenVarPos = true
		case VarKeyword:
			if seenVarKeyword {
				return nil, fmt.Errorf("%w: more than one var-keyword parameter", ErrInvalidSignature)
			}
			seenVarKeyword = true
		case PositionalOnly, PositionalOrKeyword:
			if p.HasDefault {
				seenDefault = true
			} else if seenDefault {
				return nil, fmt.Errorf("%w: parameter %q without a default follows a parameter with a default", ErrInvalidSignature, p.Name)
			}
		}

		last = p.Kind
		s.index[p.Name] = i
	}

	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(params ...Param) *Signature {
	s, err := New(params...)
	if err != nil {
		panic(err)
	}
	return s
}

// WithReturn returns a copy of s recording the return type.
func (s *Signature) WithReturn(t reflect.Type) *Signature {
	cp := *s
	cp.ret = t
	return &cp
}

// Params returns a copy of the parameter list.
func (s *Signature) Params() []Param { return append([]Param(nil), s.params...) }

// Len returns the number of parameters.
func (s *Signature) Len() int { return len(s.params) }

// Param returns the parameter named name.
func (s *Signature) Param(name string) (Param, bool) {
	i, ok := s.index[name]
	if !ok {
		return Param{}, false
	}
	return s.params[i], true
}

// Return returns the declared return type, nil if none.
func (s *Signature) Return() reflect.Type { return s.ret }

// VarPositional returns the var-positional parameter, if any.
func (s *Signature) VarPositional() (Param, bool) { return s.byKind(VarPositional) }

// VarKeyword returns the var-keyword parameter, if any.
func (s *Signature) VarKeyword() (Param, bool) { return s.byKind(VarKeyword) }

func (s *Signature) byKind(k Kind) (Param, bool) {
	for _, p := range s.params {
		if p.Kind == k {
			return p, true
		}
	}
	return Param{}, false
}

func (s *Signature) String() string {
	parts := make([]string, len(s.params))
	for i, p := range s.params {
		parts[i] = p.String()
	}
	out := "(" + strings.Join(parts, ", ") + ")"
	if s.ret != nil {
		out += " " + s.ret.String()
	}
	return out
}
