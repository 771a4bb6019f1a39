package flags

import (
	"reflect"
	"sort"

	"github.com/hupe1980/cmdinvoke/core"
)

// Arity describes how many tokens follow a flag on the command line.
type Arity int

const (
	// BooleanTrue is a zero-argument flag whose presence stores true.
	BooleanTrue Arity = iota
	// BooleanFalse is a zero-argument flag whose presence stores false.
	BooleanFalse
	// ZeroArg is a zero-argument flag storing the flag token itself.
	ZeroArg
	// One consumes exactly one following token.
	One
	// OneOrMore consumes following tokens up to the next flag, at least one.
	OneOrMore
	// ZeroOrMore consumes following tokens up to the next flag, possibly none.
	ZeroOrMore
)

// String returns the marker used in flag declarations.
func (a Arity) String() string {
	switch a {
	case BooleanTrue:
		return "True"
	case BooleanFalse:
		return "False"
	case ZeroArg:
		return "0"
	case One:
		return "1"
	case OneOrMore:
		return "+"
	case ZeroOrMore:
		return "*"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether a is one of the declared arities.
func (a Arity) Valid() bool { return a >= BooleanTrue && a <= ZeroOrMore }

// IsBoolean reports whether the arity fixes a literal boolean (and therefore
// accepts the `no-` negation).
func (a Arity) IsBoolean() bool { return a == BooleanTrue || a == BooleanFalse }

// Bool returns the literal stored by a boolean arity.
func (a Arity) Bool() bool { return a == BooleanTrue }

// Spec is a canonical flag specification.
type Spec struct {
	Arity  Arity
	Target string
}

// Table maps lookup keys to flag specifications.
type Table map[string]Spec

// Lookup returns the spec registered under key.
func (t Table) Lookup(key string) (Spec, bool) {
	s, ok := t[key]
	return s, ok
}

// Clone returns a shallow copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Keys returns the lookup keys in sorted order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New canonicalizes a flag declaration. Accepted value shapes:
//
//	true / false        boolean flag, target = key
//	0, 1, "+", "*"      arity marker, target = key (an Arity value works too)
//	"name"              boolean true flag stored under name (hyphens become underscores)
//	Spec                passed through verbatim
//
// Any other shape yields a *core.InvalidFlagSpecError.
func New(input map[string]any) (Table, error) {
	table := make(Table, len(input))
	for key, value := range input {
		spec, err := canonical(key, value)
		if err != nil {
			return nil, err
		}
		table[key] = spec
	}
	return table, nil
}

// MustNew is like New but panics on malformed declarations. It is meant for
// package-level tables built from literals.
func MustNew(input map[string]any) Table {
	t, err := New(input)
	if err != nil {
		panic(err)
	}
	return t
}

func canonical(key string, value any) (Spec, error) {
	invalid := &core.InvalidFlagSpecError{Key: key, Value: value}

	switch v := value.(type) {
	case Spec:
		if !v.Arity.Valid() || v.Target == "" {
			return Spec{}, invalid
		}
		return v, nil
	case string:
		if a, ok := ParseArity(v); ok {
			return Spec{Arity: a, Target: key}, nil
		}
		if v == "" {
			return Spec{}, invalid
		}
		return Spec{Arity: BooleanTrue, Target: core.Underscore(v)}, nil
	}

	if a, ok := ParseArity(value); ok {
		return Spec{Arity: a, Target: key}, nil
	}
	return Spec{}, invalid
}

// ParseArity maps a raw arity marker onto an Arity: a bool, the integers 0
// and 1 (any integer kind), the strings "+" and "*", or an Arity value.
func ParseArity(marker any) (Arity, bool) {
	switch m := marker.(type) {
	case nil:
		return 0, false
	case Arity:
		return m, m.Valid()
	case bool:
		if m {
			return BooleanTrue, true
		}
		return BooleanFalse, true
	case string:
		switch m {
		case "+":
			return OneOrMore, true
		case "*":
			return ZeroOrMore, true
		}
		return 0, false
	}

	rv := reflect.ValueOf(marker)
	var n int64
	switch {
	case rv.CanInt():
		n = rv.Int()
	case rv.CanUint():
		if rv.Uint() > 1 {
			return 0, false
		}
		n = int64(rv.Uint())
	default:
		return 0, false
	}
	switch n {
	case 0:
		return ZeroArg, true
	case 1:
		return One, true
	}
	return 0, false
}
