// Package argsplit classifies a raw token sequence against a flag table.
//
// Split consumes tokens left to right and sorts each one into positional
// values, values following a literal `--`, keywords for flags found in the
// table, and overflow keywords for flag-shaped tokens that are not. Tokens
// need not be strings: any non-string value is treated as positional (or as
// the value of a preceding flag), which lets callers pass already typed
// values through the same path as shell words.
package argsplit

import (
	"strings"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/hupe1980/cmdinvoke/flags"
)

// ArgSplit is the result of classifying a token sequence. All four
// containers are always non-nil.
type ArgSplit struct {
	// Positional holds the values to be matched positionally, in encounter order.
	Positional []any
	// OverflowPositional holds everything after a literal `--`, verbatim.
	OverflowPositional []any
	// Keywords holds values for flags found in the table, keyed by target.
	Keywords map[string]any
	// OverflowKeywords holds flag-shaped tokens not found in the table.
	OverflowKeywords map[string]any
}

func newArgSplit() *ArgSplit {
	return &ArgSplit{
		Positional:         []any{},
		OverflowPositional: []any{},
		Keywords:           map[string]any{},
		OverflowKeywords:   map[string]any{},
	}
}

// Unify merges parsed keywords, overflow keywords and explicit keywords into
// a fresh map. Later sources win: explicit keywords override parsed ones.
func (s *ArgSplit) Unify(explicit map[string]any) map[string]any {
	out := make(map[string]any, len(s.Keywords)+len(s.OverflowKeywords)+len(explicit))
	for _, m := range []map[string]any{s.Keywords, s.OverflowKeywords, explicit} {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Split classifies tokens against table. The input slice is never modified.
// It fails with a *core.ArgumentError only when a flag requiring a value
// (arity One or OneOrMore) finds none.
func Split(tokens []any, table flags.Table) (*ArgSplit, error) {
	s := &splitter{
		table: table,
		rest:  append([]any(nil), tokens...),
		out:   newArgSplit(),
	}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.out, nil
}

type splitter struct {
	table flags.Table
	rest  []any
	out   *ArgSplit
}

func (s *splitter) run() error {
	for len(s.rest) > 0 {
		tok := s.pop()
		str, ok := tok.(string)
		if !ok {
			s.out.Positional = append(s.out.Positional, tok)
			continue
		}

		switch {
		case str == "-":
			s.out.Positional = append(s.out.Positional, str)
		case str == "--":
			s.out.OverflowPositional = append(s.out.OverflowPositional, s.rest...)
			s.rest = nil
		case strings.HasPrefix(str, "--"):
			if err := s.long(str); err != nil {
				return err
			}
		case strings.HasPrefix(str, "-"):
			if err := s.short(str); err != nil {
				return err
			}
		default:
			s.out.Positional = append(s.out.Positional, str)
		}
	}
	return nil
}

func (s *splitter) long(tok string) error {
	name := tok[2:]

	if key, value, ok := strings.Cut(name, "="); ok {
		s.push(value)
		if spec, found := s.table.Lookup(key); found {
			return s.consume("--"+key, spec, s.out.Keywords)
		}
		if negated, ok := strings.CutPrefix(key, "no-"); ok {
			if spec, found := s.table.Lookup(negated); found && spec.Arity.IsBoolean() {
				s.out.Keywords[spec.Target] = !spec.Arity.Bool()
				return nil
			}
		}
		overflow := flags.Spec{Arity: flags.One, Target: core.Underscore(key)}
		return s.consume("--"+key, overflow, s.out.OverflowKeywords)
	}

	negated, isNegation := strings.CutPrefix(name, "no-")
	if isNegation {
		if spec, found := s.table.Lookup(negated); found && spec.Arity.IsBoolean() {
			s.out.Keywords[spec.Target] = !spec.Arity.Bool()
			return nil
		}
	}

	if spec, found := s.table.Lookup(name); found {
		return s.consume(tok, spec, s.out.Keywords)
	}

	if isNegation {
		s.out.OverflowKeywords[core.Underscore(negated)] = false
		return nil
	}
	s.out.OverflowKeywords[core.Underscore(name)] = true
	return nil
}

// short handles a cluster of single character flags: `-fg` tries f, then g.
func (s *splitter) short(tok string) error {
	for _, r := range tok[1:] {
		key := string(r)
		spec, found := s.table.Lookup(key)
		if !found {
			s.out.OverflowKeywords[key] = true
			continue
		}
		if err := s.consume("-"+key, spec, s.out.Keywords); err != nil {
			return err
		}
	}
	return nil
}

func (s *splitter) consume(flag string, spec flags.Spec, dst map[string]any) error {
	switch spec.Arity {
	case flags.BooleanTrue, flags.BooleanFalse:
		dst[spec.Target] = spec.Arity.Bool()
	case flags.ZeroArg:
		dst[spec.Target] = flag
	case flags.One:
		if len(s.rest) == 0 {
			return core.NewArgumentError("missing argument for %s", flag)
		}
		dst[spec.Target] = s.pop()
	case flags.OneOrMore:
		if len(s.rest) == 0 {
			return core.NewArgumentError("missing argument for %s", flag)
		}
		// The first value is taken unconditionally so that `--offsets -1 2` works.
		values := []any{s.pop()}
		dst[spec.Target] = append(values, s.takeValues()...)
	case flags.ZeroOrMore:
		dst[spec.Target] = append([]any{}, s.takeValues()...)
	default:
		return core.NewArgumentError("invalid flag usage: %s %v", flag, spec.Arity)
	}
	return nil
}

// takeValues pops tokens up to the next flag-like token or the end.
func (s *splitter) takeValues() []any {
	var values []any
	for len(s.rest) > 0 && !core.IsFlagLike(s.rest[0]) {
		values = append(values, s.pop())
	}
	return values
}

func (s *splitter) pop() any {
	tok := s.rest[0]
	s.rest = s.rest[1:]
	return tok
}

func (s *splitter) push(tok any) {
	s.rest = append([]any{tok}, s.rest...)
}
