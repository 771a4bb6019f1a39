package invoker

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/cmdinvoke/core"
	"github.com/hupe1980/cmdinvoke/signature"
)

// ErrNoSignature is returned when a dispatcher exposes no signature.
var ErrNoSignature = errors.New("dispatcher has no signature")

// Dispatcher is what a Command forwards to.
type Dispatcher interface {
	Name() string
	Signature() *signature.Signature
	Invoke(ctx context.Context, tokens []any, kwargs map[string]any) (any, error)
}

// Command adapts a Dispatcher to the command-line calling convention and
// describes that convention through a synthetic signature.
type Command struct {
	dispatcher Dispatcher
	exclude    []string

	once sync.Once
	sig  *CommandSignature
	err  error
}

// NewCommand creates a Command. Parameters named in exclude are supplied by a
// session and are not offered as command-line keywords.
func NewCommand(d Dispatcher, exclude ...string) *Command {
	return &Command{dispatcher: d, exclude: append([]string(nil), exclude...)}
}

// Name returns the dispatcher name.
func (c *Command) Name() string { return c.dispatcher.Name() }

// Dispatcher returns the wrapped dispatcher.
func (c *Command) Dispatcher() Dispatcher { return c.dispatcher }

// Excluded returns the excluded parameter names.
func (c *Command) Excluded() []string { return append([]string(nil), c.exclude...) }

// Run forwards tokens and kwargs to the dispatcher.
func (c *Command) Run(ctx context.Context, tokens []any, kwargs map[string]any) (any, error) {
	return c.dispatcher.Invoke(ctx, tokens, kwargs)
}

// Exec runs the command with raw command-line words.
func (c *Command) Exec(ctx context.Context, words []string) (any, error) {
	tokens := make([]any, len(words))
	for i, w := range words {
		tokens[i] = w
	}
	return c.Run(ctx, tokens, nil)
}

// Signature returns the synthetic command-line signature. It is computed on
// first use.
func (c *Command) Signature() (*CommandSignature, error) {
	c.once.Do(func() {
		sig := c.dispatcher.Signature()
		if sig == nil {
			c.err = fmt.Errorf("%w: %s", ErrNoSignature, c.dispatcher.Name())
			return
		}
		c.sig = synthesize(sig, c.exclude)
	})
	return c.sig, c.err
}

// TokenShape describes one admissible element of the args sequence: either a
// literal flag marker or a value for the named parameter.
type TokenShape struct {
	Param   string
	Literal string
	Type    reflect.Type
	// Raw reports whether a raw string is accepted in place of Type.
	Raw bool
}

func (t TokenShape) String() string {
	if t.Literal != "" {
		return fmt.Sprintf("%q", t.Literal)
	}
	name := "any"
	if t.Type != nil {
		name = t.Type.String()
	}
	if t.Raw && name != "string" {
		return name + "|string"
	}
	return name
}

// CommandSignature is the command-line view of a target: one positional
// sequence of tokens followed by keyword parameters passed through unchanged.
type CommandSignature struct {
	Tokens   []TokenShape
	Keywords []signature.Param
	Return   reflect.Type
}

// Flags returns the literal flag markers accepted in the token sequence.
func (cs *CommandSignature) Flags() []string {
	var out []string
	for _, t := range cs.Tokens {
		if t.Literal != "" {
			out = append(out, t.Literal)
		}
	}
	return out
}

// String renders the signature as `(args [shape, ...], /, kw...) ret`.
func (cs *CommandSignature) String() string {
	shapes := make([]string, len(cs.Tokens))
	for i, t := range cs.Tokens {
		shapes[i] = t.String()
	}

	parts := []string{"args [" + strings.Join(shapes, ", ") + "]", "/"}
	for _, p := range cs.Keywords {
		parts = append(parts, p.String())
	}

	out := "(" + strings.Join(parts, ", ") + ")"
	if cs.Return != nil {
		out += " " + cs.Return.String()
	}
	return out
}

func synthesize(sig *signature.Signature, exclude []string) *CommandSignature {
	cs := &CommandSignature{Return: sig.Return()}
	params := sig.Params()

	for _, p := range params {
		if p.Kind != signature.KeywordOnly || slices.Contains(exclude, p.Name) {
			continue
		}
		cs.Tokens = append(cs.Tokens,
			TokenShape{Param: p.Name, Literal: "--" + core.Hyphenate(p.Name)},
			TokenShape{Param: p.Name, Type: p.Type},
		)
	}
	for _, p := range params {
		switch p.Kind {
		case signature.PositionalOnly, signature.PositionalOrKeyword, signature.VarKeyword:
			cs.Tokens = append(cs.Tokens, TokenShape{Param: p.Name, Type: p.Type, Raw: true})
		}
	}
	for _, p := range params {
		if p.Kind == signature.KeywordOnly || p.Kind == signature.VarKeyword || slices.Contains(exclude, p.Name) {
			cs.Keywords = append(cs.Keywords, p)
		}
	}
	return cs
}
