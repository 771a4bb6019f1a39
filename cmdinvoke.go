// Package cmdinvoke provides a high-level façade over the invoker engine: a
// Shell holding named commands that share session variables. Most
// applications interact with this package by:
//  1. Creating a Shell via New()
//  2. Registering Go functions as commands (Register)
//  3. Injecting session variables (Inject)
//  4. Running commands from token lists (Run) or raw command lines (RunLine)
//
// Each registered command is an invoker.SessionInvoker, so flags are inferred
// from the function signature and session variables override caller values.
package cmdinvoke

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/cmdinvoke/invoker"
	"github.com/hupe1980/cmdinvoke/logging"
	"github.com/hupe1980/cmdinvoke/signature"
	"github.com/hupe1980/cmdinvoke/tool"
	"github.com/hupe1980/cmdinvoke/transform"
	"mvdan.cc/sh/v3/shell"
)

var (
	// ErrUnknownCommand is returned when no command is registered under a name.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrDuplicateCommand is returned when a name is registered twice.
	ErrDuplicateCommand = errors.New("command already registered")
	// ErrEmptyLine is returned by RunLine for a line without words.
	ErrEmptyLine = errors.New("empty command line")
)

// Options configures the Shell.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Transforms, when set, is applied by every registered command.
	Transforms *transform.Registry

	// Env resolves $NAME references in RunLine that are not session
	// variables (defaults to os.Getenv).
	Env func(name string) string

	// NewID generates invocation ids (defaults to random UUIDs).
	NewID func() string
}

// Shell is a registry of named commands sharing session variables. It is
// safe for concurrent use.
type Shell struct {
	opts Options

	mu       sync.RWMutex
	commands map[string]*invoker.SessionInvoker
	vars     map[string]any
}

// New creates a new Shell with optional overrides.
func New(optFns ...func(o *Options)) *Shell {
	opts := Options{
		Logger: logging.NoOpLogger{},
		Env:    os.Getenv,
		NewID:  uuid.NewString,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Shell{
		opts:     opts,
		commands: map[string]*invoker.SessionInvoker{},
		vars:     map[string]any{},
	}
}

// Register adds target under name (the target name when empty). decl
// declares explicit flags; session names parameters that are supplied by
// session variables and hidden from the command-line signature.
func (s *Shell) Register(name string, target invoker.Target, decl map[string]any, session ...string) error {
	if name == "" {
		name = target.Name()
	}

	optFns := []invoker.Option{
		invoker.WithLogger(s.opts.Logger),
		invoker.WithIDGenerator(s.opts.NewID),
	}
	if s.opts.Transforms != nil {
		optFns = append(optFns, invoker.WithTransforms(s.opts.Transforms))
	}

	inv, err := invoker.New(target, decl, optFns...)
	if err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	si := invoker.NewSession(inv, session...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.commands[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCommand, name)
	}
	si.Inject(accepted(si.Signature(), s.vars))
	s.commands[name] = si

	s.opts.Logger.Debug("shell.register", "command", name)
	return nil
}

// Inject merges vars into the shared session variables and pushes each
// variable into every command that declares a parameter of that name.
func (s *Shell) Inject(vars map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.vars, vars)
	for _, si := range s.commands {
		si.Inject(accepted(si.Signature(), vars))
	}
}

// Variables returns a copy of the shared session variables.
func (s *Shell) Variables() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.vars)
}

// accepted keeps the variables sig declares as named parameters.
func accepted(sig *signature.Signature, vars map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range vars {
		p, ok := sig.Param(k)
		if !ok || p.Kind == signature.VarPositional || p.Kind == signature.VarKeyword {
			continue
		}
		out[k] = v
	}
	return out
}

// Command returns the named command.
func (s *Shell) Command(name string) (*invoker.SessionInvoker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	si, ok := s.commands[name]
	return si, ok
}

// Commands returns the registered names in sorted order.
func (s *Shell) Commands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Run invokes the named command with tokens.
func (s *Shell) Run(ctx context.Context, name string, tokens []any) (any, error) {
	si, ok := s.Command(name)
	if !ok {
		s.opts.Logger.Warn("shell.unknown_command", "command", name)
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return si.Invoke(ctx, tokens, nil)
}

// RunLine splits line into words with shell quoting rules, expanding $NAME
// from the session variables and then the environment, and runs the command
// named by the first word.
func (s *Shell) RunLine(ctx context.Context, line string) (any, error) {
	words, err := shell.Fields(line, s.lookup)
	if err != nil {
		return nil, fmt.Errorf("parse command line: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyLine
	}

	tokens := make([]any, len(words)-1)
	for i, w := range words[1:] {
		tokens[i] = w
	}
	return s.Run(ctx, words[0], tokens)
}

func (s *Shell) lookup(name string) string {
	s.mu.RLock()
	v, ok := s.vars[name]
	s.mu.RUnlock()
	if ok {
		return fmt.Sprint(v)
	}
	if s.opts.Env == nil {
		return ""
	}
	return s.opts.Env(name)
}

// Tools exposes every registered command as an LLM tool, in name order.
func (s *Shell) Tools(optFns ...tool.Option) ([]tool.Tool, error) {
	names := s.Commands()
	tools := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		si, _ := s.Command(name)
		t, err := tool.New(si.Command(), append([]tool.Option{tool.WithName(name), tool.WithLogger(s.opts.Logger)}, optFns...)...)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}
