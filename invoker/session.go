package invoker

import (
	"context"
	"maps"
	"sync"
)

// SessionInvoker is an Invoker with injected session variables. Injected
// values override caller keywords of the same name. It is safe for concurrent
// access.
type SessionInvoker struct {
	*Invoker
	exclude []string
	command *Command

	mu   sync.RWMutex
	vars map[string]any
}

// NewSession wraps inv. exclude names parameters that are supplied by the
// session and therefore hidden from the Command signature.
func NewSession(inv *Invoker, exclude ...string) *SessionInvoker {
	s := &SessionInvoker{
		Invoker: inv,
		exclude: append([]string(nil), exclude...),
		vars:    map[string]any{},
	}
	s.command = NewCommand(s, exclude...)
	return s
}

// Inject merges vars into the session variables. Later writes win.
func (s *SessionInvoker) Inject(vars map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.vars, vars)
}

// Variables returns a copy of the session variables.
func (s *SessionInvoker) Variables() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.vars)
}

// Excluded returns the parameter names supplied by the session.
func (s *SessionInvoker) Excluded() []string { return append([]string(nil), s.exclude...) }

// Invoke calls the underlying Invoker with kwargs overlaid by the session
// variables.
func (s *SessionInvoker) Invoke(ctx context.Context, tokens []any, kwargs map[string]any) (any, error) {
	merged := make(map[string]any, len(kwargs))
	maps.Copy(merged, kwargs)

	s.mu.RLock()
	maps.Copy(merged, s.vars)
	s.mu.RUnlock()

	return s.Invoker.Invoke(ctx, tokens, merged)
}

// Command returns the Command façade with the session parameters excluded.
func (s *SessionInvoker) Command() *Command { return s.command }
