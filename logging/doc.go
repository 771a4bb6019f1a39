// Package logging provides a minimal logging interface and adapters for the
// invocation engine.
//
// The Logger interface defines the standard leveled methods taking slog style
// key/value pairs. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping a *slog.Logger
//   - InvokerLogger, a slog backed logger carrying command / invocation context
//   - NoOpLogger for silent operation (the default everywhere)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	inv, err := invoker.New(target, nil, invoker.WithLogger(logger))
//
// Invokers emit dotted event names (`invoke.start`, `invoke.success`,
// `invoke.argument_error`, `invoke.error`) with `command` and
// `invocation_id` attributes.
package logging
