// Package invoker turns shell-style token sequences into calls against Go
// functions.
//
// An invocation runs in three steps:
//
//  1. the tokens are classified against a flag table (see package argsplit);
//  2. the parsed keywords, overflow keywords and explicit keywords are unified
//     and bound to the target's signature (see signature.Bind);
//  3. the target is called with the bound arguments.
//
// Failures in steps 1 and 2 are *core.ArgumentError: the command line was
// wrong and the target never ran. Errors returned by the target in step 3 are
// passed back unchanged, so callers can always tell "bad invocation" from
// "command failed".
//
// Three invokers layer on each other:
//
//   - SimpleInvoker uses only the explicitly declared flags.
//   - SignatureInvoker additionally captures the target signature once.
//   - Invoker infers flags for every parameter not explicitly declared and
//     exposes a Command façade for external tooling.
//
// SessionInvoker decorates an Invoker with injected session variables that
// override caller supplied keywords of the same name.
package invoker
