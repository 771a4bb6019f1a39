// Package core holds the small set of types shared by every layer of the
// invocation engine: the error taxonomy (ArgumentError, InvalidFlagSpecError)
// and the name normalization helpers used when mapping between flag spellings
// (`--dry-run`) and parameter names (`dry_run`).
//
// The package has no dependencies on the rest of the module so that flags,
// argsplit, signature and invoker can all report errors of the same type.
package core
