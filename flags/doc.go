// Package flags defines the canonical flag table used by the argument splitter.
//
// A table maps a lookup key, exactly as it appears after the leading dashes on
// the command line (`verbose`, `dry-run`, `v`), to a Spec describing how many
// following tokens the flag consumes and under which keyword the parsed value
// is stored.
//
// Tables are usually built from a loosely typed declaration with New:
//
//	table, err := flags.New(map[string]any{
//		"verbose": true,                                   // --verbose => verbose=true
//		"quiet":   false,                                  // --quiet   => quiet=false
//		"v":       "verbose",                              // -v        => verbose=true
//		"output":  1,                                      // --output x
//		"include": "+",                                    // --include a b c
//		"exclude": "*",                                    // --exclude (possibly empty)
//		"mode":    flags.Spec{Arity: flags.One, Target: "k_mode"},
//	})
package flags
