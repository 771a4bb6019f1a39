// Command cmdinvoke is a small demo shell for the invoker engine. It
// registers a few Go functions as commands and dispatches command lines to
// them.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
