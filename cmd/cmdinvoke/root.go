package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/cmdinvoke"
	"github.com/hupe1980/cmdinvoke/logging"
	"github.com/hupe1980/cmdinvoke/tool"
	"github.com/spf13/cobra"
)

// App carries state shared by the subcommands. The shell is built lazily in
// PersistentPreRunE so that global flags are applied first.
type App struct {
	out       io.Writer
	shell     *cmdinvoke.Shell
	logLevel  string
	logFormat string
	vars      map[string]string
}

func newRootCommand(out io.Writer) *cobra.Command {
	app := &App{out: out, vars: map[string]string{}}

	rootCmd := &cobra.Command{
		Use:   "cmdinvoke",
		Short: "Invoke Go functions with shell-style arguments",
		Long: `Invoke Go functions with shell-style arguments.

Flags are inferred from each function's parameters: keyword parameters become
--name VALUE options, bool parameters become --name / --no-name switches and
everything after -- is passed through positionally.

Examples:
  cmdinvoke list
  cmdinvoke run greet --shout bob
  cmdinvoke --set greeting=Howdy line 'greet "dear reader"'
  cmdinvoke tools --provider anthropic`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&app.logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringToStringVar(&app.vars, "set", nil, "session variable NAME=VALUE (repeatable)")

	runCmd := &cobra.Command{
		Use:   "run <command> [tokens...]",
		Short: "Run a command with the given tokens",
		Long: `Run a command with the given tokens.

Everything after the command name is handed to the command unparsed.

Examples:
  cmdinvoke run echo hello world
  cmdinvoke run sum 1 2 3
  cmdinvoke run greet -s bob`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens := make([]any, len(args)-1)
			for i, a := range args[1:] {
				tokens[i] = a
			}
			result, err := app.shell.Run(cmd.Context(), args[0], tokens)
			return app.report(args[0], result, err)
		},
	}
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "line <command line>",
		Short: "Run a single quoted command line",
		Long: `Run a single quoted command line.

The line is split with POSIX shell quoting rules; $NAME expands from the
session variables first and the environment second.

Examples:
  cmdinvoke line 'echo "a b" $HOME'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.shell.RunLine(cmd.Context(), args[0])
			return app.report(firstWord(args[0]), result, err)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range app.shell.Commands() {
				si, _ := app.shell.Command(name)
				fmt.Fprintf(app.out, "%-8s %s\n", name, si.Signature())
			}
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "signature <command>",
		Short: "Show the command-line signature of a command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printSignature(args[0])
		},
	})

	var provider string
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the commands as LLM tool definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printTools(provider)
		},
	}
	toolsCmd.Flags().StringVar(&provider, "provider", "openai", "tool format (openai, anthropic)")
	rootCmd.AddCommand(toolsCmd)

	return rootCmd
}

func (a *App) setup() error {
	level, ok := logging.ParseLevel(a.logLevel)
	if !ok {
		return fmt.Errorf("invalid log level %q", a.logLevel)
	}
	logger := logging.NewSlogLogger(level, a.logFormat, false).WithComponent("cmdinvoke")

	a.shell = cmdinvoke.New(func(o *cmdinvoke.Options) {
		o.Logger = logger
		o.Transforms = demoTransforms()
	})
	if err := registerDemo(a.shell); err != nil {
		return err
	}

	vars := make(map[string]any, len(a.vars))
	for k, v := range a.vars {
		vars[k] = v
	}
	a.shell.Inject(vars)
	return nil
}

func (a *App) report(name string, result any, err error) error {
	if err != nil {
		if si, ok := a.shell.Command(name); ok {
			if cs, sErr := si.Command().Signature(); sErr == nil {
				fmt.Fprintf(a.out, "usage: %s %s\n", name, cs)
			}
		}
		return err
	}
	if result != nil {
		fmt.Fprintln(a.out, result)
	}
	return nil
}

func (a *App) printSignature(name string) error {
	si, ok := a.shell.Command(name)
	if !ok {
		return fmt.Errorf("%w: %s", cmdinvoke.ErrUnknownCommand, name)
	}
	cs, err := si.Command().Signature()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s %s\n", name, cs)
	table := si.Flags()
	for _, key := range table.Keys() {
		spec := table[key]
		dashes := "--"
		if len(key) == 1 {
			dashes = "-"
		}
		fmt.Fprintf(a.out, "  %s%-12s %-5s -> %s\n", dashes, key, spec.Arity, spec.Target)
	}
	return nil
}

func (a *App) printTools(provider string) error {
	tools, err := a.shell.Tools()
	if err != nil {
		return err
	}

	var defs any
	switch provider {
	case "openai":
		defs = tool.OpenAITools(tools...)
	case "anthropic":
		defs = tool.AnthropicTools(tools...)
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(defs)
}

func firstWord(line string) string {
	if fields := strings.Fields(line); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
