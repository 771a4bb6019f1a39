package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/cmdinvoke"
	"github.com/hupe1980/cmdinvoke/flags"
	"github.com/hupe1980/cmdinvoke/invoker"
	"github.com/hupe1980/cmdinvoke/signature"
	"github.com/hupe1980/cmdinvoke/transform"
)

// demoTransforms parses the numeric parameters of the demo commands.
func demoTransforms() *transform.Registry {
	return transform.NewRegistry(
		transform.Func("numbers", strconv.Atoi),
		transform.Func("times", strconv.Atoi),
	)
}

func echo(upper bool, words ...string) string {
	out := strings.Join(words, " ")
	if upper {
		out = strings.ToUpper(out)
	}
	return out
}

// echoBody adapts echo to bound arguments; a Go variadic cannot be followed
// by keyword parameters, so echo is described explicitly.
func echoBody(_ context.Context, args *signature.Bound) (any, error) {
	words := make([]string, 0, len(args.Args()))
	for _, w := range args.Args() {
		words = append(words, fmt.Sprint(w))
	}
	upper, _ := signature.Value[bool](args, "upper")
	return echo(upper, words...), nil
}

func sum(numbers ...int) int {
	total := 0
	for _, n := range numbers {
		total += n
	}
	return total
}

func greet(name, greeting string, times int, shout bool) (string, error) {
	if times < 1 {
		return "", fmt.Errorf("times must be positive, got %d", times)
	}
	line := fmt.Sprintf("%s, %s!", greeting, name)
	if shout {
		line = strings.ToUpper(line)
	}
	return strings.TrimSpace(strings.Repeat(line+" ", times)), nil
}

func registerDemo(sh *cmdinvoke.Shell) error {
	targets := []struct {
		target  invoker.Target
		flags   map[string]any
		session []string
	}{
		{
			target: invoker.MustFunc("echo", echoBody,
				signature.VarArgs("words", signature.Of[string]()),
				signature.KwOnly("upper", signature.Of[bool](), signature.Default(false)),
			),
			flags: map[string]any{"u": "upper"},
		},
		{
			target: invoker.MustReflect("sum", sum, signature.VarArgs("numbers")),
		},
		{
			target: invoker.MustReflect("greet", greet,
				signature.Arg("name"),
				signature.KwOnly("greeting", signature.Default("Hello")),
				signature.KwOnly("times", signature.Default(1)),
				signature.KwOnly("shout", signature.Default(false)),
			),
			flags:   map[string]any{"s": "shout", "n": flags.Spec{Arity: flags.One, Target: "times"}},
			session: []string{"greeting"},
		},
	}

	for _, t := range targets {
		if err := sh.Register("", t.target, t.flags, t.session...); err != nil {
			return err
		}
	}
	return nil
}
