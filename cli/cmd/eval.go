package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/ftl/log"
)

// Eval evaluates expressions against the data model and prints each result
// on its own line, formatted as an interpolation would be.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate, e.g. 'name?upper_case'." name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	eng, err := engineFrom(ctx)
	if err != nil {
		return err
	}

	vars, err := dataFrom(ctx)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	for _, src := range e.Expr {
		if strings.TrimSpace(src) == "" {
			return ErrNoInput.With(slog.String("command", "eval"))
		}

		s, err := eng.Eval(ctx, src, vars)
		if err != nil {
			return err
		}

		log.TraceContext(ctx, "eval", slog.String("expr", src))

		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
	}

	return nil
}
