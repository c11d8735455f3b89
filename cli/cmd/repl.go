package cmd

import (
	"context"

	"github.com/ardnew/ftl/cli/cmd/repl"
	"github.com/ardnew/ftl/log"
)

// Repl starts an interactive shell that evaluates expressions against the
// data model.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := engineFrom(ctx)
	if err != nil {
		return err
	}

	vars, err := dataFrom(ctx)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, e, vars, cacheDir, log.Default())
}
