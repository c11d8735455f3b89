package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/ftl/lang"
	"github.com/ardnew/ftl/log"
)

// Render renders a template with the data model to standard output.
type Render struct {
	Template string `arg:"" default:"-" help:"Template file, name on the template path, or '-' for stdin." name:"template"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := engineFrom(ctx)
	if err != nil {
		return err
	}

	t, err := parseTemplate(ctx, e, r.Template)
	if err != nil {
		return err
	}

	vars, err := dataFrom(ctx)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "render",
		slog.String("template", t.Name()),
		slog.Int("vars", len(vars)))

	return t.Execute(ctx, outputFrom(ctx), vars)
}

// parseTemplate parses the template named by arg: stdin for "-", otherwise a
// path or a name looked up on the template search path.
func parseTemplate(ctx context.Context, e *lang.Engine, arg string) (*lang.Template, error) {
	if arg != stdinSource {
		return e.ParseFile(ctx, arg)
	}

	in, err := openInput(arg)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return e.ParseReader(ctx, "<stdin>", in)
}
