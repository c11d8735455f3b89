package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/ftl/log"
)

// Fmt parses a template and prints its canonical form: every interpolation
// is rewritten with its expression in canonical syntax.
type Fmt struct {
	Template string `arg:"" default:"-" help:"Template file, name on the template path, or '-' for stdin." name:"template"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	e, err := engineFrom(ctx)
	if err != nil {
		return err
	}

	t, err := parseTemplate(ctx, e, f.Template)
	if err != nil {
		return err
	}

	out := t.Canonical()

	log.DebugContext(ctx, "format",
		slog.String("template", t.Name()),
		slog.Int("source_bytes", len(t.Source())),
		slog.Int("canonical_bytes", len(out)))

	_, err = io.WriteString(outputFrom(ctx), out)

	return err
}
