package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ardnew/ftl/lang/expr"
)

// Template is a parsed template bound to the [Engine] that parsed it.
// A Template is immutable and may be executed concurrently.
type Template struct {
	name   string
	source string
	nodes  []node
	engine *Engine
}

// Name returns the name the template was parsed with.
func (t *Template) Name() string { return t.name }

// Source returns the template text.
func (t *Template) Source() string { return t.source }

// Canonical returns the template in canonical form: literal text as
// written and every interpolation with its expression in canonical form.
// Parsing the result yields an equivalent template.
func (t *Template) Canonical() string {
	var sb strings.Builder

	for _, n := range t.nodes {
		n.canonical(&sb)
	}

	return sb.String()
}

// Execute renders the template to w with the data model vars.
func (t *Template) Execute(ctx context.Context, w io.Writer, vars map[string]any) error {
	logger := t.engine.cfg.logger
	start := time.Now()

	logger.DebugContext(ctx, "render start",
		slog.String("template", t.name),
		slog.Int("variables", len(vars)))

	err := t.render(t.engine.newEnv(ctx, vars), w)

	logger.DebugContext(ctx, "render end",
		slog.String("template", t.name),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("ok", err == nil))

	return err
}

// ExecuteString renders the template with the data model vars and returns
// the output.
func (t *Template) ExecuteString(ctx context.Context, vars map[string]any) (string, error) {
	var sb strings.Builder

	if err := t.Execute(ctx, &sb, vars); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (t *Template) render(env *renderEnv, w io.Writer) error {
	for _, n := range t.nodes {
		if err := env.ctx.Err(); err != nil {
			return err
		}

		switch n := n.(type) {
		case *textNode:
			if _, err := io.WriteString(w, n.text); err != nil {
				return ErrRender.Wrap(err).With(slog.String("template", t.name))
			}
		case *interpolation:
			v, err := expr.Defined(n.expr, env)
			if err == nil {
				err = env.print(w, v)
			}

			if err != nil {
				return &TemplateError{
					Kind:   ErrRender,
					Name:   t.name,
					Source: t.source,
					Pos:    n.pos,
					Err:    err,
				}
			}
		}
	}

	return nil
}
