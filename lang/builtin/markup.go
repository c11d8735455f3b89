package builtin

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
)

var markdown = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
})

func registerMarkup(r *Registry) {
	single(r, "esc", markupFunc(func(f *outputformat.MarkupFormat, s string) *outputformat.Markup {
		return f.FromPlainText(s)
	}))
	single(r, "no_esc", markupFunc(func(f *outputformat.MarkupFormat, s string) *outputformat.Markup {
		return f.FromMarkup(s)
	}))
	single(r, "markup_string", func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		m, ok := v.(*outputformat.Markup)
		if !ok {
			return nil, in.targetError(v, "markup_output")
		}

		return model.String(m.MarkupString()), nil
	})
	single(r, "markdown", func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.str(env)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := markdown().Convert([]byte(s), &buf); err != nil {
			return nil, ErrInvalidArg.Wrap(err).With(slog.String("builtin", "?"+in.key))
		}

		return outputformat.HTML.FromMarkup(buf.String()), nil
	})
}

// markupFunc converts the target text to a markup value of the current
// output format. Markup values of that format are returned unchanged.
func markupFunc(fn func(f *outputformat.MarkupFormat, s string) *outputformat.Markup) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		f, ok := env.OutputFormat().(*outputformat.MarkupFormat)
		if !ok {
			return nil, outputformat.ErrNotMarkupFormat.With(
				slog.String("builtin", "?"+in.key),
				slog.String("format", env.OutputFormat().Name()),
			)
		}

		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		if m, ok := v.(*outputformat.Markup); ok {
			if m.Format() != f {
				return nil, outputformat.ErrIncompatibleOutputFormat.With(
					slog.String("builtin", "?"+in.key),
					slog.String("value", m.FormatName()),
					slog.String("format", f.Name()),
				)
			}

			return m, nil
		}

		s, err := in.coerceString(env, v)
		if err != nil {
			return nil, err
		}

		return fn(f, s), nil
	}
}
