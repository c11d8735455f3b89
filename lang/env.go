package lang

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/builtin"
	"github.com/ardnew/ftl/lang/datefmt"
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
	"github.com/ardnew/ftl/log"
)

// renderEnv is the [expr.Env] of one render or evaluation.
type renderEnv struct {
	ctx    context.Context
	engine *Engine
	vars   map[string]any
}

var _ expr.Env = (*renderEnv)(nil)

func (e *Engine) newEnv(ctx context.Context, vars map[string]any) *renderEnv {
	if vars == nil {
		vars = map[string]any{}
	}

	return &renderEnv{ctx: ctx, engine: e, vars: vars}
}

func (r *renderEnv) Context() context.Context          { return r.ctx }
func (r *renderEnv) Logger() log.Logger                { return r.engine.cfg.logger }
func (r *renderEnv) Variables() map[string]any         { return r.vars }
func (r *renderEnv) OutputFormat() outputformat.Format { return r.engine.format }
func (r *renderEnv) AutoEscaping() bool                { return r.engine.cfg.autoEscaping }
func (r *renderEnv) TimeZone() *time.Location          { return r.engine.cfg.zone }
func (r *renderEnv) Locale() language.Tag              { return r.engine.cfg.locale }
func (r *renderEnv) NumberFormat() string              { return r.engine.cfg.numberFormat }
func (r *renderEnv) BooleanFormat() string             { return r.engine.cfg.booleanFormat }

func (r *renderEnv) DateFormat(typ model.DateType) (datefmt.Format, error) {
	return r.engine.dateFormat(typ)
}

func (r *renderEnv) DateFormatFor(settings string, typ model.DateType) (datefmt.Format, error) {
	return r.engine.dates.Get(settings, typ, r.engine.cfg.zone, r.engine.cfg.locale)
}

func (r *renderEnv) Parse(src string) (expr.Expression, error) {
	return r.engine.Compile(src)
}

// Interpret parses src as a template named name and returns a directive
// rendering it with the data model of r.
func (r *renderEnv) Interpret(name, src string) (model.Directive, error) {
	t, err := r.engine.ParseString(r.ctx, name, src)
	if err != nil {
		return nil, err
	}

	return &model.Callable{
		Name: name,
		Invoke: func(w model.Writer) error {
			return t.render(r, writerAdapter{w})
		},
	}, nil
}

func (r *renderEnv) Constructor(name string) (model.Method, bool) {
	r.engine.mu.RLock()
	defer r.engine.mu.RUnlock()

	m, ok := r.engine.constructors[name]

	return m, ok
}

// print writes the value of an interpolation to w.
//
// Markup of the current output format is written as is. Under a non-markup
// format, markup is written as its plain text when it has one. Directives
// are invoked. Every other value is converted with [builtin.Stringify] and
// escaped by the output format when auto-escaping is enabled.
func (r *renderEnv) print(w io.Writer, v model.Value) error {
	format := r.engine.format

	switch x := v.(type) {
	case nil:
		return expr.ErrUndefined

	case *outputformat.Markup:
		if mf, ok := format.(*outputformat.MarkupFormat); ok {
			if x.Format() != mf {
				return outputformat.ErrIncompatibleOutputFormat.With(
					slog.String("value_format", x.FormatName()),
					slog.String("output_format", mf.Name()),
				)
			}

			_, err := x.WriteTo(w)

			return err
		}

		plain, ok := x.PlainText()
		if !ok {
			return outputformat.ErrIncompatibleOutputFormat.With(
				slog.String("value_format", x.FormatName()),
				slog.String("output_format", format.Name()),
			)
		}

		return format.Output(plain, w)

	case *model.Callable:
		return x.Invoke(stringWriter{w})
	}

	s, err := builtin.Stringify(r, v)
	if err != nil {
		return err
	}

	if r.engine.cfg.autoEscaping {
		return format.Output(s, w)
	}

	_, err = io.WriteString(w, s)

	return err
}

// stringWriter adapts an io.Writer to a [model.Writer].
type stringWriter struct {
	io.Writer
}

func (s stringWriter) WriteString(str string) (int, error) {
	return io.WriteString(s.Writer, str)
}

// writerAdapter adapts a [model.Writer] to an io.Writer.
type writerAdapter struct {
	model.Writer
}

func (w writerAdapter) Write(p []byte) (int, error) {
	return w.WriteString(string(p))
}
