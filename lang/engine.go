package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/readahead"

	"github.com/ardnew/ftl/lang/builtin"
	"github.com/ardnew/ftl/lang/datefmt"
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
)

// Engine parses and renders templates with one [Config]. An Engine is safe
// for concurrent use.
type Engine struct {
	cfg      Config
	format   outputformat.Format
	registry *builtin.Registry
	dates    *datefmt.Factory
	optsHash uint64

	mu           sync.RWMutex
	constructors map[string]model.Method
}

// New returns an Engine configured with opts. It fails with [ErrConfig]
// when the output format is unknown or a date, number or boolean format
// is invalid.
func New(opts ...Option) (*Engine, error) {
	cfg := NewConfig(opts...)

	format, err := outputformat.Lookup(cfg.outputFormat)
	if err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	e := &Engine{
		cfg:          cfg,
		format:       format,
		registry:     builtin.Default(),
		dates:        datefmt.NewFactory(cfg.logger),
		optsHash:     hashOptions(parseKey{Version: int(cfg.version)}),
		constructors: map[string]model.Method{},
	}

	for _, typ := range []model.DateType{
		model.DateTypeDate, model.DateTypeTime, model.DateTypeDateTime,
	} {
		if _, err := e.dateFormat(typ); err != nil {
			return nil, ErrConfig.Wrap(err).With(slog.String("date_type", typ.String()))
		}
	}

	if _, err := builtin.FormatBool(true, cfg.booleanFormat); err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	env := e.newEnv(context.Background(), nil)
	if _, err := builtin.FormatNumber(env, model.Int(0), cfg.numberFormat); err != nil {
		return nil, ErrConfig.Wrap(err)
	}

	cfg.logger.Debug("engine configured",
		slog.String("version", cfg.version.String()),
		slog.String("output_format", format.Name()),
		slog.Bool("auto_escaping", cfg.autoEscaping),
		slog.String("time_zone", cfg.zone.String()),
		slog.String("locale", cfg.locale.String()))

	return e, nil
}

// Config returns the configuration of e.
func (e *Engine) Config() Config { return e.cfg }

// OutputFormat returns the output format templates are rendered in.
func (e *Engine) OutputFormat() outputformat.Format { return e.format }

// Builtins returns the names of all builtins in lexicographic order.
func (e *Engine) Builtins() []string { return e.registry.Names() }

// RegisterConstructor makes m available to ?new under name.
func (e *Engine) RegisterConstructor(name string, m model.Method) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.constructors[name] = m
}

// ParseString parses the template source. Parsed templates are cached, so
// parsing the same name and source again is cheap.
func (e *Engine) ParseString(ctx context.Context, name, source string) (*Template, error) {
	nodes, err := e.parseCached(ctx, name, source)
	if err != nil {
		return nil, err
	}

	return &Template{name: name, source: source, nodes: nodes, engine: e}, nil
}

// ParseReader reads a template from r and parses it.
func (e *Engine) ParseReader(ctx context.Context, name string, r io.Reader) (*Template, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("template", name))
	}

	e.cfg.logger.TraceContext(ctx, "read input",
		slog.String("template", name),
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return e.ParseString(ctx, name, string(data))
}

// ParseFile parses the template file name, looked up as a path first and
// then in each directory of the template search path.
func (e *Engine) ParseFile(ctx context.Context, name string) (*Template, error) {
	path, ok := findTemplate(name, SearchPath(e.cfg.templatePath...))
	if !ok {
		return nil, ErrNotFound.With(
			slog.String("template", name),
			slog.String("search_path", strings.Join(e.cfg.templatePath, string(os.PathListSeparator))),
		)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return e.ParseReader(ctx, name, f)
}

// Compile compiles a single expression, builtins included.
func (e *Engine) Compile(source string) (expr.Expression, error) {
	return newCompiler(e.registry, e.cfg.version, e.cfg.logger).compile(source)
}

// Evaluate compiles source and evaluates it with the data model vars.
func (e *Engine) Evaluate(ctx context.Context, source string, vars map[string]any) (model.Value, error) {
	x, err := e.Compile(source)
	if err != nil {
		return nil, err
	}

	return x.Eval(e.newEnv(ctx, vars))
}

// Eval evaluates source with the data model vars and returns the value as
// an interpolation of it would print.
func (e *Engine) Eval(ctx context.Context, source string, vars map[string]any) (string, error) {
	x, err := e.Compile(source)
	if err != nil {
		return "", err
	}

	env := e.newEnv(ctx, vars)

	v, err := expr.Defined(x, env)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	if err := env.print(&sb, v); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// dateFormat returns the configured format for values of type typ.
func (e *Engine) dateFormat(typ model.DateType) (datefmt.Format, error) {
	var settings string

	switch typ {
	case model.DateTypeDate:
		settings = e.cfg.dateFormat
	case model.DateTypeTime:
		settings = e.cfg.timeFormat
	case model.DateTypeDateTime:
		settings = e.cfg.dateTimeFormat
	default:
		return nil, datefmt.ErrUnsupportedDateType
	}

	return e.dates.Get(settings, typ, e.cfg.zone, e.cfg.locale)
}
