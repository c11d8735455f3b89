package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
)

// upper is a stand-in for a builtin application.
type upper struct{ target Expression }

func (u upper) Eval(env Env) (model.Value, error) {
	v, err := Defined(u.target, env)
	if err != nil {
		return nil, err
	}

	return model.String(strings.ToUpper(v.(model.Scalar).AsString())), nil
}

func (u upper) CanonicalForm() string { return u.target.CanonicalForm() + "?upper" }

// markup stands in for a builtin yielding markup, e.g. ?esc.
type markup struct {
	name string
	m    *outputformat.Markup
}

func (m markup) Eval(Env) (model.Value, error) { return m.m, nil }
func (m markup) CanonicalForm() string         { return m.name + "?esc" }

func TestComposite(t *testing.T) {
	env := &testEnv{ctx: t.Context(), vars: map[string]any{"name": "ada", "n": 2}}

	c := &Composite{
		Program: MustCompile(`"hi " + __ftl0__() + " x" + string(n)`),
		Holes:   []Hole{{Name: "__ftl0__", Expr: upper{MustCompile("name")}}},
	}

	got, err := c.Eval(env)
	if err != nil {
		t.Fatalf("Eval() error: %v", err)
	}

	if got != model.String("hi ADA x2") {
		t.Errorf("Eval() = %v, want %q", got, "hi ADA x2")
	}

	if got, want := c.CanonicalForm(), `("hi " + name?upper + " x" + string(n))`; got != want {
		t.Errorf("CanonicalForm() = %q, want %q", got, want)
	}

	if _, ok := env.vars["__ftl0__"]; ok {
		t.Errorf("Eval() leaked a hole into the caller's variables")
	}
}

func TestCompositeHoleError(t *testing.T) {
	env := &testEnv{ctx: t.Context(), vars: map[string]any{}}

	c := &Composite{
		Program: MustCompile(`__ftl0__() + 1`),
		Holes:   []Hole{{Name: "__ftl0__", Expr: upper{MustCompile("missing")}}},
	}

	if _, err := c.Eval(env); !errors.Is(err, ErrUndefined) {
		t.Errorf("Eval() error = %v, want ErrUndefined", err)
	}
}

// Holes in branches the program does not take are never evaluated.
func TestCompositeLazyHoles(t *testing.T) {
	tests := []struct {
		source string
		vars   map[string]any
		want   model.Value
	}{
		{`ok ? __ftl0__() : "-"`, map[string]any{"ok": false}, model.String("-")},
		{`ok && __ftl0__() == "X"`, map[string]any{"ok": false}, model.Boolean(false)},
		{`ok || __ftl0__() == "X"`, map[string]any{"ok": true}, model.Boolean(true)},
		{`ok ? __ftl0__() : "-"`, map[string]any{"ok": true, "missing": "x"}, model.String("X")},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			env := &testEnv{ctx: t.Context(), vars: tt.vars}

			c := &Composite{
				Program: MustCompile(tt.source),
				Holes:   []Hole{{Name: "__ftl0__", Expr: upper{MustCompile("missing")}}},
			}

			got, err := c.Eval(env)
			if err != nil {
				t.Fatalf("Eval() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Eval() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCompositeMarkupConcat(t *testing.T) {
	env := &testEnv{ctx: t.Context(), vars: map[string]any{"tail": "<b>"}}

	a := markup{"a", outputformat.HTML.FromPlainText("x<y")}
	b := markup{"b", outputformat.HTML.FromMarkup("<i>z</i>")}
	r := markup{"r", outputformat.RTF.FromPlainText("{r}")}

	tests := []struct {
		source string
		holes  []Hole
		want   string
	}{
		{
			`__ftl0__() + __ftl1__()`,
			[]Hole{{Name: "__ftl0__", Expr: a}, {Name: "__ftl1__", Expr: b}},
			"x&lt;y<i>z</i>",
		},
		{
			`__ftl0__() + tail`,
			[]Hole{{Name: "__ftl0__", Expr: a}},
			"x&lt;y&lt;b&gt;",
		},
		{
			`tail + __ftl0__() + "!"`,
			[]Hole{{Name: "__ftl0__", Expr: b}},
			"&lt;b&gt;<i>z</i>!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := (&Composite{Program: MustCompile(tt.source), Holes: tt.holes}).Eval(env)
			if err != nil {
				t.Fatalf("Eval() error: %v", err)
			}

			m, ok := got.(*outputformat.Markup)
			if !ok {
				t.Fatalf("Eval() = %#v, want markup", got)
			}

			if m.Format() != outputformat.HTML || m.MarkupString() != tt.want {
				t.Errorf("Eval() = %s %q, want HTML %q", m.FormatName(), m.MarkupString(), tt.want)
			}
		})
	}

	c := &Composite{
		Program: MustCompile(`__ftl0__() + __ftl1__()`),
		Holes:   []Hole{{Name: "__ftl0__", Expr: a}, {Name: "__ftl1__", Expr: r}},
	}

	if _, err := c.Eval(env); !errors.Is(err, outputformat.ErrIncompatibleOutputFormat) {
		t.Errorf("Eval() error = %v, want ErrIncompatibleOutputFormat", err)
	}
}

// Errors raised by the program name the builtin applications as written.
func TestCompositeEvalErrorSource(t *testing.T) {
	env := &testEnv{ctx: t.Context(), vars: map[string]any{"name": "ada"}}

	c := &Composite{
		Program: MustCompile(`__ftl0__().missing.deeper`),
		Holes:   []Hole{{Name: "__ftl0__", Expr: upper{MustCompile("name")}}},
	}

	_, err := c.Eval(env)
	if !errors.Is(err, ErrEval) {
		t.Fatalf("Eval() error = %v, want ErrEval", err)
	}

	if msg := err.Error(); strings.Contains(msg, "__ftl") || !strings.Contains(msg, "name?upper") {
		t.Errorf("Eval() error = %q, want it to name name?upper", msg)
	}
}
