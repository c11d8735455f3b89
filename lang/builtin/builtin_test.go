package builtin

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/datefmt"
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
	"github.com/ardnew/ftl/log"
)

var fixedTime = time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

// testEnv is a minimal rendering context with ISO date formats.
type testEnv struct {
	ctx     context.Context
	version Version
	format  outputformat.Format
	autoEsc bool
	zone    *time.Location
	vars    map[string]any
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	return &testEnv{
		ctx:     t.Context(),
		version: VersionDefault,
		format:  outputformat.Undefined,
		zone:    time.UTC,
	}
}

func (e *testEnv) Context() context.Context          { return e.ctx }
func (e *testEnv) Logger() log.Logger                { return log.Logger{} }
func (e *testEnv) Variables() map[string]any         { return e.vars }
func (e *testEnv) OutputFormat() outputformat.Format { return e.format }
func (e *testEnv) AutoEscaping() bool                { return e.autoEsc }
func (e *testEnv) TimeZone() *time.Location          { return e.zone }
func (e *testEnv) Locale() language.Tag              { return language.AmericanEnglish }
func (e *testEnv) NumberFormat() string              { return "number" }
func (e *testEnv) BooleanFormat() string             { return "true,false" }

func (e *testEnv) DateFormat(typ model.DateType) (datefmt.Format, error) {
	return datefmt.NewISO("iso", typ, e.zone)
}

func (e *testEnv) DateFormatFor(settings string, typ model.DateType) (datefmt.Format, error) {
	return datefmt.NewISO(settings, typ, e.zone)
}

func (e *testEnv) Parse(src string) (expr.Expression, error) { return expr.Compile(src) }

func (e *testEnv) Interpret(name, src string) (model.Directive, error) {
	return &model.Callable{Name: name, Invoke: func(w model.Writer) error {
		_, err := w.WriteString(src)

		return err
	}}, nil
}

func (e *testEnv) Constructor(name string) (model.Method, bool) {
	if name != "upper" {
		return nil, false
	}

	return model.MethodFunc(func(args []model.Value) (model.Value, error) {
		return model.String(strings.ToUpper(args[0].(model.Scalar).AsString())), nil
	}), true
}

// apply evaluates target?name, called with args when there are any.
func apply(t *testing.T, env *testEnv, target model.Value, name string, args ...model.Value) (model.Value, error) {
	t.Helper()

	in, err := Resolve(env.version, &expr.Literal{Value: target, Source: "x"}, name)
	if err != nil {
		t.Fatalf("Resolve(%q) error: %v", name, err)
	}

	if len(args) == 0 {
		return in.Eval(env)
	}

	lits := make([]expr.Expression, len(args))
	for i, a := range args {
		lits[i] = &expr.Literal{Value: a, Source: fmt.Sprint(a)}
	}

	return (&expr.MethodCall{Target: in, Args: lits}).Eval(env)
}

// text evaluates target?name and returns the result as a string.
func text(t *testing.T, env *testEnv, target model.Value, name string, args ...model.Value) string {
	t.Helper()

	v, err := apply(t, env, target, name, args...)
	if err != nil {
		t.Fatalf("?%s error: %v", name, err)
	}

	s, err := Stringify(env, v)
	if err != nil {
		t.Fatalf("?%s = %s, not printable: %v", name, model.Describe(v), err)
	}

	return s
}

func TestCanonicalForm(t *testing.T) {
	target := &expr.Literal{Value: model.String("a"), Source: `"a"`}

	for _, name := range Names() {
		in, err := Resolve(VersionLatest, target, name)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", name, err)
		}

		if got, want := in.CanonicalForm(), `"a"?`+name; got != want {
			t.Errorf("CanonicalForm() = %q, want %q", got, want)
		}

		if in.Key() != name {
			t.Errorf("Key() = %q, want %q", in.Key(), name)
		}
	}
}

func TestNamesComplete(t *testing.T) {
	names := Names()

	if !slices.IsSorted(names) {
		t.Errorf("Names() is not sorted")
	}

	for _, want := range []string{
		"abs", "ancestors", "c", "date_if_unknown", "default", "esc", "html",
		"is_date_like", "is_markup_output", "iso", "iso_local_h_nz", "iso_utc_fz",
		"iso_utc_ms_nz", "j_string", "markdown", "no_esc", "seq_last_index_of",
		"sort_by", "url_path", "web_safe", "word_list", "xml",
	} {
		if _, ok := slices.BinarySearch(names, want); !ok {
			t.Errorf("Names() lacks %q", want)
		}
	}

	var iso int

	for _, n := range names {
		if strings.HasPrefix(n, "iso") {
			iso++
		}
	}

	if iso != 25 {
		t.Errorf("%d iso builtins, want 25", iso)
	}
}

func TestAliasesShareDescriptor(t *testing.T) {
	for _, pair := range [][2]string{{"web_safe", "html"}, {"is_date_like", "is_date"}} {
		a, _ := Default().Lookup(pair[0])
		b, _ := Default().Lookup(pair[1])

		if a == nil || a != b {
			t.Errorf("Lookup(%q) and Lookup(%q) differ", pair[0], pair[1])
		}
	}
}

func TestUnknownBuiltin(t *testing.T) {
	_, err := Resolve(VersionDefault, &expr.Literal{Source: "x"}, "uper_case")
	if !errors.Is(err, ErrUnknownBuiltin) {
		t.Fatalf("Resolve() error = %v, want %v", err, ErrUnknownBuiltin)
	}

	var ue *UnknownBuiltinError
	if !errors.As(err, &ue) {
		t.Fatalf("Resolve() error is %T, want *UnknownBuiltinError", err)
	}

	if !slices.Contains(ue.Suggestions, "upper_case") {
		t.Errorf("Suggestions = %v, want upper_case among them", ue.Suggestions)
	}

	head, listing, ok := strings.Cut(err.Error(), "\n")
	if !ok {
		t.Fatalf("Error() = %q, want a listing", err.Error())
	}

	if !strings.Contains(head, `"uper_case"`) {
		t.Errorf("Error() head = %q, want the unknown name", head)
	}

	seen := map[string]int{}

	var lastLetter byte

	for _, line := range strings.Split(listing, "\n") {
		names := strings.Split(line, ", ")

		letter := names[0][0]
		if letter <= lastLetter {
			t.Errorf("line %q out of order after %q", line, lastLetter)
		}

		lastLetter = letter

		for _, n := range names {
			if n[0] != letter {
				t.Errorf("%q listed on the %q line", n, letter)
			}

			seen[n]++
		}
	}

	for _, n := range Names() {
		if seen[n] != 1 {
			t.Errorf("%q listed %d times, want 1", n, seen[n])
		}
	}

	if len(seen) != len(Names()) {
		t.Errorf("listing has %d names, want %d", len(seen), len(Names()))
	}
}

func TestVersionResolution(t *testing.T) {
	constant := func(s string) Func {
		return func(*Invocation, expr.Env) (model.Value, error) { return model.String(s), nil }
	}

	r := NewRegistry()
	r.Register("x",
		Variant{Min: 0, Func: constant("B")},
		Variant{Min: 3, Func: constant("A")},
	)
	r.Register("y", Variant{Min: 10, Func: constant("only")})

	if d, _ := r.Lookup("x"); !slices.Equal(d.Versions(), []Version{0, 3}) {
		t.Errorf("Versions() = %v, want [0 3]", d.Versions())
	}

	env := newTestEnv(t)

	tests := []struct {
		name    string
		version Version
		want    string
	}{
		{"x", 5, "A"},
		{"x", 3, "A"},
		{"x", 2, "B"},
		{"x", 0, "B"},
		{"y", 5, "only"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%d", tt.name, tt.version), func(t *testing.T) {
			in, err := r.Resolve(tt.version, &expr.Literal{Source: "t"}, tt.name)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}

			got, err := in.Eval(env)
			if err != nil {
				t.Fatalf("Eval() error: %v", err)
			}

			if got != model.String(tt.want) {
				t.Errorf("Eval() = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestRegisterPanics(t *testing.T) {
	r := NewRegistry()
	single(r, "x", nil)

	for name, fn := range map[string]func(){
		"duplicate":     func() { single(r, "x", nil) },
		"no variants":   func() { r.Register("z") },
		"unknown alias": func() { r.Alias("a", "missing") },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("no panic")
				}
			}()

			fn()
		})
	}
}

func TestArgCount(t *testing.T) {
	r := NewRegistry()
	single(r, "pair", func(in *Invocation, _ expr.Env) (model.Value, error) {
		return in.method(2, 2, func([]model.Value) (model.Value, error) { return model.True, nil }), nil
	})

	in, err := r.Resolve(VersionDefault, &expr.Literal{Source: "t"}, "pair")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	m, err := in.Eval(newTestEnv(t))
	if err != nil {
		t.Fatalf("Eval() error: %v", err)
	}

	for _, n := range []int{1, 3} {
		_, err := m.(model.Method).Call(make([]model.Value, n))

		var ae *ArgCountError
		if !errors.As(err, &ae) {
			t.Fatalf("Call(%d args) error = %v, want *ArgCountError", n, err)
		}

		if ae.Builtin != "?pair" || ae.Min != 2 || ae.Max != 2 || ae.Actual != n {
			t.Errorf("Call(%d args) error = %+v", n, ae)
		}

		if !errors.Is(err, ErrArgCount) {
			t.Errorf("errors.Is(%v, ErrArgCount) = false", err)
		}
	}

	if _, err := m.(model.Method).Call(make([]model.Value, 2)); err != nil {
		t.Errorf("Call(2 args) error: %v", err)
	}
}

func TestArgErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ArgCountError{Builtin: "?x", Min: 2, Max: 2, Actual: 1}, "?x expects 2 arguments, but has received 1"},
		{&ArgCountError{Builtin: "?x", Min: 1, Max: 1, Actual: 0}, "?x expects 1 argument, but has received 0"},
		{&ArgCountError{Builtin: "?x", Min: 1, Max: 3, Actual: 4}, "?x expects 1 to 3 arguments, but has received 4"},
		{&ArgCountError{Builtin: "?x", Min: 1, Max: -1, Actual: 0}, "?x expects at least 1 argument, but has received 0"},
		{
			&ArgTypeError{Builtin: "?x", Index: 1, Expected: "string", Actual: "number"},
			"?x argument #2 must be a string, but it was number",
		},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestRequireHelpers(t *testing.T) {
	args := []model.Value{model.Int(1), model.String("s"), model.True}

	if _, err := RequireString("k", args, 0); !errors.Is(err, ErrArgType) {
		t.Errorf("RequireString(number) error = %v, want %v", err, ErrArgType)
	}

	if _, err := RequireNumber("k", args, 1); !errors.Is(err, ErrArgType) {
		t.Errorf("RequireNumber(string) error = %v, want %v", err, ErrArgType)
	}

	if b, err := RequireBool("k", args, 2); err != nil || !b {
		t.Errorf("RequireBool() = %v, %v", b, err)
	}

	if s, err := OptString("k", args, 5, "def"); err != nil || s != "def" {
		t.Errorf("OptString() = %q, %v", s, err)
	}

	if n, err := OptInt("k", args, 0, 9); err != nil || n != 1 {
		t.Errorf("OptInt() = %d, %v", n, err)
	}
}

func TestTargetType(t *testing.T) {
	_, err := apply(t, newTestEnv(t), model.List{}, "upper_case")

	var te *TargetTypeError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TargetTypeError", err)
	}

	if te.Builtin != "?upper_case" || te.Target != "x" || te.Actual != "sequence" {
		t.Errorf("error = %+v", te)
	}
}

func TestUndefinedTarget(t *testing.T) {
	_, err := apply(t, newTestEnv(t), nil, "upper_case")
	if !errors.Is(err, expr.ErrUndefined) {
		t.Errorf("error = %v, want %v", err, expr.ErrUndefined)
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"2.3.24", V2_3_24},
		{"2.3", V2_3_0},
		{" 2.3.32 ", V2_3_32},
	}

	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseVersion(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}

	for _, in := range []string{"", "2.x", "2.3.1000", "1.2.3.4"} {
		if _, err := ParseVersion(in); !errors.Is(err, ErrInvalidVersion) {
			t.Errorf("ParseVersion(%q) error = %v, want %v", in, err, ErrInvalidVersion)
		}
	}

	if got := V2_3_24.String(); got != "2.3.24" {
		t.Errorf("String() = %q, want %q", got, "2.3.24")
	}
}

func BenchmarkResolve(b *testing.B) {
	target := &expr.Literal{Value: model.String("a"), Source: `"a"`}

	for b.Loop() {
		if _, err := Resolve(VersionLatest, target, "upper_case"); err != nil {
			b.Fatal(err)
		}
	}
}
