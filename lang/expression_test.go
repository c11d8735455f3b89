package lang

import (
	"errors"
	"testing"

	"github.com/ardnew/ftl/lang/builtin"
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/log"
)

func TestCompileForms(t *testing.T) {
	tests := []struct {
		src  string
		want string
		kind string
	}{
		{"name", "name", "*expr.Program"},
		{"name?upper_case", "name?upper_case", "*builtin.Invocation"},
		{"name?upper_case?length", "name?upper_case?length", "*builtin.Invocation"},
		{`x?left_pad(3)`, "x?left_pad(3)", "*expr.MethodCall"},
		{`x?left_pad( 3 , "*" )`, `x?left_pad(3, "*")`, "*expr.MethodCall"},
		{"x?keys()", "x?keys()", "*expr.MethodCall"},
		{"(x?upper_case)", "x?upper_case", "*builtin.Invocation"},
		{"a + b?length", "(a + b?length)", "*expr.Composite"},
		{"-x?abs", "(-x?abs)", "*expr.Composite"},
		{"len(x?trim)", "len(x?trim)", "*expr.Composite"},
		{"xs[i?int]", "xs[i?int]", "*expr.Composite"},
		{"user.name?trim", "user.name?trim", "*builtin.Invocation"},
		{`"a,b"?split(",")`, `"a,b"?split(",")`, "*expr.MethodCall"},
		{"[1, 2]?size", "[1, 2]?size", "*builtin.Invocation"},
		{"1.5?round", "1.5?round", "*builtin.Invocation"},
		{"1e-3?abs", "1e-3?abs", "*builtin.Invocation"},
		{"1..3", "(1..3)", "*expr.Program"},
		{"a ? b : c", "(a ? b : c)", "*expr.Program"},
		{"a?.b ?? c", "(a?.b ?? c)", "*expr.Program"},
		{"not x?has_content", "(not x?has_content)", "*expr.Composite"},
		{`"?x" + y`, `("?x" + y)`, "*expr.Program"},
	}

	c := newCompiler(builtin.Default(), builtin.VersionDefault, log.Logger{})

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := c.compile(tt.src)
			if err != nil {
				t.Fatalf("compile(%q) error: %v", tt.src, err)
			}

			if got := e.CanonicalForm(); got != tt.want {
				t.Errorf("compile(%q).CanonicalForm() = %q, want %q", tt.src, got, tt.want)
			}

			if got := typeName(e); got != tt.kind {
				t.Errorf("compile(%q) = %s, want %s", tt.src, got, tt.kind)
			}
		})
	}
}

func typeName(e expr.Expression) string {
	switch e.(type) {
	case *expr.Program:
		return "*expr.Program"
	case *expr.Composite:
		return "*expr.Composite"
	case *expr.MethodCall:
		return "*expr.MethodCall"
	case *builtin.Invocation:
		return "*builtin.Invocation"
	}

	return "unknown"
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src    string
		target error
		offset int
	}{
		{"x?nope", builtin.ErrUnknownBuiltin, 2},
		{"a + b?upper_case?nope", builtin.ErrUnknownBuiltin, 17},
		{"x?left_pad(1", expr.ErrCompile, 10},
		{`x?left_pad(1, "*)`, expr.ErrCompile, 10},
		{"x?left_pad(1,)", expr.ErrCompile, 13},
		{"len(y?nope)", builtin.ErrUnknownBuiltin, 6},
		{"x?left_pad(y?nope)", builtin.ErrUnknownBuiltin, 13},
	}

	c := newCompiler(builtin.Default(), builtin.VersionDefault, log.Logger{})

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := c.compile(tt.src)
			if !errors.Is(err, tt.target) {
				t.Fatalf("compile(%q) error = %v, want %v", tt.src, err, tt.target)
			}

			off, ok := offsetOf(err)
			if !ok {
				t.Fatalf("compile(%q) error has no offset", tt.src)
			}

			if off != tt.offset {
				t.Errorf("compile(%q) error offset = %d, want %d", tt.src, off, tt.offset)
			}
		})
	}
}

func TestCompileSeparateHoles(t *testing.T) {
	c := newCompiler(builtin.Default(), builtin.VersionDefault, log.Logger{})

	e, err := c.compile(`x?left_pad(n?int, s?trim) + y?trim`)
	if err != nil {
		t.Fatalf("compile() error: %v", err)
	}

	comp, ok := e.(*expr.Composite)
	if !ok {
		t.Fatalf("compile() = %T, want *expr.Composite", e)
	}

	if len(comp.Holes) != 2 {
		t.Fatalf("len(Holes) = %d, want 2", len(comp.Holes))
	}

	if comp.Holes[0].Name == comp.Holes[1].Name {
		t.Errorf("holes share the name %q", comp.Holes[0].Name)
	}

	want := `(x?left_pad(n?int, s?trim) + y?trim)`
	if got := e.CanonicalForm(); got != want {
		t.Errorf("CanonicalForm() = %q, want %q", got, want)
	}
}
