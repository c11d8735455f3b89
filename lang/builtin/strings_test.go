package builtin

import (
	"errors"
	"math"
	"testing"

	"github.com/ardnew/ftl/lang/model"
)

func TestStringBuiltins(t *testing.T) {
	tests := []struct {
		target model.Value
		name   string
		args   []model.Value
		want   string
	}{
		{model.String("  hello world"), "cap_first", nil, "  Hello world"},
		{model.String("Hello"), "uncap_first", nil, "hello"},
		{model.String("hello wORLD"), "capitalize", nil, "Hello World"},
		{model.String("straße"), "upper_case", nil, "STRASSE"},
		{model.String("ABC"), "lower_case", nil, "abc"},
		{model.String(" x \n"), "trim", nil, "x"},
		{model.String("x\r\n"), "chop_linebreak", nil, "x"},
		{model.String("héllo"), "length", nil, "5"},
		{model.Int(42), "length", nil, "2"},
		{model.String("abc"), "left_pad", []model.Value{model.Int(5)}, "  abc"},
		{model.String("abc"), "left_pad", []model.Value{model.Int(8), model.String("12")}, "12121abc"},
		{model.String("abc"), "right_pad", []model.Value{model.Int(8), model.String("12")}, "abc21212"},
		{model.String("abcdef"), "left_pad", []model.Value{model.Int(3)}, "abcdef"},
		{model.String("héllo"), "substring", []model.Value{model.Int(1), model.Int(3)}, "él"},
		{model.String("héllo"), "substring", []model.Value{model.Int(2)}, "llo"},
		{model.String("héllo"), "index_of", []model.Value{model.String("l")}, "2"},
		{model.String("héllo"), "last_index_of", []model.Value{model.String("l")}, "3"},
		{model.String("héllo"), "index_of", []model.Value{model.String("l"), model.Int(4)}, "-1"},
		{model.String("héllo"), "contains", []model.Value{model.String("éll")}, "true"},
		{model.String("héllo"), "starts_with", []model.Value{model.String("x")}, "false"},
		{model.String("héllo"), "ends_with", []model.Value{model.String("lo")}, "true"},
		{model.String("true"), "boolean", nil, "true"},
		{model.String("1.5"), "number", nil, "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text(t, newTestEnv(t), tt.target, tt.name, tt.args...); got != tt.want {
				t.Errorf("?%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestWordList(t *testing.T) {
	v, err := apply(t, newTestEnv(t), model.String(" a  bc\td "), "word_list")
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	want := model.List{model.String("a"), model.String("bc"), model.String("d")}
	if got := v.(model.List); len(got) != len(want) || got[0] != want[0] || got[2] != want[2] {
		t.Errorf("?word_list = %v, want %v", got, want)
	}
}

func TestStringBuiltinErrors(t *testing.T) {
	tests := []struct {
		target model.Value
		name   string
		args   []model.Value
		want   error
	}{
		{model.String("x"), "boolean", nil, ErrInvalidArg},
		{model.String("x"), "number", nil, ErrInvalidArg},
		{model.String("abc"), "left_pad", []model.Value{model.Int(5), model.String("")}, ErrInvalidArg},
		{model.String("abc"), "substring", []model.Value{model.Int(2), model.Int(1)}, ErrInvalidArg},
		{model.String("abc"), "contains", []model.Value{model.Int(1)}, ErrArgType},
		{model.String("abc"), "replace", []model.Value{model.String("a")}, ErrArgCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := apply(t, newTestEnv(t), tt.target, tt.name, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("?%s error = %v, want %v", tt.name, err, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{" -1.25 ", -1.25},
		{"INF", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
	}

	for _, tt := range tests {
		n, err := ParseNumber(tt.in)
		if err != nil || n.Float64() != tt.want {
			t.Errorf("ParseNumber(%q) = %v, %v, want %v", tt.in, n, err, tt.want)
		}
	}

	if n, err := ParseNumber("NaN"); err != nil || !n.IsNaN() {
		t.Errorf("ParseNumber(NaN) = %v, %v", n, err)
	}
}

func TestRegexBuiltins(t *testing.T) {
	tests := []struct {
		target string
		name   string
		args   []model.Value
		want   string
	}{
		{"aBc", "matches", []model.Value{model.String("abc"), model.String("i")}, "true"},
		{"abcd", "matches", []model.Value{model.String("abc")}, "false"},
		{"a.b.c", "replace", []model.Value{model.String("."), model.String("-")}, "a-b-c"},
		{"a.b.c", "replace", []model.Value{model.String("."), model.String("-"), model.String("f")}, "a-b.c"},
		{"a1b22", "replace", []model.Value{model.String("[0-9]+"), model.String("#"), model.String("r")}, "a#b#"},
		{"aXbx", "replace", []model.Value{model.String("x"), model.String("$"), model.String("i")}, "a$b$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text(t, newTestEnv(t), model.String(tt.target), tt.name, tt.args...); got != tt.want {
				t.Errorf("?%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestMatchGroups(t *testing.T) {
	env := newTestEnv(t)

	m, err := apply(t, env, model.String("x=1, y=22"), "matches", model.String(`(\w)=(\d+)`))
	if err != nil {
		t.Fatalf("?matches error: %v", err)
	}

	seq := m.(model.Sequence)
	if seq.Len() != 2 {
		t.Fatalf("?matches found %d, want 2", seq.Len())
	}

	g, err := apply(t, env, seq.At(1), "groups")
	if err != nil {
		t.Fatalf("?groups error: %v", err)
	}

	groups := g.(model.List)
	if len(groups) != 3 || groups[0] != model.String("y=22") || groups[2] != model.String("22") {
		t.Errorf("?groups = %v", groups)
	}
}

func TestSplit(t *testing.T) {
	v, err := apply(t, newTestEnv(t), model.String("a,b,,c"), "split", model.String(","))
	if err != nil {
		t.Fatalf("?split error: %v", err)
	}

	if got := v.(model.Sequence).Len(); got != 4 {
		t.Errorf("?split has %d items, want 4", got)
	}
}

func TestNumberBuiltins(t *testing.T) {
	tests := []struct {
		target model.Value
		name   string
		want   string
	}{
		{model.Int(-3), "abs", "3"},
		{model.Float(-2.5), "abs", "2.5"},
		{model.Float(2.1), "ceiling", "3"},
		{model.Float(2.9), "floor", "2"},
		{model.Float(2.5), "round", "3"},
		{model.Float(-2.5), "round", "-2"},
		{model.Float(3.99), "int", "3"},
		{model.Int(40000), "short", "-25,536"},
		{model.Int(200), "byte", "-56"},
		{model.Float(math.Inf(1)), "is_infinite", "true"},
		{model.Float(math.NaN()), "is_nan", "true"},
		{model.Float(1234.5678), "c", "1234.5678"},
		{model.Int(1234567), "c", "1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text(t, newTestEnv(t), tt.target, tt.name); got != tt.want {
				t.Errorf("?%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestComputerFormatVersions(t *testing.T) {
	tests := []struct {
		version Version
		in      float64
		want    string
	}{
		{V2_3_0, math.Inf(1), "INF"},
		{V2_3_24, math.Inf(-1), "-INF"},
		{V2_3_32, math.Inf(1), "Infinity"},
		{VersionLatest, math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		env := newTestEnv(t)
		env.version = tt.version

		if got := text(t, env, model.Float(tt.in), "c"); got != tt.want {
			t.Errorf("?c@%s = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		format string
		n      model.Number
		want   string
	}{
		{"number", model.Float(1234.5678), "1,234.568"},
		{"0.00", model.Float(1234.5678), "1234.57"},
		{"#,##0.0", model.Int(1234), "1,234.0"},
		{"000", model.Int(7), "007"},
		{"c", model.Float(0.5), "0.5"},
		{"computer", model.Int(-3), "-3"},
	}

	for _, tt := range tests {
		got, err := FormatNumber(env, tt.n, tt.format)
		if err != nil {
			t.Fatalf("FormatNumber(%q) error: %v", tt.format, err)
		}

		if got != tt.want {
			t.Errorf("FormatNumber(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}

	if _, err := FormatNumber(env, model.Int(1), "0.0E0"); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("FormatNumber(bad pattern) error = %v, want %v", err, ErrInvalidArg)
	}
}

func TestFormatBool(t *testing.T) {
	tests := []struct {
		b      bool
		format string
		want   string
	}{
		{true, "yes,no", "yes"},
		{false, "yes,no", "no"},
		{false, "c", "false"},
		{true, "", "true"},
	}

	for _, tt := range tests {
		got, err := FormatBool(tt.b, tt.format)
		if err != nil || got != tt.want {
			t.Errorf("FormatBool(%v, %q) = %q, %v, want %q", tt.b, tt.format, got, err, tt.want)
		}
	}

	if _, err := FormatBool(true, "yes"); !errors.Is(err, ErrInvalidArg) {
		t.Errorf("FormatBool(yes) error = %v, want %v", err, ErrInvalidArg)
	}
}
