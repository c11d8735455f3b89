package cli

import (
	"slices"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang"
	"github.com/ardnew/ftl/lang/builtin"
)

func parseEngine(t *testing.T, args ...string) (*engineConfig, error) {
	t.Helper()

	var cli struct {
		Engine engineConfig `embed:""`
	}

	parser, err := kong.New(&cli, cli.Engine.vars())
	if err != nil {
		t.Fatal(err)
	}

	_, err = parser.Parse(args)

	return &cli.Engine, err
}

func TestEngineDefaults(t *testing.T) {
	f, err := parseEngine(t)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	got, want := lang.NewConfig(f.options()...), lang.NewConfig()

	if got.Version() != want.Version() {
		t.Errorf("Version() = %v, want %v", got.Version(), want.Version())
	}

	if got.OutputFormat() != want.OutputFormat() || got.AutoEscaping() != want.AutoEscaping() {
		t.Errorf("output format = (%q, %v), want (%q, %v)",
			got.OutputFormat(), got.AutoEscaping(), want.OutputFormat(), want.AutoEscaping())
	}

	if got.TimeZone() != time.UTC {
		t.Errorf("TimeZone() = %v, want UTC", got.TimeZone())
	}

	if got.Locale() != want.Locale() {
		t.Errorf("Locale() = %v, want %v", got.Locale(), want.Locale())
	}

	if got.NumberFormat() != want.NumberFormat() || got.BooleanFormat() != want.BooleanFormat() {
		t.Errorf("formats = (%q, %q), want (%q, %q)",
			got.NumberFormat(), got.BooleanFormat(), want.NumberFormat(), want.BooleanFormat())
	}
}

func TestEngineFlags(t *testing.T) {
	dir := t.TempDir()

	f, err := parseEngine(t,
		"--output-format=HTML",
		"--no-auto-escaping",
		"--incompatible-improvements=2.3.24",
		"--time-zone=America/New_York",
		"--locale=de-DE",
		"--number-format=0.00",
		"--boolean-format=yes,no",
		"-I", dir,
	)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	c := lang.NewConfig(f.options()...)

	if c.OutputFormat() != "HTML" || c.AutoEscaping() {
		t.Errorf("output format = (%q, %v), want (HTML, false)", c.OutputFormat(), c.AutoEscaping())
	}

	if c.Version() != builtin.V2_3_24 {
		t.Errorf("Version() = %v, want %v", c.Version(), builtin.V2_3_24)
	}

	if got := f.IncompatibleImprovements.String(); got != "2.3.24" {
		t.Errorf("IncompatibleImprovements.String() = %q, want %q", got, "2.3.24")
	}

	if got := c.TimeZone().String(); got != "America/New_York" {
		t.Errorf("TimeZone() = %q, want %q", got, "America/New_York")
	}

	if c.Locale() != language.MustParse("de-DE") {
		t.Errorf("Locale() = %v, want de-DE", c.Locale())
	}

	if c.NumberFormat() != "0.00" || c.BooleanFormat() != "yes,no" {
		t.Errorf("formats = (%q, %q), want (0.00, yes,no)", c.NumberFormat(), c.BooleanFormat())
	}

	if !slices.Equal(c.TemplatePath(), []string{dir}) {
		t.Errorf("TemplatePath() = %q, want %q", c.TemplatePath(), dir)
	}
}

func TestEngineFlagErrors(t *testing.T) {
	for _, arg := range []string{
		"--incompatible-improvements=two",
		"--time-zone=Nowhere/Special",
		"--locale=!!",
	} {
		if _, err := parseEngine(t, arg); err == nil {
			t.Errorf("Parse(%q) error = nil, want error", arg)
		}
	}
}
