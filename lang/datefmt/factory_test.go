package datefmt

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/log"
)

func TestFactoryDispatch(t *testing.T) {
	value := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		settings string
		typ      model.DateType
		locale   language.Tag
		want     string
		bound    bool
	}{
		{"iso", model.DateTypeDateTime, language.AmericanEnglish, "2024-03-05T14:07:09Z", false},
		{"xs nz", model.DateTypeDateTime, language.AmericanEnglish, "2024-03-05T14:07:09", false},
		{"lenient", model.DateTypeDate, language.AmericanEnglish, "2024-03-05", true},
		{"short", model.DateTypeDate, language.AmericanEnglish, "3/5/24", true},
		{"medium", model.DateTypeDate, language.AmericanEnglish, "Mar 5, 2024", true},
		{"long", model.DateTypeDate, language.German, "5. März 2024", true},
		{"short_medium", model.DateTypeDateTime, language.AmericanEnglish, "3/5/24 2:07:09 PM", true},
		{"medium", model.DateTypeTime, language.BritishEnglish, "14:07:09", true},
		{"2006/01/02", model.DateTypeUnknown, language.AmericanEnglish, "2024/03/05", true},
	}

	f := NewFactory(log.Logger{})

	for _, tt := range tests {
		t.Run(tt.settings+"/"+tt.locale.String(), func(t *testing.T) {
			format, err := f.Get(tt.settings, tt.typ, time.UTC, tt.locale)
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}

			got, err := format.Format(value, false)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}

			if format.IsLocaleBound() != tt.bound {
				t.Errorf("IsLocaleBound() = %v, want %v", format.IsLocaleBound(), tt.bound)
			}
		})
	}
}

func TestFactoryCache(t *testing.T) {
	f := NewFactory(log.Logger{})

	a, err := f.Get("iso m", model.DateTypeDate, time.UTC, language.English)
	if err != nil {
		t.Fatal(err)
	}

	b, err := f.Get("iso m", model.DateTypeDate, time.UTC, language.English)
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("Get() did not reuse the cached format")
	}

	c, err := f.Get("iso m", model.DateTypeTime, time.UTC, language.English)
	if err != nil {
		t.Fatal(err)
	}

	if a == c {
		t.Error("formats of different types share a cache entry")
	}
}

func TestFactoryErrors(t *testing.T) {
	f := NewFactory(log.Logger{})

	if _, err := f.Get("iso", model.DateTypeUnknown, nil, language.English); !errors.Is(err, ErrUnsupportedDateType) {
		t.Errorf("unknown type error = %v, want ErrUnsupportedDateType", err)
	}

	if _, err := f.Get("iso nz fz", model.DateTypeDate, nil, language.English); !errors.Is(err, ErrSyntax) {
		t.Errorf("bad settings error = %v, want ErrSyntax", err)
	}

	if _, err := f.Get("", model.DateTypeDate, nil, language.English); !errors.Is(err, ErrSyntax) {
		t.Errorf("empty settings error = %v, want ErrSyntax", err)
	}

	if _, err := f.Get("short_huge", model.DateTypeDateTime, nil, language.English); !errors.Is(err, ErrSyntax) {
		t.Errorf("bad style error = %v, want ErrSyntax", err)
	}
}

func TestLenientParse(t *testing.T) {
	tests := []struct {
		locale language.Tag
		input  string
		want   time.Time
	}{
		{language.AmericanEnglish, "03/05/2024", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{language.German, "03/05/2024", time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)},
		{language.AmericanEnglish, "March 5, 2024", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{language.AmericanEnglish, "2024-03-05T14:07:09Z", time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.locale.String()+"/"+tt.input, func(t *testing.T) {
			f, err := NewLenient(model.DateTypeDateTime, tt.locale, time.UTC)
			if err != nil {
				t.Fatal(err)
			}

			got, err := f.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	f, err := NewLenient(model.DateTypeDate, language.English, time.UTC)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.Parse("not a date"); !errors.Is(err, ErrDateParse) {
		t.Errorf("Parse() error = %v, want ErrDateParse", err)
	}
}

func TestMondayLocale(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		want string
	}{
		{language.AmericanEnglish, "en_US"},
		{language.BritishEnglish, "en_GB"},
		{language.MustParse("de-AT"), "de_DE"},
		{language.MustParse("fr-CA"), "fr_CA"},
		{language.MustParse("es-MX"), "es_ES"},
		{language.MustParse("sw"), "en_US"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			if got := string(MondayLocale(tt.tag)); got != tt.want {
				t.Errorf("MondayLocale(%v) = %q, want %q", tt.tag, got, tt.want)
			}
		})
	}
}
