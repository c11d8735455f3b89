package datefmt

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		settings string
		xs       bool
		want     Spec
	}{
		{"iso", false, DefaultSpec},
		{"iso m nz", false, Spec{Accuracy: AccuracyMinutes, ZoneOffset: ZoneOffsetHide}},
		{"iso_u_ms_nz", false, Spec{Accuracy: AccuracyMillisecondsForced, ZoneOffset: ZoneOffsetHide, UseUTC: true}},
		{"iso h fz", false, Spec{Accuracy: AccuracyHours, ZoneOffset: ZoneOffsetShow}},
		{"iso  s", false, Spec{Accuracy: AccuracySeconds}},
		{"xs ms u", true, Spec{Accuracy: AccuracyMillisecondsForced, UseUTC: true}},
		{"xs_fz", true, Spec{Accuracy: AccuracyMilliseconds, ZoneOffset: ZoneOffsetShow}},
	}

	for _, tt := range tests {
		t.Run(tt.settings, func(t *testing.T) {
			start := len("iso")
			if tt.xs {
				start = len("xs")
			}

			got, err := ParseSpec(tt.settings, start, tt.xs)
			if err != nil {
				t.Fatalf("ParseSpec(%q) error: %v", tt.settings, err)
			}

			if got != tt.want {
				t.Errorf("ParseSpec(%q) = %+v, want %+v", tt.settings, got, tt.want)
			}
		})
	}
}

func TestParseSpecErrors(t *testing.T) {
	tests := []struct {
		settings string
		xs       bool
		pos      int
		msg      string
	}{
		{"iso nz fz", false, 7, "zone offset visibility was already specified"},
		{"xs h", true, 3, "less than seconds accuracy"},
		{"xs m", true, 3, "less than seconds accuracy"},
		{"isonz", false, 3, `missing space or "_" before "n"`},
		{"iso n", false, 5, `"n" must be followed by "z"`},
		{"iso fx", false, 5, `"f" must be followed by "z"`},
		{"iso u u", false, 6, `"u" was already used`},
		{"iso s m", false, 6, "accuracy was already specified"},
		{"iso ms s", false, 7, "accuracy was already specified"},
		{"iso x", false, 4, "h, m, s, ms, nz, fz, u"},
		{"iso msnz", false, 6, "missing space"},
	}

	for _, tt := range tests {
		t.Run(tt.settings, func(t *testing.T) {
			start := len("iso")
			if tt.xs {
				start = len("xs")
			}

			_, err := ParseSpec(tt.settings, start, tt.xs)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("ParseSpec(%q) error = %v, want ErrSyntax", tt.settings, err)
			}

			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not a *SyntaxError", err)
			}

			if se.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", se.Pos, tt.pos)
			}

			if !strings.Contains(se.Msg, tt.msg) {
				t.Errorf("Msg = %q, want it to contain %q", se.Msg, tt.msg)
			}
		})
	}
}
