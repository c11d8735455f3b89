package datefmt

import (
	"fmt"
	"unicode/utf8"
)

const xsAccuracyMsg = "less than seconds accuracy isn't allowed by the XML Schema format"

// Spec is the parsed form of the tokens of an ISO or XS settings string.
type Spec struct {
	Accuracy   Accuracy
	ZoneOffset ZoneOffset
	UseUTC     bool
}

// DefaultSpec is the Spec of a settings string without tokens.
var DefaultSpec = Spec{Accuracy: AccuracyMilliseconds}

// ParseSpec scans settings from byte offset start, which must be just past
// the family prefix ("iso" or "xs"). In XS mode accuracies below seconds
// are rejected.
func ParseSpec(settings string, start int, xs bool) (Spec, error) {
	spec := DefaultSpec

	var (
		afterSep    bool
		accuracySet bool
		offsetSet   bool
	)

	fail := func(pos int, format string, args ...any) (Spec, error) {
		return Spec{}, &SyntaxError{
			Settings: settings,
			Pos:      pos,
			Msg:      fmt.Sprintf(format, args...),
		}
	}

	// next reports whether the character following pos is want.
	next := func(i int, want byte) bool {
		return i < len(settings) && settings[i] == want
	}

	for i := start; i < len(settings); {
		c, size := utf8.DecodeRuneInString(settings[i:])
		ch := string(c)
		pos := i
		i += size

		if c == '_' || c == ' ' {
			afterSep = true

			continue
		}

		if !afterSep {
			return fail(pos, "missing space or \"_\" before %q", ch)
		}

		switch c {
		case 'h', 'm', 's':
			if accuracySet {
				return fail(pos, "character %q is unexpected as accuracy was already specified earlier", ch)
			}

			switch {
			case c == 'h':
				if xs {
					return fail(pos, xsAccuracyMsg)
				}

				spec.Accuracy = AccuracyHours
			case c == 'm' && next(i, 's'):
				i++
				spec.Accuracy = AccuracyMillisecondsForced
			case c == 'm':
				if xs {
					return fail(pos, xsAccuracyMsg)
				}

				spec.Accuracy = AccuracyMinutes
			default:
				spec.Accuracy = AccuracySeconds
			}

			accuracySet = true

		case 'n', 'f':
			if offsetSet {
				return fail(pos, "character %q is unexpected as zone offset visibility was already specified earlier", ch)
			}

			if !next(i, 'z') {
				return fail(i, "%q must be followed by \"z\"", ch)
			}

			i++

			spec.ZoneOffset = ZoneOffsetShow
			if c == 'n' {
				spec.ZoneOffset = ZoneOffsetHide
			}

			offsetSet = true

		case 'u':
			if spec.UseUTC {
				return fail(pos, "character %q was already used earlier", ch)
			}

			spec.UseUTC = true

		default:
			return fail(pos, "unexpected character %q; expected the beginning of one of: h, m, s, ms, nz, fz, u", ch)
		}

		afterSep = false
	}

	return spec, nil
}
