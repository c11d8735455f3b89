package datefmt

import (
	"strings"
	"time"

	"github.com/ardnew/ftl/lang/model"
)

// family holds what differs between the ISO 8601 and XML Schema formats.
type family struct {
	prefix string
	xs     bool
	desc   [3]string // date, time, datetime
}

var (
	isoFamily = &family{
		prefix: "iso",
		desc: [3]string{
			"ISO 8601 (subset) date",
			"ISO 8601 (subset) time",
			"ISO 8601 (subset) date-time",
		},
	}
	xsFamily = &family{
		prefix: "xs",
		xs:     true,
		desc: [3]string{
			"W3C XML Schema date",
			"W3C XML Schema time",
			"W3C XML Schema dateTime",
		},
	}
)

// ISOLike is a locale independent format of the ISO 8601 or XML Schema
// family.
type ISOLike struct {
	fam  *family
	typ  model.DateType
	spec Spec
	loc  *time.Location
}

// NewISO returns an ISO 8601 format for settings such as "iso m nz".
// Values of type typ are rendered in loc unless the settings select UTC.
func NewISO(settings string, typ model.DateType, loc *time.Location) (*ISOLike, error) {
	return newISOLike(isoFamily, settings, typ, loc)
}

// NewXS returns an XML Schema format for settings such as "xs u".
func NewXS(settings string, typ model.DateType, loc *time.Location) (*ISOLike, error) {
	return newISOLike(xsFamily, settings, typ, loc)
}

// NewISOSpec returns an ISO 8601 format from an already parsed Spec.
func NewISOSpec(spec Spec, typ model.DateType, loc *time.Location) (*ISOLike, error) {
	return makeISOLike(isoFamily, spec, typ, loc)
}

func newISOLike(
	fam *family, settings string, typ model.DateType, loc *time.Location,
) (*ISOLike, error) {
	if !strings.HasPrefix(settings, fam.prefix) {
		return nil, &SyntaxError{
			Settings: settings,
			Msg:      "settings must start with \"" + fam.prefix + "\"",
		}
	}

	if typ == model.DateTypeUnknown {
		return nil, ErrUnsupportedDateType
	}

	spec, err := ParseSpec(settings, len(fam.prefix), fam.xs)
	if err != nil {
		return nil, err
	}

	return makeISOLike(fam, spec, typ, loc)
}

func makeISOLike(
	fam *family, spec Spec, typ model.DateType, loc *time.Location,
) (*ISOLike, error) {
	if typ == model.DateTypeUnknown {
		return nil, ErrUnsupportedDateType
	}

	if loc == nil {
		loc = time.UTC
	}

	return &ISOLike{fam: fam, typ: typ, spec: spec, loc: loc}, nil
}

// Spec returns the parsed settings.
func (f *ISOLike) Spec() Spec { return f.spec }

// Type returns the date type the format renders.
func (f *ISOLike) Type() model.DateType { return f.typ }

// Format renders t. Without an explicit zone setting the offset is shown
// unless the value is zoneless. Zoneless values are never moved to UTC.
func (f *ISOLike) Format(t time.Time, zoneless bool) (string, error) {
	showOffset := !zoneless
	if f.spec.ZoneOffset != ZoneOffsetDefault {
		showOffset = f.spec.ZoneOffset == ZoneOffsetShow
	}

	loc := f.loc
	if !zoneless && f.spec.UseUTC {
		loc = time.UTC
	}

	datePart := f.typ != model.DateTypeTime
	timePart := f.typ != model.DateTypeDate

	// ISO 8601 has no zone designator for a calendar date.
	if !f.fam.xs && !timePart {
		showOffset = false
	}

	t = t.In(loc)

	// XML Schema offsets have no seconds.
	if f.fam.xs && showOffset {
		t = minuteZone(t)
	}

	buf := make([]byte, 0, 32)
	buf = appendISO(buf, t, datePart, timePart, showOffset, f.spec.Accuracy)

	return string(buf), nil
}

// Parse reads s as a value of the format's date type. Values without an
// explicit offset are read in UTC when the settings select it, otherwise
// in the configured zone.
func (f *ISOLike) Parse(s string) (time.Time, error) {
	loc := f.loc
	if f.spec.UseUTC {
		loc = time.UTC
	}

	p := &parser{input: s, layout: f.Description(), xs: f.fam.xs, loc: loc}

	switch f.typ {
	case model.DateTypeDate:
		return p.parseDate()
	case model.DateTypeTime:
		return p.parseTime()
	default:
		return p.parseDateTime()
	}
}

func (f *ISOLike) Description() string {
	switch f.typ {
	case model.DateTypeDate:
		return f.fam.desc[0]
	case model.DateTypeTime:
		return f.fam.desc[1]
	default:
		return f.fam.desc[2]
	}
}

func (*ISOLike) IsLocaleBound() bool { return false }
