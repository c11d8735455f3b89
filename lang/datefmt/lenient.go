package datefmt

import (
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/model"
)

// Lenient parses most common date notations and renders ISO 8601.
type Lenient struct {
	out        *ISOLike
	loc        *time.Location
	monthFirst bool
}

// NewLenient returns a lenient format. Ambiguous numeric dates are read
// month first only for locales that write them that way.
func NewLenient(typ model.DateType, locale language.Tag, loc *time.Location) (*Lenient, error) {
	out, err := NewISO("iso", typ, loc)
	if err != nil {
		return nil, err
	}

	return &Lenient{
		out:        out,
		loc:        out.loc,
		monthFirst: monthFirst(MondayLocale(locale)),
	}, nil
}

func (f *Lenient) Format(t time.Time, zoneless bool) (string, error) {
	return f.out.Format(t, zoneless)
}

func (f *Lenient) Parse(s string) (time.Time, error) {
	t, err := dateparse.ParseIn(s, f.loc, dateparse.PreferMonthFirst(f.monthFirst))
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Layout: f.Description(), Msg: err.Error()}
	}

	return t, nil
}

func (f *Lenient) Description() string { return "lenient " + f.out.Description() }
func (*Lenient) IsLocaleBound() bool   { return true }
