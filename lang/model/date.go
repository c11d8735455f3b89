package model

import "time"

// DateType tells which parts of a [Date] are meaningful.
type DateType int

const (
	DateTypeUnknown DateType = iota
	DateTypeDate
	DateTypeTime
	DateTypeDateTime
)

func (t DateType) String() string {
	switch t {
	case DateTypeDate:
		return "date"
	case DateTypeTime:
		return "time"
	case DateTypeDateTime:
		return "datetime"
	}

	return "unknown"
}

// Date is a point in time tagged with the parts that carry meaning.
//
// Zoneless marks values that were created without a time zone, such as a
// date-only column read from a database; formatting such values never
// converts them to another zone.
type Date struct {
	Time     time.Time
	Type     DateType
	Zoneless bool
}

// NewDate returns a Date of the given type.
func NewDate(t time.Time, typ DateType) Date { return Date{Time: t, Type: typ} }

func (Date) TypeName() string { return "date" }
func (d Date) AsDate() Date   { return d }

// WithType returns a copy of d with its type replaced.
func (d Date) WithType(typ DateType) Date {
	d.Type = typ

	return d
}
