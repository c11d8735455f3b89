// Package datefmt formats and parses date/time values for templates.
//
// The ISO and XS families are configured by a settings string such as
// "iso m nz" or "xs u": a prefix followed by tokens separated by spaces or
// underscores.
//
//	h   accuracy: hours (not allowed by "xs")
//	m   accuracy: minutes (not allowed by "xs")
//	s   accuracy: seconds
//	ms  accuracy: milliseconds, always shown
//	nz  never show the zone offset
//	fz  always show the zone offset
//	u   format in UTC
//
// Output of these families is locale independent. Other settings select
// locale-bound formats (see [Factory]). Parsing a formatted value yields the
// value truncated to the format's accuracy.
package datefmt

//go:generate go tool stringer --linecomment --type Accuracy --output accuracy_string.go

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/ftl/pkg"
)

var (
	ErrSyntax              = pkg.NewError("invalid date format settings")
	ErrDateParse           = pkg.NewError("cannot parse date")
	ErrUnsupportedDateType = pkg.NewError("cannot format a date of unknown type; use ?date, ?time or ?datetime to specify it")
)

// Format formats and parses values of one date type.
type Format interface {
	// Format renders t. Zoneless values are never shifted to another zone
	// and, by default, render without an offset.
	Format(t time.Time, zoneless bool) (string, error)
	Parse(s string) (time.Time, error)
	// Description names the format in error messages.
	Description() string
	// IsLocaleBound reports whether output depends on the locale.
	IsLocaleBound() bool
}

// Accuracy is the smallest time unit a format renders.
type Accuracy int

const (
	AccuracyHours   Accuracy = iota // hours
	AccuracyMinutes                 // minutes
	AccuracySeconds                 // seconds
	// AccuracyMilliseconds renders milliseconds only when non-zero, with
	// trailing zeros removed.
	AccuracyMilliseconds // milliseconds
	// AccuracyMillisecondsForced always renders three digits.
	AccuracyMillisecondsForced // milliseconds (forced)
)

// ZoneOffset controls whether the zone offset is rendered.
type ZoneOffset int

const (
	// ZoneOffsetDefault shows the offset unless the value is zoneless.
	ZoneOffsetDefault ZoneOffset = iota
	ZoneOffsetShow
	ZoneOffsetHide
)

func (z ZoneOffset) String() string {
	switch z {
	case ZoneOffsetShow:
		return "show"
	case ZoneOffsetHide:
		return "hide"
	}

	return "default"
}

// SyntaxError reports an invalid settings string.
type SyntaxError struct {
	Settings string
	Pos      int // byte offset of the offending character
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s %q, column %d: %s", ErrSyntax.Error(), e.Settings, e.Pos+1, e.Msg)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrSyntax.Error()),
		slog.String("settings", e.Settings),
		slog.Int("pos", e.Pos),
		slog.String("reason", e.Msg),
	)
}

// ParseError reports input that does not match a format.
type ParseError struct {
	Input  string
	Pos    int // byte offset where matching failed
	Layout string
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q as %s, at position %d: %s",
		ErrDateParse.Error(), e.Input, e.Layout, e.Pos, e.Msg)
}

func (e *ParseError) Is(target error) bool { return target == ErrDateParse }

func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrDateParse.Error()),
		slog.String("input", e.Input),
		slog.String("layout", e.Layout),
		slog.Int("pos", e.Pos),
		slog.String("reason", e.Msg),
	)
}
