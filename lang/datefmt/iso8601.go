package datefmt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ardnew/ftl/lang/model"
)

// FormatISO renders t, in its own location, in extended ISO 8601 notation
// with the parts that typ carries. Calendar dates never show an offset.
func FormatISO(t time.Time, typ model.DateType, acc Accuracy, showOffset bool) string {
	datePart := typ != model.DateTypeTime
	timePart := typ != model.DateTypeDate

	return string(appendISO(make([]byte, 0, 32), t, datePart, timePart, showOffset && timePart, acc))
}

// appendISO appends t in extended ISO 8601 notation. Years are
// astronomical (year 0 is 1 BC) and padded to four digits.
func appendISO(
	buf []byte, t time.Time, datePart, timePart, offsetPart bool, acc Accuracy,
) []byte {
	if datePart {
		year := t.Year()
		if year < 0 {
			buf = append(buf, '-')
			year = -year
		}

		buf = appendPadded(buf, year, 4)
		buf = append(buf, '-')
		buf = appendPadded(buf, int(t.Month()), 2)
		buf = append(buf, '-')
		buf = appendPadded(buf, t.Day(), 2)

		if timePart {
			buf = append(buf, 'T')
		}
	}

	if timePart {
		buf = appendPadded(buf, t.Hour(), 2)

		if acc >= AccuracyMinutes {
			buf = append(buf, ':')
			buf = appendPadded(buf, t.Minute(), 2)
		}

		if acc >= AccuracySeconds {
			buf = append(buf, ':')
			buf = appendPadded(buf, t.Second(), 2)
		}

		if acc >= AccuracyMilliseconds {
			buf = appendMillis(buf, t.Nanosecond()/int(time.Millisecond), acc == AccuracyMillisecondsForced)
		}
	}

	if offsetPart {
		buf = appendOffset(buf, t)
	}

	return buf
}

func appendMillis(buf []byte, ms int, forced bool) []byte {
	if ms == 0 && !forced {
		return buf
	}

	buf = append(buf, '.')
	buf = appendPadded(buf, ms, 3)

	if !forced {
		for buf[len(buf)-1] == '0' {
			buf = buf[:len(buf)-1]
		}
	}

	return buf
}

func appendOffset(buf []byte, t time.Time) []byte {
	_, off := t.Zone()
	if off == 0 {
		return append(buf, 'Z')
	}

	sign := byte('+')
	if off < 0 {
		sign = '-'
		off = -off
	}

	buf = append(buf, sign)
	buf = appendPadded(buf, off/3600, 2)
	buf = append(buf, ':')
	buf = appendPadded(buf, off/60%60, 2)

	if s := off % 60; s != 0 {
		buf = append(buf, ':')
		buf = appendPadded(buf, s, 2)
	}

	return buf
}

// minuteZone moves t to a fixed zone whose offset is that of t rounded to
// the minute. The instant is unchanged.
func minuteZone(t time.Time) time.Time {
	name, off := t.Zone()
	if off%60 == 0 {
		return t
	}

	abs := off
	if abs < 0 {
		abs = -abs
	}

	abs = (abs + 30) / 60 * 60
	if off < 0 {
		abs = -abs
	}

	return t.In(time.FixedZone(name, abs))
}

func appendPadded(buf []byte, n, width int) []byte {
	for d, w := n, 1; w < width; w++ {
		if d /= 10; d == 0 {
			buf = append(buf, '0')
		}
	}

	return strconv.AppendInt(buf, int64(n), 10)
}

// parser reads the ISO 8601 subset, or the stricter XML Schema forms when
// xs is set.
type parser struct {
	input  string
	layout string
	pos    int
	xs     bool
	loc    *time.Location
}

type clock struct {
	hour, min, sec, nsec int
	loc                  *time.Location
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{
		Input:  p.input,
		Pos:    p.pos,
		Layout: p.layout,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (p *parser) more() bool { return p.pos < len(p.input) }

func (p *parser) peek() byte {
	if p.more() {
		return p.input[p.pos]
	}

	return 0
}

func (p *parser) accept(c byte) bool {
	if p.more() && p.input[p.pos] == c {
		p.pos++

		return true
	}

	return false
}

func (p *parser) isDigit() bool {
	c := p.peek()

	return c >= '0' && c <= '9'
}

// digits reads exactly n decimal digits.
func (p *parser) digits(n int, what string) (int, error) {
	v := 0

	for range n {
		if !p.isDigit() {
			return 0, p.fail("expected %d-digit %s", n, what)
		}

		v = v*10 + int(p.input[p.pos]-'0')
		p.pos++
	}

	return v, nil
}

func (p *parser) end() error {
	if p.more() {
		return p.fail("unexpected %q", p.input[p.pos:])
	}

	return nil
}

func (p *parser) parseDate() (time.Time, error) {
	y, m, d, err := p.date()
	if err != nil {
		return time.Time{}, err
	}

	loc := p.loc
	if p.xs && p.more() {
		if loc, err = p.zone(); err != nil {
			return time.Time{}, err
		}
	}

	if err := p.end(); err != nil {
		return time.Time{}, err
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), nil
}

func (p *parser) parseTime() (time.Time, error) {
	c, err := p.clock()
	if err != nil {
		return time.Time{}, err
	}

	if err := p.end(); err != nil {
		return time.Time{}, err
	}

	return time.Date(1970, time.January, 1, c.hour, c.min, c.sec, c.nsec, c.loc), nil
}

func (p *parser) parseDateTime() (time.Time, error) {
	y, m, d, err := p.date()
	if err != nil {
		return time.Time{}, err
	}

	if !p.accept('T') {
		return time.Time{}, p.fail("expected \"T\" between the date and the time")
	}

	c, err := p.clock()
	if err != nil {
		return time.Time{}, err
	}

	if err := p.end(); err != nil {
		return time.Time{}, err
	}

	return time.Date(y, time.Month(m), d, c.hour, c.min, c.sec, c.nsec, c.loc), nil
}

// date reads [sign]yyyy-MM-dd, or yyyyMMdd outside XML Schema.
func (p *parser) date() (year, month, day int, err error) {
	neg := p.accept('-')
	if !neg && !p.xs {
		p.accept('+')
	}

	start := p.pos
	for p.isDigit() {
		p.pos++
	}

	run := p.pos - start
	p.pos = start

	switch {
	case run < 4:
		return 0, 0, 0, p.fail("expected a year of at least 4 digits")
	case run == 8 && !p.xs && p.peek() != '-':
		if year, err = p.digits(4, "year"); err != nil {
			return 0, 0, 0, err
		}

		if month, err = p.digits(2, "month"); err != nil {
			return 0, 0, 0, err
		}

		if day, err = p.digits(2, "day"); err != nil {
			return 0, 0, 0, err
		}
	default:
		if year, err = p.digits(run, "year"); err != nil {
			return 0, 0, 0, err
		}

		if !p.accept('-') {
			return 0, 0, 0, p.fail("expected \"-\" after the year")
		}

		if month, err = p.digits(2, "month"); err != nil {
			return 0, 0, 0, err
		}

		if !p.accept('-') {
			return 0, 0, 0, p.fail("expected \"-\" after the month")
		}

		if day, err = p.digits(2, "day"); err != nil {
			return 0, 0, 0, err
		}
	}

	if neg {
		year = -year
	}

	if month < 1 || month > 12 {
		p.pos = start
		return 0, 0, 0, p.fail("month %d is out of range", month)
	}

	if day < 1 || day > daysIn(year, month) {
		p.pos = start
		return 0, 0, 0, p.fail("day %d is out of range for %04d-%02d", day, year, month)
	}

	return year, month, day, nil
}

// clock reads HH[:mm[:ss[.fff]]] plus an optional zone. XML Schema requires
// the seconds and the extended separators.
func (p *parser) clock() (c clock, err error) {
	start := p.pos

	if c.hour, err = p.digits(2, "hour"); err != nil {
		return c, err
	}

	extended := p.peek() == ':'

	switch {
	case p.xs:
		if !p.accept(':') {
			return c, p.fail("expected \":\" after the hour")
		}

		if c.min, err = p.digits(2, "minute"); err != nil {
			return c, err
		}

		if !p.accept(':') {
			return c, p.fail("expected \":\" after the minute")
		}

		if c.sec, err = p.digits(2, "second"); err != nil {
			return c, err
		}
	case extended:
		p.pos++

		if c.min, err = p.digits(2, "minute"); err != nil {
			return c, err
		}

		if p.accept(':') {
			if c.sec, err = p.digits(2, "second"); err != nil {
				return c, err
			}
		}
	case p.isDigit():
		if c.min, err = p.digits(2, "minute"); err != nil {
			return c, err
		}

		if p.isDigit() {
			if c.sec, err = p.digits(2, "second"); err != nil {
				return c, err
			}
		}
	}

	if p.accept('.') || (!p.xs && p.accept(',')) {
		if c.nsec, err = p.fraction(); err != nil {
			return c, err
		}
	}

	switch {
	case c.hour == 24 && (c.min != 0 || c.sec != 0 || c.nsec != 0):
		p.pos = start
		return c, p.fail("hour 24 is only allowed as 24:00:00")
	case c.hour > 24:
		p.pos = start
		return c, p.fail("hour %d is out of range", c.hour)
	case c.min > 59:
		p.pos = start
		return c, p.fail("minute %d is out of range", c.min)
	case c.sec > 59:
		p.pos = start
		return c, p.fail("second %d is out of range", c.sec)
	}

	c.loc = p.loc
	if p.more() {
		c.loc, err = p.zone()
	}

	return c, err
}

// fraction reads the digits after the decimal mark as nanoseconds.
// Digits past the ninth are dropped.
func (p *parser) fraction() (int, error) {
	if !p.isDigit() {
		return 0, p.fail("expected digits after the decimal mark")
	}

	ns, scale := 0, int(time.Second)
	for p.isDigit() {
		if scale /= 10; scale > 0 {
			ns += int(p.input[p.pos]-'0') * scale
		}

		p.pos++
	}

	return ns, nil
}

// zone reads Z or ±HH[:MM[:SS]]. XML Schema requires the minutes and has
// no seconds.
func (p *parser) zone() (*time.Location, error) {
	if p.accept('Z') {
		return time.UTC, nil
	}

	sign := 1

	switch {
	case p.accept('+'):
	case p.accept('-'):
		sign = -1
	default:
		return nil, p.fail("expected a zone offset")
	}

	start := p.pos

	hh, err := p.digits(2, "offset hour")
	if err != nil {
		return nil, err
	}

	mm, extended := 0, false

	switch {
	case p.accept(':'):
		extended = true

		if mm, err = p.digits(2, "offset minute"); err != nil {
			return nil, err
		}
	case p.xs:
		return nil, p.fail("expected \":\" in the zone offset")
	case p.isDigit():
		if mm, err = p.digits(2, "offset minute"); err != nil {
			return nil, err
		}
	}

	ss := 0

	if extended && !p.xs && p.accept(':') {
		if ss, err = p.digits(2, "offset second"); err != nil {
			return nil, err
		}
	}

	if hh > 23 || mm > 59 || ss > 59 {
		p.pos = start
		return nil, p.fail("zone offset is out of range")
	}

	off := sign * (hh*3600 + mm*60 + ss)
	if off == 0 {
		return time.UTC, nil
	}

	return time.FixedZone("", off), nil
}

func daysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}

		return 28
	case 4, 6, 9, 11:
		return 30
	}

	return 31
}
