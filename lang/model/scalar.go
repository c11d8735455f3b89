package model

import (
	"math"
	"strconv"
)

// String is a string value.
type String string

func (String) TypeName() string   { return "string" }
func (s String) AsString() string { return string(s) }

// Boolean is a boolean value.
type Boolean bool

const (
	True  = Boolean(true)
	False = Boolean(false)
)

func (Boolean) TypeName() string { return "boolean" }
func (b Boolean) AsBool() bool   { return bool(b) }

// Number is an integer or floating-point number. Integers stay exact until
// an operation requires floating point.
type Number struct {
	i     int64
	f     float64
	float bool
}

// Int returns an integral Number.
func Int(i int64) Number { return Number{i: i} }

// Float returns a floating-point Number.
func Float(f float64) Number { return Number{f: f, float: true} }

func (Number) TypeName() string   { return "number" }
func (n Number) AsNumber() Number { return n }

// IsInt reports whether n holds an exact integer.
func (n Number) IsInt() bool { return !n.float }

// Int64 returns n truncated toward zero.
func (n Number) Int64() int64 {
	if n.float {
		return int64(n.f)
	}

	return n.i
}

// Float64 returns n as a float64.
func (n Number) Float64() float64 {
	if n.float {
		return n.f
	}

	return float64(n.i)
}

// IsNaN reports whether n is NaN.
func (n Number) IsNaN() bool { return n.float && math.IsNaN(n.f) }

// IsInf reports whether n is positive or negative infinity.
func (n Number) IsInf() bool { return n.float && math.IsInf(n.f, 0) }

// Sign returns -1, 0 or 1.
func (n Number) Sign() int {
	v := n.Float64()

	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}

	return 0
}

// String formats n in plain decimal notation without exponent. NaN and the
// infinities are spelled "NaN", "+Inf" and "-Inf".
func (n Number) String() string {
	if !n.float {
		return strconv.FormatInt(n.i, 10)
	}

	if n.f == math.Trunc(n.f) && math.Abs(n.f) < 1e15 {
		return strconv.FormatInt(int64(n.f), 10)
	}

	return strconv.FormatFloat(n.f, 'f', -1, 64)
}

// Equal reports whether n and m denote the same numeric value.
func (n Number) Equal(m Number) bool {
	if !n.float && !m.float {
		return n.i == m.i
	}

	return n.Float64() == m.Float64()
}

// Compare returns -1, 0 or 1 comparing n with m.
func (n Number) Compare(m Number) int {
	if !n.float && !m.float {
		switch {
		case n.i < m.i:
			return -1
		case n.i > m.i:
			return 1
		}

		return 0
	}

	a, b := n.Float64(), m.Float64()

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}
