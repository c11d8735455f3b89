package builtin

import (
	"math"
	"time"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

func registerNumbers(r *Registry) {
	single(r, "abs", numberFunc(func(n model.Number) model.Value {
		if n.IsInt() {
			if i := n.Int64(); i < 0 {
				return model.Int(-i)
			}

			return n
		}

		return model.Float(math.Abs(n.Float64()))
	}))
	single(r, "ceiling", numberFunc(integral(math.Ceil)))
	single(r, "floor", numberFunc(integral(math.Floor)))
	single(r, "round", numberFunc(integral(roundHalfUp)))
	single(r, "int", numberFunc(func(n model.Number) model.Value { return model.Int(n.Int64()) }))
	single(r, "long", numberFunc(func(n model.Number) model.Value { return model.Int(n.Int64()) }))
	single(r, "short", numberFunc(func(n model.Number) model.Value { return model.Int(int64(int16(n.Int64()))) }))
	single(r, "byte", numberFunc(func(n model.Number) model.Value { return model.Int(int64(int8(n.Int64()))) }))
	single(r, "double", numberFunc(func(n model.Number) model.Value { return model.Float(n.Float64()) }))
	single(r, "float", numberFunc(func(n model.Number) model.Value {
		return model.Float(float64(float32(n.Float64())))
	}))
	single(r, "is_infinite", numberFunc(func(n model.Number) model.Value { return model.Boolean(n.IsInf()) }))
	single(r, "is_nan", numberFunc(func(n model.Number) model.Value { return model.Boolean(n.IsNaN()) }))

	r.Register("c",
		Variant{Min: V2_3_32, Func: computerFormat(true)},
		Variant{Min: V2_3_0, Func: computerFormat(false)},
	)

	single(r, "number_to_date", numberToDate(model.DateTypeDate))
	single(r, "number_to_time", numberToDate(model.DateTypeTime))
	single(r, "number_to_datetime", numberToDate(model.DateTypeDateTime))
}

func numberFunc(fn func(n model.Number) model.Value) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		n, err := in.num(env)
		if err != nil {
			return nil, err
		}

		return fn(n), nil
	}
}

// integral rounds floats with fn to an integer. Integers, NaN and
// infinities are returned unchanged.
func integral(fn func(float64) float64) func(model.Number) model.Value {
	return func(n model.Number) model.Value {
		if n.IsInt() || n.IsNaN() || n.IsInf() {
			return n
		}

		f := fn(n.Float64())
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return model.Float(f)
		}

		return model.Int(int64(f))
	}
}

// computerFormat renders numbers and booleans independently of locale.
// Strings are returned as is.
func computerFormat(modern bool) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		switch x := v.(type) {
		case model.Numeric:
			return model.String(computerNumber(x.AsNumber(), modern)), nil
		case model.Boolish:
			if x.AsBool() {
				return model.String("true"), nil
			}

			return model.String("false"), nil
		case model.Scalar:
			return model.String(x.AsString()), nil
		}

		return nil, in.targetError(v, "number, boolean or string")
	}
}

// numberToDate reads the target as milliseconds since the Unix epoch.
func numberToDate(typ model.DateType) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		n, err := in.num(env)
		if err != nil {
			return nil, err
		}

		t := time.UnixMilli(n.Int64()).In(env.TimeZone())

		return model.NewDate(t, typ), nil
	}
}

// roundHalfUp rounds to the nearest integer, halves towards positive
// infinity.
func roundHalfUp(f float64) float64 { return math.Floor(f + 0.5) }
