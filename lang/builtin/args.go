package builtin

import (
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

// CheckArgCount fails unless exactly want arguments were passed to the
// builtin key.
func CheckArgCount(key string, args []model.Value, want int) error {
	return CheckArgCountRange(key, args, want, want)
}

// CheckArgCountRange fails unless between lo and hi arguments were passed.
// A negative hi means no upper bound.
func CheckArgCountRange(key string, args []model.Value, lo, hi int) error {
	if n := len(args); n < lo || (hi >= 0 && n > hi) {
		return &ArgCountError{Builtin: "?" + key, Min: lo, Max: hi, Actual: n}
	}

	return nil
}

// RequireString returns args[i] as a string. Numbers and other values are
// not coerced.
func RequireString(key string, args []model.Value, i int) (string, error) {
	s, ok := args[i].(model.Scalar)
	if !ok {
		return "", argTypeError(key, args, i, "string")
	}

	return s.AsString(), nil
}

// RequireNumber returns args[i] as a number.
func RequireNumber(key string, args []model.Value, i int) (model.Number, error) {
	n, ok := args[i].(model.Numeric)
	if !ok {
		return model.Number{}, argTypeError(key, args, i, "number")
	}

	return n.AsNumber(), nil
}

// RequireBool returns args[i] as a boolean.
func RequireBool(key string, args []model.Value, i int) (bool, error) {
	b, ok := args[i].(model.Boolish)
	if !ok {
		return false, argTypeError(key, args, i, "boolean")
	}

	return b.AsBool(), nil
}

// OptString returns args[i] as a string, or def when there are not enough
// arguments.
func OptString(key string, args []model.Value, i int, def string) (string, error) {
	if i >= len(args) {
		return def, nil
	}

	return RequireString(key, args, i)
}

// OptInt returns args[i] as an int, or def when there are not enough
// arguments.
func OptInt(key string, args []model.Value, i int, def int) (int, error) {
	if i >= len(args) {
		return def, nil
	}

	n, err := RequireNumber(key, args, i)

	return int(n.Int64()), err
}

func argTypeError(key string, args []model.Value, i int, want string) error {
	return &ArgTypeError{
		Builtin:  "?" + key,
		Index:    i,
		Expected: want,
		Actual:   model.Describe(args[i]),
	}
}

// method returns a method value whose arguments are counted before fn runs.
func (in *Invocation) method(lo, hi int, fn func(args []model.Value) (model.Value, error)) model.MethodFunc {
	return func(args []model.Value) (model.Value, error) {
		if err := CheckArgCountRange(in.key, args, lo, hi); err != nil {
			return nil, err
		}

		return fn(args)
	}
}

// targetError reports that the target evaluated to v, which is not one of
// the expected kinds.
func (in *Invocation) targetError(v model.Value, expected string) error {
	return &TargetTypeError{
		Builtin:  "?" + in.key,
		Target:   in.target.CanonicalForm(),
		Expected: expected,
		Actual:   model.Describe(v),
	}
}

// value evaluates the target, which must be defined.
func (in *Invocation) value(env expr.Env) (model.Value, error) {
	return expr.Defined(in.target, env)
}

// str evaluates the target as text. Numbers, dates and booleans are
// converted with the configured formats.
func (in *Invocation) str(env expr.Env) (string, error) {
	v, err := in.value(env)
	if err != nil {
		return "", err
	}

	return in.coerceString(env, v)
}

func (in *Invocation) coerceString(env expr.Env, v model.Value) (string, error) {
	switch v.(type) {
	case model.Scalar, model.Numeric, model.Temporal, model.Boolish:
		return Stringify(env, v)
	}

	return "", in.targetError(v, "string")
}

func (in *Invocation) num(env expr.Env) (model.Number, error) {
	v, err := in.value(env)
	if err != nil {
		return model.Number{}, err
	}

	n, ok := v.(model.Numeric)
	if !ok {
		return model.Number{}, in.targetError(v, "number")
	}

	return n.AsNumber(), nil
}

func (in *Invocation) date(env expr.Env) (model.Date, error) {
	v, err := in.value(env)
	if err != nil {
		return model.Date{}, err
	}

	if p, ok := v.(*dateParser); ok && p.err != nil {
		return model.Date{}, p.err
	}

	d, ok := v.(model.Temporal)
	if !ok {
		return model.Date{}, in.targetError(v, "date")
	}

	return d.AsDate(), nil
}

func (in *Invocation) seq(env expr.Env) (model.Sequence, error) {
	v, err := in.value(env)
	if err != nil {
		return nil, err
	}

	s, ok := v.(model.Sequence)
	if !ok {
		return nil, in.targetError(v, "sequence")
	}

	return s, nil
}

func (in *Invocation) node(env expr.Env) (model.Node, error) {
	v, err := in.value(env)
	if err != nil {
		return nil, err
	}

	n, ok := v.(model.Node)
	if !ok {
		return nil, in.targetError(v, "node")
	}

	return n, nil
}
