package builtin

import (
	"log/slog"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

func registerMisc(r *Registry) {
	single(r, "size", func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		switch x := v.(type) {
		case model.Sequence:
			return model.Int(int64(x.Len())), nil
		case model.HashEx:
			return model.Int(int64(x.Len())), nil
		}

		return nil, in.targetError(v, "sequence or extended hash")
	})
	single(r, "string", toString)
	single(r, "eval", eval)
	single(r, "interpret", interpret)
	single(r, "new", construct)
	single(r, "namespace", func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		c, ok := v.(*model.Callable)
		if !ok {
			return nil, in.targetError(v, "macro or function")
		}

		if c.Namespace == nil {
			return nil, nil
		}

		return c.Namespace, nil
	})
}

// toString prints the target with the configured format. Numbers, booleans
// and dates can also be called with a format of their own, as in
// x?string("0.00"), flag?string("yes", "no") or when?string("iso m").
func toString(in *Invocation, env expr.Env) (model.Value, error) {
	v, err := in.value(env)
	if err != nil {
		return nil, err
	}

	if p, ok := v.(*dateParser); ok && p.err != nil {
		return nil, p.err
	}

	switch x := v.(type) {
	case model.Scalar:
		return model.String(x.AsString()), nil

	case model.Numeric:
		n := x.AsNumber()

		s, err := FormatNumber(env, n, env.NumberFormat())
		if err != nil {
			return nil, err
		}

		return &scalarMethod{s: s, call: in.method(1, 1, func(args []model.Value) (model.Value, error) {
			format, err := RequireString(in.key, args, 0)
			if err != nil {
				return nil, err
			}

			s, err := FormatNumber(env, n, format)

			return model.String(s), err
		})}, nil

	case model.Temporal:
		d := x.AsDate()

		s, err := FormatDate(env, d)
		if err != nil {
			return nil, err
		}

		return &scalarMethod{s: s, call: in.method(1, 1, func(args []model.Value) (model.Value, error) {
			settings, err := RequireString(in.key, args, 0)
			if err != nil {
				return nil, err
			}

			f, err := env.DateFormatFor(settings, d.Type)
			if err != nil {
				return nil, err
			}

			s, err := f.Format(d.Time, d.Zoneless)

			return model.String(s), err
		})}, nil

	case model.Boolish:
		b := x.AsBool()

		s, err := FormatBool(b, env.BooleanFormat())
		if err != nil {
			return nil, err
		}

		return &scalarMethod{s: s, call: in.method(2, 2, func(args []model.Value) (model.Value, error) {
			i := 1
			if b {
				i = 0
			}

			s, err := RequireString(in.key, args, i)

			return model.String(s), err
		})}, nil
	}

	return nil, in.targetError(v, "string, number, date or boolean")
}

// eval evaluates the target string as an expression.
func eval(in *Invocation, env expr.Env) (model.Value, error) {
	src, err := in.str(env)
	if err != nil {
		return nil, err
	}

	e, err := env.Parse(src)
	if err != nil {
		return nil, ErrInvalidArg.Wrap(err).With(
			slog.String("builtin", "?"+in.key),
			slog.String("source", src),
		)
	}

	return e.Eval(env)
}

// interpret compiles the target as a template. The target is either the
// source, or a sequence of the source and the template name.
func interpret(in *Invocation, env expr.Env) (model.Value, error) {
	v, err := in.value(env)
	if err != nil {
		return nil, err
	}

	name := "anonymous_interpreted"

	var src string

	switch x := v.(type) {
	case model.Scalar:
		src = x.AsString()
	case model.Sequence:
		if x.Len() < 1 || x.Len() > 2 {
			return nil, in.targetError(v, "string or sequence of 1 or 2 strings")
		}

		args := listOf(x)
		if src, err = RequireString(in.key, args, 0); err != nil {
			return nil, err
		}

		if name, err = OptString(in.key, args, 1, name); err != nil {
			return nil, err
		}
	default:
		return nil, in.targetError(v, "string or sequence")
	}

	return env.Interpret(name, src)
}

// construct returns the factory method registered under the target name.
func construct(in *Invocation, env expr.Env) (model.Value, error) {
	name, err := in.str(env)
	if err != nil {
		return nil, err
	}

	m, ok := env.Constructor(name)
	if !ok {
		return nil, ErrInvalidArg.With(
			slog.String("builtin", "?"+in.key),
			slog.String("name", name),
			slog.String("reason", "no such constructor"),
		)
	}

	return m, nil
}
