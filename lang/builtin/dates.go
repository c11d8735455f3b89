package builtin

import (
	"log/slog"
	"time"

	"github.com/ardnew/ftl/lang/datefmt"
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

// isoBuiltins records the settings behind each ?iso* builtin.
var isoBuiltins = map[string]datefmt.Spec{}

func registerDates(r *Registry) {
	for _, typ := range []model.DateType{model.DateTypeDate, model.DateTypeTime, model.DateTypeDateTime} {
		single(r, typ.String(), toDateType(typ))
		single(r, typ.String()+"_if_unknown", dateTypeIfUnknown(typ))
	}

	accuracies := []struct {
		suffix string
		acc    datefmt.Accuracy
	}{
		{"", datefmt.AccuracySeconds},
		{"_ms", datefmt.AccuracyMilliseconds},
		{"_m", datefmt.AccuracyMinutes},
		{"_h", datefmt.AccuracyHours},
	}

	for _, a := range accuracies {
		for _, offset := range []datefmt.ZoneOffset{datefmt.ZoneOffsetDefault, datefmt.ZoneOffsetHide} {
			suffix := a.suffix
			if offset == datefmt.ZoneOffsetHide {
				suffix += "_nz"
			}

			registerISO(r, "iso_utc"+suffix, datefmt.Spec{Accuracy: a.acc, ZoneOffset: offset, UseUTC: true}, false)
			registerISO(r, "iso_local"+suffix, datefmt.Spec{Accuracy: a.acc, ZoneOffset: offset}, false)
			registerISO(r, "iso"+suffix, datefmt.Spec{Accuracy: a.acc, ZoneOffset: offset}, true)
		}
	}

	registerISO(r, "iso_utc_fz",
		datefmt.Spec{Accuracy: datefmt.AccuracySeconds, ZoneOffset: datefmt.ZoneOffsetShow, UseUTC: true}, false)
}

func registerISO(r *Registry, name string, spec datefmt.Spec, withZone bool) {
	isoBuiltins[name] = spec

	if withZone {
		single(r, name, isoInZone(spec))
	} else {
		single(r, name, isoFixed(spec))
	}
}

// isoFixed formats in UTC or in the configured zone. Zoneless values stay
// in the configured zone.
func isoFixed(spec datefmt.Spec) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		d, err := in.date(env)
		if err != nil {
			return nil, err
		}

		loc := env.TimeZone()
		if spec.UseUTC && !d.Zoneless {
			loc = time.UTC
		}

		return formatISO(in, d, spec, loc)
	}
}

// isoInZone is a method taking the zone: an IANA name, or a boolean where
// true means UTC and false the configured zone.
func isoInZone(spec datefmt.Spec) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		d, err := in.date(env)
		if err != nil {
			return nil, err
		}

		return in.method(1, 1, func(args []model.Value) (model.Value, error) {
			var loc *time.Location

			switch arg := args[0].(type) {
			case model.Boolish:
				loc = env.TimeZone()
				if arg.AsBool() {
					loc = time.UTC
				}
			case model.Scalar:
				if loc, err = time.LoadLocation(arg.AsString()); err != nil {
					return nil, ErrInvalidArg.Wrap(err).With(
						slog.String("builtin", "?"+in.key),
						slog.String("zone", arg.AsString()),
					)
				}
			default:
				return nil, argTypeError(in.key, args, 0, "string or boolean")
			}

			return formatISO(in, d, spec, loc)
		}), nil
	}
}

func formatISO(in *Invocation, d model.Date, spec datefmt.Spec, loc *time.Location) (model.Value, error) {
	if d.Type == model.DateTypeUnknown {
		return nil, datefmt.ErrUnsupportedDateType.With(slog.String("builtin", "?"+in.key))
	}

	show := !d.Zoneless
	if spec.ZoneOffset != datefmt.ZoneOffsetDefault {
		show = spec.ZoneOffset == datefmt.ZoneOffsetShow
	}

	return model.String(datefmt.FormatISO(d.Time.In(loc), d.Type, spec.Accuracy, show)), nil
}

// toDateType marks a date with typ, or parses a string as a value of typ.
// Parsed strings can also be called with a format, as in
// "10:30"?time("iso").
func toDateType(typ model.DateType) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		switch x := v.(type) {
		case *dateParser:
			if x.err != nil {
				return nil, x.err
			}

			return x.Date.WithType(typ), nil
		case model.Temporal:
			return x.AsDate().WithType(typ), nil
		case model.Scalar:
			return newDateParser(in, env, x.AsString(), typ), nil
		}

		return nil, in.targetError(v, "date or string")
	}
}

func dateTypeIfUnknown(typ model.DateType) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		d, err := in.date(env)
		if err != nil {
			return nil, err
		}

		if d.Type == model.DateTypeUnknown {
			d.Type = typ
		}

		return d, nil
	}
}

// dateParser is a string parsed with the configured format. It is also a
// method that parses the same string with another format. A failed parse
// is reported when the value is used as a date.
type dateParser struct {
	model.Date

	err  error
	call model.MethodFunc
}

func newDateParser(in *Invocation, env expr.Env, s string, typ model.DateType) *dateParser {
	p := &dateParser{}

	p.call = in.method(1, 1, func(args []model.Value) (model.Value, error) {
		settings, err := RequireString(in.key, args, 0)
		if err != nil {
			return nil, err
		}

		f, err := env.DateFormatFor(settings, typ)
		if err != nil {
			return nil, err
		}

		return parseWith(f, s, typ)
	})

	f, err := env.DateFormat(typ)
	if err != nil {
		p.err = err

		return p
	}

	d, err := parseWith(f, s, typ)
	if err != nil {
		p.err = err

		return p
	}

	p.Date = d

	return p
}

func parseWith(f datefmt.Format, s string, typ model.DateType) (model.Date, error) {
	t, err := f.Parse(s)
	if err != nil {
		return model.Date{}, err
	}

	return model.NewDate(t, typ), nil
}

func (*dateParser) TypeName() string { return "date" }

func (p *dateParser) Call(args []model.Value) (model.Value, error) { return p.call(args) }
