package builtin

import (
	"log/slog"
	"strings"

	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ardnew/ftl/lang/datefmt"
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
	"github.com/ardnew/ftl/pkg"
)

var ErrNotPrintable = pkg.NewError("value cannot be printed")

// Stringify converts v to the text an interpolation prints, using the
// number, date and boolean formats of env. Markup values yield their
// markup.
func Stringify(env expr.Env, v model.Value) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", expr.ErrUndefined
	case *dateParser:
		if x.err != nil {
			return "", x.err
		}

		return FormatDate(env, x.Date)
	case *outputformat.Markup:
		return x.MarkupString(), nil
	case model.Scalar:
		return x.AsString(), nil
	case model.Numeric:
		return FormatNumber(env, x.AsNumber(), env.NumberFormat())
	case model.Temporal:
		return FormatDate(env, x.AsDate())
	case model.Boolish:
		return FormatBool(x.AsBool(), env.BooleanFormat())
	}

	return "", ErrNotPrintable.With(slog.String("type", model.Describe(v)))
}

// FormatDate renders d with the configured format for its type.
func FormatDate(env expr.Env, d model.Date) (string, error) {
	if d.Type == model.DateTypeUnknown {
		return "", datefmt.ErrUnsupportedDateType
	}

	f, err := env.DateFormat(d.Type)
	if err != nil {
		return "", err
	}

	return f.Format(d.Time, d.Zoneless)
}

// FormatBool renders b with a "true,false" style format. The format "c"
// always yields "true" or "false".
func FormatBool(b bool, format string) (string, error) {
	if format == "c" || format == "" {
		format = "true,false"
	}

	yes, no, ok := strings.Cut(format, ",")
	if !ok {
		return "", ErrInvalidArg.With(
			slog.String("boolean_format", format),
			slog.String("reason", `must be a comma separated pair such as "yes,no"`),
		)
	}

	if b {
		return yes, nil
	}

	return no, nil
}

// FormatNumber renders n with format:
//
//	number    locale decimal, at most 3 fraction digits
//	c         computer format, independent of locale
//	computer  same as c
//	percent   locale percentage
//	pattern   such as "0.00" or "#,##0.###"
func FormatNumber(env expr.Env, n model.Number, format string) (string, error) {
	switch format {
	case "c", "computer":
		return computerNumber(n, true), nil
	case "", "number":
		return printNumber(env, n, number.MaxFractionDigits(3)), nil
	case "percent":
		p := message.NewPrinter(env.Locale())

		return p.Sprint(number.Percent(n.Float64())), nil
	}

	opts, err := patternOptions(format)
	if err != nil {
		return "", err
	}

	return printNumber(env, n, opts...), nil
}

func printNumber(env expr.Env, n model.Number, opts ...number.Option) string {
	if n.IsNaN() || n.IsInf() {
		return computerNumber(n, true)
	}

	p := message.NewPrinter(env.Locale())

	if n.IsInt() {
		return p.Sprint(number.Decimal(n.Int64(), opts...))
	}

	return p.Sprint(number.Decimal(n.Float64(), opts...))
}

// computerNumber renders n without locale. Infinities are written as
// "Infinity" when modern is set, as "INF" otherwise.
func computerNumber(n model.Number, modern bool) string {
	switch {
	case n.IsNaN():
		return "NaN"
	case n.IsInf() && modern:
		if n.Sign() < 0 {
			return "-Infinity"
		}

		return "Infinity"
	case n.IsInf():
		if n.Sign() < 0 {
			return "-INF"
		}

		return "INF"
	}

	return n.String()
}

// patternOptions translates a decimal pattern into number options.
func patternOptions(pattern string) ([]number.Option, error) {
	intPart, frac, _ := strings.Cut(pattern, ".")

	var (
		opts     []number.Option
		minInt   int
		grouping bool
	)

	for _, c := range intPart {
		switch c {
		case '0':
			minInt++
		case ',':
			grouping = true
		case '#':
		default:
			return nil, ErrInvalidArg.With(
				slog.String("number_format", pattern),
				slog.String("reason", "unsupported character "+string(c)),
			)
		}
	}

	minFrac := 0

	for _, c := range frac {
		switch c {
		case '0':
			minFrac++
		case '#':
		default:
			return nil, ErrInvalidArg.With(
				slog.String("number_format", pattern),
				slog.String("reason", "unsupported character "+string(c)),
			)
		}
	}

	opts = append(opts,
		number.MinIntegerDigits(max(minInt, 1)),
		number.MinFractionDigits(minFrac),
		number.MaxFractionDigits(len(frac)),
	)

	if !grouping {
		opts = append(opts, number.NoSeparator())
	}

	return opts, nil
}
