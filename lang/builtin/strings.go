package builtin

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

func registerStrings(r *Registry) {
	single(r, "cap_first", stringFunc(func(_ expr.Env, s string) model.Value {
		return model.String(mapFirstLetter(s, unicode.ToUpper))
	}))
	single(r, "uncap_first", stringFunc(func(_ expr.Env, s string) model.Value {
		return model.String(mapFirstLetter(s, unicode.ToLower))
	}))
	single(r, "capitalize", stringFunc(func(env expr.Env, s string) model.Value {
		return model.String(cases.Title(env.Locale()).String(s))
	}))
	single(r, "upper_case", stringFunc(func(env expr.Env, s string) model.Value {
		return model.String(cases.Upper(env.Locale()).String(s))
	}))
	single(r, "lower_case", stringFunc(func(env expr.Env, s string) model.Value {
		return model.String(cases.Lower(env.Locale()).String(s))
	}))
	single(r, "trim", stringFunc(func(_ expr.Env, s string) model.Value {
		return model.String(strings.TrimSpace(s))
	}))
	single(r, "chop_linebreak", stringFunc(func(_ expr.Env, s string) model.Value {
		return model.String(chopLinebreak(s))
	}))
	single(r, "length", stringFunc(func(_ expr.Env, s string) model.Value {
		return model.Int(int64(utf8.RuneCountInString(s)))
	}))
	single(r, "word_list", stringFunc(func(_ expr.Env, s string) model.Value {
		words := strings.Fields(s)
		out := make(model.List, len(words))

		for i, w := range words {
			out[i] = model.String(w)
		}

		return out
	}))

	single(r, "contains", stringPredicate(strings.Contains))
	single(r, "starts_with", stringPredicate(strings.HasPrefix))
	single(r, "ends_with", stringPredicate(strings.HasSuffix))

	single(r, "index_of", indexOf(false))
	single(r, "last_index_of", indexOf(true))
	single(r, "left_pad", pad(true))
	single(r, "right_pad", pad(false))
	single(r, "substring", substring)

	single(r, "boolean", parseBoolean)
	single(r, "number", parseNumber)
}

// stringFunc adapts a conversion of the target text.
func stringFunc(fn func(env expr.Env, s string) model.Value) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.str(env)
		if err != nil {
			return nil, err
		}

		return fn(env, s), nil
	}
}

// stringPredicate adapts a test of the target against one string argument.
func stringPredicate(fn func(s, arg string) bool) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.str(env)
		if err != nil {
			return nil, err
		}

		return in.method(1, 1, func(args []model.Value) (model.Value, error) {
			arg, err := RequireString(in.key, args, 0)
			if err != nil {
				return nil, err
			}

			return model.Boolean(fn(s, arg)), nil
		}), nil
	}
}

// mapFirstLetter applies fn to the first character that is not white space.
func mapFirstLetter(s string, fn func(rune) rune) string {
	for i, c := range s {
		if unicode.IsSpace(c) {
			continue
		}

		return s[:i] + string(fn(c)) + s[i+utf8.RuneLen(c):]
	}

	return s
}

func chopLinebreak(s string) string {
	switch {
	case strings.HasSuffix(s, "\r\n"):
		return s[:len(s)-2]
	case strings.HasSuffix(s, "\n"), strings.HasSuffix(s, "\r"):
		return s[:len(s)-1]
	}

	return s
}

// indexOf searches for a substring, optionally from a start index, in
// characters rather than bytes.
func indexOf(last bool) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.str(env)
		if err != nil {
			return nil, err
		}

		return in.method(1, 2, func(args []model.Value) (model.Value, error) {
			sub, err := RequireString(in.key, args, 0)
			if err != nil {
				return nil, err
			}

			runes, subRunes := []rune(s), []rune(sub)

			start := 0
			if last {
				start = len(runes)
			}

			if start, err = OptInt(in.key, args, 1, start); err != nil {
				return nil, err
			}

			return model.Int(int64(runeIndex(runes, subRunes, start, last))), nil
		}), nil
	}
}

func runeIndex(s, sub []rune, start int, last bool) int {
	match := func(i int) bool {
		for j, c := range sub {
			if s[i+j] != c {
				return false
			}
		}

		return true
	}

	if last {
		for i := min(start, len(s)-len(sub)); i >= 0; i-- {
			if match(i) {
				return i
			}
		}

		return -1
	}

	for i := max(start, 0); i+len(sub) <= len(s); i++ {
		if match(i) {
			return i
		}
	}

	return -1
}

// pad fills the target to the given width. The filler repeats from the
// start of the result, so right padding continues the pattern as if it
// also ran under the original text.
func pad(left bool) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.str(env)
		if err != nil {
			return nil, err
		}

		return in.method(1, 2, func(args []model.Value) (model.Value, error) {
			width, err := OptInt(in.key, args, 0, 0)
			if err != nil {
				return nil, err
			}

			filler, err := OptString(in.key, args, 1, " ")
			if err != nil {
				return nil, err
			}

			if filler == "" {
				return nil, ErrInvalidArg.With(
					slog.String("builtin", "?"+in.key),
					slog.String("reason", "the padding string can't be empty"),
				)
			}

			n := utf8.RuneCountInString(s)
			if n >= width {
				return model.String(s), nil
			}

			fill := []rune(strings.Repeat(filler, width/utf8.RuneCountInString(filler)+1))
			if left {
				return model.String(string(fill[:width-n]) + s), nil
			}

			return model.String(s + string(fill[n:width])), nil
		}), nil
	}
}

func substring(in *Invocation, env expr.Env) (model.Value, error) {
	s, err := in.str(env)
	if err != nil {
		return nil, err
	}

	return in.method(1, 2, func(args []model.Value) (model.Value, error) {
		runes := []rune(s)

		from, err := OptInt(in.key, args, 0, 0)
		if err != nil {
			return nil, err
		}

		to, err := OptInt(in.key, args, 1, len(runes))
		if err != nil {
			return nil, err
		}

		if from < 0 || to > len(runes) || from > to {
			return nil, ErrInvalidArg.With(
				slog.String("builtin", "?"+in.key),
				slog.Int("from", from),
				slog.Int("to", to),
				slog.Int("length", len(runes)),
			)
		}

		return model.String(string(runes[from:to])), nil
	}), nil
}

func parseBoolean(in *Invocation, env expr.Env) (model.Value, error) {
	s, err := in.str(env)
	if err != nil {
		return nil, err
	}

	switch s {
	case "true":
		return model.True, nil
	case "false":
		return model.False, nil
	}

	return nil, ErrInvalidArg.With(
		slog.String("builtin", "?"+in.key),
		slog.String("value", s),
		slog.String("reason", `only "true" and "false" can be converted to boolean`),
	)
}

func parseNumber(in *Invocation, env expr.Env) (model.Value, error) {
	v, err := in.value(env)
	if err != nil {
		return nil, err
	}

	if n, ok := v.(model.Numeric); ok {
		return n.AsNumber(), nil
	}

	sc, ok := v.(model.Scalar)
	if !ok {
		return nil, in.targetError(v, "string")
	}

	n, err := ParseNumber(sc.AsString())
	if err != nil {
		return nil, ErrInvalidArg.Wrap(err).With(slog.String("builtin", "?"+in.key))
	}

	return n, nil
}

// ParseNumber reads a number in computer format. "INF", "Infinity" and
// "NaN" are accepted.
func ParseNumber(s string) (model.Number, error) {
	s = strings.TrimSpace(s)

	switch strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+") {
	case "INF", "Infinity":
		if strings.HasPrefix(s, "-") {
			return model.Float(math.Inf(-1)), nil
		}

		return model.Float(math.Inf(1)), nil
	case "NaN":
		return model.Float(math.NaN()), nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.Int(i), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return model.Number{}, err
	}

	return model.Float(f), nil
}
