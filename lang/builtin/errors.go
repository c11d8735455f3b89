package builtin

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/ftl/pkg"
)

var (
	ErrUnknownBuiltin = pkg.NewError("unknown built-in")
	ErrArgCount       = pkg.NewError("wrong number of arguments")
	ErrArgType        = pkg.NewError("wrong argument type")
	ErrTargetType     = pkg.NewError("wrong target type")
	ErrInvalidArg     = pkg.NewError("invalid argument")
	ErrInvalidVersion = pkg.NewError("invalid compatibility version")
)

// UnknownBuiltinError reports a name missing from the registry. Its message
// lists every registered name, one line per first letter.
type UnknownBuiltinError struct {
	Name        string
	Names       []string
	Suggestions []string
}

func (e *UnknownBuiltinError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %q. The alphabetical list of built-ins:", ErrUnknownBuiltin.Error(), e.Name)

	var last byte

	for i, name := range e.Names {
		switch {
		case i == 0 || name[0] != last:
			sb.WriteByte('\n')
		default:
			sb.WriteString(", ")
		}

		last = name[0]
		sb.WriteString(name)
	}

	return sb.String()
}

func (e *UnknownBuiltinError) Is(target error) bool { return target == ErrUnknownBuiltin }

func (e *UnknownBuiltinError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnknownBuiltin.Error()),
		slog.String("name", e.Name),
		slog.Any("did_you_mean", e.Suggestions),
	)
}

// ArgCountError reports a method builtin called with too few or too many
// arguments. Max is negative when there is no upper bound.
type ArgCountError struct {
	Builtin string // "?name"
	Min     int
	Max     int
	Actual  int
}

func (e *ArgCountError) Error() string {
	var want string

	switch {
	case e.Min == e.Max:
		want = plural(e.Min, "argument")
	case e.Max < 0:
		want = "at least " + plural(e.Min, "argument")
	default:
		want = fmt.Sprintf("%d to %d arguments", e.Min, e.Max)
	}

	return fmt.Sprintf("%s expects %s, but has received %d", e.Builtin, want, e.Actual)
}

func (e *ArgCountError) Is(target error) bool { return target == ErrArgCount }

func (e *ArgCountError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArgCount.Error()),
		slog.String("builtin", e.Builtin),
		slog.Int("min", e.Min),
		slog.Int("max", e.Max),
		slog.Int("actual", e.Actual),
	)
}

// ArgTypeError reports a method argument of the wrong type. Index is
// zero-based; messages count from one.
type ArgTypeError struct {
	Builtin  string
	Index    int
	Expected string
	Actual   string
}

func (e *ArgTypeError) Error() string {
	return fmt.Sprintf("%s argument #%d must be a %s, but it was %s",
		e.Builtin, e.Index+1, e.Expected, e.Actual)
}

func (e *ArgTypeError) Is(target error) bool { return target == ErrArgType }

func (e *ArgTypeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArgType.Error()),
		slog.String("builtin", e.Builtin),
		slog.Int("index", e.Index),
		slog.String("expected", e.Expected),
		slog.String("actual", e.Actual),
	)
}

// TargetTypeError reports a builtin applied to a value it does not accept.
type TargetTypeError struct {
	Builtin  string
	Target   string // canonical form of the target expression
	Expected string
	Actual   string
}

func (e *TargetTypeError) Error() string {
	return fmt.Sprintf("%s can't be applied to %s (%s); expected %s",
		e.Builtin, e.Target, e.Actual, e.Expected)
}

func (e *TargetTypeError) Is(target error) bool { return target == ErrTargetType }

func (e *TargetTypeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrTargetType.Error()),
		slog.String("builtin", e.Builtin),
		slog.String("target", e.Target),
		slog.String("expected", e.Expected),
		slog.String("actual", e.Actual),
	)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return fmt.Sprintf("%d %ss", n, noun)
}
