package builtin

import (
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

func registerSequences(r *Registry) {
	single(r, "first", seqFunc(func(_ *Invocation, _ expr.Env, s model.Sequence) (model.Value, error) {
		if s.Len() == 0 {
			return nil, nil
		}

		return s.At(0), nil
	}))
	single(r, "last", seqFunc(func(_ *Invocation, _ expr.Env, s model.Sequence) (model.Value, error) {
		if s.Len() == 0 {
			return nil, nil
		}

		return s.At(s.Len() - 1), nil
	}))
	single(r, "reverse", seqFunc(func(_ *Invocation, _ expr.Env, s model.Sequence) (model.Value, error) {
		out := listOf(s)
		slices.Reverse(out)

		return out, nil
	}))
	single(r, "sort", seqFunc(func(in *Invocation, env expr.Env, s model.Sequence) (model.Value, error) {
		return sortSequence(in, env, s, nil)
	}))
	single(r, "sort_by", seqFunc(sortBy))
	single(r, "chunk", seqFunc(chunk))
	single(r, "join", seqFunc(join))
	single(r, "seq_contains", seqFunc(seqContains))
	single(r, "seq_index_of", seqFunc(seqIndexOf(false)))
	single(r, "seq_last_index_of", seqFunc(seqIndexOf(true)))
}

func seqFunc(fn func(in *Invocation, env expr.Env, s model.Sequence) (model.Value, error)) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.seq(env)
		if err != nil {
			return nil, err
		}

		return fn(in, env, s)
	}
}

func listOf(s model.Sequence) model.List {
	out := make(model.List, s.Len())
	for i := range out {
		out[i] = s.At(i)
	}

	return out
}

// sortSequence sorts s ascending, by the values keys leads to when keys is
// not empty. All sort values must be of one kind: string, number, date or
// boolean. Strings are collated for the configured locale.
func sortSequence(in *Invocation, env expr.Env, s model.Sequence, keys []string) (model.Value, error) {
	items := listOf(s)
	sortKeys := make([]model.Value, len(items))

	for i, item := range items {
		v := item

		for _, k := range keys {
			h, ok := v.(model.Hash)
			if !ok {
				return nil, ErrInvalidArg.With(
					slog.String("builtin", "?"+in.key),
					slog.Int("index", i),
					slog.String("reason", "sequence element is not a hash"),
				)
			}

			if v, ok = h.Get(k); !ok || v == nil {
				return nil, ErrInvalidArg.With(
					slog.String("builtin", "?"+in.key),
					slog.Int("index", i),
					slog.String("key", k),
					slog.String("reason", "missing sort key"),
				)
			}
		}

		sortKeys[i] = v
	}

	cmp, err := comparer(in, env, sortKeys)
	if err != nil {
		return nil, err
	}

	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}

	slices.SortStableFunc(idx, func(a, b int) int { return cmp(sortKeys[a], sortKeys[b]) })

	out := make(model.List, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}

	return out, nil
}

// comparer returns an ordering for values, which must all be of the kind
// of the first one.
func comparer(in *Invocation, env expr.Env, values []model.Value) (func(a, b model.Value) int, error) {
	if len(values) == 0 {
		return func(model.Value, model.Value) int { return 0 }, nil
	}

	var (
		cmp  func(a, b model.Value) int
		kind string
		ok   func(model.Value) bool
	)

	switch values[0].(type) {
	case model.Scalar:
		coll := collate.New(env.Locale())
		kind = "string"
		ok = func(v model.Value) bool { _, is := v.(model.Scalar); return is }
		cmp = func(a, b model.Value) int {
			return coll.CompareString(a.(model.Scalar).AsString(), b.(model.Scalar).AsString())
		}
	case model.Numeric:
		kind = "number"
		ok = func(v model.Value) bool { _, is := v.(model.Numeric); return is }
		cmp = func(a, b model.Value) int {
			return a.(model.Numeric).AsNumber().Compare(b.(model.Numeric).AsNumber())
		}
	case model.Temporal:
		kind = "date"
		ok = func(v model.Value) bool { _, is := v.(model.Temporal); return is }
		cmp = func(a, b model.Value) int {
			return a.(model.Temporal).AsDate().Time.Compare(b.(model.Temporal).AsDate().Time)
		}
	case model.Boolish:
		kind = "boolean"
		ok = func(v model.Value) bool { _, is := v.(model.Boolish); return is }
		cmp = func(a, b model.Value) int {
			x, y := a.(model.Boolish).AsBool(), b.(model.Boolish).AsBool()
			switch {
			case x == y:
				return 0
			case y:
				return -1
			}

			return 1
		}
	default:
		return nil, in.targetError(values[0], "sequence of strings, numbers, dates or booleans")
	}

	for i, v := range values {
		if !ok(v) {
			return nil, ErrInvalidArg.With(
				slog.String("builtin", "?"+in.key),
				slog.Int("index", i),
				slog.String("reason", "all sort values must be of type "+kind),
				slog.String("actual", model.Describe(v)),
			)
		}
	}

	return cmp, nil
}

func sortBy(in *Invocation, env expr.Env, s model.Sequence) (model.Value, error) {
	return in.method(1, 1, func(args []model.Value) (model.Value, error) {
		var keys []string

		switch arg := args[0].(type) {
		case model.Scalar:
			keys = []string{arg.AsString()}
		case model.Sequence:
			for i := range arg.Len() {
				k, ok := arg.At(i).(model.Scalar)
				if !ok {
					return nil, argTypeError(in.key, args, 0, "string or sequence of strings")
				}

				keys = append(keys, k.AsString())
			}
		default:
			return nil, argTypeError(in.key, args, 0, "string or sequence of strings")
		}

		return sortSequence(in, env, s, keys)
	}), nil
}

func chunk(in *Invocation, _ expr.Env, s model.Sequence) (model.Value, error) {
	return in.method(1, 2, func(args []model.Value) (model.Value, error) {
		n, err := RequireNumber(in.key, args, 0)
		if err != nil {
			return nil, err
		}

		size := int(n.Int64())
		if size < 1 {
			return nil, ErrInvalidArg.With(
				slog.String("builtin", "?"+in.key),
				slog.Int("size", size),
				slog.String("reason", "chunk size must be at least 1"),
			)
		}

		items := listOf(s)

		var out model.List

		for c := range slices.Chunk(items, size) {
			row := slices.Clone(c)
			for len(args) > 1 && len(row) < size {
				row = append(row, args[1])
			}

			out = append(out, row)
		}

		return out, nil
	}), nil
}

func join(in *Invocation, env expr.Env, s model.Sequence) (model.Value, error) {
	return in.method(1, 3, func(args []model.Value) (model.Value, error) {
		sep, err := RequireString(in.key, args, 0)
		if err != nil {
			return nil, err
		}

		empty, err := OptString(in.key, args, 1, "")
		if err != nil {
			return nil, err
		}

		suffix, err := OptString(in.key, args, 2, "")
		if err != nil {
			return nil, err
		}

		parts := make([]string, 0, s.Len())

		for i := range s.Len() {
			v := s.At(i)
			if v == nil {
				continue
			}

			text, err := Stringify(env, v)
			if err != nil {
				return nil, ErrInvalidArg.Wrap(err).With(
					slog.String("builtin", "?"+in.key),
					slog.Int("index", i),
				)
			}

			parts = append(parts, text)
		}

		if len(parts) == 0 {
			return model.String(empty), nil
		}

		return model.String(strings.Join(parts, sep) + suffix), nil
	}), nil
}

func seqContains(in *Invocation, _ expr.Env, s model.Sequence) (model.Value, error) {
	return in.method(1, 1, func(args []model.Value) (model.Value, error) {
		for i := range s.Len() {
			if valuesEqual(s.At(i), args[0]) {
				return model.True, nil
			}
		}

		return model.False, nil
	}), nil
}

func seqIndexOf(last bool) func(in *Invocation, env expr.Env, s model.Sequence) (model.Value, error) {
	return func(in *Invocation, _ expr.Env, s model.Sequence) (model.Value, error) {
		return in.method(1, 2, func(args []model.Value) (model.Value, error) {
			n := s.Len()

			start := 0
			if last {
				start = n - 1
			}

			start, err := OptInt(in.key, args, 1, start)
			if err != nil {
				return nil, err
			}

			if last {
				for i := min(start, n-1); i >= 0; i-- {
					if valuesEqual(s.At(i), args[0]) {
						return model.Int(int64(i)), nil
					}
				}
			} else {
				for i := max(start, 0); i < n; i++ {
					if valuesEqual(s.At(i), args[0]) {
						return model.Int(int64(i)), nil
					}
				}
			}

			return model.Int(-1), nil
		}), nil
	}
}

// valuesEqual compares scalars of the same kind; anything else is unequal.
func valuesEqual(a, b model.Value) bool {
	switch x := a.(type) {
	case model.Scalar:
		y, ok := b.(model.Scalar)
		return ok && x.AsString() == y.AsString()
	case model.Numeric:
		y, ok := b.(model.Numeric)
		return ok && x.AsNumber().Equal(y.AsNumber())
	case model.Temporal:
		y, ok := b.(model.Temporal)
		return ok && x.AsDate().Time.Equal(y.AsDate().Time)
	case model.Boolish:
		y, ok := b.(model.Boolish)
		return ok && x.AsBool() == y.AsBool()
	}

	return false
}
