package builtin

import (
	"errors"
	"log/slog"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
)

func registerExistence(r *Registry) {
	single(r, "default", func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.lookup(env)
		if err != nil {
			return nil, err
		}

		return in.method(1, -1, func(args []model.Value) (model.Value, error) {
			if v != nil {
				return v, nil
			}

			for _, a := range args {
				if a != nil {
					return a, nil
				}
			}

			return nil, nil
		}), nil
	})
	single(r, "exists", func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.lookup(env)
		if err != nil {
			return nil, err
		}

		return model.Boolean(v != nil), nil
	})
	single(r, "has_content", func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.lookup(env)
		if err != nil {
			return nil, err
		}

		return model.Boolean(hasContent(v)), nil
	})
	single(r, "if_exists", func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.lookup(env)
		if err != nil || v != nil {
			return v, err
		}

		return nothing{}, nil
	})
}

// lookup evaluates the target, reporting missing variables and failed
// member accesses as undefined rather than as errors.
func (in *Invocation) lookup(env expr.Env) (model.Value, error) {
	v, err := in.target.Eval(env)
	if errors.Is(err, expr.ErrEval) || errors.Is(err, expr.ErrUndefined) {
		env.Logger().Trace("treating failed evaluation as undefined",
			slog.String("builtin", "?"+in.key),
			slog.String("expression", in.target.CanonicalForm()),
			slog.Any("error", err),
		)

		return nil, nil
	}

	if _, ok := v.(nothing); ok {
		return nil, err
	}

	return v, err
}

func hasContent(v model.Value) bool {
	switch x := v.(type) {
	case nil, nothing:
		return false
	case *outputformat.Markup:
		return !x.IsEmpty()
	case model.Scalar:
		return x.AsString() != ""
	case model.Sequence:
		return x.Len() > 0
	case model.HashEx:
		return x.Len() > 0
	}

	return true
}

// nothing is the value of ?if_exists on a missing variable. It works as an
// empty string, sequence and hash, as false, and as a method returning
// itself.
type nothing struct{}

func (nothing) TypeName() string                        { return "nothing" }
func (nothing) AsString() string                        { return "" }
func (nothing) AsBool() bool                            { return false }
func (nothing) Len() int                                { return 0 }
func (nothing) At(int) model.Value                      { return nil }
func (nothing) Get(string) (model.Value, bool)          { return nil, false }
func (nothing) Keys() []string                          { return nil }
func (nothing) Call([]model.Value) (model.Value, error) { return nothing{}, nil }
