package expr

import (
	"log/slog"
	"strings"

	"github.com/ardnew/ftl/lang/model"
)

// Literal is a constant value with its source text.
type Literal struct {
	Value  model.Value
	Source string
}

func (l *Literal) Eval(Env) (model.Value, error) { return l.Value, nil }
func (l *Literal) CanonicalForm() string         { return l.Source }

// MethodCall applies the method its target evaluates to.
type MethodCall struct {
	Target Expression
	Args   []Expression
}

func (c *MethodCall) Eval(env Env) (model.Value, error) {
	v, err := c.Target.Eval(env)
	if err != nil {
		return nil, err
	}

	m, ok := v.(model.Method)
	if !ok {
		return nil, ErrNotMethod.With(
			slog.String("expression", c.Target.CanonicalForm()),
			slog.String("type", model.Describe(v)),
		)
	}

	args := make([]model.Value, len(c.Args))
	for i, a := range c.Args {
		if args[i], err = a.Eval(env); err != nil {
			return nil, err
		}
	}

	return m.Call(args)
}

func (c *MethodCall) CanonicalForm() string {
	var sb strings.Builder

	sb.WriteString(c.Target.CanonicalForm())
	sb.WriteByte('(')

	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(a.CanonicalForm())
	}

	sb.WriteByte(')')

	return sb.String()
}

// Defined evaluates e and fails with [ErrUndefined] when the result is
// undefined.
func Defined(e Expression, env Env) (model.Value, error) {
	v, err := e.Eval(env)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, ErrUndefined.With(slog.String("expression", e.CanonicalForm()))
	}

	return v, nil
}
