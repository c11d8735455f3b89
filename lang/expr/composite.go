package expr

import (
	"log/slog"
	"maps"
	"strings"

	"github.com/ardnew/ftl/lang/model"
)

// Hole is a subexpression bound to the function Name of a [Composite].
type Hole struct {
	Name string
	Expr Expression
}

// Composite is an expr-lang program some of whose operands are expressions
// expr-lang cannot express itself, such as builtin applications. The program
// calls Name() for each such operand, so a hole is evaluated only when the
// program reaches it.
type Composite struct {
	Program *Program
	Holes   []Hole
}

func (c *Composite) Eval(env Env) (model.Value, error) {
	vars := make(map[string]any, len(env.Variables())+len(c.Holes))
	maps.Copy(vars, env.Variables())

	var failed error

	for _, h := range c.Holes {
		vars[h.Name] = func() (any, error) {
			v, err := h.Expr.Eval(env)
			if err != nil {
				failed = err

				return nil, err
			}

			return model.Unwrap(v), nil
		}
	}

	out, err := c.Program.run(vars)
	if failed != nil {
		return nil, failed
	}

	if err != nil {
		err = &renamedError{msg: c.replacer().Replace(err.Error()), err: err}

		return nil, ErrEval.Wrap(err).With(slog.String("source", c.CanonicalForm()))
	}

	return model.Wrap(out), nil
}

// CanonicalForm substitutes the canonical form of every hole for its call.
func (c *Composite) CanonicalForm() string {
	return c.replacer().Replace(c.Program.CanonicalForm())
}

func (c *Composite) replacer() *strings.Replacer {
	pairs := make([]string, 0, 2*len(c.Holes))
	for _, h := range c.Holes {
		pairs = append(pairs, h.Name+"()", h.Expr.CanonicalForm())
	}

	return strings.NewReplacer(pairs...)
}

// renamedError rewords err, keeping it as the cause.
type renamedError struct {
	msg string
	err error
}

func (e *renamedError) Error() string { return e.msg }
func (e *renamedError) Unwrap() error { return e.err }
