// Package expr defines the boundary between template expressions and the
// environment they are evaluated in.
//
// Primary expressions (variables, arithmetic, comparisons, literals) are
// compiled with expr-lang. Builtin applications and method calls wrap other
// expressions and are defined by the builtin package.
package expr

import (
	"context"
	"time"

	"golang.org/x/text/language"

	"github.com/ardnew/ftl/lang/datefmt"
	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
	"github.com/ardnew/ftl/log"
	"github.com/ardnew/ftl/pkg"
)

var (
	ErrCompile   = pkg.NewError("expression compile error")
	ErrEval      = pkg.NewError("expression evaluation error")
	ErrNotMethod = pkg.NewError("value is not a method")
	ErrUndefined = pkg.NewError("value is undefined")
)

// Expression is a node that evaluates to a [model.Value]. A nil value with
// a nil error means the expression is undefined.
type Expression interface {
	Eval(env Env) (model.Value, error)
	// CanonicalForm returns source text that parses back to an equivalent
	// expression.
	CanonicalForm() string
}

// Env is the rendering context seen by expressions and builtins.
type Env interface {
	Context() context.Context
	Logger() log.Logger

	// Variables returns the data model as plain Go values.
	Variables() map[string]any

	OutputFormat() outputformat.Format
	AutoEscaping() bool

	TimeZone() *time.Location
	Locale() language.Tag

	// DateFormat returns the configured format for values of type typ.
	DateFormat(typ model.DateType) (datefmt.Format, error)
	// DateFormatFor returns the format selected by settings, e.g. "iso m".
	DateFormatFor(settings string, typ model.DateType) (datefmt.Format, error)
	NumberFormat() string
	// BooleanFormat returns the "true,false" pair used to print booleans.
	BooleanFormat() string

	// Parse compiles src with the full expression grammar, builtins
	// included.
	Parse(src string) (Expression, error)
	// Interpret compiles src as a template and returns it as a directive.
	Interpret(name, src string) (model.Directive, error)
	// Constructor returns the factory registered under name.
	Constructor(name string) (model.Method, bool)
}
