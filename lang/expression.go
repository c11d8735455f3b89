package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/ftl/lang/builtin"
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/log"
)

// holePrefix starts the names of the functions whose calls stand in for
// builtin applications in a rewritten expr-lang program.
const holePrefix = "__ftl"

// wordOperators are the expr-lang keywords that end an operand.
var wordOperators = map[string]bool{
	"not": true, "in": true, "and": true, "or": true,
	"matches": true, "contains": true, "startsWith": true, "endsWith": true,
	"let": true, "if": true, "else": true,
}

// compiler turns expression source containing ?name builtin applications
// into an [expr.Expression].
//
// The source is scanned once. Each operand (an identifier, literal, group
// or collection, with its member accesses, calls and indexes) is tracked
// while it is written to the output; a '?' directly followed by a letter
// applies the named builtin to the operand before it. The operand text is
// replaced by a hole variable bound to the resolved builtin, so the
// remaining program is plain expr-lang.
//
// A '?' preceded by whitespace is the ternary operator. "?." and "??" are
// passed through.
type compiler struct {
	registry *builtin.Registry
	version  builtin.Version
	logger   log.Logger
	holes    []expr.Hole
	count    *int
}

func newCompiler(
	registry *builtin.Registry,
	version builtin.Version,
	logger log.Logger,
) *compiler {
	return &compiler{
		registry: registry,
		version:  version,
		logger:   logger,
		count:    new(int),
	}
}

// compile returns the expression denoted by src.
func (c *compiler) compile(src string) (expr.Expression, error) {
	return c.compileAt(src, 0)
}

// compileAt compiles src, located at byte offset base of the enclosing
// expression, with its own set of holes.
func (c *compiler) compileAt(src string, base int) (expr.Expression, error) {
	sub := &compiler{
		registry: c.registry,
		version:  c.version,
		logger:   c.logger,
		count:    c.count,
	}

	out, err := sub.rewrite(src, base)
	if err != nil {
		return nil, err
	}

	e, err := sub.operand(strings.TrimSpace(out))
	if err != nil {
		return nil, &offsetError{offset: base, err: err}
	}

	return e, nil
}

// rewrite returns src with every builtin application replaced by a hole.
func (c *compiler) rewrite(src string, base int) (string, error) {
	out := make([]byte, 0, len(src))
	operand := -1 // start of the current operand in out

	for i := 0; i < len(src); {
		ch := src[i]

		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			end, err := stringEnd(src, i)
			if err != nil {
				return "", &offsetError{offset: base + i, err: err}
			}

			if operand < 0 {
				operand = len(out)
			}

			out = append(out, src[i:end]...)
			i = end

		case isIdentStart(ch):
			end := identEnd(src, i+1)
			if operand < 0 {
				operand = len(out)
			}

			out = append(out, src[i:end]...)

			if wordOperators[src[i:end]] && operand == len(out)-(end-i) {
				operand = -1
			}

			i = end

		case isDigit(ch):
			end := numberEnd(src, i)
			if operand < 0 {
				operand = len(out)
			}

			out = append(out, src[i:end]...)
			i = end

		case ch == '.':
			if strings.HasPrefix(src[i:], "..") {
				out = append(out, ".."...)
				operand = -1
				i += 2

				continue
			}

			out = append(out, ch)
			i++

		case ch == '?':
			switch {
			case strings.HasPrefix(src[i:], "?."):
				out = append(out, "?."...)
				i += 2
			case strings.HasPrefix(src[i:], "??"):
				out = append(out, "??"...)
				operand = -1
				i += 2
			case operand >= 0 && i+1 < len(src) && isLetter(src[i+1]):
				var err error

				out, i, err = c.apply(src, base, out, operand, i)
				if err != nil {
					return "", err
				}
			default:
				out = append(out, ch)
				operand = -1
				i++
			}

		case ch == '(' || ch == '[' || ch == '{':
			end, err := closing(src, i)
			if err != nil {
				return "", &offsetError{offset: base + i, err: err}
			}

			inner, err := c.rewrite(src[i+1:end], base+i+1)
			if err != nil {
				return "", err
			}

			if operand < 0 || ch == '{' {
				operand = len(out)
			}

			out = append(out, ch)
			out = append(out, inner...)
			out = append(out, src[end])
			i = end + 1

		default:
			out = append(out, ch)
			operand = -1
			i++
		}
	}

	return string(out), nil
}

// apply resolves the builtin named after the '?' at src[i], applies it to
// the operand starting at out[operand] and replaces that operand with a
// hole. It returns the new output and the index following the application.
func (c *compiler) apply(
	src string, base int, out []byte, operand, i int,
) ([]byte, int, error) {
	j := i + 1
	for j < len(src) && isNameByte(src[j]) {
		j++
	}

	name := src[i+1 : j]

	target, err := c.operand(string(out[operand:]))
	if err != nil {
		return nil, 0, &offsetError{offset: base + i, err: err}
	}

	inv, err := c.registry.Resolve(c.version, target, name)
	if err != nil {
		return nil, 0, &offsetError{offset: base + i + 1, err: err}
	}

	c.logger.Trace("builtin resolved",
		slog.String("builtin", name),
		slog.String("target", target.CanonicalForm()),
		slog.String("version", c.version.String()))

	var e expr.Expression = inv

	if j < len(src) && src[j] == '(' {
		end, err := closing(src, j)
		if err != nil {
			return nil, 0, &offsetError{offset: base + j, err: err}
		}

		args, err := c.arguments(src[j+1:end], base+j+1)
		if err != nil {
			return nil, 0, err
		}

		e = &expr.MethodCall{Target: inv, Args: args}
		j = end + 1
	}

	return append(out[:operand], c.bind(e)...), j, nil
}

// arguments compiles the comma separated method arguments in src.
func (c *compiler) arguments(src string, base int) ([]expr.Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}

	var args []expr.Expression

	start := 0

	for _, end := range append(topLevelCommas(src), len(src)) {
		part := src[start:end]
		if strings.TrimSpace(part) == "" {
			return nil, &offsetError{
				offset: base + start,
				err:    expr.ErrCompile.With(slog.String("reason", "missing argument")),
			}
		}

		a, err := c.compileAt(part, base+start)
		if err != nil {
			return nil, err
		}

		args = append(args, a)
		start = end + 1
	}

	return args, nil
}

// operand compiles text, which may refer to holes of c.
func (c *compiler) operand(text string) (expr.Expression, error) {
	inner := text
	for len(inner) > 1 && inner[0] == '(' && inner[len(inner)-1] == ')' {
		inner = strings.TrimSpace(inner[1 : len(inner)-1])
	}

	if h, ok := c.hole(inner); ok {
		return h.Expr, nil
	}

	p, err := expr.Compile(text)
	if err != nil {
		return nil, err
	}

	var used []expr.Hole

	for _, name := range p.Names() {
		if h, ok := c.hole(name); ok {
			used = append(used, h)
		}
	}

	if len(used) == 0 {
		return p, nil
	}

	return &expr.Composite{Program: p, Holes: used}, nil
}

// bind adds a hole for e and returns the call that evaluates it.
func (c *compiler) bind(e expr.Expression) string {
	name := holePrefix + strconv.Itoa(*c.count) + "__"
	*c.count++

	c.holes = append(c.holes, expr.Hole{Name: name, Expr: e})

	return name + "()"
}

// hole returns the hole named by name, or by its call.
func (c *compiler) hole(name string) (expr.Hole, bool) {
	name = strings.TrimSuffix(name, "()")
	if !strings.HasPrefix(name, holePrefix) {
		return expr.Hole{}, false
	}

	for _, h := range c.holes {
		if h.Name == name {
			return h, true
		}
	}

	return expr.Hole{}, false
}

// offsetError locates err at a byte offset of the expression source.
type offsetError struct {
	offset int
	err    error
}

func (e *offsetError) Error() string { return e.err.Error() }
func (e *offsetError) Unwrap() error { return e.err }

// offsetOf returns the offset recorded in err.
func offsetOf(err error) (int, bool) {
	var oe *offsetError
	if !errors.As(err, &oe) {
		return 0, false
	}

	return oe.offset, true
}

// Character classification

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

func isNameByte(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' }

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c == '$' || c == '#' || c >= utf8.RuneSelf
}

func isIdentContinue(c byte) bool {
	return isNameByte(c) || c == '$' || c >= utf8.RuneSelf
}

func identEnd(src string, i int) int {
	for i < len(src) && isIdentContinue(src[i]) {
		i++
	}

	return i
}

// numberEnd returns the end of the number literal starting at src[i].
func numberEnd(src string, i int) int {
	hex := strings.HasPrefix(src[i:], "0x") || strings.HasPrefix(src[i:], "0X")

	for i < len(src) {
		c := src[i]

		switch {
		case isNameByte(c):
			i++
		case c == '.' && i+1 < len(src) && isDigit(src[i+1]):
			i++
		case (c == '+' || c == '-') && !hex && (src[i-1] == 'e' || src[i-1] == 'E'):
			i++
		default:
			return i
		}
	}

	return i
}

// stringEnd returns the index following the string literal at src[i].
func stringEnd(src string, i int) (int, error) {
	quote := src[i]

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			if quote != '`' {
				j++
			}
		case quote:
			return j + 1, nil
		}
	}

	return 0, expr.ErrCompile.With(slog.String("reason", "unterminated string"))
}

// closing returns the index of the bracket closing the one at src[i].
func closing(src string, i int) (int, error) {
	depth := 0

	for j := i; j < len(src); j++ {
		switch src[j] {
		case '"', '\'', '`':
			end, err := stringEnd(src, j)
			if err != nil {
				return 0, err
			}

			j = end - 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth--; depth == 0 {
				return j, nil
			}
		}
	}

	return 0, expr.ErrCompile.With(
		slog.String("reason", "unbalanced "+strconv.Quote(src[i:i+1])))
}

// topLevelCommas returns the indexes of the commas of src outside brackets
// and string literals.
func topLevelCommas(src string) []int {
	var (
		out   []int
		depth int
	)

	for j := 0; j < len(src); j++ {
		switch src[j] {
		case '"', '\'', '`':
			if end, err := stringEnd(src, j); err == nil {
				j = end - 1
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, j)
			}
		}
	}

	return out
}
