package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/ftl/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrParse     = pkg.NewError("template parse error")
	ErrRender    = pkg.NewError("template render error")
	ErrReadInput = pkg.NewError("failed to read input")
	ErrNotFound  = pkg.NewError("template not found")
	ErrConfig    = pkg.NewError("invalid configuration")
	ErrLoadData  = pkg.NewError("failed to load data model")
)

// Position is a location in template source. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// TemplateError locates a parse or render failure in a template. It matches
// its Kind sentinel ([ErrParse] or [ErrRender]) with [errors.Is] and
// unwraps to the underlying cause.
type TemplateError struct {
	Kind   *pkg.Error
	Name   string
	Source string
	Pos    Position
	Err    error
}

func (e *TemplateError) Error() string {
	var buf strings.Builder

	buf.WriteString(e.Kind.Error())

	if e.Name != "" {
		buf.WriteString(" in ")
		buf.WriteString(strconv.Quote(e.Name))
	}

	buf.WriteString(" at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))

	if e.Err != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Err.Error())
	}

	if snippet := e.Snippet(); snippet != "" {
		buf.WriteByte('\n')
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Snippet returns the offending source line with a caret under the error
// column, or the empty string when the line is out of range.
func (e *TemplateError) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	num := strconv.Itoa(e.Pos.Line)

	src.WriteString("  ")
	src.WriteString(num)
	src.WriteString(" | ")
	src.WriteString(lines[e.Pos.Line-1])
	src.WriteByte('\n')

	// 2 leading spaces + " | "
	padding := strings.Repeat(" ", len(num)+5)
	if e.Pos.Column > 0 {
		padding += strings.Repeat(" ", e.Pos.Column-1)
	}

	src.WriteString(padding)
	src.WriteString("^")

	return src.String()
}

func (e *TemplateError) Unwrap() error { return e.Err }

func (e *TemplateError) Is(target error) bool {
	t, ok := target.(*pkg.Error)

	return ok && errors.Is(e.Kind, t)
}

func (e *TemplateError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Kind.Error()),
		slog.String("template", e.Name),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	}

	if e.Err != nil {
		attrs = append(attrs, slog.Any("cause", e.Err))
	}

	return slog.GroupValue(attrs...)
}
