package lang

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/log"
)

// node is an element of a parsed template.
type node interface {
	canonical(sb *strings.Builder)
}

// textNode is literal template text.
type textNode struct {
	text string
}

func (n *textNode) canonical(sb *strings.Builder) {
	sb.WriteString(strings.ReplaceAll(n.text, "${", `\${`))
}

// interpolation is a ${...} whose value is printed.
type interpolation struct {
	expr expr.Expression
	pos  Position
}

func (n *interpolation) canonical(sb *strings.Builder) {
	sb.WriteString("${")
	sb.WriteString(n.expr.CanonicalForm())
	sb.WriteString("}")
}

// parser holds the parser state.
type parser struct {
	name    string
	input   []byte
	pos     int
	line    int
	col     int
	text    strings.Builder
	nodes   []node
	compile func(src string) (expr.Expression, error)
	logger  log.Logger
}

// parse splits source into text and interpolations, compiling each
// interpolated expression with compile.
func parse(
	ctx context.Context,
	name, source string,
	compile func(string) (expr.Expression, error),
	logger log.Logger,
) ([]node, error) {
	p := &parser{
		name:    name,
		input:   []byte(source),
		line:    1,
		col:     1,
		compile: compile,
		logger:  logger,
	}

	if err := p.parseTemplate(); err != nil {
		return nil, err
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("template", name),
		slog.Int("node_count", len(p.nodes)))

	return p.nodes, nil
}

// parseTemplate parses: (Text | '\${' | '${' Expression '}')* EOF.
func (p *parser) parseTemplate() error {
	for !p.eof() {
		switch {
		case p.peekN(3) == `\${`:
			p.advance() // skip '\'
			p.text.WriteString("${")
			p.advance()
			p.advance()
		case p.peekN(2) == "${":
			p.flushText()

			if err := p.parseInterpolation(); err != nil {
				return err
			}
		default:
			r, size := utf8.DecodeRune(p.input[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return p.errorAt(p.position(), "invalid UTF-8 encoding")
			}

			p.text.WriteRune(r)
			p.advance()
		}
	}

	p.flushText()

	return nil
}

func (p *parser) flushText() {
	if p.text.Len() == 0 {
		return
	}

	p.nodes = append(p.nodes, &textNode{text: p.text.String()})
	p.text.Reset()
}

// parseInterpolation parses: '${' Expression '}'.
func (p *parser) parseInterpolation() error {
	open := p.position()

	p.advance() // skip '$'
	p.advance() // skip '{'

	start := p.position()

	source, err := p.captureExpression()
	if err != nil {
		return err
	}

	if !p.expect('}') {
		return p.errorAt(open, "unterminated interpolation, expected }")
	}

	if strings.TrimSpace(source) == "" {
		return p.errorAt(open, "empty interpolation")
	}

	e, err := p.compile(source)
	if err != nil {
		pos := start
		if off, ok := offsetOf(err); ok {
			pos = p.positionAt(start.Offset + off)
		}

		return &TemplateError{
			Kind:   ErrParse,
			Name:   p.name,
			Source: string(p.input),
			Pos:    pos,
			Err:    err,
		}
	}

	p.nodes = append(p.nodes, &interpolation{expr: e, pos: start})

	return nil
}

// captureExpression captures raw expression text up to the unbalanced '}'
// closing the interpolation. String literals are skipped so delimiters
// inside them do not terminate the expression.
func (p *parser) captureExpression() (string, error) {
	start := p.pos
	depth := 0 // nesting of (), [], {}

	for !p.eof() {
		ch := p.peek()

		switch ch {
		case '"', '\'', '`':
			if err := p.skipString(ch); err != nil {
				return "", err
			}

			continue
		case '(', '[', '{':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '}':
			if depth == 0 {
				return string(p.input[start:p.pos]), nil
			}

			depth--
		}

		p.advance()
	}

	return string(p.input[start:p.pos]), nil
}

func (p *parser) skipString(quote rune) error {
	open := p.position()

	p.advance() // skip opening quote

	for !p.eof() {
		ch := p.peek()
		if ch == '\\' && quote != '`' {
			p.advance() // skip backslash

			if !p.eof() {
				p.advance() // skip escaped char
			}

			continue
		}

		p.advance()

		if ch == quote {
			return nil
		}
	}

	return p.errorAt(open, "unterminated string")
}

func (p *parser) errorAt(pos Position, reason string) error {
	return &TemplateError{
		Kind:   ErrParse,
		Name:   p.name,
		Source: string(p.input),
		Pos:    pos,
		Err:    ErrParse.With(slog.String("reason", reason)),
	}
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

// positionAt returns the position of byte offset off in the input.
func (p *parser) positionAt(off int) Position {
	pos := Position{Offset: off, Line: 1, Column: 1}

	for _, r := range string(p.input[:min(off, len(p.input))]) {
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}
