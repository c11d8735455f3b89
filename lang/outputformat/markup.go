package outputformat

import (
	"io"
	"log/slog"
)

// Markup is a value that pairs a plain-text representation with its
// escaped rendering for one markup format. The plain text is unknown for
// values created from raw markup.
//
// Markup values are immutable.
type Markup struct {
	format   *MarkupFormat
	plain    string
	markup   string
	hasPlain bool
}

func (*Markup) TypeName() string { return "markup_output" }

// FormatName returns the name of the format m belongs to.
func (m *Markup) FormatName() string { return m.format.name }

// Format returns the format m belongs to.
func (m *Markup) Format() *MarkupFormat { return m.format }

// MarkupString returns the escaped rendering of m.
func (m *Markup) MarkupString() string { return m.markup }

// PlainText returns the plain-text representation of m, if known.
func (m *Markup) PlainText() (string, bool) { return m.plain, m.hasPlain }

// IsEmpty reports whether m renders as nothing.
func (m *Markup) IsEmpty() bool { return m.markup == "" }

func (m *Markup) String() string { return m.markup }

// WriteTo writes the markup rendering of m to w.
func (m *Markup) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, m.markup)

	return int64(n), err
}

// Concat joins a and b, which must belong to the same format. The result
// knows its plain text only when both operands do.
func Concat(a, b *Markup) (*Markup, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	case a.format != b.format:
		return nil, ErrIncompatibleOutputFormat.With(
			slog.String("left", a.format.name),
			slog.String("right", b.format.name),
		)
	}

	c := &Markup{format: a.format, markup: a.markup + b.markup}

	if a.hasPlain && b.hasPlain {
		c.plain = a.plain + b.plain
		c.hasPlain = true
	}

	return c, nil
}

// ConcatText joins m with plain text, escaping text with the format of m.
// When textFirst is set the text precedes m.
func ConcatText(m *Markup, text string, textFirst bool) *Markup {
	t := m.format.FromPlainText(text)
	if textFirst {
		c, _ := Concat(t, m)

		return c
	}

	c, _ := Concat(m, t)

	return c
}
