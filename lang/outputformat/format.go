// Package outputformat defines how text is escaped for a target syntax and
// how already-escaped markup values are combined.
//
// Markup formats (HTML, XHTML, XML, RTF) escape plain text on output and
// produce [Markup] values. Non-markup formats (plain text, "undefined",
// JavaScript, JSON, CSS) write text verbatim.
package outputformat

import (
	"io"
	"log/slog"
	"slices"

	"github.com/ardnew/ftl/pkg"
)

var (
	ErrIncompatibleOutputFormat = pkg.NewError("incompatible output formats")
	ErrNotMarkupFormat          = pkg.NewError("not a markup output format")
	ErrInconsistentMarkup       = pkg.NewError("markup does not match escaped plain text")
	ErrUnknownOutputFormat      = pkg.NewError("unknown output format")
	ErrAlreadyRegistered        = pkg.NewError("output format already registered")
)

// Format is the capability set shared by every output format.
type Format interface {
	// Name is the common name, e.g. "HTML".
	Name() string
	MimeType() string
	// IsMarkup reports whether the format escapes text and produces
	// [Markup] values.
	IsMarkup() bool
	// Escape returns text escaped for the format. Non-markup formats
	// return text unchanged.
	Escape(text string) string
	// Output writes the escaped form of text to w without building the
	// escaped string first.
	Output(text string, w io.Writer) error
	// Wrap pairs plain text with its markup rendering. It fails for
	// non-markup formats and when markup is not the escaped plain text.
	Wrap(plain, markup string) (*Markup, error)
	// IsLegacyBuiltinBypassed reports whether the format already performs
	// the escaping of the named legacy builtin, making it a no-op.
	IsLegacyBuiltinBypassed(builtin string) bool
}

// escaper writes escaped text to a writer.
type escaper interface {
	WriteString(w io.Writer, s string) (int, error)
	Replace(s string) string
}

// MarkupFormat is a [Format] with an escaping function.
type MarkupFormat struct {
	name   string
	mime   string
	esc    escaper
	bypass []string
}

func (f *MarkupFormat) Name() string     { return f.name }
func (f *MarkupFormat) MimeType() string { return f.mime }
func (f *MarkupFormat) IsMarkup() bool   { return true }
func (f *MarkupFormat) String() string   { return f.name }

func (f *MarkupFormat) Escape(text string) string { return f.esc.Replace(text) }

func (f *MarkupFormat) Output(text string, w io.Writer) error {
	_, err := f.esc.WriteString(w, text)

	return err
}

func (f *MarkupFormat) IsLegacyBuiltinBypassed(builtin string) bool {
	return slices.Contains(f.bypass, builtin)
}

// FromPlainText returns the markup value of plain text.
func (f *MarkupFormat) FromPlainText(text string) *Markup {
	return &Markup{format: f, plain: text, markup: f.Escape(text), hasPlain: true}
}

// FromMarkup returns a markup value holding markup verbatim. The plain text
// of such a value is unknown.
func (f *MarkupFormat) FromMarkup(markup string) *Markup {
	return &Markup{format: f, markup: markup}
}

func (f *MarkupFormat) Wrap(plain, markup string) (*Markup, error) {
	if escaped := f.Escape(plain); escaped != markup {
		return nil, ErrInconsistentMarkup.With(
			slog.String("format", f.name),
			slog.String("plain", plain),
			slog.String("markup", markup),
		)
	}

	return &Markup{format: f, plain: plain, markup: markup, hasPlain: true}, nil
}

// TextFormat is a [Format] that writes text verbatim.
type TextFormat struct {
	name string
	mime string
}

func (f *TextFormat) Name() string                        { return f.name }
func (f *TextFormat) MimeType() string                    { return f.mime }
func (f *TextFormat) IsMarkup() bool                      { return false }
func (f *TextFormat) String() string                      { return f.name }
func (f *TextFormat) Escape(text string) string           { return text }
func (f *TextFormat) IsLegacyBuiltinBypassed(string) bool { return false }

func (f *TextFormat) Output(text string, w io.Writer) error {
	_, err := io.WriteString(w, text)

	return err
}

func (f *TextFormat) Wrap(string, string) (*Markup, error) {
	return nil, ErrNotMarkupFormat.With(slog.String("format", f.name))
}
