package builtin

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

var (
	htmlLegacy = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
	htmlEscape = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", `'`, "&#39;")
	xmlEscape  = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", `'`, "&apos;")
	rtfEscape  = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)
)

func registerEscapes(r *Registry) {
	r.Register("html",
		Variant{Min: V2_3_24, Func: escaper("html", htmlEscape.Replace)},
		Variant{Min: V2_3_0, Func: escaper("html", htmlLegacy.Replace)},
	)
	r.Alias("web_safe", "html")
	single(r, "xhtml", escaper("xhtml", htmlEscape.Replace))
	single(r, "xml", escaper("xml", xmlEscape.Replace))
	single(r, "rtf", escaper("rtf", rtfEscape.Replace))
	single(r, "js_string", escaper("js_string", func(s string) string { return quoteScript(s, false) }))
	single(r, "json_string", escaper("json_string", func(s string) string { return quoteScript(s, true) }))
	single(r, "j_string", escaper("j_string", quoteJava))
	single(r, "url", urlEscaper(false))
	single(r, "url_path", urlEscaper(true))
}

// escaper applies esc to the target text, unless the output format already
// performs that escaping on output.
func escaper(name string, esc func(string) string) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.str(env)
		if err != nil {
			return nil, err
		}

		if env.AutoEscaping() && env.OutputFormat().IsLegacyBuiltinBypassed(name) {
			return model.String(s), nil
		}

		return model.String(esc(s)), nil
	}
}

// quoteScript escapes s for a JavaScript or JSON string literal.
func quoteScript(s string, json bool) string {
	var sb strings.Builder

	for i, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\'':
			if json {
				sb.WriteByte('\'')
			} else {
				sb.WriteString(`\'`)
			}
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '/':
			if i > 0 && s[i-1] == '<' {
				sb.WriteString(`\/`)
			} else {
				sb.WriteByte('/')
			}
		case '<', '>':
			if json {
				fmt.Fprintf(&sb, `\u%04X`, c)
			} else {
				fmt.Fprintf(&sb, `\x%02X`, c)
			}
		case '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04X`, c)
		default:
			switch {
			case c < 0x20 && json:
				fmt.Fprintf(&sb, `\u%04X`, c)
			case c < 0x20:
				fmt.Fprintf(&sb, `\x%02X`, c)
			default:
				sb.WriteRune(c)
			}
		}
	}

	return sb.String()
}

// quoteJava escapes s for a Java string literal.
func quoteJava(s string) string {
	var sb strings.Builder

	for _, c := range s {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\u%04X`, c)
			} else {
				sb.WriteRune(c)
			}
		}
	}

	return sb.String()
}

// urlEscaper percent-encodes the target in the charset given as the
// optional argument, UTF-8 by default. The result is both a string and a
// method taking the charset.
func urlEscaper(keepSlash bool) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		s, err := in.str(env)
		if err != nil {
			return nil, err
		}

		if env.AutoEscaping() && env.OutputFormat().IsLegacyBuiltinBypassed(in.key) {
			return model.String(s), nil
		}

		return &scalarMethod{
			s: percentEncode([]byte(s), keepSlash),
			call: in.method(1, 1, func(args []model.Value) (model.Value, error) {
				charset, err := RequireString(in.key, args, 0)
				if err != nil {
					return nil, err
				}

				enc, err := htmlindex.Get(charset)
				if err != nil {
					return nil, ErrInvalidArg.Wrap(err).With(
						slog.String("builtin", "?"+in.key),
						slog.String("charset", charset),
					)
				}

				b, err := enc.NewEncoder().String(s)
				if err != nil {
					return nil, ErrInvalidArg.Wrap(err).With(
						slog.String("builtin", "?"+in.key),
						slog.String("charset", charset),
					)
				}

				return model.String(percentEncode([]byte(b), keepSlash)), nil
			}),
		}, nil
	}
}

func percentEncode(b []byte, keepSlash bool) string {
	const hex = "0123456789ABCDEF"

	var sb strings.Builder

	for _, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			strings.IndexByte("-_.!~*'()", c) >= 0,
			c == '/' && keepSlash:
			sb.WriteByte(c)
		default:
			sb.WriteByte('%')
			sb.WriteByte(hex[c>>4])
			sb.WriteByte(hex[c&0xF])
		}
	}

	return sb.String()
}

// scalarMethod is a string that can also be called as a method, such as
// the result of ?url or ?string on a number.
type scalarMethod struct {
	s    string
	call model.MethodFunc
}

func (*scalarMethod) TypeName() string                               { return "string" }
func (m *scalarMethod) AsString() string                             { return m.s }
func (m *scalarMethod) Call(args []model.Value) (model.Value, error) { return m.call(args) }

