package outputformat

import "strings"

var (
	// htmlEscaper follows the XHTML rule set minus the apostrophe, which
	// HTML text and double-quoted attributes do not require.
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	xhtmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	rtfEscaper = strings.NewReplacer(
		`\`, `\\`,
		"{", `\{`,
		"}", `\}`,
	)
)

// Markup formats.
var (
	HTML = &MarkupFormat{
		name:   "HTML",
		mime:   "text/html",
		esc:    htmlEscaper,
		bypass: []string{"html", "xml", "xhtml"},
	}
	XHTML = &MarkupFormat{
		name:   "XHTML",
		mime:   "application/xhtml+xml",
		esc:    xhtmlEscaper,
		bypass: []string{"html", "xml", "xhtml"},
	}
	XML = &MarkupFormat{
		name:   "XML",
		mime:   "application/xml",
		esc:    xmlEscaper,
		bypass: []string{"xml"},
	}
	RTF = &MarkupFormat{
		name:   "RTF",
		mime:   "application/rtf",
		esc:    rtfEscaper,
		bypass: []string{"rtf"},
	}
)

// Non-markup formats.
var (
	PlainText  = &TextFormat{name: "plainText", mime: "text/plain"}
	Undefined  = &TextFormat{name: "undefined"}
	JavaScript = &TextFormat{name: "JavaScript", mime: "application/javascript"}
	JSON       = &TextFormat{name: "JSON", mime: "application/json"}
	CSS        = &TextFormat{name: "CSS", mime: "text/css"}
)
