package builtin

import (
	"testing"

	"github.com/ardnew/ftl/lang/model"
	"github.com/ardnew/ftl/lang/outputformat"
)

func TestHTMLVersions(t *testing.T) {
	tests := []struct {
		name    string
		version Version
		want    string
	}{
		{"html", V2_3_0, `&lt;a href=&quot;x&quot;&gt;'&amp;'`},
		{"html", V2_3_24, `&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;`},
		{"web_safe", V2_3_0, `&lt;a href=&quot;x&quot;&gt;'&amp;'`},
		{"web_safe", VersionLatest, `&lt;a href=&quot;x&quot;&gt;&#39;&amp;&#39;`},
	}

	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.version.String(), func(t *testing.T) {
			env := newTestEnv(t)
			env.version = tt.version

			if got := text(t, env, model.String(`<a href="x">'&'`), tt.name); got != tt.want {
				t.Errorf("?%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestEscapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"xhtml", `<'>`, `&lt;&#39;&gt;`},
		{"xml", `<'">`, `&lt;&apos;&quot;&gt;`},
		{"rtf", `{\b}`, `\{\\b\}`},
		{"js_string", `a"b'c` + "\n", `a\"b\'c\n`},
		{"js_string", `</script>`, `\x3C\/script\x3E`},
		{"json_string", `a"b'c`, `a\"b'c`},
		{"json_string", `<`, `\u003C`},
		{"j_string", "a\"b\t", `a\"b\t`},
		{"url", "a b/ä", "a%20b%2F%C3%A4"},
		{"url_path", "a b/c", "a%20b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text(t, newTestEnv(t), model.String(tt.in), tt.name); got != tt.want {
				t.Errorf("?%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestURLCharset(t *testing.T) {
	got := text(t, newTestEnv(t), model.String("ä"), "url", model.String("ISO-8859-1"))
	if got != "%E4" {
		t.Errorf(`?url("ISO-8859-1") = %q, want %q`, got, "%E4")
	}
}

func TestLegacyBuiltinBypass(t *testing.T) {
	tests := []struct {
		format  outputformat.Format
		autoEsc bool
		name    string
		want    string
	}{
		{outputformat.HTML, true, "html", "<b>"},
		{outputformat.HTML, true, "xml", "<b>"},
		{outputformat.HTML, true, "xhtml", "<b>"},
		{outputformat.HTML, true, "rtf", "<b>"},
		{outputformat.HTML, false, "html", "&lt;b&gt;"},
		{outputformat.XML, true, "xml", "<b>"},
		{outputformat.XML, true, "html", "&lt;b&gt;"},
		{outputformat.PlainText, true, "html", "&lt;b&gt;"},
	}

	for _, tt := range tests {
		t.Run(tt.format.Name()+"/"+tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.format = tt.format
			env.autoEsc = tt.autoEsc

			if got := text(t, env, model.String("<b>"), tt.name); got != tt.want {
				t.Errorf("?%s = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
