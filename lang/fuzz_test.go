package lang

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseString checks that parsing never panics and that the canonical
// form of every parsed template parses again.
func FuzzParseString(f *testing.F) {
	f.Add("plain text")
	f.Add("${x}")
	f.Add(`\${x}`)
	f.Add("${x?upper_case}")
	f.Add(`${x?left_pad(3, "*")}`)
	f.Add("${a + b?length > 2 ? 1 : 0}")
	f.Add(`${"}" + "${"}`)
	f.Add("${(x?trim)?length}")
	f.Add("${xs[i?int]?string}")
	f.Add("${")
	f.Add("${x?}")
	f.Add("${x?left_pad(}")

	e, err := New()
	if err != nil {
		f.Fatal(err)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		tmpl, err := e.ParseString(t.Context(), "fuzz", input)
		if err != nil {
			return
		}

		canonical := tmpl.Canonical()
		if _, err := e.ParseString(t.Context(), "fuzz", canonical); err != nil {
			t.Errorf("canonical form %q of %q does not parse: %v", canonical, input, err)
		}
	})
}
