// Package lang parses and renders templates.
//
// A template is literal text with interpolations. Each interpolation is an
// expression in ${...}; its value is printed in place of it, escaped by the
// output format of the [Engine] when auto-escaping is enabled.
//
// # Expressions
//
// Expressions are expr-lang expressions extended with the builtin
// operator. A '?' directly followed by a name applies the named builtin to
// the operand before it; a parenthesized list after the name passes
// arguments to builtins that are methods:
//
//	${user.name?cap_first}
//	${items?join(", ")}
//	${(price * qty)?string("0.00")}
//	${title?left_pad(20)?html}
//
// Builtins bind tighter than any operator, so a + b?upper_case applies the
// builtin to b only. The ternary operator needs a space before its '?':
//
//	${count > 1 ? "items" : "item"}
//
// "?." (optional member access) and "??" (nil coalescing) keep their
// expr-lang meaning.
//
// # Text
//
// Text outside interpolations is copied verbatim. The sequence \${ writes a
// literal "${".
//
// # Output formats
//
// Values are printed according to the output format configured with
// [WithOutputFormat]:
//
//   - Markup values of the output format, e.g. the result of ?no_esc or
//     ?markdown under HTML, are written as is.
//   - Markup values of another format are an error.
//   - Numbers, dates and booleans are formatted with the configured number,
//     date and boolean formats.
//   - Directives, such as the result of ?interpret, are rendered in place.
//
// # Data model
//
// Templates are rendered with a map of variables, usually decoded from a
// YAML or JSON document with [LoadData].
//
// # Caching
//
// Parsed templates are cached by name, source and the options that affect
// parsing; see [ClearCache].
package lang
