package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// signature names the parameters of a callable. Optional parameters are
// written with a trailing "?" and variadic ones with a leading "...".
type signature []string

// exprFuncs are the expr-lang functions usable in primary expressions.
var exprFuncs = map[string]signature{
	"len":       {"v"},
	"all":       {"array", "predicate"},
	"any":       {"array", "predicate"},
	"one":       {"array", "predicate"},
	"none":      {"array", "predicate"},
	"map":       {"array", "mapper"},
	"filter":    {"array", "predicate"},
	"find":      {"array", "predicate"},
	"findIndex": {"array", "predicate"},
	"groupBy":   {"array", "mapper"},
	"sortBy":    {"array", "mapper"},
	"count":     {"array", "predicate"},
	"sum":       {"array"},
	"min":       {"array"},
	"max":       {"array"},
	"join":      {"array", "separator"},
	"split":     {"string", "separator"},
	"replace":   {"string", "old", "new"},
	"trim":      {"string"},
	"upper":     {"string"},
	"lower":     {"string"},
	"int":       {"v"},
	"float":     {"v"},
	"string":    {"v"},
	"type":      {"v"},
	"now":       {},
	"date":      {"string", "layout?"},
}

// builtinArgs are the parameters of builtins whose result is called with
// arguments, as in ?left_pad(8, "0").
var builtinArgs = map[string]signature{
	"contains":          {"substring"},
	"starts_with":       {"prefix"},
	"ends_with":         {"suffix"},
	"index_of":          {"substring", "from?"},
	"last_index_of":     {"substring", "from?"},
	"left_pad":          {"width", "padding?"},
	"right_pad":         {"width", "padding?"},
	"substring":         {"begin", "end?"},
	"matches":           {"regex", "flags?"},
	"replace":           {"search", "replacement", "flags?"},
	"split":             {"separator", "flags?"},
	"sort_by":           {"key"},
	"chunk":             {"size", "filler?"},
	"join":              {"separator", "empty?", "suffix?"},
	"seq_contains":      {"value"},
	"seq_index_of":      {"value", "from?"},
	"seq_last_index_of": {"value", "from?"},
	"default":           {"...values"},
	"string":            {"format"},
	"date":              {"format"},
	"time":              {"format"},
	"datetime":          {"format"},
	"iso":               {"zone"},
	"url":               {"charset"},
	"url_path":          {"charset"},
	"ancestors":         {"...names"},
}

// Styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a detected call in the input.
type functionCall struct {
	name     string // function or builtin name
	builtin  bool   // true if the name follows '?'
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall reports whether the cursor is inside the argument list
// of a call, and which argument it is on.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Find the innermost unclosed '(' before the cursor.
	open := -1
	depth := 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{
		name:     name,
		builtin:  start > 0 && input[start-1] == '?',
		argIndex: argIndex,
		inCall:   true,
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// lookupSignature returns the parameters of the call, if known.
func lookupSignature(call functionCall) (signature, bool) {
	if call.builtin {
		if sig, ok := builtinArgs[call.name]; ok {
			return sig, true
		}

		// ?iso_utc and friends take no zone; ?iso_ms and friends do.
		if strings.HasPrefix(call.name, "iso_") && !strings.HasPrefix(call.name, "iso_utc") &&
			!strings.HasPrefix(call.name, "iso_local") {
			return builtinArgs["iso"], true
		}

		return nil, false
	}

	sig, ok := exprFuncs[call.name]

	return sig, ok
}

// renderSignatureHint renders the call's signature with the current
// parameter highlighted.
func renderSignatureHint(call functionCall, sig signature) string {
	name := call.name
	if call.builtin {
		name = "?" + name
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range sig {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if (variadic && call.argIndex >= i) || (!variadic && call.argIndex == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
