package repl

import (
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   functionCall
	}{
		{"no_call", "name", 4, functionCall{}},
		{"expr_func", "len(x", 5, functionCall{name: "len", argIndex: 0, inCall: true}},
		{"second_arg", "max(a, b", 8, functionCall{name: "max", argIndex: 1, inCall: true}},
		{"builtin", `s?left_pad(5, "`, 15, functionCall{name: "left_pad", builtin: true, argIndex: 1, inCall: true}},
		{"nested_closed", "len(x) + y", 10, functionCall{}},
		{"inner_call", "max(len(a), b", 13, functionCall{name: "max", argIndex: 1, inCall: true}},
		{"list_arg", "join([1, 2", 10, functionCall{name: "join", argIndex: 0, inCall: true}},
		{"bare_paren", "(a, b", 5, functionCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFunctionCall(tt.input, tt.cursor); got != tt.want {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want %+v",
					tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestLookupSignature(t *testing.T) {
	tests := []struct {
		call functionCall
		want string
		ok   bool
	}{
		{functionCall{name: "left_pad", builtin: true}, "width,padding?", true},
		{functionCall{name: "iso_ms", builtin: true}, "zone", true},
		{functionCall{name: "iso_utc_ms", builtin: true}, "", false},
		{functionCall{name: "upper_case", builtin: true}, "", false},
		{functionCall{name: "len"}, "v", true},
		{functionCall{name: "left_pad"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.call.name, func(t *testing.T) {
			sig, ok := lookupSignature(tt.call)
			if got := strings.Join(sig, ","); ok != tt.ok || got != tt.want {
				t.Errorf("lookupSignature(%+v) = (%q, %v), want (%q, %v)",
					tt.call, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	call := functionCall{name: "default", builtin: true, argIndex: 2, inCall: true}

	got := renderSignatureHint(call, builtinArgs["default"])
	for _, want := range []string{"?default", "...values"} {
		if !strings.Contains(got, want) {
			t.Errorf("renderSignatureHint() = %q, missing %q", got, want)
		}
	}
}
