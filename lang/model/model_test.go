package model

import (
	"math"
	"slices"
	"testing"
	"time"
)

func TestWrapScalars(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "x", "string"},
		{"bool", true, "boolean"},
		{"int", 3, "number"},
		{"uint64", uint64(7), "number"},
		{"float", 2.5, "number"},
		{"time", ts, "date"},
		{"slice", []any{1, "a"}, "sequence"},
		{"map", map[string]any{"a": 1}, "hash"},
		{"struct", struct{ A int }{1}, "hash"},
		{"method", func([]Value) (Value, error) { return nil, nil }, "method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Wrap(tt.in)
			if v == nil {
				t.Fatal("Wrap returned nil")
			}

			if got := v.TypeName(); got != tt.want {
				t.Errorf("TypeName() = %q, want %q", got, tt.want)
			}
		})
	}

	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should be undefined")
	}

	var p *int
	if Wrap(p) != nil {
		t.Error("Wrap(nil pointer) should be undefined")
	}
}

func TestWrapMapOrder(t *testing.T) {
	m, ok := Wrap(map[string]any{"b": 2, "a": 1, "c": 3}).(HashEx)
	if !ok {
		t.Fatal("expected HashEx")
	}

	if got := m.Keys(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestMapInsertionOrder(t *testing.T) {
	m := NewMap().Set("z", Int(1)).Set("a", Int(2)).Set("z", Int(3))

	if got := m.Keys(); !slices.Equal(got, []string{"z", "a"}) {
		t.Errorf("Keys() = %v", got)
	}

	v, _ := m.Get("z")
	if !v.(Number).Equal(Int(3)) {
		t.Errorf("z = %v, want 3", v)
	}
}

func TestUnwrapRoundTrip(t *testing.T) {
	in := map[string]any{
		"s": "x",
		"n": int64(4),
		"f": 1.5,
		"l": []any{"a", true},
	}

	out, ok := Unwrap(Wrap(in)).(map[string]any)
	if !ok {
		t.Fatalf("Unwrap returned %T", out)
	}

	if out["s"] != "x" || out["n"] != int64(4) || out["f"] != 1.5 {
		t.Errorf("scalars lost: %v", out)
	}

	if l, ok := out["l"].([]any); !ok || len(l) != 2 || l[1] != true {
		t.Errorf("list lost: %v", out["l"])
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		n    Number
		want string
	}{
		{Int(42), "42"},
		{Float(3), "3"},
		{Float(0.1), "0.1"},
		{Float(-2.5), "-2.5"},
		{Float(1e20), "100000000000000000000"},
		{Float(math.NaN()), "NaN"},
	}

	for _, tt := range tests {
		if got := tt.n.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	if !Int(2).Equal(Float(2)) {
		t.Error("2 should equal 2.0")
	}

	if Int(1).Compare(Float(1.5)) != -1 || Float(2).Compare(Int(1)) != 1 {
		t.Error("Compare mismatch")
	}

	if !Float(math.Inf(-1)).IsInf() || Int(1).IsInf() {
		t.Error("IsInf mismatch")
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(String("x")); got != "string" {
		t.Errorf("Describe(String) = %q", got)
	}

	e := NewElement("root")
	if got := Describe(e); got != "string+hash+node" {
		t.Errorf("Describe(Element) = %q", got)
	}

	if got := Describe(nil); got != "undefined" {
		t.Errorf("Describe(nil) = %q", got)
	}
}

func TestElementTree(t *testing.T) {
	child := NewElement("item")
	child.Text = "one"
	root := NewElement("list").Append(child, NewElement("item"))

	if child.ParentNode() != Node(root) {
		t.Error("parent not linked")
	}

	if root.ParentNode() != nil {
		t.Error("root should have no parent")
	}

	items, ok := root.Get("item")
	if !ok || items.(Sequence).Len() != 2 {
		t.Errorf("Get(item) = %v, %v", items, ok)
	}

	if child.NodeType() != "element" {
		t.Errorf("NodeType() = %q", child.NodeType())
	}
}
