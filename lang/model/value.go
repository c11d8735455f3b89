// Package model defines the values visible to templates.
//
// A value advertises what it can be used as through small capability
// interfaces ([Scalar], [Numeric], [Temporal], [Boolish], [Sequence], [Hash],
// [Method], [Markup], [Node], [Directive]). One value may implement several,
// e.g. the result of ?matches is both a boolean and a sequence.
package model

import (
	"slices"
	"strings"
)

// Value is implemented by every template-visible value.
type Value interface {
	// TypeName describes the value in error messages, e.g. "string".
	TypeName() string
}

// Scalar is a value usable as a string.
type Scalar interface {
	Value
	AsString() string
}

// Numeric is a value usable as a number.
type Numeric interface {
	Value
	AsNumber() Number
}

// Temporal is a value usable as a date, time or date-time.
type Temporal interface {
	Value
	AsDate() Date
}

// Boolish is a value usable as a boolean.
type Boolish interface {
	Value
	AsBool() bool
}

// Sequence is an indexable, ordered collection.
type Sequence interface {
	Value
	Len() int
	At(i int) Value
}

// Hash maps string keys to values.
type Hash interface {
	Value
	Get(key string) (Value, bool)
}

// HashEx is a [Hash] that can enumerate its keys in a stable order.
type HashEx interface {
	Hash
	Keys() []string
	Len() int
}

// Method is a callable value.
type Method interface {
	Value
	Call(args []Value) (Value, error)
}

// Markup is a value that already holds its rendering for one output format.
type Markup interface {
	Value
	FormatName() string
}

// Node is an element of a tree-shaped document.
type Node interface {
	Value
	NodeName() string
	NodeType() string
	NodeNamespace() string
	ParentNode() Node
	ChildNodes() []Node
}

// Directive is a value that can be invoked as a user-defined directive.
type Directive interface {
	Value
	IsMacro() bool
	IsTransform() bool
}

// Describe lists every capability of v, for error messages such as
// "expected string, got sequence+hash".
func Describe(v Value) string {
	if v == nil {
		return "undefined"
	}

	var kinds []string

	add := func(ok bool, name string) {
		if ok {
			kinds = append(kinds, name)
		}
	}

	_, s := v.(Scalar)
	_, n := v.(Numeric)
	_, d := v.(Temporal)
	_, b := v.(Boolish)
	_, q := v.(Sequence)
	_, h := v.(Hash)
	_, m := v.(Method)
	_, k := v.(Markup)
	_, o := v.(Node)
	_, r := v.(Directive)

	add(s, "string")
	add(n, "number")
	add(d, "date")
	add(b, "boolean")
	add(q, "sequence")
	add(h, "hash")
	add(m, "method")
	add(k, "markup_output")
	add(o, "node")
	add(r, "directive")

	if len(kinds) == 0 {
		return v.TypeName()
	}

	return strings.Join(slices.Compact(kinds), "+")
}
