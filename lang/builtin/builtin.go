// Package builtin implements the ?name postfix operator.
//
// Every builtin is registered once under its name in a [Registry]. A name
// may carry several behaviors, each introduced at a minimum compatibility
// [Version]; resolution picks the newest behavior the configured version
// allows and binds it, with its target expression, into an [Invocation].
package builtin

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

// Version is a compatibility level encoded as
// major*1_000_000 + minor*1_000 + micro.
type Version int

const (
	V2_3_0  Version = 2_003_000
	V2_3_24 Version = 2_003_024
	V2_3_32 Version = 2_003_032

	VersionDefault = V2_3_0
	VersionLatest  = V2_3_32
)

// NewVersion returns the Version of major.minor.micro.
func NewVersion(major, minor, micro int) Version {
	return Version(major*1_000_000 + minor*1_000 + micro)
}

// ParseVersion parses "2.3.24"; missing components are zero.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	var n [3]int

	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 999 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}

		n[i] = v
	}

	return NewVersion(n[0], n[1], n[2]), nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v/1_000_000, v/1_000%1_000, v%1_000)
}

// Func is the behavior of a builtin. It evaluates the target of in itself,
// so builtins that accept undefined targets can tell them apart.
type Func func(in *Invocation, env expr.Env) (model.Value, error)

// Variant is a behavior together with the first version that selects it.
type Variant struct {
	Min  Version
	Func Func
}

// Descriptor holds the behaviors registered under one name, newest first.
// Descriptors are immutable and may be shared by several names.
type Descriptor struct {
	variants []Variant
}

// Resolve returns the newest behavior whose minimum version is at most v,
// or the oldest behavior when v predates them all.
func (d *Descriptor) Resolve(v Version) Func {
	for _, vr := range d.variants {
		if v >= vr.Min {
			return vr.Func
		}
	}

	return d.variants[len(d.variants)-1].Func
}

// Versions returns the minimum version of each behavior, oldest first.
func (d *Descriptor) Versions() []Version {
	out := make([]Version, len(d.variants))
	for i, vr := range d.variants {
		out[len(out)-1-i] = vr.Min
	}

	return out
}

// Registry maps builtin names to descriptors. It is populated before use
// and only read afterwards.
type Registry struct {
	byName map[string]*Descriptor
	names  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Descriptor{}}
}

// Register adds a builtin with one or more behaviors. It panics on an empty
// or duplicate registration.
func (r *Registry) Register(name string, variants ...Variant) *Descriptor {
	if len(variants) == 0 {
		panic("builtin: no behavior for ?" + name)
	}

	d := &Descriptor{variants: slices.Clone(variants)}
	slices.SortStableFunc(d.variants, func(a, b Variant) int { return int(b.Min - a.Min) })

	r.add(name, d)

	return d
}

// Alias registers name as another name for the builtin target.
func (r *Registry) Alias(name, target string) {
	d, ok := r.byName[target]
	if !ok {
		panic("builtin: alias of unknown ?" + target)
	}

	r.add(name, d)
}

func (r *Registry) add(name string, d *Descriptor) {
	if _, dup := r.byName[name]; dup {
		panic("builtin: duplicate ?" + name)
	}

	r.byName[name] = d

	i, _ := slices.BinarySearch(r.names, name)
	r.names = slices.Insert(r.names, i, name)
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]

	return d, ok
}

// Names returns every registered name in lexicographic order.
func (r *Registry) Names() []string { return slices.Clone(r.names) }

// Resolve binds the builtin name, as of version v, to target.
func (r *Registry) Resolve(v Version, target expr.Expression, name string) (*Invocation, error) {
	d, ok := r.byName[name]
	if !ok {
		return nil, &UnknownBuiltinError{
			Name:        name,
			Names:       r.Names(),
			Suggestions: r.suggest(name),
		}
	}

	return &Invocation{target: target, key: name, fn: d.Resolve(v)}, nil
}

// suggest returns up to three registered names resembling name.
func (r *Registry) suggest(name string) []string {
	var out []string

	for _, m := range fuzzy.Find(name, r.names) {
		if out = append(out, m.Str); len(out) == 3 {
			break
		}
	}

	return out
}

// Default returns the registry of all builtins, built on first use.
var Default = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	registerAll(r)

	return r
})

// Resolve binds name using the [Default] registry.
func Resolve(v Version, target expr.Expression, name string) (*Invocation, error) {
	return Default().Resolve(v, target, name)
}

// Names returns the names in the [Default] registry.
func Names() []string { return Default().Names() }

// Invocation is a builtin bound to the target expression it applies to and
// the name it was written with. It implements [expr.Expression].
type Invocation struct {
	target expr.Expression
	key    string
	fn     Func
}

func (in *Invocation) Eval(env expr.Env) (model.Value, error) { return in.fn(in, env) }

func (in *Invocation) CanonicalForm() string {
	return in.target.CanonicalForm() + "?" + in.key
}

// Key returns the name the builtin was written with.
func (in *Invocation) Key() string { return in.key }

// Target returns the expression the builtin applies to.
func (in *Invocation) Target() expr.Expression { return in.target }

func registerAll(r *Registry) {
	registerStrings(r)
	registerEscapes(r)
	registerRegex(r)
	registerNumbers(r)
	registerDates(r)
	registerSequences(r)
	registerHashes(r)
	registerTypes(r)
	registerExistence(r)
	registerNodes(r)
	registerMisc(r)
	registerMarkup(r)
}

// single registers a builtin with one behavior valid for every version.
func single(r *Registry, name string, fn Func) {
	r.Register(name, Variant{Min: V2_3_0, Func: fn})
}
