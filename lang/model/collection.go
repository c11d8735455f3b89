package model

import "slices"

// List is a [Sequence] backed by a slice.
type List []Value

func (List) TypeName() string { return "sequence" }
func (l List) Len() int       { return len(l) }
func (l List) At(i int) Value { return l[i] }

// Map is an insertion-ordered [HashEx].
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty Map.
func NewMap() *Map { return &Map{values: map[string]Value{}} }

func (*Map) TypeName() string { return "hash" }

// Set adds or replaces key. New keys are appended to the key order.
func (m *Map) Set(key string, v Value) *Map {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = v

	return m
}

func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]

	return v, ok
}

func (m *Map) Keys() []string { return slices.Clone(m.keys) }
func (m *Map) Len() int       { return len(m.keys) }

// MethodFunc adapts a function to the [Method] interface.
type MethodFunc func(args []Value) (Value, error)

func (MethodFunc) TypeName() string { return "method" }

func (f MethodFunc) Call(args []Value) (Value, error) { return f(args) }

// Element is a simple [Node] implementation for element trees built in
// memory.
type Element struct {
	Name      string
	Namespace string
	Type      string // "element" when empty
	Text      string
	Attrs     *Map
	parent    *Element
	children  []*Element
}

// NewElement returns an element node with the given name.
func NewElement(name string) *Element { return &Element{Name: name} }

// Append adds children to e and returns e.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		c.parent = e
		e.children = append(e.children, c)
	}

	return e
}

func (*Element) TypeName() string { return "node" }

func (e *Element) NodeName() string      { return e.Name }
func (e *Element) NodeNamespace() string { return e.Namespace }

func (e *Element) NodeType() string {
	if e.Type == "" {
		return "element"
	}

	return e.Type
}

func (e *Element) ParentNode() Node {
	if e.parent == nil {
		return nil
	}

	return e.parent
}

func (e *Element) ChildNodes() []Node {
	nodes := make([]Node, len(e.children))
	for i, c := range e.children {
		nodes[i] = c
	}

	return nodes
}

// AsString returns the text content of e.
func (e *Element) AsString() string { return e.Text }

// Get returns an attribute (keys prefixed with "@") or the first child
// element with the given name.
func (e *Element) Get(key string) (Value, bool) {
	if len(key) > 1 && key[0] == '@' && e.Attrs != nil {
		return e.Attrs.Get(key[1:])
	}

	var matched List

	for _, c := range e.children {
		if c.Name == key {
			matched = append(matched, c)
		}
	}

	if len(matched) == 0 {
		return nil, false
	}

	return matched, true
}

// Callable is a user-defined directive such as the result of ?interpret.
type Callable struct {
	Name      string
	Macro     bool
	Transform bool
	Namespace *Map
	Invoke    func(w Writer) error
}

// Writer is the sink a [Callable] renders into.
type Writer interface {
	WriteString(s string) (int, error)
}

func (*Callable) TypeName() string    { return "directive" }
func (c *Callable) IsMacro() bool     { return c.Macro }
func (c *Callable) IsTransform() bool { return c.Transform }
