package builtin

import (
	"slices"

	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

func registerNodes(r *Registry) {
	single(r, "node_name", nodeFunc(func(_ *Invocation, n model.Node) (model.Value, error) {
		return model.String(n.NodeName()), nil
	}))
	single(r, "node_namespace", nodeFunc(func(_ *Invocation, n model.Node) (model.Value, error) {
		if ns := n.NodeNamespace(); ns != "" {
			return model.String(ns), nil
		}

		return nil, nil
	}))
	single(r, "node_type", nodeFunc(func(_ *Invocation, n model.Node) (model.Value, error) {
		return model.String(n.NodeType()), nil
	}))
	single(r, "parent", nodeFunc(func(_ *Invocation, n model.Node) (model.Value, error) {
		if p := n.ParentNode(); p != nil {
			return p, nil
		}

		return nil, nil
	}))
	single(r, "root", nodeFunc(func(_ *Invocation, n model.Node) (model.Value, error) {
		for p := n.ParentNode(); p != nil; p = n.ParentNode() {
			n = p
		}

		return n, nil
	}))
	single(r, "children", nodeFunc(func(_ *Invocation, n model.Node) (model.Value, error) {
		return nodeList(n.ChildNodes()), nil
	}))
	single(r, "ancestors", nodeFunc(func(in *Invocation, n model.Node) (model.Value, error) {
		var up []model.Node
		for p := n.ParentNode(); p != nil; p = p.ParentNode() {
			up = append(up, p)
		}

		return &ancestors{List: nodeList(up), in: in}, nil
	}))
}

func nodeFunc(fn func(in *Invocation, n model.Node) (model.Value, error)) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		n, err := in.node(env)
		if err != nil {
			return nil, err
		}

		return fn(in, n)
	}
}

func nodeList(nodes []model.Node) model.List {
	out := make(model.List, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}

	return out
}

// ancestors lists the parents of a node, nearest first. Called with node
// names, it keeps only the ancestors with one of those names.
type ancestors struct {
	model.List

	in *Invocation
}

func (a *ancestors) Call(args []model.Value) (model.Value, error) {
	names := make([]string, len(args))
	for i := range args {
		s, err := RequireString(a.in.key, args, i)
		if err != nil {
			return nil, err
		}

		names[i] = s
	}

	var out model.List

	for _, v := range a.List {
		if n := v.(model.Node); len(names) == 0 || slices.Contains(names, n.NodeName()) {
			out = append(out, n)
		}
	}

	return out, nil
}
