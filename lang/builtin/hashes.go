package builtin

import (
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

func registerHashes(r *Registry) {
	single(r, "keys", hashFunc(func(h model.HashEx) model.Value {
		keys := h.Keys()

		out := make(model.List, len(keys))
		for i, k := range keys {
			out[i] = model.String(k)
		}

		return out
	}))
	single(r, "values", hashFunc(func(h model.HashEx) model.Value {
		keys := h.Keys()

		out := make(model.List, len(keys))
		for i, k := range keys {
			out[i], _ = h.Get(k)
		}

		return out
	}))
}

func hashFunc(fn func(h model.HashEx) model.Value) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		h, ok := v.(model.HashEx)
		if !ok {
			return nil, in.targetError(v, "extended hash")
		}

		return fn(h), nil
	}
}
