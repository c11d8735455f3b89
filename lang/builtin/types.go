package builtin

import (
	"github.com/ardnew/ftl/lang/expr"
	"github.com/ardnew/ftl/lang/model"
)

func registerTypes(r *Registry) {
	single(r, "is_string", is(func(v model.Value) bool { _, ok := v.(model.Scalar); return ok }))
	single(r, "is_number", is(func(v model.Value) bool { _, ok := v.(model.Numeric); return ok }))
	single(r, "is_boolean", is(func(v model.Value) bool { _, ok := v.(model.Boolish); return ok }))
	single(r, "is_date", is(func(v model.Value) bool { _, ok := v.(model.Temporal); return ok }))
	r.Alias("is_date_like", "is_date")
	single(r, "is_unknown_date_like", isDateType(model.DateTypeUnknown))
	single(r, "is_date_only", isDateType(model.DateTypeDate))
	single(r, "is_time", isDateType(model.DateTypeTime))
	single(r, "is_datetime", isDateType(model.DateTypeDateTime))
	single(r, "is_method", is(func(v model.Value) bool { _, ok := v.(model.Method); return ok }))
	single(r, "is_sequence", is(func(v model.Value) bool { _, ok := v.(model.Sequence); return ok }))
	single(r, "is_indexable", is(func(v model.Value) bool { _, ok := v.(model.Sequence); return ok }))
	single(r, "is_collection", is(isCollection))
	single(r, "is_enumerable", is(isCollection))
	single(r, "is_hash", is(func(v model.Value) bool { _, ok := v.(model.Hash); return ok }))
	single(r, "is_hash_ex", is(func(v model.Value) bool { _, ok := v.(model.HashEx); return ok }))
	single(r, "is_node", is(func(v model.Value) bool { _, ok := v.(model.Node); return ok }))
	single(r, "is_directive", is(func(v model.Value) bool { _, ok := v.(model.Directive); return ok }))
	single(r, "is_macro", is(func(v model.Value) bool {
		d, ok := v.(model.Directive)
		return ok && d.IsMacro()
	}))
	single(r, "is_transform", is(func(v model.Value) bool {
		d, ok := v.(model.Directive)
		return ok && d.IsTransform()
	}))
	single(r, "is_markup_output", is(func(v model.Value) bool { _, ok := v.(model.Markup); return ok }))
}

func is(pred func(v model.Value) bool) Func {
	return func(in *Invocation, env expr.Env) (model.Value, error) {
		v, err := in.value(env)
		if err != nil {
			return nil, err
		}

		return model.Boolean(pred(v)), nil
	}
}

func isDateType(typ model.DateType) Func {
	return is(func(v model.Value) bool {
		d, ok := v.(model.Temporal)
		return ok && d.AsDate().Type == typ
	})
}

// isCollection reports whether v can be listed. Sequences are the only
// enumerable values of the model.
func isCollection(v model.Value) bool {
	_, ok := v.(model.Sequence)

	return ok
}
