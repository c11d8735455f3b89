package model

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"time"
)

// Wrap converts a Go value, typically decoded from YAML or JSON or returned
// by an expression, into a Value. Values that already implement Value are
// returned unchanged. A nil input yields a nil Value, meaning "undefined".
//
// Map keys are ordered lexicographically since Go maps have no order.
func Wrap(v any) Value {
	switch x := v.(type) {
	case nil:
		return nil
	case Value:
		return x
	case string:
		return String(x)
	case time.Time:
		return Date{Time: x, Type: DateTypeUnknown}
	case time.Duration:
		return Int(x.Milliseconds())
	case func(args []Value) (Value, error):
		return MethodFunc(x)
	case fmt.Stringer:
		return String(x.String())
	case bool:
		return Boolean(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return wrapUint(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return wrapUint(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case []any:
		l := make(List, len(x))
		for i, e := range x {
			l[i] = Wrap(e)
		}

		return l
	case map[string]any:
		m := NewMap()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			m.Set(k, Wrap(x[k]))
		}

		return m
	}

	return wrapReflect(reflect.ValueOf(v))
}

func wrapUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}

	return Int(int64(u))
}

func wrapReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}

		return Wrap(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		l := make(List, rv.Len())
		for i := range rv.Len() {
			l[i] = Wrap(rv.Index(i).Interface())
		}

		return l

	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			k := fmt.Sprint(it.Key().Interface())
			keys = append(keys, k)
			byKey[k] = it.Value()
		}

		slices.Sort(keys)

		m := NewMap()
		for _, k := range keys {
			m.Set(k, Wrap(byKey[k].Interface()))
		}

		return m

	case reflect.Struct:
		m := NewMap()
		rt := rv.Type()

		for i := range rt.NumField() {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}

			m.Set(f.Name, Wrap(rv.Field(i).Interface()))
		}

		return m

	case reflect.String:
		return String(rv.String())

	case reflect.Bool:
		return Boolean(rv.Bool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return wrapUint(rv.Uint())

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	}

	return String(fmt.Sprint(rv.Interface()))
}

// Unwrap converts v back to a plain Go value suitable for expression
// environments: strings, int64/float64, bool, time.Time, []any and
// map[string]any. Methods that are also strings, dates or booleans unwrap
// to those; other values are returned as is.
func Unwrap(v Value) any {
	switch x := v.(type) {
	case nil:
		return nil
	case String:
		return string(x)
	case Boolean:
		return bool(x)
	case Number:
		if x.IsInt() {
			return x.Int64()
		}

		return x.Float64()
	case Date:
		return x.Time
	case List:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Unwrap(e)
		}

		return out
	case *Map:
		out := make(map[string]any, x.Len())
		for _, k := range x.keys {
			out[k] = Unwrap(x.values[k])
		}

		return out
	}

	// Builtin results with several capabilities unwrap to their primary
	// plain value.
	switch x := v.(type) {
	case Method:
		switch y := x.(type) {
		case Scalar:
			return y.AsString()
		case Temporal:
			return y.AsDate().Time
		case Boolish:
			return y.AsBool()
		}
	case Boolish:
		return x.AsBool()
	}

	return v
}
