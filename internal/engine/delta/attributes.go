package delta

import (
	"reflect"
	"sort"
)

// AttributeMap holds op attributes. A nil value removes the attribute.
type AttributeMap map[string]any

// Clone returns a shallow copy.
func (a AttributeMap) Clone() AttributeMap {
	if len(a) == 0 {
		return nil
	}
	out := make(AttributeMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same keys and values. Nil and
// empty maps are equal, and numbers compare by value.
func (a AttributeMap) Equal(b AttributeMap) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

// Keys returns the attribute names in sorted order.
func (a AttributeMap) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ComposeAttributes returns the attributes of b applied over a. Keys in b
// override keys in a. When keepNull is false, keys whose composed value is
// nil are dropped. It returns nil when nothing remains.
func ComposeAttributes(a, b AttributeMap, keepNull bool) AttributeMap {
	out := make(AttributeMap, len(a)+len(b))
	for k, v := range b {
		if v == nil && !keepNull {
			continue
		}
		out[k] = v
	}
	for k, v := range a {
		if _, ok := b[k]; !ok {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func valueEqual(a, b any) bool {
	if an, ok := number(a); ok {
		bn, ok := number(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := asMap(b)
		return ok && AttributeMap(av).Equal(bv)
	case AttributeMap:
		bv, ok := asMap(b)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func asMap(v any) (AttributeMap, bool) {
	switch m := v.(type) {
	case map[string]any:
		return AttributeMap(m), true
	case AttributeMap:
		return m, true
	}
	return nil, false
}

func number(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
