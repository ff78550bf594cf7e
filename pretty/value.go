package pretty

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/goccy/go-yaml"
)

// Value is a renderable value. It is a closed set of variants: [None],
// [Bool], [Int], [Float], [String], [Seq], [Map] and [Other].
//
// Use [Of] to convert arbitrary Go values.
type Value interface {
	value()
}

type (
	// None is the absence of a value.
	None struct{}
	// Bool is a boolean scalar.
	Bool bool
	// Int is an integer scalar.
	Int int64
	// Float is a floating point scalar, see [FormatFloat].
	Float float64
	// String is a text scalar.
	String string
	// Other is a value with no dedicated variant, kept as its default text.
	Other string
)

// Seq is an ordered sequence rendered as "[a, b]", or "(a, b)" when Tuple
// is set.
type Seq struct {
	Items []Value
	Tuple bool
}

// Entry is a single key-value pair of a [Map].
type Entry struct {
	Value Value
	Key   string
}

// Map is an ordered mapping.
type Map []Entry

// Tuple is a sequence that renders with parentheses.
type Tuple []any

func (None) value()   {}
func (Bool) value()   {}
func (Int) value()    {}
func (Float) value()  {}
func (String) value() {}
func (Other) value()  {}
func (Seq) value()    {}
func (Map) value()    {}

// Dict builds a [Map] from alternating keys and values, preserving order.
// Keys are converted with [fmt.Sprint]. A trailing key without a value maps
// to [None].
func Dict(kv ...any) Map {
	m := make(Map, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}

		m = append(m, Entry{Key: fmt.Sprint(kv[i]), Value: Of(v)})
	}

	return m
}

// Get returns the value stored under key.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}

// Set replaces the value under key, or appends a new entry.
func (m Map) Set(key string, v any) Map {
	val := Of(v)
	for i, e := range m {
		if e.Key == key {
			m[i].Value = val

			return m
		}
	}

	return append(m, Entry{Key: key, Value: val})
}

// Keys returns the keys of m in order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}

	return keys
}

// Of converts v into a [Value].
//
// Go maps are ordered by their formatted keys so that rendering is
// deterministic; [yaml.MapSlice] and [Map] keep their order; structs become
// a [Map] of their exported fields in declaration order; pointers are
// dereferenced; errors and [fmt.Stringer] values use their text.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return None{}
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case int:
		return Int(x)
	case int8:
		return Int(x)
	case int16:
		return Int(x)
	case int32:
		return Int(x)
	case int64:
		return Int(x)
	case uint8:
		return Int(x)
	case uint16:
		return Int(x)
	case uint32:
		return Int(x)
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	case Tuple:
		return Seq{Items: ofSlice(x), Tuple: true}
	case []any:
		return Seq{Items: ofSlice(x)}
	case yaml.MapSlice:
		m := make(Map, 0, len(x))
		for _, item := range x {
			m = append(m, Entry{Key: fmt.Sprint(item.Key), Value: Of(item.Value)})
		}

		return m
	case map[string]any:
		m := make(Map, 0, len(x))
		for _, k := range slices.Sorted(maps.Keys(x)) {
			m = append(m, Entry{Key: k, Value: Of(x[k])})
		}

		return m
	case error:
		return String(x.Error())
	case fmt.Stringer:
		return String(x.String())
	}

	return ofReflect(reflect.ValueOf(v))
}

func ofSlice(items []any) []Value {
	vals := make([]Value, len(items))
	for i, item := range items {
		vals[i] = Of(item)
	}

	return vals
}

func ofReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return None{}
		}

		return Of(rv.Elem().Interface())

	case reflect.Bool:
		return Bool(rv.Bool())

	case reflect.String:
		return String(rv.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > 1<<63-1 {
			return Other(fmt.Sprint(u))
		}

		return Int(int64(u))

	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Seq{}
		}

		items := make([]Value, rv.Len())
		for i := range rv.Len() {
			items[i] = Of(rv.Index(i).Interface())
		}

		return Seq{Items: items}

	case reflect.Map:
		type kv struct {
			val  reflect.Value
			text string
		}

		keys := make([]kv, 0, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			keys = append(keys, kv{text: fmt.Sprint(iter.Key().Interface()), val: iter.Value()})
		}

		slices.SortFunc(keys, func(a, b kv) int {
			switch {
			case a.text < b.text:
				return -1
			case a.text > b.text:
				return 1
			}

			return 0
		})

		m := make(Map, len(keys))
		for i, k := range keys {
			m[i] = Entry{Key: k.text, Value: Of(k.val.Interface())}
		}

		return m

	case reflect.Struct:
		rt := rv.Type()

		m := make(Map, 0, rt.NumField())
		for i := range rt.NumField() {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}

			m = append(m, Entry{Key: f.Name, Value: Of(rv.Field(i).Interface())})
		}

		return m

	case reflect.Invalid:
		return None{}
	}

	return Other(fmt.Sprint(rv.Interface()))
}
