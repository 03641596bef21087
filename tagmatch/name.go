package tagmatch

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// A Pair is a keyed segment of a name path: the key comes first, followed by
// the flattened value.
type Pair struct {
	Key   any
	Value []any
}

// Nest returns a keyed path segment. Nest("user", Nest("name", "first"))
// describes the same path as map[string]any{"user": map[string]any{"name": "first"}}
// but keeps its order without relying on map iteration.
func Nest(key any, value ...any) Pair {
	return Pair{Key: key, Value: value}
}

// Flatten turns a nested name path into a flat list of segments, depth first
// and left to right, with keys always preceding their values. Elements can be
// atoms (rendered with fmt.Sprint), slices or arrays, Pairs or maps of any
// element type. Map keys are visited in sorted order.
func Flatten(path ...any) []string {
	segments := []string{}
	for _, p := range path {
		segments = appendFlat(segments, p)
	}
	return segments
}

func appendFlat(segments []string, p any) []string {
	switch v := p.(type) {
	case nil:
		return segments
	case Pair:
		segments = appendFlat(segments, v.Key)
		for _, e := range v.Value {
			segments = appendFlat(segments, e)
		}
	case []any:
		for _, e := range v {
			segments = appendFlat(segments, e)
		}
	case []string:
		segments = append(segments, v...)
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			segments = append(segments, k)
			segments = appendFlat(segments, v[k])
		}
	case map[string]string:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			segments = append(segments, k, v[k])
		}
	default:
		return appendReflected(segments, p)
	}
	return segments
}

// appendReflected flattens slices, arrays and maps of any other element
// type, eg. []int or map[string][]string. Everything else is an atom.
func appendReflected(segments []string, p any) []string {
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			segments = appendFlat(segments, v.Index(i).Interface())
		}
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		byKey := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			byKey[k] = iter.Value().Interface()
		}
		slices.Sort(keys)
		for _, k := range keys {
			segments = append(segments, k)
			segments = appendFlat(segments, byKey[k])
		}
	default:
		segments = append(segments, fmt.Sprint(p))
	}
	return segments
}

// BuildName converts a name path into the bracketed name of a form field:
//
//	BuildName("user", "name")                  // "user[name]"
//	BuildName(Nest("user", Nest("name", "first"))) // "user[name][first]"
//	BuildName("user", Nest("name", "first"))   // "user[name][first]"
func BuildName(path ...any) string {
	return bracketed(Flatten(path...))
}

func bracketed(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(segments[0])
	for _, s := range segments[1:] {
		b.WriteString("[")
		b.WriteString(s)
		b.WriteString("]")
	}
	return b.String()
}
