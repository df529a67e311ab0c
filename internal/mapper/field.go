// Package mapper caches the decoding targets of struct types.
package mapper

import (
	"reflect"
	"strings"
	"sync"
)

// Field is an exported struct field that can receive an object property.
type Field struct {
	Name  string
	Index []int
}

// fieldCache caches the fields of struct types.
var fieldCache sync.Map // map[reflect.Type]map[string]Field

// Fields returns the fields of the struct type t keyed by property name.
// The name is taken from the json tag, or the field name when the tag gives
// none. Lower-cased names are added for case-insensitive lookup without
// overwriting an exact name. Fields tagged "-" and unexported fields are
// skipped; embedded structs contribute their fields.
func Fields(t reflect.Type) map[string]Field {
	if f, ok := fieldCache.Load(t); ok {
		return f.(map[string]Field)
	}

	fields := make(map[string]Field)
	folded := make(map[string]Field)
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get("json")
			if tag == "-" {
				continue
			}
			name, _, _ := strings.Cut(tag, ",")
			index := append(append([]int(nil), idx...), i)

			if sf.Anonymous && name == "" {
				ft := sf.Type
				if ft.Kind() == reflect.Pointer {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					walk(ft, index)
					continue
				}
			}
			if !sf.IsExported() {
				continue
			}
			if name == "" {
				name = sf.Name
			}
			f := Field{Name: name, Index: index}
			if _, ok := fields[name]; !ok || len(idx) == 0 {
				fields[name] = f
			}
			if _, ok := folded[strings.ToLower(name)]; !ok {
				folded[strings.ToLower(name)] = f
			}
		}
	}
	walk(t, nil)

	for name, f := range folded {
		if _, ok := fields[name]; !ok {
			fields[name] = f
		}
	}

	fieldCache.Store(t, fields)
	return fields
}

// Lookup finds the field for key, trying an exact match first and a
// case-insensitive one second.
func Lookup(fields map[string]Field, key string) (Field, bool) {
	if f, ok := fields[key]; ok {
		return f, true
	}
	f, ok := fields[strings.ToLower(key)]
	return f, ok
}
