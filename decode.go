package yamlast

import (
	"bytes"
	"encoding"
	"fmt"
	"math"
	"reflect"

	"github.com/goccy/go-json"

	"github.com/adamvoss/yamlast/ast"
	"github.com/adamvoss/yamlast/internal/formatter"
	"github.com/adamvoss/yamlast/internal/mapper"
)

// Unmarshal parses the YAML text in data and stores its value in the value
// pointed to by v. JSON without comments is valid YAML and is accepted too.
// If the text has errors, Unmarshal returns them as a diag.List and leaves
// v untouched.
func Unmarshal(data []byte, v any, opts ...Option) error {
	doc, err := ParseYAML(string(data), opts...)
	if err != nil {
		return err
	}
	if err := doc.Err(); err != nil {
		return err
	}
	return Decode(doc, v, opts...)
}

// Decode stores the value of doc's tree in the value pointed to by v. A
// document without a root leaves v untouched.
//
// Objects decode into structs, matching property names to json tags or
// field names (exactly first, then case-insensitively), and into maps with
// string keys. Arrays decode into slices and arrays, numbers into any
// numeric kind that holds them exactly. Into an empty interface, Decode
// stores map[string]any, []any, string, float64, bool or nil. Types that
// implement json.Unmarshaler receive the value as compact JSON; types that
// implement encoding.TextUnmarshaler receive strings.
//
// Decode does not consult the diagnostics of doc; trees recovered from
// malformed text decode as far as they go.
func Decode(doc *Document, v any, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("yamlast: Decode(non-pointer %T or nil)", v)
	}
	if doc == nil || doc.Root == nil {
		return nil
	}
	ds := &decodeState{depth: o.maxDepth}
	return ds.mapValue(doc.Root, rv.Elem())
}

type decodeState struct {
	depth int
}

func (ds *decodeState) mapValue(node ast.Node, rv reflect.Value) error { //nolint:gocyclo
	ds.depth--
	if ds.depth < 0 {
		return fmt.Errorf("yamlast: reached max recursion depth")
	}
	defer func() { ds.depth++ }()

	if _, isNull := node.(*ast.Null); isNull || node == nil {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	handled, err := ds.tryCustomUnmarshal(node, rv)
	if err != nil || handled {
		return err
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(node, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("yamlast: cannot set value of type %s", rv.Type())
	}

	switch n := node.(type) {
	case nil, *ast.Null:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case *ast.String:
		return ds.mapString(n, rv)
	case *ast.Number:
		return ds.mapNumber(n, rv)
	case *ast.Boolean:
		return ds.mapBool(n, rv)
	case *ast.Array:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(n, rv)
		case reflect.Array:
			return ds.mapArray(n, rv)
		default:
			return fmt.Errorf("yamlast: cannot unmarshal array at %s into Go value of type %s", n.Range(), rv.Type())
		}
	case *ast.Object:
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(n, rv)
		case reflect.Map:
			return ds.mapMap(n, rv)
		default:
			return fmt.Errorf("yamlast: cannot unmarshal object at %s into Go value of type %s", n.Range(), rv.Type())
		}
	default:
		return fmt.Errorf("yamlast: cannot unmarshal %T", n)
	}
}

// tryCustomUnmarshal hands the node to a json.Unmarshaler or, for strings,
// an encoding.TextUnmarshaler implemented by rv's address. It reports
// whether one was used.
func (ds *decodeState) tryCustomUnmarshal(node ast.Node, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(json.Unmarshaler); ok {
		var buf bytes.Buffer
		if err := formatter.New(&buf, 0).Format(node); err != nil {
			return true, fmt.Errorf("yamlast: failed to re-encode node for custom unmarshaler: %w", err)
		}
		if err := u.UnmarshalJSON(buf.Bytes()); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		s, isString := node.(*ast.String)
		if !isString {
			return false, nil
		}
		if err := u.UnmarshalText([]byte(s.Value)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapString(s *ast.String, rv reflect.Value) error {
	if rv.Kind() != reflect.String {
		return fmt.Errorf("yamlast: cannot unmarshal string at %s into Go value of type %s", s.Range(), rv.Type())
	}
	rv.SetString(s.Value)
	return nil
}

func (ds *decodeState) mapNumber(n *ast.Number, rv reflect.Value) error {
	v := n.Value
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 || rv.OverflowInt(int64(v)) {
			return fmt.Errorf("yamlast: number %v at %s overflows Go value of type %s", v, n.Range(), rv.Type())
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v != math.Trunc(v) || v < 0 || v >= math.MaxUint64 || rv.OverflowUint(uint64(v)) {
			return fmt.Errorf("yamlast: number %v at %s overflows Go value of type %s", v, n.Range(), rv.Type())
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Float32, reflect.Float64:
		if rv.OverflowFloat(v) {
			return fmt.Errorf("yamlast: number %v at %s overflows Go value of type %s", v, n.Range(), rv.Type())
		}
		rv.SetFloat(v)
		return nil
	default:
		return fmt.Errorf("yamlast: cannot unmarshal number at %s into Go value of type %s", n.Range(), rv.Type())
	}
}

func (ds *decodeState) mapBool(b *ast.Boolean, rv reflect.Value) error {
	if rv.Kind() != reflect.Bool {
		return fmt.Errorf("yamlast: cannot unmarshal boolean at %s into Go value of type %s", b.Range(), rv.Type())
	}
	rv.SetBool(b.Value)
	return nil
}

func (ds *decodeState) mapSlice(a *ast.Array, rv reflect.Value) error {
	newSlice := reflect.MakeSlice(rv.Type(), len(a.Items), len(a.Items))
	for i, item := range a.Items {
		if err := ds.mapValue(item, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(a *ast.Array, rv reflect.Value) error {
	if rv.Len() != len(a.Items) {
		return fmt.Errorf("yamlast: cannot unmarshal array of length %d into Go array of length %d", len(a.Items), rv.Len())
	}
	for i, item := range a.Items {
		if err := ds.mapValue(item, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapMap(obj *ast.Object, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("yamlast: cannot unmarshal object into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	} else {
		rv.Clear()
	}
	elemType := mapType.Elem()
	for _, prop := range obj.Properties {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(prop.Value, newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(prop.Name()).Convert(mapType.Key()), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(obj *ast.Object, rv reflect.Value) error {
	fields := mapper.Fields(rv.Type())
	for _, prop := range obj.Properties {
		f, ok := mapper.Lookup(fields, prop.Name())
		if !ok {
			continue
		}
		fieldVal, err := fieldByIndex(rv, f.Index)
		if err != nil {
			return err
		}
		if err := ds.mapValue(prop.Value, fieldVal); err != nil {
			return err
		}
	}
	return nil
}

// fieldByIndex is reflect.Value.FieldByIndex, allocating nil embedded
// struct pointers on the way.
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				if !rv.CanSet() {
					return reflect.Value{}, fmt.Errorf("yamlast: cannot set embedded pointer to unexported struct %s", rv.Type().Elem())
				}
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, nil
}

func (ds *decodeState) mapInterface(node ast.Node, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("yamlast: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concreteVal reflect.Value
	switch node.(type) {
	case *ast.String:
		var s string
		concreteVal = reflect.ValueOf(&s).Elem()
	case *ast.Number:
		var f float64
		concreteVal = reflect.ValueOf(&f).Elem()
	case *ast.Boolean:
		var b bool
		concreteVal = reflect.ValueOf(&b).Elem()
	case *ast.Array:
		var a []any
		concreteVal = reflect.ValueOf(&a).Elem()
	case *ast.Object:
		var o map[string]any
		concreteVal = reflect.ValueOf(&o).Elem()
	case nil, *ast.Null:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	default:
		return fmt.Errorf("yamlast: cannot determine concrete type for interface{} for node %T", node)
	}
	if err := ds.mapValue(node, concreteVal); err != nil {
		return err
	}
	rv.Set(concreteVal)
	return nil
}
