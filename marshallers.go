package converters

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// nilMarshaller renders nil interfaces and nil pointers, maps, slices, funcs
// and channels as null.
type nilMarshaller struct{}

func (nilMarshaller) Supports(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func (nilMarshaller) MarshalObject(_ any, c Converter) error {
	return c.Writer().Value(nil)
}

// marshalableMarshaller hands values implementing Marshalable their own rendering.
type marshalableMarshaller struct{}

func (marshalableMarshaller) Supports(v any) bool {
	_, ok := v.(Marshalable)
	return ok
}

func (marshalableMarshaller) MarshalObject(v any, c Converter) error {
	if err := v.(Marshalable).MarshalObject(c); err != nil {
		return newConversionError(typeNameOfValue(v), err)
	}
	return nil
}

// textMarshaller renders encoding.TextMarshaler values as strings.
type textMarshaller struct{}

func (textMarshaller) Supports(v any) bool {
	_, ok := v.(encoding.TextMarshaler)
	return ok
}

func (textMarshaller) MarshalObject(v any, c Converter) error {
	text, err := v.(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return newConversionError(typeNameOfValue(v), err)
	}
	return c.Writer().Value(string(text))
}

// primitiveMarshaller renders booleans, strings, integers and floats.
type primitiveMarshaller struct{}

func (primitiveMarshaller) Supports(v any) bool {
	_, ok := normalizeScalar(reflect.ValueOf(v))
	return ok
}

func (primitiveMarshaller) MarshalObject(v any, c Converter) error {
	n, _ := normalizeScalar(reflect.ValueOf(v))
	if err := c.Writer().Value(n); err != nil {
		return newConversionError(typeNameOfValue(v), err)
	}
	return nil
}

// bytesMarshaller renders byte slices as standard base64 strings.
type bytesMarshaller struct{}

func (bytesMarshaller) Supports(v any) bool {
	rt := reflect.TypeOf(v)
	return rt != nil && rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8
}

func (bytesMarshaller) MarshalObject(v any, c Converter) error {
	return c.Writer().Value(base64.StdEncoding.EncodeToString(reflect.ValueOf(v).Bytes()))
}

// mapMarshaller renders maps as objects with keys in sorted order.
type mapMarshaller struct{}

func (mapMarshaller) Supports(v any) bool {
	rt := reflect.TypeOf(v)
	return rt != nil && rt.Kind() == reflect.Map
}

func (mapMarshaller) MarshalObject(v any, c Converter) error {
	typeName := typeNameOfValue(v)
	rv := reflect.ValueOf(v)

	type member struct {
		key string
		val reflect.Value
	}
	members := make([]member, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key())
		if err != nil {
			return newConversionError(typeName, err)
		}
		members = append(members, member{key: key, val: iter.Value()})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].key < members[j].key })

	w := c.Writer()
	if err := w.Object(); err != nil {
		return newConversionError(typeName, err)
	}
	for _, m := range members {
		if err := w.Key(m.key); err != nil {
			return newConversionError(typeName, err)
		}
		if err := c.ConvertAnother(m.val.Interface()); err != nil {
			return newConversionError(typeName, err)
		}
	}
	if err := w.EndObject(); err != nil {
		return newConversionError(typeName, err)
	}
	return nil
}

// mapKey renders a map key as a string.
func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return "", fmt.Errorf("map key: %w", err)
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	default:
		return "", fmt.Errorf("%w: map key type %s", ErrUnsupportedType, k.Type())
	}
}

// collectionMarshaller renders slices and arrays as arrays.
type collectionMarshaller struct{}

func (collectionMarshaller) Supports(v any) bool {
	rt := reflect.TypeOf(v)
	return rt != nil && (rt.Kind() == reflect.Slice || rt.Kind() == reflect.Array)
}

func (collectionMarshaller) MarshalObject(v any, c Converter) error {
	typeName := typeNameOfValue(v)
	rv := reflect.ValueOf(v)

	w := c.Writer()
	if err := w.Array(); err != nil {
		return newConversionError(typeName, err)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := c.ConvertAnother(rv.Index(i).Interface()); err != nil {
			return newConversionError(typeName, err)
		}
	}
	if err := w.EndArray(); err != nil {
		return newConversionError(typeName, err)
	}
	return nil
}

// pointerMarshaller renders non-nil pointers to anything but structs as the
// value they point to. Pointers to structs are beans.
type pointerMarshaller struct{}

func (pointerMarshaller) Supports(v any) bool {
	rt := reflect.TypeOf(v)
	return rt != nil && rt.Kind() == reflect.Ptr && rt.Elem().Kind() != reflect.Struct
}

func (pointerMarshaller) MarshalObject(v any, c Converter) error {
	return c.ConvertAnother(reflect.ValueOf(v).Elem().Interface())
}

// unsupportedMarshaller rejects kinds with no document representation.
type unsupportedMarshaller struct{}

func (unsupportedMarshaller) Supports(v any) bool {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return false
	}
	switch rt.Kind() {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

func (unsupportedMarshaller) MarshalObject(v any, _ Converter) error {
	return newConversionError(typeNameOfValue(v), ErrUnsupportedType)
}
