package converters

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register marshal tags with sentinel
	sentinel.Tag("marshal")
	sentinel.Tag("marshal.mask")
	sentinel.Tag("marshal.redact")
	sentinel.Tag("marshal.hash")
	sentinel.Tag("marshal.encrypt")
}

var errorType = reflect.TypeFor[error]()

// Accessor reads one member of a bean. The bean is always a non-nil pointer to
// the introspected type.
type Accessor func(bean reflect.Value) (any, error)

// Property is a named member of a bean and the accessor that reads it.
type Property struct {
	Name string
	Read Accessor

	// Field transforms, set from marshal.* tags on public fields.
	mask    MaskType
	hash    HashAlgo
	encrypt EncryptAlgo
	redact  *string
}

// BeanInfo is the ordered member list of a type.
type BeanInfo struct {
	TypeName   string
	Properties []Property // readable properties, emitted first
	Fields     []Property // public fields, emitted after properties
}

// Len returns the number of members a bean of this type renders.
func (b *BeanInfo) Len() int {
	return len(b.Properties) + len(b.Fields)
}

// Introspector yields the members of a type. rt is never a pointer type.
type Introspector interface {
	Introspect(rt reflect.Type) (*BeanInfo, error)
}

// schemaIntrospector serves explicitly registered schemas and falls back to
// reflection for every other type.
type schemaIntrospector struct {
	mu      sync.RWMutex
	schemas map[reflect.Type]*BeanInfo
}

func newSchemaIntrospector() *schemaIntrospector {
	return &schemaIntrospector{schemas: make(map[reflect.Type]*BeanInfo)}
}

func (s *schemaIntrospector) Introspect(rt reflect.Type) (*BeanInfo, error) {
	s.mu.RLock()
	info, ok := s.schemas[rt]
	s.mu.RUnlock()
	if ok {
		return info, nil
	}
	return describe(rt)
}

func (s *schemaIntrospector) register(rt reflect.Type, props []Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[rt] = &BeanInfo{
		TypeName:   typeNameOf(rt),
		Properties: props,
	}
}

// Prop builds a schema property from a typed getter.
func Prop[T, V any](name string, get func(T) V) Property {
	return PropE(name, func(t T) (V, error) { return get(t), nil })
}

// PropE builds a schema property from a typed getter that can fail.
func PropE[T, V any](name string, get func(T) (V, error)) Property {
	return Property{
		Name: name,
		Read: func(bean reflect.Value) (any, error) {
			t, ok := bean.Interface().(T)
			if !ok {
				t, ok = bean.Elem().Interface().(T)
			}
			if !ok {
				return nil, fmt.Errorf("property %s: bean %s is not a %s", name, bean.Type(), reflect.TypeFor[T]())
			}
			return get(t)
		},
	}
}

// scanType returns sentinel metadata for the public fields declared directly on
// rt. Metadata already scanned by sentinel is used when present; other types are
// scanned here. Embedded fields are inherited and not part of the type's own
// declaration.
func scanType(rt reflect.Type) sentinel.Metadata {
	if spec, ok := lookupScanned(rt); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
	}
	if rt.Kind() != reflect.Struct {
		return spec
	}

	spec.Fields = make([]sentinel.FieldMetadata, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseMarshalTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// lookupScanned returns the sentinel cache entry for rt. Sentinel keys its cache
// by bare type name, so entries from another package are ignored.
func lookupScanned(rt reflect.Type) (sentinel.Metadata, bool) {
	if rt.Kind() != reflect.Struct || rt.Name() == "" {
		return sentinel.Metadata{}, false
	}
	cached, ok := sentinel.Lookup(rt.Name())
	if !ok || cached.PackageName != rt.PkgPath() {
		return sentinel.Metadata{}, false
	}

	spec := cached
	spec.Fields = make([]sentinel.FieldMetadata, 0, len(cached.Fields))
	for _, fm := range cached.Fields {
		if len(fm.Index) == 0 || fm.Index[0] >= rt.NumField() {
			return sentinel.Metadata{}, false
		}
		if rt.Field(fm.Index[0]).Anonymous {
			continue
		}
		spec.Fields = append(spec.Fields, fm)
	}
	return spec, true
}

// parseMarshalTags extracts the tags that affect rendering. Empty tag values
// are ignored, as sentinel does.
func parseMarshalTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, key := range []string{"marshal", "json", "marshal.mask", "marshal.redact", "marshal.hash", "marshal.encrypt"} {
		if val := tag.Get(key); val != "" {
			tags[key] = val
		}
	}
	return tags
}

// buildBeanInfo builds the BeanInfo for rt by reflection.
func buildBeanInfo(rt reflect.Type) (*BeanInfo, error) {
	info := &BeanInfo{
		TypeName:   typeNameOf(rt),
		Properties: readableProperties(rt),
	}

	fields, err := publicFields(scanType(rt))
	if err != nil {
		return nil, err
	}
	info.Fields = fields
	return info, nil
}

// readableProperties finds the getters in the pointer method set of rt.
func readableProperties(rt reflect.Type) []Property {
	pt := reflect.PointerTo(rt)
	var props []Property
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		name, ok := propertyName(m)
		if !ok {
			continue
		}
		props = append(props, Property{
			Name: name,
			Read: getter(i, name),
		})
	}
	return props
}

// propertyName reports whether m is a getter and returns the property it reads.
// Getters take no arguments, return a value optionally followed by an error, and
// are named GetXxx, or IsXxx when the value is a bool.
func propertyName(m reflect.Method) (string, bool) {
	mt := m.Type
	if mt.NumIn() != 1 {
		return "", false
	}
	switch mt.NumOut() {
	case 1:
	case 2:
		if mt.Out(1) != errorType {
			return "", false
		}
	default:
		return "", false
	}

	var suffix string
	switch {
	case strings.HasPrefix(m.Name, "Get"):
		suffix = m.Name[3:]
	case strings.HasPrefix(m.Name, "Is") && mt.Out(0).Kind() == reflect.Bool:
		suffix = m.Name[2:]
	default:
		return "", false
	}

	r, _ := utf8.DecodeRuneInString(suffix)
	if suffix == "" || !unicode.IsUpper(r) {
		return "", false
	}
	return decapitalize(suffix), true
}

// decapitalize lowercases the first rune unless the name starts with an acronym:
// "FirstName" -> "firstName", "URL" -> "URL".
func decapitalize(name string) string {
	first, size := utf8.DecodeRuneInString(name)
	if second, _ := utf8.DecodeRuneInString(name[size:]); unicode.IsUpper(second) {
		return name
	}
	return string(unicode.ToLower(first)) + name[size:]
}

// getter returns an accessor invoking the method at index i of the bean's
// pointer method set. Panics inside the getter are returned as errors.
func getter(i int, name string) Accessor {
	return func(bean reflect.Value) (val any, err error) {
		defer func() {
			if r := recover(); r != nil {
				if rerr, ok := r.(error); ok {
					err = fmt.Errorf("property %s panicked: %w", name, rerr)
					return
				}
				err = fmt.Errorf("property %s panicked: %v", name, r)
			}
		}()

		out := bean.Method(i).Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, fmt.Errorf("property %s: %w", name, out[1].Interface().(error))
		}
		return out[0].Interface(), nil
	}
}

// publicFields turns scanned field metadata into field properties, dropping
// excluded fields and validating transform tags.
func publicFields(spec sentinel.Metadata) ([]Property, error) {
	fields := make([]Property, 0, len(spec.Fields))
	for _, fm := range spec.Fields {
		key, excluded := fieldKey(fm)
		if excluded {
			continue
		}

		index := fm.Index
		p := Property{
			Name: key,
			Read: func(bean reflect.Value) (any, error) {
				return bean.Elem().FieldByIndex(index).Interface(), nil
			},
		}
		if err := applyTransformTags(&p, fm); err != nil {
			return nil, err
		}
		fields = append(fields, p)
	}
	return fields, nil
}

// fieldKey returns the rendered key for a field: the marshal tag name, else the
// json tag name, else the Go name. A "-" in either tag excludes the field.
func fieldKey(fm sentinel.FieldMetadata) (string, bool) {
	for _, tag := range []string{"marshal", "json"} {
		val, ok := fm.Tags[tag]
		if !ok {
			continue
		}
		if val == "-" {
			return "", true
		}
		if name, _, _ := strings.Cut(val, ","); name != "" {
			return name, false
		}
	}
	return fm.Name, false
}

// applyTransformTags validates the marshal.* tags of a field and records them on p.
func applyTransformTags(p *Property, fm sentinel.FieldMetadata) error {
	_, masked := fm.Tags["marshal.mask"]
	_, hashed := fm.Tags["marshal.hash"]
	_, encrypted := fm.Tags["marshal.encrypt"]
	_, redacted := fm.Tags["marshal.redact"]
	if !masked && !hashed && !encrypted && !redacted {
		return nil
	}

	rt := fm.ReflectType
	isString := rt.Kind() == reflect.String
	isStringSlice := rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.String
	if !isString && !isStringSlice {
		return newConfigError(ErrInvalidTag, "", fm.Name)
	}

	if val, ok := fm.Tags["marshal.mask"]; ok {
		if !IsValidMaskType(MaskType(val)) {
			return newConfigError(ErrInvalidTag, val, fm.Name)
		}
		p.mask = MaskType(val)
	}
	if val, ok := fm.Tags["marshal.hash"]; ok {
		if !IsValidHashAlgo(HashAlgo(val)) {
			return newConfigError(ErrInvalidTag, val, fm.Name)
		}
		p.hash = HashAlgo(val)
	}
	if val, ok := fm.Tags["marshal.encrypt"]; ok {
		if !IsValidEncryptAlgo(EncryptAlgo(val)) {
			return newConfigError(ErrInvalidTag, val, fm.Name)
		}
		p.encrypt = EncryptAlgo(val)
	}
	if val, ok := fm.Tags["marshal.redact"]; ok {
		p.redact = &val
	}
	return nil
}

// typeNameOf returns the package-qualified name of rt.
func typeNameOf(rt reflect.Type) string {
	if rt.Name() != "" && rt.PkgPath() != "" {
		return rt.PkgPath() + "." + rt.Name()
	}
	return rt.String()
}
