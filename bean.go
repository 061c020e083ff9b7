package converters

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"sync"
)

// BeanMarshaller renders any value as an object of its readable properties
// followed by its public fields. It supports every value and is registered as
// the lowest-priority marshaller of a Processor.
type BeanMarshaller struct {
	introspector Introspector

	mu         sync.RWMutex
	maskers    map[MaskType]Masker
	hashers    map[HashAlgo]Hasher
	encryptors map[EncryptAlgo]Encryptor
}

// NewBeanMarshaller creates a BeanMarshaller with builtin maskers and hashers.
// Encryptors need keys and must be registered with SetEncryptor.
// A nil introspector uses reflection for every type.
func NewBeanMarshaller(introspector Introspector) *BeanMarshaller {
	if introspector == nil {
		introspector = newSchemaIntrospector()
	}
	return &BeanMarshaller{
		introspector: introspector,
		maskers:      builtinMaskers(),
		hashers:      builtinHashers(),
		encryptors:   make(map[EncryptAlgo]Encryptor),
	}
}

// SetMasker registers a masker for the given type.
// Returns the marshaller for chaining. Safe for concurrent use.
func (m *BeanMarshaller) SetMasker(mt MaskType, masker Masker) *BeanMarshaller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maskers[mt] = masker
	return m
}

// SetHasher registers a hasher for the given algorithm.
// Returns the marshaller for chaining. Safe for concurrent use.
func (m *BeanMarshaller) SetHasher(algo HashAlgo, h Hasher) *BeanMarshaller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashers[algo] = h
	return m
}

// SetEncryptor registers an encryptor for the given algorithm.
// Returns the marshaller for chaining. Safe for concurrent use.
func (m *BeanMarshaller) SetEncryptor(algo EncryptAlgo, e Encryptor) *BeanMarshaller {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encryptors[algo] = e
	return m
}

// Supports returns true: any value can be rendered as a bean.
func (m *BeanMarshaller) Supports(any) bool {
	return true
}

// MarshalObject writes v as an object. Each readable property and then each
// public field is written as a key followed by its value, converted through c.
//
// Failures are returned as a *ConversionError naming v's type, unless the
// failure already is one.
func (m *BeanMarshaller) MarshalObject(v any, c Converter) error {
	bean, err := beanPointer(v)
	if err != nil {
		return newConversionError(typeNameOfValue(v), err)
	}

	info, err := m.introspector.Introspect(bean.Type().Elem())
	if err != nil {
		return newConversionError(typeNameOf(bean.Type().Elem()), err)
	}

	if err := m.marshal(bean, info, c); err != nil {
		return newConversionError(info.TypeName, err)
	}
	return nil
}

func (m *BeanMarshaller) marshal(bean reflect.Value, info *BeanInfo, c Converter) error {
	w := c.Writer()
	if err := w.Object(); err != nil {
		return err
	}

	for _, p := range info.Properties {
		val, err := p.Read(bean)
		if err != nil {
			return err
		}
		if err := m.member(p, val, c); err != nil {
			return err
		}
	}

	for _, f := range info.Fields {
		val, err := f.Read(bean)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
		if val, err = m.transform(f, val); err != nil {
			return err
		}
		if err := m.member(f, val, c); err != nil {
			return err
		}
	}

	return w.EndObject()
}

// member writes one key and its converted value.
func (m *BeanMarshaller) member(p Property, val any, c Converter) error {
	if err := c.Writer().Key(p.Name); err != nil {
		return err
	}
	return c.ConvertAnother(val)
}

// transform applies the mask, hash, encrypt and redact tags of a field, in that
// order. Encrypted values are rendered as standard base64.
func (m *BeanMarshaller) transform(p Property, val any) (any, error) {
	if p.mask == "" && p.hash == "" && p.encrypt == "" && p.redact == nil {
		return val, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	apply := func(s string) (string, error) {
		if p.mask != "" {
			masker, ok := m.maskers[p.mask]
			if !ok {
				return "", newConfigError(ErrMissingMasker, string(p.mask), p.Name)
			}
			s = masker.Mask(s)
		}
		if p.hash != "" {
			hasher, ok := m.hashers[p.hash]
			if !ok {
				return "", newConfigError(ErrMissingHasher, string(p.hash), p.Name)
			}
			hashed, err := hasher.Hash([]byte(s))
			if err != nil {
				return "", newTransformError(ErrHash, "hash", p.Name, err)
			}
			s = hashed
		}
		if p.encrypt != "" {
			enc, ok := m.encryptors[p.encrypt]
			if !ok {
				return "", newConfigError(ErrMissingEncryptor, string(p.encrypt), p.Name)
			}
			sealed, err := enc.Encrypt([]byte(s))
			if err != nil {
				return "", newTransformError(ErrEncrypt, "encrypt", p.Name, err)
			}
			s = base64.StdEncoding.EncodeToString(sealed)
		}
		if p.redact != nil {
			s = *p.redact
		}
		return s, nil
	}

	rv := reflect.ValueOf(val)
	switch {
	case rv.Kind() == reflect.String:
		return apply(rv.String())
	case rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.String && !rv.IsNil():
		out := make([]string, rv.Len())
		for i := range out {
			s, err := apply(rv.Index(i).String())
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", p.Name, i, err)
			}
			out[i] = s
		}
		return out, nil
	default:
		return val, nil
	}
}

// beanPointer returns a non-nil pointer to the bean v describes, dereferencing
// pointer chains. Non-pointer values are copied so pointer-receiver getters
// can be called.
func beanPointer(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return reflect.Value{}, ErrNilValue
	}
	if rv.Kind() != reflect.Ptr {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr, nil
	}
	for rv.Elem().Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, ErrNilValue
		}
		rv = rv.Elem()
	}
	if rv.IsNil() {
		return reflect.Value{}, ErrNilValue
	}
	return rv, nil
}
