package converters

import (
	"errors"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

// Reflected bean descriptions are immutable per type, so they are shared by
// every processor.
var (
	registry   = make(map[reflect.Type]*BeanInfo)
	registryMu sync.RWMutex
)

// describe returns the cached BeanInfo for rt or builds a new one.
func describe(rt reflect.Type) (*BeanInfo, error) {
	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[rt]; ok {
		registryMu.RUnlock()
		return cached, nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[rt]; ok {
		return cached, nil
	}

	info, err := buildBeanInfo(rt)
	if err != nil {
		return nil, err
	}

	registry[rt] = info
	return info, nil
}

// Describe returns the members the reflective introspector finds on the type
// of v. Pointers are dereferenced.
func Describe(v any) (*BeanInfo, error) {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return nil, ErrNilValue
	}
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return describe(rt)
}

// Prepare scans T, and the struct types it refers to within the same module,
// with sentinel and returns T's description. Later conversions of T reuse the
// scanned field metadata. Non-struct types are described by reflection alone.
func Prepare[T any]() (*BeanInfo, error) {
	if _, err := sentinel.TryScan[T](); err != nil && !errors.Is(err, sentinel.ErrNotStruct) {
		return nil, err
	}
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return describe(rt)
}

// Reset clears the description cache.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]*BeanInfo)
}
