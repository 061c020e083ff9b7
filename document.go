package converters

import (
	"fmt"
	"reflect"
)

// Entry is one member of a Document.
type Entry struct {
	Key   string
	Value any
}

// Document is an ordered object: members appear in the order they were written.
// Values are Documents, []any arrays, or scalars (nil, bool, string, int64,
// uint64, float64).
type Document []Entry

// Get returns the value of the first member named key.
func (d Document) Get(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the member names in order.
func (d Document) Keys() []string {
	keys := make([]string, len(d))
	for i, e := range d {
		keys[i] = e.Key
	}
	return keys
}

// Map converts the document, recursively, to plain maps and slices.
// Later members win when keys repeat.
func (d Document) Map() map[string]any {
	m := make(map[string]any, len(d))
	for _, e := range d {
		m[e.Key] = plain(e.Value)
	}
	return m
}

func plain(v any) any {
	switch x := v.(type) {
	case Document:
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// frame is an open container in a DocumentWriter.
type frame struct {
	doc   Document
	arr   []any
	isArr bool
	key   string
	ready bool // key written, value pending
}

// DocumentWriter builds an in-memory document tree.
type DocumentWriter struct {
	stack  []*frame
	result any
	done   bool
}

// NewDocumentWriter returns an empty DocumentWriter.
func NewDocumentWriter() *DocumentWriter {
	return &DocumentWriter{}
}

// Result returns the completed top-level value.
func (w *DocumentWriter) Result() (any, error) {
	if !w.done {
		return nil, fmt.Errorf("%w: document incomplete", ErrWriterState)
	}
	return w.result, nil
}

// Object opens an object.
func (w *DocumentWriter) Object() error {
	if err := w.canStart("object"); err != nil {
		return err
	}
	w.stack = append(w.stack, &frame{doc: Document{}})
	return nil
}

// EndObject closes the innermost open object.
func (w *DocumentWriter) EndObject() error {
	top := w.top()
	if top == nil || top.isArr || top.ready {
		return fmt.Errorf("%w: end object", ErrWriterState)
	}
	w.stack = w.stack[:len(w.stack)-1]
	return w.add(top.doc)
}

// Array opens an array.
func (w *DocumentWriter) Array() error {
	if err := w.canStart("array"); err != nil {
		return err
	}
	w.stack = append(w.stack, &frame{arr: []any{}, isArr: true})
	return nil
}

// EndArray closes the innermost open array.
func (w *DocumentWriter) EndArray() error {
	top := w.top()
	if top == nil || !top.isArr {
		return fmt.Errorf("%w: end array", ErrWriterState)
	}
	w.stack = w.stack[:len(w.stack)-1]
	return w.add(top.arr)
}

// Key writes the name of the next object member.
func (w *DocumentWriter) Key(name string) error {
	top := w.top()
	if top == nil || top.isArr || top.ready {
		return fmt.Errorf("%w: key %s", ErrWriterState, name)
	}
	top.key = name
	top.ready = true
	return nil
}

// Value writes a scalar.
func (w *DocumentWriter) Value(v any) error {
	if err := w.canStart("value"); err != nil {
		return err
	}
	if v != nil {
		switch v.(type) {
		case bool, string, int64, uint64, float64:
		default:
			n, ok := normalizeScalar(reflect.ValueOf(v))
			if !ok {
				return fmt.Errorf("%w: %T is not a scalar", ErrUnsupportedType, v)
			}
			v = n
		}
	}
	return w.add(v)
}

func (w *DocumentWriter) top() *frame {
	if len(w.stack) == 0 {
		return nil
	}
	return w.stack[len(w.stack)-1]
}

// canStart checks that a value may begin at the current position.
func (w *DocumentWriter) canStart(what string) error {
	top := w.top()
	switch {
	case top == nil && !w.done:
		return nil
	case top == nil:
		return fmt.Errorf("%w: %s after complete document", ErrWriterState, what)
	case top.isArr || top.ready:
		return nil
	default:
		return fmt.Errorf("%w: %s without key", ErrWriterState, what)
	}
}

// add attaches a completed value to the innermost container.
func (w *DocumentWriter) add(v any) error {
	top := w.top()
	switch {
	case top == nil:
		w.result = v
		w.done = true
	case top.isArr:
		top.arr = append(top.arr, v)
	default:
		top.doc = append(top.doc, Entry{Key: top.key, Value: v})
		top.ready = false
	}
	return nil
}
