package converters

import (
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// writer modes
const (
	modeInit   = 'i' // nothing written yet
	modeObject = 'o' // inside an object, expecting a key or the end
	modeKey    = 'k' // key written, expecting a value
	modeArray  = 'a' // inside an array
	modeDone   = 'd' // top-level value complete
)

// jsonAPI is the jsoniter configuration shared by the writer and the json codec.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONWriter streams JSON to an io.Writer. It validates the order of calls and
// rejects output that would not be a single well-formed JSON value. Strings and
// keys are HTML-escaped and invalid UTF-8 is replaced by U+FFFD, as
// encoding/json does.
type JSONWriter struct {
	stream *jsoniter.Stream
	indent int
	stack  []byte // open containers, modeObject or modeArray
	mode   byte
	first  bool // innermost container is empty and its opening is not yet written
}

// NewJSONWriter returns a writer streaming compact JSON to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return newJSONWriter(w, jsonAPI, 0)
}

// NewIndentedJSONWriter returns a writer streaming JSON indented by indent spaces.
func NewIndentedJSONWriter(w io.Writer, indent int) *JSONWriter {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		IndentionStep:          indent,
	}.Froze()
	return newJSONWriter(w, api, indent)
}

func newJSONWriter(w io.Writer, api jsoniter.API, indent int) *JSONWriter {
	return &JSONWriter{
		stream: jsoniter.NewStream(api, w, 512),
		indent: indent,
		mode:   modeInit,
	}
}

// Object opens an object.
func (w *JSONWriter) Object() error {
	if err := w.beforeValue("object"); err != nil {
		return err
	}
	w.push(modeObject)
	return nil
}

// EndObject closes the innermost open object.
func (w *JSONWriter) EndObject() error {
	if w.mode != modeObject {
		return w.stateError("end object")
	}
	if w.first {
		w.stream.WriteEmptyObject()
	} else {
		w.stream.WriteObjectEnd()
	}
	w.pop()
	return nil
}

// Array opens an array.
func (w *JSONWriter) Array() error {
	if err := w.beforeValue("array"); err != nil {
		return err
	}
	w.push(modeArray)
	return nil
}

// EndArray closes the innermost open array.
func (w *JSONWriter) EndArray() error {
	if w.mode != modeArray {
		return w.stateError("end array")
	}
	if w.first {
		w.stream.WriteEmptyArray()
	} else {
		w.stream.WriteArrayEnd()
	}
	w.pop()
	return nil
}

// Key writes the name of the next object member.
func (w *JSONWriter) Key(name string) error {
	if w.mode != modeObject {
		return w.stateError("key " + name)
	}
	if w.first {
		w.stream.WriteObjectStart()
	} else {
		w.stream.WriteMore()
	}
	w.first = false
	w.stream.WriteStringWithHTMLEscaped(name)
	if w.indent > 0 {
		w.stream.WriteRaw(": ")
	} else {
		w.stream.WriteRaw(":")
	}
	w.mode = modeKey
	return nil
}

// Value writes a scalar.
func (w *JSONWriter) Value(v any) error {
	if err := w.beforeValue("value"); err != nil {
		return err
	}
	if err := writeScalar(w.stream, v); err != nil {
		return err
	}
	w.afterValue()
	return w.stream.Error
}

// Flush writes buffered output to the underlying io.Writer.
func (w *JSONWriter) Flush() error {
	return w.stream.Flush()
}

// Complete reports whether a whole top-level value has been written.
func (w *JSONWriter) Complete() bool {
	return w.mode == modeDone
}

// beforeValue checks that a value may start here and writes any separator.
func (w *JSONWriter) beforeValue(what string) error {
	switch w.mode {
	case modeInit, modeKey:
		return nil
	case modeArray:
		if w.first {
			w.stream.WriteArrayStart()
		} else {
			w.stream.WriteMore()
		}
		w.first = false
		return nil
	default:
		return w.stateError(what)
	}
}

// afterValue moves to the state following a completed value.
func (w *JSONWriter) afterValue() {
	switch {
	case len(w.stack) == 0:
		w.mode = modeDone
	case w.stack[len(w.stack)-1] == modeObject:
		w.mode = modeObject
	default:
		w.mode = modeArray
	}
}

func (w *JSONWriter) push(mode byte) {
	w.stack = append(w.stack, mode)
	w.mode = mode
	w.first = true
}

func (w *JSONWriter) pop() {
	w.stack = w.stack[:len(w.stack)-1]
	w.first = false
	w.afterValue()
}

func (w *JSONWriter) stateError(what string) error {
	return fmt.Errorf("%w: %s in mode %q", ErrWriterState, what, w.mode)
}

// writeScalar writes a scalar value to the stream.
func writeScalar(s *jsoniter.Stream, v any) error {
	switch x := v.(type) {
	case nil:
		s.WriteNil()
	case bool:
		s.WriteBool(x)
	case string:
		s.WriteStringWithHTMLEscaped(x)
	case int64:
		s.WriteInt64(x)
	case uint64:
		s.WriteUint64(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: float %v has no JSON representation", ErrUnsupportedType, x)
		}
		s.WriteFloat64(x)
	default:
		n, ok := normalizeScalar(reflect.ValueOf(v))
		if !ok {
			return fmt.Errorf("%w: %T is not a scalar", ErrUnsupportedType, v)
		}
		return writeScalar(s, n)
	}
	return nil
}

// normalizeScalar converts any bool, string, integer or float kind to its
// canonical Go type: bool, string, int64, uint64 or float64.
func normalizeScalar(rv reflect.Value) (any, bool) {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.Float32:
		return float32ToFloat64(float32(rv.Float())), true
	case reflect.Float64:
		return rv.Float(), true
	default:
		return nil, false
	}
}

// float32ToFloat64 widens f to the float64 with the same shortest decimal form,
// so float32(0.1) becomes 0.1 rather than 0.10000000149011612.
func float32ToFloat64(f float32) float64 {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return float64(f)
	}
	d, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return d
}
