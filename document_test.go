package converters_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/converters"
)

func TestDocumentWriter_Build(t *testing.T) {
	w := converters.NewDocumentWriter()

	_ = w.Object()
	_ = w.Key("name")
	_ = w.Value("Alice")
	_ = w.Key("scores")
	_ = w.Array()
	_ = w.Value(int32(1))
	_ = w.Value(float32(2.5))
	_ = w.EndArray()
	_ = w.Key("name")
	_ = w.Value(nil)
	if err := w.EndObject(); err != nil {
		t.Fatalf("EndObject() error: %v", err)
	}

	got, err := w.Result()
	if err != nil {
		t.Fatalf("Result() error: %v", err)
	}

	want := converters.Document{
		{Key: "name", Value: "Alice"},
		{Key: "scores", Value: []any{int64(1), float64(2.5)}},
		{Key: "name", Value: nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Result() mismatch (-want +got):\n%s", diff)
	}
}

func TestDocumentWriter_Incomplete(t *testing.T) {
	w := converters.NewDocumentWriter()
	_ = w.Object()

	if _, err := w.Result(); !errors.Is(err, converters.ErrWriterState) {
		t.Errorf("Result() error = %v, want ErrWriterState", err)
	}
}

func TestDocumentWriter_StateErrors(t *testing.T) {
	tests := []struct {
		name  string
		calls func(w *converters.DocumentWriter) error
	}{
		{"key at top level", func(w *converters.DocumentWriter) error { return w.Key("a") }},
		{"value without key", func(w *converters.DocumentWriter) error {
			_ = w.Object()
			return w.Value(1)
		}},
		{"key in array", func(w *converters.DocumentWriter) error {
			_ = w.Array()
			return w.Key("a")
		}},
		{"end object with pending key", func(w *converters.DocumentWriter) error {
			_ = w.Object()
			_ = w.Key("a")
			return w.EndObject()
		}},
		{"after complete", func(w *converters.DocumentWriter) error {
			_ = w.Value("done")
			return w.Object()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.calls(converters.NewDocumentWriter()); !errors.Is(err, converters.ErrWriterState) {
				t.Errorf("error = %v, want ErrWriterState", err)
			}
		})
	}
}

func TestDocument_Accessors(t *testing.T) {
	doc := converters.Document{
		{Key: "a", Value: int64(1)},
		{Key: "nested", Value: converters.Document{{Key: "b", Value: []any{converters.Document{{Key: "c", Value: true}}}}}},
		{Key: "a", Value: int64(2)},
	}

	if v, ok := doc.Get("a"); !ok || v != int64(1) {
		t.Errorf("Get(a) = %v, %v; want first member", v, ok)
	}
	if _, ok := doc.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
	if diff := cmp.Diff([]string{"a", "nested", "a"}, doc.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	want := map[string]any{
		"a": int64(2),
		"nested": map[string]any{
			"b": []any{map[string]any{"c": true}},
		},
	}
	if diff := cmp.Diff(want, doc.Map()); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}
