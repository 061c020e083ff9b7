package msgpack

import (
	"bytes"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/converters"
	convtest "github.com/zoobzio/converters/testing"
)

func TestNew(t *testing.T) {
	if New(nil) == nil {
		t.Error("New() should return non-nil codec")
	}
}

func TestContentType(t *testing.T) {
	c := New(nil)
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New(nil)

	type Restored struct {
		Name string `msgpack:"name"`
		Age  int    `msgpack:"age"`
	}

	data, err := c.Marshal(convtest.Person{Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored Restored
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if restored.Name != "Alice" || restored.Age != 30 {
		t.Errorf("round-trip failed: got %+v", restored)
	}
}

func TestMarshalKeepsOrder(t *testing.T) {
	data, err := New(nil).Marshal(convtest.NewAccount("1", "a@b.com", "alice"))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(data))
	n, err := dec.DecodeMapLen()
	if err != nil {
		t.Fatalf("DecodeMapLen() error: %v", err)
	}

	want := []string{"owner", "active", "id", "email", "password"}
	if n != len(want) {
		t.Fatalf("map length = %d, want %d", n, len(want))
	}
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			t.Fatalf("DecodeString() error: %v", err)
		}
		if key != want[i] {
			t.Errorf("key %d = %q, want %q", i, key, want[i])
		}
		if err := dec.Skip(); err != nil {
			t.Fatalf("Skip() error: %v", err)
		}
	}
}

func TestMarshalCollections(t *testing.T) {
	data, err := New(nil).Marshal([]any{nil, true, "x", -3, uint8(4), 1.5})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored []any
	if err := msgpack.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(restored) != 6 || restored[0] != nil || restored[1] != true || restored[2] != "x" || restored[5] != 1.5 {
		t.Errorf("round-trip failed: got %#v", restored)
	}
}

func TestMarshalError(t *testing.T) {
	_, err := New(nil).Marshal(convtest.Broken{})
	if !errors.Is(err, converters.ErrConversion) {
		t.Errorf("Marshal() error = %v, want ErrConversion", err)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	var v struct{ Name string }
	err := New(nil).Unmarshal([]byte{0xc1}, &v)
	if !errors.Is(err, converters.ErrUnmarshal) {
		t.Errorf("Unmarshal(invalid) error = %v, want ErrUnmarshal", err)
	}
}
