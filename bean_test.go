package converters_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/converters"
	convtest "github.com/zoobzio/converters/testing"
)

func TestBeanMarshaller_Person(t *testing.T) {
	out, err := converters.New().Marshal(context.Background(), convtest.Person{Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `{"name":"Alice","age":30}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestBeanMarshaller_KeySetAndValues(t *testing.T) {
	doc := convtest.MustDocument(t, converters.New(), &convtest.Person{Name: "Alice", Age: 30})

	want := map[string]any{"name": "Alice", "age": int64(30)}
	if diff := cmp.Diff(want, doc.Map()); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestBeanMarshaller_WriteSequence(t *testing.T) {
	var rec convtest.Recorder
	err := converters.New().Convert(context.Background(), convtest.Person{Name: "Alice", Age: 30}, &rec)
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}

	want := []string{"{", "key:name", "value:Alice", "key:age", "value:30", "}"}
	if diff := cmp.Diff(want, rec.Events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestBeanMarshaller_PropertiesThenFields(t *testing.T) {
	account := convtest.NewAccount("1", "alice@example.com", "alice")
	doc := convtest.MustDocument(t, converters.New(), account)

	wantKeys := []string{"owner", "active", "id", "email", "password"}
	if diff := cmp.Diff(wantKeys, doc.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	info, err := converters.Describe(account)
	if err != nil {
		t.Fatalf("Describe() error: %v", err)
	}
	if len(info.Properties) != 2 || len(info.Fields) != 3 {
		t.Errorf("Describe() = %d properties, %d fields, want 2 and 3", len(info.Properties), len(info.Fields))
	}
	if len(doc) != info.Len() {
		t.Errorf("document has %d entries, want %d", len(doc), info.Len())
	}
}

func TestBeanMarshaller_ExcludedFieldOmitted(t *testing.T) {
	doc := convtest.MustDocument(t, converters.New(), convtest.NewAccount("1", "a@b.com", "alice"))

	if _, ok := doc.Get("tempToken"); ok {
		t.Error("tempToken should be omitted")
	}
	if _, ok := doc.Get("TempToken"); ok {
		t.Error("TempToken should be omitted")
	}
}

func TestBeanMarshaller_Transforms(t *testing.T) {
	doc := convtest.MustDocument(t, converters.New(), convtest.NewAccount("1", "alice@example.com", "alice"))

	if got, _ := doc.Get("email"); got != "a***@example.com" {
		t.Errorf("email = %v, want %q", got, "a***@example.com")
	}
	if got, _ := doc.Get("password"); got != "***" {
		t.Errorf("password = %v, want %q", got, "***")
	}
}

func TestBeanMarshaller_Idempotent(t *testing.T) {
	p := converters.New()
	account := convtest.NewAccount("1", "alice@example.com", "alice")

	first, err := p.Marshal(context.Background(), account)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	second, err := p.Marshal(context.Background(), account)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("Marshal() not idempotent:\n%s\n%s", first, second)
	}
}

func TestBeanMarshaller_AccessorError(t *testing.T) {
	_, err := converters.New().Marshal(context.Background(), convtest.Broken{Name: "x"})
	if err == nil {
		t.Fatal("Marshal() should fail when a getter fails")
	}

	if !errors.Is(err, converters.ErrConversion) {
		t.Errorf("error should match ErrConversion, got %v", err)
	}
	if !errors.Is(err, convtest.ErrBroken) {
		t.Errorf("error should carry the getter's cause, got %v", err)
	}

	var ce *converters.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("error should be *ConversionError, got %T", err)
	}
	if !strings.HasSuffix(ce.TypeName, ".Broken") {
		t.Errorf("TypeName = %q, want suffix .Broken", ce.TypeName)
	}
}

type panicky struct{}

func (panicky) GetBoom() string { panic("boom") }

func TestBeanMarshaller_AccessorPanic(t *testing.T) {
	_, err := converters.New().Marshal(context.Background(), panicky{})

	var ce *converters.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("error should be *ConversionError, got %v", err)
	}
	if !strings.Contains(ce.Error(), "boom") {
		t.Errorf("Error() = %q, want it to mention the panic", ce.Error())
	}
}

type outer struct {
	Label string          `json:"label"`
	Inner convtest.Broken `json:"inner"`
}

func TestBeanMarshaller_NestedErrorNotRewrapped(t *testing.T) {
	_, err := converters.New().Marshal(context.Background(), outer{Label: "o"})

	var ce *converters.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("error should be *ConversionError, got %v", err)
	}
	if !strings.HasSuffix(ce.TypeName, ".Broken") {
		t.Errorf("TypeName = %q, want the innermost type", ce.TypeName)
	}
	if errors.As(ce.Cause, new(*converters.ConversionError)) {
		t.Error("ConversionError should not wrap another ConversionError")
	}
}

func TestBeanMarshaller_Cycle(t *testing.T) {
	n := &convtest.Node{Value: "loop"}
	n.Next = n

	_, err := converters.New().SetMaxDepth(32).Marshal(context.Background(), n)
	if !errors.Is(err, converters.ErrMaxDepth) {
		t.Fatalf("Marshal() error = %v, want ErrMaxDepth", err)
	}
	if !errors.Is(err, converters.ErrConversion) {
		t.Error("depth failure should be a conversion failure")
	}
}

func TestBeanMarshaller_NestedBeans(t *testing.T) {
	list := &convtest.Node{Value: "a", Next: &convtest.Node{Value: "b"}}
	out, err := converters.New().Marshal(context.Background(), list)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	want := `{"value":"a","next":{"value":"b","next":null}}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

type base struct {
	Inherited string `json:"inherited"`
}

func (b base) GetKind() string { return "base" }

type derived struct {
	base
	Own string `json:"own"`
}

func TestBeanMarshaller_EmbeddedFieldsInherited(t *testing.T) {
	doc := convtest.MustDocument(t, converters.New(), derived{base: base{Inherited: "x"}, Own: "y"})

	want := []string{"kind", "own"}
	if diff := cmp.Diff(want, doc.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

type naming struct {
	Plain  string
	Tagged string `json:"tagged,omitempty"`
	Marked string `json:"ignored" marshal:"marked"`
	Hidden string `json:"-"`
	hidden string
}

func (naming) GetURL() string        { return "u" }
func (naming) GetFirstName() string  { return "f" }
func (naming) Getaway() string       { return "not a getter" }
func (naming) IsNotBool() string     { return "not a getter" }
func (naming) GetWithArg(int) string { return "not a getter" }
func (naming) GetTwo() (string, int) { return "not", 1 }

func TestBeanMarshaller_Naming(t *testing.T) {
	doc := convtest.MustDocument(t, converters.New(), naming{hidden: "h"})

	want := []string{"firstName", "URL", "Plain", "tagged", "marked"}
	if diff := cmp.Diff(want, doc.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

type counter struct {
	n int
}

func (c *counter) GetCount() int { return c.n }

func TestBeanMarshaller_PointerReceiverOnValue(t *testing.T) {
	doc := convtest.MustDocument(t, converters.New(), counter{n: 7})

	if got, _ := doc.Get("count"); got != int64(7) {
		t.Errorf("count = %v, want 7", got)
	}
}

func TestBeanMarshaller_NilDirect(t *testing.T) {
	m := converters.NewBeanMarshaller(nil)

	err := m.MarshalObject(nil, nil)
	if !errors.Is(err, converters.ErrNilValue) {
		t.Errorf("MarshalObject(nil) error = %v, want ErrNilValue", err)
	}

	var p *convtest.Person
	err = m.MarshalObject(p, nil)
	if !errors.Is(err, converters.ErrNilValue) {
		t.Errorf("MarshalObject((*Person)(nil)) error = %v, want ErrNilValue", err)
	}
}

func TestBeanMarshaller_Supports(t *testing.T) {
	m := converters.NewBeanMarshaller(nil)
	for _, v := range []any{nil, 1, "s", convtest.Person{}, make(chan int)} {
		if !m.Supports(v) {
			t.Errorf("Supports(%T) = false, want true", v)
		}
	}
}

type badMask struct {
	Count int `marshal.mask:"email"`
}

type unknownMask struct {
	Email string `marshal.mask:"nope"`
}

type unknownHash struct {
	Email string `marshal.hash:"md5"`
}

func TestBeanMarshaller_InvalidTags(t *testing.T) {
	tests := []struct {
		name string
		v    any
	}{
		{"mask on int", badMask{}},
		{"unknown mask", unknownMask{}},
		{"unknown hash", unknownHash{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := converters.New().Marshal(context.Background(), tt.v)
			if !errors.Is(err, converters.ErrInvalidTag) {
				t.Fatalf("Marshal() error = %v, want ErrInvalidTag", err)
			}
			var cfg *converters.ConfigError
			if !errors.As(err, &cfg) {
				t.Errorf("error should carry *ConfigError, got %T", err)
			}
		})
	}
}

type fingerprinted struct {
	Token string   `json:"token" marshal.hash:"sha256"`
	Tags  []string `json:"tags" marshal.mask:"name"`
}

func TestBeanMarshaller_HashAndSliceTransforms(t *testing.T) {
	doc := convtest.MustDocument(t, converters.New(), fingerprinted{Token: "hello", Tags: []string{"John Smith"}})

	if got, _ := doc.Get("token"); got != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Errorf("token = %v, want sha256 of hello", got)
	}
	tags, _ := doc.Get("tags")
	if diff := cmp.Diff([]any{"J*** S****"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

type failingHasher struct{}

func (failingHasher) Hash([]byte) (string, error) { return "", errors.New("hsm offline") }

func TestBeanMarshaller_HasherFailure(t *testing.T) {
	p := converters.New().SetHasher(converters.HashSHA256, failingHasher{})

	_, err := p.Marshal(context.Background(), fingerprinted{Token: "hello"})
	if !errors.Is(err, converters.ErrHash) {
		t.Fatalf("Marshal() error = %v, want ErrHash", err)
	}
	var te *converters.TransformError
	if !errors.As(err, &te) || te.Field != "token" {
		t.Errorf("error should carry *TransformError for token, got %v", err)
	}
}

func TestBeanMarshaller_CustomMasker(t *testing.T) {
	p := converters.New().SetMasker(converters.MaskEmail, converters.MaskerFunc(func(string) string {
		return "hidden"
	}))

	doc := convtest.MustDocument(t, p, convtest.NewAccount("1", "alice@example.com", "alice"))
	if got, _ := doc.Get("email"); got != "hidden" {
		t.Errorf("email = %v, want %q", got, "hidden")
	}
}

type sealedNote struct {
	Body string `json:"body" marshal.encrypt:"aes"`
}

func TestBeanMarshaller_Encrypt(t *testing.T) {
	enc, err := converters.AESEncryptor([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("AESEncryptor() error: %v", err)
	}
	p := converters.New().SetEncryptor(converters.EncryptAES, enc)

	doc := convtest.MustDocument(t, p, sealedNote{Body: "meet at noon"})
	rendered, _ := doc.Get("body")
	if rendered == "meet at noon" {
		t.Fatal("body should be encrypted")
	}

	plain, err := converters.DecryptString(enc, rendered.(string))
	if err != nil {
		t.Fatalf("DecryptString() error: %v", err)
	}
	if plain != "meet at noon" {
		t.Errorf("DecryptString() = %q, want %q", plain, "meet at noon")
	}
}

func TestBeanMarshaller_MissingEncryptor(t *testing.T) {
	_, err := converters.New().Marshal(context.Background(), sealedNote{Body: "x"})
	if !errors.Is(err, converters.ErrMissingEncryptor) {
		t.Fatalf("Marshal() error = %v, want ErrMissingEncryptor", err)
	}
	if !errors.Is(err, converters.ErrConversion) {
		t.Error("missing encryptor should surface as a conversion failure")
	}
}
