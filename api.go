// Package converters renders arbitrary Go values into structured documents.
//
// A Processor walks a value graph and hands every value to the first registered
// ObjectMarshaller that supports it. Marshallers describe values by driving a
// Writer (open object, key, value, close object) and delegate nested values back
// to the Processor through the Converter they are given.
//
// # Bean Marshalling
//
// Values without a more specific marshaller fall through to the BeanMarshaller,
// which emits every readable property and every public field of the value:
//
//	type User struct {
//	    Name      string `json:"name"`
//	    Age       int    `json:"age"`
//	    TempToken string `marshal:"-"`
//	}
//
//	func (u *User) GetInitials() string { return u.Name[:1] }
//
//	out, _ := converters.New().Marshal(ctx, &User{Name: "Alice", Age: 30})
//	// {"initials":"A","name":"Alice","age":30}
//
// Readable properties are methods named GetXxx (or IsXxx returning bool) that take
// no arguments and return a value, optionally followed by an error. Public fields
// are the exported fields declared directly on the struct; embedded fields are
// treated as inherited and skipped. Key order follows discovery order and must not
// be relied on.
//
// Types that should not be reflected over can register an explicit schema:
//
//	converters.RegisterSchema[User](proc,
//	    converters.Prop("name", func(u User) string { return u.Name }),
//	)
//
// # Field Transforms
//
// String fields can be transformed as they are written:
//
//	marshal.mask:"email"     - Mask the value (ssn, email, phone, card, ip, uuid, iban, name)
//	marshal.redact:"***"     - Replace the value
//	marshal.hash:"sha256"    - Replace the value with its fingerprint (sha256, sha512, blake2b)
//	marshal.encrypt:"aes"    - Replace the value with its base64 ciphertext (aes, envelope)
//
// Transforms apply in the order mask, hash, encrypt, redact. Encryptors hold keys
// and must be registered on the processor with SetEncryptor.
//
// # Errors
//
// Any failure while reading a property or field, or while converting a nested value,
// surfaces as a *ConversionError naming the type being converted. A ConversionError
// from deeper in the graph is returned as is. Conversions nested deeper than the
// processor's max depth fail with ErrMaxDepth rather than exhausting the stack.
//
// # Codec Providers
//
// The following codec implementations are available as subpackages:
//
//   - json - JSON encoding (application/json)
//   - xml - XML encoding (application/xml)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
package converters

// Writer is the output sink marshallers write to.
//
// Calls must describe a well-formed document: inside an object every value is
// preceded by Key, and every Object or Array is closed by its matching End call.
type Writer interface {
	// Object opens an object.
	Object() error

	// EndObject closes the innermost open object.
	EndObject() error

	// Array opens an array.
	Array() error

	// EndArray closes the innermost open array.
	EndArray() error

	// Key writes the name of the next object member.
	Key(name string) error

	// Value writes a scalar: nil, bool, string, a signed or unsigned integer, or a float.
	Value(v any) error
}

// Converter is the capability handed to marshallers: access to the output
// Writer and a way to convert nested values with the full marshaller registry.
type Converter interface {
	// Writer returns the sink for the current conversion.
	Writer() Writer

	// ConvertAnother converts v and writes it to the Writer.
	ConvertAnother(v any) error
}

// ObjectMarshaller renders values of the types it supports.
type ObjectMarshaller interface {
	// Supports reports whether the marshaller can render v.
	Supports(v any) bool

	// MarshalObject writes v through c.
	MarshalObject(v any, c Converter) error
}

// Marshalable bypasses the marshaller registry for a type.
// When a value implements it, the Processor calls MarshalObject instead of
// reflecting over the value.
type Marshalable interface {
	MarshalObject(c Converter) error
}

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
