package converters

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrConversion indicates a value could not be converted. Every
	// *ConversionError matches it.
	ErrConversion = errors.New("conversion failed")

	// ErrMaxDepth indicates the value graph nests deeper than the processor allows,
	// which is how a cyclic graph surfaces.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// ErrNilValue indicates a marshaller was handed a nil value it cannot render.
	ErrNilValue = errors.New("nil value")

	// ErrUnsupportedType indicates a value kind with no document representation
	// (channels, funcs, complex numbers, unsafe pointers).
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrWriterState indicates a writer call that is illegal in the writer's current state.
	ErrWriterState = errors.New("invalid writer state")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrMissingMasker indicates a required masker was not registered.
	ErrMissingMasker = errors.New("missing masker")

	// ErrMissingHasher indicates a required hasher was not registered.
	ErrMissingHasher = errors.New("missing hasher")

	// ErrMissingEncryptor indicates a required encryptor was not registered.
	ErrMissingEncryptor = errors.New("missing encryptor")

	// ErrEncrypt indicates encryption of a field failed.
	ErrEncrypt = errors.New("encrypt failed")

	// ErrHash indicates hashing of a field failed.
	ErrHash = errors.New("hash failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")
)

// ConversionError is the single failure kind produced when a value cannot be
// rendered. It names the Go type being converted and carries the original cause.
//
// A ConversionError raised deeper in a value graph is propagated unchanged by
// enclosing marshallers, so the TypeName always names the innermost failing type.
type ConversionError struct {
	TypeName string // Type being converted when the failure occurred
	Cause    error  // Original error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("error converting bean with type %s: %v", e.TypeName, e.Cause)
	}
	return fmt.Sprintf("error converting bean with type %s", e.TypeName)
}

// Unwrap exposes both ErrConversion and the cause to errors.Is and errors.As.
func (e *ConversionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Cause}
}

// ConfigError represents a configuration error on a type or processor.
// It wraps a sentinel error with additional context about the field and algorithm.
type ConfigError struct {
	Err       error  // Underlying sentinel error (ErrInvalidTag, ErrMissingMasker, ...)
	Field     string // Field name that triggered the error
	Algorithm string // Mask type or hash algorithm that was missing/invalid
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q (field %s)", e.Err.Error(), e.Algorithm, e.Field)
	}
	if e.Algorithm != "" {
		return fmt.Sprintf("%s for algorithm %q", e.Err.Error(), e.Algorithm)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransformError represents an error while transforming a field value on its way out.
type TransformError struct {
	Err       error  // Underlying sentinel error (ErrHash, ErrEncrypt)
	Field     string // Field name that failed
	Operation string // Operation that failed (hash, encrypt)
	Cause     error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Operation, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s", e.Operation, e.Field)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error raised by a codec.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// NewCodecError wraps a codec failure with ErrMarshal or ErrUnmarshal.
func NewCodecError(sentinel, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// newConversionError wraps cause for typeName unless it already is a
// ConversionError, in which case it is returned unchanged.
func newConversionError(typeName string, cause error) error {
	var ce *ConversionError
	if errors.As(cause, &ce) {
		return cause
	}
	return &ConversionError{
		TypeName: typeName,
		Cause:    cause,
	}
}

// newConfigError creates a ConfigError for invalid tags and missing handlers.
func newConfigError(sentinel error, algorithm, field string) error {
	return &ConfigError{
		Err:       sentinel,
		Algorithm: algorithm,
		Field:     field,
	}
}

// newTransformError creates a TransformError for field transformation failures.
func newTransformError(sentinel error, operation, field string, cause error) error {
	return &TransformError{
		Err:       sentinel,
		Field:     field,
		Operation: operation,
		Cause:     cause,
	}
}
