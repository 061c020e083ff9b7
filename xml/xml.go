// Package xml provides an XML codec implementation.
//
// Objects render as one child element per member, named by the member's key.
// Arrays render as repeated item elements. The whole value is wrapped in a root
// element, "object" unless configured otherwise.
package xml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/zoobzio/converters"
)

const (
	// DefaultRoot is the root element name used when none is configured.
	DefaultRoot = "object"

	itemElement = "item"
)

// ErrInvalidName indicates a key that is not a valid XML element name.
var ErrInvalidName = errors.New("invalid element name")

// Option configures the XML codec.
type Option func(*xmlCodec)

// WithRoot sets the name of the root element.
func WithRoot(name string) Option {
	return func(c *xmlCodec) {
		c.root = name
	}
}

// xmlCodec implements converters.Codec for XML.
type xmlCodec struct {
	proc *converters.Processor
	root string
}

// New returns an XML codec rendering values through p.
// A nil processor uses converters.New().
func New(p *converters.Processor, opts ...Option) converters.Codec {
	if p == nil {
		p = converters.New()
	}
	c := &xmlCodec{proc: p, root: DefaultRoot}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for XML.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes v as XML.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	doc, err := c.proc.Document(context.Background(), v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := element(enc, c.root, doc); err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}
	if err := enc.Flush(); err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes XML data into v.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	if err := xml.Unmarshal(data, v); err != nil {
		return converters.NewCodecError(converters.ErrUnmarshal, err)
	}
	return nil
}

// element writes v wrapped in an element called name.
func element(enc *xml.Encoder, name string, v any) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	switch x := v.(type) {
	case converters.Document:
		for _, e := range x {
			if err := element(enc, e.Key, e.Value); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range x {
			if err := element(enc, itemElement, item); err != nil {
				return err
			}
		}
	case nil:
	default:
		text, err := scalarText(x)
		if err != nil {
			return err
		}
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

func scalarText(v any) (string, error) {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x), nil
	case string:
		return x, nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T", converters.ErrUnsupportedType, v)
	}
}

// validName reports whether s can be used as an element name without a namespace.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
