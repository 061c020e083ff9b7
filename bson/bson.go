// Package bson provides a BSON codec implementation.
package bson

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/zoobzio/converters"
	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotObject indicates a value that does not render as an object, which BSON
// requires at the top level.
var ErrNotObject = errors.New("bson requires an object at the top level")

// bsonCodec implements converters.Codec for BSON.
type bsonCodec struct {
	proc *converters.Processor
}

// New returns a BSON codec rendering values through p.
// A nil processor uses converters.New().
func New(p *converters.Processor) converters.Codec {
	if p == nil {
		p = converters.New()
	}
	return &bsonCodec{proc: p}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as a BSON document. v must render as an object.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	out, err := c.proc.Document(context.Background(), v)
	if err != nil {
		return nil, err
	}

	doc, ok := out.(converters.Document)
	if !ok {
		return nil, converters.NewCodecError(converters.ErrMarshal, fmt.Errorf("%w: got %T", ErrNotObject, out))
	}

	d, err := toD(doc)
	if err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}
	data, err := bson.Marshal(d)
	if err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}
	return data, nil
}

// Unmarshal decodes BSON data into v.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	if err := bson.Unmarshal(data, v); err != nil {
		return converters.NewCodecError(converters.ErrUnmarshal, err)
	}
	return nil
}

// toD converts a document to an ordered bson.D.
func toD(doc converters.Document) (bson.D, error) {
	d := make(bson.D, 0, len(doc))
	for _, e := range doc {
		val, err := toValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Key, err)
		}
		d = append(d, bson.E{Key: e.Key, Value: val})
	}
	return d, nil
}

func toValue(v any) (any, error) {
	switch x := v.(type) {
	case converters.Document:
		return toD(x)
	case []any:
		a := make(bson.A, 0, len(x))
		for i, item := range x {
			val, err := toValue(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			a = append(a, val)
		}
		return a, nil
	case uint64:
		if x > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %d overflows int64", converters.ErrUnsupportedType, x)
		}
		return int64(x), nil
	default:
		return v, nil
	}
}
