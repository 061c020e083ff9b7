// Package msgpack provides a MessagePack codec implementation.
package msgpack

import (
	"bytes"
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/converters"
)

// msgpackCodec implements converters.Codec for MessagePack.
type msgpackCodec struct {
	proc *converters.Processor
}

// New returns a MessagePack codec rendering values through p.
// A nil processor uses converters.New().
func New(p *converters.Processor) converters.Codec {
	if p == nil {
		p = converters.New()
	}
	return &msgpackCodec{proc: p}
}

// ContentType returns the MIME type for MessagePack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes v as MessagePack. Objects become maps whose entries keep
// their rendered order.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	doc, err := c.proc.Document(context.Background(), v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := encode(msgpack.NewEncoder(&buf), doc); err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes MessagePack data into v.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return converters.NewCodecError(converters.ErrUnmarshal, err)
	}
	return nil
}

func encode(enc *msgpack.Encoder, v any) error {
	switch x := v.(type) {
	case converters.Document:
		if err := enc.EncodeMapLen(len(x)); err != nil {
			return err
		}
		for _, e := range x {
			if err := enc.EncodeString(e.Key); err != nil {
				return err
			}
			if err := encode(enc, e.Value); err != nil {
				return fmt.Errorf("%s: %w", e.Key, err)
			}
		}
		return nil
	case []any:
		if err := enc.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for i, item := range x {
			if err := encode(enc, item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	case nil:
		return enc.EncodeNil()
	case bool:
		return enc.EncodeBool(x)
	case string:
		return enc.EncodeString(x)
	case int64:
		return enc.EncodeInt(x)
	case uint64:
		return enc.EncodeUint(x)
	case float64:
		return enc.EncodeFloat64(x)
	default:
		return fmt.Errorf("%w: %T", converters.ErrUnsupportedType, v)
	}
}
