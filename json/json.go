// Package json provides a JSON codec implementation.
package json

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/zoobzio/converters"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonCodec implements converters.Codec for JSON.
type jsonCodec struct {
	proc *converters.Processor
}

// New returns a JSON codec rendering values through p.
// A nil processor uses converters.New().
func New(p *converters.Processor) converters.Codec {
	if p == nil {
		p = converters.New()
	}
	return &jsonCodec{proc: p}
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return c.proc.Marshal(context.Background(), v)
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	if err := api.Unmarshal(data, v); err != nil {
		return converters.NewCodecError(converters.ErrUnmarshal, err)
	}
	return nil
}
