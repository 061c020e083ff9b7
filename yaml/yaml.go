// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/zoobzio/converters"
	"gopkg.in/yaml.v3"
)

// yamlCodec implements converters.Codec for YAML.
type yamlCodec struct {
	proc *converters.Processor
}

// New returns a YAML codec rendering values through p.
// A nil processor uses converters.New().
func New(p *converters.Processor) converters.Codec {
	if p == nil {
		p = converters.New()
	}
	return &yamlCodec{proc: p}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML. Object members keep their rendered order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	doc, err := c.proc.Document(context.Background(), v)
	if err != nil {
		return nil, err
	}

	node, err := toNode(doc)
	if err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}
	if err := enc.Close(); err != nil {
		return nil, converters.NewCodecError(converters.ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	if err := yaml.Unmarshal(data, v); err != nil {
		return converters.NewCodecError(converters.ErrUnmarshal, err)
	}
	return nil
}

// toNode converts a document value to a YAML node.
func toNode(v any) (*yaml.Node, error) {
	switch x := v.(type) {
	case converters.Document:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range x {
			val, err := toNode(e.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Key, err)
			}
			n.Content = append(n.Content, scalar("!!str", e.Key), val)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range x {
			val, err := toNode(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			n.Content = append(n.Content, val)
		}
		return n, nil
	case nil:
		return scalar("!!null", "null"), nil
	case bool:
		return scalar("!!bool", strconv.FormatBool(x)), nil
	case string:
		return scalar("!!str", x), nil
	case int64:
		return scalar("!!int", strconv.FormatInt(x, 10)), nil
	case uint64:
		return scalar("!!int", strconv.FormatUint(x, 10)), nil
	case float64:
		return scalar("!!float", formatFloat(x)), nil
	default:
		return nil, fmt.Errorf("%w: %T", converters.ErrUnsupportedType, v)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
