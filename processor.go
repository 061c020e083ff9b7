package converters

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// DefaultMaxDepth is the nesting limit of a new Processor.
const DefaultMaxDepth = 512

// Priorities of the built-in marshallers. Marshallers registered with a higher
// priority are consulted first; the bean marshaller is the final fallback.
const (
	PriorityDefault     = 0
	priorityNil         = -10
	priorityMarshalable = -20
	priorityText        = -30
	priorityPrimitive   = -40
	priorityBytes       = -50
	priorityMap         = -60
	priorityCollection  = -70
	priorityPointer     = -80
	priorityUnsupported = -90
	priorityBean        = -100
)

// Processor converts values by dispatching each one to the first registered
// ObjectMarshaller that supports it.
//
// Processors are safe for concurrent use. Configuration methods may be called
// at any time; a conversion already in progress keeps the marshallers it started
// with.
type Processor struct {
	mu          sync.RWMutex
	marshallers []registration
	seq         int
	maxDepth    int
	indent      int

	bean    *BeanMarshaller
	schemas *schemaIntrospector
}

// registration is a marshaller and its place in the dispatch order.
type registration struct {
	marshaller ObjectMarshaller
	priority   int
	seq        int
}

// New creates a Processor with the built-in marshallers, builtin maskers and
// hashers, and DefaultMaxDepth.
func New() *Processor {
	schemas := newSchemaIntrospector()
	p := &Processor{
		maxDepth: DefaultMaxDepth,
		schemas:  schemas,
		bean:     NewBeanMarshaller(schemas),
	}

	p.register(nilMarshaller{}, priorityNil)
	p.register(marshalableMarshaller{}, priorityMarshalable)
	p.register(textMarshaller{}, priorityText)
	p.register(primitiveMarshaller{}, priorityPrimitive)
	p.register(bytesMarshaller{}, priorityBytes)
	p.register(mapMarshaller{}, priorityMap)
	p.register(collectionMarshaller{}, priorityCollection)
	p.register(pointerMarshaller{}, priorityPointer)
	p.register(unsupportedMarshaller{}, priorityUnsupported)
	p.register(p.bean, priorityBean)

	emitProcessorCreated(context.Background(), len(p.marshallers))
	return p
}

// RegisterMarshaller adds m to the dispatch order at the given priority.
// Among marshallers of equal priority the most recently registered wins.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) RegisterMarshaller(m ObjectMarshaller, priority int) *Processor {
	p.mu.Lock()
	p.register(m, priority)
	p.mu.Unlock()

	emitMarshallerRegistered(context.Background(), fmt.Sprintf("%T", m), priority)
	return p
}

// register inserts m keeping marshallers sorted by priority, then recency.
func (p *Processor) register(m ObjectMarshaller, priority int) {
	p.seq++
	p.marshallers = append(p.marshallers, registration{marshaller: m, priority: priority, seq: p.seq})
	sort.SliceStable(p.marshallers, func(i, j int) bool {
		a, b := p.marshallers[i], p.marshallers[j]
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		return a.seq > b.seq
	})
}

// SetMaxDepth limits how deeply values may nest. Zero disables the limit, in
// which case a cyclic value graph recurses until the stack is exhausted.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetMaxDepth(depth int) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxDepth = depth
	return p
}

// SetIndent makes Marshal indent JSON output by n spaces. Zero means compact.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetIndent(n int) *Processor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.indent = n
	return p
}

// SetMasker registers a masker for the given type.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetMasker(mt MaskType, m Masker) *Processor {
	p.bean.SetMasker(mt, m)
	return p
}

// SetHasher registers a hasher for the given algorithm.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetHasher(algo HashAlgo, h Hasher) *Processor {
	p.bean.SetHasher(algo, h)
	return p
}

// SetEncryptor registers an encryptor for the given algorithm.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor) SetEncryptor(algo EncryptAlgo, e Encryptor) *Processor {
	p.bean.SetEncryptor(algo, e)
	return p
}

// RegisterSchema replaces reflective discovery of T's readable properties with
// an explicit, ordered list. Beans of type T or *T render exactly props.
func RegisterSchema[T any](p *Processor, props ...Property) *Processor {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	p.schemas.register(rt, props)
	return p
}

// Convert converts v and writes it to w.
func (p *Processor) Convert(ctx context.Context, v any, w Writer) error {
	return p.convert(ctx, v, w, "")
}

// Marshal converts v to JSON.
func (p *Processor) Marshal(ctx context.Context, v any) ([]byte, error) {
	p.mu.RLock()
	indent := p.indent
	p.mu.RUnlock()

	var buf bytes.Buffer
	jw := NewJSONWriter(&buf)
	if indent > 0 {
		jw = NewIndentedJSONWriter(&buf, indent)
	}

	start := time.Now()
	typeName := typeNameOfValue(v)
	emitConvertStart(ctx, "application/json", typeName)

	err := p.newConversion(ctx, jw).ConvertAnother(v)
	if err == nil {
		err = jw.Flush()
	}
	emitConvertComplete(ctx, "application/json", typeName, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Document converts v to an in-memory document tree: a Document for objects,
// []any for arrays, or a scalar.
func (p *Processor) Document(ctx context.Context, v any) (any, error) {
	dw := NewDocumentWriter()
	if err := p.convert(ctx, v, dw, "application/x-document"); err != nil {
		return nil, err
	}
	return dw.Result()
}

func (p *Processor) convert(ctx context.Context, v any, w Writer, contentType string) error {
	start := time.Now()
	typeName := typeNameOfValue(v)
	emitConvertStart(ctx, contentType, typeName)

	err := p.newConversion(ctx, w).ConvertAnother(v)
	emitConvertComplete(ctx, contentType, typeName, 0, time.Since(start), err)
	return err
}

// newConversion snapshots the processor configuration for one traversal.
func (p *Processor) newConversion(ctx context.Context, w Writer) *conversion {
	p.mu.RLock()
	defer p.mu.RUnlock()

	marshallers := make([]ObjectMarshaller, len(p.marshallers))
	for i, r := range p.marshallers {
		marshallers[i] = r.marshaller
	}
	return &conversion{
		ctx:         ctx,
		writer:      w,
		marshallers: marshallers,
		maxDepth:    p.maxDepth,
	}
}

// conversion is the per-call state of one traversal. It implements Converter.
type conversion struct {
	ctx         context.Context
	writer      Writer
	marshallers []ObjectMarshaller
	maxDepth    int
	depth       int
}

func (c *conversion) Writer() Writer {
	return c.writer
}

// Context returns the context the conversion was started with.
func (c *conversion) Context() context.Context {
	return c.ctx
}

func (c *conversion) ConvertAnother(v any) error {
	if c.maxDepth > 0 && c.depth >= c.maxDepth {
		return newConversionError(typeNameOfValue(v), ErrMaxDepth)
	}

	c.depth++
	defer func() { c.depth-- }()

	for _, m := range c.marshallers {
		if m.Supports(v) {
			return m.MarshalObject(v, c)
		}
	}
	return newConversionError(typeNameOfValue(v), ErrUnsupportedType)
}

// typeNameOfValue returns the package-qualified type name of v, or "nil".
func typeNameOfValue(v any) string {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return "nil"
	}
	return typeNameOf(rt)
}
