package converters

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for conversion events.
var (
	SignalProcessorCreated     = capitan.NewSignal("converters.processor.created", "Processor instantiated")
	SignalMarshallerRegistered = capitan.NewSignal("converters.marshaller.registered", "Object marshaller added to a processor")
	SignalConvertStart         = capitan.NewSignal("converters.convert.start", "Conversion beginning")
	SignalConvertComplete      = capitan.NewSignal("converters.convert.complete", "Conversion finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyMarshaller  = capitan.NewStringKey("marshaller")
	KeyPriority    = capitan.NewIntKey("priority")
	KeyCount       = capitan.NewIntKey("marshaller_count")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, marshallers int) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyCount.Field(marshallers),
	)
}

// emitMarshallerRegistered emits an event when a marshaller is registered.
func emitMarshallerRegistered(ctx context.Context, marshaller string, priority int) {
	capitan.Emit(ctx, SignalMarshallerRegistered,
		KeyMarshaller.Field(marshaller),
		KeyPriority.Field(priority),
	)
}

// emitConvertStart emits an event when a top-level conversion begins.
func emitConvertStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalConvertStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitConvertComplete emits an event when a top-level conversion finishes.
func emitConvertComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalConvertComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalConvertComplete, fields...)
	}
}
