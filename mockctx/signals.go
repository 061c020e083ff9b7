package mockctx

import (
	"context"
	"fmt"

	"github.com/zoobzio/capitan"
)

// Signals for context events.
var (
	SignalBeanRegistered = capitan.NewSignal("mockctx.bean.registered", "Bean registered with a mock context")
	SignalEventPublished = capitan.NewSignal("mockctx.event.published", "Application event published")
)

// Keys for typed event data.
var (
	KeyBeanName  = capitan.NewStringKey("bean_name")
	KeyBeanType  = capitan.NewStringKey("bean_type")
	KeyEventType = capitan.NewStringKey("event_type")
)

// PublishEvent announces event on SignalEventPublished. There are no listeners
// inside the context itself.
func (c *Context) PublishEvent(ctx context.Context, event any) {
	capitan.Emit(ctx, SignalEventPublished,
		KeyEventType.Field(fmt.Sprintf("%T", event)),
	)
}

func emitBeanRegistered(name string, v any) {
	capitan.Emit(context.Background(), SignalBeanRegistered,
		KeyBeanName.Field(name),
		KeyBeanType.Field(fmt.Sprintf("%T", v)),
	)
}
