package messaging

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// HeaderCorrelationID carries the request correlation id across the broker.
const HeaderCorrelationID = "cID"

// InjectTrace writes the span context of ctx into headers, allocating the
// map when nil.
func InjectTrace(ctx context.Context, headers map[string]string) map[string]string {
	if headers == nil {
		headers = map[string]string{}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
	return headers
}

// ExtractTrace continues the publisher's trace, when msg carries one.
func ExtractTrace(ctx context.Context, msg Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, messageCarrier{msg})
}

// messageCarrier is a read-only carrier. Keys lists the W3C fields only,
// since Message exposes no header iteration.
type messageCarrier struct{ msg Message }

func (c messageCarrier) Get(key string) string { return c.msg.Header(key) }
func (c messageCarrier) Set(string, string)    {}
func (c messageCarrier) Keys() []string { return []string{"traceparent", "tracestate", "baggage"} }
