package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tablekit-dev/tablekit/pkg/live"
	"github.com/tablekit-dev/tablekit/pkg/protocol"
)

// defaultTracerName is used when no tracer name is configured.
const defaultTracerName = "tablekit"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "tablekit").
	TracerName string

	// Filter determines which events to trace. Return true to trace.
	// Nil traces all events.
	Filter func(ev protocol.Event) bool

	// AttributeExtractor adds custom attributes per traced event.
	AttributeExtractor func(s *live.Session, ev protocol.Event) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithEventFilter sets a filter for which events get spans.
func WithEventFilter(filter func(ev protocol.Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(s *live.Session, ev protocol.Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OTel returns an event middleware opening a span per dispatched event.
func OTel(opts ...OTelOption) live.EventMiddleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(next live.EventHandler) live.EventHandler {
		return func(s *live.Session, ev protocol.Event) error {
			if config.Filter != nil && !config.Filter(ev) {
				return next(s, ev)
			}

			_, span := config.tracer.Start(context.Background(), "tablekit.event",
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("tablekit.event.type", string(ev.Type)),
					attribute.String("tablekit.session.id", s.ID()),
				),
			)
			defer span.End()

			if ev.Key != "" {
				span.SetAttributes(attribute.String("tablekit.event.key", ev.Key))
			}
			if config.AttributeExtractor != nil {
				span.SetAttributes(config.AttributeExtractor(s, ev)...)
			}

			err := next(s, ev)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		}
	}
}
