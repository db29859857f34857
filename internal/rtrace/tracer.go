package rtrace

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "vuecore"

var (
	mu         sync.Mutex
	tracerName = defaultTracerName
	tracer     trace.Tracer
)

// SetTracerName overrides the tracer name resolved from the global
// TracerProvider. Call before the first span is started; later calls
// are ignored once a tracer has been resolved.
func SetTracerName(name string) {
	mu.Lock()
	defer mu.Unlock()
	if tracer != nil {
		return
	}
	tracerName = name
}

func resolve() trace.Tracer {
	mu.Lock()
	defer mu.Unlock()
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return tracer
}

// StartWatcherEvaluation spans one Watcher.Evaluate() call.
func StartWatcherEvaluation(watcherID uint64) (context.Context, trace.Span) {
	return resolve().Start(context.Background(), "reactive.evaluate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("vuecore.watcher_id", strconv.FormatUint(watcherID, 10))),
	)
}

// StartInstanceLifecycle spans the beforeCreate-to-created window of
// Instance.New(). The caller ends the span once the created hook chain
// has run.
func StartInstanceLifecycle(instanceID uint64) (context.Context, trace.Span) {
	return resolve().Start(context.Background(), "instance.create",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("vuecore.instance_id", strconv.FormatUint(instanceID, 10))),
	)
}

// End finishes span, recording err as a span error/status if non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
