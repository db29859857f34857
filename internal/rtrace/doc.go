// Package rtrace spans the reactive core's watcher evaluations and an
// instance's beforeCreate-to-created lifecycle window with OpenTelemetry.
// It resolves its tracer from the global TracerProvider, so tracing is a
// no-op until the host process configures one (otel.SetTracerProvider).
package rtrace
