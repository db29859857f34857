// Package rmetrics exposes Prometheus instrumentation for the reactive
// core's watcher evaluations and scheduler flushes, instance lifecycle,
// template parsing, and component registry calls. Metrics are created
// lazily on first Record* call against prometheus.DefaultRegisterer
// unless Init is called first with a custom registry.
package rmetrics
