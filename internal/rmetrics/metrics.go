package rmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config controls the namespace/registry metrics are registered under.
type Config struct {
	Namespace string
	Registry  prometheus.Registerer
}

func defaultConfig() Config {
	return Config{Namespace: "vuecore", Registry: prometheus.DefaultRegisterer}
}

type metrics struct {
	watcherEvaluations      prometheus.Counter
	watcherEvaluationTime   prometheus.Histogram
	schedulerFlushTime      prometheus.Histogram
	schedulerQueueDepth     prometheus.Histogram
	instancesCreated        prometheus.Counter
	instancesDestroyed      prometheus.Counter
	parseDuration           *prometheus.HistogramVec
	registryRequestsTotal   *prometheus.CounterVec
}

var (
	global   *metrics
	globalMu sync.Mutex
	inited   bool
)

func build(cfg Config) *metrics {
	factory := promauto.With(cfg.Registry)
	return &metrics{
		watcherEvaluations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "watcher_evaluations_total",
			Help: "Total number of watcher Evaluate() calls.",
		}),
		watcherEvaluationTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Name: "watcher_evaluation_duration_seconds",
			Help:    "Time spent in a single watcher Evaluate() call.",
			Buckets: prometheus.DefBuckets,
		}),
		schedulerFlushTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Name: "scheduler_flush_duration_seconds",
			Help:    "Time spent draining the flush queue in one Flush() call.",
			Buckets: prometheus.DefBuckets,
		}),
		schedulerQueueDepth: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Name: "scheduler_queue_depth",
			Help:    "Number of watchers drained in one Flush() call.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
		instancesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "instances_created_total",
			Help: "Total number of component instances initialized.",
		}),
		instancesDestroyed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "instances_destroyed_total",
			Help: "Total number of component instances torn down.",
		}),
		parseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Name: "parse_duration_seconds",
			Help:    "Time spent parsing a template, by parser kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		registryRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Name: "registry_requests_total",
			Help: "Total component registry requests, by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
}

// Init registers metrics against a custom config. Safe to call once
// before any Record* call; ignored if metrics are already initialized
// (by a prior Init or an earlier Record* call).
func Init(cfg Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if inited {
		return
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "vuecore"
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}
	global = build(cfg)
	inited = true
}

func ensure() *metrics {
	globalMu.Lock()
	defer globalMu.Unlock()
	if !inited {
		global = build(defaultConfig())
		inited = true
	}
	return global
}

// RecordWatcherEvaluation records one Watcher.Evaluate() call.
func RecordWatcherEvaluation(d time.Duration) {
	m := ensure()
	m.watcherEvaluations.Inc()
	m.watcherEvaluationTime.Observe(d.Seconds())
}

// RecordSchedulerFlush records one Scheduler.Flush() call: how long it
// took and how many watchers it drained.
func RecordSchedulerFlush(d time.Duration, queueDepth int) {
	m := ensure()
	m.schedulerFlushTime.Observe(d.Seconds())
	m.schedulerQueueDepth.Observe(float64(queueDepth))
}

// RecordInstanceCreated records a component instance finishing New().
func RecordInstanceCreated() { ensure().instancesCreated.Inc() }

// RecordInstanceDestroyed records a component instance finishing Destroy().
func RecordInstanceDestroyed() { ensure().instancesDestroyed.Inc() }

// RecordParse records one template parse, tagged by kind ("html" or "text").
func RecordParse(kind string, d time.Duration) {
	ensure().parseDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordRegistryRequest records one registry fetch/publish/list, tagged
// by operation ("fetch"/"publish"/"list") and outcome ("ok"/"error").
func RecordRegistryRequest(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ensure().registryRequestsTotal.WithLabelValues(operation, outcome).Inc()
}
