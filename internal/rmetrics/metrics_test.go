package rmetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordWatcherEvaluationRegistersAgainstCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	global, inited = nil, false
	Init(Config{Namespace: "test", Registry: reg})

	RecordWatcherEvaluation(5 * time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if !hasMetric(families, "test_watcher_evaluations_total") {
		t.Fatalf("expected test_watcher_evaluations_total in %v", names(families))
	}
}

func TestRecordParseTagsByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	global, inited = nil, false
	Init(Config{Namespace: "test2", Registry: reg})

	RecordParse("html", time.Millisecond)
	RecordParse("text", time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if !hasMetric(families, "test2_parse_duration_seconds") {
		t.Fatalf("expected test2_parse_duration_seconds in %v", names(families))
	}
}

func TestInitIsNoOpAfterFirstCall(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()
	global, inited = nil, false

	Init(Config{Namespace: "once", Registry: reg1})
	first := global
	Init(Config{Namespace: "once", Registry: reg2})

	if global != first {
		t.Fatal("expected second Init to be a no-op")
	}
}

func hasMetric(families []*dto.MetricFamily, name string) bool {
	for _, f := range families {
		if f.GetName() == name {
			return true
		}
	}
	return false
}

func names(families []*dto.MetricFamily) []string {
	out := make([]string, len(families))
	for i, f := range families {
		out[i] = f.GetName()
	}
	return out
}
