package rtrace

import (
	"errors"
	"testing"
)

func TestStartWatcherEvaluationReturnsSpan(t *testing.T) {
	_, span := StartWatcherEvaluation(42)
	if span == nil {
		t.Fatal("expected a non-nil span")
	}
	End(span, nil)
}

func TestStartInstanceLifecycleRecordsError(t *testing.T) {
	_, span := StartInstanceLifecycle(7)
	if span == nil {
		t.Fatal("expected a non-nil span")
	}
	End(span, errors.New("boom"))
}
