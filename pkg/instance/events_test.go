package instance

import "testing"

func TestEventBusEmitWarnsOnMixedCaseShadowingLowerCase(t *testing.T) {
	var warnings []string
	bus := NewEventBus(nil, func(msg string) { warnings = append(warnings, msg) })

	var got []string
	bus.On("my-event", func(args ...any) { got = append(got, "handled") })

	bus.Emit("My-Event")

	if len(got) != 0 {
		t.Fatalf("expected the mixed-case emit not to reach the lower-cased handler, got %d calls", len(got))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one mixed-case warning, got %d", len(warnings))
	}
}

func TestEventBusEmitSameCaseDoesNotWarn(t *testing.T) {
	var warnings []string
	bus := NewEventBus(nil, func(msg string) { warnings = append(warnings, msg) })

	bus.On("tick", func(args ...any) {})
	bus.Emit("tick")

	if len(warnings) != 0 {
		t.Fatalf("expected no warning for a same-case emit, got %v", warnings)
	}
}

func TestEventBusEmitMixedCaseWithNoLowerHandlersDoesNotWarn(t *testing.T) {
	var warnings []string
	bus := NewEventBus(nil, func(msg string) { warnings = append(warnings, msg) })

	bus.Emit("My-Event")

	if len(warnings) != 0 {
		t.Fatalf("expected no warning when no lower-cased handlers are registered, got %v", warnings)
	}
}
