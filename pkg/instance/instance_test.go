package instance

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vuecore/vuecore/pkg/options"
	"github.com/vuecore/vuecore/pkg/reactive"
)

func mustRoot(t *testing.T, raw options.Record) *options.ComponentDefinition {
	t.Helper()
	def, err := options.NewRootDefinition(raw)
	if err != nil {
		t.Fatalf("NewRootDefinition: %v", err)
	}
	return def
}

func TestInstanceInitOrderFiresHooksAndResolvesState(t *testing.T) {
	var order []string

	def := mustRoot(t, options.Record{
		"props": []string{"label"},
		"data": func() map[string]any {
			order = append(order, "data")
			return map[string]any{"count": 1}
		},
		"methods": map[string]any{
			"inc": Method(func(vm *Instance, args ...any) any {
				vm.Set("count", vm.Get("count").(int)+1)
				return nil
			}),
		},
		"beforeCreate": options.Hook(func(any) { order = append(order, "beforeCreate") }),
		"created":      options.Hook(func(any) { order = append(order, "created") }),
	})

	vm, err := New(nil, def, map[string]any{"label": "hello"}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := []string{"beforeCreate", "data", "created"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}

	if vm.Get("label") != "hello" {
		t.Fatalf("expected prop label=hello, got %v", vm.Get("label"))
	}
	if vm.Get("count") != 1 {
		t.Fatalf("expected data count=1, got %v", vm.Get("count"))
	}

	if m, ok := vm.methods["inc"]; !ok {
		t.Fatal("expected method inc to be bound")
	} else {
		m(vm)
	}
	if vm.Get("count") != 2 {
		t.Fatalf("expected count=2 after inc, got %v", vm.Get("count"))
	}
}

func TestComputedAccessorCachesAndSetterGated(t *testing.T) {
	evalCount := 0
	def := mustRoot(t, options.Record{
		"data": func() map[string]any { return map[string]any{"base": 2} },
		"computed": map[string]any{
			"doubled": ComputedGetter(func(vm *Instance) any {
				evalCount++
				return vm.Get("base").(int) * 2
			}),
		},
	})
	vm, err := New(nil, def, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := vm.GetComputed("doubled"); got != 4 {
		t.Fatalf("expected doubled=4, got %v", got)
	}
	vm.GetComputed("doubled")
	if evalCount != 1 {
		t.Fatalf("expected computed to be cached (1 eval), got %d", evalCount)
	}

	vm.SetComputed("doubled", 99) // no setter: dropped
	if got := vm.GetComputed("doubled"); got != 4 {
		t.Fatalf("expected write without setter to be dropped, got %v", got)
	}
}

func TestComputedInvalidatesWhenDependencyChanges(t *testing.T) {
	def := mustRoot(t, options.Record{
		"data": func() map[string]any { return map[string]any{"base": 2} },
		"computed": map[string]any{
			"doubled": ComputedGetter(func(vm *Instance) any {
				return vm.Get("base").(int) * 2
			}),
		},
	})
	vm, err := New(nil, def, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := vm.GetComputed("doubled"); got != 4 {
		t.Fatalf("expected 4, got %v", got)
	}
	vm.Set("base", 10)
	if got := vm.GetComputed("doubled"); got != 20 {
		t.Fatalf("expected 20 after base changed, got %v", got)
	}
}

func TestEventBusOnOnceOffEmit(t *testing.T) {
	def := mustRoot(t, options.Record{})
	vm, err := New(nil, def, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var calls []string
	vm.On("tick", func(args ...any) { calls = append(calls, "on") })
	onceCalls := 0
	onceHandler := func(args ...any) { onceCalls++ }
	vm.Once("tick", onceHandler)

	vm.Emit("tick")
	vm.Emit("tick")

	if len(calls) != 2 {
		t.Fatalf("expected 'on' handler called twice, got %d", len(calls))
	}
	if onceCalls != 1 {
		t.Fatalf("expected once handler called exactly once, got %d", onceCalls)
	}

	vm.Off("tick", nil)
	vm.Emit("tick")
	if len(calls) != 2 {
		t.Fatalf("expected handlers cleared after Off, got %d calls", len(calls))
	}
}

func TestProvideInjectResolvesThroughParentChain(t *testing.T) {
	parentDef := mustRoot(t, options.Record{
		"provide": func() map[string]any { return map[string]any{"theme": "dark"} },
	})
	parent, err := New(nil, parentDef, nil, nil, nil)
	if err != nil {
		t.Fatalf("New parent: %v", err)
	}

	childDef := mustRoot(t, options.Record{
		"inject": []string{"theme"},
	})
	child, err := New(parent, childDef, nil, nil, nil)
	if err != nil {
		t.Fatalf("New child: %v", err)
	}

	if v := child.Get("theme"); v != "dark" {
		t.Fatalf("expected injected theme=dark, got %v", v)
	}
}

func TestInjectMissingWithoutDefaultWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rootDef := mustRoot(t, options.Record{})
	root, err := New(nil, rootDef, nil, nil, logger)
	if err != nil {
		t.Fatalf("New root: %v", err)
	}

	childDef := mustRoot(t, options.Record{
		"inject": []string{"theme"},
	})
	child, err := New(root, childDef, nil, nil, logger)
	if err != nil {
		t.Fatalf("New child: %v", err)
	}

	if v := child.Get("theme"); v != nil {
		t.Fatalf("expected a missing, default-less injection to resolve nil, got %v", v)
	}
	if !strings.Contains(buf.String(), "theme") {
		t.Fatalf("expected a development warning naming the missing injection, got log: %q", buf.String())
	}
}

func TestInjectMissingWithDefaultDoesNotWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	rootDef := mustRoot(t, options.Record{})
	root, err := New(nil, rootDef, nil, nil, logger)
	if err != nil {
		t.Fatalf("New root: %v", err)
	}

	childDef := mustRoot(t, options.Record{
		"inject": map[string]any{
			"theme": map[string]any{"default": "light"},
		},
	})
	child, err := New(root, childDef, nil, nil, logger)
	if err != nil {
		t.Fatalf("New child: %v", err)
	}

	if v := child.Get("theme"); v != "light" {
		t.Fatalf("expected the declared default light, got %v", v)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no warning when a default is declared, got log: %q", buf.String())
	}
}

func TestWatchFiresOnChangeAndTeardownStops(t *testing.T) {
	def := mustRoot(t, options.Record{
		"data": func() map[string]any { return map[string]any{"count": 0} },
	})
	vm, err := New(nil, def, nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var seen []int
	teardown := vm.Watch("count", func(newVal, oldVal any) {
		seen = append(seen, newVal.(int))
	}, false, false)

	vm.Set("count", 1)
	reactive.DefaultScheduler.Flush() // watcher callbacks run on the scheduler, not inline with Set
	if len(seen) != 1 || seen[0] != 1 {
		t.Fatalf("expected watcher to see [1], got %v", seen)
	}

	teardown()
	vm.Set("count", 2)
	reactive.DefaultScheduler.Flush()
	if len(seen) != 1 {
		t.Fatalf("expected no further callbacks after teardown, got %v", seen)
	}
}

func TestPropBooleanCoercionAndDefaultReuse(t *testing.T) {
	buildCount := 0
	specs := map[string]*options.PropSpec{
		"disabled": {Type: []string{"Boolean"}},
		"items": {Type: []string{"Array"}, Default: func() any {
			buildCount++
			return []any{1, 2, 3}
		}},
	}
	prev := make(map[string]any)
	warn := func(string) {}

	resolved := resolveProps(specs, map[string]any{"disabled": ""}, prev, warn)
	if resolved["disabled"] != true {
		t.Fatalf("expected empty-string boolean prop to coerce to true, got %v", resolved["disabled"])
	}

	first := resolveProps(specs, map[string]any{}, prev, warn)
	second := resolveProps(specs, map[string]any{}, prev, warn)

	firstItems := first["items"].([]any)
	secondItems := second["items"].([]any)
	if &firstItems[0] != &secondItems[0] {
		t.Fatalf("expected the same default identity to be reused across absent re-renders")
	}
	if buildCount != 1 {
		t.Fatalf("expected default factory invoked exactly once, got %d", buildCount)
	}
}
