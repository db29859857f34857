package instance

import (
	"log/slog"
	"strings"

	"github.com/vuecore/vuecore/internal/rmetrics"
	"github.com/vuecore/vuecore/internal/rtrace"
	"github.com/vuecore/vuecore/pkg/options"
	"github.com/vuecore/vuecore/pkg/reactive"
)

// New builds an Instance from def's sealed options, following the
// ordered initialization sequence of spec.md section 4.5. propsData is
// the raw prop values the owner passed in (nil for a root instance);
// parentListeners are event handlers the owner attached via v-on before
// the instance existed.
func New(parent *Instance, def *options.ComponentDefinition, propsData map[string]any, parentListeners map[string]Handler, logger *slog.Logger) (*Instance, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Step 1: assign unique id.
	vm := &Instance{id: nextID(), Def: def, logger: logger}

	// Step 2: merge options. propsData/el only ever flow through the
	// "el"/"propsData" strategy when an instance exists, which is why
	// this merge happens here rather than at Extend/seal time. "data" and
	// "provide" are held back from it, because an instance-time merge
	// invokes their factories; the sealed factories are carried over as
	// they are and invoked at steps 8 and 9.
	sealed, err := def.ResolveOptions()
	if err != nil {
		return nil, err
	}
	base := make(options.Record, len(sealed))
	for k, v := range sealed {
		if k != "data" && k != "provide" {
			base[k] = v
		}
	}
	merged, err := options.MergeOptions(base, options.Record{"propsData": propsData}, true)
	if err != nil {
		return nil, err
	}
	for _, k := range []string{"data", "provide"} {
		if v, ok := sealed[k]; ok {
			merged[k] = v
		}
	}
	vm.opts = merged

	// Step 3: lifecycle bookkeeping.
	vm.parent = parent
	if parent != nil {
		vm.root = parent.root
		parent.addChild(vm)
	} else {
		vm.root = vm
	}

	// Step 4: initialize events from $options._parentListeners.
	vm.events = NewEventBus(vm.HandleError, vm.warn)
	for name, h := range parentListeners {
		vm.events.On(name, h)
	}

	// Step 5 (render helpers) is out of scope.

	// Step 6.
	_, lifecycleSpan := rtrace.StartInstanceLifecycle(vm.id)
	vm.runHooks("beforeCreate")

	// Step 7: resolve inject.
	vm.initInject(injectSpecsOf(vm.opts))

	// Step 8: props, methods, data, computed, watch.
	propSpecs := propSpecsOf(vm.opts)
	vm.prevPropDefault = make(map[string]any)
	resolvedProps := resolveProps(propSpecs, propsData, vm.prevPropDefault, vm.warn)
	vm.props = reactive.NewReactiveObject(nil)
	for key, val := range resolvedProps {
		propKey := key
		vm.props.DefineReactive(key, val, func() {
			vm.warn("avoid mutating a prop directly; the owning component should pass a new value instead (\"" + propKey + "\")")
		}, false)
	}

	vm.methods = make(map[string]Method)
	if raw, ok := vm.opts["methods"].(map[string]any); ok {
		for name, v := range raw {
			if isReservedMemberName(name) {
				vm.warn("method \"" + name + "\" conflicts with an instance reserved prefix")
				continue
			}
			if _, collides := propSpecs[name]; collides {
				vm.warn("method \"" + name + "\" has already been defined as a prop")
				continue
			}
			switch fn := v.(type) {
			case Method:
				vm.methods[name] = fn
			case func(vm *Instance, args ...any) any:
				vm.methods[name] = fn
			}
		}
	}

	var dataMap map[string]any
	reactive.WithTrackingDisabled(func() {
		switch fn := vm.opts["data"].(type) {
		case func() map[string]any:
			dataMap = fn()
		case map[string]any:
			dataMap = fn
		}
	})
	vm.data = reactive.NewReactiveObject(nil)
	for key, val := range dataMap {
		if isReservedMemberName(key) {
			vm.warn("data property \"" + key + "\" should not start with \"_\" or \"$\"")
			continue
		}
		if _, collides := propSpecs[key]; collides {
			vm.warn("data property \"" + key + "\" is already declared as a prop")
			continue
		}
		vm.data.DefineReactive(key, val, nil, false)
	}

	if rawComputed, ok := vm.opts["computed"].(map[string]any); ok {
		vm.initComputed(rawComputed)
	} else {
		vm.initComputed(nil)
	}

	if rawWatch, ok := vm.opts["watch"].(map[string][]options.WatchEntry); ok {
		for key, entries := range rawWatch {
			for _, e := range entries {
				handler := e.Handler
				vm.Watch(key, reactiveCallback(handler), e.Deep, e.Immediate)
			}
		}
	}

	// Step 9.
	vm.initProvide()

	// Step 10.
	vm.runHooks("created")
	rtrace.End(lifecycleSpan, nil)

	rmetrics.RecordInstanceCreated()
	return vm, nil
}

func reactiveCallback(h func(newVal, oldVal any)) func(newVal, oldVal any) {
	if h == nil {
		return func(any, any) {}
	}
	return h
}

func isReservedMemberName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, "$")
}

func injectSpecsOf(opts options.Record) map[string]*options.InjectSpec {
	raw, ok := opts["inject"].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]*options.InjectSpec, len(raw))
	for k, v := range raw {
		if spec, ok := v.(*options.InjectSpec); ok {
			out[k] = spec
		}
	}
	return out
}

func propSpecsOf(opts options.Record) map[string]*options.PropSpec {
	raw, ok := opts["props"].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]*options.PropSpec, len(raw))
	for k, v := range raw {
		if spec, ok := v.(*options.PropSpec); ok {
			out[k] = spec
		}
	}
	return out
}

// runHooks invokes every hook registered under name, in merge order
// (parent hooks before child hooks, per the options merge strategy).
func (vm *Instance) runHooks(name string) {
	raw, ok := vm.opts[name].([]options.Hook)
	if !ok {
		return
	}
	for _, h := range raw {
		vm.callHookSafely(h)
	}
}

func (vm *Instance) callHookSafely(h options.Hook) {
	defer func() {
		if r := recover(); r != nil {
			vm.HandleError(toError(r), "lifecycle hook")
		}
	}()
	h(vm)
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &handlerPanic{r}
}

// HandleError implements reactive.ErrorSink: errors from user watchers,
// computed getters, and lifecycle hooks are routed through the
// errorCaptured hook chain and bubbled to the parent, finally logged at
// the root if nothing handles them.
func (vm *Instance) HandleError(err error, info string) {
	if raw, ok := vm.opts["errorCaptured"].([]options.Hook); ok {
		for _, h := range raw {
			func() {
				defer func() { recover() }()
				h(err)
			}()
		}
	}
	if vm.parent != nil {
		vm.parent.HandleError(err, info)
		return
	}
	vm.logger.Error("unhandled error", "err", err, "info", info, "instance", vm.id)
}

// On registers an event handler ($on).
func (vm *Instance) On(name string, h Handler) { vm.events.On(name, h) }

// Once registers a self-removing event handler ($once).
func (vm *Instance) Once(name string, h Handler) { vm.events.Once(name, h) }

// Off removes event handlers ($off).
func (vm *Instance) Off(name string, h Handler) {
	if name == "" {
		vm.events.OffAll()
		return
	}
	vm.events.Off(name, h)
}

// Emit fires an event ($emit).
func (vm *Instance) Emit(name string, args ...any) { vm.events.Emit(name, args...) }

// Destroy tears down every watcher the instance owns (computed and
// user) and detaches it from its parent's child list. Idempotent.
func (vm *Instance) Destroy() {
	if vm.destroyed {
		return
	}
	vm.destroyed = true

	vm.runHooks("beforeDestroy")

	for _, w := range vm.computedWatchers {
		w.Teardown()
	}
	vm.watchersMu.Lock()
	watchers := vm.watchers
	vm.watchers = nil
	vm.watchersMu.Unlock()
	for _, w := range watchers {
		w.Teardown()
	}

	if vm.parent != nil {
		vm.parent.removeChild(vm)
	}

	vm.runHooks("destroyed")
	rmetrics.RecordInstanceDestroyed()
}

func (vm *Instance) removeChild(child *Instance) {
	vm.childrenMu.Lock()
	defer vm.childrenMu.Unlock()
	for i, c := range vm.children {
		if c == child {
			vm.children = append(vm.children[:i], vm.children[i+1:]...)
			return
		}
	}
}
