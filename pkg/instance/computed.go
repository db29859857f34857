package instance

import "github.com/vuecore/vuecore/pkg/reactive"

// initComputed creates one lazy Watcher per computed entry (spec.md
// section 4.5 step 8 "computed"). Accepted raw shapes: a bare
// ComputedGetter/func(*Instance) any, or a ComputedSpec with a setter.
func (vm *Instance) initComputed(raw map[string]any) {
	vm.computedWatchers = make(map[string]*reactive.Watcher, len(raw))
	vm.computedSpecs = make(map[string]ComputedSpec, len(raw))

	for name, v := range raw {
		spec := toComputedSpec(v)
		vm.computedSpecs[name] = spec
		if spec.Get == nil {
			continue
		}
		w := reactive.NewWatcher(func() any { return spec.Get(vm) }, nil, reactive.Lazy(), reactive.User(vm))
		vm.computedWatchers[name] = w
	}
}

func toComputedSpec(v any) ComputedSpec {
	switch fn := v.(type) {
	case ComputedSpec:
		return fn
	case ComputedGetter:
		return ComputedSpec{Get: fn}
	case func(vm *Instance) any:
		return ComputedSpec{Get: fn}
	default:
		return ComputedSpec{}
	}
}

// HasComputed reports whether name is a declared computed property.
func (vm *Instance) HasComputed(name string) bool {
	_, ok := vm.computedWatchers[name]
	return ok
}

// GetComputed implements the computed accessor (spec.md section 4.6):
// re-evaluate if dirty, then depend on every dep the watcher collected
// so an outer subscriber transitively depends on the computed's own
// inputs rather than on the computed itself.
func (vm *Instance) GetComputed(name string) any {
	vm.computedMu.RLock()
	w, ok := vm.computedWatchers[name]
	vm.computedMu.RUnlock()
	if !ok {
		return nil
	}
	if w.Dirty() {
		w.Evaluate()
	}
	w.DependOnAll()
	return w.Value()
}

// SetComputed implements writing to a computed property: permitted only
// if the declaration supplied a setter (spec.md section 4.6), otherwise
// the write is dropped after a warning.
func (vm *Instance) SetComputed(name string, value any) {
	spec, ok := vm.computedSpecs[name]
	if !ok {
		return
	}
	if spec.Set == nil {
		vm.warn("computed property \"" + name + "\" was assigned to but it has no setter")
		return
	}
	spec.Set(vm, value)
}
