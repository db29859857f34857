package instance

import (
	"github.com/vuecore/vuecore/pkg/options"
	"github.com/vuecore/vuecore/pkg/reactive"
)

// resolveInject walks the $parent chain looking for an ancestor whose
// _provided map owns key (spec.md section 4.5 step 7: "walking $parent
// chain until finding a _provided owning the requested from").
func resolveInject(parent *Instance, key string) (any, bool) {
	for p := parent; p != nil; p = p.parent {
		p.providedMu.RLock()
		v, ok := p.provided[key]
		p.providedMu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// initInject resolves every declared inject key against the parent
// chain and defines each on vm.injected via defineReactive, with
// observation of new descendants suppressed for the whole walk (spec.md
// section 4.5 step 7).
func (vm *Instance) initInject(specs map[string]*options.InjectSpec) {
	vm.injected = reactive.NewReactiveObject(nil)
	if len(specs) == 0 {
		return
	}
	reactive.WithObservingDisabled(func() {
		for key, spec := range specs {
			val, found := resolveInject(vm.parent, spec.From)
			if !found {
				if spec.Default == nil {
					vm.warn("injection \"" + spec.From + "\" not found and has no default; key omitted")
					continue
				}
				val = spec.Default
			}
			warnKey := key
			vm.injected.DefineReactive(key, val, func() {
				vm.warn("avoid mutating an injected value directly; inject is a one-way binding (\"" + warnKey + "\")")
			}, false)
		}
	})
}

// initProvide evaluates the "provide" option and stores the result for
// descendants to resolve via inject (spec.md section 4.5 step 9).
func (vm *Instance) initProvide() {
	raw, ok := vm.opts["provide"]
	if !ok || raw == nil {
		return
	}
	var values map[string]any
	switch v := raw.(type) {
	case func() map[string]any:
		values = v()
	case map[string]any:
		values = v
	}
	if values == nil {
		return
	}
	vm.providedMu.Lock()
	if vm.provided == nil {
		vm.provided = make(map[string]any, len(values))
	}
	for k, v := range values {
		vm.provided[k] = v
	}
	vm.providedMu.Unlock()
}
