package instance

import (
	"strconv"
	"strings"

	"github.com/vuecore/vuecore/pkg/reactive"
)

// Watch implements $watch(expOrFn, cb, deep, immediate): expOrFn is
// either a dotted property path or a getter function. It returns a
// teardown func that unsubscribes the underlying Watcher.
func (vm *Instance) Watch(expOrFn any, cb func(newValue, oldValue any), deep, immediate bool) func() {
	var getter reactive.Getter
	switch e := expOrFn.(type) {
	case string:
		getter = func() any { return vm.Get(e) }
	case func() any:
		getter = e
	default:
		return func() {}
	}

	opts := []reactive.Option{reactive.User(vm)}
	if deep {
		opts = append(opts, reactive.Deep())
	}
	w := reactive.NewWatcher(getter, reactive.Callback(cb), opts...)

	vm.watchersMu.Lock()
	vm.watchers = append(vm.watchers, w)
	vm.watchersMu.Unlock()

	if immediate && cb != nil {
		cb(w.Value(), nil)
	}

	return func() { w.Teardown() }
}

// Get resolves a dotted property path against the instance: props,
// then data, then computed, then methods, then injected values, walking
// into nested reactive objects/arrays/maps for each further segment
// (spec.md section 4.5 step 8 "proxy instance.key -> instance._data.key").
func (vm *Instance) Get(path string) any {
	segments := strings.Split(path, ".")
	cur := vm.resolveTopLevel(segments[0])
	for _, seg := range segments[1:] {
		cur = getNested(cur, seg)
	}
	return cur
}

func (vm *Instance) resolveTopLevel(key string) any {
	if vm.props != nil && vm.props.Has(key) {
		return vm.props.Get(key)
	}
	if vm.data != nil && vm.data.Has(key) {
		return vm.data.Get(key)
	}
	if vm.HasComputed(key) {
		return vm.GetComputed(key)
	}
	if m, ok := vm.methods[key]; ok {
		return m
	}
	if vm.injected != nil && vm.injected.Has(key) {
		return vm.injected.Get(key)
	}
	return nil
}

func getNested(cur any, key string) any {
	switch v := cur.(type) {
	case *reactive.ReactiveObject:
		if v == nil {
			return nil
		}
		return v.Get(key)
	case *reactive.ReactiveArray:
		if v == nil {
			return nil
		}
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= v.Len() {
			return nil
		}
		return v.GetAt(idx)
	case map[string]any:
		return v[key]
	default:
		return nil
	}
}

// Set writes to a top-level data key (spec.md's $set semantics apply to
// reactive objects directly via reactive.Set; this handles the common
// "vm.key = value" proxy form). Writing to a prop or computed property
// without a setter is a no-op with a development warning.
func (vm *Instance) Set(key string, value any) {
	if vm.props != nil && vm.props.Has(key) {
		vm.warn("avoid mutating a prop directly; the owning component should pass a new value instead (\"" + key + "\")")
		return
	}
	if vm.HasComputed(key) {
		vm.SetComputed(key, value)
		return
	}
	if vm.data != nil {
		vm.data.Set(key, value)
	}
}

// Delete removes a key from the instance's data, notifying dependents
// of the owning object (spec.md's $delete).
func (vm *Instance) Delete(key string) {
	if vm.data != nil {
		vm.data.Del(key)
	}
}

func (vm *Instance) warn(msg string) {
	if vm.logger != nil {
		vm.logger.Warn(msg, "instance", vm.id)
	}
}
