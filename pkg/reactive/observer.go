package reactive

import "sync"

// observeGate is a single process-wide stack of booleans (shared by all
// goroutines) so nested WithObservingDisabled calls restore correctly.
// The instance package uses it to suppress observation while it
// resolves inject values.
var observeGate = struct {
	mu    sync.Mutex
	stack []bool
}{stack: []bool{true}}

func shouldObserve() bool {
	observeGate.mu.Lock()
	defer observeGate.mu.Unlock()
	return observeGate.stack[len(observeGate.stack)-1]
}

// WithObservingDisabled runs fn with observation suppressed, restoring
// the previous setting afterward. Nested calls stack correctly.
func WithObservingDisabled(fn func()) {
	observeGate.mu.Lock()
	observeGate.stack = append(observeGate.stack, false)
	observeGate.mu.Unlock()

	defer func() {
		observeGate.mu.Lock()
		observeGate.stack = observeGate.stack[:len(observeGate.stack)-1]
		observeGate.mu.Unlock()
	}()
	fn()
}

// Cell is a single reactive property slot: a value plus the Dep that
// tracks reads of and writes to it.
type Cell struct {
	value        any
	dep          *Dep
	customSetter func()
	shallow      bool
	hasSetter    bool // whether a setter has been supplied at all (for computed-property write gating)
}

// ReactiveObject wraps a plain object's fields, giving each field its
// own Dep and giving the object itself an "own dep" used to notify
// watchers when a key is added or removed (spec section 4.3 Observer).
type ReactiveObject struct {
	mu      sync.RWMutex
	storage map[string]*Cell
	order   []string
	ownDep  *Dep
}

// NewReactiveObject builds a ReactiveObject from a plain map, recursively
// observing any nested map/slice values found in it.
func NewReactiveObject(fields map[string]any) *ReactiveObject {
	o := &ReactiveObject{
		storage: make(map[string]*Cell, len(fields)),
		ownDep:  NewDep(),
	}
	for k, v := range fields {
		o.DefineReactive(k, v, nil, false)
	}
	return o
}

// OwnDep returns the object's own Dep, notified on key add/delete.
func (o *ReactiveObject) OwnDep() *Dep { return o.ownDep }

// Keys returns the object's own keys in insertion order.
func (o *ReactiveObject) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Has reports whether key is an own property.
func (o *ReactiveObject) Has(key string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.storage[key]
	return ok
}

// DefineReactive installs (or replaces) a reactive property. If val is a
// plain object/array and shallow is false, it is recursively observed
// first. customSetter, if non-nil, is invoked on every write attempt
// (used for read-only warnings on props and injected values).
func (o *ReactiveObject) DefineReactive(key string, val any, customSetter func(), shallow bool) {
	if !shallow {
		val = Observe(val)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, exists := o.storage[key]; !exists {
		o.order = append(o.order, key)
	}
	o.storage[key] = &Cell{value: val, dep: NewDep(), customSetter: customSetter, shallow: shallow, hasSetter: true}
}

// Get reads a property, subscribing the current target to the
// property's Dep and, when the value is itself an observed
// object/array, to that value's own Dep as well (spec section 4.3: "if child
// observer exists, also childOb.dep.depend()").
func (o *ReactiveObject) Get(key string) any {
	o.mu.RLock()
	cell, ok := o.storage[key]
	o.mu.RUnlock()
	if !ok {
		return nil
	}

	cell.dep.Depend()
	dependOnChild(cell.value)
	return cell.value
}

// Set writes a property. Identical values (NaN-aware) are a no-op.
// customSetter fires on every write attempt, even ones that are then
// dropped for read-only cells (spec: "invoke custom setter in dev").
// Setting a key that doesn't yet exist creates it and notifies the
// object's own Dep instead of the (nonexistent) property Dep, matching
// $set semantics.
func (o *ReactiveObject) Set(key string, value any) {
	o.mu.Lock()
	cell, exists := o.storage[key]
	o.mu.Unlock()

	if !exists {
		o.DefineReactive(key, value, nil, false)
		o.ownDep.Notify()
		return
	}

	if cell.customSetter != nil {
		cell.customSetter()
		return
	}

	if valuesEqual(cell.value, value) {
		return
	}

	if !cell.shallow {
		value = Observe(value)
	}

	o.mu.Lock()
	cell.value = value
	o.mu.Unlock()

	cell.dep.Notify()
}

// Del removes an own property and notifies the object's own Dep.
func (o *ReactiveObject) Del(key string) {
	o.mu.Lock()
	_, ok := o.storage[key]
	if ok {
		delete(o.storage, key)
		for i, k := range o.order {
			if k == key {
				o.order = append(o.order[:i], o.order[i+1:]...)
				break
			}
		}
	}
	o.mu.Unlock()

	if ok {
		o.ownDep.Notify()
	}
}

// dependOnChild subscribes the current target to a value's own Dep (if
// it is an observed object or array) and, for arrays, recursively to
// every contained observed element — matching spec's dependArray
// behaviour for nested reactivity that isn't reachable through a
// per-property accessor.
func dependOnChild(value any) {
	switch v := value.(type) {
	case *ReactiveObject:
		if v != nil {
			v.ownDep.Depend()
		}
	case *ReactiveArray:
		if v != nil {
			v.ownDep.Depend()
			for i := 0; i < v.Len(); i++ {
				dependOnChild(v.GetAt(i))
			}
		}
	}
}

// Observe returns the existing wrapper if value is already a
// *ReactiveObject/*ReactiveArray (idempotent per spec section 8.1), otherwise
// wraps a plain map[string]any or []any into one, or returns value
// unchanged if it isn't observable or observation is currently
// suppressed.
func Observe(value any) any {
	switch v := value.(type) {
	case *ReactiveObject, *ReactiveArray:
		return v
	case map[string]any:
		if !shouldObserve() {
			return v
		}
		return NewReactiveObject(v)
	case []any:
		if !shouldObserve() {
			return v
		}
		return NewReactiveArray(v)
	default:
		return value
	}
}
