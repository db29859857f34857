package reactive

import (
	"fmt"
	"reflect"
	"time"

	"github.com/vuecore/vuecore/internal/rmetrics"
	"github.com/vuecore/vuecore/internal/rtrace"
)

// ErrorSink receives errors raised by user-supplied getters/callbacks
// when a Watcher is constructed with the User option. The instance package
// implements this to route errors through its errorCaptured chain.
type ErrorSink interface {
	HandleError(err error, info string)
}

// Getter is the function a Watcher (re-)evaluates to produce its value.
type Getter func() any

// Callback is invoked after a Watcher re-evaluates; Run describes when.
type Callback func(newValue, oldValue any)

// Option configures a Watcher at construction time.
type Option func(*Watcher)

// Lazy starts the watcher dirty and unevaluated; used for computed
// properties, which only evaluate on first read.
func Lazy() Option { return func(w *Watcher) { w.lazy = true; w.dirty = true } }

// User marks the watcher as user-supplied: errors from its getter or
// callback are routed to the ErrorSink instead of propagating.
func User(sink ErrorSink) Option {
	return func(w *Watcher) { w.user = true; w.errorSink = sink }
}

// Deep requests a full traversal of the read value's object graph after
// evaluation, so every nested reactive property becomes a dependency.
func Deep() Option { return func(w *Watcher) { w.deep = true } }

// Sync makes Update() call Run() immediately instead of queueing onto
// the scheduler.
func Sync() Option { return func(w *Watcher) { w.sync = true } }

// Before registers a hook invoked just before Run() re-evaluates; used
// by render watchers to fire a beforeUpdate-style hook.
func Before(fn func()) Option { return func(w *Watcher) { w.before = fn } }

// OnScheduler binds the watcher to a specific Scheduler instead of the
// package default, so multiple independent instances can flush
// separately (e.g. one per test).
func OnScheduler(s *Scheduler) Option { return func(w *Watcher) { w.scheduler = s } }

// Watcher is a reactive computation: a getter, an optional callback,
// and the dep set it collected on its last evaluation.
type Watcher struct {
	id uint64

	getter Getter
	cb     Callback

	lazy, user, deep, sync bool
	before                 func()
	errorSink              ErrorSink
	scheduler              *Scheduler

	value any
	dirty bool
	active bool

	// deps/newDeps implement the current/previous dep-set reconciliation
	// from spec section 4.2: each Evaluate() swaps newDeps into deps and
	// unsubscribes anything left over from the prior evaluation.
	deps    map[uint64]*Dep
	newDeps map[uint64]*Dep

	// pointers of the objects/arrays visited during deep traversal,
	// reset at traversal boundary.
	deepSeen map[uintptr]bool
}

// NewWatcher constructs and immediately evaluates a Watcher (unless
// Lazy() is supplied), collecting its initial dependencies.
func NewWatcher(getter Getter, cb Callback, opts ...Option) *Watcher {
	w := &Watcher{
		id:      nextID(),
		getter:  getter,
		cb:      cb,
		active:  true,
		deps:    make(map[uint64]*Dep),
		newDeps: make(map[uint64]*Dep),
	}
	for _, o := range opts {
		o(w)
	}
	if w.scheduler == nil {
		w.scheduler = DefaultScheduler
	}
	if w.lazy {
		w.value = nil
	} else {
		w.value = w.Evaluate()
	}
	return w
}

// ID implements Target.
func (w *Watcher) ID() uint64 { return w.id }

// addDep implements Target: called by a Dep's Depend() when this
// watcher is the active target. A dep touched twice in one evaluation is
// recorded once, and the watcher subscribes to it here unless it already
// held the dep from the previous evaluation.
func (w *Watcher) addDep(d *Dep) {
	if _, already := w.newDeps[d.id]; already {
		return
	}
	w.newDeps[d.id] = d
	if _, subscribed := w.deps[d.id]; !subscribed {
		d.addSub(w)
	}
}

// Evaluate runs the getter with this watcher as the active target,
// collects dependencies, reconciles the dep set (unsubscribing stale
// deps, keeping freshly touched ones), clears dirty and stores value.
func (w *Watcher) Evaluate() any {
	start := time.Now()
	defer func() { rmetrics.RecordWatcherEvaluation(time.Since(start)) }()

	_, span := rtrace.StartWatcherEvaluation(w.id)
	defer rtrace.End(span, nil)

	pushTarget(w)
	var value any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if w.user && w.errorSink != nil {
					w.errorSink.HandleError(toError(r), "watcher getter")
					return
				}
				panic(r)
			}
		}()
		value = w.getter()
	}()

	if w.deep {
		// Traverse while still the active target so nested reads
		// register as dependencies too (spec section 4.2 "deep").
		w.traverseDeep(value)
	}

	popTarget()

	w.reconcileDeps()
	w.dirty = false
	w.value = value
	return value
}

// reconcileDeps swaps deps/newDeps, unsubscribing any dep present in
// the old set but absent from the new one.
func (w *Watcher) reconcileDeps() {
	for id, d := range w.deps {
		if _, stillPresent := w.newDeps[id]; !stillPresent {
			d.removeSub(w)
		}
	}
	w.deps, w.newDeps = w.newDeps, make(map[uint64]*Dep)
}

// Update is called by a Dep's Notify(). Lazy watchers just flip dirty;
// sync watchers re-run immediately; everything else is queued.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		w.Run()
	default:
		w.scheduler.Queue(w)
	}
}

// Run re-evaluates the watcher (if active) and invokes the callback
// when the new value differs from the old one, when the new value is a
// *ReactiveObject or *ReactiveArray (a nested write leaves the reference
// unchanged), or when the watcher is deep. NaN is treated as equal to
// itself so assigning NaN repeatedly doesn't re-fire.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	if w.before != nil {
		w.before()
	}
	oldValue := w.value
	newValue := w.Evaluate()
	if w.cb == nil {
		return
	}
	_, isObject := newValue.(*ReactiveObject)
	_, isArray := newValue.(*ReactiveArray)
	if !w.deep && !isObject && !isArray && valuesEqual(oldValue, newValue) {
		return
	}
	if w.user {
		func() {
			defer func() {
				if r := recover(); r != nil && w.errorSink != nil {
					w.errorSink.HandleError(toError(r), "watcher callback")
				}
			}()
			w.cb(newValue, oldValue)
		}()
		return
	}
	w.cb(newValue, oldValue)
}

// Teardown unsubscribes the watcher from every dep it holds and marks
// it inactive. Idempotent.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	w.active = false
	for _, d := range w.deps {
		d.removeSub(w)
	}
	w.deps = make(map[uint64]*Dep)
}

// Dirty reports whether a lazy watcher needs re-evaluation.
func (w *Watcher) Dirty() bool { return w.dirty }

// Value returns the last-evaluated value without forcing evaluation.
func (w *Watcher) Value() any { return w.value }

// DependOnAll calls Depend() on every dep this watcher last collected,
// so an outer watcher reading a computed property transitively depends
// on the computed's own inputs rather than on the computed itself
// (spec section 4.6 step 2).
func (w *Watcher) DependOnAll() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// traverseDeep walks the ReactiveObject and ReactiveArray values
// reachable from value, reading every nested reactive property so the
// watcher depends on the whole subtree. Plain (non-reactive) maps,
// slices and structs are not walked. Traversal stops at values already
// visited in this pass (guards against cycles), at nil, and below
// maxDeepDepth levels of nesting.
func (w *Watcher) traverseDeep(value any) {
	w.deepSeen = make(map[uintptr]bool)
	defer func() { w.deepSeen = nil }()
	w.traverse(value, 0)
}

const maxDeepDepth = 64

func (w *Watcher) traverse(value any, depth int) {
	if depth > maxDeepDepth {
		return
	}
	switch v := value.(type) {
	case *ReactiveObject:
		if v == nil {
			return
		}
		ptr := reflect.ValueOf(v).Pointer()
		if w.deepSeen[ptr] {
			return
		}
		w.deepSeen[ptr] = true
		for _, key := range v.Keys() {
			w.traverse(v.Get(key), depth+1)
		}
	case *ReactiveArray:
		if v == nil {
			return
		}
		ptr := reflect.ValueOf(v).Pointer()
		if w.deepSeen[ptr] {
			return
		}
		w.deepSeen[ptr] = true
		for i := 0; i < v.Len(); i++ {
			w.traverse(v.GetAt(i), depth+1)
		}
	default:
		// Plain, non-reactive value: nothing further to collect.
	}
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// valuesEqual compares by identity for comparable types (NaN-aware:
// NaN is considered equal to NaN here, matching spec's "NaN-aware"
// requirement so repeated NaN assignment doesn't re-fire watchers) and
// falls back to reflect.DeepEqual otherwise.
func valuesEqual(a, b any) bool {
	if af, ok := a.(float64); ok {
		if bf, ok2 := b.(float64); ok2 {
			if af != af && bf != bf { // both NaN
				return true
			}
			return af == bf
		}
	}
	if isComparable(a) && isComparable(b) && a == b {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func isComparable(v any) bool {
	if v == nil {
		return true
	}
	k := reflect.ValueOf(v).Kind()
	switch k {
	case reflect.Slice, reflect.Map, reflect.Func:
		return false
	default:
		return true
	}
}
