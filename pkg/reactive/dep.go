package reactive

import (
	"sort"
	"sync"
)

// Dep is a dependency node: one per reactive property, plus one per
// observed object/array (its "own dep", notified on add/delete and on
// array mutation). It holds the set of watchers currently subscribed
// to it.
type Dep struct {
	id uint64

	mu   sync.Mutex
	subs map[uint64]Target
}

// NewDep creates a Dep with a fresh id.
func NewDep() *Dep {
	return &Dep{
		id:   nextID(),
		subs: make(map[uint64]Target),
	}
}

// ID returns the Dep's unique, creation-ordered identifier.
func (d *Dep) ID() uint64 {
	return d.id
}

// addSub subscribes target to this Dep. Idempotent.
func (d *Dep) addSub(target Target) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs[target.ID()] = target
}

// removeSub unsubscribes target from this Dep.
func (d *Dep) removeSub(target Target) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.subs, target.ID())
}

// Depend registers this Dep as a dependency of the current target, if
// any target is currently being evaluated. Calling Depend outside of
// any evaluation is a harmless no-op, matching a plain property read.
func (d *Dep) Depend() {
	target := currentTarget()
	if target == nil {
		return
	}
	target.addDep(d)
}

// Notify snapshots the current subscriber set and calls Update() on
// each, in ascending id order. Ascending id order preserves
// parent-before-child creation order, per spec.
func (d *Dep) Notify() {
	d.mu.Lock()
	subs := make([]Target, 0, len(d.subs))
	for _, t := range d.subs {
		subs = append(subs, t)
	}
	d.mu.Unlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].ID() < subs[j].ID() })

	for _, t := range subs {
		if w, ok := t.(*Watcher); ok {
			w.Update()
		}
	}
}

// SubCount reports the number of subscribers, for tests and metrics.
func (d *Dep) SubCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}
