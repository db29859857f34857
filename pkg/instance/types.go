package instance

import (
	"log/slog"
	"sync"

	"github.com/vuecore/vuecore/pkg/options"
	"github.com/vuecore/vuecore/pkg/reactive"
)

// Method is a component method bound to the instance that declared it
// (spec.md section 4.5 step 8: "methods: bind each function to
// instance").
type Method func(vm *Instance, args ...any) any

// ComputedGetter is a computed property's getter, wrapped in a lazy
// Watcher at init time (spec.md section 4.6).
type ComputedGetter func(vm *Instance) any

// ComputedSetter is a computed property's optional setter. Without one,
// writes are dropped with a development warning (spec.md section 4.6).
type ComputedSetter func(vm *Instance, value any)

// ComputedSpec is the canonical shape a "computed" option entry
// normalizes to; a bare ComputedGetter is accepted too.
type ComputedSpec struct {
	Get ComputedGetter
	Set ComputedSetter
}

// Instance is one running component: resolved options, its reactive
// state (props/data/computed/watchers), its event bus, and its place in
// the parent/child tree (spec.md section 4.5 "Instance initialization").
type Instance struct {
	id uint64

	parent *Instance
	root   *Instance

	childrenMu sync.Mutex
	children   []*Instance

	Def  *options.ComponentDefinition
	opts options.Record

	props *reactive.ReactiveObject
	data  *reactive.ReactiveObject

	methods map[string]Method

	computedMu       sync.RWMutex
	computedWatchers map[string]*reactive.Watcher
	computedSpecs    map[string]ComputedSpec

	watchersMu sync.Mutex
	watchers   []*reactive.Watcher

	injected *reactive.ReactiveObject

	providedMu sync.RWMutex
	provided   map[string]any

	// prevPropDefault caches the last computed default per prop key, so
	// a prop that stays absent across re-renders keeps the same default
	// object identity (spec.md section 4.7).
	prevPropDefault map[string]any

	events *EventBus

	logger *slog.Logger

	destroyed bool
}

// ID returns the instance's unique identifier, assigned at construction
// (spec.md section 4.5 step 1).
func (vm *Instance) ID() uint64 { return vm.id }

// Parent returns the owning instance, or nil for the root.
func (vm *Instance) Parent() *Instance { return vm.parent }

// Root returns the top-most instance in the tree (itself, if it is the
// root).
func (vm *Instance) Root() *Instance { return vm.root }

// Children returns the instance's current child instances.
func (vm *Instance) Children() []*Instance {
	vm.childrenMu.Lock()
	defer vm.childrenMu.Unlock()
	out := make([]*Instance, len(vm.children))
	copy(out, vm.children)
	return out
}

func (vm *Instance) addChild(child *Instance) {
	vm.childrenMu.Lock()
	vm.children = append(vm.children, child)
	vm.childrenMu.Unlock()
}
