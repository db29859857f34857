package options

import (
	"reflect"
	"sync"
)

// ComponentDefinition is a component constructor record (spec.md section
// 4.4 "Constructor option resolution" / section 8 "Inheritance of
// constructors"): a super link, the raw options passed to Extend, and a
// cached sealed (merged) result. version bumps whenever sealedOptions
// changes, so dependent subclasses know to recompute their own seal.
type ComponentDefinition struct {
	mu sync.Mutex

	id    uint64
	super *ComponentDefinition

	extendOptions Record
	sealedOptions Record
	version       uint64

	sealedFromSuperVersion uint64
}

// NewRootDefinition seals raw with no super, for a component defined
// without extends (e.g. the application root).
func NewRootDefinition(raw Record) (*ComponentDefinition, error) {
	return Extend(nil, raw)
}

type extendCacheKey struct {
	superID   uint64
	optionsID uintptr
}

var (
	extendCacheMu sync.Mutex
	extendCache   = map[extendCacheKey]*ComponentDefinition{}
)

// Extend returns a subclass ComponentDefinition with merged, sealed
// options, caching per (super-id, options) pair so repeated extend()
// calls with the same raw record return the same definition (spec.md
// section 8 component table: "Returns a subclass with merged, sealed
// options; caches per (super-id, options) pair").
func Extend(super *ComponentDefinition, raw Record) (*ComponentDefinition, error) {
	if raw == nil {
		raw = Record{}
	}

	var superID uint64
	var superSealed Record
	var superVersion uint64
	if super != nil {
		super.mu.Lock()
		superID = super.id
		superSealed = super.sealedOptions
		superVersion = super.version
		super.mu.Unlock()
	}

	key := extendCacheKey{superID: superID, optionsID: recordIdentity(raw)}
	extendCacheMu.Lock()
	if cached, ok := extendCache[key]; ok {
		extendCacheMu.Unlock()
		return cached, nil
	}
	extendCacheMu.Unlock()

	sealed, err := MergeOptions(superSealed, raw, false)
	if err != nil {
		return nil, err
	}

	def := &ComponentDefinition{
		id:                     nextID(),
		super:                  super,
		extendOptions:          raw,
		sealedOptions:          sealed,
		sealedFromSuperVersion: superVersion,
	}

	extendCacheMu.Lock()
	extendCache[key] = def
	extendCacheMu.Unlock()
	return def, nil
}

// recordIdentity returns a stable pointer-based identity for a Record's
// underlying map header, used as the cache key's option-side component.
func recordIdentity(r Record) uintptr {
	if r == nil {
		return 0
	}
	return reflect.ValueOf(r).Pointer()
}

// ResolveOptions returns def's current sealed options, reapplying the
// extend-time diff against the super chain first if the super's sealed
// options changed since this definition last sealed (spec.md section
// 4.4: "so that late global mixins reach previously-defined
// subclasses").
func (def *ComponentDefinition) ResolveOptions() (Record, error) {
	def.mu.Lock()
	defer def.mu.Unlock()
	return def.resolveLocked()
}

func (def *ComponentDefinition) resolveLocked() (Record, error) {
	if def.super == nil {
		return def.sealedOptions, nil
	}
	def.super.mu.Lock()
	superSealed := def.super.sealedOptions
	superVersion := def.super.version
	def.super.mu.Unlock()

	if superVersion == def.sealedFromSuperVersion {
		return def.sealedOptions, nil
	}

	sealed, err := MergeOptions(superSealed, def.extendOptions, false)
	if err != nil {
		return nil, err
	}
	def.sealedOptions = sealed
	def.sealedFromSuperVersion = superVersion
	def.version++
	return def.sealedOptions, nil
}

// ApplyGlobalMixin merges mixin directly into def's sealed options and
// bumps its version, modeling a global Vue.mixin()-style registration
// applied after subclasses already exist. Subclasses pick up the change
// the next time they call ResolveOptions.
func (def *ComponentDefinition) ApplyGlobalMixin(mixin Record) error {
	def.mu.Lock()
	defer def.mu.Unlock()
	sealed, err := MergeOptions(def.sealedOptions, mixin, false)
	if err != nil {
		return err
	}
	def.sealedOptions = sealed
	def.version++
	return nil
}

// ID returns the definition's identity, used as the super-id component
// of a descendant's cache key.
func (def *ComponentDefinition) ID() uint64 { return def.id }
