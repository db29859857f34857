package options

import (
	"errors"
	"reflect"
)

// ErrDataMustBeFunc is returned when merging two "data" options without
// an instance and either side isn't a factory function (spec.md
// section 4.4: "for non-instance merges both sides must be functions").
var ErrDataMustBeFunc = errors.New("options: data option must be a function when merged without an instance")

// ErrElOnlyWithInstance is returned when "el" or "propsData" is merged
// outside of instantiation (spec.md section 4.4: "Permitted only when
// instance is present").
var ErrElOnlyWithInstance = errors.New("options: el/propsData may only be set when an instance is present")

// Strategy reduces a parent/child option value pair to the merged
// value for that key. hasInstance distinguishes a class-level
// mixin/extend merge from an instantiation-time merge.
type Strategy func(parentVal, childVal any, hasInstance bool) (any, error)

// LifecycleHooks lists the canonical hook names that concatenate
// rather than override (spec.md section 4.4).
var LifecycleHooks = []string{
	"beforeCreate", "created",
	"beforeMount", "mounted",
	"beforeUpdate", "updated",
	"beforeDestroy", "destroyed",
	"activated", "deactivated",
	"errorCaptured",
}

var assetKeys = []string{"components", "directives", "filters"}
var shallowMergeKeys = []string{"props", "methods", "inject", "computed"}

// strategies is the process-wide, mutable strategy table (spec.md
// section 5: "may be extended by user configuration; entries should be
// set before any instance is created").
var strategies = map[string]Strategy{}

func init() {
	strategies["data"] = mergeDataOrProvide
	strategies["provide"] = mergeDataOrProvide
	for _, h := range LifecycleHooks {
		strategies[h] = mergeHooks
	}
	for _, k := range assetKeys {
		strategies[k] = mergeAssets
	}
	strategies["watch"] = mergeWatch
	for _, k := range shallowMergeKeys {
		strategies[k] = mergeShallow
	}
	strategies["el"] = mergeElOrPropsData
	strategies["propsData"] = mergeElOrPropsData
}

// RegisterStrategy installs or overrides the merge strategy for a
// custom option key. Per spec.md section 5, call this before creating
// any instance: the table is process-global.
func RegisterStrategy(key string, s Strategy) {
	strategies[key] = s
}

func strategyFor(key string) Strategy {
	if s, ok := strategies[key]; ok {
		return s
	}
	return defaultStrategy
}

// defaultStrategy implements "child ?? parent" for every key without a
// registered strategy.
func defaultStrategy(parentVal, childVal any, _ bool) (any, error) {
	if childVal != nil {
		return childVal, nil
	}
	return parentVal, nil
}

// mergeDataOrProvide implements the "data"/"provide" strategy (spec.md
// section 4.4 + testable property section 8.8).
func mergeDataOrProvide(parentVal, childVal any, hasInstance bool) (any, error) {
	parentFn, _ := parentVal.(func() map[string]any)
	childFn, _ := childVal.(func() map[string]any)

	if hasInstance {
		var p, c map[string]any
		if parentFn != nil {
			p = parentFn()
		}
		if childFn != nil {
			c = childFn()
		}
		return deepMerge(p, c), nil
	}

	if childVal == nil {
		return parentVal, nil
	}
	if parentVal == nil {
		return childVal, nil
	}
	if parentFn == nil || childFn == nil {
		return nil, ErrDataMustBeFunc
	}
	merged := func() map[string]any {
		return deepMerge(parentFn(), childFn())
	}
	return merged, nil
}

// deepMerge returns a new map with src's keys overlaid onto dst,
// recursively merging nested map[string]any values (spec.md scenario C).
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if existing, ok := out[k]; ok {
			if em, ok1 := existing.(map[string]any); ok1 {
				if vm, ok2 := v.(map[string]any); ok2 {
					out[k] = deepMerge(em, vm)
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

// toHookSlice normalizes a raw hook option (a single func(any) or a
// []Hook) to a []Hook.
func toHookSlice(v any) []Hook {
	switch h := v.(type) {
	case nil:
		return nil
	case Hook:
		return []Hook{h}
	case func(any):
		return []Hook{Hook(h)}
	case []Hook:
		return append([]Hook(nil), h...)
	default:
		return nil
	}
}

// mergeHooks concatenates parent then child, de-duplicating by function
// identity while preserving order (spec.md section 4.4 + section 8.7).
func mergeHooks(parentVal, childVal any, _ bool) (any, error) {
	all := append(toHookSlice(parentVal), toHookSlice(childVal)...)
	if len(all) == 0 {
		return nil, nil
	}
	seen := make(map[uintptr]bool, len(all))
	out := make([]Hook, 0, len(all))
	for _, h := range all {
		ptr := reflect.ValueOf(h).Pointer()
		if seen[ptr] {
			continue
		}
		seen[ptr] = true
		out = append(out, h)
	}
	return out, nil
}

// mergeAssets builds a new AssetMap chained onto the parent's
// (components/directives/filters), with the child's raw registrations
// validated and installed at this level (spec.md section 4.4).
func mergeAssets(parentVal, childVal any, _ bool) (any, error) {
	parentMap, _ := parentVal.(*AssetMap)
	result := NewAssetMap(parentMap)

	childRaw, _ := childVal.(map[string]any)
	for id, def := range childRaw {
		if !IsValidAssetID(id) {
			continue // invalid/reserved name: entry dropped; no warning is emitted
		}
		result.Set(id, def)
	}
	return result, nil
}

// mergeWatch merges per-key watch handler lists by concatenation (spec.md
// section 4.4: "each key becomes an array concatenating parent and
// child entries").
func mergeWatch(parentVal, childVal any, _ bool) (any, error) {
	out := make(map[string][]WatchEntry)

	// Either side may be the raw, not-yet-normalized "watch" record
	// (map[string]any) or the canonical map[string][]WatchEntry shape
	// this strategy itself produces (a second merge pass over an
	// already-sealed record, e.g. ApplyGlobalMixin re-merging, hands it
	// back) — accept both on both sides so merging stays idempotent.
	for _, side := range []any{parentVal, childVal} {
		switch v := side.(type) {
		case map[string][]WatchEntry:
			for key, entries := range v {
				out[key] = append(out[key], entries...)
			}
		case map[string]any:
			for key, raw := range v {
				out[key] = append(out[key], normalizeWatchEntries(raw)...)
			}
		}
	}
	return out, nil
}

func normalizeWatchEntries(raw any) []WatchEntry {
	switch v := raw.(type) {
	case WatchEntry:
		return []WatchEntry{v}
	case []WatchEntry:
		return append([]WatchEntry(nil), v...)
	case func(newVal, oldVal any):
		return []WatchEntry{{Handler: v}}
	default:
		return nil
	}
}

// mergeShallow implements the shallow, child-wins merge used for
// props/methods/inject/computed (spec.md section 4.4).
func mergeShallow(parentVal, childVal any, _ bool) (any, error) {
	parentMap, _ := parentVal.(map[string]any)
	childMap, _ := childVal.(map[string]any)
	out := make(map[string]any, len(parentMap)+len(childMap))
	for k, v := range parentMap {
		out[k] = v
	}
	for k, v := range childMap {
		out[k] = v
	}
	return out, nil
}

// mergeElOrPropsData enforces "el"/"propsData" only being set at
// instantiation time.
func mergeElOrPropsData(parentVal, childVal any, hasInstance bool) (any, error) {
	if childVal != nil && !hasInstance {
		return nil, ErrElOnlyWithInstance
	}
	return defaultStrategy(parentVal, childVal, hasInstance)
}
