// Package options implements the option-record normalization and
// per-key merge-strategy algebra used to resolve a component's final
// configuration from its own option record plus its extends/mixins
// chain and (for instantiation) its parent instance.
//
// A Record is a plain map[string]any keyed by option name (data, props,
// computed, methods, watch, provide, inject, components, directives,
// filters, mixins, extends, lifecycle hook names, el, name, ...). Merge
// reduces a parent/child pair to a new Record using the strategy
// registered for each key, after normalizing the three shapes (props,
// inject, directives) that accept multiple raw forms.
package options
