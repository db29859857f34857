package instance

import (
	"reflect"
	"strings"

	"github.com/vuecore/vuecore/pkg/options"
)

// resolveProps implements spec.md section 4.7 "Prop validation": for
// each declared prop, locate its value in propsData, coerce Booleans,
// fall back to defaults (reusing the previous default object when the
// prop is absent again across re-renders), type-check, and run any
// required/validator checks. Failures call warn and never abort.
func resolveProps(specs map[string]*options.PropSpec, propsData map[string]any, prevDefault map[string]any, warn func(string)) map[string]any {
	resolved := make(map[string]any, len(specs))
	for key, spec := range specs {
		val, present := propsData[key]

		if hasType(spec.Type, "Boolean") {
			val, present = coerceBoolean(key, spec, val, present)
		}

		if !present {
			val = resolveDefault(key, spec, prevDefault, warn)
		}

		checkType(key, spec, val, warn)
		if spec.Required && !present {
			warn("missing required prop: \"" + key + "\"")
		}
		if spec.Validator != nil && !spec.Validator(val) {
			warn("invalid prop: custom validator check failed for prop \"" + key + "\"")
		}

		resolved[key] = val
	}
	return resolved
}

func hasType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

func typeIndex(types []string, want string) int {
	for i, t := range types {
		if t == want {
			return i
		}
	}
	return -1
}

// coerceBoolean implements the Boolean-casting rule: absent without a
// default becomes false; an empty string or the attribute's own
// hyphenated name becomes true, unless String is declared at higher
// priority (an earlier index) than Boolean.
func coerceBoolean(key string, spec *options.PropSpec, val any, present bool) (any, bool) {
	if !present {
		if spec.Default == nil {
			return false, true
		}
		return val, present
	}
	s, ok := val.(string)
	if !ok {
		return val, present
	}
	if s != "" && s != hyphenate(key) {
		return val, present
	}
	if hasType(spec.Type, "String") {
		if si, bi := typeIndex(spec.Type, "String"), typeIndex(spec.Type, "Boolean"); si >= 0 && si < bi {
			return val, present
		}
	}
	return true, present
}

func hyphenate(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// resolveDefault computes a prop's default value, invoking a factory
// function and reusing the previously computed default (keyed by prop
// name) when the prop stays absent across re-renders, so repeated
// renders don't thrash identity on object/array defaults.
func resolveDefault(key string, spec *options.PropSpec, prevDefault map[string]any, warn func(string)) any {
	if spec.Default == nil {
		return nil
	}
	if fn, ok := spec.Default.(func() any); ok {
		if prev, ok2 := prevDefault[key]; ok2 {
			return prev
		}
		val := fn()
		prevDefault[key] = val
		return val
	}
	if requiresFactoryDefault(spec.Type) {
		warn("default value for prop \"" + key + "\" should be a factory function returning a fresh value")
	}
	return spec.Default
}

func requiresFactoryDefault(types []string) bool {
	return hasType(types, "Object") || hasType(types, "Array")
}

// checkType compares val's runtime shape against each declared type
// name, warning (not failing) on mismatch. An empty Type list accepts
// anything.
func checkType(key string, spec *options.PropSpec, val any, warn func(string)) {
	if len(spec.Type) == 0 || val == nil {
		return
	}
	for _, t := range spec.Type {
		if matchesType(val, t) {
			return
		}
	}
	warn("invalid prop: type check failed for prop \"" + key + "\". Expected " + strings.Join(spec.Type, " | ") + ", got " + describeType(val))
}

func matchesType(val any, t string) bool {
	switch t {
	case "String":
		_, ok := val.(string)
		return ok
	case "Number":
		switch val.(type) {
		case int, int64, float32, float64:
			return true
		}
		return false
	case "Boolean":
		_, ok := val.(bool)
		return ok
	case "Array":
		switch val.(type) {
		case []any:
			return true
		}
		return reflect.ValueOf(val).Kind() == reflect.Slice
	case "Object":
		switch val.(type) {
		case map[string]any:
			return true
		}
		return reflect.ValueOf(val).Kind() == reflect.Map
	case "Function":
		return reflect.ValueOf(val).Kind() == reflect.Func
	default:
		return true
	}
}

func describeType(val any) string {
	return reflect.TypeOf(val).String()
}
