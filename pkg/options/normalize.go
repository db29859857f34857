package options

import (
	"regexp"
	"strings"
)

// camelizeRE matches a hyphen followed by a word character, e.g. the
// "-f" in "my-favorite" -> "myFavorite".
var camelizeRE = regexp.MustCompile(`-(\w)`)

// camelize converts kebab-case to camelCase, matching the teacher's
// prop-name normalization requirement ("All names camelized").
func camelize(s string) string {
	return camelizeRE.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:2])
	})
}

// NormalizeProps accepts the three raw shapes spec.md section 4.4 allows for
// "props" and returns the canonical map[string]*PropSpec:
//
//   - []string{"name", ...}                         -> {name: {Type: nil}}
//   - map[string]any{"name": Type | []Type}          -> {name: {Type: ...}}
//   - map[string]any{"name": PropSpec-shaped map}     -> passthrough
func NormalizeProps(raw any) map[string]*PropSpec {
	out := make(map[string]*PropSpec)
	switch v := raw.(type) {
	case nil:
		return out
	case []string:
		for _, name := range v {
			out[camelize(name)] = &PropSpec{}
		}
	case map[string]any:
		for name, val := range v {
			out[camelize(name)] = normalizePropEntry(val)
		}
	}
	return out
}

func normalizePropEntry(val any) *PropSpec {
	switch v := val.(type) {
	case string:
		return &PropSpec{Type: []string{v}}
	case []string:
		return &PropSpec{Type: append([]string(nil), v...)}
	case *PropSpec:
		return v
	case map[string]any:
		spec := &PropSpec{}
		if t, ok := v["type"]; ok {
			spec.Type = toTypeList(t)
		}
		if d, ok := v["default"]; ok {
			spec.Default = d
		}
		if r, ok := v["required"].(bool); ok {
			spec.Required = r
		}
		if fn, ok := v["validator"].(func(any) bool); ok {
			spec.Validator = fn
		}
		return spec
	default:
		return &PropSpec{}
	}
}

func toTypeList(t any) []string {
	switch v := t.(type) {
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	default:
		return nil
	}
}

// NormalizeInject accepts the three raw shapes spec.md section 4.4 allows for
// "inject":
//
//   - []string{"key", ...}                 -> {key: {From: key}}
//   - map[string]any{"key": "otherKey"}     -> {key: {From: otherKey}}
//   - map[string]any{"key": descriptorMap}   -> descriptor merged with {From: key} default
func NormalizeInject(raw any) map[string]*InjectSpec {
	out := make(map[string]*InjectSpec)
	switch v := raw.(type) {
	case nil:
		return out
	case []string:
		for _, key := range v {
			out[key] = &InjectSpec{From: key}
		}
	case map[string]any:
		for key, val := range v {
			spec := &InjectSpec{From: key}
			switch vv := val.(type) {
			case string:
				spec.From = vv
			case map[string]any:
				if from, ok := vv["from"].(string); ok {
					spec.From = from
				}
				if def, ok := vv["default"]; ok {
					spec.Default = def
				}
			}
			out[key] = spec
		}
	}
	return out
}

// NormalizeDirectives wraps a bare bind-only function into
// {Bind: fn, Update: fn}, matching spec.md section 4.4.
func NormalizeDirectives(raw map[string]any) map[string]*DirectiveSpec {
	out := make(map[string]*DirectiveSpec, len(raw))
	for id, val := range raw {
		switch v := val.(type) {
		case func(el any, binding any):
			out[id] = &DirectiveSpec{Bind: v, Update: v}
		case *DirectiveSpec:
			out[id] = v
		}
	}
	return out
}

// validElementNameRE approximates the HTML5 custom-element name grammar:
// a letter followed by letters, digits, dots, underscores and dashes.
// Neither lowercase nor a hyphen is required.
var validElementNameRE = regexp.MustCompile(`^[a-zA-Z][-.0-9_a-zA-Z]*$`)

// reservedTags mirrors isReservedTag: built-in elements that may not be
// registered as component/directive/filter names.
var reservedTags = map[string]bool{
	"slot": true, "component": true,
	"html": true, "body": true, "head": true, "script": true, "style": true,
}

// IsValidAssetID reports whether id is legal for a component, directive,
// or filter registration (spec.md section 4.4: "checked for valid names ...;
// reject reserved/built-in tags").
func IsValidAssetID(id string) bool {
	if reservedTags[strings.ToLower(id)] {
		return false
	}
	return validElementNameRE.MatchString(id)
}
