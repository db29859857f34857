package options

import "errors"

// ErrInvalidExtends is returned when a Record's "extends" value isn't a
// Record or map[string]any.
var ErrInvalidExtends = errors.New("options: extends must be a Record")

// ErrInvalidMixins is returned when a Record's "mixins" value isn't a
// slice of Record/map[string]any.
var ErrInvalidMixins = errors.New("options: mixins must be a slice of Record")

// MergeOptions reduces parent and child option records to a single
// merged Record using the per-key strategy table, after folding child's
// "extends" and "mixins" chain into parent (spec.md section 4.4:
// "mergeOptions also folds child.extends and each entry of
// child.mixins into parent before the per-key pass, unless child._base
// marks the record as already-merged").
//
// hasInstance distinguishes a class-definition-time merge (extend,
// mixin folding) from an instantiation-time merge, which gates the
// "el"/"propsData" strategy and the eager form of "data"/"provide".
func MergeOptions(parent, child Record, hasInstance bool) (Record, error) {
	if child == nil {
		child = Record{}
	}
	if parent == nil {
		parent = Record{}
	}

	if child["_base"] == nil {
		if ext, ok := child["extends"]; ok {
			extRecord, err := toRecord(ext)
			if err != nil {
				return nil, err
			}
			var err2 error
			parent, err2 = MergeOptions(parent, extRecord, hasInstance)
			if err2 != nil {
				return nil, err2
			}
		}
		if mixins, ok := child["mixins"]; ok {
			list, err := toRecordSlice(mixins)
			if err != nil {
				return nil, err
			}
			for _, m := range list {
				var err2 error
				parent, err2 = MergeOptions(parent, m, hasInstance)
				if err2 != nil {
					return nil, err2
				}
			}
		}
	}

	child = normalizeChildShapes(child)

	keys := make(map[string]bool, len(parent)+len(child))
	for k := range parent {
		keys[k] = true
	}
	for k := range child {
		keys[k] = true
	}
	delete(keys, "extends")
	delete(keys, "mixins")
	delete(keys, "_base")

	result := make(Record, len(keys))
	for key := range keys {
		strategy := strategyFor(key)
		merged, err := strategy(parent[key], child[key], hasInstance)
		if err != nil {
			return nil, err
		}
		if merged != nil {
			result[key] = merged
		}
	}
	return result, nil
}

// normalizeChildShapes runs the props/inject/directives normalizers over
// the raw shapes a user is allowed to author, so the per-key strategies
// only ever see canonical maps.
func normalizeChildShapes(child Record) Record {
	out := make(Record, len(child))
	for k, v := range child {
		out[k] = v
	}
	if v, ok := out["props"]; ok {
		out["props"] = normalizedPropsAsAny(v)
	}
	if v, ok := out["inject"]; ok {
		out["inject"] = normalizedInjectAsAny(v)
	}
	if v, ok := out["directives"]; ok {
		if m, ok2 := v.(map[string]any); ok2 {
			out["directives"] = normalizedDirectivesAsAny(NormalizeDirectives(m))
		}
	}
	return out
}

func normalizedPropsAsAny(v any) map[string]any {
	specs := NormalizeProps(v)
	out := make(map[string]any, len(specs))
	for k, s := range specs {
		out[k] = s
	}
	return out
}

func normalizedInjectAsAny(v any) map[string]any {
	specs := NormalizeInject(v)
	out := make(map[string]any, len(specs))
	for k, s := range specs {
		out[k] = s
	}
	return out
}

func normalizedDirectivesAsAny(specs map[string]*DirectiveSpec) map[string]any {
	out := make(map[string]any, len(specs))
	for k, s := range specs {
		out[k] = s
	}
	return out
}

func toRecord(v any) (Record, error) {
	switch r := v.(type) {
	case Record:
		return r, nil
	case map[string]any:
		return Record(r), nil
	case nil:
		return Record{}, nil
	default:
		return nil, ErrInvalidExtends
	}
}

func toRecordSlice(v any) ([]Record, error) {
	switch s := v.(type) {
	case []Record:
		return s, nil
	case []any:
		out := make([]Record, 0, len(s))
		for _, item := range s {
			r, err := toRecord(item)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, ErrInvalidMixins
	}
}
