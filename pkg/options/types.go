package options

// Record is a component's raw or merged option set, keyed by option
// name: "data", "props", "computed", "methods", "watch", "provide",
// "inject", "components", "directives", "filters", "mixins",
// "extends", lifecycle hook names, "el", "name", "propsData", ...
type Record map[string]any

// Hook is a single lifecycle callback.
type Hook func(vm any)

// PropSpec is the canonical per-prop descriptor after normalization
// (spec section 4.4 "props" normalization).
type PropSpec struct {
	Type      []string // constructor-name strings: "String", "Number", "Boolean", "Array", "Object", "Function", ...
	Default   any       // static default, or a func() any for Object/Array
	Required  bool
	Validator func(value any) bool
}

// InjectSpec is the canonical per-key descriptor after normalization
// (spec section 4.4 "inject" normalization).
type InjectSpec struct {
	From    string
	Default any
}

// DirectiveSpec is the canonical directive descriptor: bare functions
// normalize to {Bind: fn, Update: fn} (spec section 4.4 "directives").
type DirectiveSpec struct {
	Bind   func(el any, binding any)
	Update func(el any, binding any)
}

// WatchEntry is one raw watch-handler entry for a key; multiple entries
// accumulate across parent/child merges (spec section 4.4 "watch").
type WatchEntry struct {
	Handler  func(newVal, oldVal any)
	Deep     bool
	Immediate bool
}

// AssetMap implements the "new object with parent as prototype chain"
// merge for components/directives/filters: Get walks up to the parent
// map when a key isn't found locally, and OwnKeys reports only this
// level's keys so a freshly-extended subclass can still see its own
// later additions without disturbing the parent's map.
type AssetMap struct {
	parent *AssetMap
	own    map[string]any
}

// NewAssetMap creates an AssetMap chained onto parent (nil for a root).
func NewAssetMap(parent *AssetMap) *AssetMap {
	return &AssetMap{parent: parent, own: make(map[string]any)}
}

// Set registers id (already validated) at this level.
func (m *AssetMap) Set(id string, def any) { m.own[id] = def }

// Get resolves id at this level, falling back through parent levels.
func (m *AssetMap) Get(id string) (any, bool) {
	if v, ok := m.own[id]; ok {
		return v, true
	}
	if m.parent != nil {
		return m.parent.Get(id)
	}
	return nil, false
}

// OwnKeys returns the keys registered directly on this level.
func (m *AssetMap) OwnKeys() []string {
	keys := make([]string, 0, len(m.own))
	for k := range m.own {
		keys = append(keys, k)
	}
	return keys
}
