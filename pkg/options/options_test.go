package options

import "testing"

func TestNormalizePropsArrayShape(t *testing.T) {
	got := NormalizeProps([]string{"my-favorite", "count"})
	if _, ok := got["myFavorite"]; !ok {
		t.Fatalf("expected camelized key myFavorite, got %v", got)
	}
	if _, ok := got["count"]; !ok {
		t.Fatalf("expected key count, got %v", got)
	}
}

func TestNormalizePropsDescriptorShape(t *testing.T) {
	got := NormalizeProps(map[string]any{
		"size": map[string]any{
			"type":     "Number",
			"default":  3,
			"required": true,
		},
	})
	spec, ok := got["size"]
	if !ok {
		t.Fatalf("expected key size, got %v", got)
	}
	if len(spec.Type) != 1 || spec.Type[0] != "Number" {
		t.Fatalf("expected Type [Number], got %v", spec.Type)
	}
	if spec.Default != 3 || !spec.Required {
		t.Fatalf("expected default 3 and required, got %+v", spec)
	}
}

func TestNormalizeInjectShapes(t *testing.T) {
	got := NormalizeInject([]string{"theme"})
	if got["theme"].From != "theme" {
		t.Fatalf("expected From theme, got %+v", got["theme"])
	}

	got2 := NormalizeInject(map[string]any{
		"themeColor": map[string]any{"from": "theme", "default": "blue"},
	})
	if got2["themeColor"].From != "theme" || got2["themeColor"].Default != "blue" {
		t.Fatalf("unexpected descriptor shape result: %+v", got2["themeColor"])
	}
}

func TestIsValidAssetID(t *testing.T) {
	cases := map[string]bool{
		"my-widget": true,
		"slot":      false,
		"Script":    false,
		"":          false,
	}
	for id, want := range cases {
		if got := IsValidAssetID(id); got != want {
			t.Errorf("IsValidAssetID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestMergeHooksConcatenatesAndDedupes(t *testing.T) {
	var calls []string
	parentHook := Hook(func(any) { calls = append(calls, "parent") })
	childHook := Hook(func(any) { calls = append(calls, "child") })

	merged, err := mergeHooks([]Hook{parentHook}, []Hook{parentHook, childHook}, false)
	if err != nil {
		t.Fatalf("mergeHooks: %v", err)
	}
	hooks := merged.([]Hook)
	if len(hooks) != 2 {
		t.Fatalf("expected dedup to leave 2 hooks, got %d", len(hooks))
	}
	for _, h := range hooks {
		h(nil)
	}
	if len(calls) != 2 || calls[0] != "parent" || calls[1] != "child" {
		t.Fatalf("expected parent-before-child call order, got %v", calls)
	}
}

func TestMergeDataWithoutInstanceRequiresFunctions(t *testing.T) {
	_, err := mergeDataOrProvide(map[string]any{"a": 1}, func() map[string]any { return nil }, false)
	if err != ErrDataMustBeFunc {
		t.Fatalf("expected ErrDataMustBeFunc, got %v", err)
	}
}

func TestMergeDataDeepMergesAtInstanceTime(t *testing.T) {
	parent := func() map[string]any { return map[string]any{"nested": map[string]any{"a": 1, "b": 2}} }
	child := func() map[string]any { return map[string]any{"nested": map[string]any{"b": 3, "c": 4}} }

	merged, err := mergeDataOrProvide(parent, child, true)
	if err != nil {
		t.Fatalf("mergeDataOrProvide: %v", err)
	}
	data := merged.(map[string]any)
	nested := data["nested"].(map[string]any)
	if nested["a"] != 1 || nested["b"] != 3 || nested["c"] != 4 {
		t.Fatalf("expected deep merge with child winning, got %+v", nested)
	}
}

func TestMergeAssetsChainsToParent(t *testing.T) {
	parent := NewAssetMap(nil)
	parent.Set("base-widget", "parentDef")

	merged, err := mergeAssets(parent, map[string]any{"child-widget": "childDef"}, false)
	if err != nil {
		t.Fatalf("mergeAssets: %v", err)
	}
	am := merged.(*AssetMap)
	if v, ok := am.Get("base-widget"); !ok || v != "parentDef" {
		t.Fatalf("expected inherited base-widget, got %v, %v", v, ok)
	}
	if v, ok := am.Get("child-widget"); !ok || v != "childDef" {
		t.Fatalf("expected own child-widget, got %v, %v", v, ok)
	}
	if _, ok := am.Get("slot"); ok {
		t.Fatalf("reserved tag 'slot' should never be registered")
	}
}

func TestMergeOptionsFoldsExtendsAndMixins(t *testing.T) {
	base := Record{"methods": map[string]any{"base": func() {}}}
	mixin := Record{"methods": map[string]any{"mixed": func() {}}}
	child := Record{
		"extends": base,
		"mixins":  []Record{mixin},
		"methods": map[string]any{"own": func() {}},
	}

	merged, err := MergeOptions(Record{}, child, false)
	if err != nil {
		t.Fatalf("MergeOptions: %v", err)
	}
	methods := merged["methods"].(map[string]any)
	for _, name := range []string{"base", "mixed", "own"} {
		if _, ok := methods[name]; !ok {
			t.Errorf("expected merged methods to include %q, got %v", name, methods)
		}
	}
	if _, ok := merged["extends"]; ok {
		t.Errorf("extends should not appear in the merged result")
	}
	if _, ok := merged["mixins"]; ok {
		t.Errorf("mixins should not appear in the merged result")
	}
}

func TestMergeOptionsRejectsElWithoutInstance(t *testing.T) {
	_, err := MergeOptions(Record{}, Record{"el": "#app"}, false)
	if err != ErrElOnlyWithInstance {
		t.Fatalf("expected ErrElOnlyWithInstance, got %v", err)
	}
	merged, err := MergeOptions(Record{}, Record{"el": "#app"}, true)
	if err != nil {
		t.Fatalf("MergeOptions with instance: %v", err)
	}
	if merged["el"] != "#app" {
		t.Fatalf("expected el to pass through when hasInstance, got %v", merged["el"])
	}
}

func TestExtendCachesBySuperAndOptionsIdentity(t *testing.T) {
	root, err := NewRootDefinition(Record{"name": "Base"})
	if err != nil {
		t.Fatalf("NewRootDefinition: %v", err)
	}
	raw := Record{"name": "Child"}
	child1, err := Extend(root, raw)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	child2, err := Extend(root, raw)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if child1 != child2 {
		t.Fatalf("expected Extend to cache per (super, options) pair")
	}
}

func TestResolveOptionsPicksUpLateGlobalMixin(t *testing.T) {
	root, err := NewRootDefinition(Record{"methods": map[string]any{"base": func() {}}})
	if err != nil {
		t.Fatalf("NewRootDefinition: %v", err)
	}
	child, err := Extend(root, Record{"methods": map[string]any{"own": func() {}}})
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}

	resolved, err := child.ResolveOptions()
	if err != nil {
		t.Fatalf("ResolveOptions: %v", err)
	}
	methods := resolved["methods"].(map[string]any)
	if _, ok := methods["late"]; ok {
		t.Fatalf("late mixin should not be visible yet")
	}

	if err := root.ApplyGlobalMixin(Record{"methods": map[string]any{"late": func() {}}}); err != nil {
		t.Fatalf("ApplyGlobalMixin: %v", err)
	}

	resolved, err = child.ResolveOptions()
	if err != nil {
		t.Fatalf("ResolveOptions after mixin: %v", err)
	}
	methods = resolved["methods"].(map[string]any)
	for _, name := range []string{"base", "own", "late"} {
		if _, ok := methods[name]; !ok {
			t.Errorf("expected late-mixed-in methods to include %q, got %v", name, methods)
		}
	}
}

func TestMergeWatchConcatenatesRawEntries(t *testing.T) {
	parentHandler := func(newVal, oldVal any) {}
	childHandler := func(newVal, oldVal any) {}

	merged, err := MergeOptions(
		Record{"watch": map[string]any{"x": parentHandler}},
		Record{"watch": map[string]any{"x": childHandler}},
		false,
	)
	if err != nil {
		t.Fatalf("MergeOptions: %v", err)
	}
	entries := merged["watch"].(map[string][]WatchEntry)
	if len(entries["x"]) != 2 {
		t.Fatalf("expected parent and child watch handlers concatenated, got %d", len(entries["x"]))
	}
}

func TestMergeWatchIsIdempotentOverAlreadyCanonicalChild(t *testing.T) {
	handler := func(newVal, oldVal any) {}
	canonical := map[string][]WatchEntry{"x": {{Handler: handler}}}

	out, err := mergeWatch(nil, canonical, false)
	if err != nil {
		t.Fatalf("mergeWatch: %v", err)
	}
	got := out.(map[string][]WatchEntry)
	if len(got["x"]) != 1 {
		t.Fatalf("expected a single entry to survive a second merge pass, got %d", len(got["x"]))
	}
}
