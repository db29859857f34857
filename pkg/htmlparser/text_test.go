package htmlparser

import "testing"

func TestParseTextNoInterpolationReturnsFalse(t *testing.T) {
	_, ok := ParseText("just plain text", defaultDelimiters)
	if ok {
		t.Fatal("expected plain text to have no interpolation result")
	}
}

func TestParseTextSingleExpression(t *testing.T) {
	res, ok := ParseText("hello {{ name }}!", defaultDelimiters)
	if !ok {
		t.Fatal("expected interpolation to be detected")
	}
	if len(res.RawTokens) != 3 {
		t.Fatalf("expected 3 raw tokens (literal + binding + trailing literal), got %v", res.RawTokens)
	}
	if res.RawTokens[0].Literal != "hello " {
		t.Fatalf("unexpected leading literal: %q", res.RawTokens[0].Literal)
	}
	if res.RawTokens[1].Binding != "name" {
		t.Fatalf("unexpected binding: %q", res.RawTokens[1].Binding)
	}
	if res.RawTokens[2].Literal != "!" {
		t.Fatalf("unexpected trailing literal: %q", res.RawTokens[2].Literal)
	}
	if res.Expression == "" {
		t.Fatal("expected a non-empty joined expression")
	}
}

func TestParseTextCustomDelimiters(t *testing.T) {
	res, ok := ParseText("val: [[ x ]]", Delimiters{"[[", "]]"})
	if !ok {
		t.Fatal("expected custom delimiters to be honored")
	}
	if res.RawTokens[1].Binding != "x" {
		t.Fatalf("unexpected binding: %+v", res.RawTokens)
	}
}

func TestParseTextAppliesFilterChain(t *testing.T) {
	res, _ := ParseText("{{ msg | capitalize | truncate(10) }}", defaultDelimiters)
	want := `_f("truncate")(_f("capitalize")(msg),10)`
	if res.RawTokens[0].Binding != want {
		t.Fatalf("expected filter-rewritten binding %q, got %q", want, res.RawTokens[0].Binding)
	}
}
