package ast_test

import (
	"testing"

	. "github.com/vuecore/vuecore/pkg/ast"
	"github.com/vuecore/vuecore/pkg/htmlparser"
)

func parseTextAdapter(text string, delim [2]string) (string, []TextSegment, bool) {
	res, ok := htmlparser.ParseText(text, htmlparser.Delimiters(delim))
	if !ok {
		return "", nil, false
	}
	segments := make([]TextSegment, 0, len(res.RawTokens))
	for _, rt := range res.RawTokens {
		if rt.Binding != "" {
			segments = append(segments, TextSegment{Expression: true, Text: rt.Binding})
		} else {
			segments = append(segments, TextSegment{Text: rt.Literal})
		}
	}
	return res.Expression, segments, true
}

func buildFrom(t *testing.T, html string) *Builder {
	t.Helper()
	b := NewBuilder(parseTextAdapter)
	htmlparser.Parse(html, htmlparser.Options{
		ExpectHTML: true,
		Start:      b.OnStart,
		End:        b.OnEnd,
		Chars:      b.OnChars,
		Comment:    b.OnComment,
		Warn:       b.OnWarn,
	})
	return b
}

func TestBuilderBuildsNestedTree(t *testing.T) {
	b := buildFrom(t, `<div id="app"><p>{{ msg }}</p></div>`)
	if b.Root == nil || b.Root.Tag != "div" {
		t.Fatalf("expected root div, got %+v", b.Root)
	}
	if len(b.Root.Children) != 1 || b.Root.Children[0].Tag != "p" {
		t.Fatalf("expected single p child, got %+v", b.Root.Children)
	}
	text := b.Root.Children[0].Children[0]
	if !text.IsInterpolated() {
		t.Fatalf("expected interpolated text node, got %+v", text)
	}
}

func TestBuilderSplitsDirectiveAttributes(t *testing.T) {
	b := buildFrom(t, `<li v-for="item in items" :key="item.id">{{ item.name }}</li>`)
	n := b.Root
	if n.For != "items" || n.ForItem != "item" {
		t.Fatalf("expected v-for parsed, got For=%q ForItem=%q", n.For, n.ForItem)
	}
	if !n.HasBindings {
		t.Fatal("expected :key to mark HasBindings")
	}
	for _, a := range n.Attrs {
		if a.Name == "v-for" {
			t.Fatal("v-for must not remain in the plain attribute list")
		}
	}
}

func TestBuilderVIfSetsCondition(t *testing.T) {
	b := buildFrom(t, `<div v-if="show">yes</div>`)
	if b.Root.If != "show" {
		t.Fatalf("expected If=show, got %q", b.Root.If)
	}
}
