package optimizer

import (
	"testing"

	"github.com/vuecore/vuecore/pkg/ast"
)

func TestMarkStaticPlainElementIsStatic(t *testing.T) {
	root := ast.NewElement("div", nil, 0)
	root.AppendChild(ast.NewText("hello", nil, 0, 5))

	MarkStatic(root)

	if !root.Static {
		t.Fatal("expected a plain div with only static text to be marked static")
	}
}

func TestMarkStaticInterpolatedTextIsNotStatic(t *testing.T) {
	root := ast.NewElement("div", nil, 0)
	root.AppendChild(ast.NewText("{{ x }}", []ast.TextSegment{{Expression: true, Text: "x"}}, 0, 7))

	MarkStatic(root)

	if root.Static {
		t.Fatal("expected interpolated text to make the parent non-static")
	}
}

func TestMarkStaticBoundAttributeIsNotStatic(t *testing.T) {
	root := ast.NewElement("div", []ast.Attribute{{Name: ":id", Value: "x", Dynamic: true}}, 0)
	root.HasBindings = true

	MarkStatic(root)

	if root.Static {
		t.Fatal("expected a node with bound attributes to be non-static")
	}
}

func TestMarkStaticComponentTagIsNotStatic(t *testing.T) {
	root := ast.NewElement("MyWidget", nil, 0)

	MarkStatic(root)

	if root.Static {
		t.Fatal("expected a non-reserved (component) tag to be non-static")
	}
}

func TestMarkStaticRootsSkipsSingleTextChild(t *testing.T) {
	root := ast.NewElement("span", nil, 0)
	root.AppendChild(ast.NewText("hi", nil, 0, 2))
	MarkStatic(root)
	MarkStaticRoots(root, false)

	if root.StaticRoot {
		t.Fatal("expected a static element with a single plain-text child not to be promoted")
	}
}

func TestMarkStaticRootsPromotesMultiChildStaticSubtree(t *testing.T) {
	root := ast.NewElement("div", nil, 0)
	root.AppendChild(ast.NewElement("span", nil, 0))
	root.AppendChild(ast.NewElement("span", nil, 0))
	MarkStatic(root)
	MarkStaticRoots(root, false)

	if !root.StaticRoot {
		t.Fatal("expected a static div with multiple static children to become a static root")
	}
}

func TestMarkStaticRootsPropagatesStaticInFor(t *testing.T) {
	root := ast.NewElement("ul", nil, 0)
	item := ast.NewElement("li", nil, 0)
	item.For = "items"
	item.ForItem = "item"
	item.AppendChild(ast.NewElement("span", nil, 0))
	item.AppendChild(ast.NewElement("b", nil, 0))
	root.AppendChild(item)

	MarkStatic(root)
	MarkStaticRoots(root, false)

	for _, c := range item.Children {
		if c.Static && !c.StaticInFor {
			t.Fatalf("expected static child of a v-for element to be flagged StaticInFor: %+v", c)
		}
	}
}
