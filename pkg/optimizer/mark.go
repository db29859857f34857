package optimizer

import "github.com/vuecore/vuecore/pkg/ast"

// MarkStatic runs spec section 4.11's pass 1, depth-first: a node is
// static only if isStatic(node) holds AND every child (including
// v-else-if/v-else blocks reachable via IfConditions) is also static.
func MarkStatic(n *ast.Node) {
	n.Static = isStatic(n)
	if n.Type != ast.ElementNode {
		return
	}

	for _, c := range n.Children {
		MarkStatic(c)
		if !c.Static {
			n.Static = false
		}
	}
	for _, ic := range n.IfConditions {
		if ic.Block == nil || ic.Block == n {
			continue
		}
		MarkStatic(ic.Block)
		if !ic.Block.Static {
			n.Static = false
		}
	}
}

// MarkStaticRoots runs pass 2. isInFor tracks whether an ancestor
// carries v-for, propagated to isInFor||node.For for children so
// StaticInFor can be set on any static node nested inside a loop.
func MarkStaticRoots(n *ast.Node, isInFor bool) {
	if n.Type != ast.ElementNode {
		return
	}

	if n.Static && len(n.Children) > 0 && !isSingleStaticTextChild(n) {
		n.StaticRoot = true
		return
	}
	n.StaticRoot = false

	childInFor := isInFor || n.For != ""
	for _, c := range n.Children {
		if c.Static {
			c.StaticInFor = childInFor
		}
		MarkStaticRoots(c, childInFor)
	}
	for _, ic := range n.IfConditions {
		if ic.Block == nil || ic.Block == n {
			continue
		}
		MarkStaticRoots(ic.Block, childInFor)
	}
}

func isSingleStaticTextChild(n *ast.Node) bool {
	return len(n.Children) == 1 && n.Children[0].Type == ast.TextNode
}

func isStatic(n *ast.Node) bool {
	switch n.Type {
	case ast.TextNode:
		return !n.IsInterpolated()
	case ast.CommentNode:
		return true
	case ast.ElementNode:
		if n.Pre {
			return true
		}
		if n.HasBindings || n.If != "" || n.ElseIf != "" || n.Else || n.For != "" {
			return false
		}
		if ast.IsBuiltInTag(n.Tag) {
			return false
		}
		if !ast.IsReservedTag(n.Tag) {
			return false
		}
		return !hasForTemplateAncestor(n)
	default:
		return false
	}
}

func hasForTemplateAncestor(n *ast.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Tag == "template" && p.For != "" {
			return true
		}
	}
	return false
}
