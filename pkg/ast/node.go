package ast

// NodeType tags the concrete shape of a Node.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
	CommentNode
)

// Attribute is one attribute found on a start tag. Dynamic is true for
// `v-bind:x`/`:x` and bracketed-argument forms (`v-on:[event]`); Value
// then holds the raw expression text rather than a literal string.
type Attribute struct {
	Name    string
	Value   string
	Dynamic bool
}

// TextSegment is produced by the mustache tokenizer (pkg/htmlparser/text.go):
// either a plain-string span or an interpolated expression.
type TextSegment struct {
	Expression bool
	Text       string // plain text, or the raw expression when Expression is true
}

// Node is one element/text/comment in the parsed template tree. It is
// deliberately shaped like the teacher's vnode tree (pkg/vdom/vnode.go)
// so the optimizer and any future renderer can walk it the same way.
type Node struct {
	Type NodeType

	// ElementNode fields.
	Tag      string
	Attrs    []Attribute
	Parent   *Node `json:"-"` // back-pointer; omitted so the compile command's JSON output doesn't recurse through it
	Children []*Node
	Unary    bool // self-closing / void element (<br>, <img>, ...)

	// TextNode fields.
	Text     string
	Segments []TextSegment // non-nil only when Text contains {{ }} interpolation

	// Directive-derived fields, filled in by the AST builder from v-if/
	// v-for/v-else/v-pre attributes (pkg/ast/builder.go). A plain HTML
	// attribute never populates these.
	Pre          bool
	If           string
	ElseIf       string
	Else         bool
	For          string
	ForItem      string
	ForIndex     string
	IfConditions []IfCondition
	HasBindings  bool // has a v-bind/: or v-on/@ or v-model attribute
	Plain        bool // no attrs and no directives at all

	// Optimizer-assigned flags (pkg/optimizer).
	Static      bool
	StaticRoot  bool
	StaticInFor bool

	// Source offsets, inclusive start / exclusive end, for diagnostics.
	Start int
	End   int
}

// IfCondition pairs a (possibly empty, for the trailing v-else) condition
// expression with the block it guards. For a v-if node itself, Block is
// the node's own pointer (the optimizer's walk skips that self-reference);
// Block is omitted from JSON since it would otherwise re-encode the
// whole subtree (or, for the self case, cycle forever).
type IfCondition struct {
	Condition string
	Block     *Node `json:"-"`
}

// NewElement constructs an element node with no children yet.
func NewElement(tag string, attrs []Attribute, start int) *Node {
	return &Node{Type: ElementNode, Tag: tag, Attrs: attrs, Start: start}
}

// NewText constructs a plain or interpolated text node.
func NewText(text string, segments []TextSegment, start, end int) *Node {
	return &Node{Type: TextNode, Text: text, Segments: segments, Start: start, End: end}
}

// NewComment constructs a comment node.
func NewComment(text string, start, end int) *Node {
	return &Node{Type: CommentNode, Text: text, Start: start, End: end}
}

// AppendChild links child under n, setting child.Parent.
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Attr returns the value of the named attribute and whether it was
// present at all.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// IsInterpolated reports whether a text node has at least one mustache
// expression segment.
func (n *Node) IsInterpolated() bool {
	return n.Type == TextNode && len(n.Segments) > 0
}

// Walk visits n and every descendant, depth-first, pre-order.
func (n *Node) Walk(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}
