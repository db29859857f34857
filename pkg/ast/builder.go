package ast

import "strings"

// reservedTags are platform (HTML5) element names; anything else is
// treated as a component per spec section 4.11's isStatic rule.
var reservedTags = map[string]bool{
	"div": true, "span": true, "p": true, "a": true, "ul": true, "li": true,
	"ol": true, "table": true, "tr": true, "td": true, "th": true,
	"thead": true, "tbody": true, "tfoot": true, "form": true, "input": true,
	"button": true, "select": true, "option": true, "textarea": true,
	"label": true, "img": true, "br": true, "hr": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"footer": true, "nav": true, "main": true, "section": true,
	"article": true, "aside": true, "figure": true, "figcaption": true,
	"pre": true, "code": true, "strong": true, "em": true, "b": true,
	"i": true, "small": true, "svg": true, "path": true, "style": true,
	"script": true, "template": true, "html": true, "head": true,
	"body": true, "title": true, "meta": true, "link": true,
}

// builtInTags (slot, component) are never promoted to static, per spec.
var builtInTags = map[string]bool{"slot": true, "component": true}

// Builder turns the htmlparser event stream into a Node tree. It owns
// no parsing logic of its own: OnStart/OnEnd/OnChars/OnComment are
// meant to be wired directly as htmlparser.Options callbacks.
type Builder struct {
	Root    *Node
	Delim   [2]string // mustache delimiters forwarded to the text parser
	ParseText func(text string, delim [2]string) (expression string, segments []TextSegment, ok bool)

	stack []*Node
	warns []string
}

// NewBuilder constructs a Builder; parseText is usually
// htmlparser.ParseText adapted to this signature (kept as an injected
// func so pkg/ast never imports pkg/htmlparser).
func NewBuilder(parseText func(text string, delim [2]string) (string, []TextSegment, bool)) *Builder {
	return &Builder{Delim: [2]string{"{{", "}}"}, ParseText: parseText}
}

func (b *Builder) current() *Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *Builder) attach(n *Node) {
	if parent := b.current(); parent != nil {
		parent.AppendChild(n)
	} else if b.Root == nil {
		b.Root = n
	}
}

// OnStart implements htmlparser.Options.Start: builds an element node,
// splits the structural directives (v-if/v-else-if/v-else/v-for/v-pre)
// out of the plain attribute list, and pushes it unless unary. Bindings
// (v-bind/:, v-on/@, v-model) stay in Attrs and set HasBindings.
func (b *Builder) OnStart(tag string, attrs []Attribute, unary bool, start, end int) {
	n := NewElement(tag, nil, start)
	n.End = end
	n.Unary = unary

	var plain []Attribute
	for _, a := range attrs {
		switch {
		case a.Name == "v-pre":
			n.Pre = true
		case a.Name == "v-if":
			n.If = a.Value
		case a.Name == "v-else-if":
			n.ElseIf = a.Value
		case a.Name == "v-else":
			n.Else = true
		case a.Name == "v-for":
			item, index, iterable := parseFor(a.Value)
			n.For = iterable
			n.ForItem = item
			n.ForIndex = index
		case strings.HasPrefix(a.Name, "v-bind:") || strings.HasPrefix(a.Name, ":"):
			n.HasBindings = true
			plain = append(plain, a)
		case strings.HasPrefix(a.Name, "v-on:") || strings.HasPrefix(a.Name, "@"):
			n.HasBindings = true
			plain = append(plain, a)
		case a.Name == "v-model":
			n.HasBindings = true
			plain = append(plain, a)
		default:
			plain = append(plain, a)
		}
	}
	n.Attrs = plain
	n.Plain = len(plain) == 0 && n.If == "" && n.ElseIf == "" && !n.Else && n.For == "" && !n.Pre

	if n.If != "" {
		n.IfConditions = append(n.IfConditions, IfCondition{Condition: n.If, Block: n})
	}

	b.attach(n)
	if !unary {
		b.stack = append(b.stack, n)
	}
}

// OnEnd implements htmlparser.Options.End: pops the matching open
// element. Mismatched end tags (already reported by the scanner's Warn
// callback) are tolerated by popping whatever is on top.
func (b *Builder) OnEnd(tag string, start, end int) {
	if len(b.stack) == 0 {
		return
	}
	top := b.stack[len(b.stack)-1]
	top.End = end
	b.stack = b.stack[:len(b.stack)-1]
}

// OnChars implements htmlparser.Options.Chars: emits a text node,
// tokenizing mustache interpolation when ParseText is set.
func (b *Builder) OnChars(text string, start, end int) {
	if strings.TrimSpace(text) == "" && b.current() == nil {
		return
	}
	var segments []TextSegment
	if b.ParseText != nil {
		if _, segs, ok := b.ParseText(text, b.Delim); ok {
			segments = segs
		}
	}
	b.attach(NewText(text, segments, start, end))
}

// OnComment implements htmlparser.Options.Comment.
func (b *Builder) OnComment(text string, start, end int) {
	b.attach(NewComment(text, start, end))
}

// OnWarn collects scanner/builder warnings for later inspection.
func (b *Builder) OnWarn(msg string, pos int) {
	b.warns = append(b.warns, msg)
}

// Warnings returns every warning collected during the build.
func (b *Builder) Warnings() []string { return b.warns }

// IsReservedTag reports whether tag is a platform HTML element (as
// opposed to a component).
func IsReservedTag(tag string) bool { return reservedTags[strings.ToLower(tag)] }

// IsBuiltInTag reports whether tag is a framework built-in (slot,
// component) that is never eligible for static promotion.
func IsBuiltInTag(tag string) bool { return builtInTags[strings.ToLower(tag)] }

// parseFor parses a "v-for" value of the form "item in list",
// "(item, index) in list", or "item of list".
func parseFor(s string) (item, index, iterable string) {
	s = strings.TrimSpace(s)
	sep := " in "
	i := strings.Index(s, sep)
	if i < 0 {
		sep = " of "
		i = strings.Index(s, sep)
	}
	if i < 0 {
		return "", "", s
	}
	alias := strings.TrimSpace(s[:i])
	iterable = strings.TrimSpace(s[i+len(sep):])
	alias = strings.TrimPrefix(alias, "(")
	alias = strings.TrimSuffix(alias, ")")
	parts := strings.SplitN(alias, ",", 2)
	item = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		index = strings.TrimSpace(parts[1])
	}
	return item, index, iterable
}
