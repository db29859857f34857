// Package ast defines the element/text tree the template parser and
// optimizer operate on: a minimal DOM-shaped tree with attribute lists,
// mustache-tokenized text nodes, and the static/staticRoot flags the
// optimizer sets.
package ast
