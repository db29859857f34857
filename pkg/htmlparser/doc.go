// Package htmlparser implements the single-pass, regex-driven HTML/
// attribute scanner (spec section 4.9) and the mustache text tokenizer
// (spec section 4.10). Neither builds a tree itself; both emit events
// to the callbacks in Options, which pkg/ast's Builder consumes.
package htmlparser
