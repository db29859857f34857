// Package optimizer implements the two-pass static-node / static-root
// marking described in spec section 4.11, walking the element tree
// pkg/ast's Builder produces.
package optimizer
