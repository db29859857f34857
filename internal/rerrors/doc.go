// Package rerrors provides structured, source-located errors shared
// across the reactive core, option merger, template parser, and CLI:
// a registered error code maps to a category, message, and doc link,
// and can be annotated with a source location, a fix suggestion, and
// an example before being pretty-printed to a terminal.
package rerrors
