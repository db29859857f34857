// Package registry publishes and fetches compiled, static-root-annotated
// template ASTs to/from an S3-compatible object store. It is genuinely
// optional: a nil client turns every call into a no-op error, since
// nothing in the reactive/options/template core ever requires network I/O.
package registry
