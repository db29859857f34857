// Package reactive implements the dependency-tracking core of the
// component runtime: Dep subscriber sets, Watchers (eager, lazy and
// computed), an Observer layer that converts plain Go values into
// reactive object/array graphs, and the synchronous flush scheduler
// that batches watcher re-evaluation.
//
// Evaluation is single-threaded per goroutine: the active-target
// stack is keyed by goroutine id so concurrent renders on separate
// goroutines don't cross-contaminate dependency tracking, mirroring
// how the rest of this codebase treats per-goroutine render state.
package reactive
