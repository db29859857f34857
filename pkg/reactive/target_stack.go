package reactive

import (
	"runtime"
	"sync"
)

// Target is anything that can sit on the active-target stack and be
// subscribed to a Dep: only *Watcher implements it, but the indirection
// keeps Dep from importing Watcher's concrete fields.
type Target interface {
	ID() uint64
	addDep(d *Dep)
}

// evalContext holds the per-goroutine reactive bookkeeping: the stack
// of watchers currently being evaluated and the batch nesting depth.
// Each goroutine gets its own context so that concurrent renders never
// see each other's active target.
type evalContext struct {
	stack      []Target
	batchDepth int
}

var contexts sync.Map // goroutine id -> *evalContext

// goroutineID extracts the calling goroutine's id from its stack trace
// header ("goroutine <id> ..."), so per-goroutine state can be keyed
// without a context argument threaded through every call.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func currentContext() *evalContext {
	gid := goroutineID()
	if v, ok := contexts.Load(gid); ok {
		return v.(*evalContext)
	}
	ctx := &evalContext{}
	contexts.Store(gid, ctx)
	return ctx
}

// pushTarget pushes target onto the active-target stack. A nil target
// is a valid push: it is used to suspend dependency collection (e.g.
// while invoking a data() factory) without disturbing the stack depth.
func pushTarget(target Target) {
	ctx := currentContext()
	ctx.stack = append(ctx.stack, target)
}

// popTarget pops the most recently pushed target.
func popTarget() {
	ctx := currentContext()
	n := len(ctx.stack)
	if n == 0 {
		return
	}
	ctx.stack = ctx.stack[:n-1]
}

// currentTarget returns the target on top of the stack, or nil if the
// stack is empty or the top was pushed as nil.
func currentTarget() Target {
	ctx := currentContext()
	n := len(ctx.stack)
	if n == 0 {
		return nil
	}
	return ctx.stack[n-1]
}

// WithTrackingDisabled runs fn with a nil target pushed onto the active-
// target stack, so any Dep read during fn collects no dependency. Used
// to invoke a data() factory without it being captured by
// whatever watcher is currently evaluating (spec section 4.5 step 8).
func WithTrackingDisabled(fn func()) {
	pushTarget(nil)
	defer popTarget()
	fn()
}
