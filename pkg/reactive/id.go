package reactive

import "sync/atomic"

var idCounter uint64

// nextID returns a monotonically increasing id shared by every Dep and
// Watcher. Ids are used to order notification (parent before child,
// by creation order) and to deduplicate subscriber sets.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
