package options

import "sync/atomic"

var idCounter uint64

// nextID returns a monotonically increasing id, used as a
// ComponentDefinition's cache-key identity.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}
