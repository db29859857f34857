package reactive

import (
	"sync"
	"time"

	"github.com/vuecore/vuecore/internal/rmetrics"
)

// MaxFlushCount bounds how many times a single watcher may run within
// one Flush pass before it is considered cyclic and skipped for the
// remainder of that pass. Mirrors the teacher's per-tick effect-run
// budget (pkg/vango/storm_budget.go's CheckEffectRun), generalized from
// a rate limiter to a flush-local cycle breaker.
const MaxFlushCount = 100

// CycleWarner receives a warning when a watcher is dropped mid-flush
// for exceeding MaxFlushCount. nil is a valid, silent default.
type CycleWarner interface {
	WarnCycle(watcherID uint64, runs int)
}

// Scheduler is a FIFO, id-deduplicated queue of watchers pending
// re-evaluation. Synchronous watchers bypass it entirely (Watcher.Update
// calls Run directly); everything else is enqueued here by Dep.Notify
// via Watcher.Update, and drained by an explicit Flush call.
//
// There is no timer or goroutine inside Scheduler: per spec section 5, nothing
// suspends at the reactivity layer itself. The caller (instance package,
// or a test) decides when to call Flush — typically once per dispatched
// event, mirroring the teacher's RunPendingEffects call site.
type Scheduler struct {
	mu      sync.Mutex
	queue   []*Watcher
	queued  map[uint64]bool
	flushing bool
	warner  CycleWarner
}

// DefaultScheduler is used by watchers that don't specify OnScheduler.
var DefaultScheduler = NewScheduler(nil)

// NewScheduler creates a Scheduler. warner may be nil.
func NewScheduler(warner CycleWarner) *Scheduler {
	return &Scheduler{
		queued: make(map[uint64]bool),
		warner: warner,
	}
}

// Queue appends w to the flush queue unless it is already queued.
func (s *Scheduler) Queue(w *Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.queued[w.id] {
		return
	}
	s.queued[w.id] = true
	s.queue = append(s.queue, w)
}

// Pending reports the current queue depth, for metrics.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Flush drains the queue in ascending-id order, running each watcher.
// A watcher's Run may itself enqueue further watchers (e.g. a computed
// feeding a render watcher); those are appended and drained within the
// same Flush call, matching spec section 5's "appended and flushed in the same
// pass". Watchers are sorted by id on every pass so parent watchers
// (created first) run before children created later, and user watchers
// registered before a render watcher on the same instance run first by
// construction order.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return
	}
	s.flushing = true
	s.mu.Unlock()

	start := time.Now()
	drained := 0
	defer func() { rmetrics.RecordSchedulerFlush(time.Since(start), drained) }()

	runCounts := make(map[uint64]int)

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.flushing = false
			s.mu.Unlock()
			return
		}
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		sortByID(batch)
		drained += len(batch)

		for _, w := range batch {
			s.mu.Lock()
			delete(s.queued, w.id)
			s.mu.Unlock()

			runCounts[w.id]++
			if runCounts[w.id] > MaxFlushCount {
				if s.warner != nil {
					s.warner.WarnCycle(w.id, runCounts[w.id])
				}
				continue
			}
			w.Run()
		}
	}
}

func sortByID(ws []*Watcher) {
	for i := 1; i < len(ws); i++ {
		j := i
		for j > 0 && ws[j-1].id > ws[j].id {
			ws[j-1], ws[j] = ws[j], ws[j-1]
			j--
		}
	}
}
