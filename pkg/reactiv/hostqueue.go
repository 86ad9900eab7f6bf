package reactiv

import "sync"

// hostQueue is the default, bundled implementation of the "external" host
// task queue the spec describes for 'pre' and 'post' flush modes: the
// engine only owns the scheduler function it hands the queue; draining is
// always a decision made outside the write that triggered it. A real
// embedding (e.g. a Bubble Tea Update loop) can ignore this and drive its
// own queue instead — Watch's flush option only needs something that
// implements "enqueue, then flush later" — but this default lets the
// engine be useful standalone.
//
// Adapted from the batching discipline of a map-keyed callback queue:
// re-queuing the same watcher before a flush replaces its pending job
// rather than piling up duplicate runs, the same collapse-on-drain
// behavior trigger already provides for 'sync' watchers via
// shouldSchedule.
type hostQueue struct {
	mu    sync.Mutex
	queue map[*watchJobHandle]func()
}

func newHostQueue() *hostQueue {
	return &hostQueue{queue: make(map[*watchJobHandle]func())}
}

var (
	preQueue  = newHostQueue()
	postQueue = newHostQueue()
)

// watchJobHandle is the dedup key for a queued watcher job: one per Watch
// call, stable for its lifetime.
type watchJobHandle struct{}

func (q *hostQueue) enqueue(handle *watchJobHandle, job func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue[handle] = job
}

func (q *hostQueue) remove(handle *watchJobHandle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.queue, handle)
}

func (q *hostQueue) flush() int {
	q.mu.Lock()
	jobs := q.queue
	q.queue = make(map[*watchJobHandle]func())
	q.mu.Unlock()

	for _, job := range jobs {
		job()
	}
	return len(jobs)
}

func (q *hostQueue) pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// FlushPreWatchers runs every watcher job currently queued with
// WithFlush(FlushPre), in no particular cross-watcher order, and clears
// the queue. Returns the number of jobs executed. Intended to be called by
// the embedding host immediately before it begins producing the next
// frame/update.
func FlushPreWatchers() int { return preQueue.flush() }

// FlushPostWatchers runs every watcher job currently queued with
// WithFlush(FlushPost) (the default), and clears the queue. Intended to be
// called by the embedding host after it finishes rendering/updating, e.g.
// at the end of a Bubble Tea Update.
func FlushPostWatchers() int { return postQueue.flush() }

// PendingPreWatchers reports how many pre-flush jobs are currently queued.
func PendingPreWatchers() int { return preQueue.pending() }

// PendingPostWatchers reports how many post-flush jobs are currently queued.
func PendingPostWatchers() int { return postQueue.pending() }
