package engine

import "sync"

// Scheduler runs the acknowledgement of a propagated change. Until it
// runs, edits are queued instead of applied.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(fn func()) { f(fn) }

// ImmediateScheduler acknowledges as soon as synchronous delivery ends.
var ImmediateScheduler Scheduler = SchedulerFunc(func(fn func()) { fn() })

// QueueScheduler holds callbacks until Flush, like a host microtask queue.
type QueueScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// Schedule implements Scheduler.
func (q *QueueScheduler) Schedule(fn func()) {
	q.mu.Lock()
	q.queue = append(q.queue, fn)
	q.mu.Unlock()
}

// Pending returns the number of callbacks waiting.
func (q *QueueScheduler) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Flush runs callbacks until the queue is empty, including callbacks
// scheduled while flushing. It returns how many ran.
func (q *QueueScheduler) Flush() int {
	n := 0
	for {
		q.mu.Lock()
		if len(q.queue) == 0 {
			q.mu.Unlock()
			return n
		}
		fn := q.queue[0]
		q.queue = q.queue[1:]
		q.mu.Unlock()

		fn()
		n++
	}
}
