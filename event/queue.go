package event

import (
	"sync/atomic"

	"github.com/lixenwraith/vi-drive/parameter"
)

// Queue is a lock-free MPSC ring buffer of input events.
//   - Push: CAS on tail, any number of producers
//   - Consume: single consumer (frame loop)
//   - published flags keep the consumer off half-written slots
//
// When full the oldest unread events are overwritten.
type Queue struct {
	events    [parameter.EventQueueSize]Event
	published [parameter.EventQueueSize]atomic.Bool
	head      atomic.Uint64 // read index
	tail      atomic.Uint64 // write index
	dropped   atomic.Uint64
}

// NewQueue returns an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends ev
func (q *Queue) Push(ev Event) {
	for {
		tail := q.tail.Load()
		next := tail + 1
		if !q.tail.CompareAndSwap(tail, next) {
			continue
		}

		idx := tail & parameter.EventBufferMask
		q.events[idx] = ev
		q.published[idx].Store(true) // after the write

		head := q.head.Load()
		if next-head > parameter.EventQueueSize {
			if q.head.CompareAndSwap(head, next-parameter.EventQueueSize) {
				q.dropped.Add(next - parameter.EventQueueSize - head)
			}
		}
		return
	}
}

// Consume returns pending events in push order and marks them read
func (q *Queue) Consume() []Event {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail == head {
			return nil
		}

		available := tail - head
		if available > parameter.EventQueueSize {
			available = parameter.EventQueueSize
			head = tail - parameter.EventQueueSize
		}

		out := make([]Event, 0, available)
		for i := uint64(0); i < available; i++ {
			idx := (head + i) & parameter.EventBufferMask
			if !q.published[idx].Load() {
				break // producer still writing
			}
			out = append(out, q.events[idx])
			q.published[idx].Store(false)
		}

		if q.head.CompareAndSwap(head, head+uint64(len(out))) {
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// Len returns the approximate number of unread events
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	n := int(tail - head)
	if n > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return n
}

// Dropped returns how many events were overwritten before being read
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
