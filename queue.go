// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// node is one link of the queue. The node at head is the sentinel; its
// value was already taken by the dequeue that made it head (the initial
// sentinel's value is never set) and is not delivered again.
type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// MSQueue is an unbounded Michael & Scott multi-producer multi-consumer
// FIFO.
//
// Producers publish by linking a node at tail and swinging tail forward;
// consumers advance head past the sentinel and take the value of the new
// head. Both sides help a lagging tail along, so a producer suspended
// between the two CASes never blocks anyone.
//
// Unlinked sentinels are not freed in place. A dequeuer retires the old
// sentinel into its hazard record, and the node is released by a later
// sweep once no in-flight operation still announces its address. That
// is what makes the address safe against reuse while a concurrent
// dequeue is still comparing against it.
//
// Memory: one node per element plus the sentinel, reclaimed in batches
// of at most 3*maxThreads+1.
type MSQueue[T any] struct {
	_    pad
	head atomic.Pointer[node[T]]
	_    pad
	tail atomic.Pointer[node[T]]
	_    pad

	domain *Domain[node[T]]
	stats  counters
	closed atomix.Bool
}

// NewMSQueue creates an empty queue sized for at most maxThreads
// goroutines operating on it concurrently. maxThreads bounds concurrent
// participants, not the total number of goroutines that ever touch the
// queue: records hand back when an operation completes, so short-lived
// workers recycle the same state.
//
// Panics if maxThreads < 1.
func NewMSQueue[T any](maxThreads int) *MSQueue[T] {
	if maxThreads < 1 {
		panic("msq: maxThreads must be >= 1")
	}
	q := &MSQueue[T]{}
	q.domain = NewDomain(maxThreads, func(*node[T]) {
		q.stats.destructedNodes.Add(1)
	})

	sentinel := q.newNode()
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

func (q *MSQueue[T]) newNode() *node[T] {
	q.stats.constructedNodes.Add(1)
	return &node[T]{}
}

// Enqueue appends an element to the queue. The element is copied into a
// fresh node, so the caller may reuse it after Enqueue returns.
//
// The queue is unbounded: Enqueue never blocks and the returned error is
// always nil. The error is kept for Producer compatibility.
func (q *MSQueue[T]) Enqueue(elem *T) error {
	n := q.newNode()
	n.value = *elem

	s := q.domain.Session()
	defer s.Release()
	g := s.Guard()
	defer g.Release()

	sw := spin.Wait{}
	for loops := uint64(1); ; loops++ {
		tail := g.Protect(&q.tail)
		next := tail.next.Load()

		if next != nil {
			// Another producer linked but has not swung tail yet; help.
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if tail.next.CompareAndSwap(nil, n) {
			// Linearization point. The swing may fail: someone else
			// already helped, which is fine.
			q.tail.CompareAndSwap(tail, n)

			q.stats.enqueueLoops.Add(loops)
			q.stats.successfulEnqueues.Add(1)
			return nil
		}
		sw.Once()
	}
}

// Dequeue removes and returns the element at the head of the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty; it never
// waits for a producer.
//
// Three hazard guards ride along: head (so the head CAS never races a
// free), tail (compared against head to detect the empty/lagging cases),
// and head.next (dereferenced for the value, so it must be pinned before
// the read).
func (q *MSQueue[T]) Dequeue() (T, error) {
	s := q.domain.Session()
	defer s.Release()
	gHead := s.Guard()
	gTail := s.Guard()
	gNext := s.Guard()
	// LIFO release, reverse of allocation.
	defer gHead.Release()
	defer gTail.Release()
	defer gNext.Release()

	sw := spin.Wait{}
	for loops := uint64(1); ; loops++ {
		head := gHead.Protect(&q.head)
		tail := gTail.Protect(&q.tail)
		next := gNext.Protect(&head.next)

		// head may have moved while tail and next were being pinned; the
		// three reads must describe one head or the empty check lies.
		if head != q.head.Load() {
			sw.Once()
			continue
		}

		if head == tail {
			if next == nil {
				q.stats.emptyDequeues.Add(1)
				var zero T
				return zero, ErrWouldBlock
			}
			// Tail lags behind a half-finished enqueue; help and retry.
			q.tail.CompareAndSwap(tail, next)
			continue
		}

		if q.head.CompareAndSwap(head, next) {
			// next is hazard-pinned, so the value read is safe even
			// after other consumers move past it.
			val := next.value

			// The old sentinel is unreachable now; queue it for
			// reclamation once nobody announces it anymore.
			gHead.Retire()

			q.stats.dequeueLoops.Add(loops)
			q.stats.successfulDequeues.Add(1)
			return val, nil
		}
		sw.Once()
	}
}

// Empty reports whether the queue holds no elements. The sentinel is
// pinned while its next link is read, so a concurrent dequeue cannot
// free it mid-check.
func (q *MSQueue[T]) Empty() bool {
	s := q.domain.Session()
	defer s.Release()
	g := s.Guard()
	defer g.Release()

	head := g.Protect(&q.head)
	return head.next.Load() == nil
}

// Stats returns a snapshot of the queue's counters. See Stats for the
// consistency caveat under concurrent operation.
func (q *MSQueue[T]) Stats() Stats {
	return Stats{
		ConstructedNodes:      q.stats.constructedNodes.LoadRelaxed(),
		DestructedNodes:       q.stats.destructedNodes.LoadRelaxed(),
		SuccessfulEnqueues:    q.stats.successfulEnqueues.LoadRelaxed(),
		SuccessfulDequeues:    q.stats.successfulDequeues.LoadRelaxed(),
		EmptyDequeues:         q.stats.emptyDequeues.LoadRelaxed(),
		EnqueueLoopIterations: q.stats.enqueueLoops.LoadRelaxed(),
		DequeueLoopIterations: q.stats.dequeueLoops.LoadRelaxed(),
		Sweeps:                q.domain.sweeps.LoadRelaxed(),
	}
}

// Close tears the queue down and reclaims every remaining node: the live
// chain (sentinel included) and all pending retirements across the
// domain's records. After Close on a quiescent queue,
// DestructedNodes == ConstructedNodes.
//
// The caller must guarantee no operation is in flight and none will
// follow. Close is idempotent; it is not safe concurrently with
// anything, itself included.
func (q *MSQueue[T]) Close() {
	if q.closed.Load() {
		return
	}
	q.closed.Store(true)

	for n := q.head.Load(); n != nil; {
		next := n.next.Load()
		q.stats.destructedNodes.Add(1)
		n = next
	}
	q.head.Store(nil)
	q.tail.Store(nil)

	q.domain.Close()
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
