// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package msq provides an unbounded lock-free multi-producer
// multi-consumer FIFO queue built on hazard-pointer memory reclamation.
//
// The queue is the classic Michael & Scott linked queue: producers link
// nodes at tail with CAS, consumers swing head forward with CAS, and
// either side helps a tail that lags behind a half-finished enqueue.
// Because nodes are unlinked concurrently from arbitrary goroutines, a
// consumer cannot simply drop the old sentinel: another operation may
// still be comparing against its address. Unlinked nodes are instead
// retired into a hazard-pointer domain and released only once no
// in-flight operation announces them.
//
// # Quick Start
//
//	q := msq.NewMSQueue[int](runtime.GOMAXPROCS(0))
//	defer q.Close()
//
//	// Enqueue (never blocks, unbounded)
//	v := 42
//	_ = q.Enqueue(&v)
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if msq.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Sizing
//
// NewMSQueue takes maxThreads, the upper bound on goroutines operating
// on the queue at the same moment. It sizes the retired-pointer buffers
// (3*maxThreads+1 per participant); it does not bound how many
// goroutines may ever use the queue, since participants hand their
// reclamation state back when an operation completes. Undersizing shows
// up as a "retired buffer overflow" panic under load; when in doubt,
// size for GOMAXPROCS.
//
// # Common Patterns
//
// Work distribution (any number of producers and consumers):
//
//	q := msq.NewMSQueue[Task](16)
//
//	for range numWorkers {
//	    go func() {
//	        backoff := iox.Backoff{}
//	        for {
//	            task, err := q.Dequeue()
//	            if err != nil {
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            task.Execute()
//	        }
//	    }()
//	}
//
//	// Submit from anywhere; Enqueue never applies backpressure.
//	func Submit(t Task) {
//	    _ = q.Enqueue(&t)
//	}
//
// # Memory Reclamation
//
// The hazard-pointer domain is exposed for reuse with other lock-free
// structures. A participant checks out a [Session], pins shared pointers
// through [Guard.Protect], and retires unlinked nodes with
// [Guard.Retire]:
//
//	d := msq.NewDomain[Node](maxThreads, freeNode)
//
//	s := d.Session()
//	defer s.Release()
//	g := s.Guard()
//	defer g.Release()
//
//	n := g.Protect(&shared)   // safe to dereference while guarded
//	...
//	g.Retire()                // after n was unlinked from shared state
//
// Guards release in LIFO order within a session; at most three guards
// may be live per session. Violating either limit panics: both are
// programming errors, not runtime conditions.
//
// # Ordering Guarantees
//
// Elements from a single producer dequeue in that producer's program
// order. Across producers the only order is the one implied by the
// linearization points: an enqueue takes effect at its successful
// tail-link CAS, a dequeue at its successful head-swing CAS.
//
// # Observability
//
// [MSQueue.Stats] exposes monotonic counters: nodes constructed and
// destructed, successful and empty operations, retry-loop iterations,
// and reclamation sweeps. After Close on a quiescent queue,
// constructed always equals destructed.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm
// verification. The detector tracks explicit synchronization primitives
// but cannot observe happens-before established through atomic
// acquire/release orderings on separate variables: hazard records hand
// off between goroutines through an inUse flag, and the record-local
// buffers it protects trip false positives. The algorithms are correct;
// tests incompatible with race detection are skipped via RaceEnabled.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for flag and counter atomics with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions
// in retry loops, and [golang.org/x/sys/cpu] for cache-line padding.
// Pointer links use the standard library's atomic.Pointer so the garbage
// collector can scan them.
package msq
