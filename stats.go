// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import "code.hybscloud.com/atomix"

// counters is the queue's internal counter block. All counters are
// monotonic and relaxed: they feed tests and capacity planning, never
// the algorithm itself.
type counters struct {
	constructedNodes   atomix.Uint64
	destructedNodes    atomix.Uint64
	successfulEnqueues atomix.Uint64
	successfulDequeues atomix.Uint64
	emptyDequeues      atomix.Uint64
	enqueueLoops       atomix.Uint64
	dequeueLoops       atomix.Uint64
}

// Stats is a point-in-time copy of the queue's counters.
//
// The copy is not a consistent cut: counters are read one by one with
// relaxed ordering, so a snapshot taken during concurrent operation may
// mix adjacent states (e.g. a node counted constructed whose enqueue has
// not yet been counted successful). Once the queue is quiescent the
// snapshot is exact.
type Stats struct {
	// ConstructedNodes counts every node ever allocated, the sentinel
	// included.
	ConstructedNodes uint64
	// DestructedNodes counts nodes reclaimed by sweeps and by Close.
	// Equals ConstructedNodes after Close on a quiescent queue.
	DestructedNodes uint64
	// SuccessfulEnqueues and SuccessfulDequeues count completed
	// operations; EmptyDequeues counts dequeues that found nothing.
	SuccessfulEnqueues uint64
	SuccessfulDequeues uint64
	EmptyDequeues      uint64
	// EnqueueLoopIterations and DequeueLoopIterations accumulate the
	// retry-loop trips of successful operations. Divide by the success
	// counters for the mean contention cost.
	EnqueueLoopIterations uint64
	DequeueLoopIterations uint64
	// Sweeps counts retired-buffer reconciliation passes.
	Sweeps uint64
}
