// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Domain is a hazard-pointer reclamation domain: a registry of records
// whose hazard slots announce in-use pointers, plus the sweep protocol
// that frees retired pointers once nothing announces them.
//
// A Domain is parameterized by the pointed-to type P and a free
// function. The free function is invoked exactly once per retired
// pointer, on the goroutine running the sweep (or Close); it must not
// call back into the domain.
//
// The record list is prepend-only and never shrinks. A domain sized for
// maxThreads concurrent participants grows past maxThreads records only
// when more than maxThreads operations are genuinely in flight at once;
// the retired buffers are sized for the configured bound, so exceeding
// it can surface later as a retired-buffer overflow.
type Domain[P any] struct {
	head   atomic.Pointer[record[P]]
	closed atomix.Bool
	sweeps atomix.Uint64

	freeFn     func(*P)
	retiredCap int
}

// NewDomain creates a reclamation domain sized for maxThreads concurrent
// participants. free is called for every reclaimed pointer.
//
// Panics if maxThreads < 1 or free is nil.
func NewDomain[P any](maxThreads int, free func(*P)) *Domain[P] {
	if maxThreads < 1 {
		panic("msq: maxThreads must be >= 1")
	}
	if free == nil {
		panic("msq: free function must not be nil")
	}
	// One above maxHazards*maxThreads: at most that many pointers can be
	// hazardous system-wide, so a full buffer always holds at least one
	// freeable entry.
	return &Domain[P]{
		freeFn:     free,
		retiredCap: maxHazards*maxThreads + 1,
	}
}

// Session checks out a record for the calling goroutine. Abandoned
// records are reused before new ones are allocated, so the record
// population tracks peak concurrency rather than the total number of
// goroutines that ever participated.
//
// The caller must Release the session on every exit path and must not
// share it across goroutines.
func (d *Domain[P]) Session() *Session[P] {
	if d.closed.Load() {
		panic("msq: session on closed domain")
	}
	for r := d.head.Load(); r != nil; r = r.next.Load() {
		if r.inUse.LoadRelaxed() == 0 && r.inUse.CompareAndSwapAcqRel(0, 1) {
			return &Session[P]{domain: d, rec: r}
		}
	}

	r := newRecord[P](d.retiredCap)
	r.inUse.StoreRelaxed(1)
	for {
		head := d.head.Load()
		r.next.Store(head)
		if d.head.CompareAndSwap(head, r) {
			return &Session[P]{domain: d, rec: r}
		}
	}
}

// collect snapshots every pointer currently announced by any hazard slot
// in the domain. The snapshot need not be consistent across slots: it is
// enough that a pointer protected before the walk began is present.
func (d *Domain[P]) collect() map[*P]struct{} {
	used := make(map[*P]struct{}, maxHazards*8)
	for r := d.head.Load(); r != nil; r = r.next.Load() {
		if r.inUse.LoadAcquire() == 0 {
			continue
		}
		for i := range r.hazards {
			s := &r.hazards[i]
			if s.free.LoadAcquire() {
				continue
			}
			if p := s.ptr.Load(); p != nil {
				used[p] = struct{}{}
			}
		}
	}
	return used
}

// sweep reconciles rec's retired buffer against the global hazard
// snapshot: entries still announced somewhere survive, the rest are
// freed and the survivors compacted in place. Owner-only; rec must be
// checked out by the calling goroutine.
func (d *Domain[P]) sweep(rec *record[P]) {
	d.sweeps.Add(1)

	if len(rec.retired) == 0 {
		return
	}
	used := d.collect()
	n := len(rec.retired)
	live := rec.retired[:0]
	for _, p := range rec.retired {
		if _, ok := used[p]; ok {
			live = append(live, p)
		} else {
			d.freeFn(p)
		}
	}
	for i := len(live); i < n; i++ {
		rec.retired[i] = nil
	}
	rec.retired = live
}

// Close force-frees every pending retirement in the domain. The caller
// must guarantee quiescence: no live session, no guard, no concurrent
// operation on any structure the domain protects. With no readers left
// the hazard check no longer applies.
//
// After Close, Session panics and Release becomes a no-op. Close is
// idempotent.
func (d *Domain[P]) Close() {
	if d.closed.Load() {
		return
	}
	d.closed.Store(true)

	for r := d.head.Load(); r != nil; r = r.next.Load() {
		for i, p := range r.retired {
			d.freeFn(p)
			r.retired[i] = nil
		}
		r.retired = r.retired[:0]
	}
}
