// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import "sync/atomic"

// Guard is a scoped hazard-pointer handle: one slot, protecting at most
// one pointer at a time, for the lifetime of the guard.
type Guard[P any] struct {
	session *Session[P]
	slot    *hazardSlot[P]
}

// Protect publishes the pointer currently held in src and returns it.
// The returned pointer is safe to dereference until the guard is
// released, retired, or re-protected — provided src still referenced it
// at some moment during the call.
//
// The load/publish/reload loop closes the window in which a sweep runs
// between the load and the publication: either the sweep's snapshot sees
// the announcement, or src has moved on by the reload and the loop
// starts over. A single unvalidated store here would let a reclaimer
// free the pointer out from under the caller.
func (g *Guard[P]) Protect(src *atomic.Pointer[P]) *P {
	for {
		p := src.Load()
		g.slot.ptr.Store(p)
		if src.Load() == p {
			return p
		}
	}
}

// Retire hands the guard's current pointer to the record's retired
// buffer for deferred reclamation. The pointer must already be unlinked
// from every shared location; it is freed by a later sweep, once no
// hazard slot in the domain announces it.
//
// A full buffer triggers an inline sweep. A buffer that is still full
// afterwards means more pointers are simultaneously hazardous than the
// domain was sized for; that is fatal, since maxThreads was undersized
// for the workload.
func (g *Guard[P]) Retire() {
	rec := g.session.rec
	p := g.slot.ptr.Load()
	if p == nil {
		panic("msq: retire on empty guard")
	}
	if len(rec.retired) == cap(rec.retired) {
		g.session.domain.sweep(rec)
		if len(rec.retired) == cap(rec.retired) {
			panic("msq: retired buffer overflow, maxThreads undersized for workload")
		}
	}
	rec.retired = append(rec.retired, p)
}

// Release returns the hazard slot to the session. Guards release in
// LIFO order within a session.
func (g *Guard[P]) Release() {
	g.session.rec.releaseSlot(g.slot)
}
