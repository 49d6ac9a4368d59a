// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"golang.org/x/sys/cpu"
)

// maxHazards is the number of hazard slots per record. Dequeue is the
// widest user: it pins head, tail, and head.next simultaneously.
const maxHazards = 3

// hazardSlot is a single protected-pointer announcement. free is written
// by the owning goroutine and read by reclaimers; ptr is meaningful only
// while free is false.
//
// Slots are padded apart so a reclaimer scanning one slot does not
// bounce the cache line an owner is publishing into.
type hazardSlot[P any] struct {
	free atomix.Bool
	ptr  atomic.Pointer[P]
	_    cpu.CacheLinePad
}

// record is the per-participant state: a fixed stack of hazard slots, a
// retired-pointer buffer, and the intrusive link into the domain's list.
//
// cursor and retired belong exclusively to the current owner; other
// goroutines only read the slots atomically during a hazard sweep. inUse
// hands the record from one owner to the next: the CAS-acquire on
// checkout pairs with the release store in Session.Release, so a new
// owner observes its predecessor's retired buffer and continues
// processing it.
type record[P any] struct {
	hazards [maxHazards]hazardSlot[P]
	inUse   atomix.Uint64
	next    atomic.Pointer[record[P]]

	// Owner-only. Not atomic: ownership transfers through inUse.
	cursor  int
	retired []*P
}

func newRecord[P any](retiredCap int) *record[P] {
	r := &record[P]{retired: make([]*P, 0, retiredCap)}
	for i := range r.hazards {
		r.hazards[i].free.Store(true)
	}
	return r
}

// tryAllocSlot pushes one hazard slot off the record's stack.
// Returns nil when all maxHazards slots are live.
func (r *record[P]) tryAllocSlot() *hazardSlot[P] {
	if r.cursor >= maxHazards {
		return nil
	}
	s := &r.hazards[r.cursor]
	r.cursor++
	s.free.StoreRelease(false)
	return s
}

// releaseSlot pops the top hazard slot. Guards must release in LIFO
// order within a session; the cursor only moves correctly for the
// current top, so anything else is rejected outright.
func (r *record[P]) releaseSlot(s *hazardSlot[P]) {
	if r.cursor == 0 || s != &r.hazards[r.cursor-1] {
		panic("msq: hazard guard released out of LIFO order")
	}
	s.ptr.Store(nil)
	s.free.StoreRelease(true)
	r.cursor--
}
