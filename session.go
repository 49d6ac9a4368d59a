// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msq

// Session is scoped ownership of one hazard record. It stands in for
// the thread-local record binding of classic hazard-pointer designs:
// goroutines have no thread identity or exit hooks, so a participant
// checks a record out for the span of an operation and hands it back
// with Release.
//
// A session is single-goroutine. Guards allocated from it must be
// released (in LIFO order) before the session itself.
type Session[P any] struct {
	domain *Domain[P]
	rec    *record[P]
}

// Guard reserves one hazard slot from the session's record.
//
// Panics when maxHazards guards are already live on this session: the
// caller is holding more simultaneous protections than the domain was
// built for, which is a programming error, not a runtime condition.
func (s *Session[P]) Guard() *Guard[P] {
	slot := s.rec.tryAllocSlot()
	if slot == nil {
		panic("msq: hazard pointer limit exceeded (3 per session)")
	}
	return &Guard[P]{session: s, slot: slot}
}

// Release returns the record to the domain for reuse. The retired
// buffer stays with the record; whichever session adopts it next
// continues processing the pending retirements.
//
// Release after the domain has been closed is a no-op: the domain has
// already force-freed every buffer, and a straggling release must not
// resurrect the record.
func (s *Session[P]) Release() {
	if s.domain.closed.Load() {
		return
	}
	s.rec.inUse.StoreRelease(0)
}
