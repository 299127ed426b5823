// Package seqring implements the bounded, doubling FIFO of X11 request
// sequence numbers whose errors the compositor must swallow: region
// destroys racing an already-freed region, pixmap frees racing window
// destruction, damage subtracts racing an unmap. These all complete
// asynchronously, so the only way to tell a benign race from a real
// protocol error is to remember which request sequences we issued
// knowing they might fail.
package seqring

const initialCapacity = 2048

// Ring is a FIFO of monotonically increasing sequence numbers. The zero
// value is not usable; use New.
type Ring struct {
	buf        []uint32
	head, size int
}

// New returns an empty Ring with its initial 2048-entry capacity.
func New() *Ring {
	return &Ring{buf: make([]uint32, initialCapacity)}
}

// Note appends seq, the sequence number of a request about to be issued
// whose errors should be ignored. Callers must note the sequence
// immediately before issuing the request, in issue order.
func (r *Ring) Note(seq uint32) {
	if r.size == len(r.buf) {
		r.grow()
	}
	r.buf[(r.head+r.size)%len(r.buf)] = seq
	r.size++
}

func (r *Ring) grow() {
	bigger := make([]uint32, len(r.buf)*2)
	for i := 0; i < r.size; i++ {
		bigger[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = bigger
	r.head = 0
}

// DropBefore discards leading entries strictly less than seq. Sequence
// numbers wrap at 2^16 on the wire (xgb re-widens them to uint32 using a
// running high-order counter), so plain integer comparison is correct
// here as long as callers pass the widened value.
func (r *Ring) DropBefore(seq uint32) {
	for r.size > 0 && r.buf[r.head] < seq {
		r.head = (r.head + 1) % len(r.buf)
		r.size--
	}
}

// Test drops all entries older than seq and reports whether the
// (now-)head entry equals seq, consuming it if so.
func (r *Ring) Test(seq uint32) bool {
	r.DropBefore(seq)
	if r.size == 0 || r.buf[r.head] != seq {
		return false
	}
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return true
}

// Len reports the number of sequences currently held.
func (r *Ring) Len() int { return r.size }
